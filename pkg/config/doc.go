// Package config manages configuration parsing and validation for rewriterc.
//
//	            +-------------+
//	            |   Config    |
//	            | (Settings)  |
//	            +------+------+
//	                   |
//	      +------------+------------+
//	      |            |            |
//	+-----+----+  +----+----+  +----+----+
//	|   YAML   |  |   HCL   |  |  JSON   |
//	+----------+  +---------+  +---------+
//
// 🎯 Purpose:
// - Holds everything a run needs: root, extension, excludes, rule parameters
// - Loads optional config files in several formats
// - Fills defaults so that an empty config reproduces the built-in behaviour
//
// 🔄 Flow:
// 1. Start from a file (LoadConfig) or from Default()
// 2. Command line flags override individual values
// 3. Validate checks markers, globs and the rule sequence
// 4. Rules builds the ordered text rules handed to the operation package
//
// 🔍 Example (.rewriterc.hcl):
//
//	root      = env.PROJECT_ROOT
//	extension = ".java"
//	exclude   = ["**/target", "**/generated/**"]
//
//	replace {
//	  from = "作者：马丁"
//	  to   = "作者：杨潇"
//	}
//
//	strip {
//	  keyword = "加项目群"
//	}
package config
