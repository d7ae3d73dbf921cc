/*
Package operation implements the rewrite run for rewriterc.

	                +-------------+
	                |  Rewriter   |
	                |   (Run)     |
	                +------+------+
	                       |
	     +-----------+-----+------+------------+
	     |           |            |            |
	+----+----+ +----+----+ +-----+----+ +-----+----+
	| Source  | |  Store  | | Replacer | | Console  |
	| (Walk)  | | (Files) | | (Rules)  | | (Report) |
	+---------+ +---------+ +----------+ +----------+

🎯 Purpose:
- Discovers candidate files once, before any file is touched
- Applies the ordered rules to each file independently
- Writes a file only when its content changed

⚡ Key Responsibilities:
- A failing file is recorded and the run goes on
- An unreadable root aborts the run with no summary
- Dry runs attach a line diff instead of writing
*/
package operation
