/*
Package status manages file persistence and outcome tracking for rewriterc.

	            +-------------+
	            |   Status    |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Store   |           | Summary |
	| (Files)   |           | (Counts)|
	+-----------+           +---------+

🎯 Purpose:
- Reads files and writes back changed content in place
- Describes each file's outcome: unchanged, modified or failed
- Aggregates outcomes into the run summary

⚡ Key Responsibilities:
- Scoped file access (every opened file is closed by the caller)
- Keeping file permissions when rewriting
- Counting without deciding: the operation package decides, status records
*/
package status
