/*
Package narrate turns project files into report elements.

	+------------------+     +------------+     +-----------------+
	| ProcessKeyFiles  | --> |            | --> | code, notebook, |
	+------------------+     | Dispatcher |     | image, workbook,|
	| ExploreDirectory | --> |            |     | csv, docx, md,  |
	+------------------+     +-----+------+     | other           |
	                               |            +-----------------+
	                        ProcessedFileSet

Every file goes through Dispatch exactly once: the key-file pass records
what it narrated, and the directory walk skips those paths. A handler error
becomes an inline "Error processing this ..." paragraph and the walk moves on.
Only context cancellation stops a pass.
*/
package narrate
