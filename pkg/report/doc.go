/*
Package report assembles the narrated report.

	+-----------+   Add*    +-----------+  Finalize  +-------------+
	| handlers  | --------> | Document  | ---------> | PDFRenderer |
	+-----------+           | (append-  |            |  (go-pdf)   |
	                        |   only)   |            +------+------+
	                        +-----------+                   |
	                                                  atomic write

🎯 Purpose:
- Holds the ordered element sequence (headings, paragraphs, code, bullets,
  images, tables, spacers, rules, page breaks)
- Enforces the run lifecycle: Uninitialized, ContextBuilt, Assembling,
  Finalized
- Sizes images proportionally and converts bitmaps to PNG
- Renders once to A4 pages with running page numbers

Elements are never mutated once appended. Finalize may run only once; a run
that fails part way calls it with whatever was accumulated.
*/
package report
