/*
Package generate runs the whole report pipeline for one project.

	scan ──> cover, contents ──> executive summary, overview
	     ──> key files ──> sections (Code, Data, Output)
	     ──> additional files ──> conclusion ──> finalize

Run is the only entry point. It builds the project context, wires a
narrate.Dispatcher to a fresh report.Document and writes the result. A run
that fails after assembly started still writes what it has.
*/
package generate
