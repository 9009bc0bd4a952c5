/*
Package summarize talks to the external summarization service.

	+------------+     +-------+     +-------+     +------------------+
	| Summarizer | --> | Cache | --> | Retry | --> | Gemini or Ollama |
	+------------+     +-------+     +-------+     +------------------+

🎯 Purpose:
- One synchronous completion per narrated artifact
- Fixed system instruction, per-artifact prompt builders
- Fixed-delay retries, then a placeholder string instead of an error

Summarize never returns an error. A missing key or a provider of "none"
produces the Unavailable placeholder, and exhausted retries produce an
"Error querying summarization service" line, so a run always completes.
*/
package summarize
