/*
Package status tracks which project files have been narrated into the report.

🎯 Purpose:
- Guarantees every file is narrated at most once (ProcessedFileSet)
- Records the outcome of each handler (narrated, listed, failed)
- Formats per-file events and progress for the console

🔄 Flow:
1. The key-file pass adds matched files before narrating them
2. The directory walk skips anything already in the set
3. Handler outcomes update the recorded status
4. The CLI prints a per-kind tally from the set at the end of a run
*/
package status
