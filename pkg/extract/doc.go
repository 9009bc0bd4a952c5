// Package extract holds the pure text extraction used by the narration
// handlers: notebook technical content, markdown headings, markdown cleanup
// and Word document paragraphs. Every function is deterministic and
// idempotent for the same input.
package extract
