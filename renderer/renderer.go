// Package renderer turns scan reports and ledger summaries into markdown
// documents, ready for the terminal or a file.
package renderer
