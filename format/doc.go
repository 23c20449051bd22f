// Package format defines the contract between the ingestion pipeline and
// the per-format adapters that turn a raw payload into text fragments.
//
// An Adapter returns a lazy iter.Seq2 of fragments. Nothing is decoded until
// the consumer pulls, and any resource the adapter acquires is released when
// the sequence ends, whether by exhaustion, by an early break or by error.
//
// Concrete adapters live in the subpackages (text, markdown, html, pdf, docx,
// xlsx, loader). Detect maps file names and sniffed content to content types.
package format
