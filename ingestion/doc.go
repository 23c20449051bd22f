// Package ingestion turns raw document payloads into ordered, numbered pages.
//
// A Pipeline holds a registry mapping each content type to one format
// adapter. Process resolves the adapter for the declared content type and
// returns a lazy sequence of pages:
//   - page numbers are assigned by the pipeline, starting at 0 with no gaps,
//     in the order the adapter emits fragments
//   - every page carries the caller's document id and metadata unchanged
//   - nothing is decoded until the consumer pulls, and stopping early
//     releases whatever the adapter acquired
//
// An unregistered content type fails before any adapter runs with an
// *UnsupportedTypeError. Adapter errors end the sequence and reach the
// caller unchanged; pages already yielded stay valid.
//
// Runner processes many documents concurrently on an ants worker pool,
// handing pages to a Sink.
package ingestion
