// Package mock provides an instrumented format.Adapter for tests.
//
// A MockAdapter replays a scripted list of source units. Each unit either
// produces a fragment, is skipped, or fails. The adapter counts how often it
// was invoked, how many units it has extracted and whether the resources of
// each run were released, so tests can check laziness and cleanup.
//
//	adapter := mock.NewMockAdapter(
//	    mock.Unit("first"),
//	    mock.Skipped(),
//	    mock.Unit("third"),
//	)
//	for frag, err := range adapter.Ingest(core.TextPayload("")) { ... }
//	adapter.Extractions() // units decoded so far
package mock
