// Package loader implements incremental decoding of JSON performance-trace
// documents into batches of records.
//
// A trace document is either a bare top-level JSON array of records, or a
// JSON object carrying such an array under a wrapper key (by default
// "traceEvents"). The Loader receives the document as ordered text fragments
// with arbitrary boundaries, re-assembles complete records with a bounded
// working set, and pushes decoded batches to a Model. Documents far larger
// than available memory decode in constant space plus one fragment.
//
// # Decoding Workflow
//
//	loader, err := loader.NewLoader(model,
//	    loader.WithProgress(progress),
//	    loader.WithDiagnostics(diag),
//	)
//	for fragment := range fragments {
//	    if _, err := loader.Write(fragment); err != nil {
//	        break // session terminated: cancelled, malformed, or legacy
//	    }
//	}
//	err = loader.Close()
//
// The Loader is push-driven and single-producer: Write calls must be
// serialized and arrive in transport order. Cancellation is cooperative,
// observed at the top of each Write through the Progress sink.
//
// # Collaborators
//
// The package also provides the two transfer-lifecycle adapters that sit on
// either side of the Loader:
//
//   - Relay bridges a chunked transport's lifecycle callbacks to progress
//     reporting and consumer cleanup, including exact percentages for
//     file-origin loads and transport error mapping.
//   - ArrayWriter brackets a sequence of pre-serialized record fragments
//     with '[' and ']' when writing a trace back out.
package loader
