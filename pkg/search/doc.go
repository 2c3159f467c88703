// Package search owns the loaded record set and answers searches for the
// CLI, the JSON API and the web UI.
//
// # Overview
//
// A Service wraps a source loader and a result engine. Loading replaces the
// engine behind an atomic pointer, so searches running concurrently with a
// reload always see one complete record set: the old one or the new one.
//
// # Lifecycle
//
//   - NewService builds a service with an empty record set in the loading
//     state. Searches return an empty page until the first load finishes.
//   - Load runs the loader synchronously. LoadAsync runs it in a goroutine.
//   - A successful load swaps in a new engine and moves to ready.
//   - A failed load swaps in an empty engine, stores the load failure and
//     moves to failed. Search then returns the failure alongside an empty
//     page so renderers can show a single error message.
//
// Every load publishes a realtime event when a hub is configured, so live
// sessions can re-run their current query.
//
// # Usage
//
//	svc, err := search.FromConfig(cfg, diag.NewLogSink("source"), hub)
//	if err != nil {
//		return err
//	}
//	svc.LoadAsync(ctx)
//
//	state := session.Decode(r.URL.Query(), svc.SessionOptions())
//	results, err := svc.Search(state)
package search
