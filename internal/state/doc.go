// Package state shares the latest API probe between the background poller
// and the UI.
//
// The Store is written by a single poller goroutine and read by the Bubble
// Tea update loop. Update keeps the previous probe data when a probe fails
// and only records the error, so the indicator can distinguish "never
// reached" from "reached, now failing":
//
//	store.Update(info, health, nil)  // connected
//	store.Update(nil, nil, err)      // error, previous info kept
//
// Snapshot returns a copy; callers may hold it across renders.
package state
