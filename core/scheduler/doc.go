// Package scheduler runs batch publish and pull cycles on a timer, on demand and
// when local lore files change.
//
// At most one cycle runs at a time. A request made while a cycle is running is
// dropped with ErrBusy rather than queued. Stop waits for the running cycle up to
// the configured grace period and cancels it after that.
package scheduler
