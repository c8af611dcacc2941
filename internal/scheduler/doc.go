// Package scheduler drives simulated time forward for a stream: drivers
// produce scheduled signals, triggers convert a fired signal into event
// drafts appended to the event store.
//
// Firing order is strictly (tick, sphere_id, tie-break) ascending — two
// signals scheduled for the same tick and sphere fire in the order they
// were enqueued, never in an order a map or goroutine schedule happens
// to produce.
package scheduler
