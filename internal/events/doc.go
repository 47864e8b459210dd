// Package events is the synchronous publish/subscribe bus the graph manager
// uses to notify observers (renderers, bridges, tests) about mutations.
//
// Handlers run on the caller's stack, in subscription order, before the
// mutating call returns. A handler must not mutate the graph it observes.
//
// Payloads carry full replacement snapshots of the node map and connection
// index rather than deltas, so an observer can redraw from a single event.
package events
