// Package graph is the facade an editor session talks to. It owns the
// topology store, the resolution engine and the event bus of one session and
// keeps the three consistent.
//
// # Responsibilities
//
//   - Node lifecycle: CreateNode, UpdateNode and DestroyNode mutate the store
//     through copy-on-write snapshots, so the maps handed to observers are
//     never edited afterwards.
//   - Connection management: CreateConnection validates candidate edges (no
//     cycle, both pins declared, compatible data kinds) before recording them;
//     DestroyConnection removes a single wire by destination or every wire
//     leaving a source pin.
//   - Resolution: Resolve and Render delegate to the memoizing resolver.
//     Rewiring a node invalidates its cached output and everything downstream.
//   - Notification: every mutation emits an event carrying the full node map
//     and connection index after the change.
//
// # Acyclicity
//
// The connection graph, seen as a directed graph over node ids, is acyclic at
// all times. CreateConnection walks the existing wiring forward from the
// destination node; if the walk reaches the source node the edge would close
// a cycle and is rejected. Because the graph stays acyclic, recursive
// resolution and invalidation always terminate.
//
// # Concurrency
//
// A Manager is not safe for concurrent use. Every operation runs to
// completion on the caller's stack, including event delivery. Handlers must
// not mutate the graph from within a callback.
package graph
