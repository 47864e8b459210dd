// Package topology holds the authoritative node set of an editing session
// and the two connection indexes derived from it.
//
// # Indexes
//
// Every connection is recorded twice:
//   - **By destination:** input pin id -> connection. An input pin has at most
//     one source, so this index is a plain map.
//   - **By source:** output pin id -> connections. An output pin may feed any
//     number of inputs (fan-out). Lists are kept sorted by destination pin id
//     so that the index does not depend on the order connections were made.
//
// The destination node's InputPins entry always mirrors the destination index.
//
// # Snapshots
//
// The node map and the destination index are copy-on-write: every mutation
// builds new maps and new node values, so a snapshot returned by Nodes or
// Connections is never modified afterwards and can be handed to observers as
// a full replacement state.
//
// The store performs no validation. Pin existence, type compatibility and
// acyclicity are checked by the caller before linking.
package topology
