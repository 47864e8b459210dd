// Package registry maps node type names to their descriptors.
//
// A descriptor is the complete contract of a node type: the ordered schema
// of its input and output pins, the constructor used when a node of that type
// is placed, the compute function used during resolution, and an optional
// render hook. Everything that depends on a node's type goes through the
// registry, so neither the resolver nor the event layer branch on type names.
//
// Types are usually registered by modules at application startup. Registering
// the same type name again replaces the earlier descriptor, which lets a UI
// layer attach a render hook to a descriptor that was registered as plain data.
package registry
