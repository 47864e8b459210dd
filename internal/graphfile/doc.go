// Package graphfile reads and writes the serialized form of a graph: a flat
// mapping from node id to node record, as returned by graph.Manager.Export
// and accepted by graph.Manager.Restore.
//
// Three encodings are supported and picked by file extension:
//
//	.hcl          one `node "<id>" { ... }` block per node
//	.json         an object keyed by node id
//	.yaml, .yml   a mapping keyed by node id
//
// In every encoding the node id is the map key (or block label); an id field
// inside the record is overwritten by it on decode. Numbers inside node data
// always decode to float64, whatever the encoding.
package graphfile
