/*
Package pinid encodes and decodes pin identifiers.

A pin identifier names one input or output slot of one node as a single
string key of the form `<nodeID>.<pinName>`, e.g. `4f1c...e2.sum`.

Node ids and pin names must not contain the separator; the codec does not
enforce this, so callers should only decode identifiers produced by Encode.
*/
package pinid
