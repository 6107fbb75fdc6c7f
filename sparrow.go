// Package sparrow declares typed entity schemas and constructs entities from
// loosely typed attribute bags.
//
// Schemas live in core/schema, coercion in core/coerce, construction in
// core/entity and label lookup in core/terminology. The bootstrap package
// wires them together from a config file; cmd/sparrow exposes them on the
// command line.
package sparrow

// Version is the library version.
const Version = "0.1.4"
