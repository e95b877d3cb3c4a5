// Package jot provides a memory-compact representation of JSON-like values.
//
// A Value is a single machine word. Null, false and true are immediate
// words; numbers, strings, arrays and objects are handles into per-kind
// stores, with the two low bits of the word carrying the kind tag. Small
// integers, the empty string and empty collections resolve to static
// records and never allocate.
//
// Strings are interned process-wide: byte-equal contents collapse to one
// reference-counted record, so string equality is a word comparison and
// object keys are deduplicated across every resident document.
//
// Values are reference counted rather than garbage collected. Clone
// increments the refcount of the pointed-to record and Drop decrements it;
// composites release their children recursively when the last handle goes
// away. Mutating a composite through a shared handle copies it first, so
// clones stay cheap and independent.
package jot
