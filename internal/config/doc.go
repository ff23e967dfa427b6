// Package config defines the format-agnostic configuration model for the
// engine: the Node tree, Layer and Stack, selector-scoped overrides, the
// per-attempt RuntimeContext, and the load-time error taxonomy.
//
// Values in this model are immutable once a Layer is built. The fragment
// parser is the only producer; the merge and resolution packages are pure
// consumers and never mutate a Node in place.
package config
