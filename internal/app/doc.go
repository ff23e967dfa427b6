// Package app is the composition root: it wires the fragment loader,
// profile activation, and the resolution engine together behind a single
// Config, and owns the process-level concerns of logging and output.
package app
