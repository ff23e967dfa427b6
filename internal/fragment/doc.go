// Package fragment implements the configuration fragment loader: a scanner
// and recursive-descent parser for the nested-block fragment grammar, plus
// include resolution with cycle detection.
//
// A fragment is a text file of scalar assignments (`key = value`), nested
// blocks (`name { ... }`), selector-scoped assignments
// (`$process.key = value`), dynamic value closures
// (`key = { task.attempt <= 7 ? 'retry' : 'ignore' }`), named profiles
// (`profiles { name { ... } }`) and include directives
// (`includeConfig "path"`). The loader turns a root fragment and its
// transitive includes into an ordered list of config.Layer values plus the
// profile declarations found along the way.
package fragment
