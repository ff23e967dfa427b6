package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// NodeKind discriminates the three shapes a configuration value can take.
type NodeKind int

const (
	// KindScalar is a concrete value: string, number or bool.
	KindScalar NodeKind = iota
	// KindMapping is a block scope: ordered keys mapping to child nodes.
	KindMapping
	// KindDynamic is an unevaluated attempt-dependent expression.
	KindDynamic
)

// Node is one vertex of a configuration tree. A Node is exactly one of a
// scalar, a mapping, or a dynamic value. Mappings preserve key insertion
// order so that diagnostics and resolved output stay deterministic.
//
// A Dynamic node never nests further dynamics; the parser enforces this
// because a dynamic is always a leaf expression.
type Node struct {
	kind    NodeKind
	scalar  cty.Value
	keys    []string
	entries map[string]*Node
	dynamic *Dynamic
}

// Dynamic is a parsed but unevaluated attempt-dependent expression, such as
// `task.attempt <= 7 ? 'retry' : 'ignore'`. The wrapped hcl.Expression is
// validated at load time; evaluation happens per attempt in the dynamic
// package.
type Dynamic struct {
	// Source is the expression text as written in the fragment, kept for
	// diagnostics and for structural equality of trees.
	Source string
	Expr   hcl.Expression
	Range  hcl.Range
}

// NewScalar returns a scalar leaf node.
func NewScalar(v cty.Value) *Node {
	return &Node{kind: KindScalar, scalar: v}
}

// NewMapping returns an empty mapping node.
func NewMapping() *Node {
	return &Node{kind: KindMapping, entries: make(map[string]*Node)}
}

// NewDynamic returns a dynamic leaf node.
func NewDynamic(d *Dynamic) *Node {
	return &Node{kind: KindDynamic, dynamic: d}
}

// Kind reports which shape this node has.
func (n *Node) Kind() NodeKind { return n.kind }

// Scalar returns the concrete value of a KindScalar node.
func (n *Node) Scalar() cty.Value { return n.scalar }

// Dynamic returns the expression of a KindDynamic node.
func (n *Node) Dynamic() *Dynamic { return n.dynamic }

// Keys returns the mapping's keys in insertion order. The returned slice
// is shared; callers must not modify it.
func (n *Node) Keys() []string { return n.keys }

// Len returns the number of entries in a mapping node.
func (n *Node) Len() int { return len(n.keys) }

// Get looks up a child of a mapping node.
func (n *Node) Get(key string) (*Node, bool) {
	child, ok := n.entries[key]
	return child, ok
}

// Set inserts or replaces a child of a mapping node, preserving the
// position of an already-present key. Only tree builders (the parser and
// the merge engine) call this; built layers are never mutated.
func (n *Node) Set(key string, child *Node) {
	if _, exists := n.entries[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.entries[key] = child
}

// GetPath descends through nested mappings following path. It returns
// false if any step is absent or not a mapping.
func (n *Node) GetPath(path ...string) (*Node, bool) {
	cur := n
	for _, key := range path {
		if cur.kind != KindMapping {
			return nil, false
		}
		next, ok := cur.entries[key]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Equal reports deep structural equality, including mapping key order.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case KindScalar:
		return n.scalar.RawEquals(other.scalar)
	case KindDynamic:
		return n.dynamic.Source == other.dynamic.Source
	case KindMapping:
		if len(n.keys) != len(other.keys) {
			return false
		}
		for i, key := range n.keys {
			if other.keys[i] != key {
				return false
			}
			if !n.entries[key].Equal(other.entries[key]) {
				return false
			}
		}
		return true
	}
	return false
}
