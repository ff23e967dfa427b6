// Package merge implements the deterministic deep merge over ordered
// configuration trees. Merging is pure: input trees are never mutated,
// and unchanged subtrees are shared with the output.
package merge

import "github.com/vk/layerconf/internal/config"

// Layers merges a layer sequence lowest-precedence-first into one tree.
// Nil or empty layer roots are skipped.
func Layers(layers []config.Layer) *config.Node {
	trees := make([]*config.Node, 0, len(layers))
	for _, layer := range layers {
		if layer.Root != nil {
			trees = append(trees, layer.Root)
		}
	}
	return Trees(trees...)
}

// Trees merges trees left to right, the later tree taking precedence.
// Merging the same sequence twice yields an Equal tree; merging a tree
// with itself yields an Equal tree (idempotence).
func Trees(trees ...*config.Node) *config.Node {
	merged := config.NewMapping()
	for _, tree := range trees {
		merged = mergeNodes(merged, tree)
	}
	return merged
}

// mergeNodes applies the precedence rule at one position: two mappings
// merge keywise, anything else is replaced wholesale by the later value.
// A later mapping never discards keys the earlier mapping set; a later
// scalar replaces an entire earlier subtree.
func mergeNodes(base, over *config.Node) *config.Node {
	if over == nil {
		return base
	}
	if base == nil {
		return over
	}
	if base.Kind() != config.KindMapping || over.Kind() != config.KindMapping {
		return over
	}

	out := config.NewMapping()
	for _, key := range base.Keys() {
		b, _ := base.Get(key)
		if o, ok := over.Get(key); ok {
			out.Set(key, mergeNodes(b, o))
		} else {
			out.Set(key, b)
		}
	}
	for _, key := range over.Keys() {
		if _, ok := base.Get(key); ok {
			continue
		}
		o, _ := over.Get(key)
		out.Set(key, o)
	}
	return out
}
