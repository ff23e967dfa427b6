// Package selector matches process-scoped overrides against a concrete
// process instance name and overlays them onto a merged tree. Patterns
// are exact identifier matches; selectors always apply after all layer
// merging, so a selector wins over any profile-general value regardless
// of which layer declared it.
package selector

import (
	"github.com/vk/layerconf/internal/config"
	"github.com/vk/layerconf/internal/merge"
)

// Match returns the selectors whose pattern equals processName, preserving
// their declaration order across the stack. An empty result is the common
// case, not an error: the process then uses the general configuration
// unchanged.
func Match(processName string, selectors []config.Selector) []config.Selector {
	var matched []config.Selector
	for _, sel := range selectors {
		if sel.Process == processName {
			matched = append(matched, sel)
		}
	}
	return matched
}

// Overlay applies matched selectors onto base in order, later-declared
// winning on conflict. Each selector's overrides are grafted at the block
// path it was declared under, so it overrides only the keys it explicitly
// sets; everything else falls through to base. The input tree is not
// mutated.
func Overlay(base *config.Node, matched []config.Selector) *config.Node {
	if len(matched) == 0 {
		return base
	}
	trees := make([]*config.Node, 0, len(matched)+1)
	trees = append(trees, base)
	for _, sel := range matched {
		trees = append(trees, graft(sel.Scope, sel.Overrides))
	}
	return merge.Trees(trees...)
}

// graft wraps overrides in mappings so they sit at the given scope path.
func graft(scope []string, overrides *config.Node) *config.Node {
	tree := overrides
	for i := len(scope) - 1; i >= 0; i-- {
		wrapper := config.NewMapping()
		wrapper.Set(scope[i], tree)
		tree = wrapper
	}
	return tree
}
