// Package profile holds the named profiles declared across all loaded
// fragments and activates them by name. The registry is an explicit
// immutable value built once at load time; there is no process-wide
// profile state.
package profile

import (
	"github.com/vk/layerconf/internal/config"
	"github.com/vk/layerconf/internal/merge"
)

// Registry is the set of declared profiles. A profile re-declared by a
// later fragment keeps both occurrences; activation merges them in
// declaration order, later overriding earlier.
type Registry struct {
	order []string
	decls map[string][]config.ProfileDecl
}

// NewRegistry builds a registry from the declarations the loader found,
// preserving declaration order.
func NewRegistry(decls []config.ProfileDecl) *Registry {
	r := &Registry{decls: make(map[string][]config.ProfileDecl)}
	for _, decl := range decls {
		if _, seen := r.decls[decl.Name]; !seen {
			r.order = append(r.order, decl.Name)
		}
		r.decls[decl.Name] = append(r.decls[decl.Name], decl)
	}
	return r
}

// Names returns the declared profile names in declaration order.
func (r *Registry) Names() []string {
	return append([]string{}, r.order...)
}

// Activate produces one layer per requested profile, in request order.
// Selector overrides declared inside a profile are attached to its layer,
// not merged into the tree, so selector precedence applies uniformly.
// An unknown name fails with UnknownProfileError: silently falling back
// to defaults would change executor backend and resource limits.
func (r *Registry) Activate(names []string) ([]config.Layer, error) {
	var layers []config.Layer
	for _, name := range names {
		decls, ok := r.decls[name]
		if !ok {
			return nil, &config.UnknownProfileError{Name: name, Known: r.Names()}
		}
		trees := make([]*config.Node, 0, len(decls))
		var selectors []config.Selector
		for _, decl := range decls {
			trees = append(trees, decl.Root)
			selectors = append(selectors, decl.Selectors...)
		}
		layers = append(layers, config.Layer{
			Provenance: config.ProfileProvenance(name),
			Root:       merge.Trees(trees...),
			Selectors:  selectors,
		})
	}
	return layers, nil
}
