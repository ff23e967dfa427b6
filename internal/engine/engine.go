package engine

import (
	"context"
	"strings"

	"github.com/vk/layerconf/internal/config"
	"github.com/vk/layerconf/internal/ctxlog"
	"github.com/vk/layerconf/internal/fragment"
	"github.com/vk/layerconf/internal/merge"
	"github.com/vk/layerconf/internal/profile"
)

// Engine holds the merged base tree and the ordered selector list. Both
// are immutable after Load, so an Engine may be shared freely across
// goroutines without locking.
type Engine struct {
	base      *config.Node
	selectors []config.Selector
	profiles  []string
}

// Load builds an Engine from the root fragment path and the profiles to
// activate. Any failure is fatal: no partial configuration is ever
// produced, because a silently dropped layer could change effective
// resource limits or retry policy for every task downstream.
func Load(ctx context.Context, loader config.Loader, rootPath string, profiles []string) (*Engine, error) {
	logger := ctxlog.FromContext(ctx)

	fragmentLayers, decls, err := loader.Load(ctx, rootPath)
	if err != nil {
		return nil, err
	}

	registry := profile.NewRegistry(decls)
	profileLayers, err := registry.Activate(profiles)
	if err != nil {
		return nil, err
	}
	logger.Debug("Profiles activated.", "requested", profiles, "declared", registry.Names())

	stack := &config.Stack{Layers: make([]config.Layer, 0, len(fragmentLayers)+len(profileLayers)+1)}
	stack.Layers = append(stack.Layers, fragment.DefaultsLayer())
	stack.Layers = append(stack.Layers, fragmentLayers...)
	stack.Layers = append(stack.Layers, profileLayers...)

	base := merge.Layers(stack.Layers)
	selectors := stack.Selectors()
	logger.Debug("Layer stack merged.", "layers", len(stack.Layers), "selectors", len(selectors))
	for _, sel := range selectors {
		logger.Debug("Selector registered.",
			"provenance", config.SelectorProvenance(sel.Process), "scope", strings.Join(sel.Scope, "."))
	}

	return &Engine{
		base:      base,
		selectors: selectors,
		profiles:  append([]string{}, profiles...),
	}, nil
}

// Base returns the merged pre-selector, pre-evaluation tree. Callers must
// treat it as read-only.
func (e *Engine) Base() *config.Node { return e.base }

// Profiles returns the profile names the engine was loaded with.
func (e *Engine) Profiles() []string { return append([]string{}, e.profiles...) }
