package fragment

import (
	"context"
	"os"

	"github.com/vk/layerconf/internal/config"
	"github.com/vk/layerconf/internal/ctxlog"
	"github.com/vk/layerconf/internal/fsutil"
)

// Loader is the fragment-format implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new fragment loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load reads the root fragment and resolves its includeConfig directives
// depth-first, in textual order. Each fragment contributes one layer per
// contiguous run of its own statements, so a key set after an include
// overrides the include and a key set before it is overridden, exactly as
// if the included text had been inlined at the directive.
func (l *Loader) Load(ctx context.Context, rootPath string) ([]config.Layer, []config.ProfileDecl, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Fragment loading started.", "root", rootPath)

	st := &loadState{inProgress: make(map[string]bool)}
	if err := st.loadFragment(ctx, rootPath, ""); err != nil {
		return nil, nil, err
	}

	logger.Debug("Fragment loading finished.", "layers", len(st.layers), "profiles", len(st.profiles))
	return st.layers, st.profiles, nil
}

// loadState tracks the in-progress include chain for cycle detection and
// accumulates layers in merge order.
type loadState struct {
	inProgress map[string]bool
	chain      []string
	layers     []config.Layer
	profiles   []config.ProfileDecl
}

func (st *loadState) loadFragment(ctx context.Context, path, includedFrom string) error {
	logger := ctxlog.FromContext(ctx)

	canon, err := fsutil.Canonical(path)
	if err != nil {
		return &config.MissingFragmentError{Path: path, IncludedFrom: includedFrom, Err: err}
	}
	if st.inProgress[canon] {
		idx := 0
		for i, p := range st.chain {
			if p == canon {
				idx = i
				break
			}
		}
		cycle := append(append([]string{}, st.chain[idx:]...), canon)
		return &config.CyclicIncludeError{Cycle: cycle}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return &config.MissingFragmentError{Path: path, IncludedFrom: includedFrom, Err: err}
	}

	stmts, err := parseFragment(path, string(src))
	if err != nil {
		return err
	}
	logger.Debug("Fragment parsed.", "path", path, "statements", len(stmts))

	st.inProgress[canon] = true
	st.chain = append(st.chain, canon)
	defer func() {
		delete(st.inProgress, canon)
		st.chain = st.chain[:len(st.chain)-1]
	}()

	var segment []Stmt
	flush := func() error {
		if len(segment) == 0 {
			return nil
		}
		root, selectors, profiles, err := buildTree(path, segment)
		if err != nil {
			return err
		}
		segment = nil
		st.profiles = append(st.profiles, profiles...)
		if root.Len() == 0 && len(selectors) == 0 {
			// A profiles-only segment contributes declarations but no layer.
			return nil
		}
		st.layers = append(st.layers, config.Layer{
			Provenance: config.FragmentProvenance(path),
			Root:       root,
			Selectors:  selectors,
		})
		return nil
	}

	for _, stmt := range stmts {
		include, ok := stmt.(*IncludeStmt)
		if !ok {
			segment = append(segment, stmt)
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		target := fsutil.ResolveInclude(path, include.Ref)
		if err := st.loadFragment(ctx, target, path); err != nil {
			return err
		}
	}
	return flush()
}
