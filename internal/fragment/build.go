package fragment

import (
	"github.com/vk/layerconf/internal/config"
	"github.com/vk/layerconf/internal/dynamic"
)

// builder turns a statement list into an immutable config tree, pulling
// selector assignments and profile declarations out into their own
// collections so they never merge inline.
type builder struct {
	file      string
	selectors []config.Selector
	profiles  []config.ProfileDecl
}

// buildTree builds the tree for one fragment segment. Include statements
// must have been split out by the loader before this point.
func buildTree(file string, stmts []Stmt) (*config.Node, []config.Selector, []config.ProfileDecl, error) {
	b := &builder{file: file}
	root := config.NewMapping()
	if err := b.buildBody(root, nil, stmts, true); err != nil {
		return nil, nil, nil, err
	}
	return root, b.selectors, b.profiles, nil
}

func (b *builder) buildBody(scope *config.Node, scopePath []string, stmts []Stmt, topLevel bool) error {
	for _, stmt := range stmts {
		switch st := stmt.(type) {
		case *IncludeStmt:
			panic("fragment: include statement reached the tree builder")

		case *BlockStmt:
			if topLevel && st.Name == "profiles" {
				if err := b.buildProfiles(st); err != nil {
					return err
				}
				continue
			}
			child := ensureMapping(scope, st.Name)
			childPath := append(append([]string{}, scopePath...), st.Name)
			if err := b.buildBody(child, childPath, st.Body, false); err != nil {
				return err
			}

		case *AssignStmt:
			if st.Selector != "" {
				if err := b.addSelector(scopePath, st); err != nil {
					return err
				}
				continue
			}
			if err := b.assign(scope, st); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildProfiles registers each named block under `profiles { ... }` as a
// profile declaration with its own tree and selector list.
func (b *builder) buildProfiles(st *BlockStmt) error {
	for _, inner := range st.Body {
		profile, ok := inner.(*BlockStmt)
		if !ok {
			return &config.ParseError{
				Path:  b.file,
				Range: inner.Range(),
				Msg:   "the profiles block may only contain named profile blocks",
			}
		}
		sub := &builder{file: b.file}
		root := config.NewMapping()
		if err := sub.buildBody(root, nil, profile.Body, false); err != nil {
			return err
		}
		b.profiles = append(b.profiles, config.ProfileDecl{
			Name:      profile.Name,
			Root:      root,
			Selectors: sub.selectors,
			DeclRange: profile.Rng,
		})
	}
	return nil
}

// assign writes a dotted-path assignment into the current scope, creating
// intermediate mappings as needed. Within one fragment the later of two
// writes to the same key wins, matching the textual-overlay contract.
func (b *builder) assign(scope *config.Node, st *AssignStmt) error {
	target := scope
	for _, key := range st.Path[:len(st.Path)-1] {
		target = ensureMapping(target, key)
	}
	node, err := b.valueNode(st.Value)
	if err != nil {
		return err
	}
	target.Set(st.Path[len(st.Path)-1], node)
	return nil
}

// addSelector records a `$process.key = value` assignment, aggregating
// assignments for the same process within the same scope into one
// selector entry.
func (b *builder) addSelector(scopePath []string, st *AssignStmt) error {
	node, err := b.valueNode(st.Value)
	if err != nil {
		return err
	}

	idx := -1
	for i := range b.selectors {
		if b.selectors[i].Process == st.Selector && samePath(b.selectors[i].Scope, scopePath) {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.selectors = append(b.selectors, config.Selector{
			Process:   st.Selector,
			Scope:     append([]string{}, scopePath...),
			Overrides: config.NewMapping(),
			DeclRange: st.Rng,
		})
		idx = len(b.selectors) - 1
	}

	target := b.selectors[idx].Overrides
	for _, key := range st.Path[:len(st.Path)-1] {
		target = ensureMapping(target, key)
	}
	target.Set(st.Path[len(st.Path)-1], node)
	return nil
}

func (b *builder) valueNode(value ValueExpr) (*config.Node, error) {
	switch v := value.(type) {
	case *ScalarExpr:
		return config.NewScalar(v.Val), nil
	case *DynamicExpr:
		d, err := dynamic.Parse(v.Source, v.Rng)
		if err != nil {
			return nil, err
		}
		return config.NewDynamic(d), nil
	}
	panic("fragment: unknown value expression")
}

// ensureMapping returns the mapping child under key, creating it if absent
// or replacing a non-mapping value a later block statement shadows.
func ensureMapping(scope *config.Node, key string) *config.Node {
	if child, ok := scope.Get(key); ok && child.Kind() == config.KindMapping {
		return child
	}
	child := config.NewMapping()
	scope.Set(key, child)
	return child
}

func samePath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
