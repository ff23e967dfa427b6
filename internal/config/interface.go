package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
)

// ProfileDecl is one `profiles { name { ... } }` occurrence found during
// loading. A profile re-declared by a later fragment produces a second
// decl; the registry merges occurrences in declaration order.
type ProfileDecl struct {
	Name      string
	Root      *Node
	Selectors []Selector
	DeclRange hcl.Range
}

// Loader is the interface for a format-specific fragment loader. It reads
// the root fragment and its transitive includes, returning the ordered
// fragment layers and every profile declaration found along the way.
type Loader interface {
	Load(ctx context.Context, rootPath string) ([]Layer, []ProfileDecl, error)
}
