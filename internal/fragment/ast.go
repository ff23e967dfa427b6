package fragment

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Stmt is one parsed statement of a fragment body.
type Stmt interface {
	Range() hcl.Range
}

// AssignStmt is a `key = value` assignment. Path holds the dotted key
// segments; Selector is the process name when the assignment was written
// with a `$process.` prefix, empty otherwise.
type AssignStmt struct {
	Selector string
	Path     []string
	Value    ValueExpr
	Rng      hcl.Range
}

func (s *AssignStmt) Range() hcl.Range { return s.Rng }

// BlockStmt is a `name { ... }` nested scope.
type BlockStmt struct {
	Name string
	Body []Stmt
	Rng  hcl.Range
}

func (s *BlockStmt) Range() hcl.Range { return s.Rng }

// IncludeStmt is an `includeConfig "path"` directive. The parser only
// accepts these at the top level of a fragment, matching the contract that
// an include inlines the target's top-level block.
type IncludeStmt struct {
	Ref string
	Rng hcl.Range
}

func (s *IncludeStmt) Range() hcl.Range { return s.Rng }

// ValueExpr is the right-hand side of an assignment.
type ValueExpr interface {
	valueRange() hcl.Range
}

// ScalarExpr is a literal scalar: quoted string, number, or boolean.
type ScalarExpr struct {
	Val cty.Value
	Rng hcl.Range
}

func (v *ScalarExpr) valueRange() hcl.Range { return v.Rng }

// DynamicExpr is a `{ ... }` closure whose body is an attempt-dependent
// expression, captured as raw source for the dynamic package to compile.
type DynamicExpr struct {
	Source string
	Rng    hcl.Range
}

func (v *DynamicExpr) valueRange() hcl.Range { return v.Rng }
