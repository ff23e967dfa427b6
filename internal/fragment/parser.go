package fragment

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/layerconf/internal/config"
)

// parser is a recursive-descent parser over the fragment grammar with a
// single token of lookahead.
type parser struct {
	s    *scanner
	file string
	tok  token
}

// parseFragment parses one fragment's source into its top-level statement
// list. Include directives appear in the list at their textual position;
// resolving them is the loader's job.
func parseFragment(file, src string) ([]Stmt, error) {
	p := &parser{s: newScanner(file, src), file: file}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var stmts []Stmt
	for p.tok.kind != tokEOF {
		stmt, err := p.parseStmt(true)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *parser) advance() error {
	tok, err := p.s.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(pos hcl.Pos, format string, args ...any) error {
	return &config.ParseError{
		Path:  p.file,
		Range: hcl.Range{Filename: p.file, Start: pos, End: pos},
		Msg:   fmt.Sprintf(format, args...),
	}
}

func (p *parser) rangeFrom(start hcl.Pos) hcl.Range {
	return hcl.Range{Filename: p.file, Start: start, End: p.s.pos()}
}

func (p *parser) parseStmt(topLevel bool) (Stmt, error) {
	switch p.tok.kind {
	case tokDollar:
		return p.parseSelectorAssign()
	case tokIdent:
		if p.tok.text == "includeConfig" {
			if !topLevel {
				return nil, p.errorf(p.tok.pos, "includeConfig is only allowed at the top level of a fragment")
			}
			return p.parseInclude()
		}
		return p.parseAssignOrBlock()
	}
	return nil, p.errorf(p.tok.pos, "expected a key, a block, or an includeConfig directive, found %s", p.tok.kind)
}

func (p *parser) parseInclude() (Stmt, error) {
	start := p.tok.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind != tokString {
		return nil, p.errorf(p.tok.pos, "includeConfig requires a quoted path, found %s", p.tok.kind)
	}
	ref := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &IncludeStmt{Ref: ref, Rng: p.rangeFrom(start)}, nil
}

// parseAssignOrBlock handles both `a.b.c = value` and `name { ... }`,
// disambiguating on the token after the key path.
func (p *parser) parseAssignOrBlock() (Stmt, error) {
	start := p.tok.pos
	path, err := p.parseKeyPath()
	if err != nil {
		return nil, err
	}

	switch p.tok.kind {
	case tokAssign:
		if err := p.advance(); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Path: path, Value: value, Rng: p.rangeFrom(start)}, nil

	case tokLBrace:
		if len(path) > 1 {
			return nil, p.errorf(start, "a block name cannot be dotted")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		var body []Stmt
		for p.tok.kind != tokRBrace {
			if p.tok.kind == tokEOF {
				return nil, p.errorf(start, "unterminated block %q", path[0])
			}
			stmt, err := p.parseStmt(false)
			if err != nil {
				return nil, err
			}
			body = append(body, stmt)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &BlockStmt{Name: path[0], Body: body, Rng: p.rangeFrom(start)}, nil
	}
	return nil, p.errorf(p.tok.pos, "expected '=' or '{' after %q, found %s", path[len(path)-1], p.tok.kind)
}

func (p *parser) parseSelectorAssign() (Stmt, error) {
	start := p.tok.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind != tokIdent {
		return nil, p.errorf(p.tok.pos, "expected a process name after '$', found %s", p.tok.kind)
	}
	process := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind != tokDot {
		return nil, p.errorf(p.tok.pos, "expected '.' after selector $%s", process)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	path, err := p.parseKeyPath()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokAssign {
		return nil, p.errorf(p.tok.pos, "selector $%s must be followed by an assignment, found %s", process, p.tok.kind)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &AssignStmt{Selector: process, Path: path, Value: value, Rng: p.rangeFrom(start)}, nil
}

func (p *parser) parseKeyPath() ([]string, error) {
	if p.tok.kind != tokIdent {
		return nil, p.errorf(p.tok.pos, "expected a key, found %s", p.tok.kind)
	}
	path := []string{p.tok.text}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.tok.kind == tokDot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokIdent {
			return nil, p.errorf(p.tok.pos, "expected a key after '.', found %s", p.tok.kind)
		}
		path = append(path, p.tok.text)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return path, nil
}

func (p *parser) parseValue() (ValueExpr, error) {
	start := p.tok.pos
	switch p.tok.kind {
	case tokString:
		val := cty.StringVal(p.tok.text)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ScalarExpr{Val: val, Rng: p.rangeFrom(start)}, nil

	case tokNumber:
		val, err := cty.ParseNumberVal(p.tok.text)
		if err != nil {
			return nil, p.errorf(start, "invalid number literal %q", p.tok.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ScalarExpr{Val: val, Rng: p.rangeFrom(start)}, nil

	case tokIdent:
		switch p.tok.text {
		case "true", "false":
			val := cty.BoolVal(p.tok.text == "true")
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &ScalarExpr{Val: val, Rng: p.rangeFrom(start)}, nil
		}
		return nil, p.errorf(start, "unquoted value %q; strings must be quoted", p.tok.text)

	case tokLBrace:
		source, rng, err := p.s.captureClosure(start)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &DynamicExpr{Source: source, Rng: rng}, nil
	}
	return nil, p.errorf(start, "expected a value, found %s", p.tok.kind)
}
