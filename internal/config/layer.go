package config

import "fmt"

// Provenance tags identify where a layer's values came from. They appear in
// debug logs and error messages only; the merge engine never inspects them.
const ProvenanceDefaults = "defaults"

// FragmentProvenance tags a layer produced from a fragment file.
func FragmentProvenance(path string) string {
	return fmt.Sprintf("fragment:%s", path)
}

// ProfileProvenance tags a layer produced by activating a named profile.
func ProfileProvenance(name string) string {
	return fmt.Sprintf("profile:%s", name)
}

// SelectorProvenance tags the override contributed by one selector pattern.
func SelectorProvenance(process string) string {
	return fmt.Sprintf("selector:$%s", process)
}

// Layer is one immutable configuration tree together with its provenance
// and any selector-scoped overrides declared inside it. Selectors are kept
// out of Root so that selector precedence is applied uniformly after all
// layer merging, regardless of which layer declared them.
type Layer struct {
	Provenance string
	Root       *Node
	Selectors  []Selector
}

// Stack is the ordered sequence of layers to merge, lowest precedence
// first: built-in defaults, fragments in include order, then activated
// profiles in request order. Selector overrides across all layers are
// applied after the merge, in declaration order.
type Stack struct {
	Layers []Layer
}

// Selectors returns every selector declared anywhere in the stack, in
// layer order and, within a layer, declaration order.
func (s *Stack) Selectors() []Selector {
	var all []Selector
	for _, layer := range s.Layers {
		all = append(all, layer.Selectors...)
	}
	return all
}
