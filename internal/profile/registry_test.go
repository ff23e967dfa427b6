package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/layerconf/internal/config"
)

func profileTree(pairs ...string) *config.Node {
	m := config.NewMapping()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i], config.NewScalar(cty.StringVal(pairs[i+1])))
	}
	return m
}

func TestRegistry_ActivateInRequestOrder(t *testing.T) {
	reg := NewRegistry([]config.ProfileDecl{
		{Name: "incd", Root: profileTree("queue", "lix")},
		{Name: "oneida", Root: profileTree("queue", "oneida")},
	})

	layers, err := reg.Activate([]string{"oneida", "incd"})
	require.NoError(t, err)
	require.Len(t, layers, 2)
	assert.Equal(t, config.ProfileProvenance("oneida"), layers[0].Provenance)
	assert.Equal(t, config.ProfileProvenance("incd"), layers[1].Provenance)
}

func TestRegistry_ActivateNone(t *testing.T) {
	reg := NewRegistry(nil)
	layers, err := reg.Activate(nil)
	require.NoError(t, err)
	assert.Empty(t, layers)
}

func TestRegistry_UnknownProfileFails(t *testing.T) {
	reg := NewRegistry([]config.ProfileDecl{
		{Name: "standard", Root: profileTree()},
		{Name: "incd", Root: profileTree()},
	})

	_, err := reg.Activate([]string{"standard", "slurm"})
	require.Error(t, err)

	var unknownErr *config.UnknownProfileError
	require.True(t, errors.As(err, &unknownErr), "want UnknownProfileError, got %T", err)
	assert.Equal(t, "slurm", unknownErr.Name)
	assert.Equal(t, []string{"standard", "incd"}, unknownErr.Known)
	assert.Contains(t, err.Error(), `unknown profile "slurm"`)
}

func TestRegistry_RedeclarationMergesInOrder(t *testing.T) {
	reg := NewRegistry([]config.ProfileDecl{
		{Name: "incd", Root: profileTree("queue", "lix", "memory", "2GB")},
		{Name: "incd", Root: profileTree("memory", "8GB")},
	})

	layers, err := reg.Activate([]string{"incd"})
	require.NoError(t, err)
	require.Len(t, layers, 1)

	memory, _ := layers[0].Root.Get("memory")
	assert.Equal(t, cty.StringVal("8GB"), memory.Scalar())
	queue, ok := layers[0].Root.Get("queue")
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("lix"), queue.Scalar())
}

func TestRegistry_SelectorsTravelWithLayer(t *testing.T) {
	overrides := config.NewMapping()
	overrides.Set("queue", config.NewScalar(cty.StringVal("chewBBACA")))
	reg := NewRegistry([]config.ProfileDecl{
		{
			Name: "incd",
			Root: profileTree(),
			Selectors: []config.Selector{
				{Process: "chewbbaca", Scope: []string{"process"}, Overrides: overrides},
			},
		},
	})

	layers, err := reg.Activate([]string{"incd"})
	require.NoError(t, err)
	require.Len(t, layers[0].Selectors, 1)
	assert.Equal(t, "chewbbaca", layers[0].Selectors[0].Process)
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry([]config.ProfileDecl{
		{Name: "standard", Root: profileTree()},
		{Name: "incd", Root: profileTree()},
		{Name: "standard", Root: profileTree()},
	})
	assert.Equal(t, []string{"standard", "incd"}, reg.Names())
}
