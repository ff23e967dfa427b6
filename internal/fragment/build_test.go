package fragment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/layerconf/internal/config"
)

func mustBuild(t *testing.T, src string) (*config.Node, []config.Selector, []config.ProfileDecl) {
	t.Helper()
	stmts, err := parseFragment("test.config", src)
	require.NoError(t, err)
	root, selectors, profiles, err := buildTree("test.config", stmts)
	require.NoError(t, err)
	return root, selectors, profiles
}

func TestBuildTree_NestedAndDotted(t *testing.T) {
	root, _, _ := mustBuild(t, `
		process {
			cpus = 2
		}
		process.memory = '1GB'
		docker.registry.url = 'docker.io'
	`)

	cpus, ok := root.GetPath("process", "cpus")
	require.True(t, ok)
	assert.True(t, cty.NumberIntVal(2).RawEquals(cpus.Scalar()))

	memory, ok := root.GetPath("process", "memory")
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("1GB"), memory.Scalar())

	url, ok := root.GetPath("docker", "registry", "url")
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("docker.io"), url.Scalar())
}

func TestBuildTree_LaterAssignmentWins(t *testing.T) {
	root, _, _ := mustBuild(t, `
		queue = 'first'
		queue = 'second'
	`)
	queue, ok := root.Get("queue")
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("second"), queue.Scalar())
	assert.Equal(t, 1, root.Len())
}

func TestBuildTree_KeyOrderPreserved(t *testing.T) {
	root, _, _ := mustBuild(t, `
		zeta = 1
		alpha = 2
		mid = 3
	`)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, root.Keys())
}

func TestBuildTree_SelectorsExtractedNotMerged(t *testing.T) {
	root, selectors, _ := mustBuild(t, `
		process {
			queue = 'general'
			$chewbbaca.queue = 'chewBBACA'
			$chewbbaca.cpus = 4
			$abricate.queue = 'amr'
		}
	`)

	// The selector keys must not leak into the general tree.
	queue, ok := root.GetPath("process", "queue")
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("general"), queue.Scalar())
	_, ok = root.GetPath("process", "cpus")
	assert.False(t, ok)

	require.Len(t, selectors, 2)

	chew := selectors[0]
	assert.Equal(t, "chewbbaca", chew.Process)
	assert.Equal(t, []string{"process"}, chew.Scope)
	assert.Equal(t, []string{"queue", "cpus"}, chew.Overrides.Keys())

	abricate := selectors[1]
	assert.Equal(t, "abricate", abricate.Process)
	assert.Equal(t, []string{"process"}, abricate.Scope)
}

func TestBuildTree_ProfilesRegisteredSeparately(t *testing.T) {
	root, _, profiles := mustBuild(t, `
		process {
			memory = '1GB'
		}
		profiles {
			incd {
				process {
					queue = 'lix'
					$chewbbaca.queue = 'chewBBACA'
				}
			}
			oneida {
				process.memory = '4GB'
			}
		}
	`)

	// The profiles block never merges into the fragment's own tree.
	_, ok := root.Get("profiles")
	assert.False(t, ok)

	require.Len(t, profiles, 2)
	assert.Equal(t, "incd", profiles[0].Name)
	assert.Equal(t, "oneida", profiles[1].Name)

	queue, ok := profiles[0].Root.GetPath("process", "queue")
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("lix"), queue.Scalar())

	require.Len(t, profiles[0].Selectors, 1)
	assert.Equal(t, "chewbbaca", profiles[0].Selectors[0].Process)
	assert.Equal(t, []string{"process"}, profiles[0].Selectors[0].Scope)
}

func TestBuildTree_ProfilesBlockRejectsAssignments(t *testing.T) {
	stmts, err := parseFragment("test.config", `
		profiles {
			standard = 'oops'
		}
	`)
	require.NoError(t, err)
	_, _, _, err = buildTree("test.config", stmts)
	require.Error(t, err)

	var parseErr *config.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Msg, "named profile blocks")
}

func TestBuildTree_InvalidDynamicFailsAtBuild(t *testing.T) {
	stmts, err := parseFragment("test.config", `
		process {
			errorStrategy = { workflow.name == 'x' ? 'retry' : 'ignore' }
		}
	`)
	require.NoError(t, err)
	_, _, _, err = buildTree("test.config", stmts)
	require.Error(t, err)

	var dynErr *config.InvalidDynamicValueError
	require.True(t, errors.As(err, &dynErr), "want InvalidDynamicValueError, got %T", err)
	assert.Contains(t, dynErr.Reason, "task.attempt")
}

func TestDefaultsLayer(t *testing.T) {
	layer := DefaultsLayer()
	assert.Equal(t, config.ProvenanceDefaults, layer.Provenance)

	cpus, ok := layer.Root.GetPath("process", "cpus")
	require.True(t, ok)
	assert.True(t, cty.NumberIntVal(1).RawEquals(cpus.Scalar()))

	strategy, ok := layer.Root.GetPath("process", "errorStrategy")
	require.True(t, ok)
	assert.Equal(t, config.KindDynamic, strategy.Kind())
}
