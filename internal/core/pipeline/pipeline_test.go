package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/metaed-lang/metaed/internal/core/builder"
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
)

func plugin(name string, calls *[]string, results ...bool) enhancer.Plugin {
	p := enhancer.Plugin{Name: name, DefaultTargetTechnologyVersion: "7.1.0"}
	for i, success := range results {
		enhancerName := name + "-" + string(rune('a'+i))
		ok := success
		p.Enhancers = append(p.Enhancers, func(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
			*calls = append(*calls, enhancerName)
			if !ok {
				return enhancer.Fail(enhancerName, "precondition")
			}
			return enhancer.Ok(enhancerName)
		})
	}
	return p
}

func TestEnhanceRunsPluginsInOrder(t *testing.T) {
	var calls []string
	p := New(nil, plugin("one", &calls, true, true), plugin("two", &calls, true))

	metaEd := model.NewMetaEdEnvironment()
	require.NoError(t, p.Register(metaEd, nil))
	state, err := p.Enhance(context.Background(), metaEd)

	require.NoError(t, err)
	assert.False(t, state.Failed())
	assert.NotEmpty(t, state.RunID)
	assert.Equal(t, []string{"one-a", "one-b", "two-a"}, calls)
	assert.Len(t, state.PluginResults, 2)
}

func TestPluginFailureHaltsOnlyThatPlugin(t *testing.T) {
	var calls []string
	p := New(nil,
		plugin("one", &calls, false, true),
		plugin("two", &calls, true),
	)

	metaEd := model.NewMetaEdEnvironment()
	require.NoError(t, p.Register(metaEd, nil))
	state, err := p.Enhance(context.Background(), metaEd)

	require.NoError(t, err)
	assert.True(t, state.Failed())
	assert.Equal(t, []string{"one-a", "two-a"}, calls)
	require.Len(t, state.PluginFailures(), 1)
	assert.Equal(t, "one-a", state.PluginFailures()[0].Failure.EnhancerName)
}

func TestDependentPluginIsSkipped(t *testing.T) {
	var calls []string
	dependent := plugin("two", &calls, true)
	dependent.Dependencies = []string{"one"}
	third := plugin("three", &calls, true)
	third.Dependencies = []string{"two"}

	core, logs := observer.New(zap.WarnLevel)
	p := New(zap.New(core), plugin("one", &calls, false), dependent, third)

	metaEd := model.NewMetaEdEnvironment()
	require.NoError(t, p.Register(metaEd, nil))
	state, err := p.Enhance(context.Background(), metaEd)

	require.NoError(t, err)
	assert.Equal(t, []string{"one-a"}, calls)
	assert.Equal(t, []string{"two", "three"}, state.Skipped)
	assert.Equal(t, 2, logs.FilterMessage("plugin skipped").Len())
}

func TestEnhancerErrorStopsRun(t *testing.T) {
	var calls []string
	broken := enhancer.Plugin{
		Name:                           "broken",
		DefaultTargetTechnologyVersion: "7.1.0",
		Enhancers: []enhancer.Enhancer{func(*model.MetaEdEnvironment) (enhancer.Result, error) {
			return enhancer.Result{EnhancerName: "Broken"}, errors.New("could not find table")
		}},
	}
	p := New(nil, broken, plugin("after", &calls, true))

	metaEd := model.NewMetaEdEnvironment()
	require.NoError(t, p.Register(metaEd, nil))
	_, err := p.Enhance(context.Background(), metaEd)

	assert.ErrorContains(t, err, "plugin broken: could not find table")
	assert.Empty(t, calls)
}

func TestEnhanceHonorsCancellation(t *testing.T) {
	var calls []string
	p := New(nil, plugin("one", &calls, true))
	metaEd := model.NewMetaEdEnvironment()
	require.NoError(t, p.Register(metaEd, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Enhance(ctx, metaEd)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
}

func TestRegisterUsesOverrides(t *testing.T) {
	var calls []string
	p := New(nil, plugin("one", &calls), plugin("two", &calls))
	metaEd := model.NewMetaEdEnvironment()

	require.NoError(t, p.Register(metaEd, map[string]string{"two": "5.2.0"}))
	assert.Equal(t, "7.1.0", metaEd.TargetTechnologyVersion("one"))
	assert.Equal(t, "5.2.0", metaEd.TargetTechnologyVersion("two"))

	err := p.Register(model.NewMetaEdEnvironment(), map[string]string{"one": "seven"})
	assert.ErrorContains(t, err, `invalid target technology version "seven"`)
}

func TestRunBuildsFromProjects(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.metaed.yaml"),
		[]byte("domainEntities:\n  - name: Student\n"), 0o644))

	var seen int
	counting := enhancer.Plugin{
		Name:                           "count",
		DefaultTargetTechnologyVersion: "7.1.0",
		Enhancers: []enhancer.Enhancer{func(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
			seen = len(model.AllTopLevelEntities(metaEd, model.ModelTypeDomainEntity))
			return enhancer.Ok("Count")
		}},
	}

	state, err := New(nil, counting).Run(context.Background(), Options{
		DataStandardVersion: "3.3.0",
		Projects:            []builder.ProjectSpec{{Namespace: "EdFi", Path: dir}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
	assert.Equal(t, "3.3.0", state.MetaEd.DataStandardVersion)
}

func TestRunRejectsInvalidDataStandardVersion(t *testing.T) {
	_, err := New(nil).Run(context.Background(), Options{DataStandardVersion: "three"})
	assert.ErrorContains(t, err, "invalid data standard version")
}
