package enhancer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/metaed-lang/metaed/internal/core/model"
)

func recording(name string, calls *[]string, success bool) Enhancer {
	return func(metaEd *model.MetaEdEnvironment) (Result, error) {
		*calls = append(*calls, name)
		if !success {
			return Fail(name, "missing prerequisite")
		}
		return Ok(name)
	}
}

func TestRunEnhancersInOrder(t *testing.T) {
	var calls []string
	runner := NewRunner(nil)

	results, failure, err := runner.RunEnhancers(model.NewMetaEdEnvironment(), "test", []Enhancer{
		recording("first", &calls, true),
		recording("second", &calls, true),
		recording("third", &calls, true),
	})

	require.NoError(t, err)
	assert.Nil(t, failure)
	assert.Equal(t, []string{"first", "second", "third"}, calls)
	assert.Len(t, results, 3)
}

func TestRunEnhancersShortCircuitsOnFailure(t *testing.T) {
	var calls []string
	core, logs := observer.New(zap.WarnLevel)
	runner := NewRunner(zap.New(core))

	results, failure, err := runner.RunEnhancers(model.NewMetaEdEnvironment(), "test", []Enhancer{
		recording("first", &calls, true),
		recording("second", &calls, false),
		recording("third", &calls, true),
	})

	require.NoError(t, err)
	require.NotNil(t, failure)
	assert.Equal(t, "second", failure.EnhancerName)
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Len(t, results, 2)
	assert.Equal(t, 1, logs.FilterMessage("enhancer precondition failed").Len())
}

func TestRunEnhancersStopsOnError(t *testing.T) {
	var calls []string
	boom := errors.New("could not find table")
	runner := NewRunner(nil)

	_, _, err := runner.RunEnhancers(model.NewMetaEdEnvironment(), "test", []Enhancer{
		func(metaEd *model.MetaEdEnvironment) (Result, error) {
			return Result{EnhancerName: "broken"}, boom
		},
		recording("after", &calls, true),
	})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, calls)
}

func TestRunPluginCollectsValidationFailures(t *testing.T) {
	metaEd := model.NewMetaEdEnvironment()
	runner := NewRunner(nil)
	plugin := Plugin{
		Name: "test",
		Validators: []Validator{
			func(metaEd *model.MetaEdEnvironment) []model.ValidationFailure {
				return []model.ValidationFailure{{ValidatorName: "v", Category: model.CategoryError, Message: "bad"}}
			},
		},
	}

	result, err := runner.RunPlugin(metaEd, plugin)

	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Len(t, result.ValidationFailures, 1)
	assert.Len(t, metaEd.ValidationFailures, 1)
}

func TestVersionHelpers(t *testing.T) {
	metaEd := model.NewMetaEdEnvironment()
	metaEd.DataStandardVersion = "2.0.0"
	metaEd.AddPlugin("p", "6.0.0")

	assert.True(t, DataStandardVersionSatisfies(metaEd, "2.x"))
	assert.False(t, DataStandardVersionSatisfies(metaEd, ">=3.0.0"))
	assert.True(t, TechnologyVersionSatisfies(metaEd, "p", "<6.1.0"))
	assert.False(t, TechnologyVersionSatisfies(metaEd, "missing", "<6.1.0"))
}
