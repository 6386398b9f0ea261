package enhancer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/metaed-lang/metaed/internal/core/model"
)

// PluginResult collects the outcome of one plugin's validators and enhancers.
type PluginResult struct {
	PluginName         string                    `json:"pluginName"`
	Results            []Result                  `json:"results"`
	ValidationFailures []model.ValidationFailure `json:"validationFailures"`
	// Failure is the first unsuccessful result, if any.
	Failure *Result `json:"failure,omitempty"`
}

// Succeeded reports whether every enhancer of the plugin succeeded.
func (r PluginResult) Succeeded() bool {
	return r.Failure == nil
}

// Runner executes plugins strictly in order on one environment.
type Runner struct {
	logger *zap.Logger
}

// NewRunner returns a runner logging to logger. A nil logger discards output.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// RunValidators runs the plugin's validators and appends their failures to the environment.
func (r *Runner) RunValidators(metaEd *model.MetaEdEnvironment, plugin Plugin) []model.ValidationFailure {
	var failures []model.ValidationFailure
	for _, validate := range plugin.Validators {
		found := validate(metaEd)
		for _, f := range found {
			metaEd.AddValidationFailure(f)
		}
		failures = append(failures, found...)
	}
	if len(failures) > 0 {
		r.logger.Info("validation failures",
			zap.String("plugin", plugin.Name),
			zap.Int("count", len(failures)))
	}
	return failures
}

// RunEnhancers executes enhancers in order, stopping at the first unsuccessful
// result. The error return is reserved for enhancer errors, which are fatal.
func (r *Runner) RunEnhancers(metaEd *model.MetaEdEnvironment, pluginName string, enhancers []Enhancer) ([]Result, *Result, error) {
	results := make([]Result, 0, len(enhancers))
	for _, enhance := range enhancers {
		start := time.Now()
		result, err := enhance(metaEd)
		if err != nil {
			r.logger.Error("enhancer failed",
				zap.String("plugin", pluginName),
				zap.String("enhancer", result.EnhancerName),
				zap.Error(err))
			return results, nil, fmt.Errorf("plugin %s: %w", pluginName, err)
		}
		results = append(results, result)
		r.logger.Debug("enhancer finished",
			zap.String("plugin", pluginName),
			zap.String("enhancer", result.EnhancerName),
			zap.Duration("duration", time.Since(start)))

		if !result.Success {
			r.logger.Warn("enhancer precondition failed",
				zap.String("plugin", pluginName),
				zap.String("enhancer", result.EnhancerName),
				zap.String("message", result.Message))
			failed := result
			return results, &failed, nil
		}
	}
	return results, nil, nil
}

// RunPlugin runs the plugin's validators and then its enhancers.
func (r *Runner) RunPlugin(metaEd *model.MetaEdEnvironment, plugin Plugin) (PluginResult, error) {
	pr := PluginResult{PluginName: plugin.Name}
	pr.ValidationFailures = r.RunValidators(metaEd, plugin)

	results, failure, err := r.RunEnhancers(metaEd, plugin.Name, plugin.Enhancers)
	pr.Results = results
	pr.Failure = failure
	return pr, err
}
