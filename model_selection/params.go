package model_selection

import (
	"math"
	"math/rand"
	"sort"

	"github.com/parsearch/parsearch/core/model"
	scierr "github.com/parsearch/parsearch/pkg/errors"
)

// ParamGrid maps parameter names to the discrete values to try. Grid search
// enumerates the full cartesian product.
type ParamGrid map[string][]interface{}

// Size returns the number of combinations in the grid.
func (g ParamGrid) Size() int {
	size := 1
	for _, values := range g {
		size *= len(values)
	}
	return size
}

// sortedKeys returns the parameter names in sorted order so that enumeration
// is deterministic across runs.
func (g ParamGrid) sortedKeys() []string {
	keys := make([]string, 0, len(g))
	for key := range g {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Enumerate returns every parameter combination. Keys advance odometer-style
// with the last sorted key varying fastest.
func (g ParamGrid) Enumerate() ([]model.Params, error) {
	if len(g) == 0 {
		return nil, scierr.Wrap(scierr.ErrEmptyGrid, "ParamGrid.Enumerate")
	}
	keys := g.sortedKeys()
	for _, key := range keys {
		if len(g[key]) == 0 {
			return nil, scierr.NewValidationError(key, "parameter has no values", nil)
		}
	}

	combos := make([]model.Params, 0, g.Size())
	counters := make([]int, len(keys))
	for {
		combo := make(model.Params, len(keys))
		for i, key := range keys {
			combo[key] = g[key][counters[i]]
		}
		combos = append(combos, combo)

		// Advance the odometer.
		pos := len(keys) - 1
		for pos >= 0 {
			counters[pos]++
			if counters[pos] < len(g[keys[pos]]) {
				break
			}
			counters[pos] = 0
			pos--
		}
		if pos < 0 {
			return combos, nil
		}
	}
}

// Distribution generates random parameter values for randomized search.
type Distribution interface {
	Sample(rng *rand.Rand) interface{}
}

// Uniform samples float64 values uniformly from [Low, High).
type Uniform struct {
	Low, High float64
}

// Sample draws one value.
func (d Uniform) Sample(rng *rand.Rand) interface{} {
	return d.Low + rng.Float64()*(d.High-d.Low)
}

// LogUniform samples float64 values whose logarithm is uniform over
// [log Low, log High). Useful for scale parameters like C or alpha.
type LogUniform struct {
	Low, High float64
}

// Sample draws one value.
func (d LogUniform) Sample(rng *rand.Rand) interface{} {
	logLow, logHigh := math.Log(d.Low), math.Log(d.High)
	return math.Exp(logLow + rng.Float64()*(logHigh-logLow))
}

// UniformInt samples int values uniformly from [Low, High] inclusive.
type UniformInt struct {
	Low, High int
}

// Sample draws one value.
func (d UniformInt) Sample(rng *rand.Rand) interface{} {
	return d.Low + rng.Intn(d.High-d.Low+1)
}

// Choice samples uniformly from a fixed set of options.
type Choice struct {
	Options []interface{}
}

// Sample draws one value.
func (d Choice) Sample(rng *rand.Rand) interface{} {
	return d.Options[rng.Intn(len(d.Options))]
}

// ParamSpace maps parameter names to distributions for randomized search.
type ParamSpace map[string]Distribution

func (s ParamSpace) sortedKeys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ParamSampler draws parameter combinations from a ParamSpace with a seeded
// generator, so the same seed reproduces the same candidates.
type ParamSampler struct {
	space ParamSpace
	rng   *rand.Rand
}

// NewParamSampler creates a sampler over the given space.
func NewParamSampler(space ParamSpace, seed int64) (*ParamSampler, error) {
	if len(space) == 0 {
		return nil, scierr.Wrap(scierr.ErrEmptyGrid, "NewParamSampler")
	}
	return &ParamSampler{space: space, rng: rand.New(rand.NewSource(seed))}, nil
}

// Sample draws n parameter combinations. Keys are visited in sorted order so
// the stream of random draws, hence the candidates, is deterministic.
func (s *ParamSampler) Sample(n int) []model.Params {
	keys := s.space.sortedKeys()
	out := make([]model.Params, n)
	for i := 0; i < n; i++ {
		combo := make(model.Params, len(keys))
		for _, key := range keys {
			combo[key] = s.space[key].Sample(s.rng)
		}
		out[i] = combo
	}
	return out
}
