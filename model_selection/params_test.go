package model_selection

import (
	"testing"

	scierr "github.com/parsearch/parsearch/pkg/errors"
)

func TestParamGridEnumerate(t *testing.T) {
	grid := ParamGrid{
		"C":       {0.1, 1.0},
		"penalty": {"l2", "none"},
	}

	combos, err := grid.Enumerate()
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if len(combos) != 4 {
		t.Fatalf("got %d combinations, want 4", len(combos))
	}

	// Sorted keys: C before penalty; the last key varies fastest.
	if combos[0]["C"] != 0.1 || combos[0]["penalty"] != "l2" {
		t.Errorf("combos[0] = %v", combos[0])
	}
	if combos[1]["C"] != 0.1 || combos[1]["penalty"] != "none" {
		t.Errorf("combos[1] = %v", combos[1])
	}
	if combos[2]["C"] != 1.0 || combos[2]["penalty"] != "l2" {
		t.Errorf("combos[2] = %v", combos[2])
	}
}

func TestParamGridEnumerateDeterministic(t *testing.T) {
	grid := ParamGrid{
		"a": {1, 2, 3},
		"b": {true, false},
		"c": {"x"},
	}

	first, err := grid.Enumerate()
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	second, _ := grid.Enumerate()

	for i := range first {
		for key, value := range first[i] {
			if second[i][key] != value {
				t.Fatalf("combination %d differs between enumerations", i)
			}
		}
	}
}

func TestParamGridEmpty(t *testing.T) {
	_, err := ParamGrid{}.Enumerate()
	if !scierr.Is(err, scierr.ErrEmptyGrid) {
		t.Errorf("expected ErrEmptyGrid, got %v", err)
	}
}

func TestParamGridEmptyValueList(t *testing.T) {
	if _, err := (ParamGrid{"C": {}}).Enumerate(); err == nil {
		t.Error("parameter with no values should fail")
	}
}

func TestParamGridSize(t *testing.T) {
	grid := ParamGrid{"a": {1, 2, 3}, "b": {1, 2}}
	if grid.Size() != 6 {
		t.Errorf("Size = %d, want 6", grid.Size())
	}
}

func TestUniformSamplesInRange(t *testing.T) {
	sampler, err := NewParamSampler(ParamSpace{"x": Uniform{Low: 2, High: 5}}, 1)
	if err != nil {
		t.Fatalf("NewParamSampler failed: %v", err)
	}

	for _, params := range sampler.Sample(100) {
		x := params.GetFloat64("x", -1)
		if x < 2 || x >= 5 {
			t.Fatalf("sample %f outside [2, 5)", x)
		}
	}
}

func TestLogUniformSamplesInRange(t *testing.T) {
	sampler, err := NewParamSampler(ParamSpace{"C": LogUniform{Low: 1e-3, High: 1e3}}, 2)
	if err != nil {
		t.Fatalf("NewParamSampler failed: %v", err)
	}

	low, high := false, false
	for _, params := range sampler.Sample(200) {
		c := params.GetFloat64("C", -1)
		if c < 1e-3 || c >= 1e3 {
			t.Fatalf("sample %f outside range", c)
		}
		if c < 1 {
			low = true
		} else {
			high = true
		}
	}
	// A log scale should put mass on both sides of 1.
	if !low || !high {
		t.Error("log-uniform samples concentrated on one side of 1")
	}
}

func TestUniformIntInclusive(t *testing.T) {
	sampler, err := NewParamSampler(ParamSpace{"n": UniformInt{Low: 1, High: 3}}, 3)
	if err != nil {
		t.Fatalf("NewParamSampler failed: %v", err)
	}

	seen := make(map[int]bool)
	for _, params := range sampler.Sample(100) {
		n := params.GetInt("n", -1)
		if n < 1 || n > 3 {
			t.Fatalf("sample %d outside [1, 3]", n)
		}
		seen[n] = true
	}
	if len(seen) != 3 {
		t.Errorf("saw values %v, want all of 1..3", seen)
	}
}

func TestChoiceSampling(t *testing.T) {
	sampler, err := NewParamSampler(ParamSpace{
		"penalty": Choice{Options: []interface{}{"l2", "none"}},
	}, 4)
	if err != nil {
		t.Fatalf("NewParamSampler failed: %v", err)
	}

	for _, params := range sampler.Sample(20) {
		p := params.GetString("penalty", "")
		if p != "l2" && p != "none" {
			t.Fatalf("unexpected choice %q", p)
		}
	}
}

func TestParamSamplerReproducible(t *testing.T) {
	space := ParamSpace{
		"C":     LogUniform{Low: 0.01, High: 100},
		"alpha": Uniform{Low: 0, High: 1},
		"n":     UniformInt{Low: 1, High: 10},
	}

	first, err := NewParamSampler(space, 42)
	if err != nil {
		t.Fatalf("NewParamSampler failed: %v", err)
	}
	second, _ := NewParamSampler(space, 42)

	a := first.Sample(25)
	b := second.Sample(25)
	for i := range a {
		for key, value := range a[i] {
			if b[i][key] != value {
				t.Fatalf("sample %d key %s differs between seeded runs", i, key)
			}
		}
	}
}

func TestParamSamplerEmptySpace(t *testing.T) {
	if _, err := NewParamSampler(ParamSpace{}, 0); !scierr.Is(err, scierr.ErrEmptyGrid) {
		t.Errorf("expected ErrEmptyGrid, got %v", err)
	}
}
