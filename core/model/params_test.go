package model

import (
	"testing"
)

func TestParamsGetters(t *testing.T) {
	p := Params{
		"C":        10.0,
		"max_iter": 200,
		"penalty":  "l2",
		"use_idf":  true,
	}

	if got := p.GetFloat64("C", 1.0); got != 10.0 {
		t.Errorf("GetFloat64(C) = %f, want 10", got)
	}
	if got := p.GetInt("max_iter", 100); got != 200 {
		t.Errorf("GetInt(max_iter) = %d, want 200", got)
	}
	if got := p.GetString("penalty", "none"); got != "l2" {
		t.Errorf("GetString(penalty) = %s, want l2", got)
	}
	if got := p.GetBool("use_idf", false); !got {
		t.Error("GetBool(use_idf) = false, want true")
	}

	// Defaults for missing keys.
	if got := p.GetFloat64("tol", 1e-4); got != 1e-4 {
		t.Errorf("missing key should return default, got %f", got)
	}
}

func TestParamsNumericCoercion(t *testing.T) {
	p := Params{"alpha": 1, "folds": 3.0}

	if got := p.GetFloat64("alpha", 0); got != 1.0 {
		t.Errorf("int value should coerce to float, got %f", got)
	}
	if got := p.GetInt("folds", 0); got != 3 {
		t.Errorf("float value should coerce to int, got %d", got)
	}
}

func TestParamsCopyIsIndependent(t *testing.T) {
	p := Params{"C": 1.0}
	q := p.Copy()
	q["C"] = 100.0

	if p.GetFloat64("C", 0) != 1.0 {
		t.Error("Copy must not share storage with the original")
	}
}

func TestParamsKeysSorted(t *testing.T) {
	p := Params{"gamma": 1, "alpha": 2, "beta": 3}
	keys := p.Keys()

	want := []string{"alpha", "beta", "gamma"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}
}

func TestParamsString(t *testing.T) {
	p := Params{"b": 2, "a": 1}
	if got := p.String(); got != "a=1, b=2" {
		t.Errorf("String() = %q, want %q", got, "a=1, b=2")
	}
}
