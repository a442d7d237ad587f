package model

import (
	"fmt"
	"sort"
)

// Params holds hyper-parameters by name:
//
//	model.Params{
//	    "C":        1.0,
//	    "max_iter": 200,
//	    "penalty":  "l2",
//	}
//
// Values are dynamically typed; estimators validate types in SetParams. The
// numeric getters coerce between int and float64 because grids routinely mix
// them (e.g. alpha: []any{1, 0.1, 0.01}).
type Params map[string]interface{}

// Copy returns a shallow copy of the parameters.
func (p Params) Copy() Params {
	newParams := make(Params, len(p))
	for k, v := range p {
		newParams[k] = v
	}
	return newParams
}

// Keys returns the parameter names in ascending order. Search objects rely on
// this for deterministic candidate enumeration.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetInt returns an integer parameter, or the default if absent.
func (p Params) GetInt(name string, def int) int {
	if val, exist := p[name]; exist {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return def
}

// GetFloat64 returns a float parameter, or the default if absent.
func (p Params) GetFloat64(name string, def float64) float64 {
	if val, exist := p[name]; exist {
		switch v := val.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case int64:
			return float64(v)
		}
	}
	return def
}

// GetBool returns a bool parameter, or the default if absent.
func (p Params) GetBool(name string, def bool) bool {
	if val, exist := p[name]; exist {
		if v, ok := val.(bool); ok {
			return v
		}
	}
	return def
}

// GetString returns a string parameter, or the default if absent.
func (p Params) GetString(name string, def string) string {
	if val, exist := p[name]; exist {
		if v, ok := val.(string); ok {
			return v
		}
	}
	return def
}

// String renders the parameters as "k=v" pairs in key order, suitable for
// result tables and logs.
func (p Params) String() string {
	keys := p.Keys()
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%v", k, p[k])
	}
	return out
}
