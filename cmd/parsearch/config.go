package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/parsearch/parsearch/model_selection"
	scierr "github.com/parsearch/parsearch/pkg/errors"
)

// searchSpaces is the YAML layout accepted by --config. Any section left out
// keeps its built-in default.
type searchSpaces struct {
	Digits *spaceConfig `yaml:"digits"`
	Text   *spaceConfig `yaml:"text"`
}

type spaceConfig struct {
	Grid   map[string][]interface{} `yaml:"grid"`
	Random *randomConfig            `yaml:"random"`
}

type randomConfig struct {
	NIter  int                   `yaml:"n_iter"`
	Params map[string]distConfig `yaml:"params"`
}

// distConfig describes one sampled parameter. Exactly one form applies:
// choices, an integer range, or a float range (optionally log-scaled).
type distConfig struct {
	Low     float64       `yaml:"low"`
	High    float64       `yaml:"high"`
	Log     bool          `yaml:"log"`
	Int     bool          `yaml:"int"`
	Choices []interface{} `yaml:"choices"`
}

func (d distConfig) distribution(name string) (model_selection.Distribution, error) {
	if len(d.Choices) > 0 {
		return model_selection.Choice{Options: d.Choices}, nil
	}
	if d.Int {
		return model_selection.UniformInt{Low: int(d.Low), High: int(d.High)}, nil
	}
	if d.High <= d.Low {
		return nil, scierr.NewValidationError(name, "high must exceed low", d)
	}
	if d.Log {
		if d.Low <= 0 {
			return nil, scierr.NewValidationError(name, "log range needs low > 0", d)
		}
		return model_selection.LogUniform{Low: d.Low, High: d.High}, nil
	}
	return model_selection.Uniform{Low: d.Low, High: d.High}, nil
}

func (r *randomConfig) space() (model_selection.ParamSpace, error) {
	space := make(model_selection.ParamSpace, len(r.Params))
	for name, cfg := range r.Params {
		dist, err := cfg.distribution(name)
		if err != nil {
			return nil, err
		}
		space[name] = dist
	}
	return space, nil
}

func loadSearchSpaces(path string) (*searchSpaces, error) {
	spaces := &searchSpaces{}
	if path == "" {
		return spaces, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, scierr.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, spaces); err != nil {
		return nil, scierr.Wrap(err, "parse config")
	}
	return spaces, nil
}
