package model

import (
	"encoding/gob"
	"io"
	"os"

	scierr "github.com/parsearch/parsearch/pkg/errors"
)

// SaveModel writes a fitted estimator to a file with gob encoding.
func SaveModel(model interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return scierr.Wrap(err, "failed to create model file")
	}
	defer file.Close()

	return SaveModelToWriter(model, file)
}

// LoadModel reads an estimator previously written by SaveModel.
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return scierr.Wrap(err, "failed to open model file")
	}
	defer file.Close()

	return LoadModelFromReader(model, file)
}

// SaveModelToWriter gob-encodes an estimator to w.
func SaveModelToWriter(model interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(model); err != nil {
		return scierr.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader gob-decodes an estimator from r.
func LoadModelFromReader(model interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(model); err != nil {
		return scierr.Wrap(err, "failed to decode model")
	}
	return nil
}
