package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/netblend/netblend/pkg/arch"
	"github.com/netblend/netblend/pkg/errors"
	"github.com/netblend/netblend/pkg/network"
)

// File names inside a network directory.
const (
	ArchFile        = "arch.json"
	ActivationsFile = "activations.json"
)

// ReadArch decodes an architecture document from r. Both the bare array
// form and the {"arch": [...]} form are accepted. ReadArch does not close r.
func ReadArch(r io.Reader) ([]arch.LayerShape, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read architecture")
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var doc struct {
			Arch json.RawMessage `json:"arch"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode architecture")
		}
		if doc.Arch == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "architecture document has no \"arch\" field")
		}
		data = doc.Arch
	}
	return arch.ParseShapes(data)
}

// ReadActivations decodes a JSON array of opaque activation datapoints.
// ReadActivations does not close r.
func ReadActivations(r io.Reader) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode activations")
	}
	return out, nil
}

// ReadConfig decodes a single-document configuration from r.
func ReadConfig(r io.Reader) (network.Config, error) {
	var cfg network.Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		if errors.GetCode(err) != "" {
			return network.Config{}, err
		}
		return network.Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	return cfg, nil
}

// ImportDir loads the configuration stored in dir. arch.json is required;
// activations.json is optional and yields nil activations when absent.
func ImportDir(dir string) (network.Config, error) {
	shapes, err := importFile(filepath.Join(dir, ArchFile), ReadArch)
	if err != nil {
		return network.Config{}, err
	}

	actPath := filepath.Join(dir, ActivationsFile)
	var activations []json.RawMessage
	if _, statErr := os.Stat(actPath); statErr == nil {
		activations, err = importFile(actPath, ReadActivations)
		if err != nil {
			return network.Config{}, err
		}
	}

	return network.Config{Arch: shapes, Activations: activations}, nil
}

// ImportConfig reads a single-document configuration file.
func ImportConfig(path string) (network.Config, error) {
	return importFile(path, ReadConfig)
}

func importFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return zero, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return zero, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInvalidInput
		}
		return zero, errors.Wrap(code, err, "%s", path)
	}
	return v, nil
}
