package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/netblend/netblend/pkg/network"
)

// WriteConfig encodes cfg as a single indented JSON document.
// The output can be read back with [ReadConfig].
func WriteConfig(cfg network.Config, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportDir writes cfg into dir as arch.json and, when activations are
// present, activations.json. The directory is created if needed.
func ExportDir(cfg network.Config, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if err := writeJSON(filepath.Join(dir, ArchFile), cfg.Arch); err != nil {
		return err
	}
	if cfg.Activations == nil {
		return nil
	}
	return writeJSON(filepath.Join(dir, ActivationsFile), cfg.Activations)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
