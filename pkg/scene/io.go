package scene

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/netblend/netblend/pkg/errors"
)

// =============================================================================
// Serialization API
// =============================================================================

// Marshal encodes s as indented JSON.
func Marshal(s *Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes s as JSON to w.
func Write(s *Scene, w io.Writer) error {
	return writeTo(s, w)
}

// WriteFile writes s to a JSON file with 0644 permissions.
func WriteFile(s *Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return writeTo(s, f)
}

// Unmarshal decodes and validates a scene.
func Unmarshal(data []byte) (*Scene, error) {
	return readFrom(bytes.NewReader(data))
}

// Read decodes and validates a scene from r.
func Read(r io.Reader) (*Scene, error) {
	return readFrom(r)
}

// ReadFile reads and validates a scene file.
func ReadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return readFrom(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(s *Scene, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return nil
}

func readFrom(r io.Reader) (*Scene, error) {
	var s Scene
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode scene")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
