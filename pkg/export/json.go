package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chazu/icomesh/pkg/mesh"
)

// WriteJSON writes m as a single indented JSON document.
func WriteJSON(w io.Writer, m *mesh.Mesh) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("export: json: %w", err)
	}
	return nil
}

// ReadJSON decodes a mesh written by WriteJSON.
func ReadJSON(r io.Reader) (*mesh.Mesh, error) {
	var m mesh.Mesh
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("export: json: %w", err)
	}
	return &m, nil
}
