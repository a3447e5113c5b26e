// Package export writes assembled meshes to disk for the solver and for
// inspection: JSON and MessagePack carry the full mesh (vertices, surface
// triangles, boundary lines); STL carries the surface only.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/icomesh/pkg/mesh"
)

// Format is an output file format.
type Format string

const (
	JSON    Format = "json"
	Msgpack Format = "msgpack"
	STL     Format = "stl"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, Msgpack, STL}

// ErrUnknownFormat is returned for a format name outside Formats.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts a format name case-insensitively; "mpk" and "msgp"
// are aliases for msgpack.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "msgpack", "mpk", "msgp":
		return Msgpack, nil
	case "stl":
		return STL, nil
	}
	return "", fmt.Errorf("export: %w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	if f == Msgpack {
		return ".mpk"
	}
	return "." + string(f)
}

// Path returns the output path of m in dir for format f.
func Path(dir string, f Format, m *mesh.Mesh) string {
	return filepath.Join(dir, m.Name+f.Ext())
}

// Write encodes m to w. STL is file based and not supported here.
func Write(w io.Writer, f Format, m *mesh.Mesh) error {
	switch f {
	case JSON:
		return WriteJSON(w, m)
	case Msgpack:
		return WriteMsgpack(w, m)
	}
	return fmt.Errorf("export: %w: %q cannot be streamed", ErrUnknownFormat, f)
}

// Save writes m to path in format f.
func Save(path string, f Format, m *mesh.Mesh) error {
	if f == STL {
		return SaveSTL(path, m)
	}
	if f != JSON && f != Msgpack {
		return fmt.Errorf("export: %w: %q", ErrUnknownFormat, f)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := Write(file, f, m); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// SaveAll writes every mesh into dir, one file per mesh, and returns the
// paths written. The directory is created if needed.
func SaveAll(dir string, f Format, meshes []*mesh.Mesh) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	paths := make([]string, 0, len(meshes))
	for _, m := range meshes {
		p := Path(dir, f, m)
		if err := Save(p, f, m); err != nil {
			return nil, fmt.Errorf("export: mesh %q: %w", m.Name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
