package export

import (
	"fmt"
	"io"

	"github.com/chazu/icomesh/pkg/mesh"
	"github.com/ugorji/go/codec"
)

// msgpackHandle is shared; handles are safe for concurrent use once
// configured.
var msgpackHandle = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	return h
}()

// WriteMsgpack writes m as a MessagePack map keyed by the codec tags.
func WriteMsgpack(w io.Writer, m *mesh.Mesh) error {
	if err := codec.NewEncoder(w, msgpackHandle).Encode(m); err != nil {
		return fmt.Errorf("export: msgpack: %w", err)
	}
	return nil
}

// ReadMsgpack decodes a mesh written by WriteMsgpack.
func ReadMsgpack(r io.Reader) (*mesh.Mesh, error) {
	var m mesh.Mesh
	if err := codec.NewDecoder(r, msgpackHandle).Decode(&m); err != nil {
		return nil, fmt.Errorf("export: msgpack: %w", err)
	}
	return &m, nil
}
