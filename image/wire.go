// Package image serializes engine snapshots for distribution and reload.
package image

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/quillmark/bst/vm"
)

// cborEncMode holds CBOR encoding options with canonical mode for
// deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal serializes a Snapshot to CBOR bytes.
func Marshal(s *vm.Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// Unmarshal deserializes a Snapshot from CBOR bytes.
func Unmarshal(data []byte) (*vm.Snapshot, error) {
	var s vm.Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("image: unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// Capture serializes an engine's state in one step.
func Capture(e *vm.Engine) ([]byte, error) {
	return Marshal(e.Snapshot())
}

// Restore builds a fresh engine from serialized snapshot bytes.
func Restore(data []byte) (*vm.Engine, error) {
	s, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return vm.Restore(s), nil
}
