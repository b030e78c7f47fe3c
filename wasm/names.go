package wasm

import (
	"bytes"

	"github.com/wasmlens/wasmlens/wasm/internal/binary"
)

// nameSubsecFunction is the subsection ID for the function name map within
// the "name" custom section.
const nameSubsecFunction = 1

// parseNameSection looks for a custom section named "name" and, if found,
// decodes its function name subsection (ID 1) into m.FunctionNames. Absence
// of a name section, or of the function subsection within it, is not an
// error: FunctionNames is simply left nil.
func parseNameSection(m *Module) error {
	for _, cs := range m.CustomSections {
		if cs.Name != "name" {
			continue
		}
		return decodeNameSection(m, cs.Data)
	}
	return nil
}

func decodeNameSection(m *Module, data []byte) error {
	r := binary.NewReader(bytes.NewReader(data))
	for {
		subsecID, err := r.ReadByte()
		if err != nil {
			break // EOF: no more subsections, not an error
		}
		size, err := r.ReadU32()
		if err != nil {
			return r.WrapError("name subsection size", err)
		}
		payload, err := r.ReadBytes(int(size))
		if err != nil {
			return r.WrapError("name subsection data", err)
		}
		if subsecID == nameSubsecFunction {
			names, err := decodeNameMap(payload)
			if err != nil {
				// Malformed function name subsection: ignore it rather than
				// fail the whole module decode, since names are advisory.
				continue
			}
			m.FunctionNames = names
		}
	}
	return nil
}

func decodeNameMap(data []byte) (map[uint32]string, error) {
	r := binary.NewReader(bytes.NewReader(data))
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	names := make(map[uint32]string, count)
	for i := uint32(0); i < count; i++ {
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := r.ReadName()
		if err != nil {
			return nil, err
		}
		names[idx] = name
	}
	return names, nil
}
