package space

import "fmt"

// Material is the label stored in a voxel.
type Material uint8

const (
	Air Material = iota
	Bark
	Wood
	Heartwood
	Log
	MossyBark
	CompostedLog
	Leaves
	Amber
	// DeadLeafSpace marks a deliberately sparse pocket inside a leaf cluster.
	DeadLeafSpace
	// DebugTurn and DebugSplit mark branch turn and split points when debug
	// markers are enabled.
	DebugTurn
	DebugSplit

	numMaterials
)

var materialNames = [numMaterials]string{
	Air:           "air",
	Bark:          "bark",
	Wood:          "wood",
	Heartwood:     "heartwood",
	Log:           "log",
	MossyBark:     "mossy_bark",
	CompostedLog:  "composted_log",
	Leaves:        "leaves",
	Amber:         "amber",
	DeadLeafSpace: "dead_leaf_space",
	DebugTurn:     "debug_turn",
	DebugSplit:    "debug_split",
}

// Materials lists every material in declaration order.
func Materials() []Material {
	ms := make([]Material, numMaterials)
	for i := range ms {
		ms[i] = Material(i)
	}
	return ms
}

func (m Material) String() string {
	if m < numMaterials {
		return materialNames[m]
	}
	return fmt.Sprintf("material(%d)", uint8(m))
}

// IsEmpty reports whether m counts as unoccupied space.
func (m Material) IsEmpty() bool { return m == Air }

// MarshalText implements encoding.TextMarshaler.
func (m Material) MarshalText() ([]byte, error) {
	if m >= numMaterials {
		return nil, fmt.Errorf("unknown material %d", uint8(m))
	}
	return []byte(materialNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Material) UnmarshalText(text []byte) error {
	s := string(text)
	for i, name := range materialNames {
		if name == s {
			*m = Material(i)
			return nil
		}
	}
	return fmt.Errorf("unknown material %q", s)
}
