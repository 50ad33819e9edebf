// Package block defines the closed set of block types a chunk cell can hold.
package block

import "fmt"

// Type identifies the content of one chunk cell.
type Type uint8

const (
	// Absent marks a cell that has not been filled, or a lookup into a chunk
	// that is not loaded. It is never the same as Air.
	Absent Type = iota
	Air
	Water
	GrassDirt
	Dirt
	Stone
	Sand
	Gravel
	Snow
	TreeTrunk
	TreeLeaves

	numTypes
)

var names = [numTypes]string{
	Absent:     "absent",
	Air:        "air",
	Water:      "water",
	GrassDirt:  "grass_dirt",
	Dirt:       "dirt",
	Stone:      "stone",
	Sand:       "sand",
	Gravel:     "gravel",
	Snow:       "snow",
	TreeTrunk:  "tree_trunk",
	TreeLeaves: "tree_leaves",
}

// Types returns every defined block type in declaration order.
func Types() []Type {
	out := make([]Type, 0, numTypes)
	for t := Absent; t < numTypes; t++ {
		out = append(out, t)
	}
	return out
}

// Valid reports whether t is one of the declared types.
func (t Type) Valid() bool { return t < numTypes }

// Solid reports whether the block stops rays and hides the faces of its
// neighbours. Absent, Air and Water are the only non-solid types.
func (t Type) Solid() bool {
	switch t {
	case Absent, Air, Water:
		return false
	}
	return t.Valid()
}

// Empty reports whether the cell holds nothing renderable.
func (t Type) Empty() bool { return t == Absent || t == Air }

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("block(%d)", uint8(t))
	}
	return names[t]
}

// Parse resolves a block name as used in biome and atlas files.
func Parse(name string) (Type, error) {
	for t, n := range names {
		if n == name {
			return Type(t), nil
		}
	}
	return Absent, fmt.Errorf("unknown block type %q", name)
}

// UnmarshalText implements encoding.TextUnmarshaler so block names can be
// used directly in YAML documents.
func (t *Type) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid block type %d", uint8(t))
	}
	return []byte(names[t]), nil
}
