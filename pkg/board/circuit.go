package board

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Circuit - Canonical Serialization Format
// =============================================================================

// Circuit is the canonical serialization format for a board: the flat
// component list and the net list a file-parsing collaborator produces,
// and the positions a rendering collaborator consumes after layout.
//
// The format is human-readable and designed for round-trip fidelity:
// import → layout → export → re-import produces identical results.
type Circuit struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// NodeByID returns the node with the given ID, or nil if absent.
func (c *Circuit) NodeByID(id string) *Node {
	for i := range c.Nodes {
		if c.Nodes[i].ID == id {
			return &c.Nodes[i]
		}
	}
	return nil
}

// Validate checks structural constraints that cannot be tolerated
// downstream: empty or duplicate node IDs and non-positive dimensions.
// Dangling connection endpoints are deliberately not an error here - the
// engine skips and counts them (see physics.Engine.Skipped).
func (c *Circuit) Validate() error {
	seen := make(map[string]bool, len(c.Nodes))
	for i := range c.Nodes {
		n := &c.Nodes[i]
		if n.ID == "" {
			return fmt.Errorf("node %d: empty ID", i)
		}
		if seen[n.ID] {
			return fmt.Errorf("node %q: duplicate ID", n.ID)
		}
		seen[n.ID] = true
		if n.Width <= 0 || n.Height <= 0 {
			return fmt.Errorf("node %q: dimensions must be positive (%gx%g)", n.ID, n.Width, n.Height)
		}
	}
	return nil
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalCircuit serializes a Circuit to pretty-printed JSON bytes.
func MarshalCircuit(c Circuit) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// UnmarshalCircuit deserializes JSON bytes into a Circuit and validates it.
func UnmarshalCircuit(data []byte) (Circuit, error) {
	var c Circuit
	if err := json.Unmarshal(data, &c); err != nil {
		return Circuit{}, fmt.Errorf("unmarshal circuit: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Circuit{}, err
	}
	return c, nil
}

// WriteCircuitFile writes a Circuit to a JSON file.
func WriteCircuitFile(c Circuit, path string) error {
	data, err := MarshalCircuit(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadCircuitFile reads a Circuit from a JSON file.
func ReadCircuitFile(path string) (Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Circuit{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalCircuit(data)
}
