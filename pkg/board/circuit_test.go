package board

import (
	"path/filepath"
	"strings"
	"testing"
)

func validCircuit() Circuit {
	return Circuit{
		Nodes: []Node{
			{ID: "u1", X: 10, Y: 20, Width: 40, Height: 20, GridAligned: true},
			{ID: "r1", Width: 20, Height: 10, Posts: []Point{{X: 0, Y: 5}, {X: 20, Y: 5}}},
		},
		Connections: []Connection{
			{From: "u1", To: "r1", Signal: SignalDigital, Strength: 1, IdealLength: 80, AutoRoute: true},
		},
	}
}

func TestCircuitValidate(t *testing.T) {
	tests := []struct {
		name    string
		circuit Circuit
		wantErr string
	}{
		{"Valid", validCircuit(), ""},
		{"Empty", Circuit{}, ""},
		{
			"EmptyID",
			Circuit{Nodes: []Node{{Width: 10, Height: 10}}},
			"empty ID",
		},
		{
			"DuplicateID",
			Circuit{Nodes: []Node{
				{ID: "u1", Width: 10, Height: 10},
				{ID: "u1", Width: 10, Height: 10},
			}},
			"duplicate ID",
		},
		{
			"ZeroWidth",
			Circuit{Nodes: []Node{{ID: "u1", Height: 10}}},
			"dimensions must be positive",
		},
		{
			"DanglingConnectionAllowed",
			Circuit{
				Nodes:       []Node{{ID: "u1", Width: 10, Height: 10}},
				Connections: []Connection{{From: "u1", To: "ghost"}},
			},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.circuit.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCircuitNodeByID(t *testing.T) {
	c := validCircuit()
	if n := c.NodeByID("r1"); n == nil || n.ID != "r1" {
		t.Errorf("NodeByID(r1) = %v", n)
	}
	if n := c.NodeByID("ghost"); n != nil {
		t.Errorf("NodeByID(ghost) = %v, want nil", n)
	}
}

func TestCircuitFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "circuit.json")
	orig := validCircuit()

	if err := WriteCircuitFile(orig, path); err != nil {
		t.Fatalf("WriteCircuitFile: %v", err)
	}
	got, err := ReadCircuitFile(path)
	if err != nil {
		t.Fatalf("ReadCircuitFile: %v", err)
	}

	if len(got.Nodes) != len(orig.Nodes) || len(got.Connections) != len(orig.Connections) {
		t.Fatalf("round trip changed shape: %d nodes, %d connections", len(got.Nodes), len(got.Connections))
	}
	if got.Nodes[0].ID != "u1" || !got.Nodes[0].GridAligned {
		t.Errorf("node fields lost: %+v", got.Nodes[0])
	}
	if got.Nodes[1].Posts[1] != (Point{X: 20, Y: 5}) {
		t.Errorf("posts lost: %+v", got.Nodes[1].Posts)
	}
	c := got.Connections[0]
	if c.From != "u1" || c.To != "r1" || c.Signal != SignalDigital || !c.AutoRoute {
		t.Errorf("connection fields lost: %+v", c)
	}
}

func TestUnmarshalCircuitRejectsInvalid(t *testing.T) {
	if _, err := UnmarshalCircuit([]byte("{not json")); err == nil {
		t.Error("malformed JSON accepted")
	}
	bad := `{"nodes": [{"id": "u1", "width": 0, "height": 10}], "connections": []}`
	if _, err := UnmarshalCircuit([]byte(bad)); err == nil {
		t.Error("invalid circuit accepted")
	}
}

func TestReadCircuitFileMissing(t *testing.T) {
	if _, err := ReadCircuitFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("missing file accepted")
	}
}
