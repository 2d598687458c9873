package physics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/pcbflow/pcbflow/pkg/board"
)

func testEngine(t *testing.T, w, h float64) *Engine {
	t.Helper()
	eng, err := New(DefaultConfig(w, h))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return eng
}

func TestNewRejectsInvalidCanvas(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
	}{
		{"ZeroWidth", 0, 100},
		{"ZeroHeight", 100, 0},
		{"NegativeWidth", -10, 100},
		{"NegativeHeight", 100, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(DefaultConfig(tt.w, tt.h)); !errors.Is(err, ErrInvalidCanvas) {
				t.Errorf("New(%g, %g) = %v, want ErrInvalidCanvas", tt.w, tt.h, err)
			}
		})
	}
}

func TestAddNodeValidation(t *testing.T) {
	eng := testEngine(t, 100, 100)

	if err := eng.AddNode(board.Node{Width: 10, Height: 10}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty ID: got %v, want ErrInvalidNodeID", err)
	}
	if err := eng.AddNode(board.Node{ID: "r1", Width: 0, Height: 10}); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero width: got %v, want ErrInvalidDimensions", err)
	}
	if err := eng.AddNode(board.Node{ID: "r1", Width: 10, Height: 10}); err != nil {
		t.Fatalf("valid node: %v", err)
	}
	if err := eng.AddNode(board.Node{ID: "r1", Width: 10, Height: 10}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate ID: got %v, want ErrDuplicateNodeID", err)
	}
}

func TestAddNodeDefaultsMass(t *testing.T) {
	eng := testEngine(t, 100, 100)
	if err := eng.AddNode(board.Node{ID: "r1", Width: 10, Height: 10, Mass: 0}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	n, ok := eng.Node("r1")
	if !ok {
		t.Fatal("node not found")
	}
	if n.Mass != board.DefaultMass {
		t.Errorf("Mass = %g, want %g", n.Mass, board.DefaultMass)
	}
}

func TestAddConnectionSkipsDegenerate(t *testing.T) {
	eng := testEngine(t, 100, 100)
	for _, id := range []string{"a", "b"} {
		if err := eng.AddNode(board.Node{ID: id, Width: 5, Height: 5}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}

	eng.AddConnection(board.Connection{From: "a", To: "b"})
	eng.AddConnection(board.Connection{From: "a", To: "ghost"})
	eng.AddConnection(board.Connection{From: "ghost", To: "b"})
	eng.AddConnection(board.Connection{From: "a", To: "a"})

	if got := eng.Skipped(); got != 3 {
		t.Errorf("Skipped() = %d, want 3", got)
	}
}

func TestBoundsInvariant(t *testing.T) {
	cfg := DefaultConfig(200, 150)
	cfg.Repulsion = 50000 // strong enough to slam nodes into the walls
	eng, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	nodes := []board.Node{
		{ID: "a", X: 90, Y: 70, Width: 20, Height: 10},
		{ID: "b", X: 95, Y: 72, Width: 20, Height: 10},
		{ID: "c", X: 100, Y: 68, Width: 20, Height: 10},
		{ID: "d", X: 98, Y: 75, Width: 20, Height: 10},
	}
	for _, n := range nodes {
		if err := eng.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}

	for step := 0; step < 50; step++ {
		eng.Step()
		for _, n := range eng.Nodes() {
			if n.X < 0 || n.X+n.Width > 200 || n.Y < 0 || n.Y+n.Height > 150 {
				t.Fatalf("step %d: node %s out of bounds at (%g, %g)", step, n.ID, n.X, n.Y)
			}
		}
	}
}

func TestFixedNodeNeverMoves(t *testing.T) {
	eng := testEngine(t, 500, 500)
	if err := eng.AddNode(board.Node{ID: "anchor", X: 100, Y: 100, Width: 10, Height: 10, Fixed: true}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := eng.AddNode(board.Node{ID: "sat", X: 110, Y: 105, Width: 10, Height: 10}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	eng.AddConnection(board.Connection{From: "anchor", To: "sat", Strength: 1, IdealLength: 50})

	if _, err := eng.Simulate(context.Background(), 100, 0.001); err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	n, _ := eng.Node("anchor")
	if n.X != 100 || n.Y != 100 {
		t.Errorf("fixed node moved to (%g, %g), want (100, 100)", n.X, n.Y)
	}
}

func TestDeterminism(t *testing.T) {
	build := func() *Engine {
		cfg := DefaultConfig(300, 300)
		cfg.Seed = 7
		eng, err := New(cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		// Two coincident nodes force the degeneracy path through the
		// seeded generator.
		for _, n := range []board.Node{
			{ID: "a", X: 50, Y: 50, Width: 10, Height: 10},
			{ID: "b", X: 50, Y: 50, Width: 10, Height: 10},
			{ID: "c", X: 200, Y: 100, Width: 10, Height: 10},
		} {
			if err := eng.AddNode(n); err != nil {
				t.Fatalf("AddNode(%s): %v", n.ID, err)
			}
		}
		eng.AddConnection(board.Connection{From: "a", To: "c", Strength: 1, IdealLength: 80})
		return eng
	}

	e1, e2 := build(), build()
	for step := 0; step < 50; step++ {
		e1.Step()
		e2.Step()
		p1, p2 := e1.Positions(), e2.Positions()
		for id, p := range p1 {
			if p != p2[id] {
				t.Fatalf("step %d: node %s diverged: %v vs %v", step, id, p, p2[id])
			}
		}
	}
}

func TestSpringConvergence(t *testing.T) {
	eng := testEngine(t, 1000, 1000)
	if err := eng.AddNode(board.Node{ID: "a", X: 195, Y: 495, Width: 10, Height: 10}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := eng.AddNode(board.Node{ID: "b", X: 695, Y: 495, Width: 10, Height: 10}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	eng.AddConnection(board.Connection{From: "a", To: "b", Strength: 1, IdealLength: 100})

	steps, err := eng.Simulate(context.Background(), 200, 0.001)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	a, _ := eng.Node("a")
	b, _ := eng.Node("b")
	dist := a.Center().DistanceTo(b.Center())
	if math.Abs(dist-100) > 2 {
		t.Errorf("after %d steps, center distance = %g, want 100 ± 2", steps, dist)
	}
}

func TestSimulateReportsNonConvergence(t *testing.T) {
	cfg := DefaultConfig(400, 400)
	cfg.Damping = 0.999 // keep the system jittering past the budget
	cfg.Repulsion = 100000
	eng, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, n := range []board.Node{
		{ID: "a", X: 180, Y: 180, Width: 10, Height: 10},
		{ID: "b", X: 210, Y: 210, Width: 10, Height: 10},
	} {
		if err := eng.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}

	steps, err := eng.Simulate(context.Background(), 5, 1e-12)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if steps != 5 {
		t.Errorf("steps = %d, want full budget 5", steps)
	}
}

func TestSimulateHonorsContext(t *testing.T) {
	eng := testEngine(t, 400, 400)
	if err := eng.AddNode(board.Node{ID: "a", X: 10, Y: 10, Width: 10, Height: 10}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := eng.Simulate(ctx, 1000, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Simulate = %v, want context.Canceled", err)
	}
}

func TestSimulateStepFuncAborts(t *testing.T) {
	eng := testEngine(t, 400, 400)
	for _, n := range []board.Node{
		{ID: "a", X: 100, Y: 100, Width: 10, Height: 10},
		{ID: "b", X: 120, Y: 100, Width: 10, Height: 10},
	} {
		if err := eng.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}

	calls := 0
	eng.StepFunc = func(step int, maxDisp float64) bool {
		calls++
		return calls < 3
	}

	steps, err := eng.Simulate(context.Background(), 1000, 0)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if steps != 3 {
		t.Errorf("steps = %d, want 3 (aborted by StepFunc)", steps)
	}
}
