package grid

import (
	"testing"

	"github.com/pcbflow/pcbflow/pkg/board"
)

func TestSnap(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		size float64
		want float64
	}{
		{"ExactMultiple", 30, 10, 30},
		{"RoundsDown", 33, 10, 30},
		{"RoundsUp", 37, 10, 40},
		{"HalfAwayFromZero", 25, 10, 30},
		{"NegativeHalfAwayFromZero", -25, 10, -30},
		{"NegativeRoundsDown", -33, 10, -30},
		{"Zero", 0, 10, 0},
		{"FractionalPitch", 1.3, 0.5, 1.5},
		{"ZeroSizeDisables", 33, 0, 33},
		{"NegativeSizeDisables", 33, -5, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Snap(tt.v, tt.size); got != tt.want {
				t.Errorf("Snap(%g, %g) = %g, want %g", tt.v, tt.size, got, tt.want)
			}
		})
	}
}

func TestSnapIdempotent(t *testing.T) {
	for _, v := range []float64{0, 3.7, 25, -25, 99.99, -1234.5, 7.0000001} {
		once := Snap(v, DefaultSize)
		twice := Snap(once, DefaultSize)
		if once != twice {
			t.Errorf("Snap not idempotent for %g: %g then %g", v, once, twice)
		}
	}
}

func TestSnapPoint(t *testing.T) {
	got := SnapPoint(board.Point{X: 33, Y: 37}, 10)
	want := board.Point{X: 30, Y: 40}
	if got != want {
		t.Errorf("SnapPoint = %+v, want %+v", got, want)
	}
}

func TestSnapNode(t *testing.T) {
	t.Run("Aligned", func(t *testing.T) {
		n := board.Node{ID: "r1", X: 33, Y: 37, Width: 10, Height: 10, GridAligned: true}
		if moved := SnapNode(&n, 10); !moved {
			t.Error("SnapNode reported no move")
		}
		if n.X != 30 || n.Y != 40 {
			t.Errorf("snapped to (%g, %g), want (30, 40)", n.X, n.Y)
		}
	})

	t.Run("AlreadyOnGrid", func(t *testing.T) {
		n := board.Node{ID: "r1", X: 30, Y: 40, Width: 10, Height: 10, GridAligned: true}
		if moved := SnapNode(&n, 10); moved {
			t.Error("SnapNode reported a move for an on-grid node")
		}
	})

	t.Run("NotAligned", func(t *testing.T) {
		n := board.Node{ID: "r1", X: 33, Y: 37, Width: 10, Height: 10}
		if moved := SnapNode(&n, 10); moved {
			t.Error("SnapNode moved a node that never opted in")
		}
		if n.X != 33 || n.Y != 37 {
			t.Errorf("position changed to (%g, %g), want (33, 37)", n.X, n.Y)
		}
	})
}
