package types

import (
	"errors"
	"testing"
)

func TestOppositeIsInvolution(t *testing.T) {
	for _, d := range Directions {
		if d.Opposite() == d {
			t.Errorf("%v is its own opposite", d)
		}
		if d.Opposite().Opposite() != d {
			t.Errorf("%v.Opposite().Opposite() = %v", d, d.Opposite().Opposite())
		}
	}
}

func TestDirectionBetween(t *testing.T) {
	tests := []struct {
		from, to Point
		want     Direction
		ok       bool
	}{
		{Point{5, 5}, Point{5, 6}, Up, true},
		{Point{5, 5}, Point{5, 4}, Down, true},
		{Point{5, 5}, Point{4, 5}, Left, true},
		{Point{5, 5}, Point{6, 5}, Right, true},
		{Point{5, 5}, Point{5, 5}, Up, false},
		{Point{5, 5}, Point{6, 6}, Up, false},
		{Point{5, 5}, Point{7, 5}, Up, false},
	}
	for _, tt := range tests {
		got, ok := DirectionBetween(tt.from, tt.to)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("DirectionBetween(%v, %v) = %v, %v; want %v, %v", tt.from, tt.to, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAddMatchesDirectionBetween(t *testing.T) {
	origin := Point{10, 10}
	for _, d := range Directions {
		got, ok := DirectionBetween(origin, origin.Add(d))
		if !ok || got != d {
			t.Errorf("DirectionBetween(origin, origin.Add(%v)) = %v, %v", d, got, ok)
		}
	}
}

func TestNewGrid(t *testing.T) {
	if _, err := NewGrid(19, 30); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("NewGrid(19, 30) error = %v, want ErrInvalidGrid", err)
	}
	if _, err := NewGrid(20, 0); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("NewGrid(20, 0) error = %v, want ErrInvalidGrid", err)
	}
	if _, err := NewGrid(20, 30); err != nil {
		t.Errorf("NewGrid(20, 30) error = %v", err)
	}
}

func TestCellToWorld(t *testing.T) {
	g := Grid{Size: 20, TileSize: 30}
	tests := []struct {
		p    Point
		x, y float32
	}{
		{Point{0, 0}, -285, -285},
		{Point{19, 19}, 285, 285},
		{Point{10, 0}, 15, -285},
	}
	for _, tt := range tests {
		x, y := g.CellToWorld(tt.p)
		if x != tt.x || y != tt.y {
			t.Errorf("CellToWorld(%v) = (%v, %v), want (%v, %v)", tt.p, x, y, tt.x, tt.y)
		}
	}
}

func TestInBounds(t *testing.T) {
	g := Grid{Size: 20, TileSize: 30}
	for _, p := range []Point{{0, 0}, {19, 19}, {0, 19}} {
		if !g.InBounds(p) {
			t.Errorf("InBounds(%v) = false", p)
		}
	}
	for _, p := range []Point{{-1, 0}, {0, -1}, {20, 0}, {0, 20}} {
		if g.InBounds(p) {
			t.Errorf("InBounds(%v) = true", p)
		}
	}
}

func TestStartingBody(t *testing.T) {
	g := Grid{Size: 20, TileSize: 30}
	body := g.StartingBody()
	want := []Point{{5, 10}, {4, 10}, {3, 10}}
	if len(body) != len(want) {
		t.Fatalf("len(body) = %d, want %d", len(body), len(want))
	}
	for i := range want {
		if body[i] != want[i] {
			t.Errorf("body[%d] = %v, want %v", i, body[i], want[i])
		}
	}
}
