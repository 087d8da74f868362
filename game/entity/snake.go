package entity

import "snake-game/game/types"

// Snake is the player's body. Body[0] is the head and the last element the
// tail; a segment keeps its index for as long as it exists.
type Snake struct {
	Body      []types.Point
	Direction DirectionQueue
}

func NewSnake(body []types.Point) *Snake {
	s := &Snake{}
	s.Reset(body)
	return s
}

// Reset reseeds the body and points the head Right with nothing queued.
func (s *Snake) Reset(body []types.Point) {
	s.Body = append(s.Body[:0], body...)
	s.Direction = NewDirectionQueue(types.Right)
}

func (s *Snake) GetHead() types.Point {
	return s.Body[0]
}

func (s *Snake) GetTail() types.Point {
	return s.Body[len(s.Body)-1]
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// Occupies reports whether any segment sits on p.
func (s *Snake) Occupies(p types.Point) bool {
	for _, part := range s.Body {
		if part == p {
			return true
		}
	}
	return false
}

// Grow appends a new tail segment at p.
func (s *Snake) Grow(p types.Point) {
	s.Body = append(s.Body, p)
}

// Positions returns a copy of the body, head first.
func (s *Snake) Positions() []types.Point {
	out := make([]types.Point, len(s.Body))
	copy(out, s.Body)
	return out
}
