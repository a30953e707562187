// Package marks tracks the points a user has clicked on an image.
package marks

import (
	"encoding/json"
	"fmt"

	"colony-counter/pkg/geometry"
)

// Mark is one counted object, in original image pixel coordinates.
// It serializes as a two element array [x, y].
type Mark struct {
	X int
	Y int
}

// Point returns the mark as a geometry point.
func (m Mark) Point() geometry.PointInt {
	return geometry.PointInt{X: m.X, Y: m.Y}
}

// MarshalJSON encodes the mark as [x, y].
func (m Mark) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{m.X, m.Y})
}

// UnmarshalJSON decodes a mark from [x, y].
func (m *Mark) UnmarshalJSON(data []byte) error {
	var xy []int
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("mark must be an [x, y] pair: %w", err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("mark must be an [x, y] pair, got %d values", len(xy))
	}
	m.X, m.Y = xy[0], xy[1]
	return nil
}

// List is an ordered sequence of marks. Index i is displayed as i+1.
// The zero value is an empty list.
type List struct {
	items []Mark
}

// NewList returns an empty list.
func NewList() *List { return &List{} }

// Add appends a mark at (x, y) if it lies inside bounds.
// Out-of-bounds points are dropped silently; the return value reports
// whether the mark was recorded.
func (l *List) Add(x, y int, bounds geometry.SizeInt) bool {
	if !bounds.Contains(geometry.PointInt{X: x, Y: y}) {
		return false
	}
	l.items = append(l.items, Mark{X: x, Y: y})
	return true
}

// RemoveLast pops the most recent mark. It is a no-op on an empty list.
func (l *List) RemoveLast() (Mark, bool) {
	if len(l.items) == 0 {
		return Mark{}, false
	}
	last := l.items[len(l.items)-1]
	l.items = l.items[:len(l.items)-1]
	return last, true
}

// Clear discards every mark.
func (l *List) Clear() {
	l.items = nil
}

// Replace swaps the whole list for marks, as given.
// No bounds check is applied.
func (l *List) Replace(marks []Mark) {
	l.items = append([]Mark(nil), marks...)
}

// Count returns the number of marks.
func (l *List) Count() int {
	return len(l.items)
}

// All returns a copy of the marks in insertion order.
func (l *List) All() []Mark {
	return append([]Mark(nil), l.items...)
}

// At returns the mark at zero-based index i.
func (l *List) At(i int) Mark {
	return l.items[i]
}
