// Package app provides the counting session state and its events.
package app

import (
	"errors"
	"fmt"
	"io"

	"colony-counter/internal/image"
	"colony-counter/internal/marks"
	"colony-counter/internal/session"
	"colony-counter/internal/view"
	"colony-counter/pkg/geometry"

	"github.com/rs/zerolog"
)

// ErrNoImage is returned by operations that need an open image.
var ErrNoImage = errors.New("open an image first")

// State holds the open image, the view and the recorded marks.
// All methods are meant to be called from the UI event loop.
type State struct {
	Image *image.Layer
	View  *view.State
	Marks *marks.List

	log       zerolog.Logger
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventMarksChanged
	EventZoomChanged
	EventCountsSaved
	EventCountsLoaded
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Confirmer asks the user a yes/no question and reports the answer
// through cb. The answer may arrive after Confirm returns.
type Confirmer interface {
	Confirm(title, message string, cb func(yes bool))
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(title, message string, cb func(bool))

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(title, message string, cb func(bool)) { f(title, message, cb) }

// NewState creates an empty session. zoomStep and zoomFloor configure
// the view; see view.New.
func NewState(zoomStep, zoomFloor float64, log zerolog.Logger) *State {
	return &State{
		View:      view.New(zoomStep, zoomFloor),
		Marks:     marks.NewList(),
		log:       log,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	for _, listener := range s.listeners[event] {
		listener(data)
	}
}

// HasImage reports whether an image is open.
func (s *State) HasImage() bool {
	return s.Image != nil
}

// OpenImage decodes path and makes it the current image. Zoom is reset
// and existing marks are discarded. On failure nothing changes.
func (s *State) OpenImage(path string) error {
	layer, err := image.Load(path)
	if err != nil {
		return err
	}

	s.Image = layer
	s.View.SetImage(layer.Size())
	s.Marks.Clear()

	s.log.Info().
		Str("path", path).
		Str("format", layer.Format).
		Int("width", layer.Width()).
		Int("height", layer.Height()).
		Msg("image opened")

	s.Emit(EventImageLoaded, layer)
	s.Emit(EventMarksChanged, 0)
	return nil
}

// Click records a mark under the display point (x, y). Clicks with no
// image open or outside the image are ignored.
func (s *State) Click(displayX, displayY float64) bool {
	if !s.HasImage() {
		return false
	}
	p, ok := s.View.ToImageSpace(displayX, displayY)
	if !ok || !s.Marks.Add(p.X, p.Y, s.View.ImageSize()) {
		s.log.Debug().Float64("x", displayX).Float64("y", displayY).Msg("click outside image ignored")
		return false
	}
	s.log.Debug().Int("x", p.X).Int("y", p.Y).Int("count", s.Marks.Count()).Msg("mark added")
	s.Emit(EventMarksChanged, s.Marks.Count())
	return true
}

// DeleteLast removes the most recent mark, if any.
func (s *State) DeleteLast() bool {
	m, ok := s.Marks.RemoveLast()
	if !ok {
		return false
	}
	s.log.Debug().Int("x", m.X).Int("y", m.Y).Int("count", s.Marks.Count()).Msg("mark removed")
	s.Emit(EventMarksChanged, s.Marks.Count())
	return true
}

// RequestClear asks c before discarding every mark. Declining leaves the
// marks untouched.
func (s *State) RequestClear(c Confirmer) {
	c.Confirm("Confirm", "Clear all counts?", func(yes bool) {
		if !yes {
			return
		}
		n := s.Marks.Count()
		s.Marks.Clear()
		s.log.Info().Int("discarded", n).Msg("marks cleared")
		s.Emit(EventMarksChanged, 0)
	})
}

// ZoomIn enlarges the view by one step.
func (s *State) ZoomIn() bool {
	if !s.HasImage() {
		return false
	}
	return s.zoomed(s.View.ZoomIn())
}

// ZoomOut shrinks the view by one step unless that would reach the floor.
func (s *State) ZoomOut() bool {
	if !s.HasImage() {
		return false
	}
	return s.zoomed(s.View.ZoomOut())
}

// ResetZoom returns the view to 1:1.
func (s *State) ResetZoom() bool {
	if !s.HasImage() {
		return false
	}
	return s.zoomed(s.View.ResetZoom())
}

func (s *State) zoomed(changed bool) bool {
	if !changed {
		s.log.Debug().Float64("zoom", s.View.Zoom()).Msg("zoom unchanged")
		return false
	}
	s.Emit(EventZoomChanged, s.View.Zoom())
	return true
}

// Export snapshots the current marks and image size.
func (s *State) Export() session.Export {
	size := geometry.SizeInt{}
	if s.HasImage() {
		size = s.Image.Size()
	}
	return session.New(s.Marks.All(), size.Width, size.Height)
}

// SaveCounts writes the marks to path. It fails with
// session.ErrNothingToSave when there are no marks.
func (s *State) SaveCounts(path string) error {
	if err := session.Save(path, s.Export()); err != nil {
		return err
	}
	s.saved(path)
	return nil
}

// WriteCounts writes the marks to w, for example a writer handed out by a
// save dialog. name identifies the destination in errors and events.
func (s *State) WriteCounts(w io.Writer, name string) error {
	if err := session.Write(w, name, s.Export()); err != nil {
		return err
	}
	s.saved(name)
	return nil
}

func (s *State) saved(name string) {
	s.log.Info().Str("path", name).Int("count", s.Marks.Count()).Msg("counts saved")
	s.Emit(EventCountsSaved, name)
}

// LoadCounts replaces the marks with those stored in path. The stored
// points are taken as they are, even if they fall outside the current
// image. On failure the marks are left unchanged.
func (s *State) LoadCounts(path string) (int, error) {
	if !s.HasImage() {
		return 0, ErrNoImage
	}
	e, err := session.Load(path)
	if err != nil {
		return 0, err
	}
	return s.replaceMarks(e, path), nil
}

// ReadCounts is LoadCounts for an already opened source.
func (s *State) ReadCounts(r io.Reader, name string) (int, error) {
	if !s.HasImage() {
		return 0, ErrNoImage
	}
	e, err := session.Read(r, name)
	if err != nil {
		return 0, err
	}
	return s.replaceMarks(e, name), nil
}

func (s *State) replaceMarks(e *session.Export, name string) int {
	s.Marks.Replace(e.Clicks)
	n := s.Marks.Count()
	got := s.Image.Size()
	if e.ImageSize != nil && (e.ImageSize[0] != got.Width || e.ImageSize[1] != got.Height) {
		s.log.Warn().
			Ints("saved_size", e.ImageSize[:]).
			Int("width", got.Width).
			Int("height", got.Height).
			Msg("counts were saved for an image of a different size")
	}
	if out := s.outside(); out > 0 {
		s.log.Warn().Int("outside", out).Msg("loaded marks lie outside the image")
	}
	s.log.Info().Str("path", name).Int("count", n).Msg("counts loaded")
	s.Emit(EventMarksChanged, n)
	s.Emit(EventCountsLoaded, name)
	return n
}

// Summary describes the current marks. Pairs closer than closeDist image
// pixels are listed as probable double counts.
// Its Outside field counts marks that are not on the open image, which
// only happens after loading counts saved for another image.
func (s *State) Summary(closeDist float64) marks.Summary {
	sum := marks.Summarize(s.Marks.All(), closeDist)
	sum.Outside = s.outside()
	return sum
}

func (s *State) outside() int {
	size := s.View.ImageSize()
	n := 0
	for _, m := range s.Marks.All() {
		if !size.Contains(m.Point()) {
			n++
		}
	}
	return n
}

// Title returns the window title for the current image.
func (s *State) Title(base string) string {
	if !s.HasImage() {
		return base
	}
	return fmt.Sprintf("%s - %s", base, s.Image.Name())
}
