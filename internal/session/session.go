// Package session provides the JSON sidecar that stores a counting session.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"colony-counter/internal/marks"
)

// ErrNothingToSave is returned by Save when there are no marks.
var ErrNothingToSave = errors.New("no counts to save")

var errTrailingData = errors.New("extra data after the JSON document")

// Export is the on-disk snapshot of a counting session.
//
//	{"total_count": 3, "clicks": [[10,10],[50,60],[200,15]], "image_size": [640,480]}
type Export struct {
	TotalCount int          `json:"total_count"`
	Clicks     []marks.Mark `json:"clicks"`
	ImageSize  *[2]int      `json:"image_size"` // nil when no image was open
}

// New builds an export from the current marks and image dimensions.
// Pass width or height <= 0 when no image is loaded.
func New(clicks []marks.Mark, width, height int) Export {
	e := Export{
		TotalCount: len(clicks),
		Clicks:     clicks,
	}
	if e.Clicks == nil {
		e.Clicks = []marks.Mark{}
	}
	if width > 0 && height > 0 {
		e.ImageSize = &[2]int{width, height}
	}
	return e
}

// Save writes the export to path as indented UTF-8 JSON.
func Save(path string, e Export) (err error) {
	if len(e.Clicks) == 0 {
		return ErrNothingToSave
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return Write(f, path, e)
}

// Write encodes the export to w. name identifies w in errors.
func Write(w io.Writer, name string, e Export) error {
	if len(e.Clicks) == 0 {
		return ErrNothingToSave
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Load reads an export from path. Only the JSON shape is checked; the
// marks are returned as stored, without bounds validation.
func Load(path string) (*Export, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, path)
}

// Read decodes a single export from r. Anything but whitespace after the
// JSON document is an error. name identifies r in errors.
func Read(r io.Reader, name string) (*Export, error) {
	dec := json.NewDecoder(r)

	var e Export
	if err := dec.Decode(&e); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			err = errTrailingData
		}
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return &e, nil
}
