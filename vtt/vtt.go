package vtt

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.jacobcolvin.com/thumbsprite/grid"
)

// Header is the first line of every WebVTT document.
const Header = "WEBVTT"

var (
	// ErrNoSamples indicates that there are no frames to map.
	ErrNoSamples = errors.New("no samples")
	// ErrMalformedDocument indicates unparseable cue track input.
	ErrMalformedDocument = errors.New("malformed cue document")
	// ErrUnknownTimestampFormat indicates an unrecognized timestamp format.
	ErrUnknownTimestampFormat = errors.New("unknown timestamp format")
)

// Cue maps the time range [Start, End) to a rectangle of a sprite image.
type Cue struct {
	Sprite string
	Rect   grid.Rect
	Start  time.Duration
	End    time.Duration
}

// Payload returns the cue text, "<sprite>#xywh=X,Y,W,H".
func (c Cue) Payload() string {
	return c.Sprite + "#xywh=" + c.Rect.String()
}

// Document is an ordered WebVTT cue track.
type Document struct {
	Timestamps TimestampFormat
	Cues       []Cue
}

// Params holds the inputs of [Build].
type Params struct {
	// Sprite is the sprite file name referenced by every cue, usually a base
	// name relative to the cue file.
	Sprite string
	// Timestamps selects the rendering of cue times.
	Timestamps TimestampFormat
	// Cell is the size of one thumbnail.
	Cell grid.Cell
	// Samples is the number of thumbnails in the sprite.
	Samples int
	// Columns is the sprite grid dimension.
	Columns int
	// Interval is the sampling interval in seconds.
	Interval float64
	// Adjust is added to every timestamp, in seconds. Results are clamped
	// at zero.
	Adjust float64
	// SkipFirst reports whether the frame at time zero was discarded, in
	// which case the first cue starts one interval in.
	SkipFirst bool
}

// Build maps Samples sprite cells to consecutive time windows of Interval
// seconds. It returns [ErrNoSamples] when Samples is not positive and
// [grid.ErrInvalidInput] for other out-of-range parameters.
func Build(p Params) (*Document, error) {
	if p.Samples <= 0 {
		return nil, fmt.Errorf("%w: sample count %d", ErrNoSamples, p.Samples)
	}

	err := p.Cell.Validate()
	if err != nil {
		return nil, err
	}

	if p.Columns <= 0 {
		return nil, fmt.Errorf("%w: columns must be positive, got %d", grid.ErrInvalidInput, p.Columns)
	}

	if p.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive, got %v", grid.ErrInvalidInput, p.Interval)
	}

	start := 0.0
	if p.SkipFirst {
		start = p.Interval
	}

	// Boundary k is computed directly rather than accumulated so that the end
	// of one window is bit-identical to the start of the next.
	boundary := func(k int) time.Duration {
		return seconds(AdjustTime(start+float64(k)*p.Interval, p.Adjust))
	}

	doc := &Document{
		Timestamps: p.Timestamps,
		Cues:       make([]Cue, 0, p.Samples),
	}

	for i := range p.Samples {
		doc.Cues = append(doc.Cues, Cue{
			Sprite: p.Sprite,
			Rect:   grid.CellRect(i, p.Columns, p.Cell),
			Start:  boundary(i),
			End:    boundary(i + 1),
		})
	}

	return doc, nil
}

// String returns the encoded document.
func (d *Document) String() string {
	var sb strings.Builder

	sb.WriteString(Header)
	sb.WriteString("\n\n")

	for _, c := range d.Cues {
		sb.WriteString(FormatTimestamp(c.Start, d.Timestamps))
		sb.WriteString(" --> ")
		sb.WriteString(FormatTimestamp(c.End, d.Timestamps))
		sb.WriteByte('\n')
		sb.WriteString(c.Payload())
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// At returns the first cue whose window contains t.
func (d *Document) At(t time.Duration) (Cue, bool) {
	for _, c := range d.Cues {
		if t >= c.Start && t < c.End {
			return c, true
		}
	}

	return Cue{}, false
}

// WriteTo writes the encoded document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())

	return int64(n), err
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
