package vtt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.jacobcolvin.com/thumbsprite/grid"
)

const fragmentPrefix = "#xywh="

// Parse reads a sprite cue track. It accepts the layout written by
// [Document.WriteTo] as well as optional cue identifiers, cue settings after
// the end time, CRLF line endings and "MM:SS.mmm" timestamps. Every cue
// payload must carry an "#xywh=" media fragment.
func Parse(r io.Reader) (*Document, error) {
	sc := bufio.NewScanner(r)

	line := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}

		line++

		return strings.TrimRight(sc.Text(), "\r"), true
	}

	first, ok := next()
	first = strings.TrimPrefix(first, "\ufeff")

	if !ok || (first != Header && !strings.HasPrefix(first, Header+" ") && !strings.HasPrefix(first, Header+"\t")) {
		err := sc.Err()
		if err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}

		return nil, fmt.Errorf("%w: missing %s header", ErrMalformedDocument, Header)
	}

	doc := &Document{}

	// Skip header block (e.g. metadata lines) up to the first blank line.
	for {
		text, ok := next()
		if !ok || text == "" {
			break
		}
	}

	for {
		text, ok := next()
		if !ok {
			break
		}

		if text == "" {
			continue
		}

		// Optional cue identifier.
		if !strings.Contains(text, "-->") {
			text, ok = next()
			if !ok {
				return nil, fmt.Errorf("%w: line %d: cue without timing", ErrMalformedDocument, line)
			}
		}

		cue, err := parseTiming(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		payload, ok := next()
		if !ok || payload == "" {
			return nil, fmt.Errorf("%w: line %d: cue without payload", ErrMalformedDocument, line)
		}

		cue.Sprite, cue.Rect, err = parsePayload(payload)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		doc.Cues = append(doc.Cues, cue)

		// Ignore any further payload lines.
		for {
			text, ok := next()
			if !ok || text == "" {
				break
			}
		}
	}

	err := sc.Err()
	if err != nil {
		return nil, fmt.Errorf("reading cues: %w", err)
	}

	return doc, nil
}

func parseTiming(text string) (Cue, error) {
	startStr, rest, ok := strings.Cut(text, "-->")
	if !ok {
		return Cue{}, fmt.Errorf("%w: timing line %q", ErrMalformedDocument, text)
	}

	endFields := strings.Fields(rest)
	if len(endFields) == 0 {
		return Cue{}, fmt.Errorf("%w: timing line %q", ErrMalformedDocument, text)
	}

	start, err := ParseTimestamp(strings.TrimSpace(startStr))
	if err != nil {
		return Cue{}, err
	}

	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return Cue{}, err
	}

	if end < start {
		return Cue{}, fmt.Errorf("%w: cue ends before it starts: %q", ErrMalformedDocument, text)
	}

	return Cue{Start: start, End: end}, nil
}

func parsePayload(payload string) (string, grid.Rect, error) {
	sprite, frag, ok := strings.Cut(strings.TrimSpace(payload), fragmentPrefix)
	if !ok || sprite == "" {
		return "", grid.Rect{}, fmt.Errorf("%w: payload %q has no %s fragment", ErrMalformedDocument, payload, fragmentPrefix)
	}

	frag = strings.TrimPrefix(frag, "pixel:")

	parts := strings.Split(frag, ",")
	if len(parts) != 4 {
		return "", grid.Rect{}, fmt.Errorf("%w: fragment %q", ErrMalformedDocument, frag)
	}

	var vals [4]int

	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return "", grid.Rect{}, fmt.Errorf("%w: fragment %q", ErrMalformedDocument, frag)
		}

		vals[i] = n
	}

	return sprite, grid.Rect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil
}
