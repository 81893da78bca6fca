package vtt_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/thumbsprite/grid"
	"go.jacobcolvin.com/thumbsprite/stringtest"
	"go.jacobcolvin.com/thumbsprite/vtt"
)

func TestBuildRects(t *testing.T) {
	t.Parallel()

	doc, err := vtt.Build(vtt.Params{
		Sprite:   "movie.jpg",
		Samples:  4,
		Cell:     grid.Cell{Width: 100, Height: 56},
		Columns:  2,
		Interval: 45,
	})
	require.NoError(t, err)
	require.Len(t, doc.Cues, 4)

	want := []grid.Rect{
		{X: 0, Y: 0, W: 100, H: 56},
		{X: 100, Y: 0, W: 100, H: 56},
		{X: 0, Y: 56, W: 100, H: 56},
		{X: 100, Y: 56, W: 100, H: 56},
	}

	for i, c := range doc.Cues {
		assert.Equal(t, want[i], c.Rect, "cue %d", i)
		assert.Equal(t, "movie.jpg", c.Sprite)
	}
}

func TestBuildEncoded(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		params vtt.Params
		want   string
	}{
		"skip first with half interval adjustment": {
			params: vtt.Params{
				Sprite:    "movie.jpg",
				Samples:   2,
				Cell:      grid.Cell{Width: 100, Height: 56},
				Columns:   2,
				Interval:  45,
				SkipFirst: true,
				Adjust:    -22.5,
			},
			want: stringtest.JoinLF(
				"WEBVTT",
				"",
				"00:00:22.000 --> 00:01:07.000",
				"movie.jpg#xywh=0,0,100,56",
				"",
				"00:01:07.000 --> 00:01:52.000",
				"movie.jpg#xywh=100,0,100,56",
				"",
				"",
			),
		},
		"no skip no adjustment": {
			params: vtt.Params{
				Sprite:   "clip.jpg",
				Samples:  3,
				Cell:     grid.Cell{Width: 160, Height: 90},
				Columns:  2,
				Interval: 10,
			},
			want: stringtest.JoinLF(
				"WEBVTT",
				"",
				"00:00:00.000 --> 00:00:10.000",
				"clip.jpg#xywh=0,0,160,90",
				"",
				"00:00:10.000 --> 00:00:20.000",
				"clip.jpg#xywh=160,0,160,90",
				"",
				"00:00:20.000 --> 00:00:30.000",
				"clip.jpg#xywh=0,90,160,90",
				"",
				"",
			),
		},
		"adjustment clamps the first window": {
			params: vtt.Params{
				Sprite:   "a.jpg",
				Samples:  2,
				Cell:     grid.Cell{Width: 10, Height: 10},
				Columns:  2,
				Interval: 10,
				Adjust:   -15,
			},
			want: stringtest.JoinLF(
				"WEBVTT",
				"",
				"00:00:00.000 --> 00:00:00.000",
				"a.jpg#xywh=0,0,10,10",
				"",
				"00:00:00.000 --> 00:00:05.000",
				"a.jpg#xywh=10,0,10,10",
				"",
				"",
			),
		},
		"legacy minute boundary": {
			params: vtt.Params{
				Sprite:   "b.jpg",
				Samples:  2,
				Cell:     grid.Cell{Width: 10, Height: 10},
				Columns:  2,
				Interval: 30,
			},
			want: stringtest.JoinLF(
				"WEBVTT",
				"",
				"00:00:00.000 --> 00:00:30.000",
				"b.jpg#xywh=0,0,10,10",
				"",
				"00:00:30.000 --> 00:00:60.000",
				"b.jpg#xywh=10,0,10,10",
				"",
				"",
			),
		},
		"cascade minute boundary": {
			params: vtt.Params{
				Sprite:     "b.jpg",
				Samples:    2,
				Cell:       grid.Cell{Width: 10, Height: 10},
				Columns:    2,
				Interval:   30,
				Timestamps: vtt.TimestampCascade,
			},
			want: stringtest.JoinLF(
				"WEBVTT",
				"",
				"00:00:00.000 --> 00:00:30.000",
				"b.jpg#xywh=0,0,10,10",
				"",
				"00:00:30.000 --> 00:01:00.000",
				"b.jpg#xywh=10,0,10,10",
				"",
				"",
			),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc, err := vtt.Build(tc.params)
			require.NoError(t, err)

			var buf bytes.Buffer

			n, err := doc.WriteTo(&buf)
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestBuildWindowsContiguous(t *testing.T) {
	t.Parallel()

	tcs := map[string]vtt.Params{
		"defaults":            {Samples: 37, Interval: 45, SkipFirst: true, Adjust: -22.5},
		"fractional interval": {Samples: 500, Interval: 0.1},
		"positive adjustment": {Samples: 20, Interval: 7, Adjust: 3},
		"large negative":      {Samples: 20, Interval: 2, Adjust: -11},
	}

	for name, p := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p.Sprite = "s.jpg"
			p.Cell = grid.Cell{Width: 100, Height: 56}
			p.Columns, _ = grid.Dimension(p.Samples)

			doc, err := vtt.Build(p)
			require.NoError(t, err)
			require.Len(t, doc.Cues, p.Samples)

			for i, c := range doc.Cues {
				assert.GreaterOrEqual(t, c.Start, time.Duration(0))
				assert.LessOrEqual(t, c.Start, c.End, "cue %d", i)

				if i > 0 {
					assert.Equal(t, doc.Cues[i-1].End, c.Start, "cue %d", i)
				}
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	valid := vtt.Params{
		Sprite:   "s.jpg",
		Samples:  3,
		Cell:     grid.Cell{Width: 10, Height: 10},
		Columns:  2,
		Interval: 5,
	}

	tcs := map[string]struct {
		mutate func(*vtt.Params)
		want   error
	}{
		"zero samples": {
			mutate: func(p *vtt.Params) { p.Samples = 0 },
			want:   vtt.ErrNoSamples,
		},
		"negative samples": {
			mutate: func(p *vtt.Params) { p.Samples = -2 },
			want:   vtt.ErrNoSamples,
		},
		"zero width": {
			mutate: func(p *vtt.Params) { p.Cell.Width = 0 },
			want:   grid.ErrInvalidInput,
		},
		"zero columns": {
			mutate: func(p *vtt.Params) { p.Columns = 0 },
			want:   grid.ErrInvalidInput,
		},
		"zero interval": {
			mutate: func(p *vtt.Params) { p.Interval = 0 },
			want:   grid.ErrInvalidInput,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := valid
			tc.mutate(&p)

			doc, err := vtt.Build(p)
			require.ErrorIs(t, err, tc.want)
			assert.Nil(t, doc)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, samples := range []int{1, 2, 5, 9, 10, 64, 101} {
		cols, err := grid.Dimension(samples)
		require.NoError(t, err)

		cell := grid.Cell{Width: 100, Height: 56}

		doc, err := vtt.Build(vtt.Params{
			Sprite:     "movie.jpg",
			Samples:    samples,
			Cell:       cell,
			Columns:    cols,
			Interval:   45,
			SkipFirst:  true,
			Adjust:     -22.5,
			Timestamps: vtt.TimestampCascade,
		})
		require.NoError(t, err)

		parsed, err := vtt.Parse(strings.NewReader(doc.String()))
		require.NoError(t, err)
		require.Len(t, parsed.Cues, samples)

		for i, c := range parsed.Cues {
			assert.Equal(t, grid.CellRect(i, cols, cell), c.Rect, "samples %d cue %d", samples, i)
			assert.Equal(t, "movie.jpg", c.Sprite)
			assert.Equal(t, doc.Cues[i].Start.Truncate(time.Second), c.Start)
			assert.Equal(t, doc.Cues[i].End.Truncate(time.Second), c.End)
		}
	}
}

func TestDocumentAt(t *testing.T) {
	t.Parallel()

	doc, err := vtt.Build(vtt.Params{
		Sprite:    "movie.jpg",
		Samples:   3,
		Cell:      grid.Cell{Width: 100, Height: 56},
		Columns:   2,
		Interval:  45,
		Adjust:    -22.5,
		SkipFirst: true,
	})
	require.NoError(t, err)

	tcs := map[string]struct {
		at      time.Duration
		wantX   int
		wantY   int
		wantHit bool
	}{
		"before first cue": {at: 10 * time.Second},
		"first cue start":  {at: 22500 * time.Millisecond, wantHit: true},
		"second cue":       {at: 90 * time.Second, wantX: 100, wantHit: true},
		"third cue":        {at: 150 * time.Second, wantY: 56, wantHit: true},
		"end is exclusive": {at: 157500 * time.Millisecond},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cue, ok := doc.At(tc.at)
			require.Equal(t, tc.wantHit, ok)

			if ok {
				assert.Equal(t, tc.wantX, cue.Rect.X)
				assert.Equal(t, tc.wantY, cue.Rect.Y)
			}
		})
	}
}
