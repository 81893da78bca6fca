// Package vtt maps the cells of a thumbnail sprite to time ranges of a video
// and reads and writes the resulting WebVTT cue track.
//
// [Build] is the cue mapper: given the number of sampled frames, the sprite
// cell size, the grid column count and the sampling interval, it produces one
// [Cue] per frame. Cues tile the timeline contiguously, starting at zero, or
// at one interval when the first sampled frame was discarded. A fixed
// adjustment may shift every timestamp; adjusted times are clamped at zero.
//
//	doc, err := vtt.Build(vtt.Params{
//	    Sprite:    "movie.jpg",
//	    Samples:   4,
//	    Cell:      grid.Cell{Width: 100, Height: 56},
//	    Columns:   2,
//	    Interval:  45,
//	    SkipFirst: true,
//	    Adjust:    -22.5,
//	})
//	_, err = doc.WriteTo(w)
//
// The encoded form is:
//
//	WEBVTT
//
//	00:00:22.000 --> 00:01:07.000
//	movie.jpg#xywh=0,0,100,56
//
// # Timestamps
//
// Timestamps are truncated to whole seconds and always carry ".000"
// milliseconds. [TimestampLegacy] reproduces a long-standing quirk of the
// original sprite scripts: seconds only carry into minutes when they exceed
// 60, and minutes only carry into hours when they exceed 60, so exactly one
// minute is written as "00:00:60.000". Players built against those files may
// depend on it, so it remains the default. [TimestampCascade] writes
// conventional timestamps.
package vtt
