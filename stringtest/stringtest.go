// Package stringtest builds expected multi-line strings for tests.
package stringtest

import "strings"

// Input removes one leading and one trailing newline from s, then strips the
// indentation common to all non-blank lines. Blank lines become empty. Use it
// to write cue tracks and config files as indented raw string literals.
//
// Example:
//
//	doc := stringtest.Input(`
//	    WEBVTT
//
//	    00:00:00.000 --> 00:00:22.500
//	    movie.jpg#xywh=0,0,100,56
//	`) // -> "WEBVTT\n\n00:00:00.000 --> ...\nmovie.jpg#xywh=0,0,100,56"
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")
	indent := -1

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}

		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	if indent > 0 {
		for i, line := range lines {
			if line != "" {
				lines[i] = line[indent:]
			}
		}
	}

	return strings.Join(lines, "\n")
}

// JoinLF joins lines with LF line endings.
func JoinLF(lines ...string) string {
	return strings.Join(lines, "\n")
}

// JoinCRLF joins lines with CRLF line endings, as written by some Windows
// subtitle tools.
func JoinCRLF(lines ...string) string {
	return strings.Join(lines, "\r\n")
}
