// Package progress renders the stages of a sprite run in the terminal.
//
// [Run] starts a [bubbletea] program alongside a unit of work. Stage changes
// are delivered with [Reporter.Stage] and log lines with [Reporter.Log]; the
// program exits when the work returns. Pressing q or ctrl+c cancels the
// work's context.
//
// [bubbletea]: https://charm.land/bubbletea
package progress
