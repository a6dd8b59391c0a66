package main

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// colorEnabled caches whether stdout accepts ANSI colors.
var (
	colorOnce sync.Once
	colorVal  bool
)

func colorsEnabled() bool {
	colorOnce.Do(func() {
		// NO_COLOR convention: https://no-color.org/
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return
		}
		if os.Getenv("TERM") == "dumb" {
			return
		}
		colorVal = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	})
	return colorVal
}

func ansiWrap(code, s string) string {
	if !colorsEnabled() {
		return s
	}
	return code + s + "\x1b[0m"
}

func colorBinding(s string) string { return ansiWrap("\x1b[1m", s) }

func colorType(s string) string { return ansiWrap("\x1b[36m", s) }
