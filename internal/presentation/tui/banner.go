package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the protocolfill banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`                 _                _ _____ _ _ _ `, "#38bdf8"},
		{` _ __  _ __ ___ | |_ ___   ___ ___ | |  ___(_) | |`, "#22d3ee"},
		{`| '_ \| '__/ _ \| __/ _ \ / __/ _ \| | |_  | | | |`, "#2dd4bf"},
		{`| |_) | | | (_) | || (_) | (_| (_) | |  _| | | | |`, "#34d399"},
		{`| .__/|_|  \___/ \__\___/ \___\___/|_|_|   |_|_|_|`, "#4ade80"},
		{`|_|`, "#a3e635"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
