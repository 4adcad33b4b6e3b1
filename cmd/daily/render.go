package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region render
func render(out io.Writer, v view) {
	fmt.Fprintf(out, "\nDay %s  progress %d/%d  %s\n", v.Day, v.Done, v.Total, formatStats(v.Stats))
	if len(v.Feed) == 0 {
		fmt.Fprintln(out, "No episodes available today. Try again later.")
		return
	}
	for i, ep := range v.Feed {
		mark := " "
		if slices.Contains(v.Completed, ep.ID) {
			mark = "x"
		}
		fmt.Fprintf(out, "\n%d. [%s] %s\n   %s\n", i+1, mark, ep.ID, ep.Scene)
		chosen := v.Choices[ep.ID].OptionID
		for _, opt := range ep.Options {
			suffix := ""
			if opt.ID == chosen {
				suffix = "  <- your choice"
			}
			fmt.Fprintf(out, "   %s) %s%s\n", opt.ID, opt.Label, suffix)
		}
	}
	fmt.Fprintln(out)
}

func formatStats(s stats.Stats) string {
	parts := make([]string, len(stats.Axes))
	for i, a := range stats.Axes {
		parts[i] = fmt.Sprintf("%s=%d", a, s.Get(a))
	}
	return strings.Join(parts, " ")
}

func formatDeltas(d stats.Deltas) string {
	var parts []string
	for _, a := range stats.Axes {
		if v, ok := d[a]; ok {
			parts = append(parts, fmt.Sprintf("%s%+d", a, v))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// #endregion render
