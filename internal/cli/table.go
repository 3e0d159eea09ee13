// Package cli table output for list commands.
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// writeTable renders headers and rows as tab-aligned columns with two
// spaces between them. No borders, no truncation; wide payload columns
// are the caller's problem.
func writeTable(out io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, line := range append([][]string{headers}, rows...) {
		if len(line) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(tw, strings.Join(line, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
