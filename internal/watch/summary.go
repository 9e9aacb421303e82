package watch

import (
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/quake-watch/internal/domain"
)

// WriteSummary prints the end-of-run report: first the places from the last
// batch containing placeFilter, then every retained region match, one per
// line. An empty placeFilter skips the place section.
func WriteSummary(w io.Writer, lastBatch []domain.Event, placeFilter string, matches []string) {
	if placeFilter != "" {
		fmt.Fprintf(w, "Events near %q:\n", placeFilter)
		for _, event := range lastBatch {
			if strings.Contains(event.Place, placeFilter) {
				fmt.Fprintln(w, event.Place)
			}
		}
	}

	fmt.Fprintln(w, "Region matches:")
	for _, line := range matches {
		fmt.Fprintln(w, line)
	}
}
