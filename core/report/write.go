package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// WriteText renders one line per report followed by a per-issue summary.
func WriteText(w io.Writer, c Comparison) error {
	header := fmt.Sprintf("Reference: %s", strings.Join(c.Reference, ", "))
	if c.ReferenceVersion != "" {
		header += " (" + c.ReferenceVersion + ")"
	}
	header += fmt.Sprintf("\nTarget:    %s", strings.Join(c.Target, ", "))
	if c.TargetVersion != "" {
		header += " (" + c.TargetVersion + ")"
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", header); err != nil {
		return err
	}

	for _, r := range c.Reports {
		if _, err := fmt.Fprintf(w, "[%s] %s\n", r.Issue, r.Message); err != nil {
			return err
		}
	}

	if len(c.Reports) == 0 {
		_, err := fmt.Fprintln(w, "No discrepancies found.")
		return err
	}

	counts := c.CountByIssue()
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	if _, err := fmt.Fprintf(w, "\n%s discrepancies:\n", humanize.Comma(int64(len(c.Reports)))); err != nil {
		return err
	}
	for _, k := range kinds {
		if _, err := fmt.Fprintf(w, "  %-34s %s\n", k, humanize.Comma(int64(counts[IssueKind(k)]))); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON renders the comparison as indented JSON.
func WriteJSON(w io.Writer, c Comparison) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
