package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

const noCoursesMessage = "no valid courses recognized"

// Render writes out in the requested format.
func Render(w io.Writer, format string, out Output) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case FormatTable, "":
		return renderTable(w, out)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderTable(w io.Writer, out Output) error {
	if len(out.Courses) == 0 {
		_, err := fmt.Fprintln(w, noCoursesMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCOURSE\tCREDIT\tSCORE\tPLANNED")
	for i, c := range out.Courses {
		planned := ""
		if c.Planned {
			planned = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, c.Name, num(c.Credit), num(c.Score), planned)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "courses:          %d\n", out.Summary.Count)
	fmt.Fprintf(w, "total credits:    %s\n", num(out.Summary.TotalCredits))
	fmt.Fprintf(w, "weighted average: %.2f\n", out.Summary.WeightedAverage)
	fmt.Fprintf(w, "GPA:              %.2f\n", out.Summary.GPA)
	if out.Rejected > 0 {
		fmt.Fprintf(w, "rejected lines:   %d\n", out.Rejected)
	}

	if len(out.Distribution) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "BAND\tCREDITS")
		for _, b := range out.Distribution {
			fmt.Fprintf(tw, "%s\t%s\n", b.Label, num(b.Credits))
		}
		return tw.Flush()
	}
	return nil
}

// num prints v without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
