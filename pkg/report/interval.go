package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/ordstat/pkg/ordstat"
)

// IntervalResult is an interval drawn from a concrete sample together with
// the confidence its order statistics carry.
type IntervalResult struct {
	Family     string           `json:"family"      yaml:"family"`
	Bound      string           `json:"bound"       yaml:"bound"`
	N          int              `json:"n"           yaml:"n"`
	K          int              `json:"k"           yaml:"k"`
	P          float64          `json:"p"           yaml:"p"`
	Confidence float64          `json:"confidence"  yaml:"confidence"`
	Interval   ordstat.Interval `json:"interval"    yaml:"interval"`
}

// WriteInterval renders an interval result to w in the given format.
func WriteInterval(w io.Writer, format string, result IntervalResult) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatYAML:
		return writeYAML(w, result)
	case FormatTable:
		tbl := table.NewWriter()
		tbl.SetStyle(table.StyleLight)
		tbl.AppendHeader(table.Row{"Family", "Bound", "n", "k", "p", "Lower", "Upper", "Confidence"})
		tbl.AppendRow(table.Row{
			result.Family, result.Bound, humanize.Comma(int64(result.N)), result.K,
			strconv.FormatFloat(result.P, 'g', -1, 64),
			endpoint(result.Interval.Lower, result.Interval.LowerRank),
			endpoint(result.Interval.Upper, result.Interval.UpperRank),
			strconv.FormatFloat(result.Confidence, 'f', 4, 64),
		})

		return writeLine(w, tbl.Render())
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func endpoint(v float64, rank int) string {
	if math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	return fmt.Sprintf("%s (rank %d)", strconv.FormatFloat(v, 'g', 6, 64), rank)
}
