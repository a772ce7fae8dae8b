// Package report renders solver results as text tables, JSON, or YAML, and
// coverage curves as HTML charts.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/ordstat/pkg/solve"
)

// ErrUnknownFormat is returned for an output format other than table, json or yaml.
var ErrUnknownFormat = errors.New("unknown output format")

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

const (
	statusFeasible   = "ok"
	statusInfeasible = "infeasible"
	statusError      = "error"
)

// Options controls rendering.
type Options struct {
	// Color enables ANSI colors in tables. Colors are still suppressed when
	// the output is not a terminal or NO_COLOR is set.
	Color bool
}

// WriteResponses renders responses to w in the given format.
func WriteResponses(w io.Writer, format string, responses []solve.Response, options Options) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, responses)
	case FormatYAML:
		return writeYAML(w, responses)
	case FormatTable:
		return writeLine(w, responseTable(responses, options))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func responseTable(responses []solve.Response, options Options) string {
	warn := painter(color.FgYellow, options)
	fail := painter(color.FgRed, options)

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.AppendHeader(table.Row{"#", "Family", "Solve", "Inputs", "Value", "Status", "Note"})

	infeasible := 0

	for idx, resp := range responses {
		status, note, value := statusFeasible, "", FormatValue(resp.Request.Solve, resp.Value)

		switch {
		case resp.Error != "":
			status, note, value = fail.Sprint(statusError), resp.Error, ""
		case !resp.Feasible:
			infeasible++

			status, note, value = warn.Sprint(statusInfeasible), resp.Diagnostic.String(), ""
		}

		tbl.AppendRow(table.Row{
			idx + 1, resp.Request.Family, resp.Request.Solve, Inputs(resp.Request), value, status, note,
		})
	}

	tbl.AppendFooter(table.Row{"", "", "", "", "", "", fmt.Sprintf("%d requests, %d infeasible", len(responses), infeasible)})

	return tbl.Render()
}

func painter(attr color.Attribute, options Options) *color.Color {
	c := color.New(attr)
	if !options.Color {
		c.DisableColor()
	}

	return c
}

// FormatValue renders a solved value: sample sizes and offsets as grouped
// integers, probabilities and sigmas with six significant digits.
func FormatValue(target solve.Target, v float64) string {
	switch target {
	case solve.TargetN, solve.TargetK:
		return humanize.Comma(int64(v))
	default:
		return strconv.FormatFloat(v, 'g', 6, 64)
	}
}

// Inputs renders the non-zero request parameters as "k=2 p=0.99 c=0.9 2-sided".
func Inputs(req solve.Request) string {
	parts := make([]string, 0, 6)

	addInt := func(name string, v int) {
		if v != 0 {
			parts = append(parts, name+"="+humanize.Comma(int64(v)))
		}
	}

	addFloat := func(name string, v float64) {
		if v != 0 {
			parts = append(parts, name+"="+strconv.FormatFloat(v, 'g', -1, 64))
		}
	}

	addInt("n", req.N)
	addInt("k", req.K)
	addFloat("p", req.P)
	addFloat("c", req.C)
	addFloat("sigma", req.Sigma)

	if req.Bound != "" {
		parts = append(parts, req.Bound)
	}

	return strings.Join(parts, " ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	closeErr := enc.Close()
	if closeErr != nil {
		return fmt.Errorf("flush yaml: %w", closeErr)
	}

	return nil
}

func writeLine(w io.Writer, s string) error {
	_, err := io.WriteString(w, s+"\n")
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
