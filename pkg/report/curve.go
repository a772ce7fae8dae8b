package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/ordstat/pkg/ordstat"
)

// ErrInvalidRange is returned for an empty or inverted sample-size range.
var ErrInvalidRange = errors.New("invalid sample size range")

const (
	lineWidth   = 2
	noDataValue = "-"
)

// Point is the coverage at one sample size. Valid is false where the rank
// pair does not fit inside the sample.
type Point struct {
	N        int
	Coverage float64
	Valid    bool
}

// Curve is coverage versus sample size for fixed order statistics, with the
// target confidence drawn as a reference line.
type Curve struct {
	Title  string
	Target float64
	Points []Point
}

// Range is an inclusive sample-size range sampled every Step.
type Range struct {
	From, To, Step int
}

func (r Range) check() error {
	if r.From < 1 || r.To < r.From || r.Step < 1 {
		return fmt.Errorf("%w: from=%d to=%d step=%d", ErrInvalidRange, r.From, r.To, r.Step)
	}

	return nil
}

// ToleranceCurve samples [ordstat.ToleranceConfidence] across rng.
func ToleranceCurve(k int, p, target float64, bound ordstat.ToleranceBound, rng Range) (Curve, error) {
	err := checkCurve(k, "p", p, target, rng)
	if err != nil {
		return Curve{}, err
	}

	return sampleCurve(rng, target,
		fmt.Sprintf("Tolerance coverage, k=%d p=%g %s", k, p, bound),
		func(n int) (float64, bool, error) {
			l, u, ranksErr := ordstat.ToleranceRanks(n, k, bound)
			if ranksErr != nil || u < l {
				return 0, false, ranksErr
			}

			cov, covErr := ordstat.ToleranceConfidence(n, k, p, bound)

			return cov, true, covErr
		},
	)
}

// PercentileCurve samples [ordstat.PercentileConfidence] across rng.
func PercentileCurve(k int, pct, target float64, bound ordstat.PercentileBound, rng Range) (Curve, error) {
	err := checkCurve(k, "P", pct, target, rng)
	if err != nil {
		return Curve{}, err
	}

	return sampleCurve(rng, target,
		fmt.Sprintf("Percentile coverage, k=%d P=%g %s", k, pct, bound),
		func(n int) (float64, bool, error) {
			l, u, ranksErr := ordstat.PercentileRanks(n, pct, k, bound)
			if ranksErr != nil || l < 0 || u > n+1 {
				return 0, false, ranksErr
			}

			cov, covErr := ordstat.PercentileConfidence(n, k, pct, bound)

			return cov, true, covErr
		},
	)
}

func checkCurve(k int, name string, p, target float64, rng Range) error {
	switch {
	case k < 1:
		return fmt.Errorf("%w: k=%d must be >= 1", ordstat.ErrInvalidInput, k)
	case !(p > 0 && p < 1):
		return fmt.Errorf("%w: %s=%g must be in the range 0 < %s < 1", ordstat.ErrInvalidInput, name, p, name)
	case !(target > 0 && target < 1):
		return fmt.Errorf("%w: c=%g must be in the range 0 < c < 1", ordstat.ErrInvalidInput, target)
	default:
		return rng.check()
	}
}

// sampleCurve leaves a gap wherever eval reports that the rank pair does
// not fit the sample.
func sampleCurve(rng Range, target float64, title string, eval func(n int) (float64, bool, error)) (Curve, error) {
	curve := Curve{Title: title, Target: target}

	for n := rng.From; n <= rng.To; n += rng.Step {
		cov, fits, err := eval(n)
		if err != nil {
			return Curve{}, err
		}

		curve.Points = append(curve.Points, Point{N: n, Coverage: cov, Valid: fits})
	}

	return curve, nil
}

// RenderCurve writes curve as a standalone go-echarts HTML page.
func RenderCurve(w io.Writer, curve Curve) error {
	labels := make([]string, len(curve.Points))
	coverage := make([]opts.LineData, len(curve.Points))
	target := make([]opts.LineData, len(curve.Points))

	for idx, pt := range curve.Points {
		labels[idx] = strconv.Itoa(pt.N)
		target[idx] = opts.LineData{Value: curve.Target}

		if pt.Valid {
			coverage[idx] = opts.LineData{Value: pt.Coverage}
		} else {
			coverage[idx] = opts.LineData{Value: noDataValue}
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: curve.Title, Width: "100%", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: curve.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "n"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "coverage", Min: 0, Max: 1}),
	)
	line.SetXAxis(labels)
	line.AddSeries("coverage", coverage,
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
	)
	line.AddSeries("target c="+strconv.FormatFloat(curve.Target, 'g', -1, 64), target,
		charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}),
	)

	err := line.Render(w)
	if err != nil {
		return fmt.Errorf("render coverage curve: %w", err)
	}

	return nil
}
