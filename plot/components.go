package plot

import (
	"fmt"
	"io"
	"math"
	"time"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/sartorproj/salesforecast/forecast"
)

// PlotComponents draws one panel per fitted component: the trend over the
// whole forecast, then the weekly and yearly profiles when present.
func (r Renderer) PlotComponents(w io.Writer, f *forecast.Forecast) error {
	if err := r.check(f); err != nil {
		return err
	}

	format := formatValue
	if f.Mode == forecast.Multiplicative {
		format = formatPercent
	}

	trend, err := trendPanel(f)
	if err != nil {
		return err
	}
	panels := [][]*gplot.Plot{{trend}}
	if f.Components.Weekly != nil {
		weekly, err := weeklyPanel(f.Components.Weekly, format)
		if err != nil {
			return err
		}
		panels = append(panels, []*gplot.Plot{weekly})
	}
	if f.Components.Yearly != nil {
		yearly, err := yearlyPanel(f.Components.Yearly, format)
		if err != nil {
			return err
		}
		panels = append(panels, []*gplot.Plot{yearly})
	}

	c := r.canvas()
	tiles := draw.Tiles{
		Rows:      len(panels),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      4 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	canvases := gplot.Align(panels, tiles, draw.New(c))
	for i, row := range panels {
		row[0].Draw(canvases[i][0])
	}

	_, err = vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}

func panel(title string, xs, ys []float64, format func(float64) string) (*gplot.Plot, *plotter.Line, error) {
	p := gplot.New()
	p.Title.Text = title
	p.Y.Tick.Marker = valueTicker{n: 4, format: format}
	p.Add(plotter.NewGrid())

	xy := make(plotter.XYs, len(xs))
	for i := range xs {
		xy[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	line, err := plotter.NewLine(xy)
	if err != nil {
		return nil, nil, fmt.Errorf("%s panel: %w", title, err)
	}
	line.Color = lineColor
	line.Width = vg.Points(1.5)
	p.Add(line)
	return p, line, nil
}

func trendPanel(f *forecast.Forecast) (*gplot.Plot, error) {
	xs := make([]float64, f.Len())
	ys := make([]float64, f.Len())
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, pt := range f.Points {
		xs[i] = dayX(pt.Date)
		ys[i] = pt.Trend
		lo = math.Min(lo, pt.Trend)
		hi = math.Max(hi, pt.Trend)
	}

	p, _, err := panel("trend", xs, ys, formatValue)
	if err != nil {
		return nil, err
	}
	p.X.Tick.Marker = dateTicker{n: 8}

	if len(f.Future()) > 0 {
		marker, err := historyMarker(f, lo, hi)
		if err != nil {
			return nil, err
		}
		p.Add(marker)
	}
	return p, nil
}

func weeklyPanel(weekly []float64, format func(float64) string) (*gplot.Plot, error) {
	xs := make([]float64, len(weekly))
	ticks := make(gplot.ConstantTicks, len(weekly))
	for i := range weekly {
		xs[i] = float64(i)
		ticks[i] = gplot.Tick{Value: float64(i), Label: time.Weekday(i).String()[:3]}
	}

	p, line, err := panel("weekly", xs, weekly, format)
	if err != nil {
		return nil, err
	}
	p.X.Tick.Marker = ticks

	dots, err := plotter.NewScatter(line.XYs)
	if err != nil {
		return nil, fmt.Errorf("weekly panel: %w", err)
	}
	dots.Color = lineColor
	dots.Radius = vg.Points(2.5)
	dots.Shape = draw.CircleGlyph{}
	p.Add(dots)
	return p, nil
}

func yearlyPanel(yearly []float64, format func(float64) string) (*gplot.Plot, error) {
	xs := make([]float64, len(yearly))
	for i := range yearly {
		xs[i] = float64(i)
	}

	p, _, err := panel("yearly", xs, yearly, format)
	if err != nil {
		return nil, err
	}

	leap := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := make(gplot.ConstantTicks, 0, 12)
	for m := 0; m < 12; m++ {
		start := leap.AddDate(0, m, 0)
		ticks = append(ticks, gplot.Tick{Value: start.Sub(leap).Hours() / 24, Label: start.Format("Jan")})
	}
	p.X.Tick.Marker = ticks
	return p, nil
}
