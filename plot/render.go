package plot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/sartorproj/salesforecast/forecast"
)

// ErrEmptyForecast is returned when there is nothing to draw.
var ErrEmptyForecast = errors.New("forecast has no points")

const (
	minWidth  = 200
	minHeight = 150
)

var (
	ink       = color.RGBA{0x22, 0x22, 0x22, 0xff}
	lineColor = color.RGBA{0x00, 0x72, 0xb2, 0xff}
	bandColor = color.NRGBA{0x00, 0x72, 0xb2, 0x40}
	markColor = color.RGBA{0xd5, 0x5e, 0x00, 0xff}
)

// Renderer draws forecasts as PNG images of a fixed pixel size.
type Renderer struct {
	Width  int
	Height int
}

// DefaultRenderer returns a 1000x600 renderer.
func DefaultRenderer() Renderer {
	return Renderer{Width: 1000, Height: 600}
}

func (r Renderer) check(f *forecast.Forecast) error {
	if r.Width < minWidth || r.Height < minHeight {
		return fmt.Errorf("plot size %dx%d is below the %dx%d minimum", r.Width, r.Height, minWidth, minHeight)
	}
	if f == nil || f.Len() == 0 {
		return ErrEmptyForecast
	}
	return nil
}

// canvas returns an image canvas of exactly Width x Height pixels.
func (r Renderer) canvas() *vgimg.Canvas {
	w := vg.Length(r.Width) * vg.Inch / vgimg.DefaultDPI
	h := vg.Length(r.Height) * vg.Inch / vgimg.DefaultDPI
	return vgimg.New(w, h)
}

// Plot draws the forecast line, its uncertainty band, the observed values
// and a marker at the end of history.
func (r Renderer) Plot(w io.Writer, f *forecast.Forecast) error {
	if err := r.check(f); err != nil {
		return err
	}

	p := gplot.New()
	p.Title.Text = "Sales Forecast"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Sales"
	p.X.Tick.Marker = dateTicker{n: 8}
	p.Y.Tick.Marker = valueTicker{n: 6, format: formatValue}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	band := make(plotter.XYs, 0, 2*f.Len())
	line := make(plotter.XYs, f.Len())
	for i, pt := range f.Points {
		band = append(band, plotter.XY{X: dayX(pt.Date), Y: pt.Upper})
		line[i] = plotter.XY{X: dayX(pt.Date), Y: pt.Yhat}
	}
	for i := f.Len() - 1; i >= 0; i-- {
		band = append(band, plotter.XY{X: dayX(f.Points[i].Date), Y: f.Points[i].Lower})
	}

	poly, err := plotter.NewPolygon(band)
	if err != nil {
		return fmt.Errorf("uncertainty band: %w", err)
	}
	poly.Color = bandColor
	poly.LineStyle.Width = 0

	yhat, err := plotter.NewLine(line)
	if err != nil {
		return fmt.Errorf("forecast line: %w", err)
	}
	yhat.Color = lineColor
	yhat.Width = vg.Points(1.5)

	p.Add(poly, yhat)
	p.Legend.Add("forecast", yhat)
	p.Legend.Add("interval", poly)

	var observed plotter.XYs
	for _, pt := range f.History() {
		if !math.IsNaN(pt.Actual) {
			observed = append(observed, plotter.XY{X: dayX(pt.Date), Y: pt.Actual})
		}
	}
	if len(observed) > 0 {
		dots, err := plotter.NewScatter(observed)
		if err != nil {
			return fmt.Errorf("observed values: %w", err)
		}
		dots.Color = ink
		dots.Radius = vg.Points(1.2)
		dots.Shape = draw.CircleGlyph{}
		p.Add(dots)
		p.Legend.Add("observed", dots)
	}

	if len(f.Future()) > 0 {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, pt := range band {
			lo = math.Min(lo, pt.Y)
			hi = math.Max(hi, pt.Y)
		}
		marker, err := historyMarker(f, lo, hi)
		if err != nil {
			return err
		}
		p.Add(marker)
	}

	return r.write(w, p)
}

// historyMarker is a dashed vertical line at the last observed day,
// spanning lo to hi.
func historyMarker(f *forecast.Forecast, lo, hi float64) (*plotter.Line, error) {
	x := dayX(f.HistoryEnd)
	marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: lo}, {X: x, Y: hi}})
	if err != nil {
		return nil, fmt.Errorf("history marker: %w", err)
	}
	marker.Color = markColor
	marker.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	return marker, nil
}

func (r Renderer) write(w io.Writer, p *gplot.Plot) error {
	c := r.canvas()
	p.Draw(draw.New(c))
	_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}
