// Package plot renders forecasts as PNG images with gonum.org/v1/plot.
//
// Image sizes are given in pixels at 96 DPI:
//
//	r := plot.Renderer{Width: 1000, Height: 600}
//	err := r.Plot(w, f)           // band, forecast line, observed dots
//	err = r.PlotComponents(w, f)  // trend, weekly and yearly panels
package plot
