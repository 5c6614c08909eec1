package main

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/gomachine/pkg/errors"
)

// savePlot writes a scatter plot of predictions to path; the extension picks
// the image format. With actual values the plot is predicted against actual
// with the y = x reference line, otherwise predicted against row index.
// Non-finite predictions are left out.
func savePlot(path string, actual, predicted []float64) error {
	pts := make(plotter.XYs, 0, len(predicted))
	for i, p := range predicted {
		x := float64(i)
		if actual != nil {
			x = actual[i]
		}
		if math.IsNaN(p) || math.IsInf(p, 0) || math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: p})
	}
	if len(pts) == 0 {
		return errors.NewValueError("savePlot", "no finite predictions to plot")
	}

	p := plot.New()
	p.Title.Text = "gomachine predictions"
	p.Y.Label.Text = "predicted"
	p.X.Label.Text = "row"
	p.Add(plotter.NewGrid())

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "building scatter")
	}
	p.Add(scatter)

	if actual != nil {
		p.X.Label.Text = "actual"
		identity := plotter.NewFunction(func(x float64) float64 { return x })
		identity.Color = color.RGBA{R: 200, A: 255}
		identity.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(identity)
		p.Legend.Add("y = x", identity)
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving plot %s", path)
	}
	return nil
}
