// Package plot renders the diagnostic charts for hybrid classification
// runs: the phase-improvement chart and the legomena scatter.
package plot

import (
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/stylo-ml/stylo/hybrid"
	"github.com/stylo-ml/stylo/pkg/errors"
)

var (
	correctColor      = color.RGBA{R: 0x4d, G: 0xdb, B: 0x94, A: 0xff}
	unclassifiedColor = color.RGBA{R: 0xb8, G: 0xb8, B: 0xb8, A: 0xff}
	incorrectColor    = color.RGBA{R: 0xff, G: 0x66, B: 0x66, A: 0xff}
)

// SaveImprovementChart writes a stacked bar chart of the correct,
// unclassified and incorrect test fractions after phase 1 and phase 2.
func SaveImprovementChart(summary *hybrid.Summary, path string) error {
	if summary == nil {
		return errors.NewValueError("SaveImprovementChart", "nil summary")
	}

	p := plot.New()
	p.Title.Text = "Classification improvement over phases"
	p.Y.Label.Text = "Fraction of test samples"
	p.Y.Min = 0
	p.Y.Max = 1.1
	p.NominalX("After Phase 1", "After Phase 2")

	correct := plotter.Values{summary.CorrectPhase1.Mean, summary.CorrectPhase2.Mean}
	unclassified := plotter.Values{summary.UnclassifiedPhase1.Mean, summary.UnclassifiedPhase2.Mean}
	incorrect := plotter.Values{summary.IncorrectPhase1.Mean, summary.IncorrectPhase2.Mean}

	width := vg.Points(30)

	correctBars, err := plotter.NewBarChart(correct, width)
	if err != nil {
		return errors.Wrap(err, "improvement chart")
	}
	correctBars.Color = correctColor
	correctBars.LineStyle.Width = 0

	unclassifiedBars, err := plotter.NewBarChart(unclassified, width)
	if err != nil {
		return errors.Wrap(err, "improvement chart")
	}
	unclassifiedBars.Color = unclassifiedColor
	unclassifiedBars.LineStyle.Width = 0
	unclassifiedBars.StackOn(correctBars)

	incorrectBars, err := plotter.NewBarChart(incorrect, width)
	if err != nil {
		return errors.Wrap(err, "improvement chart")
	}
	incorrectBars.Color = incorrectColor
	incorrectBars.LineStyle.Width = 0
	incorrectBars.StackOn(unclassifiedBars)

	p.Add(correctBars, unclassifiedBars, incorrectBars)
	p.Legend.Add("Correctly classified", correctBars)
	p.Legend.Add("Unclassified", unclassifiedBars)
	p.Legend.Add("Incorrectly classified", incorrectBars)
	p.Legend.Top = true

	return errors.Wrapf(p.Save(6*vg.Inch, 4*vg.Inch, path), "save improvement chart %s", path)
}

// SaveLegomenaScatter writes a scatter of the first two features (hapax
// and dis legomena rates), one series per class.
func SaveLegomenaScatter(X mat.Matrix, y []int, classNames []string, path string) error {
	rows, cols := X.Dims()
	if rows != len(y) {
		return errors.NewDimensionError("SaveLegomenaScatter", rows, len(y), 0)
	}
	if cols < 2 {
		return errors.NewDimensionError("SaveLegomenaScatter", 2, cols, 1)
	}

	p := plot.New()
	p.Title.Text = "Legomena Rates"
	p.X.Label.Text = "Hapax Legomena"
	p.Y.Label.Text = "Dis Legomena"

	points := make(map[int]plotter.XYs)
	for i := 0; i < rows; i++ {
		points[y[i]] = append(points[y[i]], plotter.XY{X: X.At(i, 0), Y: X.At(i, 1)})
	}

	for class := 0; class < len(classNames); class++ {
		xys, ok := points[class]
		if !ok {
			continue
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return errors.Wrap(err, "legomena scatter")
		}
		scatter.GlyphStyle.Color = seriesColor(class)
		p.Add(scatter)
		p.Legend.Add(classNames[class], scatter)
	}

	return errors.Wrapf(p.Save(6*vg.Inch, 4*vg.Inch, path), "save legomena scatter %s", path)
}

// seriesColor cycles a small palette by class index.
func seriesColor(i int) color.Color {
	palette := []color.RGBA{
		{R: 0xd6, G: 0x2e, B: 0x2e, A: 0xff},
		{R: 0x2e, G: 0x5c, B: 0xd6, A: 0xff},
		{R: 0x2e, G: 0xa8, B: 0x4f, A: 0xff},
		{R: 0xd6, G: 0x8f, B: 0x2e, A: 0xff},
		{R: 0x7a, G: 0x2e, B: 0xd6, A: 0xff},
		{R: 0x2e, G: 0xc4, B: 0xc4, A: 0xff},
	}
	return palette[i%len(palette)]
}
