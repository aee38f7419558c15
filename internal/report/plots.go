package report

import (
	"fmt"
	"image/color"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/knobsim/internal/density"
	"github.com/banshee-data/knobsim/internal/ensemble"
	"github.com/banshee-data/knobsim/internal/fsutil"
)

// Figure sizes.
const (
	figureWidth  = 8 * vg.Inch
	figureHeight = 5 * vg.Inch
)

// WriteHistogramPNG overlays the normalised distance histograms of the
// groups whose particle count is listed in counts. All groups share the
// same bins.
func WriteHistogramPNG(fsys fsutil.FileSystem, path string, results []*ensemble.Result, counts []int, bins int) error {
	selected := selectGroups(results, counts)
	sets := make([][]float64, len(selected))
	for i, r := range selected {
		sets[i] = r.Samples
	}
	lo, hi, ok := Range(sets...)
	if !ok {
		return fmt.Errorf("histogram: %w", ErrNoData)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Nearest-neighbour distances (%s)", selected[0].Type)
	p.X.Label.Text = "Distance to nearest neighbour (nm)"
	p.Y.Label.Text = "Probability density"

	for i, r := range selected {
		if len(r.Samples) == 0 {
			continue
		}
		h := Bin(r.Samples, bins, lo, hi)
		hist := &plotter.Histogram{
			Bins:      make([]plotter.HistogramBin, len(h.Density)),
			Width:     h.Edges[1] - h.Edges[0],
			LineStyle: plotter.DefaultLineStyle,
		}
		for j, d := range h.Density {
			hist.Bins[j] = plotter.HistogramBin{Min: h.Edges[j], Max: h.Edges[j+1], Weight: d}
		}
		hist.FillColor = translucent(plotutil.Color(i), 0x60)
		hist.LineStyle.Color = plotutil.Color(i)
		hist.LineStyle.Width = vg.Points(0.5)
		p.Add(hist)
		p.Legend.Add(fmt.Sprintf("%d particles", r.ParticleCount), hist)
	}
	p.Legend.Top = true

	return savePNG(fsys, p, path)
}

// WriteMeanDistancePNG plots the mean nearest-neighbour distance against the
// particle count, with standard-error bars.
func WriteMeanDistancePNG(fsys fsutil.FileSystem, path string, knobType string, summaries []ensemble.GroupSummary) error {
	var pts errorPoints
	for _, s := range summaries {
		if s.N == 0 {
			continue
		}
		pts.XYs = append(pts.XYs, plotter.XY{X: float64(s.ParticleCount), Y: s.Mean})
		pts.YErrors = append(pts.YErrors, struct{ Low, High float64 }{s.StdErr, s.StdErr})
	}
	if len(pts.XYs) == 0 {
		return fmt.Errorf("mean distance: %w", ErrNoData)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Mean nearest-neighbour distance (%s)", knobType)
	p.X.Label.Text = "Particles per knob"
	p.Y.Label.Text = "Mean distance (nm)"

	line, scatter, err := plotter.NewLinePoints(pts.XYs)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(0)
	scatter.Color = plotutil.Color(0)
	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return err
	}
	p.Add(line, scatter, bars, plotter.NewGrid())

	xs := make([]float64, len(pts.XYs))
	for i, xy := range pts.XYs {
		xs[i] = xy.X
	}
	p.X.Min = slices.Min(xs) - 1
	p.X.Max = slices.Max(xs) + 1

	return savePNG(fsys, p, path)
}

// WriteDensityProfilePNG draws the normalised density of each profile as a
// step curve over the arc length from the apex.
func WriteDensityProfilePNG(fsys fsutil.FileSystem, path string, profiles []*density.Profile) error {
	if len(profiles) == 0 {
		return fmt.Errorf("density profile: %w", ErrNoData)
	}

	p := plot.New()
	p.Title.Text = "PfEMP1 density on knobs"
	p.X.Label.Text = "Arc length from apex (nm)"
	p.Y.Label.Text = "Density / N × 1000 (nm⁻²)"

	for i, prof := range profiles {
		x, y := prof.Step()
		xys := make(plotter.XYs, len(x))
		for j := range x {
			xys[j] = plotter.XY{X: x[j], Y: y[j]}
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("density %s: %w", prof.Name, err)
		}
		l.Color = plotutil.Color(i)
		l.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(prof.Name, l)
	}
	p.Legend.Top = true

	return savePNG(fsys, p, path)
}

// errorPoints feeds plotter.NewYErrorBars.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// selectGroups returns the results whose particle count is in counts, in
// the order of counts. An empty counts selects every result.
func selectGroups(results []*ensemble.Result, counts []int) []*ensemble.Result {
	if len(counts) == 0 {
		return results
	}
	var out []*ensemble.Result
	for _, n := range counts {
		for _, r := range results {
			if r.ParticleCount == n {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func translucent(c color.Color, alpha uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}

func savePNG(fsys fsutil.FileSystem, p *plot.Plot, path string) error {
	wt, err := p.WriterTo(figureWidth, figureHeight, "png")
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
