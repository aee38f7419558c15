package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/knobsim/internal/ensemble"
	"github.com/banshee-data/knobsim/internal/knob"
	"github.com/banshee-data/knobsim/internal/version"
)

// RenderEnsembleHTML writes a page with the distance histograms of the
// groups listed in counts and the mean distance per particle count.
func RenderEnsembleHTML(w io.Writer, state ensemble.RunState, results []*ensemble.Result, counts []int, bins int) error {
	selected := selectGroups(results, counts)
	sets := make([][]float64, len(selected))
	for i, r := range selected {
		sets[i] = r.Samples
	}
	lo, hi, ok := Range(sets...)
	if !ok || len(state.Summaries) == 0 {
		return fmt.Errorf("ensemble page: %w", ErrNoData)
	}
	subtitle := fmt.Sprintf("run=%s %s", state.RunID, version.String())

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Knob ensemble " + state.RunID, Width: "100%", Height: "540px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Nearest-neighbour distances (%s)", state.Type), Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "nm", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "density"}),
	)
	var labels []string
	for i, r := range selected {
		h := Bin(r.Samples, bins, lo, hi)
		if i == 0 {
			for _, c := range h.Centers() {
				labels = append(labels, strconv.FormatFloat(c, 'f', 1, 64))
			}
			bar.SetXAxis(labels)
		}
		data := make([]opts.BarData, len(h.Density))
		for j, d := range h.Density {
			data[j] = opts.BarData{Value: d}
		}
		bar.AddSeries(fmt.Sprintf("%d particles", r.ParticleCount), data)
	}
	bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{BarGap: "-100%"}))

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Mean nearest-neighbour distance", Subtitle: "± standard error"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "particles per knob", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "nm", Scale: opts.Bool(true)}),
	)
	var (
		xs                []string
		mean, lower, high []opts.LineData
	)
	for _, s := range state.Summaries {
		if s.N == 0 {
			continue
		}
		xs = append(xs, strconv.Itoa(s.ParticleCount))
		mean = append(mean, opts.LineData{Value: s.Mean})
		lower = append(lower, opts.LineData{Value: s.Mean - s.StdErr})
		high = append(high, opts.LineData{Value: s.Mean + s.StdErr})
	}
	line.SetXAxis(xs).
		AddSeries("mean", mean, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top", Formatter: "{c}"})).
		AddSeries("mean - stderr", lower, charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"})).
		AddSeries("mean + stderr", high, charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))

	page := components.NewPage()
	page.PageTitle = "Knob ensemble " + state.RunID
	page.AddCharts(bar, line)
	return page.Render(w)
}

// RenderKnobHTML writes a 3D scatter of the disc centres of k, one series
// per sector.
func RenderKnobHTML(w io.Writer, k *knob.Knob) error {
	if k == nil || k.Len() == 0 {
		return fmt.Errorf("knob page: %w", ErrNoData)
	}

	bySector := make(map[int][]opts.Chart3DData)
	maxSector := 0
	for _, s := range k.Sites {
		bySector[s.Sector] = append(bySector[s.Sector], opts.Chart3DData{
			Value: []interface{}{s.Pos.X, s.Pos.Y, s.Pos.Z},
		})
		maxSector = max(maxSector, s.Sector)
	}

	pad := k.Radius * 1.1
	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Knob " + string(k.Type), Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s knob, %d discs", k.Type, k.Len()),
			Subtitle: fmt.Sprintf("R=%.3f nm r=%.3f nm relaxed=%v", k.Radius, k.DiscRadius, k.RelaxedSectors),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "x (nm)", Min: -pad, Max: pad}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "y (nm)", Min: -pad, Max: pad}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "z (nm)", Min: 0, Max: pad}),
	)
	for sector := 0; sector <= maxSector; sector++ {
		if len(bySector[sector]) == 0 {
			continue
		}
		scatter.AddSeries(fmt.Sprintf("sector %d", sector), bySector[sector])
	}

	page := components.NewPage()
	page.PageTitle = "Knob " + string(k.Type)
	page.AddCharts(scatter)
	return page.Render(w)
}
