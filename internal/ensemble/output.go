package ensemble

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/knobsim/internal/knob"
)

// Sink receives every finished group of a Runner.
type Sink interface {
	WriteGroup(r *Result) error
}

// DistributionWriter writes the raw distance samples, one line per group.
// Each value is followed by a single space and each line ends in '\n'.
type DistributionWriter struct {
	w *bufio.Writer
}

// NewDistributionWriter wraps w.
func NewDistributionWriter(w io.Writer) *DistributionWriter {
	return &DistributionWriter{w: bufio.NewWriter(w)}
}

// WriteGroup appends one line holding r.Samples and flushes it.
func (d *DistributionWriter) WriteGroup(r *Result) error {
	var buf []byte
	for _, v := range r.Samples {
		buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
		buf = append(buf, ' ')
		if _, err := d.w.Write(buf); err != nil {
			return err
		}
	}
	if err := d.w.WriteByte('\n'); err != nil {
		return err
	}
	return d.w.Flush()
}

// ReadDistributions parses a file written by DistributionWriter back into
// one sample slice per line.
func ReadDistributions(r io.Reader) ([][]float64, error) {
	var out [][]float64
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<30)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		row := make([]float64, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid float '%s': %w", line, f, err)
			}
			row = append(row, v)
		}
		out = append(out, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SummaryWriter writes one CSV row of statistics per group. The header is
// written before the first row.
type SummaryWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewSummaryWriter wraps w.
func NewSummaryWriter(w io.Writer) *SummaryWriter {
	return &SummaryWriter{w: csv.NewWriter(w)}
}

// SummaryHeader lists the summary CSV columns.
func SummaryHeader() []string {
	return []string{"knob_type", "particle_count", "trials", "samples", "mean", "stddev", "stderr", "relaxations"}
}

// WriteGroup writes the summary row for r.
func (s *SummaryWriter) WriteGroup(r *Result) error {
	if !s.wroteHeader {
		if err := s.w.Write(SummaryHeader()); err != nil {
			return err
		}
		s.wroteHeader = true
	}
	sum := r.Summary()
	row := []string{
		string(r.Type),
		fmt.Sprintf("%d", r.ParticleCount),
		fmt.Sprintf("%d", r.Trials),
		fmt.Sprintf("%d", sum.N),
		fmt.Sprintf("%.6f", sum.Mean),
		fmt.Sprintf("%.6f", sum.StdDev),
		fmt.Sprintf("%.6f", sum.StdErr),
		fmt.Sprintf("%d", r.Relaxations),
	}
	if err := s.w.Write(row); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

// WriteCoordinates writes the Cartesian disc centres of k as "x y z" lines.
func WriteCoordinates(w io.Writer, k *knob.Knob) error {
	bw := bufio.NewWriter(w)
	for _, s := range k.Sites {
		if _, err := fmt.Fprintf(bw, "%.6f %.6f %.6f\n", s.Pos.X, s.Pos.Y, s.Pos.Z); err != nil {
			return err
		}
	}
	return bw.Flush()
}
