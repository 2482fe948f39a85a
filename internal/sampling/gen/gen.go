// Package gen computes candidate sampling tables offline.
//
// It is tooling for cmd/gensampling; nothing on the query path imports it.
package gen

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"go/format"
	"io"
	"math"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/hupe1980/segsample/internal/sampling"
)

// ErrInvalidConfig is returned when a Config cannot describe a grid.
var ErrInvalidConfig = errors.New("invalid generator config")

// Config describes the grid the table is computed over.
type Config struct {
	// Coverage is the probability that the full top is present across all
	// segments' local samples. Must be in (0, 1).
	Coverage float64

	// MinSegments and MaxSegments bound the segment count s (MaxSegments exclusive).
	MinSegments int
	MaxSegments int

	// MinTop, MaxTop and TopStep describe the requested top n grid (MaxTop exclusive).
	MinTop  int
	MaxTop  int
	TopStep int

	// Tolerance collapses entries whose sample size is within this relative
	// distance of the previously kept one. 0.05 = 5%.
	Tolerance float64

	// Workers bounds the parallelism. 0 = GOMAXPROCS.
	Workers int
}

// DefaultConfig returns the grid used for the embedded table.
func DefaultConfig() Config {
	return Config{
		Coverage:    0.999,
		MinSegments: 2,
		MaxSegments: 1000,
		MinTop:      100,
		MaxTop:      10000,
		TopStep:     50,
		Tolerance:   0.05,
	}
}

// Validate checks the grid bounds.
func (c Config) Validate() error {
	switch {
	case !(c.Coverage > 0 && c.Coverage < 1):
		return fmt.Errorf("%w: coverage %g not in (0, 1)", ErrInvalidConfig, c.Coverage)
	case c.MinSegments < 1 || c.MaxSegments <= c.MinSegments:
		return fmt.Errorf("%w: segments [%d, %d)", ErrInvalidConfig, c.MinSegments, c.MaxSegments)
	case c.MinTop < 1 || c.MaxTop <= c.MinTop:
		return fmt.Errorf("%w: top [%d, %d)", ErrInvalidConfig, c.MinTop, c.MaxTop)
	case c.TopStep <= 0:
		return fmt.Errorf("%w: top step %d", ErrInvalidConfig, c.TopStep)
	case c.Tolerance < 0:
		return fmt.Errorf("%w: tolerance %g", ErrInvalidConfig, c.Tolerance)
	}
	return nil
}

// Quantile returns the smallest k with P(X <= k) >= q for X ~ Poisson(lambda),
// matching scipy.stats.poisson.ppf for q in (0, 1).
// q >= 1 has no finite quantile and yields math.MaxInt.
func Quantile(q, lambda float64) int {
	switch {
	case q >= 1:
		return math.MaxInt
	case q <= 0 || lambda <= 0:
		return 0
	}
	dist := distuv.Poisson{Lambda: lambda}

	// Grow an upper bound, then bisect on the CDF.
	hi := int(lambda + 10*math.Sqrt(lambda) + 10)
	for dist.CDF(float64(hi)) < q {
		hi *= 2
	}
	lo := 0
	for lo < hi {
		mid := lo + (hi-lo)/2
		if dist.CDF(float64(mid)) >= q {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// Generate evaluates the grid and returns a deduplicated, sentinel-terminated
// table that passes sampling.Validate.
func Generate(ctx context.Context, cfg Config) ([]sampling.Entry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rows := make([][]sampling.Entry, cfg.MaxSegments-cfg.MinSegments)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for s := cfg.MinSegments; s < cfg.MaxSegments; s++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			q := math.Pow(cfg.Coverage, 1/float64(s))
			row := make([]sampling.Entry, 0, (cfg.MaxTop-cfg.MinTop)/cfg.TopStep+1)
			for n := cfg.MinTop; n < cfg.MaxTop; n += cfg.TopStep {
				lambda := float64(n) / float64(s)
				row = append(row, sampling.Entry{Lambda: lambda, SampleSize: Quantile(q, lambda)})
			}
			rows[s-cfg.MinSegments] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var raw []sampling.Entry
	for _, row := range rows {
		raw = append(raw, row...)
	}
	return Compact(raw, cfg.Tolerance), nil
}

// Compact turns raw grid points into a monotonic table:
//
//   - points are sorted by lambda, then size, and equal lambdas collapse to
//     the largest size
//   - sizes are replaced by their running maximum, so a lambda never maps to
//     fewer samples than any smaller lambda needed
//   - of the points sharing a size only the largest lambda is kept
//   - a size within tolerance of the previously kept size is dropped; the
//     lambdas it covered round up to the next kept entry
//
// The largest point is always kept and the sentinel is appended.
func Compact(raw []sampling.Entry, tolerance float64) []sampling.Entry {
	points := slices.Clone(raw)
	points = slices.DeleteFunc(points, func(e sampling.Entry) bool {
		return math.IsNaN(e.Lambda) || e.SampleSize <= 0 || e.IsSentinel()
	})
	slices.SortFunc(points, func(a, b sampling.Entry) int {
		if c := cmp.Compare(a.Lambda, b.Lambda); c != 0 {
			return c
		}
		return cmp.Compare(a.SampleSize, b.SampleSize)
	})

	uniq := points[:0]
	for _, p := range points {
		if n := len(uniq); n > 0 && uniq[n-1].Lambda == p.Lambda {
			uniq[n-1] = p
			continue
		}
		uniq = append(uniq, p)
	}
	points = uniq

	var running int
	for i := range points {
		running = max(running, points[i].SampleSize)
		points[i].SampleSize = running
	}

	// Keep the largest lambda per size.
	buckets := points[:0]
	for _, p := range points {
		if n := len(buckets); n > 0 && buckets[n-1].SampleSize == p.SampleSize {
			buckets[n-1] = p
			continue
		}
		buckets = append(buckets, p)
	}

	out := make([]sampling.Entry, 0, len(buckets)+1)
	for i, b := range buckets {
		if n := len(out); n > 0 && i != len(buckets)-1 {
			if float64(b.SampleSize) <= float64(out[n-1].SampleSize)*(1+tolerance) {
				continue
			}
		}
		out = append(out, b)
	}

	return append(out, sampling.SentinelEntry)
}

// Render writes the table as gofmt-formatted Go source declaring varName in
// package pkg.
func Render(w io.Writer, pkg, varName string, entries []sampling.Entry) error {
	if err := sampling.Validate(entries); err != nil {
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by gensampling. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	fmt.Fprintf(&buf, "import \"math\"\n\n")
	fmt.Fprintf(&buf, "var %s = [...]Entry{\n", varName)
	for _, e := range entries {
		if e.IsSentinel() {
			buf.WriteString("{math.MaxFloat64, math.MaxInt},\n")
			continue
		}
		fmt.Fprintf(&buf, "{%s, %d},\n", formatLambda(e.Lambda), e.SampleSize)
	}
	buf.WriteString("}\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format generated source: %w", err)
	}
	_, err = w.Write(src)
	return err
}

func formatLambda(l float64) string {
	s := strconv.FormatFloat(l, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
