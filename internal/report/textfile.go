package report

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/dmtarl/abcompare/internal/compare"
)

// Metric names written to the textfile.
const (
	metricSummary      = "abcompare_summary_value"
	metricBandVariance = "abcompare_band_variance"
	metricAgreement    = "abcompare_agreement"
	metricRecords      = "abcompare_records"
	metricPairs        = "abcompare_paired_records"
	metricInfo         = "abcompare_info"
)

// WriteTextfile renders res as Prometheus text exposition at path.
func WriteTextfile(path string, res *compare.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("report: create temp textfile: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	bw := bufio.NewWriter(tmp)
	if err := EncodeText(bw, res); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("report: flush textfile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("report: close textfile: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("report: rename textfile: %w", err)
	}

	slog.Info("report: textfile written", "path", path)
	return nil
}

// EncodeText writes the metric families of res to w in text format.
func EncodeText(w io.Writer, res *compare.Result) error {
	for _, mf := range families(res) {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("report: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// families converts a comparison result into gauge families. Summary values
// are the rounded ones written to the CSV; agreement values are unrounded.
func families(res *compare.Result) []*dto.MetricFamily {
	s, m := res.Summary, res.Metrics

	summary := gauge(metricSummary, "Whole-distribution comparison metrics (rounded).")
	bands := gauge(metricBandVariance, "Variance of inferred grades within ±0.25 of a grade boundary (rounded).")
	for _, f := range s.Fields() {
		if !f.Numeric || strings.HasPrefix(f.Name, "var_band_") {
			continue
		}
		summary.Metric = append(summary.Metric, sample(f.Value.Float64(), "metric", f.Name))
	}
	for _, bp := range s.Bands {
		label := bp.Band.Label()
		bands.Metric = append(bands.Metric,
			sample(bp.Static.Variance.Float64(), "band", label, "run", "static"),
			sample(bp.Dynamic.Variance.Float64(), "band", label, "run", "dynamic"),
		)
	}

	agreement := gauge(metricAgreement, "Bland-Altman agreement of dynamic minus static grades.")
	agreement.Metric = append(agreement.Metric,
		sample(m.Agreement.Bias.Float64(), "stat", "bias"),
		sample(m.Agreement.SD.Float64(), "stat", "sd"),
		sample(m.Agreement.Lower.Float64(), "stat", "lower"),
		sample(m.Agreement.Upper.Float64(), "stat", "upper"),
	)

	records := gauge(metricRecords, "Records loaded per run.")
	records.Metric = append(records.Metric,
		sample(float64(m.StaticN), "run", "static"),
		sample(float64(m.DynamicN), "run", "dynamic"),
	)

	pairs := gauge(metricPairs, "Records present in both runs.")
	pairs.Metric = append(pairs.Metric, sample(float64(m.Pairs)))

	info := gauge(metricInfo, "Sources of the comparison.")
	info.Metric = append(info.Metric, sample(1, "static_path", s.StaticPath, "dynamic_path", s.DynamicPath))

	return []*dto.MetricFamily{summary, bands, agreement, records, pairs, info}
}

func gauge(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: &name,
		Help: &help,
		Type: dto.MetricType_GAUGE.Enum(),
	}
}

// sample builds one gauge sample; labels are name/value pairs.
func sample(v float64, labels ...string) *dto.Metric {
	m := &dto.Metric{Gauge: &dto.Gauge{Value: &v}}
	for i := 0; i+1 < len(labels); i += 2 {
		name, value := labels[i], labels[i+1]
		m.Label = append(m.Label, &dto.LabelPair{Name: &name, Value: &value})
	}
	return m
}
