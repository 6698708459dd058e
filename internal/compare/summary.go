package compare

// Rounding applied at the reporting boundary.
const (
	distributionPlaces = 3
	bandPlaces         = 4
)

// Summary is the single flat record produced per comparison. Values are
// already rounded; not-computable metrics remain not computable.
type Summary struct {
	MeanAbsGradeDiff    Value
	VarGradeStatic      Value
	VarGradeDynamic     Value
	SlopeConfCovStatic  Value
	SlopeConfCovDynamic Value
	SpearmanRho         Value

	// Bands holds one entry per boundary band, in band order.
	Bands []BandPair

	StaticPath  string
	DynamicPath string
}

// Field is one named column of a Summary. Text is set for provenance fields,
// Value for metrics.
type Field struct {
	Name    string
	Value   Value
	Text    string
	Numeric bool
}

// String renders the field cell: the metric value (empty when not
// computable) or the provenance text.
func (f Field) String() string {
	if f.Numeric {
		return f.Value.String()
	}
	return f.Text
}

// Assemble rounds the computed metrics and attaches the two source
// identifiers. Distribution metrics get 3 decimal places, band variances 4.
func Assemble(m *Metrics, staticPath, dynamicPath string) Summary {
	s := Summary{
		MeanAbsGradeDiff:    m.MeanAbsGradeDiff.Round(distributionPlaces),
		VarGradeStatic:      m.VarGradeStatic.Round(distributionPlaces),
		VarGradeDynamic:     m.VarGradeDynamic.Round(distributionPlaces),
		SlopeConfCovStatic:  m.SlopeConfCovStatic.Round(distributionPlaces),
		SlopeConfCovDynamic: m.SlopeConfCovDynamic.Round(distributionPlaces),
		SpearmanRho:         m.SpearmanRho.Round(distributionPlaces),
		Bands:               make([]BandPair, len(m.Bands)),
		StaticPath:          staticPath,
		DynamicPath:         dynamicPath,
	}
	for i, bp := range m.Bands {
		bp.Static.Variance = bp.Static.Variance.Round(bandPlaces)
		bp.Dynamic.Variance = bp.Dynamic.Variance.Round(bandPlaces)
		s.Bands[i] = bp
	}
	return s
}

// Fields returns the summary columns in their fixed output order.
func (s Summary) Fields() []Field {
	num := func(name string, v Value) Field {
		return Field{Name: name, Value: v, Numeric: true}
	}
	out := []Field{
		num("mean_abs_grade_diff", s.MeanAbsGradeDiff),
		num("var_grade_static", s.VarGradeStatic),
		num("var_grade_dynamic", s.VarGradeDynamic),
		num("slope_conf_cov_static", s.SlopeConfCovStatic),
		num("slope_conf_cov_dynamic", s.SlopeConfCovDynamic),
		num("spearman_rho", s.SpearmanRho),
	}
	for _, bp := range s.Bands {
		label := bp.Band.Label()
		out = append(out,
			num("var_band_"+label+"_static", bp.Static.Variance),
			num("var_band_"+label+"_dynamic", bp.Dynamic.Variance),
		)
	}
	return append(out,
		Field{Name: "static_path", Text: s.StaticPath},
		Field{Name: "dynamic_path", Text: s.DynamicPath},
	)
}

// Header returns the field names in output order.
func (s Summary) Header() []string {
	fields := s.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

// Row returns the rendered field cells in output order.
func (s Summary) Row() []string {
	fields := s.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.String()
	}
	return out
}
