package types

// Record is one evaluated subject produced by the grading pipeline.
// Numeric fields hold NaN when the source value was missing or unparseable.
type Record struct {
	ID            int64
	InferredGrade float64
	Confidence    float64
	CoverageMean  float64
}

// ResultSet is the ordered output of one pipeline run (static or dynamic).
// IDs are expected to be unique; ingestion enforces the duplicate policy.
type ResultSet struct {
	Name    string
	Records []Record
}

// Len returns the number of records in the set.
func (s ResultSet) Len() int { return len(s.Records) }

// IDs returns the record identifiers in set order.
func (s ResultSet) IDs() []int64 {
	out := make([]int64, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.ID
	}
	return out
}

// Grades returns the inferred grade column in set order.
func (s ResultSet) Grades() []float64 {
	return s.column(func(r Record) float64 { return r.InferredGrade })
}

// Confidences returns the confidence column in set order.
func (s ResultSet) Confidences() []float64 {
	return s.column(func(r Record) float64 { return r.Confidence })
}

// Coverages returns the coverage column in set order.
func (s ResultSet) Coverages() []float64 {
	return s.column(func(r Record) float64 { return r.CoverageMean })
}

func (s ResultSet) column(get func(Record) float64) []float64 {
	out := make([]float64, len(s.Records))
	for i, r := range s.Records {
		out[i] = get(r)
	}
	return out
}
