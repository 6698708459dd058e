package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dmtarl/abcompare/internal/config"
	"github.com/dmtarl/abcompare/internal/dataset"
)

const staticCSV = `id,inferredGrade,confidence,coverageMean
1,4.0,0.5,0.5
2,5.0,0.6,0.6
`

const dynamicCSV = `id,grade,conf,coverage
2,4.8,0.6,0.6
1,4.2,0.5,0.5
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestFileSource_FirstCompleteCandidate(t *testing.T) {
	dir := t.TempDir()
	// First candidate only has the static file.
	writeFile(t, filepath.Join(dir, "a", "static.csv"), staticCSV)
	writeFile(t, filepath.Join(dir, "b", "static.csv"), staticCSV)
	writeFile(t, filepath.Join(dir, "b", "dynamic.csv"), dynamicCSV)

	src := &FileSource{Candidates: []PathPair{
		{Static: filepath.Join(dir, "a", "static.csv"), Dynamic: filepath.Join(dir, "a", "dynamic.csv")},
		{Static: filepath.Join(dir, "b", "static.csv"), Dynamic: filepath.Join(dir, "b", "dynamic.csv")},
	}}
	p, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.StaticPath != filepath.Join(dir, "b", "static.csv") {
		t.Errorf("StaticPath = %q", p.StaticPath)
	}
	if p.Static.Name != "static" || p.Dynamic.Name != "dynamic" {
		t.Errorf("names = %q/%q", p.Static.Name, p.Dynamic.Name)
	}
	if p.Static.Len() != 2 || p.Dynamic.Len() != 2 {
		t.Errorf("lens = %d/%d", p.Static.Len(), p.Dynamic.Len())
	}
}

func TestFileSource_NoInput(t *testing.T) {
	dir := t.TempDir()
	src := &FileSource{Candidates: []PathPair{{
		Static: filepath.Join(dir, "s.csv"), Dynamic: filepath.Join(dir, "d.csv"),
	}}}
	if _, err := src.Load(context.Background()); !errors.Is(err, ErrNoInput) {
		t.Fatalf("err = %v, want ErrNoInput", err)
	}
}

func TestFileSource_DuplicatePolicy(t *testing.T) {
	dir := t.TempDir()
	s := filepath.Join(dir, "s.csv")
	d := filepath.Join(dir, "d.csv")
	writeFile(t, s, staticCSV+"1,3.0,0.5,0.5\n")
	writeFile(t, d, dynamicCSV)

	reject := &FileSource{Candidates: []PathPair{{Static: s, Dynamic: d}}, Duplicates: dataset.DuplicateReject}
	if _, err := reject.Load(context.Background()); !errors.Is(err, dataset.ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}

	keep := &FileSource{Candidates: []PathPair{{Static: s, Dynamic: d}}, Duplicates: dataset.DuplicateKeepFirst}
	p, err := keep.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Static.Len() != 2 || p.Static.Records[0].InferredGrade != 4.0 {
		t.Errorf("static = %+v", p.Static.Records)
	}
}

func TestSyntheticSource_Deterministic(t *testing.T) {
	src := &SyntheticSource{Size: 500, Seed: 7}
	p1, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p2, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(p1, p2) {
		t.Error("same seed produced different data")
	}

	other, _ := (&SyntheticSource{Size: 500, Seed: 8}).Load(context.Background())
	if reflect.DeepEqual(p1.Static, other.Static) {
		t.Error("different seeds produced identical data")
	}
}

func TestSyntheticSource_Ranges(t *testing.T) {
	p, err := (&SyntheticSource{Size: 2000, Seed: 3}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Static.Len() != 2000 || p.Dynamic.Len() != 2000 {
		t.Fatalf("lens = %d/%d", p.Static.Len(), p.Dynamic.Len())
	}
	for i, a := range p.Static.Records {
		b := p.Dynamic.Records[i]
		if a.ID != b.ID || a.ID != int64(i+1) {
			t.Fatalf("record %d ids = %d/%d", i, a.ID, b.ID)
		}
		if a.InferredGrade < 1 || a.InferredGrade > 6 || b.InferredGrade < 1 || b.InferredGrade > 6 {
			t.Fatalf("grade out of range: %v/%v", a.InferredGrade, b.InferredGrade)
		}
		if a.Confidence < 0.35 || a.Confidence > 1 || b.Confidence < 0 || b.Confidence > 1 {
			t.Fatalf("confidence out of range: %v/%v", a.Confidence, b.Confidence)
		}
		if a.CoverageMean != b.CoverageMean || a.CoverageMean < 0.5 || a.CoverageMean > 1 {
			t.Fatalf("coverage = %v/%v", a.CoverageMean, b.CoverageMean)
		}
	}
}

func TestSyntheticSource_WriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")
	p, err := (&SyntheticSource{Size: 50, Seed: 1, WriteDir: dir}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.StaticPath != filepath.Join(dir, "static_results.csv") {
		t.Errorf("StaticPath = %q", p.StaticPath)
	}

	// The written files read back as the same pair.
	back, err := (&FileSource{Candidates: []PathPair{{Static: p.StaticPath, Dynamic: p.DynamicPath}}}).Load(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(back.Static.Records, p.Static.Records) {
		t.Error("written static records differ after reload")
	}
	if !reflect.DeepEqual(back.Dynamic.Records, p.Dynamic.Records) {
		t.Error("written dynamic records differ after reload")
	}
}

func TestSyntheticSource_InvalidSize(t *testing.T) {
	if _, err := (&SyntheticSource{}).Load(context.Background()); err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestNew(t *testing.T) {
	files, err := New(config.Default().Source)
	if err != nil {
		t.Fatalf("New(files): %v", err)
	}
	fs, ok := files.(*FileSource)
	if !ok {
		t.Fatalf("New(files) = %T, want *FileSource", files)
	}
	if len(fs.Candidates) != 1 || fs.Candidates[0].Static != config.DefaultStaticPath {
		t.Errorf("candidates = %+v", fs.Candidates)
	}
	if fs.Duplicates != dataset.DuplicateReject {
		t.Errorf("duplicates = %q", fs.Duplicates)
	}

	cfg := config.Default().Source
	cfg.Mode = config.ModeSynthetic
	syn, err := New(cfg)
	if err != nil {
		t.Fatalf("New(synthetic): %v", err)
	}
	if s, ok := syn.(*SyntheticSource); !ok || s.Size != config.DefaultSyntheticSize {
		t.Errorf("New(synthetic) = %#v", syn)
	}

	cfg.Mode = "s3"
	if _, err := New(cfg); err == nil {
		t.Error("expected error for unknown mode")
	}
}
