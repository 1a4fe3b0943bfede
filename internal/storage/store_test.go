package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/rigidsim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Frames:     2,
		Time:       0.2,
		SubSteps:   3,
		Collisions: 1,
		Grabs:      1,
		Metrics:    map[string]float64{"kinetic_energy": 12.5},
		Samples: []sim.Sample{
			{Time: 0, Body: "player", X: 1, Y: 2, Angle: 0, VX: 3, VY: 4},
			{Time: 0.1, Body: "player", X: 1.3, Y: 2.4, Angle: 0.5, VX: 3, VY: 4},
			{Time: 0.1, Body: "crate-1", X: 10, Y: -5, Angle: -0.25, VX: 0, VY: 0},
		},
	}
}

func TestSaveLoad(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := sim.Config{Dt: 0.1, Duration: 0.2}
	id, err := s.Save("arena", "bouncy", cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != id || meta.Scene != "arena" || meta.Preset != "bouncy" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Dt != 0.1 || meta.Frames != 2 || meta.Collisions != 1 || meta.Grabs != 1 {
		t.Errorf("counters not stored: %+v", meta)
	}
	if meta.Metrics["kinetic_energy"] != 12.5 {
		t.Errorf("expected metric 12.5, got %f", meta.Metrics["kinetic_energy"])
	}

	samples, err := s.LoadSamples(id)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	want := testResult().Samples
	if len(samples) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(samples))
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample %d: expected %+v, got %+v", i, want[i], samples[i])
		}
	}
}

func TestSaveUniqueIDs(t *testing.T) {
	s := New(t.TempDir())
	cfg := sim.Config{Dt: 0.1, Duration: 0.2}

	a, err := s.Save("arena", "default", cfg, testResult())
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Save("arena", "default", cfg, testResult())
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("expected distinct run ids, got %s twice", a)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestListSkipsJunk(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if _, err := s.Save("bullet", "default", sim.Config{Dt: 0.1, Duration: 0.2}, testResult()); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "empty"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Scene != "bullet" {
		t.Errorf("expected the single bullet run, got %+v", runs)
	}
}

func TestLoadSamplesMalformed(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if err := os.MkdirAll(filepath.Join(dir, "bad"), 0755); err != nil {
		t.Fatal(err)
	}
	data := "time,body,x,y,angle,vx,vy\n0,player,1,2,zero,0,0\n"
	if err := os.WriteFile(filepath.Join(dir, "bad", "bodies.csv"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.LoadSamples("bad"); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}
