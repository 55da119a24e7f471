package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/intercept/internal/dynamo"
	"github.com/san-kum/intercept/internal/mission"
	"github.com/san-kum/intercept/internal/viz"
)

func sampleResult() *dynamo.Result {
	return &dynamo.Result{
		States: []dynamo.State{
			{4.15e8, 0, 1196.71, 0},
			{4.15e8 + 59835, 0, 1196.6, 0},
			{4.15e8 + 119660, math.Pi / 2, 1196.5, 0},
		},
		Times:      []float64{0, 50, 100},
		StepsTaken: 2,
		Metrics:    map[string]float64{"energy_drift": 1e-12},
	}
}

func TestWriteJSON(t *testing.T) {
	run := NewRun("rk4", 1196.71, 50, sampleResult())

	var buf bytes.Buffer
	if err := WriteJSON(&buf, run); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var got Run
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Integrator != "rk4" || got.Steps != 2 || len(got.States) != 3 {
		t.Errorf("unexpected run: %+v", got)
	}
	if got.Metrics["energy_drift"] != 1e-12 {
		t.Errorf("expected metrics to survive, got %v", got.Metrics)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, NewRun("rk4", 1196.71, 50, sampleResult())); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "time,r,theta,v_r,v_theta,x,y" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[1][0] != "0.000000" || records[1][1] != "415000000.000000" {
		t.Errorf("unexpected first row %v", records[1])
	}
	// theta = pi/2 puts the point on the y axis
	if records[3][5] != "0.000" && records[3][5] != "-0.000" {
		t.Errorf("expected x ~ 0 on the y axis, got %s", records[3][5])
	}
}

func TestWriteCSVMismatch(t *testing.T) {
	run := NewRun("rk4", 1, 1, sampleResult())
	run.Times = run.Times[:1]
	if err := WriteCSV(&bytes.Buffer{}, run); err == nil {
		t.Error("expected error for mismatched times and states")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	states := sampleResult().States
	svg := TrajectoryToSVG(states, mission.DefaultTarget(), 400, 300)

	for _, want := range []string{"<svg", `class="asteroid"`, `class="earth"`, " L"} {
		if !strings.Contains(svg, want) {
			t.Errorf("expected %q in svg", want)
		}
	}

	if TrajectoryToSVG(states[:1], mission.DefaultTarget(), 400, 300) != "" {
		t.Error("expected empty svg for a single state")
	}
	if err := WriteSVG(&bytes.Buffer{}, states[:1], mission.DefaultTarget(), 400, 300); err == nil {
		t.Error("expected error for a single state")
	}
}

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2) != "" {
		t.Error("expected empty output for nil canvas")
	}

	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2)
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
}

func TestWriteBrailleSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBrailleSVG(&buf, sampleResult().States, mission.DefaultTarget(), 40, 12, 4); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	svg := buf.String()
	if !strings.HasPrefix(svg, "<?xml") || !strings.Contains(svg, "<circle") {
		t.Errorf("expected svg with dots, got %q", svg)
	}
	if !strings.Contains(svg, `width="320" height="192"`) {
		t.Errorf("expected 40x12 cells at scale 4 to give 320x192, got %q", svg[:120])
	}

	if err := WriteBrailleSVG(&bytes.Buffer{}, nil, mission.DefaultTarget(), 40, 12, 4); err == nil {
		t.Error("expected error for empty trajectory")
	}
}
