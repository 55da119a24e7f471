// Package export writes recorded trajectories as JSON, CSV or SVG.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/intercept/internal/dynamo"
	"github.com/san-kum/intercept/internal/orbit"
)

// Columns names the state components in CSV headers, in state order.
var Columns = []string{"r", "theta", "v_r", "v_theta"}

// Run describes a recorded trajectory and the settings that produced it.
type Run struct {
	Integrator string             `json:"integrator"`
	Velocity   float64            `json:"velocity"`
	Step       float64            `json:"step"`
	Steps      int                `json:"steps"`
	Stopped    bool               `json:"stopped_at_target"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// NewRun copies the recorded trajectory out of a simulation result.
func NewRun(integrator string, v0, h float64, result *dynamo.Result) Run {
	run := Run{
		Integrator: integrator,
		Velocity:   v0,
		Step:       h,
		Steps:      result.StepsTaken,
		Stopped:    result.Stopped,
		Times:      result.Times,
		States:     make([][]float64, len(result.States)),
		Metrics:    result.Metrics,
	}
	for i, s := range result.States {
		run.States[i] = s
	}
	return run
}

func WriteJSON(w io.Writer, run Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

// WriteCSV writes one row per recorded state: time, the polar state and
// its Cartesian position.
func WriteCSV(w io.Writer, run Run) error {
	if len(run.Times) != len(run.States) {
		return fmt.Errorf("export: %d times for %d states", len(run.Times), len(run.States))
	}

	cw := csv.NewWriter(w)
	header := append([]string{"time"}, Columns...)
	header = append(header, "x", "y")
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, s := range run.States {
		if len(s) != len(Columns) {
			return fmt.Errorf("export: state %d has %d components", i, len(s))
		}
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(run.Times[i], 'f', 6, 64))
		for _, val := range s {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		x, y := orbit.ToCartesian(s[orbit.R], s[orbit.Theta])
		row = append(row, strconv.FormatFloat(x, 'f', 3, 64), strconv.FormatFloat(y, 'f', 3, 64))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
