package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/pendulab/internal/analysis"
)

type RunData struct {
	Session    string             `json:"session"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Damping    float64            `json:"damping"`
	Length     float64            `json:"length"`
	Gravity    float64            `json:"gravity"`
	Steps      int                `json:"steps"`
	Angle      []float64          `json:"angle"`
	Velocity   []float64          `json:"velocity"`
	Energy     []float64          `json:"energy"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

func WriteJSON(w io.Writer, data RunData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteCSV writes one row per tick: time, angle, velocity, energy.
func WriteCSV(w io.Writer, s *analysis.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"t", "angle", "velocity", "energy"}); err != nil {
		return err
	}

	for i := 0; i < s.Len(); i++ {
		row := []string{
			strconv.FormatFloat(float64(i+1)*s.Dt, 'f', 6, 64),
			strconv.FormatFloat(s.Angle[i], 'f', 6, 64),
			strconv.FormatFloat(s.Velocity[i], 'f', 6, 64),
			strconv.FormatFloat(s.Energy[i], 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
