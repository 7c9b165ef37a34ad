package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pulselane/tunnelsim/internal/scene"
)

// Range describes the minutes to sample: [From, To] stepped by Step.
type Range struct {
	From float64
	To   float64
	Step float64
}

func (r Range) validate() error {
	if r.Step <= 0 {
		return fmt.Errorf("sample step must be positive, got %v", r.Step)
	}
	if r.To < r.From {
		return fmt.Errorf("sample range end %v precedes start %v", r.To, r.From)
	}
	return nil
}

// Dump is the JSON shape for a sampled run.
type Dump struct {
	From   float64        `json:"from"`
	To     float64        `json:"to"`
	Step   float64        `json:"step"`
	Frames []*scene.Frame `json:"frames"`
}

// WriteJSON samples the system over r and writes the frames as one
// indented JSON document.
func WriteJSON(w io.Writer, sys *scene.System, r Range) error {
	if err := r.validate(); err != nil {
		return err
	}
	dump := Dump{From: r.From, To: r.To, Step: r.Step}
	for t := r.From; t <= r.To+1e-9; t += r.Step {
		frame, err := sys.At(t)
		if err != nil {
			return err
		}
		dump.Frames = append(dump.Frames, frame)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

// WriteCSV samples the system over r and writes one row per visible
// vehicle per sample.
func WriteCSV(w io.Writer, sys *scene.System, r Range) error {
	if err := r.validate(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"time_min", "id", "type", "dir", "lane", "x", "y", "opacity", "state"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for t := r.From; t <= r.To+1e-9; t += r.Step {
		vehicles, err := sys.Vehicles(t)
		if err != nil {
			return err
		}
		for _, v := range vehicles {
			row := []string{
				strconv.FormatFloat(t, 'f', 4, 64),
				v.ID,
				string(v.Type),
				string(v.Dir),
				strconv.Itoa(v.Lane),
				strconv.FormatFloat(v.Pos.X, 'f', 2, 64),
				strconv.FormatFloat(v.Pos.Y, 'f', 2, 64),
				strconv.FormatFloat(v.Pos.Opacity, 'f', 3, 64),
				string(v.Pos.State),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	return cw.Error()
}
