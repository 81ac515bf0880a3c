package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/pendulab/internal/dynamo"
)

type DataFormat string

const (
	JSON DataFormat = "json"
	CSV  DataFormat = "csv"
)

func ParseDataFormat(s string) (DataFormat, error) {
	switch DataFormat(s) {
	case JSON, CSV:
		return DataFormat(s), nil
	default:
		return "", fmt.Errorf("unknown data format: %s", s)
	}
}

// ExportData is the flat, self-describing dump of one result.
type ExportData struct {
	Params        dynamo.Params `json:"params"`
	Stats         dynamo.Stats  `json:"stats"`
	Points        int           `json:"points"`
	Times         []float64     `json:"times"`
	Theta         []float64     `json:"theta"`
	Omega         []float64     `json:"omega"`
	ThetaHarmonic []float64     `json:"theta_harmonic"`
}

func NewExportData(res *dynamo.Result) ExportData {
	return ExportData{
		Params:        res.Params,
		Stats:         res.Stats,
		Points:        res.Trajectory.Len(),
		Times:         res.Trajectory.Times,
		Theta:         res.Trajectory.Theta,
		Omega:         res.Trajectory.Omega,
		ThetaHarmonic: res.Harmonic.Theta,
	}
}

func WriteJSON(w io.Writer, res *dynamo.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(res))
}

var csvHeader = []string{"t", "theta", "omega", "theta_harmonic"}

// WriteCSV writes one row per grid time, angles in radians.
func WriteCSV(w io.Writer, res *dynamo.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	tr := res.Trajectory
	row := make([]string, len(csvHeader))
	for i := range tr.Times {
		row[0] = strconv.FormatFloat(tr.Times[i], 'g', -1, 64)
		row[1] = strconv.FormatFloat(tr.Theta[i], 'g', -1, 64)
		row[2] = strconv.FormatFloat(tr.Omega[i], 'g', -1, 64)
		row[3] = strconv.FormatFloat(res.Harmonic.Theta[i], 'g', -1, 64)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func WriteData(w io.Writer, res *dynamo.Result, f DataFormat) error {
	switch f {
	case JSON:
		return WriteJSON(w, res)
	case CSV:
		return WriteCSV(w, res)
	default:
		return fmt.Errorf("unknown data format: %s", f)
	}
}
