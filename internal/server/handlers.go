package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/san-kum/pendulab/internal/analysis"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/export"
)

// summary is analysis.Summary with undefined periods reported as null.
type summary struct {
	NumericPeriod  *float64 `json:"numeric_period"`
	HarmonicPeriod *float64 `json:"harmonic_period"`
	PeriodRatio    *float64 `json:"period_ratio"`
	MaxDeviation   float64  `json:"max_deviation"`
	Amplitude      float64  `json:"amplitude"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type simulateResponse struct {
	export.ExportData
	Summary summary `json:"summary"`
}

func newSimulateResponse(res *dynamo.Result) simulateResponse {
	s := analysis.Summarize(res)
	return simulateResponse{
		ExportData: export.NewExportData(res),
		Summary: summary{
			NumericPeriod:  finite(s.NumericPeriod),
			HarmonicPeriod: finite(s.HarmonicPeriod),
			PeriodRatio:    finite(s.PeriodRatio),
			MaxDeviation:   s.MaxDeviation,
			Amplitude:      s.Amplitude,
		},
	}
}

type errorResponse struct {
	Error string   `json:"error"`
	Param string   `json:"param,omitempty"`
	Time  *float64 `json:"time,omitempty"`
}

// statusFor maps invalid input to 400 and a failed integration to 422.
func statusFor(err error) (int, errorResponse) {
	body := errorResponse{Error: err.Error()}

	var perr *dynamo.InvalidParameterError
	var ierr *dynamo.IntegrationError
	var qerr *queryError
	switch {
	case errors.As(err, &perr):
		body.Param = perr.Param
		return http.StatusBadRequest, body
	case errors.As(err, &qerr):
		body.Param = qerr.key
		return http.StatusBadRequest, body
	case errors.As(err, &ierr):
		body.Time = finite(ierr.Time)
		return http.StatusUnprocessableEntity, body
	}
	return http.StatusInternalServerError, body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("request_id", requestID(r.Context())), zap.Error(err))
	}
	writeJSON(w, status, body)
}

func (s *Server) simulate(r *http.Request) (*dynamo.Result, error) {
	req, err := parseRequest(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return s.pipeline.Run(req.params(s.defaults))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	res, err := s.simulate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSimulateResponse(res))
}

// maxDPI bounds the PNG resolution a request may ask for.
const maxDPI = 600

// handlePlot serves theta_t and phase_space as .png or .svg. The dpi query
// parameter overrides the server resolution for PNG.
func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	name, ext, ok := strings.Cut(file, ".")
	if !ok || (name != export.ThetaFile && name != export.PhaseFile) {
		http.NotFound(w, r)
		return
	}
	format, err := export.ParseFormat(ext)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	renderer := *s.renderer
	if raw := r.URL.Query().Get("dpi"); raw != "" {
		dpi, err := strconv.Atoi(raw)
		if err != nil || dpi <= 0 || dpi > maxDPI {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("dpi must be an integer in (0, %d], got %q", maxDPI, raw), Param: "dpi"})
			return
		}
		renderer.DPI = dpi
	}

	res, err := s.simulate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	write := renderer.WriteTimeSeries
	if name == export.PhaseFile {
		write = renderer.WritePhaseSpace
	}

	if format == export.SVG {
		w.Header().Set("Content-Type", "image/svg+xml")
	} else {
		w.Header().Set("Content-Type", "image/png")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file))
	if err := write(w, res, format); err != nil {
		s.log.Error("rendering failed", zap.String("request_id", requestID(r.Context())), zap.String("file", file), zap.Error(err))
	}
}
