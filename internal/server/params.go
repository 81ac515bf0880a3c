package server

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// queryError is a malformed query value, as opposed to a well-formed value
// the simulation rejects.
type queryError struct {
	key   string
	value string
}

func (e *queryError) Error() string {
	return fmt.Sprintf("query parameter %s: not a number: %q", e.key, e.value)
}

// request is the parameter message of the WebSocket endpoint. Missing
// fields take the server defaults; Degrees switches θ₀ and ω₀ to degrees.
type request struct {
	Theta0  *float64 `json:"theta0"`
	Omega0  *float64 `json:"omega0"`
	Gravity *float64 `json:"g"`
	Length  *float64 `json:"length"`
	Degrees bool     `json:"deg"`
}

func (r request) params(base dynamo.Params) dynamo.Params {
	p := base
	conv := 1.0
	if r.Degrees {
		conv = math.Pi / 180
	}
	if r.Theta0 != nil {
		p.Theta0 = *r.Theta0 * conv
	}
	if r.Omega0 != nil {
		p.Omega0 = *r.Omega0 * conv
	}
	if r.Gravity != nil {
		p.Gravity = *r.Gravity
	}
	if r.Length != nil {
		p.Length = *r.Length
	}
	return p
}

func parseRequest(q url.Values) (request, error) {
	var r request
	fields := []struct {
		key string
		dst **float64
	}{
		{"theta0", &r.Theta0},
		{"omega0", &r.Omega0},
		{"g", &r.Gravity},
		{"length", &r.Length},
	}
	for _, f := range fields {
		raw := q.Get(f.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return r, &queryError{key: f.key, value: raw}
		}
		*f.dst = &v
	}
	if raw := q.Get("deg"); raw != "" {
		deg, err := strconv.ParseBool(raw)
		if err != nil {
			return r, &queryError{key: "deg", value: raw}
		}
		r.Degrees = deg
	}
	return r, nil
}
