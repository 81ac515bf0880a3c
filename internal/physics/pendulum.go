package physics

import (
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// Pendulum is the undamped simple gravity pendulum with state (θ, ω).
type Pendulum struct {
	Length  float64
	Gravity float64
}

// NewPendulum validates p and returns the model for its g and L.
func NewPendulum(p dynamo.Params) (*Pendulum, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Pendulum{
		Length:  p.Length,
		Gravity: p.Gravity,
	}, nil
}

func (p *Pendulum) StateDim() int {
	return 2
}

// Derive returns (ω, -(g/L)·sin θ).
func (p *Pendulum) Derive(x dynamo.State, t float64) dynamo.State {
	theta := x[0]
	omega := x[1]

	alpha := -(p.Gravity / p.Length) * math.Sin(theta)

	return dynamo.State{omega, alpha}
}
