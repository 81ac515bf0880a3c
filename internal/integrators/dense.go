package integrators

import "github.com/san-kum/pendulab/internal/dynamo"

// denseP maps the seven stages to the coefficients of θ, θ², θ³, θ⁴ in the
// 4th-order continuous extension of Dormand-Prince. Each row sums to the
// corresponding 5th-order weight, so θ=1 reproduces the step endpoint.
var denseP = [7][4]float64{
	{1, -8048581381.0 / 2820520608.0, 8663915743.0 / 2820520608.0, -12715105075.0 / 11282082432.0},
	{0, 0, 0, 0},
	{0, 131558114200.0 / 32700410799.0, -68118460800.0 / 10900136933.0, 87487479700.0 / 32700410799.0},
	{0, -1754552775.0 / 470086768.0, 14199869525.0 / 1410260304.0, -10690763975.0 / 1880347072.0},
	{0, 127303824393.0 / 49829197408.0, -318862633887.0 / 49829197408.0, 701980252875.0 / 199316789632.0},
	{0, -282668133.0 / 205662961.0, 2019193451.0 / 616988883.0, -1453857185.0 / 822651844.0},
	{0, 40617522.0 / 29380423.0, -110615467.0 / 29380423.0, 69997945.0 / 29380423.0},
}

// denseOutput interpolates inside one accepted step [t0, t0+h].
type denseOutput struct {
	t0 float64
	h  float64
	x0 dynamo.State
	q  [][4]float64
}

func newDenseOutput(t0, h float64, x0 dynamo.State, k [7]dynamo.State) *denseOutput {
	q := make([][4]float64, len(x0))
	for i := range x0 {
		for j := 0; j < 4; j++ {
			s := 0.0
			for st := 0; st < 7; st++ {
				s += k[st][i] * denseP[st][j]
			}
			q[i][j] = s
		}
	}
	return &denseOutput{t0: t0, h: h, x0: x0.Clone(), q: q}
}

// At returns the interpolated state at t.
func (d *denseOutput) At(t float64) dynamo.State {
	theta := (t - d.t0) / d.h
	out := make(dynamo.State, len(d.x0))
	for i := range d.x0 {
		// Horner in θ: θ(q0 + θ(q1 + θ(q2 + θ q3)))
		p := d.q[i][3]
		p = p*theta + d.q[i][2]
		p = p*theta + d.q[i][1]
		p = p*theta + d.q[i][0]
		out[i] = d.x0[i] + d.h*theta*p
	}
	return out
}
