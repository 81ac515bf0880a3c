package sim_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendulab/internal/analysis"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/sim"
)

var _ = Describe("Pipeline", func() {
	var pipeline *sim.Pipeline

	BeforeEach(func() {
		pipeline = sim.New(sim.WithHorizon(10), sim.WithPoints(500))
	})

	Describe("defaults", func() {
		It("uses a 10 s horizon sampled at 1000 points", func() {
			p := sim.New()
			Expect(p.Horizon()).To(Equal(10.0))
			Expect(p.Points()).To(Equal(1000))
		})
	})

	Context("with the reference case θ₀=0.2, ω₀=0, g=9.81, L=1", func() {
		var res *dynamo.Result

		BeforeEach(func() {
			var err error
			res, err = pipeline.Run(dynamo.Params{Theta0: 0.2, Gravity: 9.81, Length: 1.0})
			Expect(err).NotTo(HaveOccurred())
		})

		It("samples both curves on the identical grid", func() {
			Expect(res.Grid).To(HaveLen(500))
			Expect(res.Trajectory.Len()).To(Equal(500))
			Expect(res.Harmonic.Len()).To(Equal(500))
			for i := range res.Grid {
				Expect(res.Trajectory.Times[i]).To(Equal(res.Grid[i]))
				Expect(res.Harmonic.Times[i]).To(Equal(res.Grid[i]))
			}
			Expect(res.Grid.Start()).To(Equal(0.0))
			Expect(res.Grid.End()).To(BeNumerically("~", 10.0, 1e-12))
		})

		It("starts at the initial condition", func() {
			Expect(res.Trajectory.Theta[0]).To(Equal(0.2))
			Expect(res.Trajectory.Omega[0]).To(Equal(0.0))
			Expect(res.Harmonic.Theta[0]).To(Equal(0.2))
		})

		It("has a period slightly above 2π·sqrt(L/g)", func() {
			period, err := analysis.EstimatePeriod(res.Trajectory.Times, res.Trajectory.Theta)
			Expect(err).NotTo(HaveOccurred())
			Expect(period).To(BeNumerically("~", 2.006, 0.01))
			Expect(period).To(BeNumerically(">", res.Params.SmallAnglePeriod()))
		})

		It("stays within 0.01 rad of the harmonic curve over the first period", func() {
			Expect(analysis.MaxDeviationUntil(res, res.Params.SmallAnglePeriod())).To(BeNumerically("<", 0.01))
		})

		It("drifts only slowly from the harmonic curve over the full horizon", func() {
			Expect(analysis.MaxDeviation(res)).To(BeNumerically("<", 0.02))
		})

		It("records solver statistics", func() {
			Expect(res.Stats.Solver).To(Equal("dopri5"))
			Expect(res.Stats.Steps).To(BeNumerically(">", 0))
		})
	})

	DescribeTable("small angles track the harmonic curve over one period",
		func(theta0 float64) {
			res, err := pipeline.Run(dynamo.Params{Theta0: theta0, Gravity: 9.81, Length: 1.0})
			Expect(err).NotTo(HaveOccurred())
			Expect(analysis.MaxDeviationUntil(res, res.Params.SmallAnglePeriod())).To(BeNumerically("<", 1e-3))
		},
		Entry("θ₀ = 0.1", 0.1),
		Entry("θ₀ = 0.05", 0.05),
		Entry("θ₀ = -0.08", -0.08),
	)

	DescribeTable("amplitude never exceeds |θ₀| when released from rest",
		func(theta0 float64) {
			res, err := pipeline.Run(dynamo.Params{Theta0: theta0, Gravity: 9.81, Length: 1.0})
			Expect(err).NotTo(HaveOccurred())
			for _, th := range res.Trajectory.Theta {
				Expect(math.Abs(th)).To(BeNumerically("<", math.Abs(theta0)+0.01))
			}
		},
		Entry("θ₀ = -3.0", -3.0),
		Entry("θ₀ = -1.0", -1.0),
		Entry("θ₀ = 0.5", 0.5),
		Entry("θ₀ = 2.5", 2.5),
		Entry("θ₀ = 3.0", 3.0),
	)

	It("lengthens the period well beyond the harmonic one at θ₀ = 3.0", func() {
		res, err := pipeline.Run(dynamo.Params{Theta0: 3.0, Gravity: 9.81, Length: 1.0})
		Expect(err).NotTo(HaveOccurred())

		numeric, err := analysis.EstimatePeriod(res.Trajectory.Times, res.Trajectory.Theta)
		Expect(err).NotTo(HaveOccurred())
		harmonic, err := analysis.EstimatePeriod(res.Harmonic.Times, res.Harmonic.Theta)
		Expect(err).NotTo(HaveOccurred())

		Expect(numeric).To(BeNumerically(">", 1.1*harmonic))
	})

	It("is deterministic", func() {
		params := dynamo.Params{Theta0: 1.3, Omega0: -0.4, Gravity: 9.81, Length: 0.7}
		a, err := pipeline.Run(params)
		Expect(err).NotTo(HaveOccurred())
		b, err := pipeline.Run(params)
		Expect(err).NotTo(HaveOccurred())

		for i := range a.Grid {
			Expect(b.Trajectory.Theta[i]).To(BeNumerically("~", a.Trajectory.Theta[i], 1e-9*math.Max(1, math.Abs(a.Trajectory.Theta[i]))))
			Expect(b.Trajectory.Omega[i]).To(BeNumerically("~", a.Trajectory.Omega[i], 1e-9*math.Max(1, math.Abs(a.Trajectory.Omega[i]))))
		}
	})

	It("does not share slices between runs", func() {
		params := dynamo.Params{Theta0: 0.2, Gravity: 9.81, Length: 1}
		a, _ := pipeline.Run(params)
		b, _ := pipeline.Run(params)
		a.Trajectory.Theta[10] = 99
		a.Grid[10] = -1
		Expect(b.Trajectory.Theta[10]).NotTo(Equal(99.0))
		Expect(b.Grid[10]).NotTo(Equal(-1.0))
	})

	It("handles zero gravity as free rotation", func() {
		res, err := pipeline.Run(dynamo.Params{Theta0: 0.1, Omega0: 0.5, Gravity: 0, Length: 1})
		Expect(err).NotTo(HaveOccurred())
		last := len(res.Grid) - 1
		Expect(res.Trajectory.Theta[last]).To(BeNumerically("~", 0.1+0.5*res.Grid[last], 1e-9))
		Expect(res.Harmonic.Theta[last]).To(Equal(0.1))
	})

	Context("with the full harmonic mode", func() {
		It("includes the ω₀ term in the reference", func() {
			p := sim.New(sim.WithPoints(200), sim.WithHarmonicMode(physics.HarmonicWithVelocity))
			res, err := p.Run(dynamo.Params{Theta0: 0.01, Omega0: 0.05, Gravity: 9.81, Length: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(analysis.MaxDeviation(res)).To(BeNumerically("<", 1e-4))
		})
	})

	Context("with the rk4 cross-check solver", func() {
		It("agrees with dopri5", func() {
			params := dynamo.Params{Theta0: 2.0, Gravity: 9.81, Length: 1}
			ref, err := pipeline.Run(params)
			Expect(err).NotTo(HaveOccurred())
			alt, err := sim.New(sim.WithPoints(500), sim.WithIntegrator("rk4")).Run(params)
			Expect(err).NotTo(HaveOccurred())

			Expect(alt.Stats.Solver).To(Equal("rk4"))
			for i := range ref.Grid {
				Expect(alt.Trajectory.Theta[i]).To(BeNumerically("~", ref.Trajectory.Theta[i], 1e-4))
			}
		})
	})

	Describe("invalid input", func() {
		DescribeTable("rejects parameters before integrating",
			func(params dynamo.Params, field string) {
				res, err := pipeline.Run(params)
				Expect(res).To(BeNil())

				var perr *dynamo.InvalidParameterError
				Expect(errors.As(err, &perr)).To(BeTrue())
				Expect(perr.Param).To(Equal(field))
				Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
			},
			Entry("zero length", dynamo.Params{Theta0: 0.2, Gravity: 9.81, Length: 0}, "length"),
			Entry("negative length", dynamo.Params{Theta0: 0.2, Gravity: 9.81, Length: -1}, "length"),
			Entry("negative gravity", dynamo.Params{Theta0: 0.2, Gravity: -9.81, Length: 1}, "g"),
			Entry("NaN angle", dynamo.Params{Theta0: math.NaN(), Gravity: 9.81, Length: 1}, "theta0"),
			Entry("infinite velocity", dynamo.Params{Omega0: math.Inf(1), Gravity: 9.81, Length: 1}, "omega0"),
		)

		It("rejects a non-positive horizon", func() {
			_, err := sim.New(sim.WithHorizon(0)).Run(dynamo.Params{Gravity: 9.81, Length: 1})
			var perr *dynamo.InvalidParameterError
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Param).To(Equal("horizon"))
		})

		It("rejects fewer than two points", func() {
			_, err := sim.New(sim.WithPoints(1)).Run(dynamo.Params{Gravity: 9.81, Length: 1})
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})

		It("rejects an unknown integrator", func() {
			_, err := sim.New(sim.WithIntegrator("euler")).Run(dynamo.Params{Gravity: 9.81, Length: 1})
			Expect(err).To(MatchError(ContainSubstring("unknown integrator")))

			var perr *dynamo.InvalidParameterError
			Expect(errors.As(err, &perr)).To(BeFalse())
			var ierr *dynamo.IntegrationError
			Expect(errors.As(err, &ierr)).To(BeFalse())
		})

		It("reports bad params ahead of a bad horizon", func() {
			_, err := sim.New(sim.WithHorizon(-1)).Run(dynamo.Params{Gravity: 9.81, Length: 0})
			var perr *dynamo.InvalidParameterError
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Param).To(Equal("length"))
		})

		It("reports an exhausted step budget as an integration error", func() {
			p := sim.New(sim.WithSolverOptions(integrators.Options{MaxSteps: 3}))
			_, err := p.Run(dynamo.Params{Theta0: 1, Gravity: 9.81, Length: 1})

			var ierr *dynamo.IntegrationError
			Expect(errors.As(err, &ierr)).To(BeTrue())
			Expect(errors.Is(err, dynamo.ErrUnstable)).To(BeTrue())
			Expect(ierr.Time).To(BeNumerically("<", 10))
			Expect(ierr.Partial).NotTo(BeNil())
		})
	})
})
