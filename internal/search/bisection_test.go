package search_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/intercept/internal/dynamo"
	"github.com/san-kum/intercept/internal/search"
)

// analytic wraps g(v) − target as a search objective.
func analytic(g func(float64) float64, target float64) search.EvaluatorFunc {
	return func(_ context.Context, v float64) (search.Probe, error) {
		y := g(v)
		return search.Probe{Residual: y - target, Final: dynamo.State{y}}, nil
	}
}

var _ = Describe("Bisection", func() {
	var (
		ctx  context.Context
		opts search.Options
	)

	BeforeEach(func() {
		ctx = context.Background()
		opts = search.DefaultOptions()
	})

	Context("with a monotonic objective that has a known root", func() {
		// g(v) = v³/1e6 crosses 1728 at v = 1200.
		g := func(v float64) float64 { return v * v * v / 1e6 }

		It("returns a velocity within tolerance of the target", func() {
			opts.Tolerance = 0.01
			opts.MinWidth = 1e-9
			res, err := search.NewBisection(opts).Search(ctx, analytic(g, 1728))

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(search.Converged))
			Expect(res.Converged()).To(BeTrue())
			Expect(math.Abs(g(res.Velocity) - 1728)).To(BeNumerically("<", 0.01))
			Expect(res.Velocity).To(BeNumerically("~", 1200, 0.01))
			Expect(res.Final).To(HaveLen(1))
			Expect(res.Iterations).To(Equal(len(res.History)))
		})

		It("halves the bracket on every iteration", func() {
			opts.Tolerance = 1e-9
			res, err := search.NewBisection(opts).Search(ctx, analytic(g, 1728))
			Expect(err).NotTo(HaveOccurred())

			width := opts.VMax - opts.VMin
			for _, it := range res.History {
				if math.Abs(it.Residual) >= opts.Tolerance {
					Expect(it.Width()).To(BeNumerically("~", width/2, 1e-12*width))
				}
				Expect(it.VMin).To(BeNumerically("<=", it.Velocity))
				Expect(it.VMax).To(BeNumerically(">=", it.Velocity))
				width = it.Width()
			}
		})

		It("evaluates the midpoint of the current bracket", func() {
			res, err := search.NewBisection(opts).Search(ctx, analytic(g, 1728))
			Expect(err).NotTo(HaveOccurred())

			Expect(res.History[0].Velocity).To(Equal(7500.0))
			Expect(res.History[1].Velocity).To(Equal(3750.0))
			Expect(res.History[2].Velocity).To(Equal(1875.0))
		})

		It("is deterministic", func() {
			a, err := search.NewBisection(opts).Search(ctx, analytic(g, 1728))
			Expect(err).NotTo(HaveOccurred())
			b, err := search.NewBisection(opts).Search(ctx, analytic(g, 1728))
			Expect(err).NotTo(HaveOccurred())

			Expect(b.Velocity).To(Equal(a.Velocity))
			Expect(b.Iterations).To(Equal(a.Iterations))
		})

		It("reports every iteration to observers", func() {
			var seen []int
			b := search.NewBisection(opts)
			b.OnIteration(func(it search.Iteration) { seen = append(seen, it.N) })

			res, err := b.Search(ctx, analytic(g, 1728))
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(HaveLen(res.Iterations))
			Expect(seen[0]).To(Equal(1))
		})
	})

	Context("when the bracket collapses before the tolerance is met", func() {
		It("returns the best estimate flagged as bracket exhausted", func() {
			opts.Tolerance = 1e-12
			res, err := search.NewBisection(opts).Search(ctx, analytic(func(v float64) float64 { return v }, 1234.56789))

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(search.BracketExhausted))
			Expect(res.Converged()).To(BeFalse())
			last := res.History[len(res.History)-1]
			Expect(last.Width()).To(BeNumerically("<", opts.MinWidth))
			Expect(res.Velocity).To(BeNumerically("~", 1234.56789, 2*opts.MinWidth))
		})
	})

	Context("when the iteration ceiling is reached", func() {
		It("stops with an iteration limit status", func() {
			opts.MaxIterations = 3
			opts.Tolerance = 1e-9
			res, err := search.NewBisection(opts).Search(ctx, analytic(func(v float64) float64 { return v }, 1000))

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(search.IterationLimit))
			Expect(res.Iterations).To(Equal(3))
		})
	})

	Context("with a bracket that does not contain a root", func() {
		always := analytic(func(v float64) float64 { return v + 2000 }, 0)

		It("silently converges to the lower bound by default", func() {
			res, err := search.NewBisection(opts).Search(ctx, always)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(search.BracketExhausted))
			Expect(res.Velocity).To(BeNumerically("<", opts.MinWidth))
			Expect(res.Residual).To(BeNumerically(">=", 2000))
		})

		It("fails with an invalid bracket error when checking is enabled", func() {
			opts.CheckBracket = true
			_, err := search.NewBisection(opts).Search(ctx, always)

			Expect(errors.Is(err, search.ErrInvalidBracket)).To(BeTrue())
			var be *search.InvalidBracketError
			Expect(errors.As(err, &be)).To(BeTrue())
			Expect(be.ResidualMin).To(Equal(2000.0))
			Expect(be.ResidualMax).To(Equal(17000.0))
		})

		It("accepts a valid bracket when checking is enabled", func() {
			opts.CheckBracket = true
			res, err := search.NewBisection(opts).Search(ctx, analytic(func(v float64) float64 { return v }, 4321))

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(search.Converged))
		})
	})

	DescribeTable("rejects invalid options",
		func(mutate func(*search.Options)) {
			mutate(&opts)
			_, err := search.NewBisection(opts).Search(ctx, analytic(func(v float64) float64 { return v }, 1))
			Expect(errors.Is(err, search.ErrInvalidOptions)).To(BeTrue())
		},
		Entry("empty bracket", func(o *search.Options) { o.VMax = o.VMin }),
		Entry("inverted bracket", func(o *search.Options) { o.VMin, o.VMax = 10, 5 }),
		Entry("zero tolerance", func(o *search.Options) { o.Tolerance = 0 }),
		Entry("zero min width", func(o *search.Options) { o.MinWidth = 0 }),
		Entry("no iterations", func(o *search.Options) { o.MaxIterations = 0 }),
	)

	It("propagates evaluator errors", func() {
		boom := errors.New("boom")
		failing := search.EvaluatorFunc(func(context.Context, float64) (search.Probe, error) {
			return search.Probe{}, boom
		})

		_, err := search.NewBisection(opts).Search(ctx, failing)
		Expect(err).To(MatchError(boom))
	})

	It("stops when the context is canceled", func() {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		res, err := search.NewBisection(opts).Search(canceled, analytic(func(v float64) float64 { return v }, 1))
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Iterations).To(BeZero())
	})

	It("names its statuses", func() {
		Expect(search.Converged.String()).To(Equal("converged"))
		Expect(search.BracketExhausted.String()).To(Equal("bracket exhausted"))
		Expect(search.IterationLimit.String()).To(Equal("iteration limit"))
	})
})
