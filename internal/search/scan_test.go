package search_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/intercept/internal/search"
)

var _ = Describe("Scan", func() {
	ctx := context.Background()
	linear := analytic(func(v float64) float64 { return v }, 1234)

	It("finds the first interval containing the root", func() {
		res, err := search.Scan(ctx, linear, 0, 15000, 15)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Found).To(BeTrue())
		Expect(res.Lo).To(Equal(1000.0))
		Expect(res.Hi).To(Equal(2000.0))
		Expect(res.Best).To(Equal(1000.0))
		Expect(res.Evaluated).To(Equal(16))
	})

	It("skips failed probes", func() {
		failing := search.EvaluatorFunc(func(c context.Context, v float64) (search.Probe, error) {
			if v < 500 {
				return search.Probe{}, errors.New("degenerate")
			}
			return linear(c, v)
		})
		res, err := search.Scan(ctx, failing, 0, 15000, 15)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Failed).To(Equal(1))
		Expect(res.Found).To(BeTrue())
	})

	It("narrows bisection options to the found bracket", func() {
		res, err := search.Scan(ctx, linear, 0, 15000, 15)
		Expect(err).NotTo(HaveOccurred())

		opts, err := res.Narrow(search.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(opts.VMin).To(Equal(1000.0))
		Expect(opts.VMax).To(Equal(2000.0))

		opts.Tolerance = 0.01
		opts.MinWidth = 1e-9
		out, err := search.NewBisection(opts).Search(ctx, linear)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Converged()).To(BeTrue())
		Expect(out.Velocity).To(BeNumerically("~", 1234, 0.01))
	})

	It("reports a missing sign change", func() {
		res, err := search.Scan(ctx, linear, 2000, 3000, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Found).To(BeFalse())

		_, err = res.Narrow(search.DefaultOptions())
		Expect(errors.Is(err, search.ErrInvalidBracket)).To(BeTrue())
	})

	It("rejects an empty range", func() {
		_, err := search.Scan(ctx, linear, 10, 10, 4)
		Expect(errors.Is(err, search.ErrInvalidOptions)).To(BeTrue())
	})
})
