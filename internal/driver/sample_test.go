package driver_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odeint/internal/driver"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/models"
)

var _ = Describe("Sample", func() {
	// The reporting loop of the stiff Van der Pol example: mu = 10,
	// absolute tolerance only, tiny start step.
	vdpTol := dynamo.NewTolerances(1e-6, 0)
	vdpCfg := driver.Config{InitialStep: 1e-6}

	It("records the start point and every interval boundary", func() {
		d := newDriver(models.NewDecay(), "rk45", dynamo.NewTolerances(1e-8, 1e-8), driver.DefaultConfig())
		res, err := d.Sample(context.Background(), 2, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Times).To(Equal([]float64{0, 0.5, 1, 1.5, 2}))
		Expect(res.States).To(HaveLen(5))
		for i, ti := range res.Times {
			Expect(res.States[i][0]).To(BeNumerically("~", math.Exp(-ti), 1e-6))
		}
		Expect(res.Stepper).To(Equal("rk45"))
		Expect(res.Stats.Steps).To(BeNumerically(">", 0))
	})

	for _, name := range kernelNames {
		It("integrates stiff Van der Pol to t=100 with "+name, func() {
			d := newDriver(models.NewVanDerPol(), name, vdpTol, vdpCfg)
			res, err := d.Sample(context.Background(), 100, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Status()).To(Equal(driver.Reached))
			Expect(res.States).To(HaveLen(101))
			for _, y := range res.States {
				Expect(y.IsValid()).To(BeTrue())
			}
			final := res.Final()
			Expect(final[0]).To(BeNumerically("~", -1.75889, 1e-2))
		})
	}

	It("agrees between the eighth order and the implicit kernel", func() {
		a := newDriver(models.NewVanDerPol(), "rk8pd", vdpTol, vdpCfg)
		ra, err := a.Sample(context.Background(), 100, 100)
		Expect(err).NotTo(HaveOccurred())

		b := newDriver(models.NewVanDerPol(), "bsimp", vdpTol, vdpCfg)
		rb, err := b.Sample(context.Background(), 100, 100)
		Expect(err).NotTo(HaveOccurred())

		for i := range ra.Final() {
			Expect(ra.Final()[i]).To(BeNumerically("~", rb.Final()[i], 1e-4))
		}
	})

	It("returns the partial trajectory when cancelled", func() {
		d := newDriver(models.NewDecay(), "rk45", dynamo.NewTolerances(1e-8, 1e-8), driver.DefaultConfig())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res, err := d.Sample(ctx, 1, 10)
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Times).To(Equal([]float64{0}))
	})

	It("returns the partial trajectory on failure", func() {
		d := newDriver(models.NewInverseDecay(), "rk45", dynamo.NewTolerances(1e-8, 1e-8), driver.DefaultConfig())
		res, err := d.Sample(context.Background(), 1, 10)
		Expect(err).To(MatchError(dynamo.ErrNoConvergence))
		Expect(len(res.Times)).To(BeNumerically(">=", 5))
		Expect(res.Times).To(HaveLen(len(res.States)))
		Expect(res.Times[len(res.Times)-1]).To(BeNumerically("<=", 0.5))
	})

	It("rejects a non-positive interval count", func() {
		d := newDriver(models.NewDecay(), "rk45", dynamo.NewTolerances(1e-8, 1e-8), driver.DefaultConfig())
		_, err := d.Sample(context.Background(), 1, 0)
		Expect(err).To(HaveOccurred())
	})
})
