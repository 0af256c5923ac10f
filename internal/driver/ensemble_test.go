package driver_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odeint/internal/driver"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/integrators"
	"github.com/san-kum/odeint/internal/models"
)

var _ = Describe("RunEnsemble", func() {
	tol := dynamo.NewTolerances(1e-8, 1e-8)

	It("integrates independent members concurrently", func() {
		build := func(i int) (*driver.Driver, error) {
			m := &models.Decay{K: float64(i + 1)}
			d, err := driver.New(m.System(), integrators.NewRK45(), tol, driver.DefaultConfig())
			if err != nil {
				return nil, err
			}
			return d, d.Reset(0, dynamo.State{1})
		}

		results, err := driver.RunEnsemble(context.Background(), 8, build, 1, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(8))
		for i, res := range results {
			Expect(res.Final()[0]).To(BeNumerically("~", math.Exp(-float64(i+1)), 1e-6))
		}
	})

	It("reports the failing member", func() {
		build := func(i int) (*driver.Driver, error) {
			var m models.Model = models.NewDecay()
			if i == 2 {
				m = models.NewInverseDecay()
			}
			d, err := driver.New(m.System(), integrators.NewRK45(), tol, driver.DefaultConfig())
			if err != nil {
				return nil, err
			}
			return d, d.Reset(0, m.DefaultState())
		}

		_, err := driver.RunEnsemble(context.Background(), 4, build, 1, 5)
		Expect(err).To(MatchError(dynamo.ErrNoConvergence))
		Expect(err.Error()).To(ContainSubstring("member 2"))
	})

	It("rejects an empty ensemble", func() {
		_, err := driver.RunEnsemble(context.Background(), 0, nil, 1, 1)
		Expect(err).To(HaveOccurred())
	})
})
