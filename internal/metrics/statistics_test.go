package metrics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
	"github.com/shallvtalk/chaospendulum/internal/metrics"
)

var _ = Describe("Statistics", func() {
	var stats *metrics.Statistics

	BeforeEach(func() {
		stats = metrics.NewStatistics(5)
	})

	Context("when empty", func() {
		It("reports no data", func() {
			Expect(stats.HasData()).To(BeFalse())
			Expect(stats.Len()).To(Equal(0))
			Expect(stats.Capacity()).To(Equal(5))
		})

		It("returns no aggregates", func() {
			_, ok := stats.CurrentTotalEnergy()
			Expect(ok).To(BeFalse())
			_, ok = stats.MinTotalEnergy()
			Expect(ok).To(BeFalse())
			_, ok = stats.MaxTotalEnergy()
			Expect(ok).To(BeFalse())
			_, ok = stats.MeanTotalEnergy()
			Expect(ok).To(BeFalse())
			_, ok = stats.EnergyConservation()
			Expect(ok).To(BeFalse())
		})

		It("falls back to the default capacity", func() {
			Expect(metrics.NewStatistics(0).Capacity()).To(Equal(metrics.DefaultCapacity))
		})
	})

	Context("with energy samples", func() {
		BeforeEach(func() {
			for _, e := range []float64{-10, -12, -8, -10} {
				stats.AddEnergySample(e, 1, e-1)
			}
		})

		It("reports the latest sample", func() {
			total, ok := stats.CurrentTotalEnergy()
			Expect(ok).To(BeTrue())
			Expect(total).To(Equal(-10.0))

			ke, _ := stats.CurrentKineticEnergy()
			pe, _ := stats.CurrentPotentialEnergy()
			Expect(ke).To(Equal(1.0))
			Expect(pe).To(Equal(-11.0))
		})

		It("computes min, max and mean", func() {
			lo, _ := stats.MinTotalEnergy()
			hi, _ := stats.MaxTotalEnergy()
			mean, _ := stats.MeanTotalEnergy()
			Expect(lo).To(Equal(-12.0))
			Expect(hi).To(Equal(-8.0))
			Expect(mean).To(BeNumerically("~", -10.0, 1e-12))
		})

		It("uses the population standard deviation", func() {
			sd, ok := stats.EnergyConservation()
			Expect(ok).To(BeTrue())
			Expect(sd).To(BeNumerically("~", math.Sqrt(2), 1e-12))
		})

		It("needs two samples for conservation", func() {
			single := metrics.NewStatistics(5)
			single.AddEnergySample(1, 1, 0)
			_, ok := single.EnergyConservation()
			Expect(ok).To(BeFalse())
		})
	})

	Context("at capacity", func() {
		It("keeps the most recent samples in order", func() {
			for i := 0; i < 8; i++ {
				stats.AddEnergySample(float64(i), 0, 0)
				stats.AddPhaseSample(float64(i), 0, 0, 0)
			}

			history := stats.EnergyHistory()
			Expect(history).To(HaveLen(5))
			for i, e := range history {
				Expect(e.Total).To(Equal(float64(i + 3)))
			}
			Expect(stats.PhaseHistory()[0].Theta1).To(Equal(3.0))
		})
	})

	It("records aligned samples from a state", func() {
		p := dynamo.DefaultParams()
		x := dynamo.AtRest(0.4, -0.2)
		stats.Record(x, p)

		Expect(stats.EnergyHistory()).To(ConsistOf(x.Energy(p)))
		Expect(stats.TrajectoryHistory()).To(ConsistOf(x.Trajectory(p)))
		Expect(stats.PhaseHistory()).To(ConsistOf(x.Phase()))
	})

	It("clears every history", func() {
		stats.AddEnergySample(1, 1, 0)
		stats.AddTrajectorySample(0, -1, 0, -2)
		stats.AddPhaseSample(0, 0, 0, 0)
		stats.ClearHistory()

		Expect(stats.HasData()).To(BeFalse())
		Expect(stats.TrajectoryHistory()).To(BeEmpty())
		Expect(stats.PhaseHistory()).To(BeEmpty())
	})

	Describe("periodicity", func() {
		It("finds the period of a repeating phase history", func() {
			long := metrics.NewStatistics(100)
			for i := 0; i < 100; i++ {
				k := float64(i % 6)
				long.AddPhaseSample(k, -k, 2*k, 0)
			}
			period, ok := long.DetectPeriodicity(1e-9, 2)
			Expect(ok).To(BeTrue())
			Expect(period).To(Equal(6))
		})

		It("needs at least twice the minimum period", func() {
			_, ok := stats.DetectPeriodicity(1e-3, 3)
			Expect(ok).To(BeFalse())
		})
	})

	It("needs window plus a margin of samples for a Lyapunov estimate", func() {
		_, ok := stats.EstimateLyapunov(10)
		Expect(ok).To(BeFalse())
	})
})
