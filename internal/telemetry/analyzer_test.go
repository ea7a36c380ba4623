package telemetry_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cartwin/internal/telemetry"
	"github.com/san-kum/cartwin/internal/vehicle"
)

func recTypes(recs []telemetry.Recommendation) []telemetry.RecommendationType {
	out := make([]telemetry.RecommendationType, len(recs))
	for i, r := range recs {
		out[i] = r.Type
	}
	return out
}

var _ = Describe("Analyzer", func() {
	var (
		a  *telemetry.Analyzer
		t0 time.Time
	)

	cruise := telemetry.Sample{Speed: 50, RPM: 3300, Temperature: 90, Gear: vehicle.GearDrive}

	BeforeEach(func() {
		a = telemetry.New(vehicle.DefaultModel())
		t0 = time.Unix(1_700_000_000, 0)
	})

	It("starts in efficiency mode with a perfect score", func() {
		m := a.Metrics()
		Expect(a.Mode()).To(Equal(telemetry.ModeEfficiency))
		Expect(m.Efficiency).To(Equal(100))
		Expect(m.Recommendations).To(BeEmpty())
		Expect(m.OptimalRPM).To(Equal(telemetry.Range{Min: 2000, Max: 6000}))
		Expect(m.OptimalTemperature).To(Equal(telemetry.Range{Min: 85, Max: 95}))
	})

	It("evaluates on the first call", func() {
		r := a.Analyze(t0, cruise)
		Expect(r.Evaluated).To(BeTrue())
		Expect(r.Efficiency).To(Equal(100))
		Expect(r.Recommendations).To(BeEmpty())
	})

	Describe("recommendations", func() {
		It("flags poor gear selection without double counting", func() {
			r := a.Analyze(t0, telemetry.Sample{Speed: 60, RPM: 5000, Temperature: 90, Gear: vehicle.GearFirst})
			Expect(r.Efficiency).To(Equal(55))
			Expect(r.Recommendations).To(HaveLen(1))
			Expect(r.Recommendations[0].Type).To(Equal(telemetry.RecommendGear))
			Expect(r.Recommendations[0].Severity).To(Equal(telemetry.SeverityMedium))
			Expect(r.Recommendations[0].EfficiencyDelta).To(Equal(-45))
		})

		It("penalizes overheating with a cap", func() {
			s := cruise
			s.Temperature = 105
			r := a.Analyze(t0, s)
			Expect(r.Efficiency).To(Equal(85))
			Expect(r.Recommendations[0].Severity).To(Equal(telemetry.SeverityHigh))

			a.Reset()
			s.Temperature = 120
			r = a.Analyze(t0, s)
			Expect(r.Recommendations[0].EfficiencyDelta).To(Equal(-25))
			Expect(r.Efficiency).To(Equal(75))
		})

		It("penalizes a cold engine", func() {
			s := cruise
			s.Temperature = 80
			r := a.Analyze(t0, s)
			Expect(r.Efficiency).To(Equal(95))
			Expect(r.Recommendations).To(HaveLen(1))
			Expect(r.Recommendations[0].Severity).To(Equal(telemetry.SeverityMedium))
		})

		It("suggests an upshift target when over-revving", func() {
			s := cruise
			s.RPM = 7000
			r := a.Analyze(t0, s)
			Expect(r.Efficiency).To(Equal(90))
			Expect(r.Recommendations[0].Type).To(Equal(telemetry.RecommendRPM))
			Expect(r.Recommendations[0].Message).To(ContainSubstring("shifting to 4"))
		})

		It("only flags low rpm above 20 mph", func() {
			r := a.Analyze(t0, telemetry.Sample{Speed: 30, RPM: 1500, Temperature: 90, Gear: vehicle.GearDrive})
			Expect(r.Efficiency).To(Equal(76))
			Expect(r.Recommendations).To(HaveLen(1))
			Expect(r.Recommendations[0].Severity).To(Equal(telemetry.SeverityLow))

			a.Reset()
			r = a.Analyze(t0, telemetry.Sample{Speed: 15, RPM: 1500, Temperature: 90, Gear: vehicle.GearDrive})
			Expect(r.Efficiency).To(Equal(65))
			Expect(r.Recommendations).To(BeEmpty())
		})

		It("orders gear, temperature, rpm, power", func() {
			r := a.Analyze(t0, telemetry.Sample{Speed: 60, RPM: 7000, Temperature: 100, Gear: vehicle.GearFirst, Accelerator: 90})
			Expect(recTypes(r.Recommendations)).To(Equal([]telemetry.RecommendationType{
				telemetry.RecommendGear,
				telemetry.RecommendTemperature,
				telemetry.RecommendRPM,
				telemetry.RecommendPower,
			}))
			Expect(r.Recommendations[3].EfficiencyDelta).To(Equal(-15))
			Expect(r.Efficiency).To(Equal(22))
		})
	})

	Describe("debounce", func() {
		It("returns the cached assessment inside the interval", func() {
			first := a.Analyze(t0, cruise)

			poor := telemetry.Sample{Speed: 60, RPM: 5000, Temperature: 90, Gear: vehicle.GearFirst}
			second := a.Analyze(t0.Add(500*time.Millisecond), poor)

			Expect(second.Evaluated).To(BeFalse())
			Expect(second.Efficiency).To(Equal(first.Efficiency))
			Expect(second.Recommendations).To(Equal(first.Recommendations))
			Expect(second.Metrics.GearEfficiency).To(BeNumerically("~", 0.55, 1e-9))

			third := a.Analyze(t0.Add(time.Second), poor)
			Expect(third.Evaluated).To(BeTrue())
			Expect(third.Efficiency).To(Equal(55))
		})

		It("does not let callers edit the cached recommendations", func() {
			poor := telemetry.Sample{Speed: 60, RPM: 5000, Temperature: 90, Gear: vehicle.GearFirst}
			first := a.Analyze(t0, poor)
			Expect(first.Recommendations).NotTo(BeEmpty())
			msg := first.Recommendations[0].Message

			first.Recommendations[0].Message = "edited"
			second := a.Analyze(t0.Add(100*time.Millisecond), poor)

			Expect(second.Evaluated).To(BeFalse())
			Expect(second.Recommendations[0].Message).To(Equal(msg))
			Expect(a.Metrics().Recommendations[0].Message).To(Equal(msg))
		})

		It("appends history on every call", func() {
			for i := 0; i < 5; i++ {
				a.Analyze(t0.Add(time.Duration(i)*100*time.Millisecond), cruise)
			}
			Expect(a.History().Len()).To(Equal(5))
			fuel := a.History().FuelConsumption.Values()
			Expect(fuel[0]).To(BeZero())
			Expect(fuel[1]).To(BeNumerically(">", 0))
		})
	})

	Describe("mode", func() {
		It("round-trips the optimal ranges", func() {
			before := a.Metrics()
			Expect(a.ToggleMode()).To(Equal(telemetry.ModePower))
			Expect(a.Metrics().OptimalRPM).To(Equal(telemetry.Range{Min: 3500, Max: 7000}))
			Expect(a.Metrics().OptimalTemperature).To(Equal(telemetry.Range{Min: 90, Max: 98}))
			Expect(a.ToggleMode()).To(Equal(telemetry.ModeEfficiency))
			after := a.Metrics()
			Expect(after.OptimalRPM).To(Equal(before.OptimalRPM))
			Expect(after.OptimalTemperature).To(Equal(before.OptimalTemperature))
		})

		It("adds a capped bonus in power mode", func() {
			s := telemetry.Sample{Speed: 80, RPM: 4000, Temperature: 92, Gear: vehicle.GearDrive}
			Expect(a.Analyze(t0, s).Efficiency).To(Equal(70))

			a.SetMode(telemetry.ModePower)
			r := a.Analyze(t0.Add(time.Second), s)
			Expect(r.Mode).To(Equal(telemetry.ModePower))
			Expect(r.Efficiency).To(Equal(85))

			r = a.Analyze(t0.Add(2*time.Second), cruise)
			Expect(r.Efficiency).To(Equal(100))
		})
	})

	It("resets metrics and history explicitly", func() {
		a.ToggleMode()
		a.Analyze(t0, telemetry.Sample{Speed: 60, RPM: 7000, Temperature: 100, Gear: vehicle.GearFirst})
		a.Reset()

		m := a.Metrics()
		Expect(a.Mode()).To(Equal(telemetry.ModeEfficiency))
		Expect(m.Efficiency).To(Equal(100))
		Expect(m.Recommendations).To(BeEmpty())
		Expect(m.LastAnalysis.IsZero()).To(BeTrue())
		Expect(a.History().Len()).To(BeZero())
	})
})

var _ = DescribeTable("OptimalGear",
	func(speed float64, expected vehicle.Gear) {
		Expect(telemetry.OptimalGear(speed)).To(Equal(expected))
	},
	Entry("crawling", 5.0, vehicle.GearFirst),
	Entry("town", 20.0, vehicle.GearSecond),
	Entry("suburb", 40.0, vehicle.GearThird),
	Entry("arterial", 60.0, vehicle.GearFourth),
	Entry("highway", 70.0, vehicle.GearFifth),
)
