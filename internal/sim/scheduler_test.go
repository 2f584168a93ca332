package sim_test

import (
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendulab/internal/sim"
)

var _ = Describe("ManualScheduler", func() {
	var m *sim.ManualScheduler

	BeforeEach(func() {
		m = sim.NewManualScheduler()
	})

	It("fires only the ticks that fall due", func() {
		n := 0
		m.Every(10*time.Millisecond, func() { n++ })

		Expect(m.Advance(5 * time.Millisecond)).To(Equal(0))
		Expect(m.Advance(30 * time.Millisecond)).To(Equal(3))
		Expect(n).To(Equal(3))
		Expect(m.Now()).To(Equal(35 * time.Millisecond))
	})

	It("interleaves tasks in chronological order", func() {
		var order []string
		m.Every(20*time.Millisecond, func() { order = append(order, "slow") })
		m.Every(10*time.Millisecond, func() { order = append(order, "fast") })

		m.Advance(40 * time.Millisecond)
		Expect(order).To(Equal([]string{"fast", "slow", "fast", "fast", "slow", "fast"}))
	})

	It("stops firing a canceled task", func() {
		n := 0
		task := m.Every(time.Millisecond, func() { n++ })
		m.Fire(2)
		task.Cancel()

		Expect(m.Active()).To(Equal(0))
		Expect(m.Fire(5)).To(Equal(0))
		Expect(n).To(Equal(2))
	})

	It("lets a callback cancel its own task", func() {
		var task sim.Task
		n := 0
		task = m.Every(time.Millisecond, func() {
			n++
			task.Cancel()
		})

		m.Advance(10 * time.Millisecond)
		Expect(n).To(Equal(1))
		Expect(m.Fired()).To(Equal(1))
	})
})

var _ = Describe("TickerScheduler", func() {
	It("ticks until canceled", func() {
		var n atomic.Int64
		task := sim.NewTickerScheduler().Every(time.Millisecond, func() { n.Add(1) })

		Eventually(n.Load).Should(BeNumerically(">=", 3))
		task.Cancel()
		task.Cancel()

		done := task.(interface{ Done() <-chan struct{} }).Done()
		Eventually(done).Should(BeClosed())

		after := n.Load()
		Consistently(n.Load, 50*time.Millisecond).Should(Equal(after))
	})

	It("hands ticks to the dispatch function", func() {
		calls := make(chan func(), 16)
		s := sim.NewTickerScheduler(sim.WithDispatch(func(fn func()) {
			select {
			case calls <- fn:
			default:
			}
		}))

		var n atomic.Int64
		task := s.Every(time.Millisecond, func() { n.Add(1) })
		defer task.Cancel()

		var fn func()
		Eventually(calls).Should(Receive(&fn))
		Expect(n.Load()).To(BeZero())
		fn()
		Expect(n.Load()).To(Equal(int64(1)))
	})
})
