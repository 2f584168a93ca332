package sim_test

import (
	"io"
	"log/slog"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendulab/internal/draw"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/sim"
	"github.com/san-kum/pendulab/internal/trace"
)

// capturingScheduler never fires on its own; tests invoke the callbacks.
type capturingScheduler struct {
	fns []func()
}

type nopTask struct{}

func (nopTask) Cancel() {}

func (c *capturingScheduler) Every(_ time.Duration, fn func()) sim.Task {
	c.fns = append(c.fns, fn)
	return nopTask{}
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func kinds(elems []trace.Element) []trace.Kind {
	out := make([]trace.Kind, len(elems))
	for i, e := range elems {
		out[i] = e.Kind
	}
	return out
}

var _ = Describe("Session", func() {
	var (
		sched   *sim.ManualScheduler
		rec     *draw.Recorder
		session *sim.Session
		opts    sim.Options
	)

	BeforeEach(func() {
		sched = sim.NewManualScheduler()
		rec = draw.NewRecorder(640, 360)
		opts = sim.Options{Surface: rec, Scheduler: sched, Logger: quiet}
	})

	JustBeforeEach(func() {
		var err error
		session, err = sim.NewSession(opts)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("requires a scheduler", func() {
			_, err := sim.NewSession(sim.Options{})
			Expect(err).To(HaveOccurred())
		})

		It("rejects unknown integrators", func() {
			_, err := sim.NewSession(sim.Options{Scheduler: sched, Integrator: "rk45"})
			Expect(err).To(MatchError(dynamo.ErrUnknownStepper))
		})

		It("has an id and reports not started", func() {
			Expect(session.ID()).NotTo(BeEmpty())
			_, err := session.State()
			Expect(err).To(MatchError(dynamo.ErrNotStarted))

			_, _, err = session.Readback()
			Expect(err).To(MatchError(dynamo.ErrNotStarted))
		})

		It("runs when paused before the first Start", func() {
			session.Pause()
			Expect(session.Start(dynamo.Params{Length: 5}, dynamo.State{Angle: 1})).To(Succeed())
			Expect(session.Paused()).To(BeFalse())
			Expect(sched.Advance(sim.DefaultInterval)).To(Equal(1))
		})
	})

	Context("with dt 0.1", func() {
		BeforeEach(func() {
			opts.Dt = 0.1
		})

		It("advances one semi-implicit Euler step per tick", func() {
			Expect(session.Start(dynamo.Params{Damping: 0.5, Length: 5}, dynamo.State{Angle: 2, Velocity: 2})).To(Succeed())
			Expect(sched.Advance(sim.DefaultInterval)).To(Equal(1))

			st, err := session.State()
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Velocity).To(BeNumerically("~", 1.8218, 1e-3))
			Expect(st.Angle).To(BeNumerically("~", 2.18218, 1e-3))

			angle, velocity, err := session.Readback()
			Expect(err).NotTo(HaveOccurred())
			Expect(angle).To(Equal("2.18"))
			Expect(velocity).To(Equal("1.82"))
		})
	})

	It("draws the pose before stepping and plots the new state", func() {
		Expect(session.Start(dynamo.Params{Length: 5}, dynamo.State{Angle: 0.5})).To(Succeed())
		sched.Advance(sim.DefaultInterval)

		calls := rec.Calls()
		Expect(calls).NotTo(BeEmpty())
		Expect(calls[0].Op).To(Equal(draw.OpClearRect))

		snap := session.Snapshot()
		Expect(snap.Ticks).To(Equal(1))
		Expect(kinds(snap.Trace)).To(Equal([]trace.Kind{trace.Sample}))

		last := calls[len(calls)-1]
		Expect(last.Op).To(Equal(draw.OpFill))
		marker := calls[len(calls)-2]
		Expect(marker.Op).To(Equal(draw.OpArc))
		Expect(marker.Args[:2]).To(Equal([]float64{snap.Trace[0].Point.X, snap.Trace[0].Point.Y}))
	})

	It("breaks the trace when the angle wraps", func() {
		var samples []sim.Sample
		session.AddObserver(func(s sim.Sample) { samples = append(samples, s) })

		Expect(session.Start(dynamo.Params{Length: 5}, dynamo.State{Angle: 2.9, Velocity: 2.5})).To(Succeed())
		sched.Advance(4 * sim.DefaultInterval)

		Expect(samples).To(HaveLen(4))
		Expect(samples[3].Wrapped).To(BeTrue())
		Expect(samples[3].State.Angle).To(BeNumerically("<", 0))
		Expect(kinds(session.Snapshot().Trace)).To(Equal([]trace.Kind{
			trace.Sample, trace.Sample, trace.Sample, trace.Break, trace.Sample,
		}))
	})

	It("keeps the angle in (-π, π]", func() {
		Expect(session.Start(dynamo.Params{Length: 1}, dynamo.State{Velocity: 20})).To(Succeed())
		session.AddObserver(func(s sim.Sample) {
			Expect(s.State.Angle).To(And(BeNumerically(">", -math.Pi), BeNumerically("<=", math.Pi)))
		})
		sched.Fire(500)
	})

	Describe("Reset", func() {
		BeforeEach(func() {
			opts.TraceCapacity = 100
		})

		JustBeforeEach(func() {
			Expect(session.Start(dynamo.Params{Damping: 0.1, Length: 5}, dynamo.State{Angle: 1})).To(Succeed())
			sched.Fire(10)
		})

		It("cancels the old task and clears the trace", func() {
			Expect(session.Reset(dynamo.Params{Length: 2}, dynamo.State{Angle: -1})).To(Succeed())

			Expect(sched.Active()).To(Equal(1))
			snap := session.Snapshot()
			Expect(snap.Ticks).To(BeZero())
			Expect(snap.Trace).To(BeEmpty())
			Expect(snap.State).To(Equal(dynamo.State{Angle: -1}))

			Expect(sched.Advance(sim.DefaultInterval)).To(Equal(1))
			Expect(session.Snapshot().Ticks).To(Equal(1))
		})

		It("leaves the run intact on invalid params", func() {
			err := session.Reset(dynamo.Params{Length: -1}, dynamo.State{})
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))

			Expect(sched.Active()).To(Equal(1))
			Expect(session.Snapshot().Ticks).To(Equal(10))
		})

		It("bounds the trace", func() {
			sched.Fire(500)
			Expect(len(session.Snapshot().Trace)).To(BeNumerically("<=", 100))
		})
	})

	Describe("stale callbacks", func() {
		var capture *capturingScheduler

		BeforeEach(func() {
			capture = &capturingScheduler{}
			opts.Scheduler = capture
		})

		It("ignores ticks scheduled before a reset", func() {
			Expect(session.Start(dynamo.Params{Length: 5}, dynamo.State{Angle: 1})).To(Succeed())
			Expect(session.Reset(dynamo.Params{Length: 5}, dynamo.State{Angle: 0.5})).To(Succeed())
			Expect(capture.fns).To(HaveLen(2))

			capture.fns[0]()
			Expect(session.Snapshot().Ticks).To(BeZero())

			capture.fns[1]()
			Expect(session.Snapshot().Ticks).To(Equal(1))
		})

		It("ignores ticks after Stop", func() {
			Expect(session.Start(dynamo.Params{Length: 5}, dynamo.State{Angle: 1})).To(Succeed())
			session.Stop()
			capture.fns[0]()
			Expect(session.Snapshot().Ticks).To(BeZero())
		})
	})

	Describe("HandlePointerInput", func() {
		JustBeforeEach(func() {
			Expect(session.Start(dynamo.Params{Damping: 0.2, Length: 3}, dynamo.State{Angle: 1})).To(Succeed())
			sched.Fire(5)
		})

		It("ignores clicks outside the plot", func() {
			Expect(session.HandlePointerInput(10, 10)).To(BeFalse())
			Expect(session.HandlePointerInput(400, 180)).To(BeFalse())
			Expect(session.Snapshot().Ticks).To(Equal(5))
		})

		It("restarts from the clicked phase point keeping params", func() {
			Expect(session.HandlePointerInput(180, 180)).To(BeTrue())

			snap := session.Snapshot()
			Expect(snap.Ticks).To(BeZero())
			Expect(snap.Trace).To(BeEmpty())
			Expect(snap.State.Angle).To(BeNumerically("~", 0, 1e-9))
			Expect(snap.State.Velocity).To(BeNumerically("~", 0, 1e-9))
			Expect(snap.Params).To(Equal(dynamo.Params{Damping: 0.2, Length: 3}))
			Expect(sched.Active()).To(Equal(1))
		})

		It("maps the plot corners to the coordinate limit", func() {
			Expect(session.HandlePointerInput(310, 50)).To(BeTrue())
			st, _ := session.State()
			Expect(st.Angle).To(BeNumerically("~", 3.17-2*math.Pi, 1e-9))
			Expect(st.Velocity).To(BeNumerically("~", 3.17, 1e-9))
		})
	})

	Describe("Pause, Resume and Stop", func() {
		JustBeforeEach(func() {
			Expect(session.Start(dynamo.Params{Length: 5}, dynamo.State{Angle: 1})).To(Succeed())
			sched.Fire(3)
		})

		It("stops ticking while paused and keeps the trace", func() {
			session.Pause()
			Expect(session.Paused()).To(BeTrue())
			Expect(sched.Active()).To(BeZero())
			Expect(sched.Advance(time.Second)).To(BeZero())
			Expect(session.Snapshot().Trace).To(HaveLen(3))

			session.Resume()
			Expect(sched.Active()).To(Equal(1))
			sched.Advance(sim.DefaultInterval)
			Expect(session.Snapshot().Ticks).To(Equal(4))
		})

		It("redraws without stepping", func() {
			session.Pause()
			rec.Reset()
			session.Redraw()
			Expect(rec.Calls()).NotTo(BeEmpty())
			Expect(session.Snapshot().Ticks).To(Equal(3))
		})

		It("keeps a paused session paused across Reset", func() {
			session.Pause()
			Expect(session.Reset(dynamo.Params{Length: 5}, dynamo.State{Angle: 0.5})).To(Succeed())
			Expect(session.Paused()).To(BeTrue())
			Expect(sched.Active()).To(BeZero())
			Expect(session.Snapshot().Ticks).To(BeZero())
		})

		It("runs again after Stop and Reset", func() {
			session.Stop()
			Expect(session.Reset(dynamo.Params{Length: 5}, dynamo.State{Angle: 0.5})).To(Succeed())
			Expect(session.Paused()).To(BeFalse())
			Expect(sched.Active()).To(Equal(1))

			Expect(sched.Advance(4 * sim.DefaultInterval)).To(Equal(4))
			Expect(session.Snapshot().Ticks).To(Equal(4))
		})

		It("runs again after Stop and Start", func() {
			session.Stop()
			Expect(session.Start(dynamo.Params{Length: 5}, dynamo.State{Angle: 0.5})).To(Succeed())
			Expect(sched.Advance(2 * sim.DefaultInterval)).To(Equal(2))
			Expect(session.Snapshot().Ticks).To(Equal(2))
		})

		It("moves the state on pointer input after Stop without running", func() {
			session.Stop()
			Expect(session.HandlePointerInput(180, 180)).To(BeTrue())
			Expect(session.Paused()).To(BeTrue())
			Expect(sched.Active()).To(BeZero())

			Expect(session.Reset(dynamo.Params{Length: 5}, dynamo.State{Angle: 0.5})).To(Succeed())
			Expect(sched.Active()).To(Equal(1))
		})
	})

	It("formats readback with two decimals", func() {
		Expect(sim.FormatReadback(0)).To(Equal("0.00"))
		Expect(sim.FormatReadback(-3.14159)).To(Equal("-3.14"))
		Expect(sim.FormatReadback(1.005)).To(Equal("1.00"))
	})
})
