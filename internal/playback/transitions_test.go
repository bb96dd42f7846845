package playback

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/algoviz/internal/trace"
)

func buildStore(n int) *trace.Store {
	b := trace.NewBuilder("spec", nil)
	for i := 0; i < n; i++ {
		Expect(b.Record(trace.KindVisit, trace.Fields{"i": i})).To(Succeed())
	}
	tr, err := b.Build()
	Expect(err).NotTo(HaveOccurred())
	st, err := trace.NewStore(tr)
	Expect(err).NotTo(HaveOccurred())
	return st
}

var _ = Describe("Controller", func() {
	var (
		clock *ManualClock
		ctl   *Controller
	)

	BeforeEach(func() {
		clock = NewManualClock()
		var err error
		ctl, err = New(buildStore(5), WithClock(clock))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(ctl.Close)
	})

	cursor := func() int { return ctl.View().Cursor }
	state := func() State { return ctl.View().State }

	Context("when idle", func() {
		It("starts before the first step", func() {
			Expect(cursor()).To(Equal(-1))
			Expect(state()).To(Equal(Idle))
			Expect(ctl.View().Step).To(BeNil())
		})

		It("ignores pause", func() {
			ctl.Pause()
			Expect(state()).To(Equal(Idle))
		})

		It("runs and schedules one tick", func() {
			ctl.Run()
			Expect(state()).To(Equal(Running))
			Expect(clock.Pending()).To(Equal(1))
		})
	})

	Context("when running", func() {
		BeforeEach(func() { ctl.Run() })

		It("advances one step per interval", func() {
			clock.Advance(500 * time.Millisecond)
			Expect(cursor()).To(Equal(0))
			clock.Advance(500 * time.Millisecond)
			Expect(cursor()).To(Equal(1))
		})

		It("completes on the last step and stops ticking", func() {
			clock.Advance(time.Minute)
			Expect(state()).To(Equal(Completed))
			Expect(cursor()).To(Equal(4))
			Expect(clock.Pending()).To(BeZero())
		})

		It("pauses without moving the cursor", func() {
			clock.Advance(1000 * time.Millisecond)
			ctl.Pause()
			Expect(state()).To(Equal(Paused))
			Expect(cursor()).To(Equal(1))
			clock.Advance(time.Minute)
			Expect(cursor()).To(Equal(1))
		})

		It("ignores manual stepping", func() {
			clock.Advance(500 * time.Millisecond)
			ctl.Step()
			ctl.StepBack()
			Expect(cursor()).To(Equal(0))
			Expect(state()).To(Equal(Running))
		})

		It("resets to idle", func() {
			clock.Advance(time.Second)
			ctl.Reset()
			Expect(state()).To(Equal(Idle))
			Expect(cursor()).To(Equal(-1))
			clock.Advance(time.Minute)
			Expect(cursor()).To(Equal(-1))
		})
	})

	Context("when completed", func() {
		BeforeEach(func() { ctl.GoToStep(4) })

		It("ignores run and step", func() {
			ctl.Run()
			ctl.Step()
			Expect(state()).To(Equal(Completed))
			Expect(cursor()).To(Equal(4))
		})

		It("steps back into paused", func() {
			ctl.StepBack()
			Expect(state()).To(Equal(Paused))
			Expect(cursor()).To(Equal(3))
		})
	})

	DescribeTable("GoToStep clamps and pauses",
		func(target, wantCursor int, wantState State) {
			ctl.Run()
			ctl.GoToStep(target)
			Expect(cursor()).To(Equal(wantCursor))
			Expect(state()).To(Equal(wantState))
			Expect(clock.Pending()).To(BeZero())
		},
		Entry("below range", -3, 0, Paused),
		Entry("middle", 2, 2, Paused),
		Entry("last", 4, 4, Completed),
		Entry("above range", 12, 4, Completed),
	)
})
