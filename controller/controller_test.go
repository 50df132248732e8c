package controller_test

import (
	"math/rand/v2"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sheikhrachel/go-gol-interactive/controller"
	"github.com/sheikhrachel/go-gol-interactive/engine"
	"github.com/sheikhrachel/go-gol-interactive/model"
	"github.com/sheikhrachel/go-gol-interactive/scheduler"
	"github.com/sheikhrachel/go-gol-interactive/utils"
)

const interval = 10 * time.Millisecond

func testConfig() utils.Config {
	cfg := utils.DefaultConfig()
	cfg.Interval = interval
	cfg.Seed = 1
	return cfg
}

var _ = Describe("Controller", func() {
	var c *controller.Controller

	generation := func() int { return c.Snapshot().Generation }

	BeforeEach(func() {
		var err error
		c, err = controller.New(testConfig(), controller.WithRand(rand.New(rand.NewPCG(1, 2))))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(c.Close)
	})

	Describe("construction", func() {
		It("seeds a random grid and starts playing", func() {
			snap := c.Snapshot()
			Expect(snap.Rows).To(Equal(30))
			Expect(snap.Cols).To(Equal(50))
			Expect(snap.Running).To(BeTrue())
			Expect(snap.Interval).To(Equal(interval))
			Expect(snap.Grid.CountLivingCells()).To(BeNumerically(">", 0))

			Eventually(generation).WithTimeout(time.Second).Should(BeNumerically(">=", 3))
		})

		It("rejects an invalid config", func() {
			cfg := testConfig()
			cfg.Rows = 0
			_, err := controller.New(cfg)
			Expect(err).To(MatchError(model.ErrInvalidDimension))
		})

		It("publishes snapshots on the updates channel", func() {
			Eventually(c.Updates()).WithTimeout(time.Second).Should(Receive(
				HaveField("Generation", BeNumerically(">=", 1)),
			))
		})
	})

	Describe("Pause", func() {
		It("stops generations without touching the grid", func() {
			Eventually(generation).WithTimeout(time.Second).Should(BeNumerically(">=", 1))
			c.Pause()

			paused := c.Snapshot()
			Expect(paused.Running).To(BeFalse())
			Consistently(func() controller.Snapshot { return c.Snapshot() }).
				WithTimeout(5 * interval).
				Should(SatisfyAll(
					HaveField("Generation", paused.Generation),
					HaveField("Grid", BeIdenticalTo(paused.Grid)),
				))
		})

		It("is a no-op when already paused", func() {
			c.Pause()
			c.Pause()
			Expect(c.Snapshot().Running).To(BeFalse())
		})
	})

	Describe("ToggleCell", func() {
		BeforeEach(func() {
			Expect(c.Resize(5, 5)).To(Succeed())
		})

		It("flips one cell and leaves generation and play state alone", func() {
			Expect(c.ToggleCell(1, 3)).To(Succeed())

			snap := c.Snapshot()
			Expect(snap.Grid.Alive(1, 3)).To(BeTrue())
			Expect(snap.Population).To(Equal(1))
			Expect(snap.Generation).To(Equal(0))
			Expect(snap.Running).To(BeFalse())
		})

		It("does not change previously published snapshots", func() {
			before := c.Snapshot()
			Expect(c.ToggleCell(0, 0)).To(Succeed())
			Expect(before.Grid.Alive(0, 0)).To(BeFalse())
		})

		It("propagates out of bounds errors", func() {
			Expect(c.ToggleCell(5, 0)).To(MatchError(model.ErrOutOfBounds))
			Expect(c.ToggleCell(0, -1)).To(MatchError(model.ErrOutOfBounds))
			Expect(c.Snapshot().Population).To(BeZero())
		})

		It("keeps playing when toggled while running", func() {
			Expect(c.Play()).To(Succeed())
			Expect(c.ToggleCell(2, 2)).To(Succeed())
			Expect(c.Snapshot().Running).To(BeTrue())
		})
	})

	Describe("Resize", func() {
		It("installs an empty grid, resets the generation and stays paused", func() {
			Eventually(generation).WithTimeout(time.Second).Should(BeNumerically(">=", 1))
			Expect(c.Resize(10, 20)).To(Succeed())

			snap := c.Snapshot()
			Expect(snap.Generation).To(BeZero())
			Expect(snap.Rows).To(Equal(10))
			Expect(snap.Cols).To(Equal(20))
			Expect(snap.Grid.Rows()).To(Equal(10))
			Expect(snap.Grid.Cols()).To(Equal(20))
			Expect(snap.Population).To(BeZero())
			Expect(snap.Running).To(BeFalse())

			Consistently(generation).WithTimeout(5 * interval).Should(BeZero())
		})

		It("rejects invalid dimensions without changing state", func() {
			c.Pause()
			before := c.Snapshot()

			Expect(c.Resize(0, 10)).To(MatchError(model.ErrInvalidDimension))
			Expect(c.Resize(10, -1)).To(MatchError(model.ErrInvalidDimension))

			after := c.Snapshot()
			Expect(after.Grid).To(BeIdenticalTo(before.Grid))
			Expect(after.Generation).To(Equal(before.Generation))
		})
	})

	Describe("Clear", func() {
		It("stops the simulation and kills every cell", func() {
			Eventually(generation).WithTimeout(time.Second).Should(BeNumerically(">=", 1))
			c.Clear()

			snap := c.Snapshot()
			Expect(snap.Running).To(BeFalse())
			Expect(snap.Generation).To(BeZero())
			Expect(snap.Population).To(BeZero())
			Expect(snap.Rows).To(Equal(30))
			Expect(snap.Cols).To(Equal(50))
			Consistently(generation).WithTimeout(5 * interval).Should(BeZero())
		})
	})

	Describe("Seed", func() {
		It("randomizes the grid and resumes play without resetting the generation", func() {
			c.Clear()
			Expect(c.Seed()).To(Succeed())

			snap := c.Snapshot()
			Expect(snap.Running).To(BeTrue())
			Expect(snap.Population).To(BeNumerically(">", 0))
			Eventually(generation).WithTimeout(time.Second).Should(BeNumerically(">=", 1))
		})
	})

	Describe("SetSpeed", func() {
		It("retunes a running simulation", func() {
			Expect(c.SetSpeed(time.Hour)).To(Succeed())
			snap := c.Snapshot()
			Expect(snap.Running).To(BeTrue())
			Expect(snap.Interval).To(Equal(time.Hour))

			time.Sleep(interval)
			slowed := generation()
			Consistently(generation).WithTimeout(5 * interval).Should(Equal(slowed))

			Expect(c.SetSpeed(interval)).To(Succeed())
			Eventually(generation).WithTimeout(time.Second).Should(BeNumerically(">", slowed))
		})

		It("only stores the interval while paused", func() {
			c.Pause()
			Expect(c.SetSpeed(time.Second)).To(Succeed())

			snap := c.Snapshot()
			Expect(snap.Running).To(BeFalse())
			Expect(snap.Interval).To(Equal(time.Second))
		})

		It("rejects non-positive intervals", func() {
			Expect(c.SetSpeed(0)).To(MatchError(scheduler.ErrInvalidInterval))
			Expect(c.Snapshot().Interval).To(Equal(interval))
		})
	})

	Describe("Advance", func() {
		It("steps the engine once and counts the generation", func() {
			c.Pause()
			before := c.Snapshot()

			c.Advance()

			after := c.Snapshot()
			Expect(after.Generation).To(Equal(before.Generation + 1))
			Expect(after.Grid.Equal(engine.New().Step(before.Grid))).To(BeTrue())
			Expect(after.Running).To(BeFalse())
		})

		It("keeps a toggled block unchanged", func() {
			Expect(c.Resize(5, 5)).To(Succeed())
			for _, cell := range [][2]int{{2, 2}, {2, 3}, {3, 2}, {3, 3}} {
				Expect(c.ToggleCell(cell[0], cell[1])).To(Succeed())
			}
			block := c.Snapshot().Grid

			c.Advance()

			snap := c.Snapshot()
			Expect(snap.Generation).To(Equal(1))
			Expect(snap.Grid.Equal(block)).To(BeTrue())
		})
	})

	Describe("Close", func() {
		It("stops ticking, closes updates and rejects further intents", func() {
			c.Close()

			Eventually(c.Updates()).Should(BeClosed())
			Expect(c.Snapshot().Running).To(BeFalse())
			Expect(c.Play()).To(MatchError(controller.ErrClosed))
			Expect(c.Seed()).To(MatchError(controller.ErrClosed))
			Expect(c.ToggleCell(0, 0)).To(MatchError(controller.ErrClosed))
			Expect(c.Resize(5, 5)).To(MatchError(controller.ErrClosed))
			Expect(c.SetSpeed(interval)).To(MatchError(controller.ErrClosed))

			closed := generation()
			c.Advance()
			c.Clear()
			c.Pause()
			Consistently(generation).WithTimeout(5 * interval).Should(Equal(closed))
		})
	})
})
