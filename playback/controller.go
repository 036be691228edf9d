package playback

import (
	"sync"
	"time"

	"github.com/aurora-stream/aurora/log"
	"github.com/aurora-stream/aurora/media"
	"github.com/aurora-stream/aurora/util"
)

// Timer is the part of *time.Timer the controls timer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc is the production implementation.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Controller maps user intents onto the mounted element.
// Every operation is a no-op unless the session is in a playing phase.
type Controller struct {
	el      media.Element
	machine *Machine

	mu         sync.Mutex
	muted      bool
	fullscreen bool
	volume     float64

	controls   bool
	timeout    time.Duration
	afterFunc  AfterFunc
	timer      Timer
	generation int
}

func newController(el media.Element, machine *Machine, timeout time.Duration, after AfterFunc) *Controller {
	if after == nil {
		after = realAfterFunc
	}
	return &Controller{
		el:        el,
		machine:   machine,
		volume:    1,
		controls:  true,
		timeout:   timeout,
		afterFunc: after,
	}
}

// mounted resets per-source state. Called with the machine locked.
func (c *Controller) mounted(src media.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = src.Muted
}

// TogglePlay pauses a playing element and resumes a paused one.
func (c *Controller) TogglePlay() (err error) {
	c.machine.WhilePlaying(func() {
		if c.el.Paused() {
			err = c.el.Play()
		} else {
			err = c.el.Pause()
		}
	})
	return c.report("toggle play", err)
}

func (c *Controller) ToggleMute() (err error) {
	c.machine.WhilePlaying(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if err = c.el.SetMuted(!c.muted); err == nil {
			c.muted = !c.muted
		}
	})
	return c.report("toggle mute", err)
}

func (c *Controller) ToggleFullscreen() (err error) {
	c.machine.WhilePlaying(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if err = c.el.SetFullscreen(!c.fullscreen); err == nil {
			c.fullscreen = !c.fullscreen
		}
	})
	return c.report("toggle fullscreen", err)
}

// SkipBy moves the position by a signed number of seconds, clamped to the asset.
func (c *Controller) SkipBy(seconds float64) (err error) {
	c.machine.WhilePlaying(func() {
		err = c.el.Seek(c.clampPosition(c.el.CurrentTime() + util.Finite(seconds)))
	})
	return c.report("skip", err)
}

// SeekTo moves to an absolute position, clamped to the asset.
func (c *Controller) SeekTo(position float64) (err error) {
	c.machine.WhilePlaying(func() {
		err = c.el.Seek(c.clampPosition(position))
	})
	return c.report("seek", err)
}

// SetVolume sets the level, clamped to [0, 1].
func (c *Controller) SetVolume(level float64) (err error) {
	c.machine.WhilePlaying(func() {
		level = util.Clamp(util.Finite(level), 0, 1)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err = c.el.SetVolume(level); err == nil {
			c.volume = level
		}
	})
	return c.report("set volume", err)
}

// ShowControls reveals the controls and restarts the inactivity timer.
// When the timer fires the controls hide, unless the element is paused.
func (c *Controller) ShowControls() {
	c.machine.WhilePlaying(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.controls = true
		c.armLocked()
	})
}

func (c *Controller) armLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.generation++
	generation := c.generation
	c.timer = c.afterFunc(c.timeout, func() { c.hide(generation) })
}

func (c *Controller) hide(generation int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation || c.el.Paused() {
		return
	}
	c.controls = false
}

// paused keeps the controls up for as long as playback is paused.
func (c *Controller) paused(media.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controls = true
	c.stopLocked()
}

func (c *Controller) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
}

func (c *Controller) clampPosition(position float64) float64 {
	position = util.Finite(position)
	duration := util.Finite(c.el.Duration())
	if duration <= 0 {
		return util.Max(position, 0)
	}
	return util.Clamp(position, 0, duration)
}

func (c *Controller) report(op string, err error) error {
	if err != nil {
		log.WithFields(log.Fields{"op": op, "error": err}).Warn("element rejected control")
	}
	return err
}

type controls struct {
	muted, fullscreen, visible bool
	volume                     float64
}

func (c *Controller) snapshot() controls {
	c.mu.Lock()
	defer c.mu.Unlock()
	return controls{
		muted:      c.muted,
		fullscreen: c.fullscreen,
		visible:    c.controls,
		volume:     c.volume,
	}
}
