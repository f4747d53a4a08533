package expiry

import (
	"sync"
	"sync/atomic"
	"time"
)

// State of a Countdown. Running -> Expired is the only transition;
// a stopped countdown stays Running but no longer ticks.
type State int32

const (
	Running State = iota
	Expired
)

// DefaultTickInterval is how often the remaining time is recomputed
const DefaultTickInterval = time.Second

// Option configures a Countdown
type Option func(*Countdown)

// WithClock replaces the system clock
func WithClock(clock Clock) Option {
	return func(c *Countdown) {
		c.clock = clock
	}
}

// WithTickInterval changes how often the countdown ticks
func WithTickInterval(d time.Duration) Option {
	return func(c *Countdown) {
		if d > 0 {
			c.interval = d
		}
	}
}

// Countdown derives the remaining time until expiresAt from the wall clock.
// Every tick recomputes against Now, so a delayed tick self-corrects.
// A new expiration needs a new Countdown.
type Countdown struct {
	expiresAt time.Time
	clock     Clock
	interval  time.Duration
	onTick    func(remaining time.Duration)
	onExpire  func()

	state      atomic.Int32
	expireOnce sync.Once
	stopOnce   sync.Once
	stop       chan struct{}
	done       chan struct{}
}

// Start runs a countdown to expiresAt. onTick receives the remaining time on
// every tick while positive; onExpire runs exactly once when it reaches zero.
// Callbacks run on the countdown goroutine.
func Start(expiresAt time.Time, onTick func(time.Duration), onExpire func(), opts ...Option) *Countdown {
	c := newCountdown(expiresAt, onTick, onExpire, opts...)
	go c.run()
	return c
}

func newCountdown(expiresAt time.Time, onTick func(time.Duration), onExpire func(), opts ...Option) *Countdown {
	c := &Countdown{
		expiresAt: expiresAt,
		clock:     NewSystem(),
		interval:  DefaultTickInterval,
		onTick:    onTick,
		onExpire:  onExpire,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.onTick == nil {
		c.onTick = func(time.Duration) {}
	}
	if c.onExpire == nil {
		c.onExpire = func() {}
	}
	return c
}

// ExpiresAt returns the instant the countdown runs to
func (c *Countdown) ExpiresAt() time.Time {
	return c.expiresAt
}

// State reports whether the countdown has expired
func (c *Countdown) State() State {
	return State(c.state.Load())
}

// Remaining returns the time left, never negative
func (c *Countdown) Remaining() time.Duration {
	remaining := c.expiresAt.Sub(c.clock.Now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Stop halts ticking without firing onExpire. It does not wait for a running
// callback, so it is safe to call from one. Repeated calls are no-ops.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Done is closed when the countdown goroutine exits
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

func (c *Countdown) run() {
	defer close(c.done)

	if c.tick() {
		return
	}
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if c.tick() {
				return
			}
		}
	}
}

// tick recomputes the remaining time and reports whether the countdown is over
func (c *Countdown) tick() bool {
	select {
	case <-c.stop:
		return true
	default:
	}

	remaining := c.expiresAt.Sub(c.clock.Now())
	if remaining > 0 && c.State() == Running {
		c.onTick(remaining)
		return false
	}

	c.expireOnce.Do(func() {
		c.state.Store(int32(Expired))
		c.onExpire()
	})
	return true
}
