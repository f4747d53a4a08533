// Package liveview hosts one listing view: it mounts the snapshot loader, the
// bid stream and the expiration countdown as one bundle, feeds them into a
// reconciler and releases all of them on every exit path.
package liveview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"neighborconnect/internal/expiry"
	"neighborconnect/internal/models"
	"neighborconnect/internal/reconciler"
	"neighborconnect/utils"

	"golang.org/x/sync/errgroup"
)

// SnapshotFetcher loads the authoritative listing record
type SnapshotFetcher interface {
	Fetch(ctx context.Context, listingID int64) (models.ListingSnapshot, error)
}

// EventSource is a live bid channel scoped to one listing
type EventSource interface {
	Events() <-chan models.BidUpdateEvent
	Done() <-chan struct{}
	Err() error
	Close()
}

// StreamOpener opens the bid channel of a listing without blocking
type StreamOpener func(ctx context.Context, listingID int64) EventSource

// Callbacks let the host drive navigation and messaging.
// They run on their own goroutine, so they may close the view.
type Callbacks struct {
	OnExpire   func(state models.AuctionViewState)
	OnError    func(err error)
	OnTerminal func(state models.AuctionViewState)
}

// Options tunes mounted views
type Options struct {
	// RefreshInterval re-fetches the snapshot periodically; zero disables it.
	RefreshInterval time.Duration
	TickInterval    time.Duration
	Clock           expiry.Clock
}

// Mounter creates controllers sharing one loader and stream opener
type Mounter struct {
	fetcher SnapshotFetcher
	open    StreamOpener
	opts    Options
}

// NewMounter creates a Mounter
func NewMounter(fetcher SnapshotFetcher, open StreamOpener, opts Options) *Mounter {
	if opts.TickInterval <= 0 {
		opts.TickInterval = expiry.DefaultTickInterval
	}
	if opts.Clock == nil {
		opts.Clock = expiry.NewSystem()
	}
	return &Mounter{fetcher: fetcher, open: open, opts: opts}
}

// Controller is one mounted listing view
type Controller struct {
	id        string
	listingID int64
	viewerID  int64

	fetcher SnapshotFetcher
	opts    Options
	cb      Callbacks

	rec    *reconciler.Reconciler
	stream EventSource

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	clockMu   sync.Mutex
	countdown *expiry.Countdown

	subsMu  sync.Mutex
	subs    map[int]chan models.AuctionViewState
	nextSub int
	closed  bool

	terminalOnce sync.Once
	closeOnce    sync.Once
	done         chan struct{}
}

// Mount opens the stream, loads the snapshot and starts the countdown.
// A failed initial load is fatal: everything acquired so far is released
// and the error (FetchFailed or DecodeFailed) is returned.
func (m *Mounter) Mount(ctx context.Context, listingID, viewerID int64, cb Callbacks) (*Controller, error) {
	viewCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	group, groupCtx := errgroup.WithContext(viewCtx)

	c := &Controller{
		id:        utils.GenerateID(),
		listingID: listingID,
		viewerID:  viewerID,
		fetcher:   m.fetcher,
		opts:      m.opts,
		cb:        cb,
		rec:       reconciler.New(listingID, viewerID),
		ctx:       groupCtx,
		cancel:    cancel,
		group:     group,
		subs:      make(map[int]chan models.AuctionViewState),
		done:      make(chan struct{}),
	}

	// The stream opens first so early bids race the snapshot fetch.
	c.stream = m.open(groupCtx, listingID)
	c.group.Go(c.consume)

	snap, err := m.fetcher.Fetch(ctx, listingID)
	if err != nil {
		utils.Error("listing view failed to load", map[string]any{
			"view_id":    c.id,
			"listing_id": listingID,
			"error":      err.Error(),
		})
		c.Close()
		return nil, fmt.Errorf("liveview: mount listing %d: %w", listingID, err)
	}

	c.applySnapshot(snap)
	if !c.rec.State().Terminal {
		c.group.Go(c.refresh)
	}

	utils.Info("listing view mounted", map[string]any{
		"view_id":    c.id,
		"listing_id": listingID,
		"viewer_id":  viewerID,
	})
	return c, nil
}

// ID identifies this view
func (c *Controller) ID() string { return c.id }

// ListingID is the listing the view is bound to
func (c *Controller) ListingID() int64 { return c.listingID }

// ViewerID is the user watching the view, 0 for anonymous
func (c *Controller) ViewerID() int64 { return c.viewerID }

// State returns the current auction state
func (c *Controller) State() models.AuctionViewState {
	return c.rec.State()
}

// Done is closed after Close has released every resource
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Subscribe returns a channel receiving the latest state after every change.
// Slow readers only miss intermediate states. The channel is closed on unsubscribe or Close.
func (c *Controller) Subscribe() (<-chan models.AuctionViewState, func()) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	ch := make(chan models.AuctionViewState, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	key := c.nextSub
	c.nextSub++
	c.subs[key] = ch
	ch <- c.rec.State()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.subsMu.Lock()
			defer c.subsMu.Unlock()
			if sub, ok := c.subs[key]; ok {
				delete(c.subs, key)
				close(sub)
			}
		})
	}
}

// Close releases the in-flight fetch, the stream and the countdown.
// It is idempotent.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.stream.Close()
		c.stopCountdown()
		_ = c.group.Wait()

		c.subsMu.Lock()
		c.closed = true
		for key, ch := range c.subs {
			delete(c.subs, key)
			close(ch)
		}
		c.subsMu.Unlock()

		close(c.done)
		utils.Info("listing view closed", map[string]any{"view_id": c.id, "listing_id": c.listingID})
	})
}

func (c *Controller) consume() error {
	for {
		select {
		case <-c.ctx.Done():
			return nil
		case ev, ok := <-c.stream.Events():
			if !ok {
				if err := c.stream.Err(); err != nil {
					utils.Warn("live bid updates stopped", map[string]any{
						"view_id":    c.id,
						"listing_id": c.listingID,
						"error":      err.Error(),
					})
					c.dispatch(func() {
						if c.cb.OnError != nil {
							c.cb.OnError(err)
						}
					})
				}
				return nil
			}
			if _, changed := c.rec.ApplyBidEvent(ev); changed {
				c.publish()
			}
		}
	}
}

func (c *Controller) refresh() error {
	if c.opts.RefreshInterval <= 0 {
		return nil
	}
	ticker := time.NewTicker(c.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return nil
		case <-ticker.C:
			if c.rec.State().Terminal {
				return nil
			}
			snap, err := c.fetcher.Fetch(c.ctx, c.listingID)
			if err != nil {
				if c.ctx.Err() != nil {
					return nil
				}
				utils.Warn("listing refresh failed", map[string]any{
					"view_id":    c.id,
					"listing_id": c.listingID,
					"error":      err.Error(),
				})
				continue
			}
			c.applySnapshot(snap)
		}
	}
}

func (c *Controller) applySnapshot(snap models.ListingSnapshot) {
	state, changed := c.rec.ApplySnapshot(snap)
	if !changed {
		return
	}
	c.publish()
	if state.Terminal {
		c.terminate(state, false)
		return
	}
	c.startCountdown(snap.ExpiresAt)
}

// startCountdown runs a countdown to expiresAt, replacing one that targets a
// different instant.
func (c *Controller) startCountdown(expiresAt time.Time) {
	c.clockMu.Lock()
	defer c.clockMu.Unlock()

	if c.ctx.Err() != nil {
		return
	}
	if c.countdown != nil {
		if c.countdown.ExpiresAt().Equal(expiresAt) {
			return
		}
		c.countdown.Stop()
	}
	c.countdown = expiry.Start(expiresAt, c.onTick, c.onExpire,
		expiry.WithClock(c.opts.Clock),
		expiry.WithTickInterval(c.opts.TickInterval))
}

func (c *Controller) stopCountdown() {
	c.clockMu.Lock()
	defer c.clockMu.Unlock()
	if c.countdown != nil {
		c.countdown.Stop()
	}
}

func (c *Controller) onTick(remaining time.Duration) {
	if _, changed := c.rec.SetTimeRemaining(remaining); changed {
		c.publish()
	}
}

func (c *Controller) onExpire() {
	state, froze := c.rec.MarkTerminal()
	if !froze {
		return
	}
	utils.Info("listing expired", map[string]any{"view_id": c.id, "listing_id": c.listingID})
	c.publish()
	c.terminate(state, true)
}

// terminate closes the stream and stops the countdown once the view is terminal.
// OnExpire, when expired, runs before OnTerminal.
func (c *Controller) terminate(state models.AuctionViewState, expired bool) {
	c.terminalOnce.Do(func() {
		c.stopCountdown()
		c.stream.Close()
		c.dispatch(func() {
			if expired && c.cb.OnExpire != nil {
				c.cb.OnExpire(state)
			}
			if c.cb.OnTerminal != nil {
				c.cb.OnTerminal(state)
			}
		})
	})
}

func (c *Controller) publish() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	state := c.rec.State()
	for _, ch := range c.subs {
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}

func (c *Controller) dispatch(fn func()) {
	go fn()
}
