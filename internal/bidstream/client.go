package bidstream

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"neighborconnect/internal/listingerrors"
	"neighborconnect/internal/models"
	"neighborconnect/utils"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
)

const (
	defaultBufferSize = 64
	defaultKeepAlive  = 20 * time.Second
	closeGrace        = time.Second
)

// RetryPolicy bounds reconnection after a failed dial or a dropped connection.
// MaxAttempts counts consecutive failures; zero disables reconnecting.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultRetryPolicy returns the policy used when none is configured
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    15 * time.Second,
		Multiplier:  2,
	}
}

// Options tunes a Client
type Options struct {
	Dialer     *websocket.Dialer
	Retry      RetryPolicy
	KeepAlive  time.Duration
	BufferSize int
}

// Client owns the live bid channel of one listing.
type Client struct {
	url       string
	listingID int64
	opts      Options

	events chan models.BidUpdateEvent
	done   chan struct{}
	cancel context.CancelFunc

	state     atomic.Int32
	closing   atomic.Bool
	closeOnce sync.Once

	mu   sync.Mutex
	conn *websocket.Conn
	err  error
}

// TargetURL substitutes listingID into a stream URL template containing {listing_id}
func TargetURL(template string, listingID int64) string {
	return strings.ReplaceAll(template, "{listing_id}", strconv.FormatInt(listingID, 10))
}

// Open starts connecting to the channel of listingID and returns immediately.
// Events are delivered on Events until the client is closed or gives up.
func Open(ctx context.Context, urlTemplate string, listingID int64, opts Options) *Client {
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaultBufferSize
	}
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = defaultKeepAlive
	}
	if opts.Retry.BaseDelay <= 0 {
		opts.Retry.BaseDelay = DefaultRetryPolicy().BaseDelay
	}
	if opts.Retry.MaxDelay < opts.Retry.BaseDelay {
		opts.Retry.MaxDelay = opts.Retry.BaseDelay
	}
	if opts.Retry.Multiplier < 1 {
		opts.Retry.Multiplier = DefaultRetryPolicy().Multiplier
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := &Client{
		url:       TargetURL(urlTemplate, listingID),
		listingID: listingID,
		opts:      opts,
		events:    make(chan models.BidUpdateEvent, opts.BufferSize),
		done:      make(chan struct{}),
		cancel:    cancel,
	}
	c.state.Store(int32(StateConnecting))

	go c.run(runCtx)
	return c
}

// Events yields normalized bid updates. It is closed when the client stops.
func (c *Client) Events() <-chan models.BidUpdateEvent {
	return c.events
}

// Done is closed once the client has stopped for good
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// State returns the current connection state
func (c *Client) State() State {
	return State(c.state.Load())
}

// Err returns the StreamError that stopped the client, or nil when it was closed
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close stops the client and waits for it to release the connection.
// Calling Close more than once is a no-op.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closing.Store(true)
		c.cancel()

		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(closeGrace))
			_ = c.conn.Close()
		}
		c.mu.Unlock()

		<-c.done
	})
}

func (c *Client) run(ctx context.Context) {
	defer close(c.done)
	defer close(c.events)

	b := &backoff.Backoff{
		Min:    c.opts.Retry.BaseDelay,
		Max:    c.opts.Retry.MaxDelay,
		Factor: c.opts.Retry.Multiplier,
		Jitter: true,
	}
	fields := map[string]any{"listing_id": c.listingID, "url": c.url}

	failures := 0
	for {
		if ctx.Err() != nil {
			c.finish(nil)
			return
		}

		c.state.Store(int32(StateConnecting))
		conn, _, err := c.opts.Dialer.DialContext(ctx, c.url, nil)
		if err == nil {
			if !c.attach(conn) {
				c.finish(nil)
				return
			}
			c.state.Store(int32(StateOpen))
			b.Reset()
			failures = 0
			utils.Info("bid stream open", fields)

			err = c.readMessages(ctx, conn)
			c.detach()
		}

		if ctx.Err() != nil || c.closing.Load() {
			c.finish(nil)
			return
		}

		failures++
		if failures > c.opts.Retry.MaxAttempts {
			c.finish(fmt.Errorf("bidstream: %w - listing %d after %d attempt(s): %v",
				listingerrors.ErrStreamError, c.listingID, failures, err))
			return
		}

		delay := b.Duration()
		utils.Warn("bid stream disconnected, reconnecting", map[string]any{
			"listing_id": c.listingID,
			"attempt":    failures,
			"delay":      delay.String(),
			"error":      err.Error(),
		})
		if waitForReconnect(ctx, delay) {
			c.finish(nil)
			return
		}
	}
}

// attach publishes conn so Close can interrupt it. It reports false when the
// client is already closing, in which case conn is closed.
func (c *Client) attach(conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closing.Load() {
		_ = conn.Close()
		return false
	}
	c.conn = conn
	return true
}

func (c *Client) detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) finish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil && !c.closing.Load() {
		c.err = err
		c.state.Store(int32(StateErrored))
		utils.Warn("bid stream stopped", map[string]any{"listing_id": c.listingID, "error": err.Error()})
		return
	}
	c.state.Store(int32(StateClosed))
}

func (c *Client) readMessages(ctx context.Context, conn *websocket.Conn) error {
	deadline := 2 * c.opts.KeepAlive
	_ = conn.SetReadDeadline(time.Now().Add(deadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(deadline))
	})

	stopPing := startPingLoop(ctx, conn, c.opts.KeepAlive, c.listingID)
	defer stopPing()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		_ = conn.SetReadDeadline(time.Now().Add(deadline))

		ev, err := DecodeEvent(raw)
		if err != nil {
			utils.Warn("dropping malformed bid message", map[string]any{
				"listing_id": c.listingID,
				"error":      err.Error(),
			})
			continue
		}

		select {
		case c.events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func waitForReconnect(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return true
	case <-timer.C:
		return false
	}
}

func startPingLoop(ctx context.Context, conn *websocket.Conn, interval time.Duration, listingID int64) context.CancelFunc {
	pingCtx, cancel := context.WithCancel(ctx)
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-pingCtx.Done():
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
					utils.Debug("bid stream ping failed", map[string]any{"listing_id": listingID, "error": err.Error()})
					return
				}
			}
		}
	}()
	return cancel
}
