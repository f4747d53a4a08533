// Package reconciler merges listing snapshots and live bid events into the
// single AuctionViewState read by the presentation layer.
//
// The only ordering rule is the price guard: a bid is applied when its amount
// is strictly greater than the current display price. That makes the merge
// commutative for increasing bids and absorbs replays, duplicates and echoes
// of the viewer's own bids. Once a state is terminal nothing changes it.
package reconciler

import (
	"fmt"
	"math"
	"reflect"
	"sync"
	"time"

	"neighborconnect/internal/listingerrors"
	"neighborconnect/internal/models"
	"neighborconnect/utils"
)

// NewState returns the empty state of a view bound to listingID
func NewState(listingID int64) models.AuctionViewState {
	return models.AuctionViewState{ListingID: listingID}
}

// ApplySnapshot replaces the snapshot-derived fields of state.
//
// The display price is the snapshot's last bid, or its start price when there
// is none. A snapshot never lowers a price already reached through the stream:
// a fetch that raced newer bid events keeps the newer price and leader.
// A snapshot that changes nothing returns state as is.
func ApplySnapshot(state models.AuctionViewState, snap models.ListingSnapshot, viewerID int64) (models.AuctionViewState, error) {
	if state.Terminal {
		return state, listingerrors.ErrViewTerminal
	}
	if snap.ID != state.ListingID {
		return state, fmt.Errorf("%w - snapshot %d applied to view of listing %d", listingerrors.ErrWrongListing, snap.ID, state.ListingID)
	}

	listing := snap
	next := state
	next.Listing = &listing

	price := snap.StartPrice
	var leader *int64
	if snap.LastBid != nil {
		price = snap.LastBid.Amount
		bidder := snap.LastBid.BidderID
		leader = &bidder
	}
	if !finite(price) {
		return state, fmt.Errorf("%w - snapshot %d has price %v", listingerrors.ErrDecodeFailed, snap.ID, price)
	}
	if price >= state.CurrentPrice {
		next.CurrentPrice = price
		next.LeadingBidderID = leader
	}
	next.IsWinning = isViewer(next.LeadingBidderID, viewerID)
	next.Terminal = snap.Status != models.StatusActive
	if sameView(state, next) {
		return state, nil
	}
	next.UpdatedAt = time.Now().UTC()
	return next, nil
}

// ApplyBidEvent applies ev when it belongs to the bound listing and raises the price.
// Rejected events return state unchanged with ErrViewTerminal, ErrWrongListing or ErrStaleEvent.
func ApplyBidEvent(state models.AuctionViewState, ev models.BidUpdateEvent, viewerID int64) (models.AuctionViewState, error) {
	switch {
	case state.Terminal:
		return state, listingerrors.ErrViewTerminal
	case ev.ListingID != state.ListingID:
		return state, fmt.Errorf("%w - event for listing %d on view of listing %d", listingerrors.ErrWrongListing, ev.ListingID, state.ListingID)
	case !finite(ev.Amount):
		return state, fmt.Errorf("%w - bid amount %v", listingerrors.ErrDecodeFailed, ev.Amount)
	case ev.Amount <= state.CurrentPrice:
		return state, fmt.Errorf("%w - amount %.2f does not exceed %.2f", listingerrors.ErrStaleEvent, ev.Amount, state.CurrentPrice)
	}

	next := state
	next.CurrentPrice = ev.Amount
	next.LeadingBidderID = nil
	if ev.BidderID != nil {
		bidder := *ev.BidderID
		next.LeadingBidderID = &bidder
	}
	next.IsWinning = isViewer(next.LeadingBidderID, viewerID)
	next.UpdatedAt = time.Now().UTC()
	return next, nil
}

// WithTimeRemaining sets the countdown text of a live state
func WithTimeRemaining(state models.AuctionViewState, remaining time.Duration) models.AuctionViewState {
	if state.Terminal {
		return state
	}
	state.TimeRemaining = FormatRemaining(remaining)
	return state
}

// MarkTerminal freezes state. The countdown reads "Ended".
func MarkTerminal(state models.AuctionViewState) models.AuctionViewState {
	if state.Terminal {
		return state
	}
	state.Terminal = true
	state.TimeRemaining = FormatRemaining(0)
	state.UpdatedAt = time.Now().UTC()
	return state
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// sameView reports whether a and b differ in nothing but UpdatedAt
func sameView(a, b models.AuctionViewState) bool {
	if (a.Listing == nil) != (b.Listing == nil) {
		return false
	}
	if a.Listing != nil {
		la, lb := *a.Listing, *b.Listing
		if !la.ExpiresAt.Equal(lb.ExpiresAt) {
			return false
		}
		la.ExpiresAt, lb.ExpiresAt = time.Time{}, time.Time{}
		if !reflect.DeepEqual(la, lb) {
			return false
		}
		a.Listing, b.Listing = nil, nil
	}
	a.UpdatedAt, b.UpdatedAt = time.Time{}, time.Time{}
	return reflect.DeepEqual(a, b)
}

func isViewer(leader *int64, viewerID int64) bool {
	return leader != nil && viewerID != 0 && *leader == viewerID
}

// Reconciler owns the state of one view. Writers go through ApplySnapshot and
// ApplyBidEvent; readers get copies.
type Reconciler struct {
	mu       sync.RWMutex
	viewerID int64
	state    models.AuctionViewState
}

// New creates a Reconciler for viewerID watching listingID
func New(listingID, viewerID int64) *Reconciler {
	return &Reconciler{
		viewerID: viewerID,
		state:    NewState(listingID),
	}
}

// State returns a copy of the current state
func (r *Reconciler) State() models.AuctionViewState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// ApplySnapshot merges snap and reports whether the state changed
func (r *Reconciler) ApplySnapshot(snap models.ListingSnapshot) (models.AuctionViewState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := ApplySnapshot(r.state, snap, r.viewerID)
	if err != nil {
		utils.Debug("snapshot dropped", map[string]any{"listing_id": r.state.ListingID, "reason": err.Error()})
		return r.state, false
	}
	if sameView(r.state, next) {
		return r.state, false
	}
	r.state = next
	return r.state, true
}

// ApplyBidEvent merges ev and reports whether the state changed
func (r *Reconciler) ApplyBidEvent(ev models.BidUpdateEvent) (models.AuctionViewState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := ApplyBidEvent(r.state, ev, r.viewerID)
	if err != nil {
		utils.Debug("bid event dropped", map[string]any{
			"listing_id":       r.state.ListingID,
			"event_listing_id": ev.ListingID,
			"amount":           ev.Amount,
			"reason":           err.Error(),
		})
		return r.state, false
	}
	r.state = next
	return r.state, true
}

// SetTimeRemaining updates the countdown text and reports whether it changed
func (r *Reconciler) SetTimeRemaining(remaining time.Duration) (models.AuctionViewState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := WithTimeRemaining(r.state, remaining)
	if next.TimeRemaining == r.state.TimeRemaining {
		return r.state, false
	}
	r.state = next
	return r.state, true
}

// MarkTerminal freezes the state and reports whether this call froze it
func (r *Reconciler) MarkTerminal() (models.AuctionViewState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Terminal {
		return r.state, false
	}
	r.state = MarkTerminal(r.state)
	return r.state, true
}
