package listing

//go:generate mockgen -source=listing_service.go -destination=mock_marketplace.go -package=listing

import (
	"context"
	"errors"
	"fmt"

	"neighborconnect/internal/listingerrors"
	"neighborconnect/internal/liveview"
	"neighborconnect/internal/models"
	"neighborconnect/internal/repository"
	"neighborconnect/utils"
)

// Marketplace submits bids and purchases to the listing backend
type Marketplace interface {
	PlaceBid(ctx context.Context, req models.BidRequest) error
	Buy(ctx context.Context, req models.BuyRequest) error
}

// MountFunc mounts a live view for a listing on behalf of a viewer
type MountFunc func(ctx context.Context, listingID, viewerID int64, cb liveview.Callbacks) (repository.LiveView, error)

// NewControllerMounter adapts a liveview.Mounter to a MountFunc
func NewControllerMounter(m *liveview.Mounter) MountFunc {
	return func(ctx context.Context, listingID, viewerID int64, cb liveview.Callbacks) (repository.LiveView, error) {
		c, err := m.Mount(ctx, listingID, viewerID, cb)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// ListingService hosts live listing views and forwards viewer actions to the backend
type ListingService struct {
	repo   repository.ViewStore
	mount  MountFunc
	market Marketplace
}

// NewListingService creates a new ListingService instance
func NewListingService(repo repository.ViewStore, mount MountFunc, market Marketplace) *ListingService {
	return &ListingService{
		repo:   repo,
		mount:  mount,
		market: market,
	}
}

// OpenView mounts and registers a view of listingID. An expired view is
// unregistered and closed on its own; ended or sold views stay readable
// until the viewer closes them.
func (s *ListingService) OpenView(ctx context.Context, listingID, viewerID int64) (models.ViewSummary, error) {
	if listingID <= 0 {
		return models.ViewSummary{}, fmt.Errorf("service: %w - listing id must be positive", listingerrors.ErrInvalidRequest)
	}
	if viewerID < 0 {
		return models.ViewSummary{}, fmt.Errorf("service: %w - negative viewer id", listingerrors.ErrInvalidRequest)
	}

	var viewID string
	registered := make(chan struct{})

	cb := liveview.Callbacks{
		OnExpire: func(state models.AuctionViewState) {
			<-registered
			if viewID == "" {
				return
			}
			utils.Info("Listing expired, releasing view", map[string]any{
				"view_id":    viewID,
				"listing_id": state.ListingID,
			})
			s.release(viewID)
		},
		OnError: func(err error) {
			utils.Warn("Live view degraded", map[string]any{
				"listing_id": listingID,
				"error":      err.Error(),
			})
		},
		OnTerminal: func(state models.AuctionViewState) {
			utils.Info("Listing reached terminal state", map[string]any{
				"listing_id":    state.ListingID,
				"current_price": state.CurrentPrice,
			})
		},
	}

	view, err := s.mount(ctx, listingID, viewerID, cb)
	if err != nil {
		close(registered)
		return models.ViewSummary{}, fmt.Errorf("service: failed to open view of listing %d: %w", listingID, err)
	}

	if err := s.repo.SaveView(view); err != nil {
		close(registered)
		view.Close()
		return models.ViewSummary{}, fmt.Errorf("service: failed to register view of listing %d: %w", listingID, err)
	}
	viewID = view.ID()
	close(registered)

	return summarize(view), nil
}

// GetView returns the latest state of a registered view
func (s *ListingService) GetView(viewID string) (models.ViewSummary, error) {
	view, err := s.lookup(viewID)
	if err != nil {
		return models.ViewSummary{}, err
	}
	return summarize(view), nil
}

// ListViews returns every view mounted on a listing
func (s *ListingService) ListViews(listingID int64) ([]models.ViewSummary, error) {
	views, err := s.repo.GetViewsByListing(listingID)
	if err != nil {
		if errors.Is(err, listingerrors.ErrViewNotFound) {
			return []models.ViewSummary{}, nil
		}
		return nil, fmt.Errorf("service: failed to list views of listing %d: %w", listingID, err)
	}

	summaries := make([]models.ViewSummary, 0, len(views))
	for _, view := range views {
		summaries = append(summaries, summarize(view))
	}
	return summaries, nil
}

// CloseView unregisters a view and releases its resources
func (s *ListingService) CloseView(viewID string) error {
	if viewID == "" {
		return fmt.Errorf("service: %w - empty view ID", listingerrors.ErrViewNotFound)
	}

	view, err := s.repo.DeleteView(viewID)
	if err != nil {
		return fmt.Errorf("service: failed to close view %s: %w", viewID, err)
	}
	view.Close()
	return nil
}

// Subscribe returns a latest-wins feed of state changes for a view along
// with the view's done channel
func (s *ListingService) Subscribe(viewID string) (<-chan models.AuctionViewState, <-chan struct{}, func(), error) {
	view, err := s.lookup(viewID)
	if err != nil {
		return nil, nil, nil, err
	}
	updates, cancel := view.Subscribe()
	return updates, view.Done(), cancel, nil
}

// PlaceBid validates a bid against the view's state and submits it. The
// accepted bid reaches the view through its stream.
func (s *ListingService) PlaceBid(ctx context.Context, viewID string, amount float64) (models.BidRequest, error) {
	if amount <= 0 {
		return models.BidRequest{}, fmt.Errorf("service: %w - non-positive bid amount", listingerrors.ErrInvalidBid)
	}

	view, err := s.lookup(viewID)
	if err != nil {
		return models.BidRequest{}, err
	}
	if view.ViewerID() <= 0 {
		return models.BidRequest{}, fmt.Errorf("service: %w - anonymous viewers cannot bid", listingerrors.ErrInvalidBid)
	}

	state := view.State()
	if state.Terminal {
		return models.BidRequest{}, fmt.Errorf("service: %w - listing %d", listingerrors.ErrAuctionEnded, state.ListingID)
	}
	if amount <= state.CurrentPrice {
		return models.BidRequest{}, fmt.Errorf("service: %w - current price is %.2f", listingerrors.ErrBidTooLow, state.CurrentPrice)
	}

	req := models.BidRequest{
		Amount:    amount,
		BidderID:  view.ViewerID(),
		ListingID: view.ListingID(),
	}
	if err := s.market.PlaceBid(ctx, req); err != nil {
		return models.BidRequest{}, fmt.Errorf("service: failed to place bid on listing %d: %w", req.ListingID, err)
	}

	return req, nil
}

// BuyNow submits an immediate purchase of the view's listing
func (s *ListingService) BuyNow(ctx context.Context, viewID string) (models.BuyRequest, error) {
	view, err := s.lookup(viewID)
	if err != nil {
		return models.BuyRequest{}, err
	}
	if view.ViewerID() <= 0 {
		return models.BuyRequest{}, fmt.Errorf("service: %w - anonymous viewers cannot buy", listingerrors.ErrInvalidBid)
	}

	state := view.State()
	if state.Terminal {
		return models.BuyRequest{}, fmt.Errorf("service: %w - listing %d", listingerrors.ErrAuctionEnded, state.ListingID)
	}

	req := models.BuyRequest{
		ListingID: view.ListingID(),
		BuyerID:   view.ViewerID(),
	}
	if err := s.market.Buy(ctx, req); err != nil {
		return models.BuyRequest{}, fmt.Errorf("service: failed to buy listing %d: %w", req.ListingID, err)
	}

	return req, nil
}

func (s *ListingService) lookup(viewID string) (repository.LiveView, error) {
	if viewID == "" {
		return nil, fmt.Errorf("service: %w - empty view ID", listingerrors.ErrViewNotFound)
	}
	view, err := s.repo.GetView(viewID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get view %s: %w", viewID, err)
	}
	return view, nil
}

func (s *ListingService) release(viewID string) {
	view, err := s.repo.DeleteView(viewID)
	if err != nil {
		if !errors.Is(err, listingerrors.ErrViewNotFound) {
			utils.Error("Failed to release view", map[string]any{
				"view_id": viewID,
				"error":   err.Error(),
			})
		}
		return
	}
	view.Close()
}

func summarize(view repository.LiveView) models.ViewSummary {
	return models.ViewSummary{
		ViewID:   view.ID(),
		ViewerID: view.ViewerID(),
		State:    view.State(),
	}
}
