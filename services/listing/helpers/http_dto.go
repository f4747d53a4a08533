package helpers

import model "neighborconnect/internal/models"

// Request/Response DTOs
type OpenViewRequest struct {
	ListingID int64 `json:"listing_id" binding:"required,gt=0"`
	ViewerID  int64 `json:"viewer_id" binding:"gte=0"`
}

type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type ViewResponse struct {
	ViewID   string                 `json:"view_id"`
	ViewerID int64                  `json:"viewer_id"`
	State    model.AuctionViewState `json:"state"`
}

type BidResponse struct {
	ListingID int64   `json:"listing_id"`
	BidderID  int64   `json:"users_id"`
	Amount    float64 `json:"amount"`
}

type PurchaseResponse struct {
	ListingID int64 `json:"listing_id"`
	BuyerID   int64 `json:"users_id"`
}

// NewViewResponse converts a view summary to its HTTP shape
func NewViewResponse(summary model.ViewSummary) ViewResponse {
	return ViewResponse{
		ViewID:   summary.ViewID,
		ViewerID: summary.ViewerID,
		State:    summary.State,
	}
}
