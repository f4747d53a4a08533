package models

import "time"

// ListingStatus is the lifecycle status reported by the backend for a listing
type ListingStatus string

const (
	StatusActive ListingStatus = "active"
	StatusEnded  ListingStatus = "ended"
	StatusSold   ListingStatus = "sold"
)

// Seller is the user offering a listing
type Seller struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Category groups listings in the marketplace
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Photo references an uploaded listing image
type Photo struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// LastBid is the highest bid known to the backend when a snapshot was taken
type LastBid struct {
	Amount   float64 `json:"bid_ammount"`
	BidderID int64   `json:"users_id"`
}

// ListingSnapshot is the authoritative listing record returned by one fetch.
// A newer fetch replaces it wholesale.
type ListingSnapshot struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	StartPrice  float64       `json:"start_price"`
	BuyNowPrice float64       `json:"buy_now_price"`
	ExpiresAt   time.Time     `json:"expiration_date"`
	Status      ListingStatus `json:"status"`
	Seller      Seller        `json:"seller"`
	Category    Category      `json:"category"`
	Photos      []Photo       `json:"photos"`
	LastBid     *LastBid      `json:"last_bid"`
}

// BidUpdateEvent is a normalized bid message received on the listing's live channel
type BidUpdateEvent struct {
	BidID     *int64  `json:"id,omitempty"`
	Amount    float64 `json:"bid_ammount"`
	BidderID  *int64  `json:"users_id,omitempty"`
	ListingID int64   `json:"listing_id"`
}

// AuctionViewState is the derived auction state read by the presentation layer
type AuctionViewState struct {
	ListingID       int64            `json:"listing_id"`
	Listing         *ListingSnapshot `json:"listing,omitempty"`
	CurrentPrice    float64          `json:"current_price"`
	LeadingBidderID *int64           `json:"leading_bidder_id"`
	IsWinning       bool             `json:"is_winning"`
	TimeRemaining   string           `json:"time_remaining"`
	Terminal        bool             `json:"terminal"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// BidRequest is the payload submitted to the backend when placing a bid
type BidRequest struct {
	Amount    float64 `json:"bid_ammount"`
	BidderID  int64   `json:"users_id"`
	ListingID int64   `json:"listing_id"`
}

// BuyRequest is the payload submitted to the backend for an immediate purchase
type BuyRequest struct {
	ListingID int64 `json:"listing_id"`
	BuyerID   int64 `json:"users_id"`
}

// ViewSummary identifies a mounted view and carries its latest state
type ViewSummary struct {
	ViewID   string           `json:"view_id"`
	ViewerID int64            `json:"viewer_id"`
	State    AuctionViewState `json:"state"`
}
