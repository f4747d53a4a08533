package backend

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"neighborconnect/internal/codec"
	"neighborconnect/internal/listingerrors"
	"neighborconnect/internal/models"
	"neighborconnect/utils"

	"golang.org/x/time/rate"
)

// Client submits marketplace actions (bids, buy-now) to the backend.
// Outbound calls share one token bucket so a burst of clicks cannot flood the API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client. A non-positive requestsPerSecond disables limiting.
func NewClient(baseURL string, httpClient *http.Client, requestsPerSecond float64, burst int) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// PlaceBid submits a bid. A non-2xx answer (bid too low, auction over) is an
// ErrBidRejected RemoteError carrying the backend's message.
func (c *Client) PlaceBid(ctx context.Context, req models.BidRequest) error {
	err := c.post(ctx, "/bid/", req, listingerrors.ErrBidRejected)
	if err != nil {
		return fmt.Errorf("backend: place bid on listing %d: %w", req.ListingID, err)
	}
	utils.Info("bid submitted", map[string]any{
		"listing_id": req.ListingID,
		"users_id":   req.BidderID,
		"amount":     req.Amount,
	})
	return nil
}

// Buy requests an immediate purchase. A non-2xx answer is an ErrPurchaseRejected RemoteError.
func (c *Client) Buy(ctx context.Context, req models.BuyRequest) error {
	err := c.post(ctx, "/buy/", req, listingerrors.ErrPurchaseRejected)
	if err != nil {
		return fmt.Errorf("backend: buy listing %d: %w", req.ListingID, err)
	}
	utils.Info("purchase submitted", map[string]any{
		"listing_id": req.ListingID,
		"users_id":   req.BuyerID,
	})
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any, rejected error) error {
	if !c.limiter.Allow() {
		return listingerrors.ErrRateLimited
	}

	body, err := codec.JSON.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &listingerrors.RemoteError{
			Op:      "POST " + path,
			Status:  resp.StatusCode,
			Message: utils.ReadErrorMessage(resp, http.StatusText(resp.StatusCode)),
			Kind:    rejected,
		}
	}
	return nil
}
