package handler

//go:generate mockgen -source=listing_handler.go -destination=mock_listing_handler.go -package=handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	model "neighborconnect/internal/models"
	"neighborconnect/services/listing/helpers"
	"neighborconnect/utils"

	"github.com/gin-gonic/gin"
)

type ListingServiceInterface interface {
	OpenView(ctx context.Context, listingID, viewerID int64) (model.ViewSummary, error)
	GetView(viewID string) (model.ViewSummary, error)
	ListViews(listingID int64) ([]model.ViewSummary, error)
	CloseView(viewID string) error
	Subscribe(viewID string) (<-chan model.AuctionViewState, <-chan struct{}, func(), error)
	PlaceBid(ctx context.Context, viewID string, amount float64) (model.BidRequest, error)
	BuyNow(ctx context.Context, viewID string) (model.BuyRequest, error)
}

type ListingHandler struct {
	service ListingServiceInterface
}

func NewListingHandler(service ListingServiceInterface) *ListingHandler {
	return &ListingHandler{service: service}
}

// OpenViewHandler handles POST /views
func (h *ListingHandler) OpenViewHandler(c *gin.Context) {
	var req helpers.OpenViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "OpenViewHandler", err)
		return
	}

	summary, err := h.service.OpenView(c.Request.Context(), req.ListingID, req.ViewerID)
	if err != nil {
		h.fail(c, "OpenViewHandler", "failed to open view", err, map[string]any{
			"listing_id": req.ListingID,
			"viewer_id":  req.ViewerID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewViewResponse(summary), "view opened successfully")
	helpers.LogSuccess("OpenViewHandler", "view opened successfully", map[string]any{
		"view_id":       summary.ViewID,
		"listing_id":    req.ListingID,
		"viewer_id":     req.ViewerID,
		"current_price": summary.State.CurrentPrice,
		"terminal":      summary.State.Terminal,
	})
}

// GetViewHandler handles GET /views/:view_id
func (h *ListingHandler) GetViewHandler(c *gin.Context) {
	viewID := c.Param("view_id")
	summary, err := h.service.GetView(viewID)
	if err != nil {
		h.fail(c, "GetViewHandler", "error retrieving view", err, map[string]any{"view_id": viewID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewViewResponse(summary), "view retrieved successfully")
}

// ListViewsHandler handles GET /listings/:listing_id/views
func (h *ListingHandler) ListViewsHandler(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("listing_id"), 10, 64)
	if err != nil || listingID <= 0 {
		utils.JSONError(c, http.StatusBadRequest, fmt.Errorf("invalid listing id: %q", c.Param("listing_id")), "invalid listing id")
		utils.Warn("ListViewsHandler: invalid listing id", map[string]any{"listing_id": c.Param("listing_id")})
		return
	}

	summaries, err := h.service.ListViews(listingID)
	if err != nil {
		h.fail(c, "ListViewsHandler", "error listing views", err, map[string]any{"listing_id": listingID})
		return
	}

	resp := make([]helpers.ViewResponse, 0, len(summaries))
	for _, summary := range summaries {
		resp = append(resp, helpers.NewViewResponse(summary))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "views retrieved successfully")
	helpers.LogSuccess("ListViewsHandler", "views retrieved successfully", map[string]any{
		"listing_id": listingID,
		"count":      len(resp),
	})
}

// CloseViewHandler handles DELETE /views/:view_id
func (h *ListingHandler) CloseViewHandler(c *gin.Context) {
	viewID := c.Param("view_id")
	if err := h.service.CloseView(viewID); err != nil {
		h.fail(c, "CloseViewHandler", "error closing view", err, map[string]any{"view_id": viewID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"view_id": viewID}, "view closed successfully")
	helpers.LogSuccess("CloseViewHandler", "view closed successfully", map[string]any{"view_id": viewID})
}

// StreamViewHandler handles GET /views/:view_id/events. Each state change is
// sent as a "state" event; the stream ends after the terminal state.
func (h *ListingHandler) StreamViewHandler(c *gin.Context) {
	viewID := c.Param("view_id")
	updates, done, cancel, err := h.service.Subscribe(viewID)
	if err != nil {
		h.fail(c, "StreamViewHandler", "error subscribing to view", err, map[string]any{"view_id": viewID})
		return
	}
	defer cancel()

	sent := 0
	c.Stream(func(w io.Writer) bool {
		select {
		case state, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("state", state)
			sent++
			return !state.Terminal
		case <-done:
			select {
			case state, ok := <-updates:
				if ok {
					c.SSEvent("state", state)
					sent++
				}
			default:
			}
			return false
		case <-c.Request.Context().Done():
			return false
		}
	})

	helpers.LogSuccess("StreamViewHandler", "event stream finished", map[string]any{
		"view_id": viewID,
		"events":  sent,
	})
}

// PlaceBidHandler handles POST /views/:view_id/bids
func (h *ListingHandler) PlaceBidHandler(c *gin.Context) {
	viewID := c.Param("view_id")
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), viewID, req.Amount)
	if err != nil {
		h.fail(c, "PlaceBidHandler", "failed to place bid", err, map[string]any{
			"view_id": viewID,
			"amount":  req.Amount,
		})
		return
	}

	resp := helpers.BidResponse{
		ListingID: bid.ListingID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount,
	}

	utils.JSONResponse(c, http.StatusAccepted, resp, "bid submitted successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid submitted successfully", map[string]any{
		"view_id":    viewID,
		"listing_id": bid.ListingID,
		"users_id":   bid.BidderID,
		"amount":     bid.Amount,
	})
}

// BuyNowHandler handles POST /views/:view_id/buy
func (h *ListingHandler) BuyNowHandler(c *gin.Context) {
	viewID := c.Param("view_id")
	purchase, err := h.service.BuyNow(c.Request.Context(), viewID)
	if err != nil {
		h.fail(c, "BuyNowHandler", "failed to buy listing", err, map[string]any{"view_id": viewID})
		return
	}

	resp := helpers.PurchaseResponse{
		ListingID: purchase.ListingID,
		BuyerID:   purchase.BuyerID,
	}

	utils.JSONResponse(c, http.StatusAccepted, resp, "purchase submitted successfully")
	helpers.LogSuccess("BuyNowHandler", "purchase submitted successfully", map[string]any{
		"view_id":    viewID,
		"listing_id": purchase.ListingID,
		"users_id":   purchase.BuyerID,
	})
}

func (h *ListingHandler) fail(c *gin.Context, handlerName, logMessage string, err error, fields map[string]any) {
	status, message := helpers.MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+logMessage, fields)
		return
	}
	utils.Warn(handlerName+": "+logMessage, fields)
}
