package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"neighborconnect/internal/listingerrors"
	"neighborconnect/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, listingerrors.ErrViewNotFound):
		return http.StatusNotFound, "view not found"
	case errors.Is(err, listingerrors.ErrFetchFailed):
		if listingerrors.StatusOf(err) == http.StatusNotFound {
			return http.StatusNotFound, "listing not found"
		}
		return http.StatusBadGateway, "listing could not be loaded"
	case errors.Is(err, listingerrors.ErrDecodeFailed):
		return http.StatusBadGateway, "listing payload is malformed"
	case errors.Is(err, listingerrors.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid view request"
	case errors.Is(err, listingerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, listingerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, listingerrors.ErrAuctionEnded):
		return http.StatusConflict, "auction has ended"
	case errors.Is(err, listingerrors.ErrBidRejected):
		return http.StatusUnprocessableEntity, remoteMessage(err, "bid rejected")
	case errors.Is(err, listingerrors.ErrPurchaseRejected):
		return http.StatusUnprocessableEntity, remoteMessage(err, "purchase rejected")
	case errors.Is(err, listingerrors.ErrRateLimited):
		return http.StatusTooManyRequests, "too many requests"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// remoteMessage surfaces the backend's own explanation when one was sent
func remoteMessage(err error, fallback string) string {
	var remote *listingerrors.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return fallback
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
