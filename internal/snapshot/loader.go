package snapshot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"neighborconnect/internal/listingerrors"
	"neighborconnect/internal/models"
	"neighborconnect/utils"
)

const fetchFallbackMessage = "listing could not be loaded"

// Loader fetches the authoritative listing record from the backend.
// It performs exactly one request per call and never retries.
type Loader struct {
	baseURL string
	client  *http.Client
}

// NewLoader creates a Loader for the backend rooted at baseURL
func NewLoader(baseURL string, client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Loader{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Fetch loads the listing identified by listingID
func (l *Loader) Fetch(ctx context.Context, listingID int64) (models.ListingSnapshot, error) {
	endpoint := l.baseURL + "/listing?" + url.Values{"id": {strconv.FormatInt(listingID, 10)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.ListingSnapshot{}, fmt.Errorf("snapshot: %w - build request: %v", listingerrors.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		return models.ListingSnapshot{}, fmt.Errorf("snapshot: %w - listing %d: %w", listingerrors.ErrFetchFailed, listingID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.ListingSnapshot{}, &listingerrors.RemoteError{
			Op:      fmt.Sprintf("snapshot: fetch listing %d", listingID),
			Status:  resp.StatusCode,
			Message: utils.ReadErrorMessage(resp, fetchFallbackMessage),
			Kind:    listingerrors.ErrFetchFailed,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ListingSnapshot{}, fmt.Errorf("snapshot: %w - read listing %d: %w", listingerrors.ErrFetchFailed, listingID, err)
	}

	snap, err := Decode(body)
	if err != nil {
		return models.ListingSnapshot{}, fmt.Errorf("snapshot: listing %d: %w", listingID, err)
	}

	utils.Debug("snapshot fetched", map[string]any{
		"listing_id": listingID,
		"status":     snap.Status,
		"latency":    time.Since(start).String(),
	})
	return snap, nil
}
