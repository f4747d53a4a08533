package integrationtests

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	sellerID = 1
	aliceID  = 7
	bobID    = 8
)

func activeListing(id int64, expiresIn time.Duration) fakeListing {
	return fakeListing{
		ID:          id,
		Title:       fmt.Sprintf("listing %d", id),
		SellerID:    sellerID,
		StartPrice:  100,
		BuyNowPrice: 500,
		ExpiresAt:   time.Now().Add(expiresIn),
		Status:      "active",
	}
}

// Test opening a view and reading its state
func TestOpenView(t *testing.T) {
	t.Parallel()
	backendSrv := newFakeBackend(t, activeListing(42, time.Hour))
	stack := SetupTestStack(t, backendSrv)

	viewID, state := openView(t, stack.router, 42, aliceID)
	require.NotEmpty(t, viewID)
	require.Equal(t, 100.0, state["current_price"])
	require.Nil(t, state["leading_bidder_id"])
	require.Equal(t, false, state["is_winning"])
	require.Equal(t, false, state["terminal"])
	require.NotEmpty(t, state["time_remaining"])

	listingData := state["listing"].(map[string]any)
	require.Equal(t, "listing 42", listingData["title"])
	require.Equal(t, 500.0, listingData["buy_now_price"])

	require.Eventually(t, func() bool { return backendSrv.subscribers(42) == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, w := ExecuteRequestAndParse(t, stack.router, http.MethodGet, "/listings/42/views", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 1)

	resp, w = ExecuteRequestAndParse(t, stack.router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1.0, resp["data"].(map[string]any)["open_views"])
}

// Unknown listings and already ended listings
func TestOpenView_Failures(t *testing.T) {
	t.Parallel()
	ended := activeListing(43, -time.Minute)
	ended.Status = "ended"
	backendSrv := newFakeBackend(t, ended)
	stack := SetupTestStack(t, backendSrv)

	resp, w := ExecuteRequestAndParse(t, stack.router, http.MethodPost, "/views", map[string]any{"listing_id": 999, "viewer_id": aliceID})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "listing not found", resp["message"])
	require.Equal(t, 0, stack.repo.Count())

	resp, w = ExecuteRequestAndParse(t, stack.router, http.MethodPost, "/views", []byte(`{"viewer_id": 7}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid request payload", resp["message"])

	// an ended listing mounts as a terminal view
	viewID, state := openView(t, stack.router, 43, aliceID)
	require.Equal(t, true, state["terminal"])

	resp, w = ExecuteRequestAndParse(t, stack.router, http.MethodPost, "/views/"+viewID+"/bids", map[string]any{"amount": 150})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "auction has ended", resp["message"])
}

// Bids placed through the API reach every view on the listing through the stream
func TestPlaceBid_PropagatesToViews(t *testing.T) {
	t.Parallel()
	backendSrv := newFakeBackend(t, activeListing(42, time.Hour))
	stack := SetupTestStack(t, backendSrv)

	aliceView, _ := openView(t, stack.router, 42, aliceID)
	bobView, _ := openView(t, stack.router, 42, bobID)
	require.Eventually(t, func() bool { return backendSrv.subscribers(42) == 2 }, 2*time.Second, 10*time.Millisecond)

	resp, w := ExecuteRequestAndParse(t, stack.router, http.MethodPost, "/views/"+aliceView+"/bids", map[string]any{"amount": 120})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	require.Equal(t, 120.0, resp["data"].(map[string]any)["amount"])

	require.Eventually(t, func() bool {
		state := viewState(t, stack.router, aliceView)
		return state != nil && state["current_price"] == 120.0 && state["is_winning"] == true
	}, 2*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		state := viewState(t, stack.router, bobView)
		return state != nil && state["current_price"] == 120.0 && state["is_winning"] == false && state["leading_bidder_id"] == float64(aliceID)
	}, 2*time.Second, 20*time.Millisecond)

	// bob outbids alice
	_, w = ExecuteRequestAndParse(t, stack.router, http.MethodPost, "/views/"+bobView+"/bids", map[string]any{"amount": 130.5})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	require.Eventually(t, func() bool {
		state := viewState(t, stack.router, aliceView)
		return state != nil && state["current_price"] == 130.5 && state["is_winning"] == false
	}, 2*time.Second, 20*time.Millisecond)
}

// Local and backend bid validation
func TestPlaceBid_Rejections(t *testing.T) {
	t.Parallel()
	backendSrv := newFakeBackend(t, activeListing(42, time.Hour))
	stack := SetupTestStack(t, backendSrv)

	aliceView, _ := openView(t, stack.router, 42, aliceID)
	sellerView, _ := openView(t, stack.router, 42, sellerID)
	anonView, _ := openView(t, stack.router, 42, 0)

	tests := []struct {
		name           string
		viewID         string
		body           any
		expectedStatus int
		expectedMsg    string
	}{
		{name: "equal_to_price", viewID: aliceView, body: map[string]any{"amount": 100}, expectedStatus: http.StatusConflict, expectedMsg: "bid amount too low"},
		{name: "below_price", viewID: aliceView, body: map[string]any{"amount": 50}, expectedStatus: http.StatusConflict, expectedMsg: "bid amount too low"},
		{name: "zero_amount", viewID: aliceView, body: map[string]any{"amount": 0}, expectedStatus: http.StatusBadRequest, expectedMsg: "invalid request payload"},
		{name: "anonymous_viewer", viewID: anonView, body: map[string]any{"amount": 150}, expectedStatus: http.StatusBadRequest, expectedMsg: "invalid bid details"},
		{name: "seller_bids_on_own_listing", viewID: sellerView, body: map[string]any{"amount": 150}, expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "You cannot bid on your own listing"},
		{name: "unknown_view", viewID: "missing", body: map[string]any{"amount": 150}, expectedStatus: http.StatusNotFound, expectedMsg: "view not found"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			resp, w := ExecuteRequestAndParse(t, stack.router, http.MethodPost, "/views/"+tc.viewID+"/bids", tc.body)
			require.Equal(t, tc.expectedStatus, w.Code, w.Body.String())
			require.Equal(t, tc.expectedMsg, resp["message"])
		})
	}

	state := viewState(t, stack.router, aliceView)
	require.Equal(t, 100.0, state["current_price"])
}

// Stale and duplicate channel messages never lower the price
func TestStream_DropsStaleBids(t *testing.T) {
	t.Parallel()
	backendSrv := newFakeBackend(t, activeListing(42, time.Hour))
	stack := SetupTestStack(t, backendSrv)

	viewID, _ := openView(t, stack.router, 42, aliceID)
	require.Eventually(t, func() bool { return backendSrv.subscribers(42) == 1 }, 2*time.Second, 10*time.Millisecond)

	backendSrv.pushBid(42, 150, bobID)
	backendSrv.pushBid(42, 140, aliceID)
	backendSrv.pushBid(42, 150, aliceID)
	backendSrv.pushBid(43, 900, aliceID)

	require.Eventually(t, func() bool {
		state := viewState(t, stack.router, viewID)
		return state != nil && state["current_price"] == 150.0
	}, 2*time.Second, 20*time.Millisecond)

	require.Never(t, func() bool {
		state := viewState(t, stack.router, viewID)
		return state == nil || state["current_price"] != 150.0 || state["is_winning"] == true
	}, 300*time.Millisecond, 20*time.Millisecond)
}

// Buy-now makes the view terminal through the snapshot refresh
func TestBuyNow(t *testing.T) {
	t.Parallel()
	backendSrv := newFakeBackend(t, activeListing(42, time.Hour))
	stack := SetupTestStack(t, backendSrv)

	viewID, _ := openView(t, stack.router, 42, aliceID)

	resp, w := ExecuteRequestAndParse(t, stack.router, http.MethodPost, "/views/"+viewID+"/buy", nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	require.Equal(t, 42.0, resp["data"].(map[string]any)["listing_id"])

	require.Eventually(t, func() bool {
		state := viewState(t, stack.router, viewID)
		return state != nil && state["terminal"] == true
	}, 2*time.Second, 20*time.Millisecond)

	state := viewState(t, stack.router, viewID)
	require.Equal(t, "sold", state["listing"].(map[string]any)["status"])

	// the bid channel is released once terminal
	require.Eventually(t, func() bool { return backendSrv.subscribers(42) == 0 }, 2*time.Second, 10*time.Millisecond)

	resp, w = ExecuteRequestAndParse(t, stack.router, http.MethodPost, "/views/"+viewID+"/buy", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "auction has ended", resp["message"])

	_, w = ExecuteRequestAndParse(t, stack.router, http.MethodDelete, "/views/"+viewID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, w = ExecuteRequestAndParse(t, stack.router, http.MethodGet, "/views/"+viewID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

// Expired views are released by the host
func TestExpiry_ReleasesView(t *testing.T) {
	t.Parallel()
	backendSrv := newFakeBackend(t, activeListing(42, 300*time.Millisecond))
	stack := SetupTestStack(t, backendSrv)

	viewID, state := openView(t, stack.router, 42, aliceID)
	require.Equal(t, false, state["terminal"])

	require.Eventually(t, func() bool {
		_, w := ExecuteRequestAndParse(t, stack.router, http.MethodGet, "/views/"+viewID, nil)
		return w.Code == http.StatusNotFound
	}, 3*time.Second, 20*time.Millisecond)

	require.Equal(t, 0, stack.repo.Count())
	require.Eventually(t, func() bool { return backendSrv.subscribers(42) == 0 }, 2*time.Second, 10*time.Millisecond)
}

// The event stream pushes every state change and ends with the terminal state
func TestEventStream(t *testing.T) {
	t.Parallel()
	backendSrv := newFakeBackend(t, activeListing(42, time.Hour))
	stack := SetupTestStack(t, backendSrv)

	viewID, _ := openView(t, stack.router, 42, aliceID)
	require.Eventually(t, func() bool { return backendSrv.subscribers(42) == 1 }, 2*time.Second, 10*time.Millisecond)

	api := httptest.NewServer(stack.router)
	defer api.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, api.URL+"/views/"+viewID+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	states := make(chan map[string]any, 16)
	go func() {
		defer close(states)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			var state map[string]any
			if json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &state) == nil {
				states <- state
			}
		}
	}()

	first := <-states
	require.Equal(t, 100.0, first["current_price"])

	_, w := ExecuteRequestAndParse(t, stack.router, http.MethodPost, "/views/"+viewID+"/bids", map[string]any{"amount": 175})
	require.Equal(t, http.StatusAccepted, w.Code)
	_, w = ExecuteRequestAndParse(t, stack.router, http.MethodPost, "/views/"+viewID+"/buy", nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	var last map[string]any
	for state := range states {
		last = state
	}
	require.NotNil(t, last)
	require.Equal(t, true, last["terminal"])
	require.Equal(t, 175.0, last["current_price"])
	require.Equal(t, true, last["is_winning"])
}
