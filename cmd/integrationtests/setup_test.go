package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"neighborconnect/internal/backend"
	"neighborconnect/internal/bidstream"
	listing "neighborconnect/internal/listingService"
	"neighborconnect/internal/liveview"
	"neighborconnect/internal/repository"
	"neighborconnect/internal/server"
	"neighborconnect/internal/snapshot"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// fakeListing is the backend's record of one listing
type fakeListing struct {
	ID          int64
	Title       string
	SellerID    int64
	StartPrice  float64
	BuyNowPrice float64
	ExpiresAt   time.Time
	Status      string
	LastAmount  float64
	LastBidder  int64
	HasBid      bool
}

// fakeBackend serves the listing, bid and buy endpoints plus the bid channel
type fakeBackend struct {
	mu       sync.Mutex
	listings map[int64]*fakeListing
	conns    map[int64][]*websocket.Conn
	nextBid  int64
	server   *httptest.Server
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func newFakeBackend(t *testing.T, listings ...fakeListing) *fakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &fakeBackend{
		listings: make(map[int64]*fakeListing),
		conns:    make(map[int64][]*websocket.Conn),
	}
	for i := range listings {
		l := listings[i]
		b.listings[l.ID] = &l
	}

	router := gin.New()
	router.GET("/listing", b.getListing)
	router.GET("/ws/bids/:listing_id", b.bidChannel)
	router.POST("/bid/", b.placeBid)
	router.POST("/buy/", b.buy)

	b.server = httptest.NewServer(router)
	t.Cleanup(func() {
		b.mu.Lock()
		for _, conns := range b.conns {
			for _, conn := range conns {
				conn.Close()
			}
		}
		b.mu.Unlock()
		b.server.Close()
	})
	return b
}

func (b *fakeBackend) baseURL() string {
	return b.server.URL
}

func (b *fakeBackend) streamTemplate() string {
	return "ws" + strings.TrimPrefix(b.server.URL, "http") + "/ws/bids/{listing_id}"
}

func (b *fakeBackend) getListing(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Query("id"), 10, 64)

	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.listings[id]
	if !ok {
		c.String(http.StatusNotFound, "Listing not found")
		return
	}

	body := gin.H{
		"id":              l.ID,
		"title":           l.Title,
		"description":     "integration listing",
		"start_price":     strconv.FormatFloat(l.StartPrice, 'f', 2, 64),
		"buy_now_price":   strconv.FormatFloat(l.BuyNowPrice, 'f', 2, 64),
		"expiration_date": l.ExpiresAt.UTC().Format(time.RFC3339Nano),
		"status":          l.Status,
		"seller":          gin.H{"id": l.SellerID, "name": "seller"},
		"category":        gin.H{"id": 1, "name": "furniture"},
		"photos":          []gin.H{{"id": 1, "url": "/media/1.jpg"}},
		"last_bid":        nil,
	}
	if l.HasBid {
		body["last_bid"] = gin.H{"bid_ammount": strconv.FormatFloat(l.LastAmount, 'f', 2, 64), "users_id": l.LastBidder}
	}
	c.JSON(http.StatusOK, body)
}

func (b *fakeBackend) bidChannel(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("listing_id"), 10, 64)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	b.mu.Lock()
	b.conns[id] = append(b.conns[id], conn)
	b.mu.Unlock()

	// drain control frames until the client goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	b.mu.Lock()
	conns := b.conns[id]
	for i, other := range conns {
		if other == conn {
			b.conns[id] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	b.mu.Unlock()
	conn.Close()
}

func (b *fakeBackend) placeBid(c *gin.Context) {
	var req struct {
		Amount    float64 `json:"bid_ammount"`
		UserID    int64   `json:"users_id"`
		ListingID int64   `json:"listing_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Malformed bid")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.listings[req.ListingID]
	switch {
	case !ok:
		c.String(http.StatusNotFound, "Listing not found")
		return
	case l.Status != "active":
		c.String(http.StatusBadRequest, "Listing is no longer active")
		return
	case req.UserID == l.SellerID:
		c.String(http.StatusBadRequest, "You cannot bid on your own listing")
		return
	case req.Amount <= l.StartPrice || (l.HasBid && req.Amount <= l.LastAmount):
		c.String(http.StatusBadRequest, "Bid must exceed the current price")
		return
	}

	l.HasBid = true
	l.LastAmount = req.Amount
	l.LastBidder = req.UserID
	b.nextBid++
	b.broadcastLocked(req.ListingID, gin.H{
		"id":          b.nextBid,
		"bid_ammount": strconv.FormatFloat(req.Amount, 'f', 2, 64),
		"users_id":    req.UserID,
		"listing_id":  req.ListingID,
	})
	c.JSON(http.StatusCreated, gin.H{"id": b.nextBid})
}

func (b *fakeBackend) buy(c *gin.Context) {
	var req struct {
		ListingID int64 `json:"listing_id"`
		UserID    int64 `json:"users_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Malformed purchase")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.listings[req.ListingID]
	if !ok || l.Status != "active" {
		c.String(http.StatusBadRequest, "Listing is not available")
		return
	}
	l.Status = "sold"
	c.JSON(http.StatusOK, gin.H{"listing_id": req.ListingID})
}

// pushBid broadcasts a bid without touching the stored listing, as a
// backend that lags its own REST view would
func (b *fakeBackend) pushBid(listingID int64, amount float64, userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextBid++
	b.broadcastLocked(listingID, gin.H{
		"id":          b.nextBid,
		"bid_ammount": amount,
		"users_id":    userID,
		"listing_id":  listingID,
	})
}

func (b *fakeBackend) subscribers(listingID int64) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.conns[listingID])
}

func (b *fakeBackend) broadcastLocked(listingID int64, msg gin.H) {
	for _, conn := range b.conns[listingID] {
		_ = conn.WriteJSON(msg)
	}
}

// testStack is the view host wired against a fake backend
type testStack struct {
	router *gin.Engine
	repo   *repository.MemoryRepo
}

// SetupTestStack wires the real loader, bid stream, controller and service
// against backend with short timings
func SetupTestStack(t *testing.T, backendSrv *fakeBackend) *testStack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	httpClient := &http.Client{Timeout: 2 * time.Second}
	loader := snapshot.NewLoader(backendSrv.baseURL(), httpClient)

	streamOpts := bidstream.Options{
		Retry: bidstream.RetryPolicy{
			MaxAttempts: 3,
			BaseDelay:   20 * time.Millisecond,
			MaxDelay:    100 * time.Millisecond,
			Multiplier:  2,
		},
		KeepAlive: time.Second,
	}
	template := backendSrv.streamTemplate()
	open := func(ctx context.Context, listingID int64) liveview.EventSource {
		return bidstream.Open(ctx, template, listingID, streamOpts)
	}

	mounter := liveview.NewMounter(loader, open, liveview.Options{
		RefreshInterval: 100 * time.Millisecond,
		TickInterval:    20 * time.Millisecond,
	})

	repo := repository.NewMemoryRepo()
	market := backend.NewClient(backendSrv.baseURL(), httpClient, 0, 0)
	service := listing.NewListingService(repo, listing.NewControllerMounter(mounter), market)

	t.Cleanup(func() {
		for _, id := range repo.ViewIDs() {
			if view, err := repo.DeleteView(id); err == nil {
				view.Close()
			}
		}
	})

	return &testStack{
		router: server.SetupRouter(service, repo),
		repo:   repo,
	}
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}

// openView mounts a view through the API and returns its id
func openView(t *testing.T, router *gin.Engine, listingID, viewerID int64) (string, map[string]any) {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/views", map[string]any{
		"listing_id": listingID,
		"viewer_id":  viewerID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("open view of listing %d: status %d body %s", listingID, w.Code, w.Body.String())
	}
	data := resp["data"].(map[string]any)
	return data["view_id"].(string), data["state"].(map[string]any)
}

// viewState fetches the current state of a view, or nil when it is gone
func viewState(t *testing.T, router *gin.Engine, viewID string) map[string]any {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, router, http.MethodGet, fmt.Sprintf("/views/%s", viewID), nil)
	if w.Code != http.StatusOK {
		return nil
	}
	return resp["data"].(map[string]any)["state"].(map[string]any)
}
