package repository

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

import (
	"fmt"
	"sort"
	"sync"

	"neighborconnect/internal/listingerrors"
	model "neighborconnect/internal/models"
)

// LiveView is a mounted listing view as seen by the host
type LiveView interface {
	ID() string
	ListingID() int64
	ViewerID() int64
	State() model.AuctionViewState
	Subscribe() (<-chan model.AuctionViewState, func())
	Done() <-chan struct{}
	Close()
}

// ViewStore defines the registry of mounted views
type ViewStore interface {
	SaveView(view LiveView) error
	GetView(viewID string) (LiveView, error)
	DeleteView(viewID string) (LiveView, error)
	GetViewsByListing(listingID int64) ([]LiveView, error)
	Count() int
}

// MemoryRepo is a concurrency-safe in-memory implementation of ViewStore
type MemoryRepo struct {
	mu           sync.RWMutex
	views        map[string]LiveView // key: viewID -> value: view
	listingViews map[int64][]string  // key: listingID -> value: ids of views on that listing
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		views:        make(map[string]LiveView),
		listingViews: make(map[int64][]string),
	}
}

// SaveView registers a mounted view
func (r *MemoryRepo) SaveView(view LiveView) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if view.ID() == "" {
		return fmt.Errorf("save view for listing %d: empty view id", view.ListingID())
	}
	if _, ok := r.views[view.ID()]; ok {
		return fmt.Errorf("save view %s: %w", view.ID(), listingerrors.ErrViewExists)
	}

	r.views[view.ID()] = view
	r.listingViews[view.ListingID()] = append(r.listingViews[view.ListingID()], view.ID())
	return nil
}

// GetView returns the view registered under viewID
func (r *MemoryRepo) GetView(viewID string) (LiveView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	view, ok := r.views[viewID]
	if !ok {
		return nil, fmt.Errorf("get view %s: %w", viewID, listingerrors.ErrViewNotFound)
	}
	return view, nil
}

// DeleteView unregisters a view and returns it. The caller closes it.
func (r *MemoryRepo) DeleteView(viewID string) (LiveView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	view, ok := r.views[viewID]
	if !ok {
		return nil, fmt.Errorf("delete view %s: %w", viewID, listingerrors.ErrViewNotFound)
	}
	delete(r.views, viewID)

	ids := r.listingViews[view.ListingID()]
	for i, id := range ids {
		if id == viewID {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(r.listingViews, view.ListingID())
	} else {
		r.listingViews[view.ListingID()] = ids
	}
	return view, nil
}

// GetViewsByListing returns every view mounted on a listing, ordered by id
func (r *MemoryRepo) GetViewsByListing(listingID int64) ([]LiveView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, ok := r.listingViews[listingID]
	if !ok || len(ids) == 0 {
		return nil, fmt.Errorf("get views for listing %d: %w", listingID, listingerrors.ErrViewNotFound)
	}

	views := make([]LiveView, 0, len(ids))
	for _, id := range ids {
		if view, exists := r.views[id]; exists {
			views = append(views, view)
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID() < views[j].ID() })
	return views, nil
}

// Count returns the number of registered views
func (r *MemoryRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// ViewIDs returns the ids of every registered view, sorted
func (r *MemoryRepo) ViewIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.views))
	for id := range r.views {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
