package snapshot

import (
	"fmt"
	"time"

	"neighborconnect/internal/codec"
	"neighborconnect/internal/listingerrors"
	"neighborconnect/internal/models"
)

type wireRef struct {
	ID   codec.ID `json:"id"`
	Name string   `json:"name"`
}

type wirePhoto struct {
	ID  codec.ID `json:"id"`
	URL string   `json:"url"`
}

type wireBid struct {
	Amount   codec.Decimal `json:"bid_ammount"`
	BidderID codec.ID      `json:"users_id"`
}

type wireListing struct {
	ID          codec.ID      `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	StartPrice  codec.Decimal `json:"start_price"`
	BuyNowPrice codec.Decimal `json:"buy_now_price"`
	ExpiresAt   time.Time     `json:"expiration_date"`
	Status      string        `json:"status"`
	Seller      wireRef       `json:"seller"`
	Category    wireRef       `json:"category"`
	Photos      []wirePhoto   `json:"photos"`
	LastBid     *wireBid      `json:"last_bid"`
}

// Decode parses a listing payload. Failures wrap ErrDecodeFailed.
func Decode(body []byte) (models.ListingSnapshot, error) {
	var w wireListing
	if err := codec.JSON.Unmarshal(body, &w); err != nil {
		return models.ListingSnapshot{}, fmt.Errorf("%w - listing payload: %v", listingerrors.ErrDecodeFailed, err)
	}

	status := models.ListingStatus(w.Status)
	switch {
	case w.ID <= 0:
		return models.ListingSnapshot{}, fmt.Errorf("%w - listing payload has no id", listingerrors.ErrDecodeFailed)
	case w.ExpiresAt.IsZero():
		return models.ListingSnapshot{}, fmt.Errorf("%w - listing %d has no expiration_date", listingerrors.ErrDecodeFailed, w.ID)
	case status != models.StatusActive && status != models.StatusEnded && status != models.StatusSold:
		return models.ListingSnapshot{}, fmt.Errorf("%w - listing %d has unknown status %q", listingerrors.ErrDecodeFailed, w.ID, w.Status)
	}

	snap := models.ListingSnapshot{
		ID:          int64(w.ID),
		Title:       w.Title,
		Description: w.Description,
		StartPrice:  float64(w.StartPrice),
		BuyNowPrice: float64(w.BuyNowPrice),
		ExpiresAt:   w.ExpiresAt.UTC(),
		Status:      status,
		Seller:      models.Seller{ID: int64(w.Seller.ID), Name: w.Seller.Name},
		Category:    models.Category{ID: int64(w.Category.ID), Name: w.Category.Name},
		Photos:      make([]models.Photo, 0, len(w.Photos)),
	}
	for _, p := range w.Photos {
		snap.Photos = append(snap.Photos, models.Photo{ID: int64(p.ID), URL: p.URL})
	}
	if w.LastBid != nil {
		snap.LastBid = &models.LastBid{
			Amount:   float64(w.LastBid.Amount),
			BidderID: int64(w.LastBid.BidderID),
		}
	}
	return snap, nil
}
