package bidstream

import (
	"fmt"

	"neighborconnect/internal/codec"
	"neighborconnect/internal/listingerrors"
	"neighborconnect/internal/models"
)

type wireEvent struct {
	ID        *codec.ID      `json:"id"`
	Amount    *codec.Decimal `json:"bid_ammount"`
	BidderID  *codec.ID      `json:"users_id"`
	ListingID *codec.ID      `json:"listing_id"`
}

// DecodeEvent normalizes one raw channel message. Optional fields that are
// absent stay nil; a message without an amount or listing id is rejected.
func DecodeEvent(raw []byte) (models.BidUpdateEvent, error) {
	var w wireEvent
	if err := codec.JSON.Unmarshal(raw, &w); err != nil {
		return models.BidUpdateEvent{}, fmt.Errorf("%w - bid message: %v", listingerrors.ErrDecodeFailed, err)
	}
	if w.Amount == nil {
		return models.BidUpdateEvent{}, fmt.Errorf("%w - bid message has no bid_ammount", listingerrors.ErrDecodeFailed)
	}
	if w.ListingID == nil {
		return models.BidUpdateEvent{}, fmt.Errorf("%w - bid message has no listing_id", listingerrors.ErrDecodeFailed)
	}

	ev := models.BidUpdateEvent{
		Amount:    float64(*w.Amount),
		ListingID: int64(*w.ListingID),
	}
	if w.ID != nil {
		id := int64(*w.ID)
		ev.BidID = &id
	}
	if w.BidderID != nil {
		bidder := int64(*w.BidderID)
		ev.BidderID = &bidder
	}
	return ev, nil
}
