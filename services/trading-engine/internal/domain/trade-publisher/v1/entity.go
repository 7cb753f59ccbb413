package tradepublisherv1

import (
	"encoding/json"
	"time"

	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
)

// TradeEvent is the wire form of a trade on the trade topic.
type TradeEvent struct {
	ID           string    `json:"id"`
	MakerOrderID string    `json:"makerOrderId"`
	TakerOrderID string    `json:"takerOrderId"`
	SellerID     string    `json:"sellerId"`
	BuyerID      string    `json:"buyerId"`
	TakerSide    string    `json:"takerSide"`
	Quantity     int64     `json:"quantity"`
	Price        string    `json:"price"`
	Timestamp    time.Time `json:"timestamp"`
	BookVersion  uint64    `json:"bookVersion"`
}

// NewTradeEvent converts a trade for publishing.
func NewTradeEvent(trade orderbookv1.Trade, version uint64) TradeEvent {
	return TradeEvent{
		ID:           trade.ID,
		MakerOrderID: trade.MakerOrderID,
		TakerOrderID: trade.TakerOrderID,
		SellerID:     trade.SellerAccountID(),
		BuyerID:      trade.BuyerAccountID(),
		TakerSide:    string(trade.TakerSide),
		Quantity:     trade.Quantity,
		Price:        trade.Price.String(),
		Timestamp:    trade.Timestamp,
		BookVersion:  version,
	}
}

// ToBytes encodes the event as JSON.
func (e TradeEvent) ToBytes() ([]byte, error) {
	return json.Marshal(e)
}
