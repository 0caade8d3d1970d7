package model

import (
	"sort"
	"time"
)

// AuctionRecord is one historical auction lot. Records are immutable once
// loaded; the backing store (xlsx workbook or SQL table) is the source of
// truth and is never written back.
type AuctionRecord struct {
	AuctionDate        time.Time `json:"auction_date" gorm:"column:auction_date;index"`
	ProductDescription string    `json:"productdescription" gorm:"column:productdescription"`
	ProposedRP         float64   `json:"proposed_rp" gorm:"column:proposed_rp"`
	LastBidPrice       float64   `json:"last_bid_price" gorm:"column:last_bid_price"`
	Quantity           float64   `json:"quantity" gorm:"column:quantity"`
}

// TableName maps the record onto the auction_records table for the SQL store.
func (AuctionRecord) TableName() string {
	return "auction_records"
}

// SortRecordsByDate returns a copy of records ordered by auction date
// ascending. Input order is preserved for equal dates.
func SortRecordsByDate(records []AuctionRecord) []AuctionRecord {
	out := make([]AuctionRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AuctionDate.Before(out[j].AuctionDate)
	})
	return out
}
