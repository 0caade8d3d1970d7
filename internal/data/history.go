package data

import (
	"fmt"
	"time"

	"auction-pricer/internal/model"
)

// DateLayout is the wire format for dates throughout the service.
const DateLayout = "2006-01-02"

// Store loads historical auction records filtered to the lookback window
// ending at asOf. Implementations never mutate the backing store.
type Store interface {
	Load(asOf time.Time) ([]model.AuctionRecord, error)
}

// DataUnavailableError means the historical store is unreachable or its
// shape is wrong (e.g. a required column is missing after normalization).
type DataUnavailableError struct {
	Source string
	Reason string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("historical data unavailable (%s): %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("historical data unavailable (%s): %s", e.Source, e.Reason)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// lookbackCutoff is the oldest auction date admitted for a request dated
// asOf: years * 365 days back, matching how the models were trained.
func lookbackCutoff(asOf time.Time, years int) time.Time {
	return asOf.AddDate(0, 0, -365*years)
}
