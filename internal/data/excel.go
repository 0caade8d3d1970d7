package data

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"auction-pricer/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// AuctionWorkbook is the historical auction data file inside the data dir.
const AuctionWorkbook = "AuctionData.xlsx"

// Column names expected in AuctionData.xlsx after normalization.
var requiredAuctionColumns = []string{
	"auction_date", "productdescription", "proposed_rp", "last_bid_price", "quantity",
}

// spotPriceColumn is the metal price column in the market workbooks.
const spotPriceColumn = "spot price(rs.)"

// Date formats seen in exported workbooks.
var workbookDateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01-02-06",
	"1/2/06",
	"1/2/2006",
	time.RFC3339,
}

// ExcelStore reads historical auctions from an xlsx workbook. The first
// sheet is used; header names are lower-cased and trimmed, and
// "auction date" is accepted as a spelling of "auction_date".
type ExcelStore struct {
	Path          string
	LookbackYears int
}

func (s *ExcelStore) Load(asOf time.Time) ([]model.AuctionRecord, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, &DataUnavailableError{Source: s.Path, Reason: "cannot open workbook", Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, &DataUnavailableError{Source: s.Path, Reason: "cannot read sheet", Err: err}
	}
	if len(rows) == 0 {
		return nil, &DataUnavailableError{Source: s.Path, Reason: "workbook is empty"}
	}

	cols := normalizeHeader(rows[0])
	if missing := missingColumns(cols, requiredAuctionColumns); len(missing) > 0 {
		return nil, &DataUnavailableError{
			Source: s.Path,
			Reason: fmt.Sprintf("missing required column(s): %s", strings.Join(missing, ", ")),
		}
	}

	cutoff := lookbackCutoff(asOf, s.LookbackYears)
	var records []model.AuctionRecord
	var skipped int
	for _, row := range rows[1:] {
		date, ok := parseWorkbookDate(cell(row, cols["auction_date"]))
		if !ok {
			skipped++
			continue
		}
		if date.Before(cutoff) || date.After(asOf) {
			continue
		}
		records = append(records, model.AuctionRecord{
			AuctionDate:        date,
			ProductDescription: cell(row, cols["productdescription"]),
			ProposedRP:         parseFloat(cell(row, cols["proposed_rp"])),
			LastBidPrice:       parseFloat(cell(row, cols["last_bid_price"])),
			Quantity:           parseFloat(cell(row, cols["quantity"])),
		})
	}
	if skipped > 0 {
		log.Warn().Str("path", s.Path).Int("rows", skipped).
			Msg("skipped auction rows with unparseable dates")
	}
	log.Debug().Str("path", s.Path).Int("rows", len(records)).
		Time("cutoff", cutoff).Msg("loaded historical auction data")
	return records, nil
}

// readMetalWorkbook loads a per-metal demo price table: a date column plus
// the spot price column.
func readMetalWorkbook(path string) ([]model.PricePoint, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet of %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %s is empty", path)
	}

	cols := normalizeHeader(rows[0])
	if missing := missingColumns(cols, []string{"date", spotPriceColumn}); len(missing) > 0 {
		return nil, fmt.Errorf("workbook %s missing column(s): %s", path, strings.Join(missing, ", "))
	}

	var points []model.PricePoint
	for _, row := range rows[1:] {
		date, ok := parseWorkbookDate(cell(row, cols["date"]))
		if !ok {
			continue
		}
		points = append(points, model.PricePoint{
			Date:  date,
			Price: parseFloat(cell(row, cols[spotPriceColumn])),
		})
	}
	return points, nil
}

// normalizeHeader lower-cases and trims header cells and maps each column
// name to its index. "auction date" is canonicalized to "auction_date".
func normalizeHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "auction date" {
			name = "auction_date"
		}
		cols[name] = i
	}
	return cols
}

func missingColumns(cols map[string]int, required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseWorkbookDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range workbookDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return f
}
