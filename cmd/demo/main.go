package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"auction-pricer/internal/config"
	"auction-pricer/internal/data"
	"auction-pricer/internal/features"
	"auction-pricer/internal/inference"
	"auction-pricer/internal/model"
	"auction-pricer/internal/registry"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Demo:
// - Generate a small AuctionData.xlsx plus copper/zinc market workbooks
// - Generate linear quantile model artifacts for both product groups
// - Run a cylinder and a valve prediction end to end and print the results
func main() {
	outDir := flag.String("out", "demo_output", "Directory for generated demo data and models")
	date := flag.String("date", time.Now().Format(data.DateLayout), "Prediction date, YYYY-MM-DD")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	asOf, err := time.Parse(data.DateLayout, *date)
	if err != nil {
		panic(err)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		panic(err)
	}

	if err := writeAuctionWorkbook(filepath.Join(*outDir, data.AuctionWorkbook), asOf); err != nil {
		panic(err)
	}
	if err := writeMetalWorkbook(filepath.Join(*outDir, "marketdata_copper.xlsx"), asOf, 790000); err != nil {
		panic(err)
	}
	if err := writeMetalWorkbook(filepath.Join(*outDir, "marketdata_zinc.xlsx"), asOf, 295000); err != nil {
		panic(err)
	}
	if err := writeModelArtifacts(*outDir); err != nil {
		panic(err)
	}
	fmt.Printf("demo data and models written to %s\n\n", *outDir)

	cfg := config.Default()
	cfg.DataSource = config.SourceDemo
	cfg.DataDir = *outDir
	cfg.ModelDir = *outDir

	store := &data.ExcelStore{
		Path:          filepath.Join(cfg.DataDir, data.AuctionWorkbook),
		LookbackYears: cfg.HistoricalLookbackYears,
	}
	feed := data.NewFeed(cfg, data.NewWindowCache())
	reg := registry.New(&registry.JSONLoader{Dir: cfg.ModelDir})
	engine := inference.New(reg)

	records, err := store.Load(asOf)
	if err != nil {
		panic(err)
	}
	market := feed.Load(asOf)

	for _, group := range []model.ProductGroup{model.GroupCylinder, model.GroupValve} {
		builder := features.Builder{}
		if group == model.GroupValve {
			brass, err := reg.Resolve(string(model.GroupBrass))
			if err != nil {
				panic(err)
			}
			builder.BrassIndex = brass.PointEstimate()
		}

		fv, err := builder.Build(group, 25, asOf, records, market)
		if err != nil {
			panic(err)
		}
		result, err := engine.Infer(group, 25, *date, fv)
		if err != nil {
			panic(err)
		}

		raw, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			panic(err)
		}
		fmt.Printf("--- %s ---\n%s\n\n", group, raw)
	}
}

// writeAuctionWorkbook emits ~8 weeks of alternating cylinder and valve
// auctions ending just before asOf.
func writeAuctionWorkbook(path string, asOf time.Time) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	rows := [][]interface{}{
		{"Auction Date", "ProductDescription", "Proposed_RP", "Last_Bid_Price", "Quantity"},
	}
	descriptions := []string{"14.2 Kg", "19 Kg", "SC Valve", "5 Kg", "Liquid Offtake Valve"}
	for i := 0; i < 40; i++ {
		d := asOf.AddDate(0, 0, -(40 - i))
		desc := descriptions[i%len(descriptions)]
		base := 95000.0 + float64(i)*350
		rows = append(rows, []interface{}{
			d.Format(data.DateLayout), desc, base, base * 1.04, 20.0 + float64(i%7)*2.5,
		})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// writeMetalWorkbook emits a 60 day spot price table drifting gently
// upward toward asOf.
func writeMetalWorkbook(path string, asOf time.Time, base float64) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	rows := [][]interface{}{{"Date", "Spot Price(Rs.)"}}
	for i := 0; i < 60; i++ {
		d := asOf.AddDate(0, 0, -(60 - i))
		rows = append(rows, []interface{}{
			d.Format(data.DateLayout), base + float64(i)*120,
		})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// writeModelArtifacts emits toy linear artifacts: each quantile model
// tracks the 30 day rolling mean plus a small quantity term, with the
// intercept spread separating the quantiles.
func writeModelArtifacts(dir string) error {
	type artifact struct {
		Type         string             `json:"type"`
		Intercept    float64            `json:"intercept"`
		Coefficients map[string]float64 `json:"coefficients"`
	}

	write := func(name string, a artifact) error {
		raw, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, name+".json"), raw, 0o644)
	}

	spreads := map[string]float64{
		model.QuantileQ5:  -4000,
		model.QuantileQ50: 0,
		model.QuantileQ90: 6500,
	}
	targetCols := map[string]string{
		model.TargetProposedRP:   "rolling_mean_30d_proposed_rp",
		model.TargetLastBidPrice: "rolling_mean_30d_last_bid_price",
	}
	for _, prefix := range []string{"cyl", "valve"} {
		for target, col := range targetCols {
			for q, spread := range spreads {
				name := fmt.Sprintf("%s_%s_%s", prefix, target, q)
				if err := write(name, artifact{
					Type:      "linear",
					Intercept: 1500 + spread,
					Coefficients: map[string]float64{
						col:        1.0,
						"quantity": 45.0,
					},
				}); err != nil {
					return err
				}
			}
		}
	}
	return write("brass_index_model", artifact{
		Type:      "linear",
		Intercept: 12.0,
		Coefficients: map[string]float64{
			model.FeatureCopperPrice: 0.00035,
			model.FeatureZincPrice:   0.00012,
		},
	})
}
