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
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "predict":
		cmdPredict(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli predict --group cylinders --quantity 10 --date 2025-09-12 [--location Gujarat] [--config config.yaml]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - group accepts cylinder/valve with case and plural variations")
	fmt.Println("  - output is the prediction result as indented JSON")
}

func cmdPredict(args []string) {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	group := fs.String("group", "", "Product group: cylinder or valve")
	quantity := fs.Float64("quantity", 0, "Quantity in MT (must be > 0)")
	date := fs.String("date", "", "Prediction date, YYYY-MM-DD")
	location := fs.String("location", "", "Auction location (echoed, unused by the models)")
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	_ = fs.Parse(args)

	if *group == "" || *date == "" {
		fmt.Println("--group and --date are required")
		os.Exit(2)
	}
	if *quantity <= 0 {
		fmt.Println("--quantity must be > 0")
		os.Exit(2)
	}

	g, err := model.ParseGroup(*group)
	if err != nil || (g != model.GroupCylinder && g != model.GroupValve) {
		fmt.Println("group must be 'cylinder' or 'valve'")
		os.Exit(2)
	}
	asOf, err := time.Parse(data.DateLayout, *date)
	if err != nil {
		fmt.Println("date must be in YYYY-MM-DD format")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}

	var store data.Store
	if cfg.DBURL != "" {
		store, err = data.NewSQLStore(cfg.DBURL, cfg.HistoricalLookbackYears)
		if err != nil {
			fatal(err)
		}
	} else {
		store = &data.ExcelStore{
			Path:          filepath.Join(cfg.DataDir, data.AuctionWorkbook),
			LookbackYears: cfg.HistoricalLookbackYears,
		}
	}
	feed := data.NewFeed(cfg, data.NewWindowCache())
	reg := registry.New(&registry.JSONLoader{Dir: cfg.ModelDir})
	engine := inference.New(reg)

	records, err := store.Load(asOf)
	if err != nil {
		fatal(err)
	}
	market := feed.Load(asOf)

	builder := features.Builder{}
	if g == model.GroupValve {
		brass, err := reg.Resolve(string(model.GroupBrass))
		if err != nil {
			fatal(err)
		}
		builder.BrassIndex = brass.PointEstimate()
	}

	fv, err := builder.Build(g, *quantity, asOf, records, market)
	if err != nil {
		fatal(err)
	}
	result, err := engine.Infer(g, *quantity, *date, fv)
	if err != nil {
		fatal(err)
	}

	out := struct {
		model.PredictionResult
		Location string `json:"location,omitempty"`
	}{PredictionResult: result, Location: *location}

	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(raw))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
