package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/foxxcyber/kargolojik/internal/brand"
	"github.com/foxxcyber/kargolojik/internal/config"
	"github.com/foxxcyber/kargolojik/internal/importer"
	"github.com/foxxcyber/kargolojik/internal/logger"
	"github.com/foxxcyber/kargolojik/internal/services"
)

func main() {
	file := flag.String("file", "", "Import one local XLSX sheet")
	company := flag.String("company", "", "Company for -file (default: derived from the file name)")
	bucketPrefix := flag.String("bucket-prefix", "", "Import every XLSX sheet under this bucket prefix (e.g. 'sheets/')")
	sample := flag.Bool("sample", false, "Seed the built-in sample branches")
	dryRun := flag.Bool("dry-run", false, "Parse sheets and print a preview without writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Must(cfg.Logging).Named("seeder")
	defer func() { _ = log.Sync() }()

	if *file == "" && *bucketPrefix == "" && !*sample {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	im := importer.New()

	var results []*importer.Result

	if *file != "" {
		name := *company
		if name == "" {
			c, ok := brand.FromFileName(*file)
			if !ok {
				log.Fatal("cannot derive company from file name, pass -company", zap.String("file", *file))
			}
			name = c.Name
		}
		res, err := im.ParseFile(*file, name)
		if err != nil {
			log.Fatal("parse sheet", zap.String("file", *file), zap.Error(err))
		}
		results = append(results, res)
	}

	if *bucketPrefix != "" {
		storage := services.OpenStorage(ctx, cfg, log)
		if storage == nil {
			log.Fatal("-bucket-prefix needs S3_ENABLED=true and a reachable bucket")
		}
		res, err := parseBucket(ctx, storage, im, *bucketPrefix, log)
		if err != nil {
			log.Fatal("read bucket sheets", zap.String("prefix", *bucketPrefix), zap.Error(err))
		}
		results = append(results, res...)
	}

	if *dryRun {
		log.Info("dry run, nothing will be written")
		for _, res := range results {
			printPreview(res, 10)
		}
		if *sample {
			fmt.Printf("\n%d sample branches would be seeded\n", len(services.SampleBranches()))
		}
		return
	}

	store, err := services.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("open branch store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer store.Close()

	svc := services.NewBranchService(store, services.OpenCache(ctx, cfg, log), cfg.CacheTTL, log)

	for _, res := range results {
		out, err := svc.ImportParsed(ctx, res)
		if err != nil {
			log.Error("import failed", zap.String("company", res.Company), zap.Error(err))
			continue
		}
		log.Info("imported", zap.String("company", out.Company), zap.Int("branches", out.Imported), zap.Int("skipped", out.Skipped))
	}

	if *sample {
		out, err := svc.SeedSamples(ctx)
		if err != nil {
			log.Error("seed samples", zap.Error(err))
			return
		}
		log.Info(out.Message, zap.Int("total", out.TotalBranches))
	}
}

// parseBucket downloads and parses every sheet under prefix. Sheets whose
// file name does not name a known carrier are skipped.
func parseBucket(ctx context.Context, storage *services.StorageService, im *importer.Importer, prefix string, log *zap.Logger) ([]*importer.Result, error) {
	sheets, err := storage.ListSheets(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var results []*importer.Result
	for _, sheet := range sheets {
		c, ok := brand.FromFileName(sheet.Key)
		if !ok {
			log.Warn("unknown carrier, skipping sheet", zap.String("key", sheet.Key))
			continue
		}

		res, err := parseObject(ctx, storage, im, sheet.Key, c.Name)
		if err != nil {
			log.Warn("unreadable sheet, skipping", zap.String("key", sheet.Key), zap.Error(err))
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

func parseObject(ctx context.Context, storage *services.StorageService, im *importer.Importer, key, company string) (*importer.Result, error) {
	body, err := storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return im.Parse(body, company)
}

func printPreview(res *importer.Result, limit int) {
	fmt.Printf("\n%s: %d branches, %d rows skipped\n", res.Company, len(res.Branches), res.Skipped)
	fmt.Println(strings.Repeat("-", 60))
	for i, b := range res.Branches {
		if i >= limit {
			fmt.Printf("  ... and %d more\n", len(res.Branches)-limit)
			break
		}
		place := b.City
		if b.District != "" {
			place = b.District + ", " + b.City
		}
		fmt.Printf("  %-40s %s\n", b.Name, place)
	}
}
