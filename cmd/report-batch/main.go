// report-batch processes a folder of report photos for one branch and month
// from the command line, without going through the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sculptbody/cierre-backend/constants"
	"github.com/sculptbody/cierre-backend/internal/batch"
	"github.com/sculptbody/cierre-backend/internal/common"
	"github.com/sculptbody/cierre-backend/internal/entity"
	"github.com/sculptbody/cierre-backend/internal/export"
	"github.com/sculptbody/cierre-backend/internal/extract"
	"github.com/sculptbody/cierre-backend/internal/extract/gemini"
	"github.com/sculptbody/cierre-backend/internal/extract/openai"
	"github.com/sculptbody/cierre-backend/internal/ingest"
	"github.com/sculptbody/cierre-backend/internal/localcache"
	"github.com/sculptbody/cierre-backend/internal/repository"
)

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir    = flag.String("dir", "", "directory with report images (required)")
		branch = flag.String("branch", "", "branch name, e.g. 'San Miguel' (required)")
		month  = flag.String("month", "", "period YYYY-MM (required)")
		out    = flag.String("out", "", "write the TXT closing summary to this path")
	)
	flag.Parse()

	if *dir == "" || *branch == "" || *month == "" {
		printError("Error: --dir, --branch and --month are required\n")
		flag.Usage()
		os.Exit(1)
	}
	if _, err := entity.LastDayOfMonth(*month); err != nil {
		printError("Error: invalid --month, use YYYY-MM: %v\n", err)
		os.Exit(1)
	}

	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if cfg.Gemini.APIKey == "" {
		printError("Error: GEMINI_API_KEY is required\n")
		os.Exit(1)
	}

	ctx := context.Background()

	images, err := loadImages(*dir)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if len(images) == 0 {
		printError("Error: no JPG/PNG/WebP images in %s\n", *dir)
		os.Exit(1)
	}
	if err := ingest.ValidateBatch(images); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	cache, err := localcache.OpenSQLite(cfg.Cache.Path, logger)
	if err != nil {
		printError("Error: opening local cache: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = cache.Close() }()

	// hosted store is optional here; without it everything lands in the
	// local demo cache
	var (
		professionals repository.ProfessionalRepository
		reports       repository.ReportRepository
		branchList    []entity.Branch
	)
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, repository.Config{
			DSN:             cfg.Database.DSN,
			MaxConns:        4,
			MinConns:        1,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err == nil {
			defer repository.Close(pool, logger)
			professionals = repository.NewProfessionalRepository(pool, logger)
			reports = repository.NewReportRepository(pool, logger)
			branchList = repository.NewBranchRepository(pool, logger).ListOrFallback(ctx)
		}
	}
	if branchList == nil {
		fmt.Println("Base de datos no disponible, usando modo demo")
		branchList = entity.FallbackBranches()
	}

	target, ok := findBranch(branchList, *branch)
	if !ok {
		printError("Error: unknown branch %q. Available: %s\n", *branch, branchNames(branchList))
		os.Exit(1)
	}

	channels := gemini.NewChannels(gemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Timeout: cfg.Gemini.Timeout,
	}, gemini.ParseChannelSpecs(cfg.Gemini.Channels), logger)
	if cfg.OpenAI.APIKey != "" {
		channels = append(channels, openai.NewChannel(openai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			Timeout: cfg.OpenAI.Timeout,
		}, logger))
	}
	extractor := extract.NewClient(channels, logger)

	router := ingest.NewRouter(professionals, reports, nil, cache, logger)
	orchestrator := batch.NewOrchestrator(extractor, cfg.Batch.Delay, logger)

	fmt.Printf("Procesando %d imágenes para %s (%s)\n", len(images), target.Name, *month)
	result := orchestrator.ProcessAll(ctx, images, func(p batch.Progress) {
		fmt.Printf("  [%d/%d] %s\n", p.Current, p.Total, p.FileName)
	})

	var saved []entity.SalesReport
	for i, item := range result.Items {
		if !item.Success || item.Report == nil {
			printError("  FALLO %s: %s\n", item.FileName, item.Error)
			continue
		}
		rep, err := router.Persist(ctx, item.Report, images[i], target, *month)
		if err != nil {
			printError("  FALLO al guardar %s: %v\n", item.FileName, err)
			continue
		}
		saved = append(saved, *rep)
		fmt.Printf("  OK %s: %s, venta %s, pago neto %s\n",
			item.FileName, item.Report.ProfessionalName,
			export.FormatCLP(rep.GrossSales), export.FormatCLP(rep.NetPay))
	}

	fmt.Printf("\nTotal: %d | Guardados: %d | Fallidos: %d\n",
		result.Summary.Total, len(saved), result.Summary.Total-len(saved))

	if *out != "" && len(saved) > 0 {
		if err := os.WriteFile(*out, []byte(export.RenderTXT(*month, saved)), 0o644); err != nil {
			printError("Error: writing %s: %v\n", *out, err)
			os.Exit(1)
		}
		fmt.Printf("Resumen escrito en %s\n", *out)
	}
	if len(saved) < result.Summary.Total {
		os.Exit(1)
	}
}

func loadImages(dir string) ([]extract.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var images []extract.Image
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		mime := constants.MIMEFromExt(filepath.Ext(e.Name()))
		if mime == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		images = append(images, extract.Image{FileName: e.Name(), MIMEType: mime, Data: data})
	}
	sort.Slice(images, func(i, j int) bool { return images[i].FileName < images[j].FileName })
	return images, nil
}

func findBranch(branches []entity.Branch, nameOrID string) (entity.Branch, bool) {
	for _, b := range branches {
		if b.ID == nameOrID || strings.EqualFold(b.Name, nameOrID) {
			return b, true
		}
	}
	return entity.Branch{}, false
}

func branchNames(branches []entity.Branch) string {
	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.Name)
	}
	return strings.Join(names, ", ")
}
