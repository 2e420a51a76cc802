package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ironsheep/label-tools-mcp/internal/config"
	"github.com/ironsheep/label-tools-mcp/internal/imaging"
	"github.com/ironsheep/label-tools-mcp/internal/label"
	"github.com/ironsheep/label-tools-mcp/internal/logging"
	"github.com/ironsheep/label-tools-mcp/internal/ocr"
	"github.com/ironsheep/label-tools-mcp/internal/report"
	"github.com/ironsheep/label-tools-mcp/internal/scan"
	"github.com/ironsheep/label-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("label-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "label-tools-mcp: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "label-tools-mcp: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache := imaging.NewImageCache(cfg.Cache.TTL)
	recognizer := ocr.NewTesseract(cfg.OCR.Language, cfg.OCR.TessdataPrefix, cfg.OCR.PageSegMode)
	opts := scanOptions(cfg)

	if len(os.Args) > 1 && os.Args[1] == "scan" {
		if err := runScan(ctx, scan.New(cache, recognizer, opts, logger), os.Args[2:]); err != nil {
			logger.Error("scan failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	server.Version = Version
	logger.Info("starting label MCP server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("ocr_language", cfg.OCR.Language),
		zap.Int("workers", cfg.Scan.Workers))

	srv := server.New(server.Options{
		Cache:      cache,
		Recognizer: recognizer,
		Scan:       opts,
		Logger:     logger,
	})
	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func scanOptions(cfg *config.Config) scan.Options {
	return scan.Options{
		Preprocess: imaging.PreprocessOptions{
			MinHeight:     cfg.Preprocess.MinHeight,
			DarkThreshold: cfg.Preprocess.DarkThreshold,
			Sharpen:       cfg.Preprocess.Sharpen,
		},
		Parse:   label.ParseOptions{RepairMarkers: cfg.Parse.RepairMarkers},
		Workers: cfg.Scan.Workers,
	}
}

// runScan prints a Markdown report for each image, in argument order.
func runScan(ctx context.Context, scanner *scan.Scanner, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("scan: no image given")
	}

	results, err := scanner.ScanBatch(ctx, paths)
	if err != nil {
		return err
	}

	failed := 0
	for i, res := range results {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("# %s\n\n", res.Path)
		if res.Error != "" {
			failed++
			fmt.Printf("Error: %s\n", res.Error)
			continue
		}
		fmt.Println(report.Markdown(*res.Analysis))
	}

	if failed > 0 {
		return fmt.Errorf("scan: %d of %d images failed", failed, len(results))
	}
	return nil
}

func printHelp() {
	fmt.Println("label-tools-mcp - MCP server for reading food labels")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  label-tools-mcp [options]          Serve MCP over stdin/stdout")
	fmt.Println("  label-tools-mcp scan <image>...    Print a report for each label photo")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  LABEL_MCP_CONFIG=path.yaml        Read settings from a YAML file")
	fmt.Println("  LABEL_MCP_LOG_LEVEL=debug         Log level (debug, info, warn, error)")
	fmt.Println("  LABEL_MCP_LOG_FORMAT=json         Log format (console, json)")
	fmt.Println("  LABEL_MCP_OCR_LANGUAGE=eng        Tesseract language")
	fmt.Println("  LABEL_MCP_OCR_PSM=3               Tesseract page segmentation mode")
	fmt.Println("  TESSDATA_PREFIX=/path/tessdata    Tesseract data directory")
	fmt.Println("  LABEL_MCP_MIN_HEIGHT=1000         Upscale photos shorter than this")
	fmt.Println("  LABEL_MCP_DARK_THRESHOLD=0.35     Invert photos darker than this")
	fmt.Println("  LABEL_MCP_SHARPEN=true            Sharpen before OCR")
	fmt.Println("  LABEL_MCP_REPAIR_MARKERS=true     Fix OCR slips in section markers")
	fmt.Println("  LABEL_MCP_WORKERS=4               Parallel scans in a batch")
	fmt.Println("  LABEL_MCP_CACHE_TTL=10m           How long loaded images stay cached")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
