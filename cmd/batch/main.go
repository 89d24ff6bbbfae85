// Command batch runs the pipeline end to end without prompts: download
// finished products (unless skipped), rebuild the manifest and compare
// every period pair into the output directory.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/change"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/delivery"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/hyp3"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/properties"
	"github.com/airbusgeo/godal"
	"github.com/joho/godotenv"
)

func main() {
	skipDownload := false
	outDir := ""
	for i, arg := range os.Args[1:] {
		switch {
		case arg == "--skip-download":
			skipDownload = true
		case strings.HasPrefix(arg, "--outdir="):
			outDir = strings.TrimPrefix(arg, "--outdir=")
		case arg == "--outdir" && i+2 < len(os.Args):
			outDir = os.Args[i+2]
		case arg == "--help" || arg == "-h":
			fmt.Println("usage: batch [--skip-download] [--outdir DIR]")
			return
		}
	}

	if err := godotenv.Load(".env"); err != nil {
		godotenv.Load("../../.env")
	}
	if properties.RootPath() == "" {
		wd, _ := os.Getwd()
		os.Setenv("ROOT_PATH", wd)
	}
	godal.RegisterAll()

	dataDir := filepath.Join(properties.RootPath(), "data")
	rtcDir := filepath.Join(dataDir, "rtc")
	manifestPath := filepath.Join(rtcDir, "manifest.csv")

	if !skipDownload {
		client := hyp3.NewClient(context.Background())
		path, err := delivery.DownloadResults(context.Background(), client, dataDir, rtcDir)
		if err != nil {
			fmt.Printf("Download step failed: %v\n", err)
			fmt.Println("Continuing with existing data (if any).")
		} else {
			manifestPath = path
		}
	}

	if _, err := os.Stat(manifestPath); err != nil {
		fmt.Printf("No manifest at %s, nothing to analyze.\n", manifestPath)
		os.Exit(1)
	}

	if outDir == "" {
		outDir = filepath.Join(properties.RootPath(), "outputs")
	}
	cfg := delivery.Config{
		OutputDir: outDir,
		Epsilon:   change.DefaultEpsilon,
		ClampDB:   change.DefaultClampDB,
		Quicklook: true,
	}

	results, err := delivery.BatchCompare(manifestPath, cfg)
	if err != nil {
		fmt.Printf("Batch comparison failed: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("%s -> %s failed: %v\n", r.PrePeriod, r.PostPeriod, r.Err)
			continue
		}
		fmt.Printf("%s -> %s: delta mean %.2f dB (p5 %.2f, p95 %.2f)\n",
			r.PrePeriod, r.PostPeriod, r.Result.Stats.Mean, r.Result.Stats.P5, r.Result.Stats.P95)
	}
	fmt.Printf("Done: %d comparisons, %d failed. Outputs in %s\n", len(results), failed, outDir)
}
