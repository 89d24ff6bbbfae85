package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/change"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/delivery"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/hyp3"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/notification"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/properties"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/raster"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/ui"
	"github.com/airbusgeo/godal"
	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/joho/godotenv"
)

func printBanner() {
	figure1 := figure.NewFigure("Reykjanes", "isometric1", true)
	figure2 := figure.NewFigure("SAR", "isometric1", true)
	bannercolor.Cyan(figure1.String())
	bannercolor.Cyan(figure2.String())
	fmt.Println()
}

func defaultManifestPath() string {
	return filepath.Join(properties.RootPath(), "data", "rtc", "manifest.csv")
}

func defaultConfig() delivery.Config {
	return delivery.Config{
		OutputDir: filepath.Join(properties.RootPath(), "outputs"),
		Epsilon:   change.DefaultEpsilon,
		ClampDB:   change.DefaultClampDB,
		Quicklook: true,
	}
}

func analyzePeriodPair() {
	ui.PrintWarning("A manifest.csv must exist under data/rtc (menu option 4 builds it).")

	prePeriod := ui.ReadString("Enter the pre period name (default 'pre'): ")
	if prePeriod == "" {
		prePeriod = "pre"
	}
	postPeriod := ui.ReadString("Enter the post period name (default 'recent'): ")
	if postPeriod == "" {
		postPeriod = "recent"
	}

	result, err := delivery.AnalyzePeriods(defaultManifestPath(), prePeriod, postPeriod, defaultConfig())
	if err != nil {
		if delivery.IsNoOverlap(err) {
			ui.PrintError(fmt.Sprintf("The selected acquisitions share no ground: %s", err.Error()))
			return
		}
		ui.PrintError(fmt.Sprintf("Error analyzing periods: %s", err.Error()))
		return
	}

	printResult(result)
	notification.SendDiscordSuccessNotification(fmt.Sprintf("Reykjanes SAR\n\nAnalyzed %s vs %s\nDelta product: %s", prePeriod, postPeriod, result.DeltaPath))
}

func printResult(result *delivery.PairResult) {
	ui.PrintSuccess("Successful analysis!")
	fmt.Printf("  Ratio (pre):  %s\n", result.RatioPrePath)
	fmt.Printf("  Ratio (post): %s\n", result.RatioPostPath)
	fmt.Printf("  Delta:        %s\n", result.DeltaPath)
	if result.Stats.Defined() {
		fmt.Printf("  Delta stats: mean=%.2f dB, std=%.2f, p5=%.2f, p95=%.2f\n",
			result.Stats.Mean, result.Stats.Std, result.Stats.P5, result.Stats.P95)
	} else {
		ui.PrintWarning("Delta statistics are undefined: no finite pixels in the overlap.")
	}
}

func batchCompare() {
	results, err := delivery.BatchCompare(defaultManifestPath(), defaultConfig())
	if err != nil {
		ui.PrintError(err.Error())
		return
	}
	for _, r := range results {
		if r.Err != nil {
			ui.PrintError(fmt.Sprintf("%s -> %s: %s", r.PrePeriod, r.PostPeriod, r.Err.Error()))
			continue
		}
		fmt.Printf("\n%s -> %s\n", r.PrePeriod, r.PostPeriod)
		printResult(r.Result)
	}
}

func submitJobs() {
	ui.PrintWarning("An 'aoi.geojson' file with the area of interest must exist at the project root.")

	limit, err := ui.ReadInt("Scenes per period (1-10): ", 1, 10)
	if err != nil {
		ui.PrintError(err.Error())
		return
	}
	dryRun := ui.ReadString("Dry run? (y/N): ") == "y"

	client := hyp3.NewClient(context.Background())
	aoiPath := filepath.Join(properties.RootPath(), "aoi.geojson")
	dataDir := filepath.Join(properties.RootPath(), "data")
	_, err = delivery.SubmitJobs(context.Background(), client, aoiPath, dataDir, delivery.DefaultPeriods(), limit, dryRun)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Error submitting jobs: %s", err.Error()))
		return
	}
	ui.PrintSuccess("Job submission finished. Jobs typically complete in 10-30 minutes.")
}

func downloadResults() {
	client := hyp3.NewClient(context.Background())
	dataDir := filepath.Join(properties.RootPath(), "data")
	rtcDir := filepath.Join(dataDir, "rtc")
	manifestPath, err := delivery.DownloadResults(context.Background(), client, dataDir, rtcDir)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Error downloading results: %s", err.Error()))
		return
	}
	ui.PrintSuccess(fmt.Sprintf("Products downloaded and manifest written to %s", manifestPath))
}

func rasterStatistics() {
	path := ui.ReadString("Enter the raster path: ")
	band, err := raster.ReadBand(path)
	if err != nil {
		ui.PrintError(err.Error())
		return
	}
	stats := change.Summarize(band.Data)
	if !stats.Defined() {
		ui.PrintWarning("The raster has no finite pixels.")
		return
	}
	fmt.Printf("min=%.3f max=%.3f mean=%.3f std=%.3f p5=%.3f p50=%.3f p95=%.3f\n",
		stats.Min, stats.Max, stats.Mean, stats.Std, stats.P5, stats.P50, stats.P95)

	other := ui.ReadString("Compare against another raster? Enter path or leave empty: ")
	if other == "" {
		return
	}
	otherBand, err := raster.ReadBand(other)
	if err != nil {
		ui.PrintError(err.Error())
		return
	}
	deltaMean, deltaStd := change.ComparePeriods(band.Data, otherBand.Data)
	if math.IsNaN(deltaMean) {
		ui.PrintWarning("No pixels are finite in both rasters.")
		return
	}
	fmt.Printf("delta_mean=%.3f delta_std=%.3f\n", deltaMean, deltaStd)
}

func initCLI() {
	defer func() {
		if r := recover(); r != nil {
			pc, file, line, ok := runtime.Caller(3)
			var location string
			if ok {
				fn := runtime.FuncForPC(pc)
				location = fmt.Sprintf("%s:%d in %s", file, line, fn.Name())
			} else {
				location = "Unknown location"
			}

			ui.PrintError(fmt.Sprintf("PANIC: %v", r))
			ui.PrintError(fmt.Sprintf("Location: %s", location))
			ui.PrintError("Please check the input and try again. Exiting...")

			stack := debug.Stack()
			errMessage := fmt.Sprintf("Reykjanes SAR CLI panic:\n\n%v\n\nLocation: %s\n\nStack trace:\n%s", r, location, stack)
			if err := notification.SendDiscordErrorNotification(errMessage); err != nil {
				ui.PrintError(fmt.Sprintf("Failed to send notification: %s", err.Error()))
			}
		}
	}()
	printBanner()

	for {
		fmt.Println("\033[34m===================\033[0m")
		fmt.Println("\033[34m1. Analyze a period pair\033[0m")
		fmt.Println("\033[34m2. Compare all periods\033[0m")
		fmt.Println("\033[34m3. Submit RTC jobs\033[0m")
		fmt.Println("\033[34m4. Download results and build manifest\033[0m")
		fmt.Println("\033[34m5. Raster statistics\033[0m")
		fmt.Println("\033[34m6. Exit\033[0m")
		fmt.Println("\033[34mEnter your choice:\033[0m")

		var choice int
		_, err := fmt.Scan(&choice)
		if err != nil {
			ui.PrintError("Invalid input. Please enter a number.")
			fmt.Scanln()
			continue
		}

		switch choice {
		case 1:
			analyzePeriodPair()
		case 2:
			batchCompare()
		case 3:
			submitJobs()
		case 4:
			downloadResults()
		case 5:
			rasterStatistics()
		case 6:
			println("Exiting...")
			return
		default:
			println("Invalid choice. Please try again.")
		}
	}
}

func main() {
	err := godotenv.Load("../../.env")
	if err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			godotenv.Load(".env")
		}
	}

	if properties.RootPath() == "" {
		wd, _ := os.Getwd()
		os.Setenv("ROOT_PATH", wd)
	}

	godal.RegisterAll()
	initCLI()
}
