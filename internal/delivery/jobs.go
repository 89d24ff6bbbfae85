package delivery

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/hyp3"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/manifest"
)

// JobNamePrefix tags every submitted job so download runs can find them
// again without local state.
const JobNamePrefix = "reykjanes_"

// Period is a named acquisition window of the campaign.
type Period struct {
	Name  string
	Start time.Time
	End   time.Time
}

// DefaultPeriods are the campaign windows: before the eruption
// sequence, during, and the most recent acquisitions.
func DefaultPeriods() []Period {
	return []Period{
		{Name: "pre", Start: date(2024, 5, 1), End: date(2024, 5, 31)},
		{Name: "during", Start: date(2024, 11, 1), End: date(2024, 11, 30)},
		{Name: "recent", Start: date(2025, 9, 1), End: date(2025, 10, 4)},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SubmitJobs searches granules per period over the AOI and submits one
// RTC job each, up to limit per period. With dryRun the search results
// are printed and nothing is submitted. The submission record lands in
// dataDir for the download step.
func SubmitJobs(ctx context.Context, client *hyp3.Client, aoiPath, dataDir string, periods []Period, limit int, dryRun bool) (*hyp3.JobsMeta, error) {
	aoi, err := hyp3.LoadAOI(aoiPath)
	if err != nil {
		return nil, err
	}
	aoiWKT := hyp3.AOIWkt(aoi)
	if lat, lon, err := hyp3.AOICenter(aoi); err == nil {
		fmt.Printf("AOI center: %.4f, %.4f\n", lat, lon)
	}

	params := hyp3.DefaultRTCParams()
	meta := hyp3.JobsMeta{CreatedAt: time.Now().UTC(), Params: params}

	for _, period := range periods {
		fmt.Printf("Searching granules for period '%s' %s..%s\n", period.Name,
			period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"))
		granules, err := client.SearchGranules(ctx, aoiWKT, period.Start, period.End, limit)
		if err != nil {
			fmt.Printf("Granule search failed for %s: %v\n", period.Name, err)
			continue
		}
		fmt.Printf("  Found %d supported scenes (limited to %d)\n", len(granules), limit)

		for _, granule := range granules {
			name := fmt.Sprintf("%s%s_%s", JobNamePrefix, period.Name, granule)
			if dryRun {
				fmt.Printf("  - %s (dry run, not submitted)\n", granule)
				continue
			}
			job, err := client.SubmitRTCJob(ctx, granule, name, params)
			if err != nil {
				fmt.Printf("  Submit failed for %s: %v\n", granule, err)
				meta.Failed = append(meta.Failed, hyp3.FailedSubmission{
					Period: period.Name, Granule: granule, Error: err.Error(),
				})
				continue
			}
			fmt.Printf("  Submitted %s -> job %s (%s)\n", granule, job.JobID, job.StatusCode)
			meta.Submitted = append(meta.Submitted, *job)
		}
	}

	if dryRun {
		fmt.Println("Dry run complete. No jobs submitted.")
		return &meta, nil
	}
	if err := hyp3.NewMetaStore(dataDir).Save(meta); err != nil {
		return nil, fmt.Errorf("failed to persist job metadata: %w", err)
	}
	fmt.Printf("Jobs submitted: %d, failed: %d\n", len(meta.Submitted), len(meta.Failed))
	return &meta, nil
}

// DownloadResults pulls finished products into rtcDir, extracts them
// into per-period directories and rebuilds the manifest. Jobs are
// matched by the stored submission record when present, by name prefix
// otherwise.
func DownloadResults(ctx context.Context, client *hyp3.Client, dataDir, rtcDir string) (string, error) {
	jobs, err := client.FindJobs(ctx, JobNamePrefix)
	if err != nil {
		return "", err
	}

	if meta, ok := hyp3.NewMetaStore(dataDir).Load(); ok && len(meta.Submitted) > 0 {
		ids := make(map[string]bool, len(meta.Submitted))
		for _, j := range meta.Submitted {
			ids[j.JobID] = true
		}
		matched := jobs[:0]
		for _, j := range jobs {
			if ids[j.JobID] {
				matched = append(matched, j)
			}
		}
		jobs = matched
	} else {
		fmt.Printf("No local job metadata found; using jobs named '%s*'\n", JobNamePrefix)
	}

	var completed []hyp3.Job
	for _, j := range jobs {
		if j.Succeeded() {
			completed = append(completed, j)
		}
	}
	if len(completed) == 0 {
		return "", fmt.Errorf("no completed jobs yet, try again later")
	}

	if err := client.DownloadProducts(ctx, completed, rtcDir); err != nil {
		return "", err
	}
	if err := hyp3.ExtractProducts(rtcDir); err != nil {
		return "", err
	}

	manifestPath := filepath.Join(rtcDir, "manifest.csv")
	if err := manifest.Build(rtcDir, manifestPath); err != nil {
		return "", err
	}
	fmt.Printf("Wrote manifest to %s\n", manifestPath)
	return manifestPath, nil
}
