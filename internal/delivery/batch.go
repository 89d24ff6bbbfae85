package delivery

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/manifest"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/notification"
	"github.com/gammazero/workerpool"
	"github.com/schollz/progressbar/v3"
)

// BatchResult is the outcome of one period comparison in a batch run.
type BatchResult struct {
	PrePeriod  string
	PostPeriod string
	Result     *PairResult
	Err        error
}

// chronological order of the campaign periods; unknown labels sort last
var periodOrder = map[string]int{"pre": 0, "during": 1, "recent": 2}

// BatchCompare compares every chronologically ordered period pair found
// in the manifest, a few in parallel. Each comparison gets its own
// output subdirectory so concurrent writers never collide. A pair
// without overlap or with missing files is reported and skipped, never
// aborting the rest of the batch.
func BatchCompare(manifestPath string, cfg Config) ([]BatchResult, error) {
	entries, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	pairs := manifest.PairsByPeriod(entries)

	periods := make([]string, 0, len(pairs))
	for period := range pairs {
		if _, _, ok := manifest.FindPeriodPair(pairs, period); ok {
			periods = append(periods, period)
		}
	}
	sort.Slice(periods, func(i, j int) bool { return periodRank(periods[i]) < periodRank(periods[j]) })
	if len(periods) < 2 {
		return nil, fmt.Errorf("manifest %s has fewer than two periods with complete pairs", manifestPath)
	}

	var combos [][2]string
	for i := 0; i < len(periods); i++ {
		for j := i + 1; j < len(periods); j++ {
			combos = append(combos, [2]string{periods[i], periods[j]})
		}
	}

	var (
		mu          sync.Mutex
		results     []BatchResult
		progressBar = progressbar.Default(int64(len(combos)), "Comparing periods")
	)

	wp := workerpool.New(4)
	for _, combo := range combos {
		wp.Submit(func() {
			pairCfg := cfg
			pairCfg.OutputDir = fmt.Sprintf("%s/%s_to_%s", cfg.OutputDir, combo[0], combo[1])
			result, err := AnalyzePeriods(manifestPath, combo[0], combo[1], pairCfg)

			mu.Lock()
			results = append(results, BatchResult{PrePeriod: combo[0], PostPeriod: combo[1], Result: result, Err: err})
			progressBar.Add(1)
			mu.Unlock()
		})
	}
	wp.StopWait()
	fmt.Println()

	sort.Slice(results, func(i, j int) bool {
		if results[i].PrePeriod != results[j].PrePeriod {
			return periodRank(results[i].PrePeriod) < periodRank(results[j].PrePeriod)
		}
		return periodRank(results[i].PostPeriod) < periodRank(results[j].PostPeriod)
	})

	var failures []string
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, fmt.Sprintf("%s->%s: %v", r.PrePeriod, r.PostPeriod, r.Err))
		}
	}
	if len(failures) == len(results) {
		return results, fmt.Errorf("all period comparisons failed: %s", strings.Join(failures, "; "))
	}
	if len(failures) > 0 {
		notification.SendDiscordErrorNotification(fmt.Sprintf("Batch comparison finished with %d failures:\n%s", len(failures), strings.Join(failures, "\n")))
	} else {
		notification.SendDiscordSuccessNotification(fmt.Sprintf("Batch comparison finished: %d period pairs analyzed into %s", len(results), cfg.OutputDir))
	}
	return results, nil
}

func periodRank(period string) int {
	if rank, ok := periodOrder[period]; ok {
		return rank
	}
	return len(periodOrder)
}
