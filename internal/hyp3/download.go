package hyp3

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/cache"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// MetaStore persists the submission record between the submit and
// download steps.
type MetaStore struct {
	cache *cache.FileCache[JobsMeta]
}

const metaKey = "hyp3_jobs"

func NewMetaStore(dataDir string) *MetaStore {
	return &MetaStore{cache: cache.NewFileCache[JobsMeta](dataDir)}
}

func (s *MetaStore) Load() (JobsMeta, bool) {
	return s.cache.Get(metaKey)
}

func (s *MetaStore) Save(meta JobsMeta) error {
	return s.cache.Set(metaKey, meta)
}

// DownloadProducts fetches the product zips of succeeded jobs into
// destDir, a few in parallel. Already-present files are skipped so a
// re-run only pulls what is missing.
func (c *Client) DownloadProducts(ctx context.Context, jobs []Job, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create download directory %s: %v", destDir, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	for _, job := range jobs {
		if !job.Succeeded() {
			continue
		}
		for _, file := range job.Files {
			g.Go(func() error {
				return c.downloadFile(ctx, file, destDir)
			})
		}
	}
	return g.Wait()
}

func (c *Client) downloadFile(ctx context.Context, file JobFile, destDir string) error {
	dest := filepath.Join(destDir, file.Filename)
	if info, err := os.Stat(dest); err == nil && info.Size() == file.Size {
		fmt.Printf("Skipping %s (already downloaded)\n", file.Filename)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.URL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download failed for %s: %w", file.Filename, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s returned status %d", file.Filename, resp.StatusCode)
	}

	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", tmp, err)
	}

	bar := progressbar.DefaultBytes(resp.ContentLength, file.Filename)
	if _, err := io.Copy(io.MultiWriter(out, bar), resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("download of %s interrupted: %w", file.Filename, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, dest)
}

// ExtractProducts unpacks every product zip in rtcDir into a
// per-period subdirectory guessed from the job name embedded in the zip
// name, then removes the zip.
func ExtractProducts(rtcDir string) error {
	zips, err := filepath.Glob(filepath.Join(rtcDir, "*.zip"))
	if err != nil {
		return err
	}
	for _, zipPath := range zips {
		period := GuessPeriodFromName(strings.TrimSuffix(filepath.Base(zipPath), ".zip"))
		target := filepath.Join(rtcDir, period)
		if err := os.MkdirAll(target, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %v", target, err)
		}
		if err := extractZip(zipPath, target); err != nil {
			fmt.Printf("Extract failed %s: %v\n", filepath.Base(zipPath), err)
			continue
		}
		os.Remove(zipPath)
	}
	return nil
}

// GuessPeriodFromName recovers the period label from a job or product
// name of the form <site>_<period>_<scene>.
func GuessPeriodFromName(name string) string {
	for _, p := range []string{"pre", "during", "recent"} {
		if strings.Contains(name, "_"+p+"_") {
			return p
		}
	}
	return "unknown"
}

func extractZip(zipPath, outDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open zip %s: %w", zipPath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		dest := filepath.Join(outDir, f.Name)
		// keep extraction inside outDir
		if !strings.HasPrefix(filepath.Clean(dest), filepath.Clean(outDir)+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry %q escapes extraction directory", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		if err := extractZipFile(f, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractZipFile(f *zip.File, dest string) error {
	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
