// Package hyp3 talks to the remote RTC processing service and to the
// granule search API: submit jobs over an AOI, poll their status,
// download finished products and lay them out by period. The analysis
// core never imports this package; it only consumes the files this one
// deposits.
package hyp3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/properties"
	"golang.org/x/oauth2/clientcredentials"
)

// RTCParams are the processing parameters for a radiometric terrain
// correction job.
type RTCParams struct {
	Radiometry    string `json:"radiometry"`
	Resolution    int    `json:"resolution"`
	SpeckleFilter bool   `json:"speckle_filter"`
	Scale         string `json:"scale"`
	DemName       string `json:"dem_name"`
}

// DefaultRTCParams returns the parameters the project processes with.
func DefaultRTCParams() RTCParams {
	return RTCParams{
		Radiometry:    "gamma0",
		Resolution:    30,
		SpeckleFilter: true,
		Scale:         "power",
		DemName:       "copernicus",
	}
}

type JobFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

type Job struct {
	JobID      string    `json:"job_id"`
	Name       string    `json:"name"`
	JobType    string    `json:"job_type"`
	StatusCode string    `json:"status_code"`
	Granule    string    `json:"granule,omitempty"`
	Files      []JobFile `json:"files,omitempty"`
}

func (j Job) Succeeded() bool {
	return strings.EqualFold(j.StatusCode, "SUCCEEDED")
}

type FailedSubmission struct {
	Period  string `json:"period"`
	Granule string `json:"granule"`
	Error   string `json:"error"`
}

// JobsMeta is the submission record persisted between the submit and
// download steps.
type JobsMeta struct {
	Submitted []Job              `json:"submitted"`
	Failed    []FailedSubmission `json:"failed"`
	CreatedAt time.Time          `json:"created_at"`
	Params    RTCParams          `json:"params"`
}

type Client struct {
	apiURL    string
	searchURL string
	http      *http.Client
}

// NewClient builds a client against the processing API. When token
// credentials are configured the client authenticates with OAuth2
// client credentials; otherwise requests go out unauthenticated, which
// is enough for the public search endpoint and dry runs.
func NewClient(ctx context.Context) *Client {
	httpClient := &http.Client{Timeout: 60 * time.Second}
	if properties.Hyp3TokenUrl() != "" {
		conf := clientcredentials.Config{
			ClientID:     properties.Hyp3ClientId(),
			ClientSecret: properties.Hyp3ClientSecret(),
			TokenURL:     properties.Hyp3TokenUrl(),
		}
		httpClient = conf.Client(ctx)
	}
	return &Client{
		apiURL:    properties.Hyp3ApiUrl(),
		searchURL: properties.AsfSearchUrl(),
		http:      httpClient,
	}
}

type searchResult struct {
	GranuleName string `json:"granuleName"`
	StartTime   string `json:"startTime"`
}

// SearchGranules queries the granule search API for Sentinel-1 GRD
// scenes intersecting the AOI in the date range, newest first, limited
// to limit scenes. S1C scenes are filtered out: the processing service
// does not accept them yet.
func (c *Client) SearchGranules(ctx context.Context, aoiWKT string, start, end time.Time, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("platform", "Sentinel-1")
	params.Set("processingLevel", "GRD_HD")
	params.Set("beamMode", "IW")
	params.Set("flightDirection", "ASCENDING")
	params.Set("intersectsWith", aoiWKT)
	params.Set("start", start.Format("2006-01-02"))
	params.Set("end", end.Format("2006-01-02"))
	params.Set("output", "jsonlite")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("granule search failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("granule search returned status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Results []searchResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := payload.Results[:0]
	for _, r := range payload.Results {
		if isSupportedSatellite(r.GranuleName) {
			results = append(results, r)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].StartTime > results[j].StartTime })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	granules := make([]string, 0, len(results))
	for _, r := range results {
		granules = append(granules, NormalizeGranuleName(r.GranuleName))
	}
	return granules, nil
}

// SubmitRTCJob submits one RTC job for a granule. Job names longer than
// the service's 80-character limit are truncated.
func (c *Client) SubmitRTCJob(ctx context.Context, granule, name string, params RTCParams) (*Job, error) {
	if len(name) > 80 {
		name = name[:80]
	}
	payload := map[string]interface{}{
		"jobs": []map[string]interface{}{
			{
				"job_type": "RTC_GAMMA",
				"name":     name,
				"job_parameters": map[string]interface{}{
					"granules":       []string{granule},
					"radiometry":     params.Radiometry,
					"resolution":     params.Resolution,
					"speckle_filter": params.SpeckleFilter,
					"scale":          params.Scale,
					"dem_name":       params.DemName,
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/jobs", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("job submission failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("job submission returned status %d: %s", resp.StatusCode, respBody)
	}

	var batch struct {
		Jobs []Job `json:"jobs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("failed to decode submission response: %w", err)
	}
	if len(batch.Jobs) == 0 {
		return nil, fmt.Errorf("unexpected response format from processing service")
	}
	job := batch.Jobs[0]
	job.Granule = granule
	return &job, nil
}

// FindJobs lists the caller's jobs, optionally filtered by name prefix.
func (c *Client) FindJobs(ctx context.Context, namePrefix string) ([]Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/jobs", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("job query failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("job query returned status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Jobs []Job `json:"jobs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode job list: %w", err)
	}

	if namePrefix == "" {
		return payload.Jobs, nil
	}
	jobs := payload.Jobs[:0]
	for _, j := range payload.Jobs {
		if strings.HasPrefix(j.Name, namePrefix) {
			jobs = append(jobs, j)
		}
	}
	return jobs, nil
}

// NormalizeGranuleName strips product suffixes the processing service
// does not accept in granule identifiers.
func NormalizeGranuleName(granule string) string {
	granule = strings.TrimSpace(granule)
	for _, suffix := range []string{"-SLC", "-GRD_HD", "-GRD_MD", "-GRD_FD", "-RAW"} {
		if strings.HasSuffix(granule, suffix) {
			return strings.TrimSuffix(granule, suffix)
		}
	}
	return granule
}

// isSupportedSatellite filters to Sentinel-1A/1B scenes; S1C is not
// supported by the RTC processor.
func isSupportedSatellite(scene string) bool {
	return strings.HasPrefix(scene, "S1A_") || strings.HasPrefix(scene, "S1B_")
}
