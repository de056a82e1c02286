package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/aporte/pkg/logger"
)

// Run submits the configured number of contributions and then fetches the
// resulting standings.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("contributions", config.NumContributions),
		logger.Int("users", config.NumUsers),
		logger.Int("workers", config.Workers))

	client := &http.Client{Timeout: config.Timeout}

	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	contributions := generateContributions(config)

	if err := submitContributions(ctx, client, config, contributions, stats); err != nil {
		return fmt.Errorf("contribution submission failed: %w", err)
	}

	rows, err := fetchStandings(ctx, client, config)
	if err != nil {
		return fmt.Errorf("standings retrieval failed: %w", err)
	}

	stats.Duration = time.Since(stats.StartTime)

	log.Info(ctx, "seed run completed",
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int64("points_awarded", stats.PointsAwarded),
		logger.Int("participants", len(rows)),
		logger.String("duration", stats.Duration.String()))

	if config.Verbose {
		for i, r := range rows {
			log.Info(ctx, "standings row",
				logger.Int("rank", i+1),
				logger.String("name", r.Name),
				logger.Int("points", r.Points))
		}
	}

	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *http.Client, config *Config) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.BaseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %d", resp.StatusCode)
	}
	return nil
}

// submitContributions posts contributions concurrently using a worker pool.
func submitContributions(ctx context.Context, client *http.Client, config *Config, contributions []contribution, stats *Stats) error {
	var successful, failed, awarded int64

	jobs := make(chan contribution, config.Workers)
	var wg sync.WaitGroup

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				ack, err := postContribution(ctx, client, config.BaseURL+"/contributions", c)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				atomic.AddInt64(&successful, 1)
				atomic.AddInt64(&awarded, int64(ack.Awarded))
			}
		}()
	}

	for _, c := range contributions {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- c:
		}
	}
	close(jobs)
	wg.Wait()

	stats.Submitted = len(contributions)
	stats.Successful = int(successful)
	stats.Failed = int(failed)
	stats.PointsAwarded = awarded
	return nil
}

func postContribution(ctx context.Context, client *http.Client, url string, c contribution) (*ackResponse, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal contribution: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post contribution: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBody)
	}

	var ack ackResponse
	if err := json.Unmarshal(respBody, &ack); err != nil {
		return nil, fmt.Errorf("unmarshal ack: %w", err)
	}
	return &ack, nil
}

// fetchStandings retrieves the current standings.
func fetchStandings(ctx context.Context, client *http.Client, config *Config) ([]row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.BaseURL+"/standings", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("standings request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBody)
	}

	var rows []row
	if err := json.Unmarshal(respBody, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal standings: %w", err)
	}
	return rows, nil
}
