package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/prilive-com/onboardiq"
	"github.com/prilive-com/onboardiq/gateway"
)

// Step is one call made by a smoke run.
type Step struct {
	Name     string        `json:"name"`
	Vendor   string        `json:"vendor"`
	Success  bool          `json:"success"`
	Cached   bool          `json:"cached"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Report is the outcome of a smoke run.
type Report struct {
	RunID     string           `json:"run_id"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
	Duration  time.Duration    `json:"duration"`
	Success   bool             `json:"success"`
	Steps     []Step           `json:"steps"`
	Status    []gateway.Status `json:"status"`
	Summary   Summary          `json:"summary"`
}

// Summary contains aggregate statistics.
type Summary struct {
	Total         int    `json:"total"`
	Passed        int    `json:"passed"`
	Failed        int    `json:"failed"`
	CacheHits     int    `json:"cache_hits"`
	TotalDuration string `json:"total_duration"`
}

// NewReport creates a new report.
func NewReport() *Report {
	return &Report{
		RunID:     time.Now().Format("20060102-150405"),
		StartTime: time.Now(),
	}
}

// Record times fn and adds its outcome as a step. cached reports whether the
// key was already in the gateway cache before the call.
func (r *Report) Record(gw *gateway.Gateway, name, cacheKey string, fn func() error) {
	cached := cacheKey != "" && slices.Contains(gw.CacheStats().Keys, cacheKey)

	start := time.Now()
	err := fn()
	step := Step{
		Name:     name,
		Vendor:   gw.Name(),
		Success:  err == nil,
		Cached:   cached && err == nil,
		Duration: time.Since(start),
	}
	if err != nil {
		step.Error = err.Error()
	}
	r.Steps = append(r.Steps, step)
}

// Finalize completes the report with summary statistics.
func (r *Report) Finalize(status []gateway.Status) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Status = status

	r.Summary = Summary{Total: len(r.Steps)}
	for _, s := range r.Steps {
		if s.Success {
			r.Summary.Passed++
		} else {
			r.Summary.Failed++
		}
		if s.Cached {
			r.Summary.CacheHits++
		}
	}
	r.Success = r.Summary.Failed == 0
	r.Summary.TotalDuration = r.Duration.String()
}

// ToJSON returns the report as JSON.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Save writes the report to dir/smoke-<run id>.json.
func (r *Report) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("smoke-%s.json", r.RunID))

	data, err := r.ToJSON()
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return filename, nil
}

// FormatSummary returns a human-readable summary.
func (r *Report) FormatSummary() string {
	var sb strings.Builder

	status := "PASSED"
	if !r.Success {
		status = "FAILED"
	}

	fmt.Fprintf(&sb, "Smoke: %s\n", r.RunID)
	fmt.Fprintf(&sb, "Status: %s\n", status)
	fmt.Fprintf(&sb, "Duration: %s\n\n", r.Duration.Round(time.Millisecond))

	for _, s := range r.Steps {
		mark := "ok"
		if !s.Success {
			mark = "FAIL"
		}
		source := "live"
		if s.Cached {
			source = "cache"
		}
		fmt.Fprintf(&sb, "  %-4s %-7s %-18s %-5s %s\n", mark, s.Vendor, s.Name, source, s.Duration.Round(time.Millisecond))
		if s.Error != "" {
			fmt.Fprintf(&sb, "       %s\n", s.Error)
		}
	}

	fmt.Fprintf(&sb, "\nSteps: %d/%d passed, %d cache hit(s)\n", r.Summary.Passed, r.Summary.Total, r.Summary.CacheHits)
	for _, st := range r.Status {
		fmt.Fprintf(&sb, "Breaker %s: %s (%d/%d failures)\n", st.Name, st.Breaker.State, st.Breaker.FailureCount, st.Breaker.Threshold)
	}

	return sb.String()
}

// runSmoke reads health and templates from the document API twice, so the
// second read shows the cache, and checks the communications API.
func runSmoke(ctx context.Context, svc *onboardiq.Services) *Report {
	r := NewReport()
	gws := svc.Gateways()
	foxitGW, vonageGW := gws[0], gws[1]

	r.Record(foxitGW, "ping", "", func() error {
		if !svc.Foxit().Ping(ctx).Connected {
			return errors.New("unreachable")
		}
		return nil
	})
	r.Record(foxitGW, "health", "health", func() error {
		_, err := svc.Foxit().Health(ctx)
		return err
	})
	for range 2 {
		r.Record(foxitGW, "templates", "templates", func() error {
			_, err := svc.Foxit().Templates(ctx)
			return err
		})
	}
	r.Record(vonageGW, "health", "health", func() error {
		_, err := svc.Vonage().Health(ctx)
		return err
	})
	r.Record(vonageGW, "balance", "balance", func() error {
		_, err := svc.Vonage().AccountBalance(ctx)
		return err
	})

	r.Finalize(svc.Status())
	return r
}
