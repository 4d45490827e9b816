package foxit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/prilive-com/onboardiq/gateway"
	"github.com/prilive-com/onboardiq/internal/validate"
)

// Cache lifetimes per endpoint.
const (
	HealthTTL    = 30 * time.Second
	TemplatesTTL = 10 * time.Minute
	MetadataTTL  = 5 * time.Minute
	AnalyticsTTL = 15 * time.Minute
)

// DefaultAnalyticsPeriod is used when Analytics is called without a period.
const DefaultAnalyticsPeriod = "last_30_days"

// Health returns the API health report. Cached for HealthTTL.
func (c *Client) Health(ctx context.Context) (Health, error) {
	return call(ctx, c, "health", func(ctx context.Context) (Health, error) {
		var h Health
		err := c.do(ctx, http.MethodGet, "/health", nil, &h)
		return h, err
	}, c.mockHealth, gateway.WithCache(HealthTTL))
}

// Ping checks connectivity without the cache. It never returns an error;
// an unreachable API reports Connected=false.
func (c *Client) Ping(ctx context.Context) Connectivity {
	start := time.Now()
	h, err := gateway.Execute(ctx, c.gw, "", func(ctx context.Context) (Health, error) {
		var h Health
		err := c.do(ctx, http.MethodGet, "/health", nil, &h)
		return h, err
	}, gateway.WithoutRetry())
	if err != nil {
		return Connectivity{Connected: false}
	}
	return Connectivity{Connected: true, ResponseTime: time.Since(start), Version: h.Version}
}

// Templates lists available document templates. Cached for TemplatesTTL.
func (c *Client) Templates(ctx context.Context) ([]Template, error) {
	return call(ctx, c, "templates", func(ctx context.Context) ([]Template, error) {
		var resp templatesResponse
		if err := c.do(ctx, http.MethodGet, "/templates", nil, &resp); err != nil {
			return nil, err
		}
		if !resp.Success && resp.Error != "" {
			return nil, gateway.Permanent(fmt.Errorf("templates: %s", resp.Error))
		}
		return resp.Templates, nil
	}, c.mockTemplates, gateway.WithCache(TemplatesTTL))
}

// GenerateDocument renders a template. Never cached or de-duplicated: two
// identical requests produce two documents.
func (c *Client) GenerateDocument(ctx context.Context, req GenerateRequest) (Document, error) {
	if err := validate.Required("template_id", req.TemplateID); err != nil {
		return Document{}, err
	}
	if req.Options.Format != "" {
		if err := validate.OneOf("format", req.Options.Format, "pdf", "docx", "html"); err != nil {
			return Document{}, err
		}
	}

	payload := generatePayload{
		TemplateID:   req.TemplateID,
		Data:         req.Data,
		OutputFormat: req.Options.Format,
	}
	if payload.OutputFormat == "" {
		payload.OutputFormat = "pdf"
	}
	if payload.Data == nil {
		payload.Data = map[string]any{}
	}
	payload.Options.IncludeMetadata = !req.Options.OmitMetadata
	payload.Options.IncludeWatermark = req.Options.IncludeWatermark
	payload.Options.CompressionLevel = "none"
	if req.Options.Compression {
		payload.Options.CompressionLevel = "high"
	}
	payload.Options.Security = req.Options.Security
	if payload.Options.Security == "" {
		payload.Options.Security = "standard"
	}

	return call(ctx, c, "", func(ctx context.Context) (Document, error) {
		var doc Document
		if err := c.do(ctx, http.MethodPost, "/generate-document", payload, &doc); err != nil {
			return Document{}, err
		}
		if !doc.Success && doc.Error != "" {
			return Document{}, gateway.Permanent(fmt.Errorf("generate document: %s", doc.Error))
		}
		return doc, nil
	}, func() Document { return c.mockDocument(req.TemplateID) })
}

// ProcessWorkflow runs PDF operations over existing documents.
func (c *Client) ProcessWorkflow(ctx context.Context, req WorkflowRequest) (WorkflowResult, error) {
	if err := validate.Required("workflow_id", req.WorkflowID); err != nil {
		return WorkflowResult{}, err
	}
	if len(req.DocumentIDs) == 0 {
		return WorkflowResult{}, validate.New("document_ids", "at least one document is required")
	}

	opts := req.Options
	if opts.CompressionLevel == "" {
		opts.CompressionLevel = "medium"
	}
	if opts.EncryptionLevel == "" {
		opts.EncryptionLevel = "128"
	}
	payload := workflowPayload{
		WorkflowID:  req.WorkflowID,
		DocumentIDs: req.DocumentIDs,
		Operations:  req.Operations,
		Options:     opts,
	}

	return call(ctx, c, "", func(ctx context.Context) (WorkflowResult, error) {
		var res WorkflowResult
		if err := c.do(ctx, http.MethodPost, "/process-pdf-workflow", payload, &res); err != nil {
			return WorkflowResult{}, err
		}
		if !res.Success && res.Error != "" {
			return WorkflowResult{}, gateway.Permanent(fmt.Errorf("process workflow: %s", res.Error))
		}
		return res, nil
	}, c.mockWorkflow)
}

// DocumentMetadata returns a document's metadata. Cached for MetadataTTL.
func (c *Client) DocumentMetadata(ctx context.Context, documentID string) (Metadata, error) {
	if err := validate.Required("document_id", documentID); err != nil {
		return Metadata{}, err
	}
	path := "/documents/" + url.PathEscape(documentID) + "/metadata"

	return gateway.Execute(ctx, c.gw, "metadata_"+documentID, func(ctx context.Context) (Metadata, error) {
		var m Metadata
		err := c.do(ctx, http.MethodGet, path, nil, &m)
		return m, err
	}, gateway.WithCache(MetadataTTL))
}

// DownloadDocument returns a download link. Concurrent requests for the same
// document share one call.
func (c *Client) DownloadDocument(ctx context.Context, documentID string) (Download, error) {
	if err := validate.Required("document_id", documentID); err != nil {
		return Download{}, err
	}
	path := "/documents/" + url.PathEscape(documentID) + "/download"

	return gateway.Execute(ctx, c.gw, "download_"+documentID, func(ctx context.Context) (Download, error) {
		var d Download
		err := c.do(ctx, http.MethodGet, path, nil, &d)
		return d, err
	})
}

// JobStatus returns the current state of an asynchronous job. Concurrent
// requests for the same job share one call.
func (c *Client) JobStatus(ctx context.Context, jobID string) (JobStatus, error) {
	if err := validate.Required("job_id", jobID); err != nil {
		return JobStatus{}, err
	}
	path := "/jobs/" + url.PathEscape(jobID) + "/status"

	return gateway.Execute(ctx, c.gw, "status_"+jobID, func(ctx context.Context) (JobStatus, error) {
		var s JobStatus
		err := c.do(ctx, http.MethodGet, path, nil, &s)
		return s, err
	})
}

// PollJob polls JobStatus until the job completes or fails, calling
// onProgress (if non-nil) with every status. It gives up with ErrPollTimeout
// after Config.PollMaxAttempts polls.
func (c *Client) PollJob(ctx context.Context, jobID string, onProgress func(JobStatus)) (JobStatus, error) {
	for attempt := 1; attempt <= c.config.PollMaxAttempts; attempt++ {
		status, err := c.JobStatus(ctx, jobID)
		if err != nil {
			return JobStatus{}, err
		}
		if onProgress != nil {
			onProgress(status)
		}
		if status.Done() {
			return status, nil
		}

		c.logger.Debug("job still running",
			"job_id", jobID,
			"status", status.Status,
			"progress", status.Progress,
			"poll", attempt,
		)

		if attempt < c.config.PollMaxAttempts {
			if err := c.sleeper.Sleep(ctx, c.config.PollInterval); err != nil {
				return JobStatus{}, err
			}
		}
	}
	return JobStatus{}, fmt.Errorf("%w: %s after %d polls", ErrPollTimeout, jobID, c.config.PollMaxAttempts)
}

// Analytics returns usage statistics for period (DefaultAnalyticsPeriod when
// empty). Cached for AnalyticsTTL per period.
func (c *Client) Analytics(ctx context.Context, period string) (Analytics, error) {
	if period == "" {
		period = DefaultAnalyticsPeriod
	}
	path := "/analytics?period=" + url.QueryEscape(period)

	return call(ctx, c, "analytics_"+period, func(ctx context.Context) (Analytics, error) {
		var a Analytics
		err := c.do(ctx, http.MethodGet, path, nil, &a)
		return a, err
	}, func() Analytics { return c.mockAnalytics(period) }, gateway.WithCache(AnalyticsTTL))
}

// DeleteDocument deletes a document. It is attempted once and drops the
// cached metadata on success.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) (DeleteResult, error) {
	if err := validate.Required("document_id", documentID); err != nil {
		return DeleteResult{}, err
	}
	path := "/documents/" + url.PathEscape(documentID)

	res, err := gateway.Execute(ctx, c.gw, "", func(ctx context.Context) (DeleteResult, error) {
		var r DeleteResult
		err := c.do(ctx, http.MethodDelete, path, nil, &r)
		return r, err
	}, gateway.WithoutRetry())
	if err != nil {
		return DeleteResult{}, err
	}

	c.gw.Invalidate("metadata_" + documentID)
	return res, nil
}

// BatchGenerate generates documents concurrently, at most
// Config.BatchConcurrency at a time. Individual failures are reported per
// item; the returned error is only set when ctx ends.
func (c *Client) BatchGenerate(ctx context.Context, reqs []GenerateRequest) (BatchResult, error) {
	start := time.Now()
	items := make([]BatchItem, len(reqs))

	g := new(errgroup.Group)
	g.SetLimit(c.config.BatchConcurrency)

	for i, req := range reqs {
		g.Go(func() error {
			doc, err := c.GenerateDocument(ctx, req)
			items[i] = BatchItem{TemplateID: req.TemplateID, Document: doc, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return BatchResult{Items: items}, err
	}

	summary := BatchSummary{Total: len(reqs), ProcessingTime: time.Since(start)}
	for _, item := range items {
		if item.Err != nil {
			summary.Failed++
		} else {
			summary.Successful++
		}
	}
	if summary.Total > 0 {
		summary.AveragePerDocument = summary.ProcessingTime / time.Duration(summary.Total)
	}

	c.logger.Info("batch generation finished",
		"total", summary.Total,
		"successful", summary.Successful,
		"failed", summary.Failed,
		"elapsed", summary.ProcessingTime,
	)
	return BatchResult{Items: items, Summary: summary}, nil
}

// ValidateTemplateData compares data with the fields of templateID.
func (c *Client) ValidateTemplateData(ctx context.Context, templateID string, data map[string]any) (TemplateCheck, error) {
	templates, err := c.Templates(ctx)
	if err != nil {
		return TemplateCheck{}, err
	}

	idx := slices.IndexFunc(templates, func(t Template) bool { return t.ID == templateID })
	if idx < 0 {
		return TemplateCheck{Suggestions: []string{"Template not found"}}, nil
	}
	fields := templates[idx].Fields

	check := TemplateCheck{}
	for _, f := range fields {
		if _, ok := data[f]; !ok {
			check.Missing = append(check.Missing, f)
			check.Suggestions = append(check.Suggestions, "Add missing field: "+f)
		}
	}
	for k := range data {
		if !slices.Contains(fields, k) {
			check.Extra = append(check.Extra, k)
		}
	}
	slices.Sort(check.Extra)
	check.Valid = len(check.Missing) == 0
	return check, nil
}
