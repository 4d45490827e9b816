package foxit_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prilive-com/onboardiq/foxit"
	"github.com/prilive-com/onboardiq/gateway"
	"github.com/prilive-com/onboardiq/internal/testutil"
	"github.com/prilive-com/onboardiq/internal/validate"
)

func TestTemplates(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("GET", "/templates", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{
			"success": true,
			"templates": []any{
				testutil.TestTemplate("welcome_packet", "Welcome Packet"),
				testutil.TestTemplate("invoice", "Invoice"),
			},
		})
	})
	client, _ := newTestClient(t, server)

	templates, err := client.Templates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "Invoice", templates[1].Name)
	assert.Equal(t, []string{"name", "email"}, templates[0].Fields)

	_, err = client.Templates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, server.CountPath("/templates"))
}

func TestTemplates_Unauthorized(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("GET", "/templates", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyUnauthorized(w)
	})
	client, sleeper := newTestClient(t, server)

	_, err := client.Templates(context.Background())

	assert.ErrorIs(t, err, gateway.ErrAuth)
	assert.Equal(t, 1, server.CountPath("/templates"))
	assert.Zero(t, sleeper.CallCount())
	assert.NotContains(t, err.Error(), testutil.TestAPIKey)
}

func TestGenerateDocument_Payload(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("POST", "/generate-document", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{"success": true, "document_id": testutil.TestDocumentID})
	})
	client, _ := newTestClient(t, server)

	doc, err := client.GenerateDocument(context.Background(), foxit.GenerateRequest{
		TemplateID: testutil.TestTemplateID,
		Data:       map[string]any{"customer_name": "Ada"},
		Options:    foxit.GenerateOptions{Compression: true},
	})

	require.NoError(t, err)
	assert.Equal(t, testutil.TestDocumentID, doc.DocumentID)

	cap := server.LastCapture()
	cap.AssertMethod(t, "POST")
	cap.AssertContentType(t, "application/json")
	cap.AssertJSONField(t, "templateId", testutil.TestTemplateID)
	cap.AssertJSONField(t, "output_format", "pdf")

	body := cap.BodyMap(t)
	options, ok := body["options"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "high", options["compression_level"])
	assert.Equal(t, "standard", options["security"])
	assert.Equal(t, true, options["include_metadata"])
	assert.Equal(t, map[string]any{"customer_name": "Ada"}, body["data"])
}

func TestGenerateDocument_Validation(t *testing.T) {
	server := testutil.NewMockServer(t)
	client, _ := newTestClient(t, server)

	_, err := client.GenerateDocument(context.Background(), foxit.GenerateRequest{})
	assert.ErrorIs(t, err, validate.ErrInvalid)

	_, err = client.GenerateDocument(context.Background(), foxit.GenerateRequest{
		TemplateID: testutil.TestTemplateID,
		Options:    foxit.GenerateOptions{Format: "xls"},
	})
	assert.ErrorIs(t, err, validate.ErrInvalid)

	assert.Zero(t, server.CaptureCount())
}

func TestGenerateDocument_RetriesTransientFailure(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("POST", "/generate-document", testutil.ReplySequence(
		func(w http.ResponseWriter, r *http.Request) { testutil.ReplyServerError(w, 502, "bad gateway") },
		func(w http.ResponseWriter, r *http.Request) {
			testutil.ReplyJSON(w, map[string]any{"success": true, "document_id": "doc_1"})
		},
	))
	client, sleeper := newTestClient(t, server)

	doc, err := client.GenerateDocument(context.Background(), foxit.GenerateRequest{TemplateID: testutil.TestTemplateID})

	require.NoError(t, err)
	assert.Equal(t, "doc_1", doc.DocumentID)
	assert.Equal(t, 2, server.CountPath("/generate-document"))
	assert.Equal(t, 1, sleeper.CallCount())
}

func TestGenerateDocument_VendorRejection(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("POST", "/generate-document", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{"success": false, "error": "unknown template"})
	})
	client, _ := newTestClient(t, server)

	_, err := client.GenerateDocument(context.Background(), foxit.GenerateRequest{TemplateID: "nope"})

	assert.ErrorIs(t, err, gateway.ErrRejected)
	assert.Contains(t, err.Error(), "unknown template")
	assert.Equal(t, 1, server.CountPath("/generate-document"))
}

func TestGenerateDocument_NotDeduplicated(t *testing.T) {
	server := testutil.NewMockServer(t)
	client, _ := newTestClient(t, server)
	req := foxit.GenerateRequest{TemplateID: testutil.TestTemplateID}

	for range 2 {
		_, err := client.GenerateDocument(context.Background(), req)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, server.CountPath("/generate-document"))
}

func TestGenerateDocument_MockFallback(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On("/generate-document", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyServerError(w, 500, "down")
	})
	client, _ := newTestClient(t, server, func(c *foxit.Config) { c.MockMode = true })

	doc, err := client.GenerateDocument(context.Background(), foxit.GenerateRequest{TemplateID: "invoice"})

	require.NoError(t, err)
	assert.True(t, doc.Success)
	assert.Regexp(t, `^doc_[0-9a-f]{8}$`, doc.DocumentID)
	assert.Contains(t, doc.DocumentURL, doc.DocumentID)
}

func TestProcessWorkflow(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("POST", "/process-pdf-workflow", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{"success": true, "processed_document_id": "processed_1"})
	})
	client, _ := newTestClient(t, server)

	res, err := client.ProcessWorkflow(context.Background(), foxit.WorkflowRequest{
		WorkflowID:  "wf_1",
		DocumentIDs: []string{"doc_1", "doc_2"},
		Operations:  []string{"merge", "watermark"},
	})

	require.NoError(t, err)
	assert.Equal(t, "processed_1", res.ProcessedDocumentID)

	cap := server.LastCapture()
	cap.AssertJSONField(t, "workflowId", "wf_1")
	options := cap.BodyMap(t)["options"].(map[string]any)
	assert.Equal(t, "medium", options["compression_level"])
	assert.Equal(t, "128", options["encryption_level"])
}

func TestProcessWorkflow_RequiresDocuments(t *testing.T) {
	server := testutil.NewMockServer(t)
	client, _ := newTestClient(t, server)

	_, err := client.ProcessWorkflow(context.Background(), foxit.WorkflowRequest{WorkflowID: "wf_1"})

	assert.ErrorIs(t, err, validate.ErrInvalid)
}

func TestDocumentMetadata_CachedAndInvalidatedByDelete(t *testing.T) {
	server := testutil.NewMockServer(t)
	metaPath := "/documents/" + testutil.TestDocumentID + "/metadata"
	server.OnMethod("GET", metaPath, func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{"id": testutil.TestDocumentID, "status": "completed"})
	})
	server.OnMethod("DELETE", "/documents/"+testutil.TestDocumentID, func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{"success": true, "document_id": testutil.TestDocumentID})
	})
	client, _ := newTestClient(t, server)
	ctx := context.Background()

	for range 2 {
		m, err := client.DocumentMetadata(ctx, testutil.TestDocumentID)
		require.NoError(t, err)
		assert.Equal(t, "completed", m.Status)
	}
	assert.Equal(t, 1, server.CountPath(metaPath))

	res, err := client.DeleteDocument(ctx, testutil.TestDocumentID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotContains(t, client.Gateway().CacheStats().Keys, "metadata_"+testutil.TestDocumentID)

	_, err = client.DocumentMetadata(ctx, testutil.TestDocumentID)
	require.NoError(t, err)
	assert.Equal(t, 2, server.CountPath(metaPath))
}

func TestDeleteDocument_NotRetried(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("DELETE", "/documents/"+testutil.TestDocumentID, func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyServerError(w, 503, "unavailable")
	})
	client, _ := newTestClient(t, server)

	_, err := client.DeleteDocument(context.Background(), testutil.TestDocumentID)

	assert.ErrorIs(t, err, gateway.ErrTransport)
	assert.Equal(t, 1, server.CaptureCount())
}

func TestDownloadDocument(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("GET", "/documents/"+testutil.TestDocumentID+"/download", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{
			"download_url": "https://docs.example.com/dl/" + testutil.TestDocumentID,
			"filename":     "welcome.pdf",
			"expires_at":   "2026-01-01T00:00:00Z",
			"file_size":    "1.2 MB",
		})
	})
	client, _ := newTestClient(t, server)

	d, err := client.DownloadDocument(context.Background(), testutil.TestDocumentID)

	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.com/dl/"+testutil.TestDocumentID, d.URL)
	assert.Equal(t, "welcome.pdf", d.Filename)
	assert.Empty(t, client.Gateway().CacheStats().Keys, "downloads are not cached")
}

func TestPollJob_UntilCompleted(t *testing.T) {
	server := testutil.NewMockServer(t)
	path := "/jobs/" + testutil.TestJobID + "/status"
	server.OnMethod("GET", path, testutil.ReplySequence(
		func(w http.ResponseWriter, r *http.Request) {
			testutil.ReplyJSON(w, testutil.TestJob(testutil.TestJobID, foxit.JobPending, 0))
		},
		func(w http.ResponseWriter, r *http.Request) {
			testutil.ReplyJSON(w, testutil.TestJob(testutil.TestJobID, foxit.JobProcessing, 60))
		},
		func(w http.ResponseWriter, r *http.Request) {
			testutil.ReplyJSON(w, testutil.TestJob(testutil.TestJobID, foxit.JobCompleted, 100))
		},
	))
	client, sleeper := newTestClient(t, server)

	var progress []int
	status, err := client.PollJob(context.Background(), testutil.TestJobID, func(s foxit.JobStatus) {
		progress = append(progress, s.Progress)
	})

	require.NoError(t, err)
	assert.Equal(t, foxit.JobCompleted, status.Status)
	assert.True(t, status.Done())
	assert.Equal(t, []int{0, 60, 100}, progress)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, sleeper.Calls())
}

func TestPollJob_Failed(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("GET", "/jobs/"+testutil.TestJobID+"/status", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, testutil.TestJob(testutil.TestJobID, foxit.JobFailed, 40))
	})
	client, _ := newTestClient(t, server)

	status, err := client.PollJob(context.Background(), testutil.TestJobID, nil)

	require.NoError(t, err)
	assert.Equal(t, foxit.JobFailed, status.Status)
}

func TestPollJob_Timeout(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("GET", "/jobs/"+testutil.TestJobID+"/status", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, testutil.TestJob(testutil.TestJobID, foxit.JobProcessing, 50))
	})
	client, _ := newTestClient(t, server, func(c *foxit.Config) { c.PollMaxAttempts = 3 })

	_, err := client.PollJob(context.Background(), testutil.TestJobID, nil)

	assert.ErrorIs(t, err, foxit.ErrPollTimeout)
	assert.Equal(t, 3, server.CaptureCount())
}

func TestPollJob_PropagatesErrors(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("GET", "/jobs/"+testutil.TestJobID+"/status", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyNotFound(w, "job")
	})
	client, _ := newTestClient(t, server)

	_, err := client.PollJob(context.Background(), testutil.TestJobID, nil)

	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestAnalytics_DefaultPeriod(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("GET", "/analytics", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{"success": true, "period": r.URL.Query().Get("period"), "documents_generated": 812})
	})
	client, _ := newTestClient(t, server)

	a, err := client.Analytics(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, foxit.DefaultAnalyticsPeriod, a.Period)
	assert.Equal(t, 812, a.DocumentsGenerated)
	server.LastCapture().AssertQuery(t, "period", foxit.DefaultAnalyticsPeriod)
	assert.Contains(t, client.Gateway().CacheStats().Keys, "analytics_last_30_days")
}

func TestAnalytics_CachedPerPeriod(t *testing.T) {
	server := testutil.NewMockServer(t)
	client, _ := newTestClient(t, server)
	ctx := context.Background()

	for _, period := range []string{"last_7_days", "last_7_days", "last_90_days"} {
		_, err := client.Analytics(ctx, period)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, server.CountPath("/analytics"))
}

func TestBatchGenerate(t *testing.T) {
	server := testutil.NewMockServer(t)
	var inFlight, peak atomic.Int32
	server.OnMethod("POST", "/generate-document", func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		testutil.ReplyJSON(w, map[string]any{"success": true, "document_id": "doc_x"})
	})
	client, _ := newTestClient(t, server, func(c *foxit.Config) { c.BatchConcurrency = 2 })

	reqs := []foxit.GenerateRequest{
		{TemplateID: "welcome_packet"},
		{TemplateID: "contract"},
		{TemplateID: ""},
		{TemplateID: "invoice"},
		{TemplateID: "onboarding_guide"},
	}

	res, err := client.BatchGenerate(context.Background(), reqs)

	require.NoError(t, err)
	require.Len(t, res.Items, 5)
	assert.Equal(t, 5, res.Summary.Total)
	assert.Equal(t, 4, res.Summary.Successful)
	assert.Equal(t, 1, res.Summary.Failed)
	assert.ErrorIs(t, res.Items[2].Err, validate.ErrInvalid)
	assert.Equal(t, "invoice", res.Items[3].TemplateID)
	assert.Equal(t, "doc_x", res.Items[3].Document.DocumentID)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Positive(t, res.Summary.AveragePerDocument)
}

func TestBatchGenerate_Empty(t *testing.T) {
	server := testutil.NewMockServer(t)
	client, _ := newTestClient(t, server)

	res, err := client.BatchGenerate(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, res.Summary.Total)
}

func TestValidateTemplateData(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("GET", "/templates", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{
			"success":   true,
			"templates": []any{testutil.TestTemplate("welcome_packet", "Welcome Packet")},
		})
	})
	client, _ := newTestClient(t, server)
	ctx := context.Background()

	check, err := client.ValidateTemplateData(ctx, "welcome_packet", map[string]any{"name": "Ada", "nickname": "A"})
	require.NoError(t, err)
	assert.False(t, check.Valid)
	assert.Equal(t, []string{"email"}, check.Missing)
	assert.Equal(t, []string{"nickname"}, check.Extra)
	assert.Equal(t, []string{"Add missing field: email"}, check.Suggestions)

	check, err = client.ValidateTemplateData(ctx, "welcome_packet", map[string]any{"name": "Ada", "email": "ada@example.com"})
	require.NoError(t, err)
	assert.True(t, check.Valid)

	check, err = client.ValidateTemplateData(ctx, "unknown", nil)
	require.NoError(t, err)
	assert.False(t, check.Valid)
	assert.Equal(t, []string{"Template not found"}, check.Suggestions)

	assert.Equal(t, 1, server.CountPath("/templates"))
}
