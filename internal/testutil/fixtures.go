package testutil

import "time"

// Test constants for consistent test data.
const (
	// TestAPIKey is a vendor API key for testing.
	TestAPIKey = "test-key-5f2b9c0e7a1d4e8f"

	// TestAPISecret is a vendor API secret for testing.
	TestAPISecret = "test-secret-a91c3e"

	// TestPhone is a valid E.164 phone number.
	TestPhone = "+14155550123"

	// TestBrand is the sender brand used for verification messages.
	TestBrand = "OnboardIQ"

	// TestTemplateID is a document template ID.
	TestTemplateID = "tpl_welcome_packet"

	// TestDocumentID is a generated document ID.
	TestDocumentID = "doc_7f3a21"

	// TestJobID is a workflow job ID.
	TestJobID = "job_42"

	// TestRequestID is a verification request ID.
	TestRequestID = "req_8c1e55"
)

// TestTemplate returns a template payload as served by the document API.
func TestTemplate(id, name string) map[string]any {
	return map[string]any{
		"id":          id,
		"name":        name,
		"description": "Template " + name,
		"category":    "onboarding",
		"fields":      []string{"name", "email"},
	}
}

// TestDocument returns a generated document payload.
func TestDocument(id string) map[string]any {
	return map[string]any{
		"document_id":  id,
		"status":       "completed",
		"download_url": "https://docs.example.com/" + id + ".pdf",
		"created_at":   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Format(time.RFC3339),
		"pages":        3,
		"size_bytes":   48213,
	}
}

// TestJob returns a job status payload.
func TestJob(id, status string, progress int) map[string]any {
	return map[string]any{
		"job_id":   id,
		"status":   status,
		"progress": progress,
	}
}

// TestVerification returns a verification start payload.
func TestVerification(requestID string) map[string]any {
	return map[string]any{
		"request_id": requestID,
		"status":     "0",
	}
}
