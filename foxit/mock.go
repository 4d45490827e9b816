package foxit

import (
	"fmt"
	"time"
)

func (c *Client) mockHealth() Health {
	return Health{
		Status:    "healthy",
		Version:   "2.0.0",
		Features:  []string{"document_generation", "pdf_processing", "workflow_automation", "batch_processing", "analytics"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

var mockTemplates = []Template{
	{
		ID:            "welcome_packet",
		Name:          "Welcome Packet",
		Description:   "Personalized welcome letter and onboarding guide",
		Category:      "onboarding",
		Fields:        []string{"customer_name", "company_name", "start_date", "welcome_message"},
		EstimatedTime: "30s",
		FileSizeRange: "1-3 MB",
	},
	{
		ID:            "contract",
		Name:          "Service Contract",
		Description:   "Professional service agreement with terms",
		Category:      "legal",
		Fields:        []string{"client_name", "service_type", "contract_value", "start_date", "end_date"},
		EstimatedTime: "45s",
		FileSizeRange: "2-4 MB",
	},
	{
		ID:            "onboarding_guide",
		Name:          "Onboarding Guide",
		Description:   "Step-by-step customer onboarding process",
		Category:      "onboarding",
		Fields:        []string{"customer_name", "product_name", "onboarding_steps", "support_contact"},
		EstimatedTime: "60s",
		FileSizeRange: "3-5 MB",
	},
	{
		ID:            "invoice",
		Name:          "Invoice",
		Description:   "Professional billing document",
		Category:      "billing",
		Fields:        []string{"client_name", "invoice_number", "amount", "due_date", "services"},
		EstimatedTime: "25s",
		FileSizeRange: "1-2 MB",
	},
}

func (c *Client) mockTemplates() []Template {
	out := make([]Template, len(mockTemplates))
	copy(out, mockTemplates)
	for i := range out {
		out[i].PreviewURL = "https://mock-foxit.com/templates/" + out[i].ID + "_preview.pdf"
	}
	return out
}

func (c *Client) mockDocument(templateID string) Document {
	id := c.mock.ID("doc")
	return Document{
		Success:          true,
		DocumentID:       id,
		DocumentURL:      "https://mock-foxit.com/documents/" + id + ".pdf",
		FileSize:         fmt.Sprintf("%d.%d MB", c.mock.IntRange(1, 3), c.mock.IntRange(0, 9)),
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
		ProcessingTime:   fmt.Sprintf("%d.%ds", c.mock.IntRange(1, 3), c.mock.IntRange(0, 9)),
		CompressionRatio: c.mock.Amount(0.7, 0.9),
		WatermarkApplied: true,
		SecurityLevel:    "standard",
		Details:          "mock document for template " + templateID,
	}
}

func (c *Client) mockWorkflow() WorkflowResult {
	id := c.mock.ID("processed")
	return WorkflowResult{
		Success:              true,
		ProcessedDocumentID:  id,
		ProcessedDocumentURL: "https://mock-foxit.com/processed/" + id + ".pdf",
		FileSize:             fmt.Sprintf("%d.%d MB", c.mock.IntRange(0, 2), c.mock.IntRange(0, 9)),
		ProcessedAt:          time.Now().UTC().Format(time.RFC3339),
		ProcessingTime:       fmt.Sprintf("%d.%ds", c.mock.IntRange(2, 6), c.mock.IntRange(0, 9)),
		CompressionRatio:     c.mock.Amount(0.6, 0.9),
		WatermarkText:        "OnboardIQ - Confidential",
	}
}

func (c *Client) mockAnalytics(period string) Analytics {
	return Analytics{
		Success:               true,
		Period:                period,
		DocumentsGenerated:    c.mock.IntRange(500, 1500),
		WorkflowsProcessed:    c.mock.IntRange(100, 300),
		AverageProcessingTime: fmt.Sprintf("%d.%ds", c.mock.IntRange(1, 3), c.mock.IntRange(0, 9)),
		SuccessRate:           c.mock.Amount(98.5, 100),
		PopularTemplates: []TemplateUsage{
			{ID: "welcome_packet", Count: c.mock.IntRange(200, 500)},
			{ID: "contract", Count: c.mock.IntRange(150, 350)},
			{ID: "invoice", Count: c.mock.IntRange(100, 250)},
		},
		ErrorRate: c.mock.Amount(1.5, 2.5),
	}
}
