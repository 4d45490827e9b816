package foxit

import "time"

// Health is the API health report.
type Health struct {
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Features  []string `json:"features"`
	Timestamp string   `json:"timestamp"`
}

// Connectivity is the outcome of Ping.
type Connectivity struct {
	Connected    bool          `json:"connected" yaml:"connected"`
	ResponseTime time.Duration `json:"response_time" yaml:"response_time"`
	Version      string        `json:"version,omitempty" yaml:"version,omitempty"`
}

// Template describes a document template.
type Template struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Fields        []string `json:"fields"`
	PreviewURL    string   `json:"preview_url,omitempty"`
	EstimatedTime string   `json:"estimated_time,omitempty"`
	FileSizeRange string   `json:"file_size_range,omitempty"`
}

type templatesResponse struct {
	Success   bool       `json:"success"`
	Templates []Template `json:"templates"`
	Error     string     `json:"error,omitempty"`
}

// GenerateRequest asks for a document built from a template.
type GenerateRequest struct {
	TemplateID string
	Data       map[string]any
	Options    GenerateOptions
}

// GenerateOptions tune document generation. Zero values use API defaults.
type GenerateOptions struct {
	Format           string // pdf, docx or html
	IncludeWatermark bool
	Compression      bool
	Security         string // standard, high or enterprise
	OmitMetadata     bool
}

type generatePayload struct {
	TemplateID   string         `json:"templateId"`
	Data         map[string]any `json:"data"`
	OutputFormat string         `json:"output_format"`
	Options      struct {
		IncludeMetadata  bool   `json:"include_metadata"`
		IncludeWatermark bool   `json:"includeWatermark"`
		CompressionLevel string `json:"compression_level"`
		Security         string `json:"security"`
	} `json:"options"`
}

// Document is the result of a generation request.
type Document struct {
	Success          bool    `json:"success"`
	DocumentID       string  `json:"document_id,omitempty"`
	DocumentURL      string  `json:"document_url,omitempty"`
	FileSize         string  `json:"file_size,omitempty"`
	GeneratedAt      string  `json:"generated_at,omitempty"`
	ProcessingTime   string  `json:"processing_time,omitempty"`
	CompressionRatio float64 `json:"compression_ratio,omitempty"`
	WatermarkApplied bool    `json:"watermark_applied,omitempty"`
	SecurityLevel    string  `json:"security_level,omitempty"`
	Error            string  `json:"error,omitempty"`
	Details          string  `json:"details,omitempty"`
}

// WorkflowRequest runs a sequence of PDF operations over documents.
type WorkflowRequest struct {
	WorkflowID  string
	DocumentIDs []string
	Operations  []string
	Options     WorkflowOptions
}

// WorkflowOptions tune a PDF workflow. Zero values use API defaults.
type WorkflowOptions struct {
	WatermarkText      string `json:"watermark_text,omitempty"`
	PasswordProtection bool   `json:"password_protection"`
	CompressionLevel   string `json:"compression_level"` // low, medium or high
	EncryptionLevel    string `json:"encryption_level"`  // 128 or 256
}

type workflowPayload struct {
	WorkflowID  string          `json:"workflowId"`
	DocumentIDs []string        `json:"documentIds"`
	Operations  []string        `json:"operations"`
	Options     WorkflowOptions `json:"options"`
}

// WorkflowResult is the processed document.
type WorkflowResult struct {
	Success              bool    `json:"success"`
	ProcessedDocumentID  string  `json:"processed_document_id,omitempty"`
	ProcessedDocumentURL string  `json:"processed_document_url,omitempty"`
	FileSize             string  `json:"file_size,omitempty"`
	ProcessedAt          string  `json:"processed_at,omitempty"`
	ProcessingTime       string  `json:"processing_time,omitempty"`
	CompressionRatio     float64 `json:"compression_ratio,omitempty"`
	WatermarkText        string  `json:"watermark_text,omitempty"`
	EncryptionApplied    bool    `json:"encryption_applied"`
	Error                string  `json:"error,omitempty"`
	Details              string  `json:"details,omitempty"`
}

// Metadata describes a stored document.
type Metadata struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Template    string         `json:"template"`
	Status      string         `json:"status"`
	URL         string         `json:"url,omitempty"`
	Size        string         `json:"size,omitempty"`
	GeneratedAt string         `json:"generated_at,omitempty"`
	Type        string         `json:"type"`
	Extra       map[string]any `json:"metadata,omitempty"`
}

// Download is a time-limited link to a document.
type Download struct {
	URL       string `json:"download_url"`
	Filename  string `json:"filename"`
	ExpiresAt string `json:"expires_at"`
	FileSize  string `json:"file_size"`
}

// Job states reported by JobStatus.
const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// JobStatus reports the progress of an asynchronous job.
type JobStatus struct {
	Success        bool   `json:"success"`
	JobID          string `json:"job_id"`
	Status         string `json:"status"`
	Progress       int    `json:"progress"`
	CreatedAt      string `json:"created_at"`
	CompletedAt    string `json:"completed_at,omitempty"`
	ProcessingTime string `json:"processing_time,omitempty"`
	QueuePosition  int    `json:"queue_position,omitempty"`
}

// Done reports whether the job reached a final state.
func (j JobStatus) Done() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}

// TemplateUsage counts generations per template.
type TemplateUsage struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Analytics summarises API usage over a period.
type Analytics struct {
	Success               bool            `json:"success"`
	Period                string          `json:"period"`
	DocumentsGenerated    int             `json:"documents_generated"`
	WorkflowsProcessed    int             `json:"workflows_processed"`
	AverageProcessingTime string          `json:"average_processing_time"`
	SuccessRate           float64         `json:"success_rate"`
	PopularTemplates      []TemplateUsage `json:"popular_templates"`
	ErrorRate             float64         `json:"error_rate"`
}

// DeleteResult confirms a deletion.
type DeleteResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
	DeletedAt  string `json:"deleted_at"`
}

// BatchItem is the outcome of one request in a batch.
type BatchItem struct {
	TemplateID string
	Document   Document
	Err        error
}

// BatchSummary aggregates a batch.
type BatchSummary struct {
	Total              int
	Successful         int
	Failed             int
	ProcessingTime     time.Duration
	AveragePerDocument time.Duration
}

// BatchResult holds per-request outcomes in request order.
type BatchResult struct {
	Items   []BatchItem
	Summary BatchSummary
}

// TemplateCheck compares request data with a template's fields.
type TemplateCheck struct {
	Valid       bool
	Missing     []string
	Extra       []string
	Suggestions []string
}
