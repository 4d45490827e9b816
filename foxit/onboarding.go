package foxit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prilive-com/onboardiq/internal/validate"
)

// Templates used for customer onboarding documents.
const (
	TemplateWelcomePacket   = "welcome_packet"
	TemplateOnboardingGuide = "onboarding_guide"
	TemplateInvoice         = "invoice"
)

// DefaultCurrency is used for invoices without a currency.
const DefaultCurrency = "USD"

// InvoiceDueIn is the default time between issuing and due date.
const InvoiceDueIn = 30 * 24 * time.Hour

// Customer identifies who an onboarding document is for.
type Customer struct {
	UserID  string
	Name    string
	Company string
	Plan    string
	Email   string
	Phone   string
}

func (cu Customer) validate() error {
	if err := validate.Required("user_id", cu.UserID); err != nil {
		return err
	}
	return validate.Required("name", cu.Name)
}

// InvoiceItem is one billed line. A zero Total is Quantity * UnitPrice.
type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// Invoice describes what to bill. A zero Amount is the sum of the items and
// a zero DueDate is InvoiceDueIn from now.
type Invoice struct {
	Amount   float64
	Currency string // USD, EUR or GBP
	DueDate  time.Time
	Items    []InvoiceItem
}

// CreateWelcomePacket generates the welcome packet for a new customer.
func (c *Client) CreateWelcomePacket(ctx context.Context, cu Customer) (Document, error) {
	if err := cu.validate(); err != nil {
		return Document{}, err
	}
	now := c.now().UTC()

	data := customerData(cu, now)
	data["customer_name"] = cu.Name
	data["company_name"] = cu.Company
	data["start_date"] = now.Format(time.DateOnly)
	data["welcome_message"] = fmt.Sprintf("Welcome to %s, %s!", or(cu.Company, "OnboardIQ"), cu.Name)
	data["email"] = cu.Email
	data["phone"] = cu.Phone

	return c.GenerateDocument(ctx, GenerateRequest{TemplateID: TemplateWelcomePacket, Data: data})
}

// CreateOnboardingGuide generates a step-by-step guide covering features.
// Without features the guide covers the plan's basics.
func (c *Client) CreateOnboardingGuide(ctx context.Context, cu Customer, features []string) (Document, error) {
	if err := cu.validate(); err != nil {
		return Document{}, err
	}
	if len(features) == 0 {
		features = []string{"account setup", "identity verification", "document signing"}
	}

	steps := make([]string, len(features))
	for i, f := range features {
		steps[i] = fmt.Sprintf("%d. %s", i+1, f)
	}

	data := customerData(cu, c.now().UTC())
	data["customer_name"] = cu.Name
	data["product_name"] = or(cu.Plan, "OnboardIQ")
	data["onboarding_steps"] = steps
	data["support_contact"] = "support@onboardiq.com"

	return c.GenerateDocument(ctx, GenerateRequest{TemplateID: TemplateOnboardingGuide, Data: data})
}

// CreateInvoice generates an invoice for cu with a fresh invoice number.
func (c *Client) CreateInvoice(ctx context.Context, cu Customer, inv Invoice) (Document, error) {
	if err := cu.validate(); err != nil {
		return Document{}, err
	}
	currency := or(inv.Currency, DefaultCurrency)
	if err := validate.OneOf("currency", currency, "USD", "EUR", "GBP"); err != nil {
		return Document{}, err
	}

	items := make([]InvoiceItem, len(inv.Items))
	var sum float64
	for i, it := range inv.Items {
		if it.Quantity < 1 {
			return Document{}, validate.Newf("items", "item %d: quantity must be positive", i)
		}
		if it.Total == 0 {
			it.Total = float64(it.Quantity) * it.UnitPrice
		}
		items[i] = it
		sum += it.Total
	}

	amount := inv.Amount
	if amount == 0 {
		amount = sum
	}
	if amount <= 0 {
		return Document{}, validate.New("amount", "must be positive")
	}

	now := c.now().UTC()
	due := inv.DueDate
	if due.IsZero() {
		due = now.Add(InvoiceDueIn)
	}

	data := customerData(cu, now)
	data["client_name"] = cu.Name
	data["company_name"] = cu.Company
	data["invoice_number"] = invoiceNumber(now)
	data["amount"] = amount
	data["currency"] = currency
	data["due_date"] = due.Format(time.DateOnly)
	data["services"] = items

	return c.GenerateDocument(ctx, GenerateRequest{TemplateID: TemplateInvoice, Data: data})
}

func customerData(cu Customer, now time.Time) map[string]any {
	return map[string]any{
		"user_id":      cu.UserID,
		"plan":         cu.Plan,
		"generated_at": now.Format(time.RFC3339),
	}
}

// invoiceNumber is INV-<date>-<8 hex chars>.
func invoiceNumber(now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "INV-" + now.Format("20060102") + "-" + strings.ToUpper(id[:8])
}

func or[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
