package sync

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Printavo value objects
// ---------------------------------------------------------------------------

// Contact is a Printavo contact as returned by the contact lookup.
type Contact struct {
	ID         string
	FirstName  string
	LastName   string
	Emails     []string
	CustomerID string
}

// HasEmail reports whether the contact has the given email registered,
// compared case-insensitively.
func (c *Contact) HasEmail(email string) bool {
	for _, e := range c.Emails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

// Customer is a Printavo customer created for a first-time buyer.
type Customer struct {
	ID                   string
	CompanyName          string
	PrimaryContactID     string
	PrimaryContactEmails []string
}

// Quote is the Printavo quote created from an order.
type Quote struct {
	ID        string
	Nickname  string
	ContactID string
}

// ---------------------------------------------------------------------------
// Creation inputs
// ---------------------------------------------------------------------------

// AddressInput is the Printavo address shape for customers and quotes.
type AddressInput struct {
	Name     string
	Address1 string
	Address2 string
	City     string
	State    string
	Zip      string
	Country  string
	Phone    string
}

// ContactInput is the primary contact for a new customer.
type ContactInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// CustomerCreateInput creates a customer together with its primary contact.
type CustomerCreateInput struct {
	PrimaryContact  ContactInput
	CompanyName     string
	BillingAddress  *AddressInput
	ShippingAddress *AddressInput
	InternalNote    string
}

// SizeCount is one size/quantity pair on a quote line item.
type SizeCount struct {
	Size  LineItemSize
	Count int
}

// LineItemInput is one line on the quote. Price is the per-unit price; the
// quantity travels in Sizes, never multiplied into the price.
type LineItemInput struct {
	Position    int
	Description string
	ItemNumber  string
	Price       decimal.Decimal
	Taxed       bool
	Sizes       []SizeCount
}

// LineItemGroupInput groups line items on the quote.
type LineItemGroupInput struct {
	Position  int
	LineItems []LineItemInput
}

// QuoteCreateInput is the full quote creation request.
type QuoteCreateInput struct {
	ContactID       string
	CustomerDueAt   string // ISO8601 date (YYYY-MM-DD)
	DueAt           string // ISO8601 date-time
	Nickname        string
	VisualPoNumber  string
	CustomerNote    string
	ProductionNote  string
	Tags            []string
	BillingAddress  *AddressInput
	ShippingAddress *AddressInput
	LineItemGroups  []LineItemGroupInput
}

// ---------------------------------------------------------------------------
// ProductionPlatform port
// ---------------------------------------------------------------------------

// ProductionPlatform is the port to the Printavo API. The reconciliation
// core uses exactly three operations; transport, auth headers, and retry
// policy belong to the adapter in the infrastructure layer. Each call either
// returns a typed payload or an error wrapping ErrPlatformRequestFailed /
// ErrPlatformInvalidResponse with the API's field-level messages.
type ProductionPlatform interface {
	// FindContactsByEmail queries contacts matching the email. The returned
	// order is the API's; callers take the first exact email match.
	FindContactsByEmail(ctx context.Context, apiKey, email string) ([]Contact, error)

	// CreateCustomer creates a customer with a primary contact.
	CreateCustomer(ctx context.Context, apiKey string, input *CustomerCreateInput) (*Customer, error)

	// CreateQuote creates a quote. No cleanup is attempted on failure; a
	// failed create leaves no artifact to reconcile.
	CreateQuote(ctx context.Context, apiKey string, input *QuoteCreateInput) (*Quote, error)

	// TestConnection verifies the API key with a minimal query.
	TestConnection(ctx context.Context, apiKey string) error
}
