package sync

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Order is an immutable snapshot of a Shopify order as delivered by the
// orders/create webhook. JSON tags follow the Shopify Admin API payload.
type Order struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	OrderNumber     int            `json:"order_number"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	Note            string         `json:"note"`
	Tags            string         `json:"tags"`
	FinancialStatus string         `json:"financial_status"`
	CreatedAt       time.Time      `json:"created_at"`
	Customer        *OrderCustomer `json:"customer"`
	BillingAddress  *OrderAddress  `json:"billing_address"`
	ShippingAddress *OrderAddress  `json:"shipping_address"`
	LineItems       []LineItem     `json:"line_items"`
}

// OrderCustomer carries the customer fields referenced during contact
// resolution. Shopify includes many more; we only decode what we use.
type OrderCustomer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
}

// OrderAddress is a billing or shipping address on the order.
type OrderAddress struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Company      string `json:"company"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	Province     string `json:"province"`
	ProvinceCode string `json:"province_code"`
	Zip          string `json:"zip"`
	CountryCode  string `json:"country_code"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// LineItem is one line of the order.
type LineItem struct {
	Name             string             `json:"name"`
	Title            string             `json:"title"`
	SKU              string             `json:"sku"`
	Price            string             `json:"price"`
	Quantity         int                `json:"quantity"`
	ProductType      string             `json:"product_type"`
	RequiresShipping bool               `json:"requires_shipping"`
	VariantTitle     string             `json:"variant_title"`
	Taxable          bool               `json:"taxable"`
	Properties       []LineItemProperty `json:"properties"`
}

// LineItemProperty is an arbitrary name/value pair attached to a line item
// by the storefront (cart attributes, product customizations).
type LineItemProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OrderIDString returns the order ID in the string form used as the ledger key.
func (o *Order) OrderIDString() string {
	return strconv.FormatInt(o.ID, 10)
}

// DisplayName returns the merchant-facing order identifier, preferring the
// display name (e.g. "#1001") over the bare order number.
func (o *Order) DisplayName() string {
	if o.Name != "" {
		return o.Name
	}
	return fmt.Sprintf("#%d", o.OrderNumber)
}

// ParsedTags splits the comma-joined tag string into trimmed, lowercased,
// non-empty tags.
func (o *Order) ParsedTags() []string {
	parts := strings.Split(o.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.ToLower(strings.TrimSpace(p))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// HasTag reports whether the order carries the given tag. Comparison is
// case-insensitive; an empty tag never matches so that an unset rule cannot
// vacuously apply to every order.
func (o *Order) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return false
	}
	for _, t := range o.ParsedTags() {
		if t == tag {
			return true
		}
	}
	return false
}

// ContactEmail resolves the customer email for contact resolution, checking
// the order, the customer record, and the billing address in that priority.
// The returned email is trimmed and lowercased; empty means none present.
func (o *Order) ContactEmail() string {
	email := o.Email
	if email == "" && o.Customer != nil {
		email = o.Customer.Email
	}
	if email == "" && o.BillingAddress != nil {
		email = o.BillingAddress.Email
	}
	return strings.ToLower(strings.TrimSpace(email))
}

// ContactName returns the first and last name to use for a new contact,
// preferring the billing address over the customer record. Shopify allows
// fully anonymous checkouts, so the first name falls back to "Guest".
func (o *Order) ContactName() (first, last string) {
	if o.BillingAddress != nil {
		first, last = o.BillingAddress.FirstName, o.BillingAddress.LastName
	}
	if first == "" && o.Customer != nil {
		first = o.Customer.FirstName
	}
	if last == "" && o.Customer != nil {
		last = o.Customer.LastName
	}
	if first == "" {
		first = "Guest"
	}
	return first, last
}

// ContactPhone returns the phone number for a new contact.
func (o *Order) ContactPhone() string {
	if o.BillingAddress != nil && o.BillingAddress.Phone != "" {
		return o.BillingAddress.Phone
	}
	if o.Phone != "" {
		return o.Phone
	}
	if o.Customer != nil {
		return o.Customer.Phone
	}
	return ""
}

// CompanyName returns the company for a new customer record, if any.
func (o *Order) CompanyName() string {
	if o.BillingAddress != nil && o.BillingAddress.Company != "" {
		return o.BillingAddress.Company
	}
	if o.Customer != nil {
		return o.Customer.Company
	}
	return ""
}
