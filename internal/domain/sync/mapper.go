package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product types that never sync regardless of merchant configuration.
const (
	productTypeGiftCard = "gift card"
	productTypeDigital  = "digital"
	productTypeService  = "service"
)

// dueDateOffset is how far out the quote's customer due date is set.
const dueDateOffset = 7 * 24 * time.Hour

// ItemEligible reports whether a single line item survives the merchant's
// line-item filter. An item is excluded if any rule matches.
func ItemEligible(p *MerchantPolicy, item *LineItem) bool {
	productType := strings.ToLower(strings.TrimSpace(item.ProductType))

	if p.SkipGiftCards && productType == productTypeGiftCard {
		return false
	}
	if productType == productTypeDigital || productType == productTypeService {
		return false
	}
	if p.SkipNonPhysical && !item.RequiresShipping {
		return false
	}
	if p.RespectLineItemSkip {
		skipProp := p.SkipPropertyName()
		for _, prop := range item.Properties {
			if strings.EqualFold(prop.Name, skipProp) {
				return false
			}
		}
	}
	return true
}

// FilterLineItems returns the items eligible for sync, preserving order.
func FilterLineItems(p *MerchantPolicy, items []LineItem) []LineItem {
	eligible := make([]LineItem, 0, len(items))
	for i := range items {
		if ItemEligible(p, &items[i]) {
			eligible = append(eligible, items[i])
		}
	}
	return eligible
}

// MapAddress converts an order address to the Printavo shape. A nil source
// address maps to nil, which the API treats as absent; it is not an error.
func MapAddress(a *OrderAddress) *AddressInput {
	if a == nil {
		return nil
	}
	state := a.Province
	if state == "" {
		state = a.ProvinceCode
	}
	return &AddressInput{
		Name:     strings.TrimSpace(a.FirstName + " " + a.LastName),
		Address1: a.Address1,
		Address2: a.Address2,
		City:     a.City,
		State:    state,
		Zip:      a.Zip,
		Country:  a.CountryCode,
		Phone:    a.Phone,
	}
}

// BuildLineItems maps the eligible line items to quote inputs. Positions are
// 1-based over the filtered set. Returns ErrNoEligibleItems when the filter
// leaves nothing; the returned warnings name the items whose size token did
// not match the enumeration and was defaulted to medium.
func BuildLineItems(p *MerchantPolicy, items []LineItem) ([]LineItemInput, []string, error) {
	eligible := FilterLineItems(p, items)
	if len(eligible) == 0 {
		return nil, nil, ErrNoEligibleItems
	}

	inputs := make([]LineItemInput, 0, len(eligible))
	var warnings []string
	for i := range eligible {
		item := &eligible[i]

		raw := ExtractSize(item)
		size, exact := NormalizeSize(raw)
		if !exact {
			warnings = append(warnings,
				fmt.Sprintf("size %q on %q did not match a known size, defaulted to M", raw, item.Name))
		}

		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			price = decimal.Zero
			warnings = append(warnings,
				fmt.Sprintf("unparseable price %q on %q, defaulted to 0", item.Price, item.Name))
		}

		description := item.Name
		if item.VariantTitle != "" {
			description += " - " + item.VariantTitle
		}

		inputs = append(inputs, LineItemInput{
			Position:    i + 1,
			Description: description,
			ItemNumber:  item.SKU,
			Price:       price,
			Taxed:       item.Taxable,
			Sizes:       []SizeCount{{Size: size, Count: item.Quantity}},
		})
	}
	return inputs, warnings, nil
}

// BuildQuoteInput composes the full quote creation request for an order.
// The due date is now+7 calendar days, carried both date-only and as a full
// timestamp. Tags are "shopify", plus "paid" when the order is paid, plus
// the order's own tags.
func BuildQuoteInput(p *MerchantPolicy, o *Order, contactID string, now time.Time) (*QuoteCreateInput, []string, error) {
	lineItems, warnings, err := BuildLineItems(p, o.LineItems)
	if err != nil {
		return nil, nil, err
	}

	due := now.Add(dueDateOffset)

	tags := []string{"shopify"}
	if o.FinancialStatus == "paid" {
		tags = append(tags, "paid")
	}
	tags = append(tags, o.ParsedTags()...)

	noteLines := []string{
		fmt.Sprintf("Shopify Order ID: %d", o.ID),
		fmt.Sprintf("Order Number: %s", o.DisplayName()),
		fmt.Sprintf("Created: %s", o.CreatedAt.Format(time.RFC3339)),
	}
	if o.Note != "" {
		noteLines = append(noteLines, "Customer Note: "+o.Note)
	}

	return &QuoteCreateInput{
		ContactID:       contactID,
		CustomerDueAt:   due.Format("2006-01-02"),
		DueAt:           due.Format(time.RFC3339),
		Nickname:        "Shopify " + o.DisplayName(),
		VisualPoNumber:  "Shopify-" + strings.TrimPrefix(o.DisplayName(), "#"),
		CustomerNote:    o.Note,
		ProductionNote:  strings.Join(noteLines, "\n"),
		Tags:            tags,
		BillingAddress:  MapAddress(o.BillingAddress),
		ShippingAddress: MapAddress(o.ShippingAddress),
		LineItemGroups: []LineItemGroupInput{
			{Position: 1, LineItems: lineItems},
		},
	}, warnings, nil
}

// BuildCustomerInput composes the customer+primary-contact creation request
// used when contact lookup finds no match.
func BuildCustomerInput(o *Order, email string) *CustomerCreateInput {
	first, last := o.ContactName()

	company := o.CompanyName()
	if company == "" {
		company = strings.TrimSpace(first + " " + last)
	}
	if company == "" {
		company = email
	}

	return &CustomerCreateInput{
		PrimaryContact: ContactInput{
			FirstName: first,
			LastName:  last,
			Email:     email,
			Phone:     o.ContactPhone(),
		},
		CompanyName:     company,
		BillingAddress:  MapAddress(o.BillingAddress),
		ShippingAddress: MapAddress(o.ShippingAddress),
		InternalNote:    "Created from Shopify order " + o.DisplayName(),
	}
}
