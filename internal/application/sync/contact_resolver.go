package sync

import (
	"context"
	"fmt"

	"github.com/printsync/backend/internal/domain/sync"
)

// ContactResolution is the result of resolving an order to a Printavo
// contact.
type ContactResolution struct {
	ContactID  string
	CustomerID string
	IsNew      bool
}

// ContactResolver finds the Printavo contact for an order's customer, or
// creates a customer+primary-contact pair when none exists. It performs at
// most one create call per invocation and never retries; the caller decides
// what a failure means.
type ContactResolver struct {
	platform sync.ProductionPlatform
}

// NewContactResolver creates a ContactResolver backed by the given platform.
func NewContactResolver(platform sync.ProductionPlatform) *ContactResolver {
	return &ContactResolver{platform: platform}
}

// Resolve runs the two-state lookup/create protocol. It fails with
// ErrMissingEmail before any API call when the order carries no email
// anywhere, and with ErrContactCreationFailed when the create call errors
// or the response has no contact id.
func (r *ContactResolver) Resolve(ctx context.Context, apiKey string, order *sync.Order) (*ContactResolution, error) {
	email := order.ContactEmail()
	if email == "" {
		return nil, sync.ErrMissingEmail
	}

	contacts, err := r.platform.FindContactsByEmail(ctx, apiKey, email)
	if err != nil {
		return nil, fmt.Errorf("contact lookup: %w", err)
	}

	// First exact match wins; ties break by API return order.
	for i := range contacts {
		if contacts[i].HasEmail(email) {
			return &ContactResolution{
				ContactID:  contacts[i].ID,
				CustomerID: contacts[i].CustomerID,
				IsNew:      false,
			}, nil
		}
	}

	customer, err := r.platform.CreateCustomer(ctx, apiKey, sync.BuildCustomerInput(order, email))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sync.ErrContactCreationFailed, err)
	}
	if customer.PrimaryContactID == "" {
		return nil, fmt.Errorf("%w: customer created but no contact id returned", sync.ErrContactCreationFailed)
	}

	return &ContactResolution{
		ContactID:  customer.PrimaryContactID,
		CustomerID: customer.ID,
		IsNew:      true,
	}, nil
}
