// Package printavo is the HTTP adapter for the Printavo v2 GraphQL API.
// It implements the production platform port used by the order sync
// service: contact lookup, customer creation, and quote creation.
package printavo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/printsync/backend/internal/domain/sync"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 2 * 1024 * 1024 // 2MB max response

// Client is a Printavo GraphQL API client. The merchant's API key is passed
// per call, so one client serves every merchant.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new Printavo client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// FindContactsByEmail queries Printavo contacts matching the email. Order
// of the result is the API's; callers pick the first exact email match.
func (c *Client) FindContactsByEmail(ctx context.Context, apiKey, email string) ([]sync.Contact, error) {
	var payload contactSearchPayload
	err := c.execute(ctx, apiKey, findContactsQuery, map[string]any{"q": email}, &payload)
	if err != nil {
		return nil, err
	}

	contacts := make([]sync.Contact, 0, len(payload.Contacts.Nodes))
	for i := range payload.Contacts.Nodes {
		contacts = append(contacts, payload.Contacts.Nodes[i].toDomain())
	}
	return contacts, nil
}

// CreateCustomer creates a Printavo customer together with its primary contact
func (c *Client) CreateCustomer(ctx context.Context, apiKey string, input *sync.CustomerCreateInput) (*sync.Customer, error) {
	var payload customerCreatePayload
	variables := map[string]any{"input": customerCreateFromDomain(input)}
	if err := c.execute(ctx, apiKey, customerCreateMutation, variables, &payload); err != nil {
		return nil, err
	}

	if payload.CustomerCreate.Customer == nil {
		return nil, fmt.Errorf("%w: customerCreate returned no customer", sync.ErrPlatformInvalidResponse)
	}
	return payload.CustomerCreate.Customer.toDomain(), nil
}

// CreateQuote creates a Printavo quote. Nothing is cleaned up on failure;
// a failed create leaves no quote behind.
func (c *Client) CreateQuote(ctx context.Context, apiKey string, input *sync.QuoteCreateInput) (*sync.Quote, error) {
	var payload quoteCreatePayload
	variables := map[string]any{"input": quoteCreateFromDomain(input)}
	if err := c.execute(ctx, apiKey, quoteCreateMutation, variables, &payload); err != nil {
		return nil, err
	}

	if payload.QuoteCreate.Quote == nil {
		return nil, fmt.Errorf("%w: quoteCreate returned no quote", sync.ErrPlatformInvalidResponse)
	}
	return payload.QuoteCreate.Quote.toDomain(), nil
}

// TestConnection verifies the API key with a minimal query
func (c *Client) TestConnection(ctx context.Context, apiKey string) error {
	return c.execute(ctx, apiKey, testConnectionQuery, nil, nil)
}

// execute performs one GraphQL request against the Printavo API and decodes
// the data payload into out when it is non-nil.
func (c *Client) execute(ctx context.Context, apiKey, query string, variables map[string]any, out any) error {
	bodyBytes, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("printavo: failed to marshal request: %w", err)
	}

	url := c.config.APIBaseURL + "/graphql"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("printavo: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", sync.ErrPlatformRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("printavo: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: HTTP %d", sync.ErrPlatformRequestFailed, resp.StatusCode)
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: %v", sync.ErrPlatformInvalidResponse, err)
	}

	if len(envelope.Errors) > 0 {
		return fmt.Errorf("%w: %s", sync.ErrPlatformRequestFailed, envelope.errorMessages())
	}

	if out != nil {
		if len(envelope.Data) == 0 {
			return fmt.Errorf("%w: empty data", sync.ErrPlatformInvalidResponse)
		}
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%w: %v", sync.ErrPlatformInvalidResponse, err)
		}
	}

	return nil
}

// Ensure Client implements the ProductionPlatform interface
var _ sync.ProductionPlatform = (*Client)(nil)
