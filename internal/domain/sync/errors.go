package sync

import "errors"

var (
	// Configuration errors
	ErrMerchantNotFound = errors.New("sync: merchant not found")
	ErrAPIKeyMissing    = errors.New("sync: printavo api key not configured")

	// Validation errors
	ErrMissingEmail    = errors.New("sync: order has no customer email")
	ErrNoEligibleItems = errors.New("sync: no eligible line items after filtering")

	// Upstream errors
	ErrPlatformRequestFailed   = errors.New("sync: printavo request failed")
	ErrPlatformInvalidResponse = errors.New("sync: invalid printavo response")
	ErrContactCreationFailed   = errors.New("sync: customer creation failed")
	ErrQuoteCreationFailed     = errors.New("sync: quote creation failed")

	// Ledger errors
	ErrMappingNotFound = errors.New("sync: order mapping not found")
	// ErrMappingExists is returned by OrderMappingRepository.Record when the
	// ledger already holds a row for (shop, order). The caller must treat the
	// recorded quote as the authoritative outcome, not as a failure.
	ErrMappingExists = errors.New("sync: order mapping already exists")
)
