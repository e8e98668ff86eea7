// Package sync contains the order reconciliation domain: merchant sync
// policy evaluation, Shopify order field mapping, the idempotency ledger,
// and the port to the Printavo production-management API.
//
// The package is organized around the reconciliation pipeline:
//
//	ledger lookup -> policy evaluation -> contact resolution ->
//	quote construction -> ledger record -> activity log
//
// Everything here is pure or interface-only; side effects live behind the
// repository and ProductionPlatform interfaces implemented in the
// infrastructure layer.
package sync
