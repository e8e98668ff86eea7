package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/printsync/backend/internal/domain/sync"
	"github.com/printsync/backend/internal/infrastructure/telemetry"
)

// ReconcileService orchestrates the reconciliation of one Shopify order
// into one Printavo quote: ledger check, policy evaluation, contact
// resolution, quote creation, ledger record, activity log.
//
// All network calls within one attempt are sequential because each step
// depends on the previous one. Attempts for the same or different shops may
// run concurrently; the ledger's unique constraint is the only
// concurrency-control mechanism. A crash after the quote-create call but
// before the ledger record leaves an orphaned Printavo quote with no local
// mapping. That window is accepted: closing it would require a cross-system
// two-phase commit, and duplicate webhooks already recover via the ledger.
type ReconcileService struct {
	merchants  sync.MerchantRepository
	mappings   sync.OrderMappingRepository
	activities sync.ActivityRepository
	platform   sync.ProductionPlatform
	resolver   *ContactResolver

	// defaultAPIKey is the process-wide Printavo credential used when a
	// merchant has not configured their own. Injected at construction so
	// the core never reads ambient environment state.
	defaultAPIKey string

	logger *zap.Logger
	now    func() time.Time
}

// NewReconcileService creates a ReconcileService.
func NewReconcileService(
	merchants sync.MerchantRepository,
	mappings sync.OrderMappingRepository,
	activities sync.ActivityRepository,
	platform sync.ProductionPlatform,
	defaultAPIKey string,
	logger *zap.Logger,
) *ReconcileService {
	return &ReconcileService{
		merchants:     merchants,
		mappings:      mappings,
		activities:    activities,
		platform:      platform,
		resolver:      NewContactResolver(platform),
		defaultAPIKey: defaultAPIKey,
		logger:        logger,
		now:           time.Now,
	}
}

// Reconcile processes one inbound order-creation event for a shop. It never
// returns an error: configuration, validation, and upstream failures all
// surface as Outcome{Success: false}, and every attempt appends exactly one
// activity record.
func (s *ReconcileService) Reconcile(ctx context.Context, shop string, order *sync.Order) Outcome {
	ctx, span := telemetry.StartServiceSpan(ctx, "order_sync", "reconcile",
		telemetry.WithAttribute("shop", shop),
		telemetry.WithAttribute("order_id", order.OrderIDString()),
	)
	defer span.End()

	outcome := s.reconcile(ctx, shop, order)

	if !outcome.Success && outcome.Status == sync.ActivityStatusFailed {
		telemetry.RecordErrorMessage(span, outcome.Message)
	}

	s.appendActivity(ctx, shop, order, outcome)
	return outcome
}

func (s *ReconcileService) reconcile(ctx context.Context, shop string, order *sync.Order) Outcome {
	log := s.logger.With(
		zap.String("shop", shop),
		zap.String("order_id", order.OrderIDString()),
		zap.String("order_name", order.DisplayName()),
	)

	policy, err := s.merchants.FindByShop(ctx, shop)
	if err != nil {
		if errors.Is(err, sync.ErrMerchantNotFound) {
			return failed("Merchant not found")
		}
		return failed(fmt.Sprintf("Failed to load merchant settings: %v", err))
	}

	// Replay check: a recorded mapping is the authoritative outcome and
	// short-circuits before any downstream call.
	if existing, err := s.mappings.Find(ctx, shop, order.OrderIDString()); err == nil {
		log.Info("Order already synced", zap.String("quote_id", existing.PrintavoQuoteID))
		return synced(
			fmt.Sprintf("Order already synced to Printavo quote %s", existing.PrintavoQuoteID),
			existing.PrintavoQuoteID,
		)
	} else if !errors.Is(err, sync.ErrMappingNotFound) {
		return failed(fmt.Sprintf("Failed to check sync ledger: %v", err))
	}

	if decision := sync.Evaluate(policy, order); !decision.Proceed {
		log.Info("Order skipped by policy", zap.String("reason", decision.Reason))
		return skipped(decision.Reason)
	}

	apiKey, err := s.resolveAPIKey(policy)
	if err != nil {
		log.Warn("Sync not configured", zap.Error(err))
		return failed("Printavo API key not configured")
	}

	resolution, err := s.resolver.Resolve(ctx, apiKey, order)
	if err != nil {
		log.Warn("Contact resolution failed", zap.Error(err))
		return failed(fmt.Sprintf("Failed to sync: %v", err))
	}

	quoteInput, warnings, err := sync.BuildQuoteInput(policy, order, resolution.ContactID, s.now())
	if err != nil {
		log.Warn("Order mapping failed", zap.Error(err))
		return failed(fmt.Sprintf("Failed to sync: %v", err))
	}
	for _, w := range warnings {
		log.Warn("Low-confidence field mapping", zap.String("detail", w))
	}

	quote, err := s.platform.CreateQuote(ctx, apiKey, quoteInput)
	if err != nil {
		err = fmt.Errorf("%w: %v", sync.ErrQuoteCreationFailed, err)
		log.Warn("Quote creation failed", zap.Error(err))
		return failed(fmt.Sprintf("Failed to sync: %v", err))
	}

	mapping := sync.NewOrderMapping(
		shop, order.OrderIDString(), order.DisplayName(),
		quote.ID, resolution.ContactID, resolution.CustomerID,
	)
	if err := s.mappings.Record(ctx, mapping); err != nil {
		if errors.Is(err, sync.ErrMappingExists) {
			// Lost a duplicate-trigger race: the quote this attempt created
			// stands, at the accepted cost of a rare duplicate downstream
			// record. Still a success for the caller.
			log.Info("Concurrent sync detected, mapping already recorded",
				zap.String("quote_id", quote.ID))
			return synced(
				fmt.Sprintf("Order synced successfully (concurrent webhook detected). Quote ID: %s", quote.ID),
				quote.ID,
			)
		}
		// The quote exists downstream but the ledger write failed: this is
		// the documented orphan window, surfaced rather than repaired.
		log.Error("Ledger write failed after quote creation",
			zap.String("quote_id", quote.ID), zap.Error(err))
		return failed(fmt.Sprintf("Quote %s created but recording the sync failed: %v", quote.ID, err))
	}

	message := fmt.Sprintf("Order synced successfully. %s Quote ID: %s",
		customerMessage(resolution.IsNew), quote.ID)
	if len(warnings) > 0 {
		message += " (" + strings.Join(warnings, "; ") + ")"
	}

	log.Info("Order synced",
		zap.String("quote_id", quote.ID),
		zap.Bool("new_customer", resolution.IsNew),
	)
	return synced(message, quote.ID)
}

// resolveAPIKey picks the merchant's stored key over the process-wide
// default, and reports ErrAPIKeyMissing when neither is configured.
func (s *ReconcileService) resolveAPIKey(p *sync.MerchantPolicy) (string, error) {
	if p.PrintavoAPIKey != "" {
		return p.PrintavoAPIKey, nil
	}
	if s.defaultAPIKey != "" {
		return s.defaultAPIKey, nil
	}
	return "", sync.ErrAPIKeyMissing
}

func customerMessage(isNew bool) string {
	if isNew {
		return "New customer created."
	}
	return "Existing customer found."
}

// appendActivity writes the audit entry for an attempt. Best-effort: an
// audit failure is logged but never changes the outcome.
func (s *ReconcileService) appendActivity(ctx context.Context, shop string, order *sync.Order, outcome Outcome) {
	record := sync.NewActivityRecord(shop, order.OrderIDString(), order.DisplayName(), outcome.Status, outcome.Message)
	if err := s.activities.Append(ctx, record); err != nil {
		s.logger.Warn("Failed to append activity record",
			zap.String("shop", shop),
			zap.String("order_id", order.OrderIDString()),
			zap.Error(err),
		)
	}
}
