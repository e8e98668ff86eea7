package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SyncMode selects between syncing every order and the legacy tag-allowlist
// behavior kept for merchants configured before the include/exclude tag
// fields existed.
type SyncMode string

const (
	SyncModeAll    SyncMode = "all"
	SyncModeTagged SyncMode = "tagged"
)

// IsValid returns true if the mode is valid.
func (m SyncMode) IsValid() bool {
	switch m {
	case SyncModeAll, SyncModeTagged:
		return true
	default:
		return false
	}
}

// MerchantPolicy is the per-merchant sync configuration. It is owned by the
// merchant settings surface; the reconciliation path only reads it.
type MerchantPolicy struct {
	ID   uuid.UUID
	Shop string

	PrintavoAPIKey string
	SyncEnabled    bool

	// Order-level tag rules, evaluated in this order: exclude first, then
	// required include, then the legacy tagged-mode allowlist.
	ExcludeTag        string
	RequireIncludeTag bool
	IncludeTag        string
	SyncMode          SyncMode
	IncludedTags      []string

	// Line-item filtering
	RespectLineItemSkip  bool
	LineItemSkipProperty string
	SkipGiftCards        bool
	SkipNonPhysical      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMerchantPolicy creates a policy with the defaults a fresh install gets.
func NewMerchantPolicy(shop string) *MerchantPolicy {
	now := time.Now()
	return &MerchantPolicy{
		ID:                   uuid.New(),
		Shop:                 shop,
		SyncEnabled:          true,
		SyncMode:             SyncModeAll,
		LineItemSkipProperty: "printavo_skip",
		SkipGiftCards:        true,
		SkipNonPhysical:      true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// SkipPropertyName returns the line-item property name that marks an item as
// excluded from sync.
func (p *MerchantPolicy) SkipPropertyName() string {
	if p.LineItemSkipProperty != "" {
		return p.LineItemSkipProperty
	}
	return "printavo_skip"
}

// Decision is the result of evaluating a policy against an order. Reason is
// merchant-facing and is written verbatim to the activity log on a skip.
type Decision struct {
	Proceed bool
	Reason  string
}

func proceed() Decision {
	return Decision{Proceed: true}
}

func reject(format string, args ...any) Decision {
	return Decision{Proceed: false, Reason: fmt.Sprintf(format, args...)}
}

// Evaluate decides whether an order should sync under the given policy.
// It is pure and total: no I/O, and every policy/order pair yields a
// Decision. Rules short-circuit in a fixed order so precedence stays
// testable:
//
//  1. sync disabled
//  2. exclude tag present on the order
//  3. required include tag configured but absent from the order
//  4. legacy tagged mode: allowlist must be configured and intersect
//
// An empty exclude/include tag disables that rule rather than matching
// every order.
func Evaluate(p *MerchantPolicy, o *Order) Decision {
	if !p.SyncEnabled {
		return reject("Sync is disabled")
	}

	if tag := strings.ToLower(strings.TrimSpace(p.ExcludeTag)); tag != "" && o.HasTag(tag) {
		return reject("Order skipped: excluded by tag %q", tag)
	}

	if p.RequireIncludeTag {
		if tag := strings.ToLower(strings.TrimSpace(p.IncludeTag)); tag != "" && !o.HasTag(tag) {
			return reject("Order skipped: missing required tag %q", tag)
		}
	}

	if p.SyncMode == SyncModeTagged {
		allow := make(map[string]struct{}, len(p.IncludedTags))
		for _, t := range p.IncludedTags {
			t = strings.ToLower(strings.TrimSpace(t))
			if t != "" {
				allow[t] = struct{}{}
			}
		}
		if len(allow) == 0 {
			return reject("No included tags configured for tagged sync mode")
		}
		matched := false
		for _, t := range o.ParsedTags() {
			if _, ok := allow[t]; ok {
				matched = true
				break
			}
		}
		if !matched {
			return reject("Order does not have required tags")
		}
	}

	return proceed()
}

// MerchantRepository is the read/write contract over merchant policies.
// The reconciliation core only calls FindByShop; mutation belongs to the
// settings surface.
type MerchantRepository interface {
	// FindByShop returns the policy for a shop domain, or ErrMerchantNotFound.
	FindByShop(ctx context.Context, shop string) (*MerchantPolicy, error)

	// Save creates or updates a merchant policy.
	Save(ctx context.Context, policy *MerchantPolicy) error

	// DeleteByShop removes the merchant row (uninstall data erasure).
	DeleteByShop(ctx context.Context, shop string) error
}
