package handler

import (
	"time"

	"github.com/printsync/backend/internal/domain/sync"
)

// SettingsResponse is the merchant policy as returned to the embedded app.
// The Printavo API key is never echoed back; only its presence is.
type SettingsResponse struct {
	Shop              string   `json:"shop"`
	SyncEnabled       bool     `json:"sync_enabled"`
	PrintavoAPIKeySet bool     `json:"printavo_api_key_set"`
	ExcludeTag        string   `json:"exclude_tag"`
	RequireIncludeTag bool     `json:"require_include_tag"`
	IncludeTag        string   `json:"include_tag"`
	SyncMode          string   `json:"sync_mode"`
	IncludedTags      []string `json:"included_tags"`

	RespectLineItemSkip  bool   `json:"respect_line_item_skip"`
	LineItemSkipProperty string `json:"line_item_skip_property"`
	SkipGiftCards        bool   `json:"skip_gift_cards"`
	SkipNonPhysical      bool   `json:"skip_non_physical"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSettingsResponse converts a merchant policy to its API shape
func NewSettingsResponse(p *sync.MerchantPolicy) SettingsResponse {
	tags := p.IncludedTags
	if tags == nil {
		tags = []string{}
	}
	return SettingsResponse{
		Shop:                 p.Shop,
		SyncEnabled:          p.SyncEnabled,
		PrintavoAPIKeySet:    p.PrintavoAPIKey != "",
		ExcludeTag:           p.ExcludeTag,
		RequireIncludeTag:    p.RequireIncludeTag,
		IncludeTag:           p.IncludeTag,
		SyncMode:             string(p.SyncMode),
		IncludedTags:         tags,
		RespectLineItemSkip:  p.RespectLineItemSkip,
		LineItemSkipProperty: p.LineItemSkipProperty,
		SkipGiftCards:        p.SkipGiftCards,
		SkipNonPhysical:      p.SkipNonPhysical,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// UpdateSettingsRequest carries a partial policy update. Nil fields keep
// their current value, so the app can save one toggle at a time.
type UpdateSettingsRequest struct {
	SyncEnabled       *bool     `json:"sync_enabled"`
	PrintavoAPIKey    *string   `json:"printavo_api_key"`
	ExcludeTag        *string   `json:"exclude_tag"`
	RequireIncludeTag *bool     `json:"require_include_tag"`
	IncludeTag        *string   `json:"include_tag"`
	SyncMode          *string   `json:"sync_mode"`
	IncludedTags      *[]string `json:"included_tags"`

	RespectLineItemSkip  *bool   `json:"respect_line_item_skip"`
	LineItemSkipProperty *string `json:"line_item_skip_property"`
	SkipGiftCards        *bool   `json:"skip_gift_cards"`
	SkipNonPhysical      *bool   `json:"skip_non_physical"`
}

// Apply writes the non-nil fields onto the policy
func (r *UpdateSettingsRequest) Apply(p *sync.MerchantPolicy) {
	if r.SyncEnabled != nil {
		p.SyncEnabled = *r.SyncEnabled
	}
	if r.PrintavoAPIKey != nil {
		p.PrintavoAPIKey = *r.PrintavoAPIKey
	}
	if r.ExcludeTag != nil {
		p.ExcludeTag = *r.ExcludeTag
	}
	if r.RequireIncludeTag != nil {
		p.RequireIncludeTag = *r.RequireIncludeTag
	}
	if r.IncludeTag != nil {
		p.IncludeTag = *r.IncludeTag
	}
	if r.SyncMode != nil {
		p.SyncMode = sync.SyncMode(*r.SyncMode)
	}
	if r.IncludedTags != nil {
		p.IncludedTags = *r.IncludedTags
	}
	if r.RespectLineItemSkip != nil {
		p.RespectLineItemSkip = *r.RespectLineItemSkip
	}
	if r.LineItemSkipProperty != nil {
		p.LineItemSkipProperty = *r.LineItemSkipProperty
	}
	if r.SkipGiftCards != nil {
		p.SkipGiftCards = *r.SkipGiftCards
	}
	if r.SkipNonPhysical != nil {
		p.SkipNonPhysical = *r.SkipNonPhysical
	}
	p.UpdatedAt = time.Now()
}
