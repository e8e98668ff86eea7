package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/printsync/backend/internal/domain/sync"
)

// MerchantModel is the persistence model for the MerchantPolicy domain entity.
type MerchantModel struct {
	ID                   uuid.UUID     `gorm:"type:uuid;primary_key"`
	Shop                 string        `gorm:"type:varchar(255);not null;uniqueIndex:idx_merchants_shop"`
	PrintavoAPIKey       string        `gorm:"type:text"`
	SyncEnabled          bool          `gorm:"not null;default:true"`
	ExcludeTag           string        `gorm:"type:varchar(255)"`
	RequireIncludeTag    bool          `gorm:"not null;default:false"`
	IncludeTag           string        `gorm:"type:varchar(255)"`
	SyncMode             sync.SyncMode `gorm:"type:varchar(20);not null;default:'all'"`
	IncludedTagsJSON     string        `gorm:"type:text;column:included_tags"`
	RespectLineItemSkip  bool          `gorm:"not null;default:false"`
	LineItemSkipProperty string        `gorm:"type:varchar(255)"`
	SkipGiftCards        bool          `gorm:"not null;default:true"`
	SkipNonPhysical      bool          `gorm:"not null;default:true"`
	CreatedAt            time.Time     `gorm:"not null"`
	UpdatedAt            time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MerchantModel) TableName() string {
	return "merchants"
}

// ToDomain converts the persistence model to a domain MerchantPolicy entity.
func (m *MerchantModel) ToDomain() *sync.MerchantPolicy {
	policy := &sync.MerchantPolicy{
		ID:                   m.ID,
		Shop:                 m.Shop,
		PrintavoAPIKey:       m.PrintavoAPIKey,
		SyncEnabled:          m.SyncEnabled,
		ExcludeTag:           m.ExcludeTag,
		RequireIncludeTag:    m.RequireIncludeTag,
		IncludeTag:           m.IncludeTag,
		SyncMode:             m.SyncMode,
		IncludedTags:         make([]string, 0),
		RespectLineItemSkip:  m.RespectLineItemSkip,
		LineItemSkipProperty: m.LineItemSkipProperty,
		SkipGiftCards:        m.SkipGiftCards,
		SkipNonPhysical:      m.SkipNonPhysical,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}

	if m.IncludedTagsJSON != "" {
		var tags []string
		if err := json.Unmarshal([]byte(m.IncludedTagsJSON), &tags); err == nil {
			policy.IncludedTags = tags
		}
	}

	return policy
}

// FromDomain populates the persistence model from a domain MerchantPolicy entity.
func (m *MerchantModel) FromDomain(p *sync.MerchantPolicy) {
	m.ID = p.ID
	m.Shop = p.Shop
	m.PrintavoAPIKey = p.PrintavoAPIKey
	m.SyncEnabled = p.SyncEnabled
	m.ExcludeTag = p.ExcludeTag
	m.RequireIncludeTag = p.RequireIncludeTag
	m.IncludeTag = p.IncludeTag
	m.SyncMode = p.SyncMode
	m.RespectLineItemSkip = p.RespectLineItemSkip
	m.LineItemSkipProperty = p.LineItemSkipProperty
	m.SkipGiftCards = p.SkipGiftCards
	m.SkipNonPhysical = p.SkipNonPhysical
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt

	if len(p.IncludedTags) > 0 {
		if jsonBytes, err := json.Marshal(p.IncludedTags); err == nil {
			m.IncludedTagsJSON = string(jsonBytes)
		}
	} else {
		m.IncludedTagsJSON = "[]"
	}
}

// MerchantModelFromDomain creates a new persistence model from a domain MerchantPolicy entity.
func MerchantModelFromDomain(p *sync.MerchantPolicy) *MerchantModel {
	m := &MerchantModel{}
	m.FromDomain(p)
	return m
}

// OrderMappingModel is the persistence model for the sync ledger. The unique
// index on (shop, shopify_order_id) is the exactly-once guarantee: a second
// insert for the same order fails at the database regardless of how many
// processes race.
type OrderMappingModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	Shop               string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_order_mappings_shop_order,priority:1"`
	ShopifyOrderID     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_mappings_shop_order,priority:2"`
	ShopifyOrderName   string    `gorm:"type:varchar(255)"`
	PrintavoQuoteID    string    `gorm:"type:varchar(50);not null"`
	PrintavoContactID  string    `gorm:"type:varchar(50)"`
	PrintavoCustomerID string    `gorm:"type:varchar(50)"`
	CreatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderMappingModel) TableName() string {
	return "order_mappings"
}

// ToDomain converts the persistence model to a domain OrderMapping entity.
func (m *OrderMappingModel) ToDomain() *sync.OrderMapping {
	return &sync.OrderMapping{
		ID:                 m.ID,
		Shop:               m.Shop,
		ShopifyOrderID:     m.ShopifyOrderID,
		ShopifyOrderName:   m.ShopifyOrderName,
		PrintavoQuoteID:    m.PrintavoQuoteID,
		PrintavoContactID:  m.PrintavoContactID,
		PrintavoCustomerID: m.PrintavoCustomerID,
		CreatedAt:          m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderMapping entity.
func (m *OrderMappingModel) FromDomain(om *sync.OrderMapping) {
	m.ID = om.ID
	m.Shop = om.Shop
	m.ShopifyOrderID = om.ShopifyOrderID
	m.ShopifyOrderName = om.ShopifyOrderName
	m.PrintavoQuoteID = om.PrintavoQuoteID
	m.PrintavoContactID = om.PrintavoContactID
	m.PrintavoCustomerID = om.PrintavoCustomerID
	m.CreatedAt = om.CreatedAt
}

// OrderMappingModelFromDomain creates a new persistence model from a domain OrderMapping entity.
func OrderMappingModelFromDomain(om *sync.OrderMapping) *OrderMappingModel {
	m := &OrderMappingModel{}
	m.FromDomain(om)
	return m
}

// ActivityLogModel is the persistence model for reconciliation audit entries.
type ActivityLogModel struct {
	ID        uuid.UUID           `gorm:"type:uuid;primary_key"`
	Shop      string              `gorm:"type:varchar(255);not null;index:idx_activity_logs_shop_created,priority:1"`
	OrderID   string              `gorm:"type:varchar(50);not null"`
	OrderName string              `gorm:"type:varchar(255)"`
	Status    sync.ActivityStatus `gorm:"type:varchar(20);not null"`
	Message   string              `gorm:"type:text"`
	CreatedAt time.Time           `gorm:"not null;index:idx_activity_logs_shop_created,priority:2,sort:desc"`
}

// TableName returns the table name for GORM
func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// ToDomain converts the persistence model to a domain ActivityRecord entity.
func (m *ActivityLogModel) ToDomain() *sync.ActivityRecord {
	return &sync.ActivityRecord{
		ID:        m.ID,
		Shop:      m.Shop,
		OrderID:   m.OrderID,
		OrderName: m.OrderName,
		Status:    m.Status,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain ActivityRecord entity.
func (m *ActivityLogModel) FromDomain(r *sync.ActivityRecord) {
	m.ID = r.ID
	m.Shop = r.Shop
	m.OrderID = r.OrderID
	m.OrderName = r.OrderName
	m.Status = r.Status
	m.Message = r.Message
	m.CreatedAt = r.CreatedAt
}

// ActivityLogModelFromDomain creates a new persistence model from a domain ActivityRecord entity.
func ActivityLogModelFromDomain(r *sync.ActivityRecord) *ActivityLogModel {
	m := &ActivityLogModel{}
	m.FromDomain(r)
	return m
}
