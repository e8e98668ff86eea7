package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func orderWithTags(tags string) *Order {
	return &Order{ID: 1001, Name: "#1001", Tags: tags}
}

func TestEvaluate_SyncDisabled(t *testing.T) {
	p := NewMerchantPolicy("test.myshopify.com")
	p.SyncEnabled = false

	d := Evaluate(p, orderWithTags("anything"))

	assert.False(t, d.Proceed)
	assert.Contains(t, d.Reason, "disabled")
}

func TestEvaluate_ExcludeTag(t *testing.T) {
	t.Run("rejects when exclude tag present", func(t *testing.T) {
		p := NewMerchantPolicy("test.myshopify.com")
		p.ExcludeTag = "no-sync"

		d := Evaluate(p, orderWithTags("no-sync, wholesale"))

		assert.False(t, d.Proceed)
		assert.Contains(t, d.Reason, "no-sync")
	})

	t.Run("comparison is case-insensitive", func(t *testing.T) {
		p := NewMerchantPolicy("test.myshopify.com")
		p.ExcludeTag = "No-Printavo"

		d := Evaluate(p, orderWithTags("NO-PRINTAVO"))

		assert.False(t, d.Proceed)
	})

	t.Run("empty exclude tag never matches", func(t *testing.T) {
		p := NewMerchantPolicy("test.myshopify.com")
		p.ExcludeTag = "  "

		// An order with an empty tag segment must not be caught either.
		d := Evaluate(p, orderWithTags("wholesale, ,rush"))

		assert.True(t, d.Proceed)
	})

	t.Run("proceeds when exclude tag absent", func(t *testing.T) {
		p := NewMerchantPolicy("test.myshopify.com")
		p.ExcludeTag = "no-sync"

		d := Evaluate(p, orderWithTags("wholesale"))

		assert.True(t, d.Proceed)
	})
}

func TestEvaluate_RequireIncludeTag(t *testing.T) {
	t.Run("rejects when required tag missing", func(t *testing.T) {
		p := NewMerchantPolicy("test.myshopify.com")
		p.RequireIncludeTag = true
		p.IncludeTag = "printavo"

		d := Evaluate(p, orderWithTags("wholesale"))

		assert.False(t, d.Proceed)
		assert.Contains(t, d.Reason, "printavo")
	})

	t.Run("proceeds when required tag present", func(t *testing.T) {
		p := NewMerchantPolicy("test.myshopify.com")
		p.RequireIncludeTag = true
		p.IncludeTag = "Printavo"

		d := Evaluate(p, orderWithTags("rush, printavo"))

		assert.True(t, d.Proceed)
	})

	t.Run("empty include tag disables the requirement", func(t *testing.T) {
		p := NewMerchantPolicy("test.myshopify.com")
		p.RequireIncludeTag = true
		p.IncludeTag = ""

		// The rule is off, not vacuously unsatisfiable: orders sync
		// regardless of their tags.
		d := Evaluate(p, orderWithTags("wholesale"))
		assert.True(t, d.Proceed)

		d = Evaluate(p, orderWithTags(""))
		assert.True(t, d.Proceed)
	})

	t.Run("whitespace include tag disables the requirement", func(t *testing.T) {
		p := NewMerchantPolicy("test.myshopify.com")
		p.RequireIncludeTag = true
		p.IncludeTag = "   "

		d := Evaluate(p, orderWithTags("wholesale"))

		assert.True(t, d.Proceed)
	})
}

func TestEvaluate_ExcludeBeatsInclude(t *testing.T) {
	p := NewMerchantPolicy("test.myshopify.com")
	p.ExcludeTag = "no-sync"
	p.RequireIncludeTag = true
	p.IncludeTag = "printavo"

	d := Evaluate(p, orderWithTags("printavo, no-sync"))

	assert.False(t, d.Proceed)
	assert.Contains(t, d.Reason, "no-sync")
}

func TestEvaluate_LegacyTaggedMode(t *testing.T) {
	t.Run("rejects with empty allowlist", func(t *testing.T) {
		p := NewMerchantPolicy("test.myshopify.com")
		p.SyncMode = SyncModeTagged
		p.IncludedTags = []string{" ", ""}

		d := Evaluate(p, orderWithTags("wholesale"))

		assert.False(t, d.Proceed)
		assert.Contains(t, d.Reason, "included tags")
	})

	t.Run("rejects when no tag intersects", func(t *testing.T) {
		p := NewMerchantPolicy("test.myshopify.com")
		p.SyncMode = SyncModeTagged
		p.IncludedTags = []string{"retail", "rush"}

		d := Evaluate(p, orderWithTags("wholesale"))

		assert.False(t, d.Proceed)
	})

	t.Run("proceeds on intersection", func(t *testing.T) {
		p := NewMerchantPolicy("test.myshopify.com")
		p.SyncMode = SyncModeTagged
		p.IncludedTags = []string{"Retail", "rush"}

		d := Evaluate(p, orderWithTags("wholesale, RETAIL"))

		assert.True(t, d.Proceed)
	})
}

// Evaluate must be total: any policy/order pair yields a decision and never
// panics, including zero values.
func TestEvaluate_Totality(t *testing.T) {
	policies := []*MerchantPolicy{
		{},
		{SyncEnabled: true},
		{SyncEnabled: true, SyncMode: SyncModeTagged},
		{SyncEnabled: true, ExcludeTag: "x", IncludeTag: "y", RequireIncludeTag: true},
	}
	orders := []*Order{
		{},
		orderWithTags(""),
		orderWithTags(",,,"),
		orderWithTags("a, b, c"),
	}

	for _, p := range policies {
		for _, o := range orders {
			assert.NotPanics(t, func() {
				d := Evaluate(p, o)
				if !d.Proceed {
					assert.NotEmpty(t, d.Reason)
				}
			})
		}
	}
}

func TestOrder_ParsedTags(t *testing.T) {
	o := orderWithTags("  Rush , WHOLESALE,, no-sync ")

	assert.Equal(t, []string{"rush", "wholesale", "no-sync"}, o.ParsedTags())
}

func TestOrder_ContactEmail(t *testing.T) {
	t.Run("order email wins", func(t *testing.T) {
		o := &Order{
			Email:          " Buyer@Example.COM ",
			Customer:       &OrderCustomer{Email: "customer@example.com"},
			BillingAddress: &OrderAddress{Email: "billing@example.com"},
		}
		assert.Equal(t, "buyer@example.com", o.ContactEmail())
	})

	t.Run("falls back to customer then billing address", func(t *testing.T) {
		o := &Order{Customer: &OrderCustomer{Email: "customer@example.com"}}
		assert.Equal(t, "customer@example.com", o.ContactEmail())

		o = &Order{BillingAddress: &OrderAddress{Email: "billing@example.com"}}
		assert.Equal(t, "billing@example.com", o.ContactEmail())
	})

	t.Run("empty when absent everywhere", func(t *testing.T) {
		o := &Order{Customer: &OrderCustomer{}, BillingAddress: &OrderAddress{}}
		assert.Empty(t, o.ContactEmail())
	})
}
