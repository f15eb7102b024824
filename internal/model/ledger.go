package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrder is one order from the ERP extract. OrderID is the immutable
// external ID and the only stable key; OrderNumber is human-facing and may
// repeat across exports.
type SalesOrder struct {
	OrderID         string          `json:"order_id"`
	OrderNumber     string          `json:"order_number"`
	CustomerID      string          `json:"customer_id"`
	SalesPersonCode string          `json:"sales_person_code"`
	PostingDate     *time.Time      `json:"posting_date,omitempty"`
	CommissionMonth string          `json:"commission_month"` // "YYYY-MM", empty when the date is unknown
	CommissionYear  int             `json:"commission_year"`
	Revenue         decimal.Decimal `json:"revenue"`     // sum of commissionable line items
	OrderValue      decimal.Decimal `json:"order_value"` // may differ from revenue per policy
	LineItemCount   int             `json:"line_item_count"`
	AccountType     AccountType     `json:"account_type"` // denormalized at ingestion time
	AltChannel      bool            `json:"alt_channel"`  // alternate sales channel tag
	UpdatedAt       time.Time       `json:"updated_at"`
}

// LineItem is one SKU line within an order, keyed by its immutable external ID.
type LineItem struct {
	LineItemID       string          `json:"line_item_id"`
	OrderID          string          `json:"order_id"`
	PartNumber       string          `json:"part_number"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Revenue          decimal.Decimal `json:"revenue"`
	IsShippingItem   bool            `json:"is_shipping_item"`
	IsCCProcessing   bool            `json:"is_cc_processing_item"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Customer is an ERP customer record enriched with CRM data.
// AccountTypeOverride, once set, is never overwritten by any automated sync.
type Customer struct {
	CustomerID          string            `json:"customer_id"` // sanitized external ID
	Name                string            `json:"name"`
	AccountNumber       string            `json:"account_number"` // join key to the CRM account-order id
	AccountType         AccountType       `json:"account_type"`
	AccountTypeSource   AccountTypeSource `json:"account_type_source"`
	AccountTypeOverride AccountType       `json:"account_type_override,omitempty"`
	CopperID            string            `json:"copper_id,omitempty"`
	ShipStreet          string            `json:"ship_street,omitempty"`
	ShipCity            string            `json:"ship_city,omitempty"`
	ShipState           string            `json:"ship_state,omitempty"`
	ShipZip             string            `json:"ship_zip,omitempty"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// Rep is a salesperson. Title selects the commission rate table; inactive
// reps are excluded from calculation entirely, not zeroed.
type Rep struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}
