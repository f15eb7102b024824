// Package model defines the canonical ledger records shared across the
// ingestion, classification, commission, and sync subsystems.
package model

// AccountType is the three-value customer segment the ERP and CRM agree on.
type AccountType string

const (
	AccountRetail      AccountType = "Retail"
	AccountWholesale   AccountType = "Wholesale"
	AccountDistributor AccountType = "Distributor"
)

// AccountTypeSource records where a customer's account type came from, in
// decreasing precedence order.
type AccountTypeSource string

const (
	SourceOverride AccountTypeSource = "override" // manual, never overwritten
	SourceExisting AccountTypeSource = "existing" // previously stored value
	SourceCopper   AccountTypeSource = "copper"   // CRM-derived
	SourceFishbowl AccountTypeSource = "fishbowl" // raw ERP value
)

// CustomerStatus is the tenure/relationship state of a customer relative to
// a rep at order time. It is one axis of the commission rate lookup.
type CustomerStatus string

const (
	StatusNew         CustomerStatus = "new"
	StatusRepTransfer CustomerStatus = "rep_transfer"
	Status6Month      CustomerStatus = "6month"
	Status12Month     CustomerStatus = "12month"
)
