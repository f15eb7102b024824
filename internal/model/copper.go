package model

// CopperCompany is one CRM company record, either pulled live from the
// Copper API or read from the locally mirrored table. ActiveRaw and
// AccountTypeRaw carry the upstream values untouched; normalization
// happens at load time.
type CopperCompany struct {
	CopperID       string `json:"copper_id"`
	Name           string `json:"name"`
	AccountOrderID string `json:"account_order_id"` // join key to customer.account_number
	AccountTypeRaw string `json:"account_type_raw"` // free text, normalized by acctsync rules
	ActiveRaw      string `json:"active_raw"`       // heterogeneous truthy encodings
	Street         string `json:"street,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	Zip            string `json:"zip,omitempty"`
}
