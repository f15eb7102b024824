package model

import "time"

// ImportStatus is the lifecycle of one ingestion run.
type ImportStatus string

const (
	ImportParsing    ImportStatus = "parsing"
	ImportProcessing ImportStatus = "processing"
	ImportComplete   ImportStatus = "complete"
	ImportFailed     ImportStatus = "failed"
)

// IngestStats is the structured result of an ingestion run. Totals reflect
// only successfully processed records.
type IngestStats struct {
	Processed     int `json:"processed"`
	Skipped       int `json:"skipped"`
	Customers     int `json:"customers"`
	Orders        int `json:"orders"`
	LineItems     int `json:"line_items"`
	Batches       int `json:"batches"`
	FailedBatches int `json:"failed_batches"`
}

// ImportProgress is the side progress record a polling caller renders.
// Saved best-effort every progressInterval rows; never allowed to abort
// the run.
type ImportProgress struct {
	ImportID        string       `json:"import_id"`
	Status          ImportStatus `json:"status"`
	CurrentRow      int          `json:"current_row"`
	TotalRows       int          `json:"total_rows"`
	Percentage      int          `json:"percentage"`
	CurrentCustomer string       `json:"current_customer,omitempty"`
	CurrentOrder    string       `json:"current_order,omitempty"`
	Stats           IngestStats  `json:"stats"`
	Error           string       `json:"error,omitempty"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// CalcResult is the structured outcome of a commission calculation run.
type CalcResult struct {
	Processed             int                        `json:"processed"`
	CommissionsCalculated int                        `json:"commissions_calculated"`
	SkippedRetail         int                        `json:"skipped_retail"`
	SkippedInactive       int                        `json:"skipped_inactive"`
	SkippedNoRate         int                        `json:"skipped_no_rate"`
	TotalCommission       string                     `json:"total_commission"`
	PerRep                map[string]*MonthlySummary `json:"per_rep"`
}

// SyncStats is the structured outcome of a Copper/Fishbowl account-type sync.
type SyncStats struct {
	CopperLoaded   int `json:"copper_loaded"`
	FishbowlLoaded int `json:"fishbowl_loaded"`
	Matched        int `json:"matched"`
	Updated        int `json:"updated"`
	AlreadyCorrect int `json:"already_correct"`
	NoMatch        int `json:"no_match"`
}
