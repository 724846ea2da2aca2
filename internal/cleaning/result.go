package cleaning

import (
	"time"

	"aibox/internal/tabular"
)

// Config controls the invoice cleaning pipeline. The zero value is not
// useful; start from DefaultConfig.
type Config struct {
	// FuzzyThreshold is the minimum 0-100 similarity for the fuzzy
	// duplicate pass. Values outside [0,100] fall back to 90.
	FuzzyThreshold int
	// DropDuplicates enables the exact and fuzzy duplicate passes.
	DropDuplicates bool
	// DropNegativeQty removes rows with a negative quantity after
	// tagging.
	DropNegativeQty bool
	// FlagDueBeforeIssue enables the DUE_BEFORE_ISSUE anomaly rule.
	FlagDueBeforeIssue bool
	// Similarity overrides the fuzzy similarity function. Nil means
	// LevenshteinRatio.
	Similarity SimilarityFunc `json:"-"`
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold:     90,
		DropDuplicates:     true,
		DropNegativeQty:    false,
		FlagDueBeforeIssue: true,
	}
}

func (c Config) normalized() Config {
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 100 {
		c.FuzzyThreshold = 90
	}
	if c.Similarity == nil {
		c.Similarity = LevenshteinRatio
	}
	return c
}

// AppliedRules echoes the effective configuration back to the caller.
type AppliedRules struct {
	FuzzyThreshold     int  `json:"fuzzy_threshold"`
	DropDuplicates     bool `json:"drop_duplicates"`
	DropNegativeQty    bool `json:"drop_negative_qty"`
	FlagDueBeforeIssue bool `json:"flag_due_before_issue"`
}

// StockOptions controls the stock cleaning pipeline.
type StockOptions struct {
	// DaysExpiring is the EXPIRING_SOON window in days.
	DaysExpiring int
	// DropNegativeQty removes rows with negative qty_on_hand after
	// tagging.
	DropNegativeQty bool
	// Today anchors the expiry comparisons; zero means the current UTC
	// date. Injectable for tests.
	Today time.Time
}

// DefaultStockOptions returns the stock pipeline defaults.
func DefaultStockOptions() StockOptions {
	return StockOptions{DaysExpiring: 30}
}

// Preview holds stringified head samples of the input and output tables,
// nulls rendered as empty strings. Display only.
type Preview struct {
	Before [][]string `json:"before"`
	After  [][]string `json:"after"`
}

// Profile is the aggregate numeric summary of an invoice cleaning run.
type Profile struct {
	RowsIn             int     `json:"rows_in"`
	RowsOut            int     `json:"rows_out"`
	DuplicatesRemoved  int     `json:"duplicates_removed"`
	NegativeQtyDropped int     `json:"negative_qty_dropped"`
	ErrorsFixed        int     `json:"errors_fixed"`
	CurrencyDetected   *string `json:"currency_detected"`
}

// Result is the outcome of CleanInvoices. Clean references the same
// table the pipeline mutated; callers own its persistence.
type Result struct {
	Profile       Profile           `json:"profile"`
	IssuesSummary map[string]int    `json:"issues_summary"`
	AIFeedback    []string          `json:"ai_feedback"`
	HeaderMap     map[string]string `json:"header_map"`
	Preview       Preview           `json:"preview"`
	Clean         *tabular.Table    `json:"-"`
	AppliedRules  AppliedRules      `json:"applied_rules"`
}

// StockProfile is the aggregate numeric summary of a stock cleaning run.
type StockProfile struct {
	RowsIn             int `json:"rows_in"`
	RowsOut            int `json:"rows_out"`
	LowStock           int `json:"low_stock"`
	ExpiringSoon       int `json:"expiring_soon"`
	Expired            int `json:"expired"`
	NegativeQtyDropped int `json:"negative_qty_dropped"`
}

// StockResult is the outcome of CleanStock.
type StockResult struct {
	Profile       StockProfile   `json:"profile"`
	IssuesSummary map[string]int `json:"issues_summary"`
	AIFeedback    []string       `json:"ai_feedback"`
	Preview       Preview        `json:"preview"`
	Clean         *tabular.Table `json:"-"`
}
