package models

// LoanSweepResult is the per-loan outcome of one delinquency sweep pass.
type LoanSweepResult struct {
	LoanID  string `json:"loan_id"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SweepSummary aggregates one full sweep invocation.
type SweepSummary struct {
	LoansChecked int               `json:"loans_checked"`
	FeesApplied  int               `json:"fees_applied"`
	Results      []LoanSweepResult `json:"results"`
}
