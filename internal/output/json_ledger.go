package output

import (
	json "github.com/goccy/go-json"
)

// JSONLedgerFormatter renders the ledger report as JSON
type JSONLedgerFormatter struct {
	Pretty bool
}

func (j JSONLedgerFormatter) Name() string { return "json" }

func (j JSONLedgerFormatter) Format(report *LedgerReport) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(report, "", "  ")
	}
	return json.Marshal(report)
}
