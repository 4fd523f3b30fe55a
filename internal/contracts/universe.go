package contracts

import "time"

// SymbolRecord is one row from an exchange listing source
type SymbolRecord struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	IsETF     bool   `json:"is_etf"`
	TestIssue bool   `json:"test_issue"`
}

// Universe represents the candidate ticker set for one run
type Universe struct {
	Date     time.Time         `json:"date"`
	Tickers  []string          `json:"tickers"`
	Excluded map[string]string `json:"excluded"` // symbol -> exclusion reason
}

// Contains checks if a ticker is in the universe
func (u *Universe) Contains(ticker string) bool {
	for _, t := range u.Tickers {
		if t == ticker {
			return true
		}
	}
	return false
}

// Count returns the number of candidate tickers
func (u *Universe) Count() int {
	return len(u.Tickers)
}
