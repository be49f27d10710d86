package model

type StatusBreakdown struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	Lost   int64 `json:"lost"`
	Stolen int64 `json:"stolen"`
}

// MonthlyReportStats buckets theft reports into a rolling 12-month histogram.
// Index 0 is the current calendar month, index 11 is eleven months back.
type MonthlyReportStats struct {
	Total   int64     `json:"total"`
	Monthly [12]int64 `json:"monthly"`
}

type Statistics struct {
	TotalPhones      int64              `json:"totalPhones"`
	ActivePhones     int64              `json:"activePhones"`
	LostPhones       int64              `json:"lostPhones"`
	StolenPhones     int64              `json:"stolenPhones"`
	StatusBreakdown  StatusBreakdown    `json:"statusBreakdown"`
	TheftReportStats MonthlyReportStats `json:"theftReportStats"`
}
