package models

// MonthlyCostSummary maps a calendar month name (e.g. "January") to the
// accumulated unblended cost for that month. Keys carry no year: a date
// range spanning a year boundary folds both occurrences of the same
// month name into one bucket by addition.
type MonthlyCostSummary map[string]float64
