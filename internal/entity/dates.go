package entity

import (
	"fmt"
	"time"
)

// LastDayOfMonth returns the YYYY-MM-DD date of the last day of a YYYY-MM
// month. Used as the default report date when the model extracted none.
func LastDayOfMonth(yearMonth string) (string, error) {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return "", fmt.Errorf("invalid month %q: %w", yearMonth, err)
	}
	last := t.AddDate(0, 1, -1)
	return last.Format("2006-01-02"), nil
}

// MonthWindow returns the inclusive first and last dates of a YYYY-MM month.
func MonthWindow(yearMonth string) (first, last string, err error) {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return "", "", fmt.Errorf("invalid month %q: %w", yearMonth, err)
	}
	return t.Format("2006-01-02"), t.AddDate(0, 1, -1).Format("2006-01-02"), nil
}
