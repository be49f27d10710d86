package registry

import (
	"time"

	"imeivault/internal/model"
	"imeivault/internal/store"
)

// GetStatistics recomputes everything from current registry state inside one
// transaction. Nothing is cached, so repeated calls cannot drift from the
// phone table.
func (s *service) GetStatistics() (*model.Statistics, error) {
	stats := &model.Statistics{}
	err := s.store.WithTx(func(tx *store.Tx) error {
		counts, err := tx.CountPhonesByStatus()
		if err != nil {
			return err
		}
		stats.ActivePhones = counts[model.PhoneStatusActive]
		stats.LostPhones = counts[model.PhoneStatusLost]
		stats.StolenPhones = counts[model.PhoneStatusStolen]
		stats.TotalPhones = stats.ActivePhones + stats.LostPhones + stats.StolenPhones
		stats.StatusBreakdown = model.StatusBreakdown{
			Total:  stats.TotalPhones,
			Active: stats.ActivePhones,
			Lost:   stats.LostPhones,
			Stolen: stats.StolenPhones,
		}

		total, err := tx.CountTheftReports()
		if err != nil {
			return err
		}
		stats.TheftReportStats.Total = total

		now := time.Now().UTC()
		currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		since := currentMonth.AddDate(0, -11, 0)
		timestamps, err := tx.ListReportTimestampsSince(since)
		if err != nil {
			return err
		}
		for _, ts := range timestamps {
			ts = ts.UTC()
			idx := (now.Year()-ts.Year())*12 + int(now.Month()) - int(ts.Month())
			if idx >= 0 && idx < 12 {
				stats.TheftReportStats.Monthly[idx]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
