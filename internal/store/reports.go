package store

import (
	"fmt"
	"time"

	"imeivault/internal/model"
)

func (t *Tx) InsertTheftReport(report *model.TheftReport) error {
	_, err := t.tx.NamedExec(`insert into theft_report
		(IMEI, ReportedBy, Timestamp, Location, Details)
		values(:IMEI, :ReportedBy, :Timestamp, :Location, :Details)`, report)
	if err != nil {
		return fmt.Errorf("inserting theft report: %w", err)
	}
	return nil
}

func (s *Store) ListTheftReports() ([]model.TheftReport, error) {
	reports := []model.TheftReport{}
	err := s.db.Select(&reports, `select IMEI, ReportedBy, Timestamp, Location, Details
		from theft_report order by Timestamp desc, ID desc`)
	if err != nil {
		return nil, fmt.Errorf("listing theft reports: %w", err)
	}
	return reports, nil
}

// CountPhonesByStatus counts non-released phones in a single statement, so
// the result is a consistent snapshot even under concurrent mutation.
func (t *Tx) CountPhonesByStatus() (map[model.PhoneStatus]int64, error) {
	rows := []struct {
		Status model.PhoneStatus `db:"Status"`
		Count  int64             `db:"Count"`
	}{}
	err := t.tx.Select(&rows, `select Status, count(*) as Count
		from phone where Released = 0 group by Status`)
	if err != nil {
		return nil, fmt.Errorf("counting phones: %w", err)
	}
	counts := map[model.PhoneStatus]int64{}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (t *Tx) ListReportTimestampsSince(since time.Time) ([]time.Time, error) {
	timestamps := []time.Time{}
	err := t.tx.Select(&timestamps, `select Timestamp from theft_report
		where Timestamp >= ?`, since)
	if err != nil {
		return nil, fmt.Errorf("listing report timestamps: %w", err)
	}
	return timestamps, nil
}

func (t *Tx) CountTheftReports() (int64, error) {
	var count int64
	err := t.tx.Get(&count, `select count(*) from theft_report`)
	if err != nil {
		return 0, fmt.Errorf("counting theft reports: %w", err)
	}
	return count, nil
}
