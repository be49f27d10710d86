package store

import (
	"fmt"

	"imeivault/internal/model"
)

func (t *Tx) AppendEvent(event *model.IMEIEvent) error {
	_, err := t.tx.NamedExec(`insert into imei_event
		(IMEI, Timestamp, EventType, Details)
		values(:IMEI, :Timestamp, :EventType, :Details)`, event)
	if err != nil {
		return fmt.Errorf("appending event: %w", err)
	}
	return nil
}

// ListEventsForIMEI returns the full audit trail oldest-first. Seq breaks
// timestamp ties by insertion order.
func (s *Store) ListEventsForIMEI(imei string) ([]model.IMEIEvent, error) {
	events := []model.IMEIEvent{}
	err := s.db.Select(&events, `select * from imei_event
		where IMEI = ? order by Timestamp, Seq`, imei)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}
