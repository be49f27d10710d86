package model

import "time"

type EventType string

const (
	EventRegistered       EventType = "registered"
	EventReRegistered     EventType = "reRegistered"
	EventLostReported     EventType = "lostReported"
	EventStolenReported   EventType = "stolenReported"
	EventFoundReported    EventType = "foundReported"
	EventTransferred      EventType = "ownershipTransferred"
	EventReleaseRequested EventType = "ownershipReleaseRequested"
	EventRevoked          EventType = "ownershipRevoked"
)

// IMEIEvent is one entry in the append-only per-IMEI audit trail. Events are
// never edited or deleted; Seq breaks timestamp ties by insertion order.
type IMEIEvent struct {
	Seq       int64     `db:"Seq" json:"-"`
	IMEI      string    `db:"IMEI" json:"imei"`
	Timestamp time.Time `db:"Timestamp" json:"timestamp"`
	EventType EventType `db:"EventType" json:"eventType"`
	Details   string    `db:"Details" json:"details"`
}
