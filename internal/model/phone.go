package model

import "time"

type PhoneStatus string

const (
	PhoneStatusActive PhoneStatus = "active"
	PhoneStatusLost   PhoneStatus = "lost"
	PhoneStatusStolen PhoneStatus = "stolen"
)

type Phone struct {
	IMEI         string      `db:"IMEI" json:"imei"`
	Brand        string      `db:"Brand" json:"brand"`
	Model        string      `db:"Model" json:"model"`
	Owner        Principal   `db:"Owner" json:"owner"`
	Status       PhoneStatus `db:"Status" json:"status"`
	RegisteredAt time.Time   `db:"RegisteredAt" json:"registeredAt"`
	Released     bool        `db:"Released" json:"-"`
}

type TheftReport struct {
	IMEI       string    `db:"IMEI" json:"imei"`
	ReportedBy Principal `db:"ReportedBy" json:"reportedBy"`
	Timestamp  time.Time `db:"Timestamp" json:"timestamp"`
	Location   string    `db:"Location" json:"location"`
	Details    string    `db:"Details" json:"details"`
}

type ReleaseReasonCode string

const (
	ReleaseReasonSold      ReleaseReasonCode = "sold"
	ReleaseReasonGivenAway ReleaseReasonCode = "givenToSomeone"
	ReleaseReasonReplaced  ReleaseReasonCode = "replacedWithNewPhone"
	ReleaseReasonOther     ReleaseReasonCode = "other"
)

// ReleaseReason carries the reason code for an ownership release. OtherText
// is required, and only meaningful, when Code is ReleaseReasonOther.
type ReleaseReason struct {
	Code      ReleaseReasonCode `json:"code"`
	OtherText string            `json:"otherText,omitempty"`
}

func (r ReleaseReason) Describe() string {
	if r.Code == ReleaseReasonOther {
		return "other: " + r.OtherText
	}
	return string(r.Code)
}
