package model

import "time"

// InviteCode is the full ledger record. Redemption is terminal: a used code
// can never be deactivated or redeemed again.
type InviteCode struct {
	Code        string     `db:"Code" json:"code"`
	Created     time.Time  `db:"Created" json:"created"`
	Used        bool       `db:"Used" json:"used"`
	UsedAt      *time.Time `db:"UsedAt" json:"usedAt,omitempty"`
	UsedBy      *Principal `db:"UsedBy" json:"usedBy,omitempty"`
	Deactivated bool       `db:"Deactivated" json:"deactivated"`
	PaymentNote *string    `db:"PaymentNote" json:"paymentNote,omitempty"`
}

// InviteCodeSummary is the reduced shape returned by getInviteCodes.
type InviteCodeSummary struct {
	Code    string    `json:"code"`
	Created time.Time `json:"created"`
	Used    bool      `json:"used"`
}

func (c *InviteCode) Summary() InviteCodeSummary {
	return InviteCodeSummary{Code: c.Code, Created: c.Created, Used: c.Used}
}
