package model

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
)

type Notification struct {
	ID          int64            `db:"ID" json:"id"`
	User        Principal        `db:"User" json:"user"`
	Title       string           `db:"Title" json:"title"`
	Message     string           `db:"Message" json:"message"`
	NotifType   NotificationType `db:"NotifType" json:"notifType"`
	Timestamp   time.Time        `db:"Timestamp" json:"timestamp"`
	RelatedIMEI *string          `db:"RelatedIMEI" json:"relatedIMEI,omitempty"`
	IsRead      bool             `db:"IsRead" json:"isRead"`
}
