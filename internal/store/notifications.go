package store

import (
	"fmt"

	"imeivault/internal/model"
)

func (t *Tx) InsertNotification(notification *model.Notification) error {
	_, err := t.tx.NamedExec(`insert into notification
		(User, Title, Message, NotifType, Timestamp, RelatedIMEI, IsRead)
		values(:User, :Title, :Message, :NotifType, :Timestamp, :RelatedIMEI, :IsRead)`,
		notification)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

func (s *Store) ListNotificationsForUser(user model.Principal) ([]model.Notification, error) {
	notifications := []model.Notification{}
	err := s.db.Select(&notifications, `select * from notification
		where User = ? order by Timestamp desc, ID desc`, user)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead is idempotent. It returns NotFound only when no
// notification with this ID belongs to the user.
func (t *Tx) MarkNotificationRead(user model.Principal, id int64) error {
	res, err := t.tx.Exec(`update notification
		set IsRead = 1 where ID = ? and User = ?`, id, user)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return model.NewNotFoundError("notification not found")
	}
	return nil
}

func (t *Tx) MarkAllNotificationsRead(user model.Principal) error {
	_, err := t.tx.Exec(`update notification
		set IsRead = 1 where User = ? and IsRead = 0`, user)
	if err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}
