package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"imeivault/internal/model"
)

type NotificationService interface {
	GetNotifications(caller, user model.Principal) ([]model.Notification, error)
	MarkNotificationRead(caller model.Principal, id int64) error
	MarkAllNotificationsRead(caller model.Principal) error
}

func GetNotifications(notificationService NotificationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller := Principal(c)
		user := caller
		if p := c.QueryParam("user"); p != "" {
			user = model.Principal(p)
		}
		notifications, err := notificationService.GetNotifications(caller, user)
		if err != nil {
			return err
		}
		return c.JSON(200, notifications)
	}
}

func MarkNotificationAsRead(notificationService NotificationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return model.NewValidationError("invalid notification id")
		}
		if err := notificationService.MarkNotificationRead(Principal(c), id); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}

func MarkAllNotificationsAsRead(notificationService NotificationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := notificationService.MarkAllNotificationsRead(Principal(c)); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}
