package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"imeivault/internal/model"
)

func TestStatistics(t *testing.T) {
	assert := assert.New(t)
	service, grantUser := newTestEngine(t)
	grantUser(ownerPrincipal)
	grantUser(buyerPrincipal)

	t.Run("empty registry", func(t *testing.T) {
		stats, err := service.GetStatistics()
		assert.Nil(err)
		assert.EqualValues(0, stats.TotalPhones)
		assert.EqualValues(0, stats.TheftReportStats.Total)
	})

	assert.Nil(service.AddPhone(ownerPrincipal, testIMEI, "Acme", "X1", "1234"))
	assert.Nil(service.AddPhone(ownerPrincipal, otherIMEI, "Acme", "X2", "1234"))

	t.Run("counts registered phones", func(t *testing.T) {
		stats, err := service.GetStatistics()
		assert.Nil(err)
		assert.EqualValues(2, stats.TotalPhones)
		assert.EqualValues(2, stats.ActivePhones)
		assert.EqualValues(2, stats.StatusBreakdown.Total)
	})

	t.Run("stolen report moves the breakdown and the histogram", func(t *testing.T) {
		assert.Nil(service.ReportLostStolen(ownerPrincipal, testIMEI, "Jakarta", "", true))

		stats, err := service.GetStatistics()
		assert.Nil(err)
		assert.EqualValues(2, stats.TotalPhones)
		assert.EqualValues(1, stats.ActivePhones)
		assert.EqualValues(1, stats.StolenPhones)
		assert.EqualValues(1, stats.TheftReportStats.Total)
		assert.EqualValues(1, stats.TheftReportStats.Monthly[0])
	})

	t.Run("released phones drop out of the totals", func(t *testing.T) {
		err := service.ReleasePhone(ownerPrincipal, otherIMEI, "1234",
			model.ReleaseReason{Code: model.ReleaseReasonReplaced})
		assert.Nil(err)

		stats, err := service.GetStatistics()
		assert.Nil(err)
		assert.EqualValues(1, stats.TotalPhones)
		assert.EqualValues(0, stats.ActivePhones)
		// Reports are history, not registry state: the total stays.
		assert.EqualValues(1, stats.TheftReportStats.Total)
	})

	t.Run("recomputation does not drift", func(t *testing.T) {
		first, err := service.GetStatistics()
		assert.Nil(err)
		second, err := service.GetStatistics()
		assert.Nil(err)
		assert.Equal(first, second)
	})
}

func TestNotifications(t *testing.T) {
	assert := assert.New(t)
	service, grantUser := newTestEngine(t)
	grantUser(ownerPrincipal)
	grantUser(buyerPrincipal)
	assert.Nil(service.AddPhone(ownerPrincipal, testIMEI, "Acme", "X1", "1234"))
	assert.Nil(service.ReportLostStolen(ownerPrincipal, testIMEI, "Jakarta", "", false))

	t.Run("newest first", func(t *testing.T) {
		notifications, err := service.GetNotifications(ownerPrincipal, ownerPrincipal)
		assert.Nil(err)
		if assert.Len(notifications, 2) {
			assert.Equal("Phone reported lost", notifications[0].Title)
			assert.Equal("Phone registered", notifications[1].Title)
		}
	})

	t.Run("mark read is idempotent", func(t *testing.T) {
		notifications, err := service.GetNotifications(ownerPrincipal, ownerPrincipal)
		assert.Nil(err)
		id := notifications[0].ID

		assert.Nil(service.MarkNotificationRead(ownerPrincipal, id))
		assert.Nil(service.MarkNotificationRead(ownerPrincipal, id))

		notifications, err = service.GetNotifications(ownerPrincipal, ownerPrincipal)
		assert.Nil(err)
		assert.True(notifications[0].IsRead)
		assert.False(notifications[1].IsRead)
	})

	t.Run("cannot mark another user's notification", func(t *testing.T) {
		notifications, err := service.GetNotifications(ownerPrincipal, ownerPrincipal)
		assert.Nil(err)

		err = service.MarkNotificationRead(buyerPrincipal, notifications[0].ID)
		assert.Equal(model.KindNotFound, model.KindOf(err))
	})

	t.Run("mark all", func(t *testing.T) {
		assert.Nil(service.MarkAllNotificationsRead(ownerPrincipal))

		notifications, err := service.GetNotifications(ownerPrincipal, ownerPrincipal)
		assert.Nil(err)
		for _, n := range notifications {
			assert.True(n.IsRead)
		}
	})

	t.Run("guests cannot read notifications", func(t *testing.T) {
		_, err := service.GetNotifications("", "")
		assert.Equal(model.KindUnauthorized, model.KindOf(err))
	})
}
