package registry

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"

	"imeivault/internal/model"
	"imeivault/internal/service/access"
	"imeivault/internal/store"
)

type testConfig struct {
	dbFile string
}

func (c *testConfig) DatabaseFile() string {
	return c.dbFile
}

const (
	adminPrincipal = model.Principal("admin-principal")
	ownerPrincipal = model.Principal("owner-a")
	buyerPrincipal = model.Principal("buyer-b")

	testIMEI  = "123456789012345"
	otherIMEI = "543210987654321"
)

func newTestEngine(t *testing.T) (*service, func(model.Principal)) {
	t.Helper()
	st, err := store.Open(&testConfig{dbFile: path.Join(t.TempDir(), "registry_test.db")})
	if err != nil {
		t.Fatalf("opening test store: %+v", err)
	}
	t.Cleanup(func() { st.Close() })

	accessService := access.New(st, true)
	if err := accessService.SeedAdmins([]string{string(adminPrincipal)}); err != nil {
		t.Fatalf("seeding admins: %+v", err)
	}

	grantUser := func(p model.Principal) {
		if err := accessService.AssignRole(adminPrincipal, p, model.RoleUser); err != nil {
			t.Fatalf("granting user role: %+v", err)
		}
	}

	return New(st, accessService), grantUser
}

func TestAddPhone(t *testing.T) {
	assert := assert.New(t)
	service, grantUser := newTestEngine(t)
	grantUser(ownerPrincipal)
	grantUser(buyerPrincipal)

	t.Run("guest cannot register", func(t *testing.T) {
		err := service.AddPhone("some-guest", testIMEI, "Acme", "X1", "1234")
		assert.Equal(model.KindUnauthorized, model.KindOf(err))
	})

	t.Run("malformed imei is rejected", func(t *testing.T) {
		err := service.AddPhone(ownerPrincipal, "12345", "Acme", "X1", "1234")
		assert.Equal(model.KindValidation, model.KindOf(err))
	})

	t.Run("malformed pin is rejected", func(t *testing.T) {
		err := service.AddPhone(ownerPrincipal, testIMEI, "Acme", "X1", "12ab")
		assert.Equal(model.KindValidation, model.KindOf(err))
	})

	t.Run("first registration bootstraps the pin", func(t *testing.T) {
		err := service.AddPhone(ownerPrincipal, testIMEI, "Acme", "X1", "1234")
		assert.Nil(err)

		has, err := service.HasPin(ownerPrincipal)
		assert.Nil(err)
		assert.True(has)

		status, err := service.CheckIMEI(testIMEI)
		assert.Nil(err)
		if assert.NotNil(status) {
			assert.Equal(model.PhoneStatusActive, *status)
		}
	})

	t.Run("imei uniqueness: first writer wins", func(t *testing.T) {
		err := service.AddPhone(buyerPrincipal, testIMEI, "Acme", "X1", "9999")
		assert.Equal(model.KindConflict, model.KindOf(err))
	})

	t.Run("second registration must prove the pin", func(t *testing.T) {
		err := service.AddPhone(ownerPrincipal, otherIMEI, "Acme", "X2", "0000")
		assert.Equal(model.KindConflict, model.KindOf(err))

		err = service.AddPhone(ownerPrincipal, otherIMEI, "Acme", "X2", "1234")
		assert.Nil(err)
	})

	t.Run("registration emits an event and a notification", func(t *testing.T) {
		events, err := service.GetIMEIHistory(testIMEI)
		assert.Nil(err)
		if assert.Len(events, 1) {
			assert.Equal(model.EventRegistered, events[0].EventType)
		}

		notifications, err := service.GetNotifications(ownerPrincipal, ownerPrincipal)
		assert.Nil(err)
		assert.NotEmpty(notifications)
	})

	t.Run("unknown imei checks as nil", func(t *testing.T) {
		status, err := service.CheckIMEI("999999999999999")
		assert.Nil(err)
		assert.Nil(status)
	})

	t.Run("owner sees both phones", func(t *testing.T) {
		phones, err := service.GetUserPhones(ownerPrincipal, ownerPrincipal)
		assert.Nil(err)
		assert.Len(phones, 2)
	})

	t.Run("users cannot list each other's phones", func(t *testing.T) {
		_, err := service.GetUserPhones(buyerPrincipal, ownerPrincipal)
		assert.Equal(model.KindUnauthorized, model.KindOf(err))
	})
}

func TestReportLostStolen(t *testing.T) {
	assert := assert.New(t)
	service, grantUser := newTestEngine(t)
	grantUser(ownerPrincipal)
	grantUser(buyerPrincipal)
	assert.Nil(service.AddPhone(ownerPrincipal, testIMEI, "Acme", "X1", "1234"))

	t.Run("only the owner can report", func(t *testing.T) {
		err := service.ReportLostStolen(buyerPrincipal, testIMEI, "Jakarta", "", true)
		assert.Equal(model.KindUnauthorized, model.KindOf(err))
	})

	t.Run("stolen report flips status and appends history", func(t *testing.T) {
		err := service.ReportLostStolen(ownerPrincipal, testIMEI, "Jakarta", "taken from bag", true)
		assert.Nil(err)

		status, err := service.CheckIMEI(testIMEI)
		assert.Nil(err)
		if assert.NotNil(status) {
			assert.Equal(model.PhoneStatusStolen, *status)
		}

		events, err := service.GetIMEIHistory(testIMEI)
		assert.Nil(err)
		if assert.Len(events, 2) {
			assert.Equal(model.EventRegistered, events[0].EventType)
			assert.Equal(model.EventStolenReported, events[1].EventType)
		}

		notifications, err := service.GetNotifications(ownerPrincipal, ownerPrincipal)
		assert.Nil(err)
		if assert.NotEmpty(notifications) {
			assert.False(notifications[0].IsRead)
			assert.Equal("Phone reported stolen", notifications[0].Title)
		}
	})

	t.Run("cannot report twice", func(t *testing.T) {
		err := service.ReportLostStolen(ownerPrincipal, testIMEI, "Jakarta", "", false)
		assert.Equal(model.KindState, model.KindOf(err))
	})

	t.Run("report is listed publicly", func(t *testing.T) {
		reports, err := service.GetAllTheftReports()
		assert.Nil(err)
		if assert.Len(reports, 1) {
			assert.Equal(testIMEI, reports[0].IMEI)
			assert.Equal(ownerPrincipal, reports[0].ReportedBy)
		}
	})

	t.Run("a finder without an account reports it found", func(t *testing.T) {
		finder := "call +62 812 000"
		err := service.ReportFound("", testIMEI, &finder)
		assert.Nil(err)

		status, err := service.CheckIMEI(testIMEI)
		assert.Nil(err)
		if assert.NotNil(status) {
			assert.Equal(model.PhoneStatusActive, *status)
		}

		notifications, err := service.GetNotifications(ownerPrincipal, ownerPrincipal)
		assert.Nil(err)
		if assert.NotEmpty(notifications) {
			assert.Contains(notifications[0].Message, finder)
		}
	})

	t.Run("found report requires lost or stolen status", func(t *testing.T) {
		err := service.ReportFound("", testIMEI, nil)
		assert.Equal(model.KindState, model.KindOf(err))
	})
}

func TestTransferOwnership(t *testing.T) {
	assert := assert.New(t)
	service, grantUser := newTestEngine(t)
	grantUser(ownerPrincipal)
	grantUser(buyerPrincipal)
	assert.Nil(service.AddPhone(ownerPrincipal, testIMEI, "Acme", "X1", "1234"))

	t.Run("owner transfers to buyer", func(t *testing.T) {
		err := service.TransferOwnership(ownerPrincipal, testIMEI, buyerPrincipal)
		assert.Nil(err)

		phones, err := service.GetUserPhones(buyerPrincipal, buyerPrincipal)
		assert.Nil(err)
		assert.Len(phones, 1)

		events, err := service.GetIMEIHistory(testIMEI)
		assert.Nil(err)
		if assert.Len(events, 2) {
			assert.Equal(model.EventTransferred, events[1].EventType)
		}
	})

	t.Run("both parties are notified", func(t *testing.T) {
		notifications, err := service.GetNotifications(buyerPrincipal, buyerPrincipal)
		assert.Nil(err)
		assert.NotEmpty(notifications)
	})

	t.Run("previous owner lost control", func(t *testing.T) {
		err := service.TransferOwnership(ownerPrincipal, testIMEI, buyerPrincipal)
		assert.Equal(model.KindUnauthorized, model.KindOf(err))
	})

	t.Run("non-active phone cannot be transferred", func(t *testing.T) {
		assert.Nil(service.ReportLostStolen(buyerPrincipal, testIMEI, "Depok", "", false))
		err := service.TransferOwnership(buyerPrincipal, testIMEI, ownerPrincipal)
		assert.Equal(model.KindState, model.KindOf(err))
	})
}
