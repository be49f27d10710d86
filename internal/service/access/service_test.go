package access

import (
	"path"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"imeivault/internal/model"
	"imeivault/internal/store"
)

type testConfig struct {
	dbFile string
}

func (c *testConfig) DatabaseFile() string {
	return c.dbFile
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(&testConfig{dbFile: path.Join(t.TempDir(), "access_test.db")})
	if err != nil {
		t.Fatalf("opening test store: %+v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

const (
	adminPrincipal = model.Principal("admin-principal")
	userAPrincipal = model.Principal("user-a")
	userBPrincipal = model.Principal("user-b")
)

func newTestService(t *testing.T) *service {
	t.Helper()
	service := New(newTestStore(t), true)
	err := service.SeedAdmins([]string{string(adminPrincipal)})
	if err != nil {
		t.Fatalf("seeding admins: %+v", err)
	}
	return service
}

func TestAccessState(t *testing.T) {
	assert := assert.New(t)
	service := newTestService(t)

	t.Run("guest requires invite", func(t *testing.T) {
		state, err := service.ResolveAccessState(userAPrincipal)
		assert.Nil(err)
		assert.True(state.RequiresInvite)
		assert.False(state.IsUser)
		assert.False(state.IsAdmin)
	})

	t.Run("seeded admin is admin and user", func(t *testing.T) {
		state, err := service.ResolveAccessState(adminPrincipal)
		assert.Nil(err)
		assert.False(state.RequiresInvite)
		assert.True(state.IsUser)
		assert.True(state.IsAdmin)
	})

	t.Run("admin can assign the user role", func(t *testing.T) {
		err := service.AssignRole(adminPrincipal, userAPrincipal, model.RoleUser)
		assert.Nil(err)

		state, err := service.ResolveAccessState(userAPrincipal)
		assert.Nil(err)
		assert.True(state.IsUser)
		assert.False(state.IsAdmin)
	})

	t.Run("non-admin cannot assign roles", func(t *testing.T) {
		err := service.AssignRole(userAPrincipal, userBPrincipal, model.RoleAdmin)
		assert.Equal(model.KindUnauthorized, model.KindOf(err))
	})

	t.Run("admin can revoke back to guest", func(t *testing.T) {
		err := service.AssignRole(adminPrincipal, userAPrincipal, model.RoleGuest)
		assert.Nil(err)

		state, err := service.ResolveAccessState(userAPrincipal)
		assert.Nil(err)
		assert.False(state.IsUser)
		assert.True(state.RequiresInvite)
	})
}

func TestInviteLifecycle(t *testing.T) {
	assert := assert.New(t)
	service := newTestService(t)

	code, err := service.GenerateInviteCode(adminPrincipal)
	assert.Nil(err)
	assert.NotEmpty(code)

	t.Run("guest cannot generate codes", func(t *testing.T) {
		_, err := service.GenerateInviteCode(userAPrincipal)
		assert.Equal(model.KindUnauthorized, model.KindOf(err))
	})

	t.Run("unknown code is rejected", func(t *testing.T) {
		err := service.RedeemInviteCode(userAPrincipal, "no-such-code")
		assert.Equal(model.KindNotFound, model.KindOf(err))
	})

	t.Run("redeeming grants user access", func(t *testing.T) {
		err := service.RedeemInviteCode(userAPrincipal, code)
		assert.Nil(err)

		state, err := service.ResolveAccessState(userAPrincipal)
		assert.Nil(err)
		assert.True(state.IsUser)
	})

	t.Run("ledger records the redeemer", func(t *testing.T) {
		invites, err := service.ListInviteCodesWithStatus(adminPrincipal)
		assert.Nil(err)
		assert.Len(invites, 1)
		assert.True(invites[0].Used)
		assert.NotNil(invites[0].UsedAt)
		if assert.NotNil(invites[0].UsedBy) {
			assert.Equal(userAPrincipal, *invites[0].UsedBy)
		}
	})

	t.Run("second redemption fails", func(t *testing.T) {
		err := service.RedeemInviteCode(userBPrincipal, code)
		assert.Equal(model.KindConflict, model.KindOf(err))
		assert.Contains(err.Error(), "already been used")
	})

	t.Run("used code cannot be deactivated", func(t *testing.T) {
		err := service.DeactivateInviteCode(adminPrincipal, code)
		assert.Equal(model.KindConflict, model.KindOf(err))
	})

	t.Run("activated user cannot redeem again", func(t *testing.T) {
		second, err := service.GenerateInviteCode(adminPrincipal)
		assert.Nil(err)
		err = service.RedeemInviteCode(userAPrincipal, second)
		assert.Equal(model.KindConflict, model.KindOf(err))
		assert.Contains(err.Error(), "already have user access")
	})

	t.Run("deactivated code blocks redemption", func(t *testing.T) {
		code, err := service.GenerateInviteCode(adminPrincipal)
		assert.Nil(err)
		assert.Nil(service.DeactivateInviteCode(adminPrincipal, code))

		err = service.RedeemInviteCode(userBPrincipal, code)
		assert.Equal(model.KindConflict, model.KindOf(err))
		assert.Contains(err.Error(), "deactivated")
	})

	t.Run("payment note lands on the record", func(t *testing.T) {
		code, err := service.GenerateInviteCode(adminPrincipal)
		assert.Nil(err)
		assert.Nil(service.SetInvitePaymentNote(adminPrincipal, code, "paid via transfer"))

		invites, err := service.ListInviteCodesWithStatus(adminPrincipal)
		assert.Nil(err)
		for _, invite := range invites {
			if invite.Code == code {
				if assert.NotNil(invite.PaymentNote) {
					assert.Equal("paid via transfer", *invite.PaymentNote)
				}
			}
		}
	})
}

func TestConcurrentRedemption(t *testing.T) {
	assert := assert.New(t)
	service := newTestService(t)

	code, err := service.GenerateInviteCode(adminPrincipal)
	assert.Nil(err)

	callers := []model.Principal{"racer-1", "racer-2", "racer-3", "racer-4"}
	results := make([]error, len(callers))

	var wg sync.WaitGroup
	for i, caller := range callers {
		wg.Add(1)
		go func(i int, caller model.Principal) {
			defer wg.Done()
			results[i] = service.RedeemInviteCode(caller, code)
		}(i, caller)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(model.KindConflict, model.KindOf(err))
		}
	}
	assert.Equal(1, succeeded)
}

func TestProfiles(t *testing.T) {
	assert := assert.New(t)
	service := newTestService(t)
	assert.Nil(service.AssignRole(adminPrincipal, userAPrincipal, model.RoleUser))

	t.Run("no profile reads as nil", func(t *testing.T) {
		profile, err := service.GetProfile(userAPrincipal)
		assert.Nil(err)
		assert.Nil(profile)
	})

	t.Run("guest cannot register a profile", func(t *testing.T) {
		err := service.RegisterProfile(userBPrincipal, "b@example.com", "Bandung")
		assert.Equal(model.KindUnauthorized, model.KindOf(err))
	})

	t.Run("register then fetch", func(t *testing.T) {
		err := service.RegisterProfile(userAPrincipal, "a@example.com", "Jakarta")
		assert.Nil(err)

		profile, err := service.GetProfile(userAPrincipal)
		assert.Nil(err)
		if assert.NotNil(profile) {
			assert.Equal("a@example.com", profile.Email)
			assert.Equal("Jakarta", profile.City)
		}
	})

	t.Run("register twice conflicts", func(t *testing.T) {
		err := service.RegisterProfile(userAPrincipal, "a@example.com", "Jakarta")
		assert.Equal(model.KindConflict, model.KindOf(err))
	})

	t.Run("save updates in place", func(t *testing.T) {
		err := service.SaveProfile(userAPrincipal, "a@example.com", "Surabaya")
		assert.Nil(err)

		profile, err := service.GetProfile(userAPrincipal)
		assert.Nil(err)
		if assert.NotNil(profile) {
			assert.Equal("Surabaya", profile.City)
		}
	})

	t.Run("admin can read another user's profile", func(t *testing.T) {
		profile, err := service.GetProfileFor(adminPrincipal, userAPrincipal)
		assert.Nil(err)
		assert.NotNil(profile)

		_, err = service.GetProfileFor(userAPrincipal, adminPrincipal)
		assert.Equal(model.KindUnauthorized, model.KindOf(err))
	})
}
