package handlers

import (
	"github.com/labstack/echo/v4"

	"imeivault/internal/model"
)

type AccessService interface {
	ResolveAccessState(caller model.Principal) (model.AccessState, error)
	RoleOf(caller model.Principal) (model.UserRole, error)
	AssignRole(caller, target model.Principal, role model.UserRole) error
	GenerateInviteCode(caller model.Principal) (string, error)
	RedeemInviteCode(caller model.Principal, code string) error
	DeactivateInviteCode(caller model.Principal, code string) error
	SetInvitePaymentNote(caller model.Principal, code, note string) error
	ListInviteCodes(caller model.Principal) ([]model.InviteCodeSummary, error)
	ListInviteCodesWithStatus(caller model.Principal) ([]model.InviteCode, error)
	RegisterProfile(caller model.Principal, email, city string) error
	SaveProfile(caller model.Principal, email, city string) error
	GetProfile(caller model.Principal) (*model.UserProfile, error)
	GetProfileFor(caller, user model.Principal) (*model.UserProfile, error)
}

func GetAccessState(accessService AccessService) echo.HandlerFunc {
	return func(c echo.Context) error {
		state, err := accessService.ResolveAccessState(Principal(c))
		if err != nil {
			return err
		}
		return c.JSON(200, state)
	}
}

func GetCallerUserRole(accessService AccessService) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, err := accessService.RoleOf(Principal(c))
		if err != nil {
			return err
		}
		return c.JSON(200, role)
	}
}

func IsCallerAdmin(accessService AccessService) echo.HandlerFunc {
	return func(c echo.Context) error {
		state, err := accessService.ResolveAccessState(Principal(c))
		if err != nil {
			return err
		}
		return c.JSON(200, state.IsAdmin)
	}
}

func HasUserAccess(accessService AccessService) echo.HandlerFunc {
	return func(c echo.Context) error {
		state, err := accessService.ResolveAccessState(Principal(c))
		if err != nil {
			return err
		}
		return c.JSON(200, state.IsUser)
	}
}

func AssignCallerUserRole(accessService AccessService) echo.HandlerFunc {
	type params struct {
		User model.Principal `json:"user"`
		Role model.UserRole  `json:"role"`
	}
	return func(c echo.Context) error {
		p := &params{}
		if err := c.Bind(p); err != nil {
			return err
		}
		if err := accessService.AssignRole(Principal(c), p.User, p.Role); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}

func GetCallerUserProfile(accessService AccessService) echo.HandlerFunc {
	return func(c echo.Context) error {
		profile, err := accessService.GetProfile(Principal(c))
		if err != nil {
			return err
		}
		return c.JSON(200, profile)
	}
}

func GetUserProfile(accessService AccessService) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := model.Principal(c.Param("principal"))
		profile, err := accessService.GetProfileFor(Principal(c), user)
		if err != nil {
			return err
		}
		return c.JSON(200, profile)
	}
}

func RegisterProfile(accessService AccessService) echo.HandlerFunc {
	type params struct {
		Email string `json:"email"`
		City  string `json:"city"`
	}
	return func(c echo.Context) error {
		p := &params{}
		if err := c.Bind(p); err != nil {
			return err
		}
		if err := accessService.RegisterProfile(Principal(c), p.Email, p.City); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}

func SaveCallerUserProfile(accessService AccessService) echo.HandlerFunc {
	type params struct {
		Email string `json:"email"`
		City  string `json:"city"`
	}
	return func(c echo.Context) error {
		p := &params{}
		if err := c.Bind(p); err != nil {
			return err
		}
		if err := accessService.SaveProfile(Principal(c), p.Email, p.City); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}
