package handlers

import (
	"github.com/labstack/echo/v4"
)

func GenerateInviteCode(accessService AccessService) echo.HandlerFunc {
	return func(c echo.Context) error {
		code, err := accessService.GenerateInviteCode(Principal(c))
		if err != nil {
			return err
		}
		return c.JSON(200, map[string]string{"code": code})
	}
}

func RedeemInviteCode(accessService AccessService) echo.HandlerFunc {
	type params struct {
		Code string `json:"code"`
	}
	return func(c echo.Context) error {
		p := &params{}
		if err := c.Bind(p); err != nil {
			return err
		}
		if err := accessService.RedeemInviteCode(Principal(c), p.Code); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}

func DeactivateInviteCode(accessService AccessService) echo.HandlerFunc {
	return func(c echo.Context) error {
		code := c.Param("code")
		if err := accessService.DeactivateInviteCode(Principal(c), code); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}

func SetInvitePaymentNote(accessService AccessService) echo.HandlerFunc {
	type params struct {
		Note string `json:"note"`
	}
	return func(c echo.Context) error {
		p := &params{}
		if err := c.Bind(p); err != nil {
			return err
		}
		if err := accessService.SetInvitePaymentNote(Principal(c), c.Param("code"), p.Note); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}

func GetInviteCodes(accessService AccessService) echo.HandlerFunc {
	return func(c echo.Context) error {
		invites, err := accessService.ListInviteCodes(Principal(c))
		if err != nil {
			return err
		}
		return c.JSON(200, invites)
	}
}

func GetInviteCodesWithStatus(accessService AccessService) echo.HandlerFunc {
	return func(c echo.Context) error {
		invites, err := accessService.ListInviteCodesWithStatus(Principal(c))
		if err != nil {
			return err
		}
		return c.JSON(200, invites)
	}
}
