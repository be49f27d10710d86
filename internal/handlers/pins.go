package handlers

import (
	"github.com/labstack/echo/v4"

	"imeivault/internal/model"
)

type PinService interface {
	HasPin(caller model.Principal) (bool, error)
	SetOrChangePin(caller model.Principal, currentPin, newPin string) error
	ValidatePin(caller model.Principal, pin string) error
	ClearPin(caller model.Principal, currentPin string) error
}

func HasPin(pinService PinService) echo.HandlerFunc {
	return func(c echo.Context) error {
		has, err := pinService.HasPin(Principal(c))
		if err != nil {
			return err
		}
		return c.JSON(200, has)
	}
}

func SetOrChangePin(pinService PinService) echo.HandlerFunc {
	type params struct {
		CurrentPin string `json:"currentPin"`
		NewPin     string `json:"newPin"`
	}
	return func(c echo.Context) error {
		p := &params{}
		if err := c.Bind(p); err != nil {
			return err
		}
		if err := pinService.SetOrChangePin(Principal(c), p.CurrentPin, p.NewPin); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}

func ValidatePin(pinService PinService) echo.HandlerFunc {
	type params struct {
		Pin string `json:"pin"`
	}
	return func(c echo.Context) error {
		p := &params{}
		if err := c.Bind(p); err != nil {
			return err
		}
		if err := pinService.ValidatePin(Principal(c), p.Pin); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}

func ClearPin(pinService PinService) echo.HandlerFunc {
	type params struct {
		CurrentPin string `json:"currentPin"`
	}
	return func(c echo.Context) error {
		p := &params{}
		if err := c.Bind(p); err != nil {
			return err
		}
		if err := pinService.ClearPin(Principal(c), p.CurrentPin); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}
