package handlers

import (
	"github.com/labstack/echo/v4"

	"imeivault/internal/model"
)

type RegistryService interface {
	AddPhone(caller model.Principal, imei, brand, phoneModel, pin string) error
	CheckIMEI(imei string) (*model.PhoneStatus, error)
	GetUserPhones(caller, user model.Principal) ([]model.Phone, error)
	ReportLostStolen(caller model.Principal, imei, location, details string, isStolen bool) error
	ReportFound(caller model.Principal, imei string, finderInfo *string) error
	TransferOwnership(caller model.Principal, imei string, newOwner model.Principal) error
	ReleasePhone(caller model.Principal, imei, pin string, reason model.ReleaseReason) error
	RevokeOwnership(caller model.Principal, imei, reason string) error
	GetIMEIHistory(imei string) ([]model.IMEIEvent, error)
	GetAllTheftReports() ([]model.TheftReport, error)
	GetStatistics() (*model.Statistics, error)
}

func AddPhone(registryService RegistryService) echo.HandlerFunc {
	type params struct {
		IMEI  string `json:"imei"`
		Brand string `json:"brand"`
		Model string `json:"model"`
		Pin   string `json:"pin"`
	}
	return func(c echo.Context) error {
		p := &params{}
		if err := c.Bind(p); err != nil {
			return err
		}
		if err := registryService.AddPhone(Principal(c), p.IMEI, p.Brand, p.Model, p.Pin); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}

func CheckImei(registryService RegistryService) echo.HandlerFunc {
	return func(c echo.Context) error {
		status, err := registryService.CheckIMEI(c.Param("imei"))
		if err != nil {
			return err
		}
		return c.JSON(200, status)
	}
}

func GetUserPhones(registryService RegistryService) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := model.Principal(c.Param("principal"))
		phones, err := registryService.GetUserPhones(Principal(c), user)
		if err != nil {
			return err
		}
		return c.JSON(200, phones)
	}
}

func ReportLostStolen(registryService RegistryService) echo.HandlerFunc {
	type params struct {
		Location string `json:"location"`
		Details  string `json:"details"`
		IsStolen bool   `json:"isStolen"`
	}
	return func(c echo.Context) error {
		p := &params{}
		if err := c.Bind(p); err != nil {
			return err
		}
		err := registryService.ReportLostStolen(Principal(c), c.Param("imei"), p.Location, p.Details, p.IsStolen)
		if err != nil {
			return err
		}
		return c.NoContent(204)
	}
}

func ReportFound(registryService RegistryService) echo.HandlerFunc {
	type params struct {
		FinderInfo *string `json:"finderInfo"`
	}
	return func(c echo.Context) error {
		p := &params{}
		if err := c.Bind(p); err != nil {
			return err
		}
		if err := registryService.ReportFound(Principal(c), c.Param("imei"), p.FinderInfo); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}

func TransferOwnership(registryService RegistryService) echo.HandlerFunc {
	type params struct {
		NewOwner model.Principal `json:"newOwner"`
	}
	return func(c echo.Context) error {
		p := &params{}
		if err := c.Bind(p); err != nil {
			return err
		}
		if err := registryService.TransferOwnership(Principal(c), c.Param("imei"), p.NewOwner); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}

func ReleasePhone(registryService RegistryService) echo.HandlerFunc {
	type params struct {
		Pin    string              `json:"pin"`
		Reason model.ReleaseReason `json:"reason"`
	}
	return func(c echo.Context) error {
		p := &params{}
		if err := c.Bind(p); err != nil {
			return err
		}
		if err := registryService.ReleasePhone(Principal(c), c.Param("imei"), p.Pin, p.Reason); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}

func RevokeOwnership(registryService RegistryService) echo.HandlerFunc {
	type params struct {
		Reason string `json:"reason"`
	}
	return func(c echo.Context) error {
		p := &params{}
		if err := c.Bind(p); err != nil {
			return err
		}
		if err := registryService.RevokeOwnership(Principal(c), c.Param("imei"), p.Reason); err != nil {
			return err
		}
		return c.NoContent(204)
	}
}

func GetIMEIHistory(registryService RegistryService) echo.HandlerFunc {
	return func(c echo.Context) error {
		events, err := registryService.GetIMEIHistory(c.Param("imei"))
		if err != nil {
			return err
		}
		return c.JSON(200, events)
	}
}

func GetAllTheftReports(registryService RegistryService) echo.HandlerFunc {
	return func(c echo.Context) error {
		reports, err := registryService.GetAllTheftReports()
		if err != nil {
			return err
		}
		return c.JSON(200, reports)
	}
}

func GetStatistics(registryService RegistryService) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := registryService.GetStatistics()
		if err != nil {
			return err
		}
		return c.JSON(200, stats)
	}
}
