package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"

	"imeivault/internal/boot"
	"imeivault/internal/handlers"
	"imeivault/internal/service/access"
	"imeivault/internal/service/registry"
	"imeivault/internal/store"
)

type AccessService interface {
	handlers.AccessService
}

type RegistryService interface {
	handlers.RegistryService
	handlers.PinService
	handlers.NotificationService
}

type config struct {
	boot.Config
	accessService   AccessService
	registryService RegistryService
}

func newConfig(bootConfig *boot.Config) *config {
	st, err := store.Open(bootConfig)
	if err != nil {
		log.Fatalf("opening store: %+v", err)
	}

	accessService := access.New(st, bootConfig.InvitesRequired)
	if err := accessService.SeedAdmins(bootConfig.Admins); err != nil {
		log.Fatalf("seeding admins: %+v", err)
	}

	registryService := registry.New(st, accessService)

	return &config{*bootConfig, accessService, registryService}
}

func main() {
	bootConfig, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	config := newConfig(bootConfig)

	identity, err := handlers.NewIdentityResolver(bootConfig.Auth.PublicJWK, bootConfig.Auth.HMACSecret)
	if err != nil {
		log.Fatalf("identity resolver: %+v", err)
	}

	server := echo.New()
	server.HTTPErrorHandler = handlers.HTTPErrorHandler
	server.Use(middleware.BodyLimit("1M"))
	server.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	server.Use(echoprometheus.NewMiddleware("imeivault"))
	server.Use(middleware.Recover())
	server.Use(identity)

	server.Logger.SetLevel(log.INFO)

	headers := []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization}
	server.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     strings.Split(config.Server.Origins, ","),
		AllowHeaders:     headers,
		AllowCredentials: true,
	}))

	// Public read surface. Buyers and finders need no account.
	server.GET("/imei/:imei", handlers.CheckImei(config.registryService))
	server.GET("/imei/:imei/history", handlers.GetIMEIHistory(config.registryService))
	server.GET("/reports", handlers.GetAllTheftReports(config.registryService))
	server.GET("/statistics", handlers.GetStatistics(config.registryService))
	server.POST("/imei/:imei/found", handlers.ReportFound(config.registryService))

	// Universal endpoints for any authenticated caller.
	server.GET("/access", handlers.GetAccessState(config.accessService))
	server.GET("/access/role", handlers.GetCallerUserRole(config.accessService))
	server.GET("/access/admin", handlers.IsCallerAdmin(config.accessService))
	server.GET("/access/user", handlers.HasUserAccess(config.accessService))
	server.POST("/invites/redeem", handlers.RedeemInviteCode(config.accessService))

	// User endpoints. Authorization happens in the services so that no
	// mutation can bypass the access checks.
	server.POST("/phones", handlers.AddPhone(config.registryService))
	server.GET("/users/:principal/phones", handlers.GetUserPhones(config.registryService))
	server.POST("/phones/:imei/report", handlers.ReportLostStolen(config.registryService))
	server.POST("/phones/:imei/transfer", handlers.TransferOwnership(config.registryService))
	server.POST("/phones/:imei/release", handlers.ReleasePhone(config.registryService))
	server.GET("/profile", handlers.GetCallerUserProfile(config.accessService))
	server.POST("/profile", handlers.RegisterProfile(config.accessService))
	server.PUT("/profile", handlers.SaveCallerUserProfile(config.accessService))
	server.GET("/pin", handlers.HasPin(config.registryService))
	server.POST("/pin", handlers.SetOrChangePin(config.registryService))
	server.POST("/pin/validate", handlers.ValidatePin(config.registryService))
	server.DELETE("/pin", handlers.ClearPin(config.registryService))
	server.GET("/notifications", handlers.GetNotifications(config.registryService))
	server.POST("/notifications/:id/read", handlers.MarkNotificationAsRead(config.registryService))
	server.POST("/notifications/read-all", handlers.MarkAllNotificationsAsRead(config.registryService))

	// Admin endpoints.
	server.POST("/admin/invites", handlers.GenerateInviteCode(config.accessService))
	server.GET("/admin/invites", handlers.GetInviteCodes(config.accessService))
	server.GET("/admin/invites/status", handlers.GetInviteCodesWithStatus(config.accessService))
	server.POST("/admin/invites/:code/deactivate", handlers.DeactivateInviteCode(config.accessService))
	server.PUT("/admin/invites/:code/payment-note", handlers.SetInvitePaymentNote(config.accessService))
	server.POST("/admin/roles", handlers.AssignCallerUserRole(config.accessService))
	server.GET("/admin/users/:principal/profile", handlers.GetUserProfile(config.accessService))
	server.POST("/admin/phones/:imei/revoke", handlers.RevokeOwnership(config.registryService))

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(":" + config.Server.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	go func() {
		if err := server.Start(":" + config.Server.Port); err != nil && err != http.ErrServerClosed {
			server.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Logger.Fatal(err)
	}
}
