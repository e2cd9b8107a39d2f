package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
)

// SetupRoutes registers all application routes.
func (a *App) SetupRoutes(r router.Router[*fiber.App]) {
	r.Get("/healthz", a.health)

	a.Handler.RegisterRoutes(r)
}

func (a *App) health(c router.Context) error {
	return c.JSON(200, map[string]any{
		"status": "ok",
		"tier":   a.Selector.Tier().String(),
		"fonts":  string(a.Fonts.Resolve().Source),
	})
}
