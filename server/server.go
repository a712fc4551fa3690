// Package server exposes the planner and the plan library over HTTP.
package server

import (
	"bytes"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/aoplan"
	"github.com/meikuraledutech/aoplan/planner"
	"github.com/meikuraledutech/aoplan/xmlio"
)

// New builds the HTTP application over a store. Assembly documents are
// uploaded as raw XML and validated on the way in; planning runs
// synchronously in the request and the resulting plan is persisted.
func New(store aoplan.Store, log *slog.Logger) *fiber.App {
	app := fiber.New()

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", func(c fiber.Ctx) error {
		if err := store.CreateSchema(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "schema created"})
	})

	app.Delete("/schema", func(c fiber.Ctx) error {
		if err := store.DropSchema(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "schema dropped"})
	})

	// ── Assemblies ────────────────────────────────────────────────────
	app.Put("/assemblies/:name", func(c fiber.Ctx) error {
		body := c.Body()
		if len(body) == 0 {
			return c.Status(400).JSON(fiber.Map{"error": "empty body"})
		}
		// Reject invalid documents before they reach the store.
		if _, _, _, err := xmlio.Read(bytes.NewReader(body)); err != nil {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}
		a := &aoplan.Assembly{Name: c.Params("name"), Document: append([]byte(nil), body...)}
		if err := store.SaveAssembly(c.Context(), a); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		log.Info("assembly saved", "name", a.Name, "bytes", len(a.Document))
		return c.Status(201).JSON(fiber.Map{"name": a.Name})
	})

	app.Get("/assemblies", func(c fiber.Ctx) error {
		assemblies, err := store.ListAssemblies(c.Context())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		names := make([]string, len(assemblies))
		for i, a := range assemblies {
			names[i] = a.Name
		}
		return c.JSON(names)
	})

	app.Get("/assemblies/:name", func(c fiber.Ctx) error {
		a, err := store.GetAssembly(c.Context(), c.Params("name"))
		if errors.Is(err, aoplan.ErrAssemblyNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "assembly not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		c.Set("Content-Type", "application/xml")
		return c.Send(a.Document)
	})

	app.Delete("/assemblies/:name", func(c fiber.Ctx) error {
		if err := store.DeleteAssembly(c.Context(), c.Params("name")); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	// ── Planning ──────────────────────────────────────────────────────
	app.Post("/assemblies/:name/plan", func(c fiber.Ctx) error {
		name := c.Params("name")
		a, err := store.GetAssembly(c.Context(), name)
		if errors.Is(err, aoplan.ErrAssemblyNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "assembly not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}

		g, root, cfg, err := xmlio.Read(bytes.NewReader(a.Document))
		if err != nil {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}

		p, err := planner.New(g, root, cfg).Plan(c.Context())
		if errors.Is(err, planner.ErrNoPlan) {
			return c.Status(422).JSON(fiber.Map{"error": "no plan"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		p.Assembly = name

		id, err := store.SavePlan(c.Context(), p)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		log.Info("plan computed", "assembly", name, "plan", id,
			"steps", len(p.Steps), "total_cost", p.TotalCost)
		return c.Status(201).JSON(p)
	})

	// ── Plans ─────────────────────────────────────────────────────────
	app.Get("/plans", func(c fiber.Ctx) error {
		plans, err := store.ListPlans(c.Context(), c.Query("assembly"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(plans)
	})

	app.Get("/plans/:id", func(c fiber.Ctx) error {
		p, err := store.GetPlan(c.Context(), c.Params("id"))
		if errors.Is(err, aoplan.ErrPlanNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "plan not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(p)
	})

	app.Delete("/plans/:id", func(c fiber.Ctx) error {
		if err := store.DeletePlan(c.Context(), c.Params("id")); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	return app
}
