package handler

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// Check is a named dependency probe used by the health endpoint.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// DatabaseCheck probes the Postgres pool.
func DatabaseCheck(db *sql.DB) Check {
	return Check{Name: "database", Ping: db.PingContext}
}

// HealthCheck runs every probe concurrently within a 2 second budget.
func HealthCheck(checks ...Check) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		for _, chk := range checks {
			g.Go(func() error {
				if err := chk.Ping(gctx); err != nil {
					return fmt.Errorf("%s: %w", chk.Name, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 while the process is serving.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
