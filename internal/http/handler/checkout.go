package handler

import (
	"github.com/gofiber/fiber/v2"

	"translateapi/internal/payment"
	"translateapi/internal/service"
)

type checkoutRequest struct {
	ID    string             `json:"id"`
	Items []payment.LineItem `json:"items"`
}

// CurrentSubscription returns the user's latest subscription, or null.
func CurrentSubscription(svc service.CheckoutService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sub, err := svc.CurrentSubscription(c.UserContext(), c.Params("userId"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(sub)
	}
}

func Subscriptions(svc service.CheckoutService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subs, err := svc.ListSubscriptions(c.UserContext(), c.Params("userId"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(subs)
	}
}

func CreateProduct(svc service.CheckoutService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.CreateProduct(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

func CreateCheckoutSession(svc service.CheckoutService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req checkoutRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		id, err := svc.CreateCheckoutSession(c.UserContext(), req.ID, req.Items)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"id": id})
	}
}
