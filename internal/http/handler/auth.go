package handler

import (
	"github.com/gofiber/fiber/v2"

	"translateapi/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.RegisterInput
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.Register(c.UserContext(), req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		token, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"token": token})
	}
}

// ForgotPassword answers the same way whether or not the email is registered.
func ForgotPassword(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req forgotPasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		// The mail result is not returned: it would reveal whether the email is registered.
		if _, err := svc.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "If the email is registered, a reset code has been sent."})
	}
}

func ResetPassword(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req resetPasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := svc.ResetPassword(c.UserContext(), req.Email, req.Code, req.Password); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Password updated successfully"})
	}
}

func GetUser(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := svc.GetUser(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(user)
	}
}

func DeleteUser(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "User deleted successfully"})
	}
}
