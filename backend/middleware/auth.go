package middleware

import (
	"academix/backend/config"
	"academix/backend/models"
	"academix/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the JWT and stashes the claims in locals for the
// handlers downstream.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, accountType, err := utils.ExtractClaims(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		c.Locals("userID", userID)
		c.Locals("accountType", accountType)
		return c.Next()
	}
}

func requireAccountType(want string, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountType, _ := c.Locals("accountType").(string)
		if accountType != want {
			return utils.Forbidden(c, message)
		}
		return c.Next()
	}
}

func StudentOnly() fiber.Handler {
	return requireAccountType(models.AccountTypeStudent, "This is a protected route for students only")
}

func InstructorOnly() fiber.Handler {
	return requireAccountType(models.AccountTypeInstructor, "This is a protected route for instructors only")
}

func AdminOnly() fiber.Handler {
	return requireAccountType(models.AccountTypeAdmin, "This is a protected route for admins only")
}
