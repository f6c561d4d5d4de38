package utils

import "github.com/gofiber/fiber/v2"

// ResponseResult writes the {success, message} envelope. Handler-level
// failures are advisory and still return 200.
func ResponseResult(ctx *fiber.Ctx, success bool, message string) error {
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": success,
		"message": message,
	})
}

func ResponseServerError(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Something went wrong. Please try again.",
	})
}
