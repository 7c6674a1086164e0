package common

import (
	"github.com/gofiber/fiber/v2"
)

// Response is the envelope every endpoint answers with on failure, and the
// base of the success payloads.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSONError sends an error envelope with the given status.
func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: false, Error: message})
}

// JSONMap sends an arbitrary map as JSON.
func JSONMap(c *fiber.Ctx, data fiber.Map) error {
	return c.JSON(data)
}
