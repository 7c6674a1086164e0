package studio

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/studio/common"
)

func (s *Server) handleGetTables(c *fiber.Ctx) error {
	tables, err := s.service.GetTables(c.UserContext())
	if err != nil {
		return err
	}

	return common.JSONMap(c, fiber.Map{
		"success": true,
		"tables":  tables,
	})
}

func (s *Server) handleGetTableColumns(c *fiber.Ctx) error {
	tableName := c.Params("name")

	columns, err := s.service.GetTableColumns(c.UserContext(), tableName)
	if err != nil {
		return err
	}

	return common.JSONMap(c, fiber.Map{
		"success":   true,
		"tableName": tableName,
		"columns":   columns,
	})
}

func (s *Server) handleAggregate(c *fiber.Ctx) error {
	var req AggregateRequest
	if err := c.BodyParser(&req); err != nil {
		return common.JSONError(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	sessionID := c.Get(sessionHeader)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	c.Set(sessionHeader, sessionID)

	result, err := s.service.Aggregate(c.UserContext(), sessionID, req)
	if err != nil {
		return err
	}

	return c.JSON(AggregateResponse{
		Success:         true,
		Data:            result.Data.Rows,
		Query:           result.Query.SQL,
		Parameters:      result.Query.Parameters,
		UniqueGroupKeys: result.Data.UniqueGroupKeys,
		Warnings:        result.Warnings,
	})
}

// handleError turns every error returned by a handler into the error envelope.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "error", err, "request_id", requestIDFrom(c))
	}
	return common.JSONError(c, status, err.Error())
}
