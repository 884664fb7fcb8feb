package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/emergency-services/internal/api/dto"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.NewValidationError("invalid identifier", map[string]any{
			name: "must be a positive integer",
		})
	}
	return id, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseDate(val, field string) (time.Time, error) {
	t, err := time.Parse(dto.DateOnly, val)
	if err != nil {
		return time.Time{}, util.NewValidationError("invalid payload", map[string]any{
			field: "must be a date in YYYY-MM-DD format",
		})
	}
	return t, nil
}

func parseOptionalDate(val *string, field string) (*time.Time, error) {
	if val == nil || *val == "" {
		return nil, nil
	}
	t, err := parseDate(*val, field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func queryInt64(c *fiber.Ctx, name string) *int64 {
	val := c.Query(name)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func queryBool(c *fiber.Ctx, name string) *bool {
	val := c.Query(name)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return nil
	}
	return &parsed
}

func queryString(c *fiber.Ctx, name string) *string {
	val := c.Query(name)
	if val == "" {
		return nil
	}
	return &val
}
