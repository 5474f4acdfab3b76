package handlers

import (
	"strconv"

	"library-api/internal/pkg/dateonly"

	"github.com/gofiber/fiber/v2"
)

// parseID reads a positive numeric route parameter
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseDateQuery reads a required YYYY-MM-DD query parameter
func parseDateQuery(c *fiber.Ctx, name string) (dateonly.Date, bool) {
	d, err := dateonly.Parse(c.Query(name))
	if err != nil {
		return dateonly.Date{}, false
	}
	return d, true
}
