package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/application/inventory"
)

// parsePage lee page/size/sortBy/sortDirection de la query y aplica los valores por defecto.
func parsePage(c *fiber.Ctx) (dto.PageRequest, *dto.ErrorResponse) {
	var p dto.PageRequest
	if err := c.QueryParser(&p); err != nil {
		return p, &dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"}
	}
	if err := validate.Struct(p); err != nil {
		resp := validationError(err)
		return p, &resp
	}
	p.DefaultPage()
	return p, nil
}

func listParams(p dto.PageRequest) inventory.ListParams {
	return inventory.ListParams{
		Limit:         p.Size,
		Offset:        p.Offset(),
		SortBy:        p.SortBy,
		SortDirection: p.SortDirection,
	}
}

// pathUUID lee un parámetro de ruta que debe ser UUID.
func pathUUID(c *fiber.Ctx, name string) (string, bool) {
	v := c.Params(name)
	if _, err := uuid.Parse(v); err != nil {
		return "", false
	}
	return v, true
}

func invalidParam(c *fiber.Ctx, field string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Message: "datos inválidos",
		Details: []dto.ValidationDetail{{Field: field, Message: "valor inválido"}},
	})
}

func optInt64(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func optDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
