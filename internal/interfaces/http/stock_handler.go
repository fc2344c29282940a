package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/stock"
)

// StockHandler maneja las peticiones HTTP del ledger de lotes (protegido).
type StockHandler struct {
	ledger *inventory.StockLedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *inventory.StockLedgerUseCase) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// Allocate godoc
// @Summary      Asignar lote de stock
// @Description  Descuenta la cantidad del disponible sin asignar del producto y crea el lote.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateStockRequest  true  "product_id, quantity, unit_value"
// @Success      201   {object}  dto.StockLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(validationError(err))
	}
	lot, err := h.ledger.Allocate(c.UserContext(), inventory.AllocateInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitValue: in.UnitValue,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromStockLot(lot))
}

// Adjust godoc
// @Summary      Ajustar lote de stock
// @Description  Cambia cantidad, valor o producto del lote. Reasignar a otro producto devuelve la cantidad al producto anterior.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del lote"
// @Param        body  body  dto.AdjustStockRequest   true  "Nuevo estado"
// @Success      200   {object}  dto.StockLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [put]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidParam(c, "id")
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(validationError(err))
	}
	lot, err := h.ledger.Adjust(c.UserContext(), inventory.AdjustInput{
		LotID:     id,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitValue: in.UnitValue,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromStockLot(lot))
}

// Remove godoc
// @Summary      Eliminar lote de stock
// @Tags         stock
// @Security     Bearer
// @Param        id  path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [delete]
func (h *StockHandler) Remove(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidParam(c, "id")
	}
	if err := h.ledger.Remove(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener lote por ID
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.StockLotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidParam(c, "id")
	}
	lot, err := h.ledger.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromStockLot(lot))
}

// List godoc
// @Summary      Listar lotes
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        page           query  int     false  "Página (base 0)"
// @Param        size           query  int     false  "Tamaño (máx 100)"
// @Param        sortBy         query  string  false  "quantity|value|product|supplier|createdAt|updatedAt"
// @Param        sortDirection  query  string  false  "asc|desc"
// @Success      200  {object}  dto.StockLotPage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	p, perr := parsePage(c)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(perr)
	}
	lots, total, err := h.ledger.List(c.UserContext(), listParams(p))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockLotPage(lots, p, total))
}

// ListByProduct godoc
// @Summary      Listar lotes de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockLotPage
// @Router       /api/stock/product/{productId} [get]
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return invalidParam(c, "productId")
	}
	p, perr := parsePage(c)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(perr)
	}
	lots, total, err := h.ledger.ListByProduct(c.UserContext(), productID, listParams(p))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockLotPage(lots, p, total))
}

// ListBySupplier godoc
// @Summary      Listar lotes de un proveedor
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        supplierId  path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.StockLotPage
// @Router       /api/stock/supplier/{supplierId} [get]
func (h *StockHandler) ListBySupplier(c *fiber.Ctx) error {
	supplierID, ok := pathUUID(c, "supplierId")
	if !ok {
		return invalidParam(c, "supplierId")
	}
	p, perr := parsePage(c)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(perr)
	}
	lots, total, err := h.ledger.ListBySupplier(c.UserContext(), supplierID, listParams(p))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockLotPage(lots, p, total))
}

// Search godoc
// @Summary      Buscar lotes
// @Description  Combina texto (producto o proveedor), proveedor, producto y rangos de cantidad y valor unitario.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        q             query  string  false  "Texto en nombre de producto o proveedor"
// @Param        supplier_id   query  string  false  "Proveedor (UUID)"
// @Param        product_id    query  string  false  "Producto (UUID)"
// @Param        min_quantity  query  int     false  "Cantidad mínima"
// @Param        max_quantity  query  int     false  "Cantidad máxima"
// @Param        min_value     query  number  false  "Valor unitario mínimo"
// @Param        max_value     query  number  false  "Valor unitario máximo"
// @Success      200  {object}  dto.StockLotPage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/search [get]
func (h *StockHandler) Search(c *fiber.Ctx) error {
	var q dto.StockSearchQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	if err := validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(validationError(err))
	}
	criteria, field, err := searchCriteria(q)
	if err != nil {
		return invalidParam(c, field)
	}
	p, perr := parsePage(c)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(perr)
	}
	lots, total, err := h.ledger.Search(c.UserContext(), criteria, listParams(p))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockLotPage(lots, p, total))
}

// MaxQuantity godoc
// @Summary      Mayor cantidad entre los lotes
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MaxValueResponse
// @Router       /api/stock/max-quantity [get]
func (h *StockHandler) MaxQuantity(c *fiber.Ctx) error {
	v, err := h.ledger.MaxQuantity(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MaxValueResponse{Max: v})
}

// MaxValue godoc
// @Summary      Mayor valor unitario entre los lotes
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MaxValueResponse
// @Router       /api/stock/max-value [get]
func (h *StockHandler) MaxValue(c *fiber.Ctx) error {
	v, err := h.ledger.MaxValue(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MaxValueResponse{Max: v})
}

func searchCriteria(q dto.StockSearchQuery) (stock.Criteria, string, error) {
	c := stock.Criteria{Query: q.Query, SupplierID: q.SupplierID, ProductID: q.ProductID}
	var err error
	if c.MinQuantity, err = optInt64(q.MinQuantity); err != nil {
		return c, "min_quantity", err
	}
	if c.MaxQuantity, err = optInt64(q.MaxQuantity); err != nil {
		return c, "max_quantity", err
	}
	if c.MinValue, err = optDecimal(q.MinValue); err != nil {
		return c, "min_value", err
	}
	if c.MaxValue, err = optDecimal(q.MaxValue); err != nil {
		return c, "max_value", err
	}
	return c, "", nil
}
