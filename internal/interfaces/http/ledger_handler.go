package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mgarzon/almacen-api/internal/application/dto"
	"github.com/mgarzon/almacen-api/internal/application/usecase"
)

// LedgerHandler maneja los libros de entradas y salidas de stock.
type LedgerHandler struct {
	uc *usecase.LedgerUsecase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *usecase.LedgerUsecase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// parseInterval lee ?from= y ?to= (RFC 3339). Sin parámetros, el intervalo
// cubre los últimos 30 días.
func parseInterval(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	return from, to, nil
}

// RecordReceipt godoc
// @Summary      Registrar entrada de stock
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordReceiptRequest  true  "Movimiento"
// @Success      201   {object}  entity.Receipt
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
func (h *LedgerHandler) RecordReceipt(c *fiber.Ctx) error {
	var in dto.RecordReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordReceipt(in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordEmission godoc
// @Summary      Registrar salida de stock
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordEmissionRequest  true  "Movimiento"
// @Success      201   {object}  entity.Emission
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/emissions [post]
func (h *LedgerHandler) RecordEmission(c *fiber.Ctx) error {
	var in dto.RecordEmissionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordEmission(in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListReceipts entradas dentro de ?from=/&to= (RFC 3339).
func (h *LedgerHandler) ListReceipts(c *fiber.Ctx) error {
	from, to, err := parseInterval(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from y to deben ser RFC 3339"})
	}
	out, err := h.uc.ListReceipts(from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListEmissions salidas dentro de ?from=/&to= (RFC 3339).
func (h *LedgerHandler) ListEmissions(c *fiber.Ctx) error {
	from, to, err := parseInterval(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from y to deben ser RFC 3339"})
	}
	out, err := h.uc.ListEmissions(from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
