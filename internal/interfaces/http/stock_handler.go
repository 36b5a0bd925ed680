package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mgarzon/almacen-api/internal/application/stock"
)

// StockHandler consultas del agregado de stock en memoria.
type StockHandler struct {
	engine *stock.Engine
}

// NewStockHandler construye el handler.
func NewStockHandler(engine *stock.Engine) *StockHandler {
	return &StockHandler{engine: engine}
}

// ByArticle godoc
// @Summary      Stock de un artículo en todas sus secciones
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {array}  stock.StockState
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock/articles/{id} [get]
func (h *StockHandler) ByArticle(c *fiber.Ctx) error {
	out, err := h.engine.StockStateForArticle(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// BySections godoc
// @Summary      Stock agrupado por sección
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  stock.SectionStock
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock/sections [get]
func (h *StockHandler) BySections(c *fiber.Ctx) error {
	out, err := h.engine.StockStateForAllStoreSections()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByArticles godoc
// @Summary      Stock agrupado por artículo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  stock.ArticleStock
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock/articles [get]
func (h *StockHandler) ByArticles(c *fiber.Ctx) error {
	out, err := h.engine.StockStateForAllArticles()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
