package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/mgarzon/almacen-api/internal/application/backup"
	"github.com/mgarzon/almacen-api/internal/application/dto"
	"github.com/mgarzon/almacen-api/internal/domain/entity"
	"github.com/mgarzon/almacen-api/internal/domain/repository"
	"github.com/mgarzon/almacen-api/internal/system"
	"github.com/mgarzon/almacen-api/pkg/logger"
)

// AdminHandler operaciones de administración: respaldo, estadísticas de
// tabla y reinicio del sistema. Todas exigen rol admin en el router.
type AdminHandler struct {
	sys    *system.System
	backup *backup.Service
	log    *logger.Logger
}

// NewAdminHandler construye el handler.
func NewAdminHandler(sys *system.System, backupSvc *backup.Service, log *logger.Logger) *AdminHandler {
	return &AdminHandler{sys: sys, backup: backupSvc, log: log}
}

// ExportBackup godoc
// @Summary      Exportar volcado completo (zip)
// @Tags         admin
// @Security     Bearer
// @Produce      application/zip
// @Success      200
// @Router       /api/admin/backup [get]
func (h *AdminHandler) ExportBackup(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.backup.Export(&buf); err != nil {
		h.log.Error().Err(err).Msg("exportación de respaldo fallida")
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="almacen-backup.zip"`)
	return c.Send(buf.Bytes())
}

// ImportBackup godoc
// @Summary      Importar volcado completo (zip)
// @Tags         admin
// @Security     Bearer
// @Accept       application/zip
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/backup [post]
func (h *AdminHandler) ImportBackup(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cuerpo vacío: se espera el zip del volcado"})
	}
	if err := h.backup.Import(bytes.NewReader(body), int64(len(body))); err != nil {
		h.log.Error().Err(err).Msg("importación de respaldo fallida")
		return respondError(c, err)
	}
	// El agregado en memoria quedó atrás respecto de las filas importadas.
	if err := h.sys.ArticleStock().InitFromSystem(); err != nil {
		h.log.Error().Err(err).Msg("reinicialización de stock tras importar fallida")
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// tableStatsResponse estadística de una tabla con el conteo ya refrescado.
type tableStatsResponse struct {
	Stats    *entity.TableStats `json:"stats"`
	RowCount int64              `json:"row_count"`
}

// TableStats godoc
// @Summary      Estadísticas de cambios y conteos por tabla
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]tableStatsResponse
// @Router       /api/admin/stats [get]
func (h *AdminHandler) TableStats(c *fiber.Ctx) error {
	stats := h.sys.Persistence().TableStats
	tables := []string{
		repository.TableArticles,
		repository.TableAttributes,
		repository.TableImageReferences,
		repository.TableStores,
		repository.TableStoreSections,
		repository.TableManufacturers,
		repository.TableReceivers,
		repository.TableHashtags,
		repository.TableCostUnits,
		repository.TableUsers,
		repository.TableReceipts,
		repository.TableEmissions,
	}
	result := make(map[string]tableStatsResponse, len(tables))
	for _, table := range tables {
		count, err := stats.RefreshCount(table)
		if err != nil {
			return respondError(c, err)
		}
		st, err := stats.Get(table)
		if err != nil {
			return respondError(c, err)
		}
		result[table] = tableStatsResponse{Stats: st, RowCount: count}
	}
	return c.JSON(result)
}

// Restart godoc
// @Summary      Reiniciar pool de DB y recargar el stock
// @Tags         admin
// @Security     Bearer
// @Success      204
// @Router       /api/admin/restart [post]
func (h *AdminHandler) Restart(c *fiber.Ctx) error {
	if err := h.sys.Restart(c.Context()); err != nil {
		h.log.Error().Err(err).Msg("reinicio del sistema fallido")
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// stockHealthResponse salud del agregado de stock.
type stockHealthResponse struct {
	SkippedUnknownArticles int64 `json:"skipped_unknown_articles"`
	SkippedUnknownSections int64 `json:"skipped_unknown_sections"`
}

// StockHealth godoc
// @Summary      Salud del agregado de stock
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  stockHealthResponse
// @Router       /api/admin/stock-health [get]
func (h *AdminHandler) StockHealth(c *fiber.Ctx) error {
	return c.JSON(stockHealthResponse{
		SkippedUnknownArticles: h.sys.ArticleStock().SkippedUnknownArticles(),
		SkippedUnknownSections: h.sys.ArticleStock().SkippedUnknownSections(),
	})
}
