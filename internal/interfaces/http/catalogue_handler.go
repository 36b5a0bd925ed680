package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mgarzon/almacen-api/internal/application/dto"
	"github.com/mgarzon/almacen-api/internal/application/usecase"
)

// CatalogueHandler maneja los catálogos simples: fabricantes, destinatarios,
// hashtags y unidades de coste.
type CatalogueHandler struct {
	uc *usecase.CatalogueUsecase
}

// NewCatalogueHandler construye el handler.
func NewCatalogueHandler(uc *usecase.CatalogueUsecase) *CatalogueHandler {
	return &CatalogueHandler{uc: uc}
}

func parseBody[T any](c *fiber.Ctx) (*T, error) {
	var in T
	if err := c.BodyParser(&in); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return &in, nil
}

// ---- Fabricantes ----

func (h *CatalogueHandler) CreateManufacturer(c *fiber.Ctx) error {
	in, err := parseBody[dto.CreateManufacturerRequest](c)
	if in == nil {
		return err
	}
	out, err := h.uc.CreateManufacturer(*in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogueHandler) UpdateManufacturer(c *fiber.Ctx) error {
	in, err := parseBody[dto.UpdateManufacturerRequest](c)
	if in == nil {
		return err
	}
	out, err := h.uc.UpdateManufacturer(c.Params("id"), *in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogueHandler) GetManufacturer(c *fiber.Ctx) error {
	out, err := h.uc.GetManufacturer(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogueHandler) ListManufacturers(c *fiber.Ctx) error {
	out, err := h.uc.ListManufacturers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogueHandler) DeleteManufacturer(c *fiber.Ctx) error {
	if err := h.uc.DeleteManufacturer(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ---- Destinatarios ----

func (h *CatalogueHandler) CreateReceiver(c *fiber.Ctx) error {
	in, err := parseBody[dto.CreateReceiverRequest](c)
	if in == nil {
		return err
	}
	out, err := h.uc.CreateReceiver(*in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogueHandler) UpdateReceiver(c *fiber.Ctx) error {
	in, err := parseBody[dto.UpdateReceiverRequest](c)
	if in == nil {
		return err
	}
	out, err := h.uc.UpdateReceiver(c.Params("id"), *in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogueHandler) GetReceiver(c *fiber.Ctx) error {
	out, err := h.uc.GetReceiver(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogueHandler) ListReceivers(c *fiber.Ctx) error {
	out, err := h.uc.ListReceivers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogueHandler) DeleteReceiver(c *fiber.Ctx) error {
	if err := h.uc.DeleteReceiver(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ---- Hashtags ----

func (h *CatalogueHandler) CreateHashtag(c *fiber.Ctx) error {
	in, err := parseBody[dto.CreateHashtagRequest](c)
	if in == nil {
		return err
	}
	out, err := h.uc.CreateHashtag(*in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogueHandler) UpdateHashtag(c *fiber.Ctx) error {
	in, err := parseBody[dto.UpdateHashtagRequest](c)
	if in == nil {
		return err
	}
	out, err := h.uc.UpdateHashtag(c.Params("id"), *in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogueHandler) GetHashtag(c *fiber.Ctx) error {
	out, err := h.uc.GetHashtag(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogueHandler) ListHashtags(c *fiber.Ctx) error {
	out, err := h.uc.ListHashtags()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogueHandler) DeleteHashtag(c *fiber.Ctx) error {
	if err := h.uc.DeleteHashtag(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ---- Unidades de coste ----

func (h *CatalogueHandler) CreateCostUnit(c *fiber.Ctx) error {
	in, err := parseBody[dto.CreateCostUnitRequest](c)
	if in == nil {
		return err
	}
	out, err := h.uc.CreateCostUnit(*in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogueHandler) UpdateCostUnit(c *fiber.Ctx) error {
	in, err := parseBody[dto.UpdateCostUnitRequest](c)
	if in == nil {
		return err
	}
	out, err := h.uc.UpdateCostUnit(c.Params("id"), *in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogueHandler) GetCostUnit(c *fiber.Ctx) error {
	out, err := h.uc.GetCostUnit(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogueHandler) ListCostUnits(c *fiber.Ctx) error {
	out, err := h.uc.ListCostUnits()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogueHandler) DeleteCostUnit(c *fiber.Ctx) error {
	if err := h.uc.DeleteCostUnit(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
