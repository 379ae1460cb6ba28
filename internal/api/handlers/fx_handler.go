package handlers

import (
	"fincompare/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type FXHandler struct {
	fxService *service.FXService
	logger    *zap.Logger
}

func NewFXHandler(fxService *service.FXService, logger *zap.Logger) *FXHandler {
	return &FXHandler{
		fxService: fxService,
		logger:    logger,
	}
}

// PairRate godoc
// @Summary Get the latest rate for a currency pair
// @Description Latest rate plus min/max/avg statistics across institutions
// @Tags fx
// @Produce json
// @Param source query string true "Source currency code"
// @Param target query string true "Target currency code"
// @Success 200 {object} dto.PairRateResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/rates/pair [get]
func (h *FXHandler) PairRate(c *fiber.Ctx) error {
	source, target := c.Query("source"), c.Query("target")
	if source == "" || target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "source and target are required",
		})
	}

	resp, err := h.fxService.PairRate(c.Context(), source, target)
	if err != nil {
		if err == service.ErrRateNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No rates for this currency pair",
			})
		}
		h.logger.Error("Failed to get pair rate", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get pair rate",
		})
	}

	return c.JSON(resp)
}

// PopularRates godoc
// @Summary Rates for popular currency pairs
// @Description Latest rate per popular pair with change percentage
// @Tags fx
// @Produce json
// @Success 200 {array} dto.PopularRateResponse
// @Security BearerAuth
// @Router /api/v1/rates/popular [get]
func (h *FXHandler) PopularRates(c *fiber.Ctx) error {
	rates, err := h.fxService.PopularRates(c.Context())
	if err != nil {
		h.logger.Error("Failed to get popular rates", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get popular rates",
		})
	}

	return c.JSON(rates)
}

// Convert godoc
// @Summary Convert an amount between currencies
// @Tags fx
// @Produce json
// @Param amount query string true "Amount to convert"
// @Param source query string true "Source currency code"
// @Param target query string true "Target currency code"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/rates/convert [get]
func (h *FXHandler) Convert(c *fiber.Ctx) error {
	source, target := c.Query("source"), c.Query("target")
	if source == "" || target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "source and target are required",
		})
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid amount",
		})
	}

	resp, err := h.fxService.Convert(c.Context(), amount, source, target)
	if err != nil {
		switch err {
		case service.ErrInvalidAmount:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Amount must be positive",
			})
		case service.ErrRateNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No rates for this currency pair",
			})
		}
		h.logger.Error("Conversion failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Conversion failed",
		})
	}

	return c.JSON(resp)
}

// InstitutionRates godoc
// @Summary List one institution's rates
// @Tags fx
// @Produce json
// @Param institution_id query string true "Institution ID"
// @Param source query string false "Source currency filter"
// @Param target query string false "Target currency filter"
// @Success 200 {array} dto.RateResponse
// @Security BearerAuth
// @Router /api/v1/rates [get]
func (h *FXHandler) InstitutionRates(c *fiber.Ctx) error {
	institutionID, err := uuid.Parse(c.Query("institution_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid institution_id",
		})
	}

	rates, err := h.fxService.InstitutionRates(c.Context(), institutionID, c.Query("source"), c.Query("target"))
	if err != nil {
		h.logger.Error("Failed to list rates", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list rates",
		})
	}

	return c.JSON(rates)
}

// Currencies godoc
// @Summary List known currency codes
// @Tags fx
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/currencies [get]
func (h *FXHandler) Currencies(c *fiber.Ctx) error {
	currencies, err := h.fxService.Currencies(c.Context())
	if err != nil {
		h.logger.Error("Failed to list currencies", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list currencies",
		})
	}

	return c.JSON(fiber.Map{"currencies": currencies})
}
