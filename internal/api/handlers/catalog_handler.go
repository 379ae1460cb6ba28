package handlers

import (
	"fincompare/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListInstitutions godoc
// @Summary List financial institutions
// @Description List institutions, optionally filtered by type
// @Tags catalog
// @Produce json
// @Param type query string false "Institution type (Bank, Islamic Bank, Central Bank, Fintech)"
// @Success 200 {array} dto.InstitutionResponse
// @Security BearerAuth
// @Router /api/v1/institutions [get]
func (h *CatalogHandler) ListInstitutions(c *fiber.Ctx) error {
	institutions, err := h.catalogService.ListInstitutions(c.Context(), c.Query("type"))
	if err != nil {
		h.logger.Error("Failed to list institutions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list institutions",
		})
	}

	return c.JSON(institutions)
}

// GetInstitution godoc
// @Summary Get one institution
// @Description Get an institution by id, including its address
// @Tags catalog
// @Produce json
// @Param id path string true "Institution ID"
// @Success 200 {object} dto.InstitutionResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/institutions/{id} [get]
func (h *CatalogHandler) GetInstitution(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid institution id",
		})
	}

	inst, err := h.catalogService.GetInstitution(c.Context(), id)
	if err != nil {
		if err == service.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Institution not found",
			})
		}
		h.logger.Error("Failed to get institution", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get institution",
		})
	}

	return c.JSON(inst)
}

// ListInstitutionProducts godoc
// @Summary List an institution's products
// @Tags catalog
// @Produce json
// @Param id path string true "Institution ID"
// @Param category query string false "Category name filter"
// @Success 200 {array} dto.ProductResponse
// @Security BearerAuth
// @Router /api/v1/institutions/{id}/products [get]
func (h *CatalogHandler) ListInstitutionProducts(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid institution id",
		})
	}

	products, err := h.catalogService.ListProducts(c.Context(), &id, c.Query("category"))
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list products",
		})
	}

	return c.JSON(products)
}

// ListProducts godoc
// @Summary List products
// @Description List products across institutions, filtered by institution and/or category
// @Tags catalog
// @Produce json
// @Param institution_id query string false "Institution ID filter"
// @Param category query string false "Category name filter"
// @Success 200 {array} dto.ProductResponse
// @Security BearerAuth
// @Router /api/v1/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	var institutionID *uuid.UUID
	if raw := c.Query("institution_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid institution_id",
			})
		}
		institutionID = &id
	}

	products, err := h.catalogService.ListProducts(c.Context(), institutionID, c.Query("category"))
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list products",
		})
	}

	return c.JSON(products)
}

// ListCategories godoc
// @Summary List product categories
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Security BearerAuth
// @Router /api/v1/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.ListCategories(c.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list categories",
		})
	}

	return c.JSON(categories)
}

// ListProductFees godoc
// @Summary List a product's fees
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {array} dto.FeeResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/products/{id}/fees [get]
func (h *CatalogHandler) ListProductFees(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product id",
		})
	}

	fees, err := h.catalogService.ListProductFees(c.Context(), id)
	if err != nil {
		if err == service.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		h.logger.Error("Failed to list fees", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list fees",
		})
	}

	return c.JSON(fees)
}

// ListFees godoc
// @Summary List fees
// @Description List fees, optionally filtered by product
// @Tags catalog
// @Produce json
// @Param product_id query string false "Product ID filter"
// @Success 200 {array} dto.FeeResponse
// @Security BearerAuth
// @Router /api/v1/fees [get]
func (h *CatalogHandler) ListFees(c *fiber.Ctx) error {
	var productID *uuid.UUID
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid product_id",
			})
		}
		productID = &id
	}

	fees, err := h.catalogService.ListFees(c.Context(), productID)
	if err != nil {
		h.logger.Error("Failed to list fees", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list fees",
		})
	}

	return c.JSON(fees)
}

// ListAccounts godoc
// @Summary List the caller's linked accounts
// @Tags accounts
// @Produce json
// @Success 200 {array} dto.AccountResponse
// @Security BearerAuth
// @Router /api/v1/accounts [get]
func (h *CatalogHandler) ListAccounts(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	accounts, err := h.catalogService.ListAccounts(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list accounts", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list accounts",
		})
	}

	return c.JSON(accounts)
}

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}
