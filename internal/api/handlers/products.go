package handlers

import (
	"net/http"

	"catalog-service/internal/api/interfaces"
	"catalog-service/internal/api/middlewares"
	"catalog-service/internal/api/models"
	"catalog-service/internal/database"
	"catalog-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

var errProductNotFound = models.ErrNotFound.WithMessage("Product not found")

// CreateProduct adds a product to the catalog
func CreateProduct(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateProductRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, services.GetLogger(), err, "")
			return
		}

		product := &database.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       *req.Price,
		}
		if err := services.ProductRepository().Create(c.Request.Context(), product); err != nil {
			respondError(c, services.GetLogger(), err, "Error creating product")
			return
		}

		invalidateCache(c, services)
		services.GetLogger().AuditLogger("product_created", c.GetString(middlewares.ContextUserID), product.ID, product.Name)
		c.JSON(http.StatusCreated, product)
	}
}

// ListProducts returns the whole catalog
func ListProducts(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := services.ProductRepository().List(c.Request.Context())
		if err != nil {
			respondError(c, services.GetLogger(), err, "Error fetching products")
			return
		}

		c.JSON(http.StatusOK, products)
	}
}

// GetProduct returns one product
func GetProduct(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := services.ProductRepository().GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondProductError(c, services, err, "Error fetching product")
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// UpdateProduct applies a partial update
func UpdateProduct(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateProductRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, services.GetLogger(), err, "")
			return
		}

		patch := database.ProductPatch{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
		}
		product, err := services.ProductRepository().Update(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			respondProductError(c, services, err, "Error updating product")
			return
		}

		invalidateCache(c, services)
		services.GetLogger().AuditLogger("product_updated", c.GetString(middlewares.ContextUserID), product.ID, "")
		c.JSON(http.StatusOK, product)
	}
}

// DeleteProduct removes a product
func DeleteProduct(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := services.ProductRepository().Delete(c.Request.Context(), id); err != nil {
			respondProductError(c, services, err, "Error deleting product")
			return
		}

		invalidateCache(c, services)
		services.GetLogger().AuditLogger("product_deleted", c.GetString(middlewares.ContextUserID), id, "")
		c.Status(http.StatusNoContent)
	}
}

func respondProductError(c *gin.Context, services interfaces.Services, err error, internalMsg string) {
	if models.StatusFromError(err) == http.StatusNotFound {
		c.AbortWithStatusJSON(errProductNotFound.StatusCode, errProductNotFound.Response())
		return
	}
	respondError(c, services.GetLogger(), err, internalMsg)
}

// invalidateCache drops cached listings after a write. A failure leaves
// stale entries until their TTL runs out.
func invalidateCache(c *gin.Context, services interfaces.Services) {
	store := services.ResponseCache()
	if store == nil {
		return
	}
	if err := store.Clear(c.Request.Context()); err != nil {
		logger.GetLoggerFromContext(c, services.GetLogger()).WithError(err).Warning("Failed to clear response cache")
	}
}
