package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mtljason322/freshcart/internal/domain"
	"github.com/mtljason322/freshcart/internal/service"
	"go.uber.org/zap"
)

type ProductHandler struct {
	productService *service.ProductService
	logger         *zap.Logger
}

func NewProductHandler(productService *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes mounts the product and inventory endpoints on rg.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/products", h.CreateProduct)
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/expired", h.ExpiredProducts)
	rg.GET("/products/:sku", h.GetProduct)
	rg.DELETE("/products/:sku", h.RemoveProduct)
	rg.GET("/products/:sku/history", h.ProductHistory)
	rg.GET("/inventory/value", h.TotalValue)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req domain.CreateProductRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductExists):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "SKU already exists",
			})
		case errors.Is(err, domain.ErrValidation),
			errors.Is(err, service.ErrExpiryRequired),
			errors.Is(err, service.ErrUnknownProductType):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
			})
		default:
			h.logger.Error("Failed to create product",
				zap.String("sku", req.SKU),
				zap.Error(err))

			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create product",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, domain.NewProductResponse(product))
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products := h.productService.ListProducts(c.Request.Context())
	c.JSON(http.StatusOK, domain.NewProductResponses(products))
}

func (h *ProductHandler) ExpiredProducts(c *gin.Context) {
	products := h.productService.ExpiredProducts(c.Request.Context())
	c.JSON(http.StatusOK, domain.NewProductResponses(products))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	sku := c.Param("sku")

	product, err := h.productService.GetProduct(c.Request.Context(), sku)
	if err != nil {
		h.notFoundOrError(c, sku, "Failed to get product", err)
		return
	}

	c.JSON(http.StatusOK, domain.NewProductResponse(product))
}

func (h *ProductHandler) RemoveProduct(c *gin.Context) {
	sku := c.Param("sku")

	if err := h.productService.RemoveProduct(c.Request.Context(), sku); err != nil {
		h.notFoundOrError(c, sku, "Failed to remove product", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) ProductHistory(c *gin.Context) {
	sku := c.Param("sku")

	history, err := h.productService.ProductHistory(c.Request.Context(), sku)
	if err != nil {
		if errors.Is(err, service.ErrHistoryUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Product history is not available",
			})
			return
		}

		h.logger.Error("Failed to get product history",
			zap.String("sku", sku),
			zap.Error(err))

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get product history",
		})
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *ProductHandler) TotalValue(c *gin.Context) {
	c.JSON(http.StatusOK, domain.TotalValueResponse{
		TotalValue: h.productService.TotalValue(c.Request.Context()),
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ProductHandler) notFoundOrError(c *gin.Context, sku, msg string, err error) {
	if errors.Is(err, service.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	h.logger.Error(msg, zap.String("sku", sku), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": msg,
	})
}
