package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prodledger/prodledger/internal/api/dto"
	"github.com/prodledger/prodledger/internal/application"
	apperrors "github.com/prodledger/prodledger/internal/platform/errors"
	"github.com/prodledger/prodledger/internal/platform/logging"
	"github.com/prodledger/prodledger/internal/platform/middleware"
)

const maxImageSize = 8 << 20 // 8 MiB

// imageFromForm reads the optional image file from a multipart form
func imageFromForm(c *gin.Context) ([]byte, string, *apperrors.AppError) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", apperrors.ErrBadRequest("invalid image upload: " + err.Error())
	}

	if header.Size > maxImageSize {
		return nil, "", apperrors.ErrValidation("image exceeds the 8 MiB limit")
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", apperrors.ErrBadRequest("invalid image upload: " + err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", apperrors.ErrBadRequest("invalid image upload: " + err.Error())
	}

	return data, header.Filename, nil
}

// CreateProduct registers a product for the caller, with an optional
// image in the "image" form field
func CreateProduct(service *application.ProductService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateProductRequest
		if err := c.ShouldBind(&req); err != nil {
			middleware.AbortWithAppError(c, apperrors.ErrBadRequest("invalid request: "+err.Error()))
			return
		}

		imageData, imageName, appErr := imageFromForm(c)
		if appErr != nil {
			middleware.AbortWithAppError(c, appErr)
			return
		}

		product, err := service.Create(c.Request.Context(), application.CreateProductCommand{
			Principal: principalFrom(c),
			Name:      req.Name,
			Brand:     req.Brand,
			Stock:     req.Stock,
			ImageData: imageData,
			ImageName: imageName,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, dto.FromProduct(product))
	}
}

// UpdateProduct changes product fields, with an optional replacement
// image in the "image" form field
func UpdateProduct(service *application.ProductService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdateProductRequest
		if err := c.ShouldBind(&req); err != nil {
			middleware.AbortWithAppError(c, apperrors.ErrBadRequest("invalid request: "+err.Error()))
			return
		}

		imageData, imageName, appErr := imageFromForm(c)
		if appErr != nil {
			middleware.AbortWithAppError(c, appErr)
			return
		}

		product, err := service.Update(c.Request.Context(), application.UpdateProductCommand{
			Principal: principalFrom(c),
			ProductID: c.Param("id"),
			Name:      req.Name,
			Brand:     req.Brand,
			Stock:     req.Stock,
			ImageData: imageData,
			ImageName: imageName,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromProduct(product))
	}
}

// DeleteProduct removes a product
func DeleteProduct(service *application.ProductService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := service.Delete(c.Request.Context(), principalFrom(c), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}

// GetProduct returns one product by ID
func GetProduct(service *application.ProductService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := service.GetByID(c.Request.Context(), principalFrom(c), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromProduct(product))
	}
}

// ListMyProducts returns the caller's products
func ListMyProducts(service *application.ProductService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := service.ListMine(c.Request.Context(), principalFrom(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromProducts(products))
	}
}

// ListAllProducts returns every product. Admin only.
func ListAllProducts(service *application.ProductService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := service.ListAll(c.Request.Context(), principalFrom(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromProducts(products))
	}
}
