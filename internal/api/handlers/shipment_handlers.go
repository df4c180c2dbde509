package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prodledger/prodledger/internal/api/dto"
	"github.com/prodledger/prodledger/internal/application"
	"github.com/prodledger/prodledger/internal/domain"
	"github.com/prodledger/prodledger/internal/platform/logging"
	"github.com/prodledger/prodledger/internal/platform/middleware"
)

func itemInputs(items []dto.ShipmentItemRequest) []application.ShipmentItemInput {
	inputs := make([]application.ShipmentItemInput, len(items))
	for i, item := range items {
		inputs[i] = application.ShipmentItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	return inputs
}

// CreateShipment creates a pending shipment from the caller's products
func CreateShipment(service *application.ShipmentService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateShipmentRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			middleware.AbortWithAppError(c, appErr)
			return
		}

		middleware.AddSpanAttributes(c, map[string]interface{}{
			"shipment.items": len(req.Items),
		})

		shipment, err := service.Create(c.Request.Context(), application.CreateShipmentCommand{
			Principal: principalFrom(c),
			Items:     itemInputs(req.Items),
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, dto.FromShipment(shipment))
	}
}

// ListMyShipments returns the caller's shipments
func ListMyShipments(service *application.ShipmentService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipments, err := service.ListMine(c.Request.Context(), principalFrom(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromShipments(shipments))
	}
}

// ListAllShipments returns every shipment. Admin only.
func ListAllShipments(service *application.ShipmentService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipments, err := service.ListAll(c.Request.Context(), principalFrom(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromShipments(shipments))
	}
}

// GetShipment returns one shipment by ID
func GetShipment(service *application.ShipmentService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipment, err := service.GetByID(c.Request.Context(), principalFrom(c), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromShipment(shipment))
	}
}

// TransitionShipment updates the receipt and/or payment status. Admin
// only.
func TransitionShipment(service *application.ShipmentService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.TransitionShipmentRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			middleware.AbortWithAppError(c, appErr)
			return
		}

		cmd := application.TransitionShipmentCommand{
			Principal:  principalFrom(c),
			ShipmentID: c.Param("id"),
		}
		if req.Status != nil {
			status := domain.ShipmentStatus(*req.Status)
			cmd.Status = &status
		}
		if req.PaymentStatus != nil {
			payment := domain.PaymentStatus(*req.PaymentStatus)
			cmd.PaymentStatus = &payment
		}

		shipment, err := service.Transition(c.Request.Context(), cmd)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromShipment(shipment))
	}
}

// EditShipment replaces the contents of a pending shipment
func EditShipment(service *application.ShipmentService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.EditShipmentRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			middleware.AbortWithAppError(c, appErr)
			return
		}

		shipment, err := service.Edit(c.Request.Context(), application.EditShipmentCommand{
			Principal:  principalFrom(c),
			ShipmentID: c.Param("id"),
			Items:      itemInputs(req.Items),
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromShipment(shipment))
	}
}
