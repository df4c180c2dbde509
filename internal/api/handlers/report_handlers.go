package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prodledger/prodledger/internal/api/dto"
	"github.com/prodledger/prodledger/internal/application"
	apperrors "github.com/prodledger/prodledger/internal/platform/errors"
	"github.com/prodledger/prodledger/internal/platform/logging"
	"github.com/prodledger/prodledger/internal/platform/middleware"
)

// SenderReport returns per-sender reconciliation totals over the
// requested period. Admin only.
func SenderReport(service *application.ReportService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query dto.ReportQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			middleware.AbortWithAppError(c, apperrors.ErrValidation("period must be one of: weekly, monthly, yearly, all"))
			return
		}

		totals, err := service.SenderTotals(c.Request.Context(), principalFrom(c), query.Period)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromSenderTotals(totals))
	}
}

// WeeklyStats returns the last seven days of shipments bucketed by day
// of week. Admin only.
func WeeklyStats(service *application.ReportService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		buckets, err := service.WeeklyStats(c.Request.Context(), principalFrom(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromWeeklyBuckets(buckets))
	}
}
