package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wolffia-coop/ferntrack/internal/repository/entitystore"
	"github.com/wolffia-coop/ferntrack/internal/service/pipeline"
	"github.com/wolffia-coop/ferntrack/internal/service/records"
)

// respondError maps the error taxonomy onto HTTP statuses. Store failures
// carry the upstream message through; nothing is silently swallowed.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var conflict *records.SlotConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"error":    "a record already exists for this slot",
			"existing": conflict.Existing,
			"resolutions": []records.Resolution{
				records.ResolutionUpdate,
				records.ResolutionDuplicate,
			},
		})
		return
	}

	switch {
	case errors.Is(err, records.ErrValidation), errors.Is(err, pipeline.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entitystore.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		var storeErr *entitystore.Error
		if errors.As(err, &storeErr) {
			logger.Error("entity store failure", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": storeErr.Message})
			return
		}
		logger.Error("unhandled failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
