package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
	"github.com/wolffia-coop/ferntrack/internal/domain/stages"
	"github.com/wolffia-coop/ferntrack/internal/service/pipeline"
)

// BranchDirectory lists and registers enterprise branches.
type BranchDirectory interface {
	List(ctx context.Context) ([]models.Branch, error)
	Create(ctx context.Context, branch models.Branch) (models.Branch, error)
}

// PipelineHandler exposes the branch directory and the production pipeline
// over HTTP.
type PipelineHandler struct {
	svc      *pipeline.Service
	branches BranchDirectory
	logger   *zap.Logger
}

// NewPipelineHandler constructs the HTTP handler adapter.
func NewPipelineHandler(svc *pipeline.Service, branches BranchDirectory, logger *zap.Logger) *PipelineHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PipelineHandler{svc: svc, branches: branches, logger: logger}
}

// ListBranches returns every registered branch.
func (h *PipelineHandler) ListBranches(c *gin.Context) {
	branches, err := h.branches.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"branches": branches})
}

// CreateBranch registers a new branch.
func (h *PipelineHandler) CreateBranch(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	branch, err := h.branches.Create(c.Request.Context(), models.Branch{Name: req.Name, Location: req.Location})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, branch)
}

// ListProducts returns all product batches, optionally narrowed to one
// branch via the branch_id query parameter.
func (h *PipelineHandler) ListProducts(c *gin.Context) {
	products, err := h.svc.ListProducts(c.Request.Context(), c.Query("branch_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// CreateProduct starts a new batch for a branch.
func (h *PipelineHandler) CreateProduct(c *gin.Context) {
	var req struct {
		BranchID string `json:"branch_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := h.svc.CreateProduct(c.Request.Context(), req.BranchID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetProduct returns one product with its recorded stage rows.
func (h *PipelineHandler) GetProduct(c *gin.Context) {
	product, rows, err := h.svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"stages":  rows,
	})
}

// UpdateProduct writes an explicit status change, the manual
// cancel/complete path.
func (h *PipelineHandler) UpdateProduct(c *gin.Context) {
	var req struct {
		Status models.ProductStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListStages returns the stage catalog together with the product's
// completed stage ids and stored payloads.
func (h *PipelineHandler) ListStages(c *gin.Context) {
	productID := c.Param("id")
	completed, err := h.svc.CompletedStages(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	details, err := h.svc.StageDetails(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"catalog":   stages.Catalog(),
		"completed": completed,
		"details":   details,
	})
}

// RecordStage validates and saves a stage payload for a product.
func (h *PipelineHandler) RecordStage(c *gin.Context) {
	var req struct {
		StageID string          `json:"stage_id" binding:"required"`
		Data    json.RawMessage `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := h.svc.RecordStage(c.Request.Context(), c.Param("id"), req.StageID, req.Data)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}
