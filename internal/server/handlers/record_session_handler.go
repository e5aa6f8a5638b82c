package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
	"github.com/wolffia-coop/ferntrack/internal/service/records"
)

// RecordSessionHandler exposes the daily record editor workflow: one session
// per form, server-side state for enterprise, slot and edit binding.
type RecordSessionHandler struct {
	svc      *records.Service
	registry *records.Registry
	logger   *zap.Logger
}

// NewRecordSessionHandler constructs the HTTP handler adapter.
func NewRecordSessionHandler(svc *records.Service, registry *records.Registry, logger *zap.Logger) *RecordSessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordSessionHandler{svc: svc, registry: registry, logger: logger}
}

type sessionView struct {
	ID              string           `json:"id"`
	Mode            records.Mode     `json:"mode"`
	EditingRecordID string           `json:"editing_record_id,omitempty"`
	EnterpriseName  string           `json:"enterprise_name"`
	CycleNumber     string           `json:"cycle_number"`
	DayNumber       int              `json:"day_number"`
	Form            records.FormData `json:"form"`
	DaysByCycle     map[string][]int `json:"days_by_cycle"`
	AllRecordedDays []int            `json:"all_recorded_days"`
	AvailableCycles []string         `json:"available_cycles"`
	RecordsByDay    map[int]int      `json:"record_counts_by_day"`
	TotalRecords    int              `json:"total_records"`
}

func viewOf(s *records.Session) sessionView {
	idx := s.Index()

	cycles := make([]string, 0, len(idx.AvailableCycles))
	for _, c := range idx.AvailableCycles {
		cycles = append(cycles, c.Key())
	}

	counts := make(map[int]int, len(idx.DayToRecords))
	for day, recs := range idx.DayToRecords {
		counts[day] = len(recs)
	}

	return sessionView{
		ID:              s.ID,
		Mode:            s.Mode(),
		EditingRecordID: s.EditingID(),
		EnterpriseName:  s.EnterpriseName(),
		CycleNumber:     s.CycleInput(),
		DayNumber:       s.Day(),
		Form:            s.Form(),
		DaysByCycle:     idx.DaysByCycle,
		AllRecordedDays: idx.AllRecordedDays,
		AvailableCycles: cycles,
		RecordsByDay:    counts,
		TotalRecords:    idx.Total,
	}
}

func (h *RecordSessionHandler) session(c *gin.Context) (*records.Session, bool) {
	s, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found or expired"})
		return nil, false
	}
	return s, true
}

// Create starts a new editor session.
func (h *RecordSessionHandler) Create(c *gin.Context) {
	s := h.registry.Create()
	c.JSON(http.StatusCreated, viewOf(s))
}

// Get returns the session's current state.
func (h *RecordSessionHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewOf(s))
}

// SelectEnterprise switches the session onto an enterprise and rebuilds the
// record index.
func (h *RecordSessionHandler) SelectEnterprise(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.SelectEnterprise(c.Request.Context(), s, req.Name); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, viewOf(s))
}

// SetCycle records the cycle field and may auto-select the matching day.
func (h *RecordSessionHandler) SetCycle(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s.SetCycleNumber(req.Value)
	c.JSON(http.StatusOK, viewOf(s))
}

// SelectDay picks a day and returns the resulting decision: plain selection,
// an edit confirmation, or a disambiguation list.
func (h *RecordSessionHandler) SelectDay(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Day int `json:"day" binding:"required,min=1,max=14"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be between 1 and 14"})
		return
	}

	decision := s.SelectDay(req.Day)
	c.JSON(http.StatusOK, gin.H{"decision": decision, "session": viewOf(s)})
}

// ConfirmEdit binds the session to one of the candidate records offered by
// the last day selection.
func (h *RecordSessionHandler) ConfirmEdit(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		RecordID string `json:"record_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var chosen *models.DailyCultivationRecord
	for _, rec := range s.Index().RecordsOn(s.Day()) {
		if rec.ID == req.RecordID {
			chosen = &rec
			break
		}
	}
	if chosen == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record is not a candidate for the selected day"})
		return
	}

	s.ConfirmEdit(*chosen)
	c.JSON(http.StatusOK, viewOf(s))
}

// DeclineEdit turns down the edit offer from the last day selection. The day
// stays selected; the editor remains on a new record.
func (h *RecordSessionHandler) DeclineEdit(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	s.DeclineEdit()
	c.JSON(http.StatusOK, viewOf(s))
}

// UpdateForm replaces the editable form content.
func (h *RecordSessionHandler) UpdateForm(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var form records.FormData
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form payload"})
		return
	}

	s.UpdateForm(form)
	c.JSON(http.StatusOK, viewOf(s))
}

// Save persists the assembled record. A slot conflict comes back as 409 with
// the existing record and the accepted resolutions.
func (h *RecordSessionHandler) Save(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Resolution records.Resolution `json:"resolution"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	saved, err := h.svc.Save(c.Request.Context(), s, req.Resolution)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": saved, "session": viewOf(s)})
}

// Reset blanks the session back to a new record.
func (h *RecordSessionHandler) Reset(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	s.Reset()
	c.JSON(http.StatusOK, viewOf(s))
}

// FormOptions returns the closed option sets the record form offers.
func (h *RecordSessionHandler) FormOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"colors":              models.ColorOptions,
		"foam":                models.FoamOptions,
		"smell":               models.SmellOptions,
		"sinking":             models.SinkingOptions,
		"overall":             models.OverallOptions,
		"contaminants":        models.ContaminantOptions,
		"psb_quantities":      models.PSBQuantities,
		"nutrient_quantities": models.NutrientQuantities,
	})
}

// SuggestPH answers whether a pH reading falls in the healthy band. The
// suggestion is advisory; the stored answer is whatever the recorder
// confirms.
func (h *RecordSessionHandler) SuggestPH(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"value":    c.Query("value"),
		"in_range": records.SuggestPHInRange(c.Query("value")),
	})
}
