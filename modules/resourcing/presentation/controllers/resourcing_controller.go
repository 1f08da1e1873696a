package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/allocation"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/dailyload"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/infrastructure/persistence"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/presentation/mappers"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/presentation/viewmodels"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/services"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/application"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/composables"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/httpapi"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/mapping"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/serrors"
)

const dateLayout = "2006-01-02"

// ResourcingController is the JSON API over allocations, the daily load read
// model and risk scoring.
type ResourcingController struct {
	app               application.Application
	allocationService *services.AllocationService
	dailyLoadService  *services.DailyLoadService
	riskService       *services.RiskService
	basePath          string
}

func NewResourcingController(app application.Application) application.Controller {
	return &ResourcingController{
		app:               app,
		allocationService: app.Service(services.AllocationService{}).(*services.AllocationService),
		dailyLoadService:  app.Service(services.DailyLoadService{}).(*services.DailyLoadService),
		riskService:       app.Service(services.RiskService{}).(*services.RiskService),
		basePath:          "/api/resourcing",
	}
}

func (c *ResourcingController) Key() string {
	return c.basePath
}

func (c *ResourcingController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()

	router.HandleFunc("/allocations", c.CreateAllocation).Methods(http.MethodPost)
	router.HandleFunc("/allocations/validate", c.ValidateAllocation).Methods(http.MethodPost)
	router.HandleFunc("/allocations/{id}", c.GetAllocation).Methods(http.MethodGet)
	router.HandleFunc("/allocations/{id}", c.UpdateAllocation).Methods(http.MethodPut)
	router.HandleFunc("/allocations/{id}", c.DeleteAllocation).Methods(http.MethodDelete)

	router.HandleFunc("/resources/{id}/timeline", c.Timeline).Methods(http.MethodGet)
	router.HandleFunc("/resources/{id}/loads/refresh", c.RefreshLoads).Methods(http.MethodPost)
	router.HandleFunc("/heatmap", c.Heatmap).Methods(http.MethodGet)

	router.HandleFunc("/resources/{id}/risk", c.ResourceRisk).Methods(http.MethodGet)
	router.HandleFunc("/workspaces/{id}/risk-summary", c.WorkspaceRiskSummary).Methods(http.MethodGet)
}

func (c *ResourcingController) CreateAllocation(w http.ResponseWriter, r *http.Request) {
	dto := &allocation.CreateDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body", nil)
		return
	}
	created, err := c.allocationService.Create(r.Context(), dto)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.AllocationToViewModel(created))
}

func (c *ResourcingController) ValidateAllocation(w http.ResponseWriter, r *http.Request) {
	dto := &allocation.CreateDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body", nil)
		return
	}
	verdict, err := c.allocationService.Evaluate(r.Context(), dto)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.VerdictToViewModel(verdict))
}

func (c *ResourcingController) GetAllocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entity, err := c.allocationService.GetByID(r.Context(), id)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.AllocationToViewModel(entity))
}

func (c *ResourcingController) UpdateAllocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	dto := &allocation.UpdateDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body", nil)
		return
	}
	updated, err := c.allocationService.Update(r.Context(), id, dto)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.AllocationToViewModel(updated))
}

func (c *ResourcingController) DeleteAllocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := c.allocationService.Delete(r.Context(), id); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ResourcingController) Timeline(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}
	rows, err := c.dailyLoadService.Timeline(r.Context(), id, from, to)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"resource_id": id.String(),
		"days":        mapping.MapViewModels(rows, mappers.DailyLoadToViewModel),
	})
}

func (c *ResourcingController) RefreshLoads(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}
	if err := c.dailyLoadService.Refresh(r.Context(), id, from, to); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ResourcingController) Heatmap(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}
	params := &dailyload.HeatmapParams{From: from, To: to}
	if raw := r.URL.Query().Get("workspace_id"); raw != "" {
		workspaceID, err := uuid.Parse(raw)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid workspace_id", nil)
			return
		}
		params.WorkspaceID = &workspaceID
	}
	matrix, err := c.dailyLoadService.Heatmap(r.Context(), params)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	out := make(map[string][]*viewmodels.HeatmapCell, len(matrix))
	for date, rows := range matrix {
		out[date] = mapping.MapViewModels(rows, mappers.HeatmapRowToViewModel)
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"days": out})
}

func (c *ResourcingController) ResourceRisk(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}
	result, err := c.riskService.ScoreResource(r.Context(), id, from, to)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, result)
}

func (c *ResourcingController) WorkspaceRiskSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}
	opts := services.SummaryOptions{}
	if raw := r.URL.Query().Get("min_risk_score"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid min_risk_score", nil)
			return
		}
		opts.MinRiskScore = v
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid limit", nil)
			return
		}
		opts.Limit = v
	}
	summary, err := c.riskService.WorkspaceSummary(r.Context(), id, from, to, opts)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, summary)
}

// writeServiceError translates domain and service errors into the API error
// envelope. Unrecognized errors become opaque 500s; details go to the log.
func (c *ResourcingController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrors serrors.ValidationErrors
	if errors.As(err, &fieldErrors) {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", fieldErrors.Error(), map[string]string(fieldErrors))
		return
	}

	var rejection *services.RejectionError
	if errors.As(err, &rejection) {
		_ = httpapi.WriteError(w, http.StatusConflict, rejection.Code, rejection.Error(), map[string]string{
			"projected_total": rejection.ProjectedTotal.StringFixed(2),
			"limit":           rejection.Limit.StringFixed(2),
		})
		return
	}

	var coded *serrors.Base
	if errors.As(err, &coded) {
		_ = httpapi.WriteError(w, http.StatusBadRequest, coded.Code, coded.Message, nil)
		return
	}

	switch {
	case errors.Is(err, persistence.ErrAllocationNotFound),
		errors.Is(err, persistence.ErrResourceNotFound),
		errors.Is(err, persistence.ErrConflictNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("resourcing request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}

// dateRange reads the required from/to query params as YYYY-MM-DD dates.
func dateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, err := time.Parse(dateLayout, r.URL.Query().Get("from"))
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid or missing from date", nil)
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(dateLayout, r.URL.Query().Get("to"))
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid or missing to date", nil)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
