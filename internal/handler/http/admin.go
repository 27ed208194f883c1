package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-go/internal/service/admin"
	"github.com/cmlabs-hris/attendance-go/internal/service/report"
	userservice "github.com/cmlabs-hris/attendance-go/internal/service/user"
)

type AdminHandler interface {
	ListPunches(w http.ResponseWriter, r *http.Request)
	EditPunch(w http.ResponseWriter, r *http.Request)
	DeletePunch(w http.ResponseWriter, r *http.Request)
	AssignSchedule(w http.ResponseWriter, r *http.Request)
	DailyReport(w http.ResponseWriter, r *http.Request)
	WeeklyReport(w http.ResponseWriter, r *http.Request)
	SetRole(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	editor        *admin.Editor
	reportService *report.Service
	userService   *userservice.Service
}

func NewAdminHandler(editor *admin.Editor, reportService *report.Service, userService *userservice.Service) AdminHandler {
	return &adminHandlerImpl{
		editor:        editor,
		reportService: reportService,
		userService:   userService,
	}
}

// ListPunches implements AdminHandler.
func (h *adminHandlerImpl) ListPunches(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	startDate, endDate, ok := weekDefaults(w, r)
	if !ok {
		return
	}

	records, err := h.reportService.GetEmployeePunches(r.Context(), uid, startDate, endDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

type editPunchRequest struct {
	PunchIn  *time.Time `json:"punchIn"`
	PunchOut *time.Time `json:"punchOut"`
}

// EditPunch implements AdminHandler.
func (h *adminHandlerImpl) EditPunch(w http.ResponseWriter, r *http.Request) {
	punchID := chi.URLParam(r, "punchId")

	var req editPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.PunchIn == nil && req.PunchOut == nil {
		response.BadRequest(w, "punchIn or punchOut must be supplied")
		return
	}

	record, err := h.editor.EditPunch(r.Context(), punchID, req.PunchIn, req.PunchOut)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// DeletePunch implements AdminHandler.
func (h *adminHandlerImpl) DeletePunch(w http.ResponseWriter, r *http.Request) {
	punchID := chi.URLParam(r, "punchId")

	if err := h.editor.DeletePunch(r.Context(), punchID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"id":      punchID,
		"deleted": true,
	})
}

type assignScheduleRequest struct {
	Schedule *user.Schedule `json:"schedule"`
	Timezone *string        `json:"timezone"`
}

// AssignSchedule implements AdminHandler.
func (h *adminHandlerImpl) AssignSchedule(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	var req assignScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Timezone != nil && validator.IsEmpty(*req.Timezone) {
		response.BadRequest(w, "timezone must not be blank")
		return
	}

	updated, err := h.editor.AssignSchedule(r.Context(), uid, req.Schedule, req.Timezone)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, updated)
}

// DailyReport implements AdminHandler.
func (h *adminHandlerImpl) DailyReport(w http.ResponseWriter, r *http.Request) {
	workDate := r.URL.Query().Get("date")
	if workDate == "" {
		workDate = time.Now().UTC().Format("2006-01-02")
	} else if _, ok := validator.IsValidDate(workDate); !ok {
		response.BadRequest(w, "date must be formatted as YYYY-MM-DD")
		return
	}

	report, err := h.reportService.GetAllDailyReports(r.Context(), workDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}

// WeeklyReport implements AdminHandler.
func (h *adminHandlerImpl) WeeklyReport(w http.ResponseWriter, r *http.Request) {
	startDate, endDate, ok := weekDefaults(w, r)
	if !ok {
		return
	}

	report, err := h.reportService.GetAllWeeklyReports(r.Context(), startDate, endDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}

type setRoleRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

// SetRole implements AdminHandler.
func (h *adminHandlerImpl) SetRole(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.userService.SetAdmin(r.Context(), uid, req.IsAdmin); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.userService.GetProfile(r.Context(), uid)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, updated)
}
