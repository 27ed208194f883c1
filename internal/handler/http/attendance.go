package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-go/internal/service/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/service/report"
)

type AttendanceHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	PunchIn(w http.ResponseWriter, r *http.Request)
	PunchOut(w http.ResponseWriter, r *http.Request)
	CancelPunch(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	SummaryDaily(w http.ResponseWriter, r *http.Request)
	SummaryWeekly(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService *attendance.Service
	reportService     *report.Service
}

func NewAttendanceHandler(attendanceService *attendance.Service, reportService *report.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		reportService:     reportService,
	}
}

// Status implements AttendanceHandler.
func (h *attendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	result, err := h.attendanceService.Status(r.Context(), uid)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"punchedIn":    result.PunchedIn,
		"openPunch":    result.OpenPunch,
		"todaySummary": result.TodaySummary,
	})
}

// PunchIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchIn(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	id, punchIn, err := h.attendanceService.PunchIn(r.Context(), uid)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"id":      id,
		"punchIn": punchIn,
	})
}

// PunchOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchOut(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	result, err := h.attendanceService.PunchOut(r.Context(), uid)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"id":       result.ID,
		"punchOut": result.PunchOut,
		"metrics":  result.Metrics,
	})
}

// CancelPunch implements AttendanceHandler.
func (h *attendanceHandlerImpl) CancelPunch(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	attendanceID := chi.URLParam(r, "attendanceId")

	if err := h.attendanceService.CancelOpenPunch(r.Context(), uid, attendanceID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"id":     attendanceID,
		"voided": true,
	})
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
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

// SummaryDaily implements AttendanceHandler.
func (h *attendanceHandlerImpl) SummaryDaily(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	workDate := r.URL.Query().Get("date")
	if workDate == "" {
		workDate = time.Now().UTC().Format("2006-01-02")
	} else if _, ok := validator.IsValidDate(workDate); !ok {
		response.BadRequest(w, "date must be formatted as YYYY-MM-DD")
		return
	}

	summary, err := h.reportService.GetDailySummary(r.Context(), uid, workDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// SummaryWeekly implements AttendanceHandler.
func (h *attendanceHandlerImpl) SummaryWeekly(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	startDate, endDate, ok := weekDefaults(w, r)
	if !ok {
		return
	}

	weekly, err := h.reportService.GetWeeklySummary(r.Context(), uid, startDate, endDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, weekly)
}

// weekDefaults resolves startDate/endDate query params, defaulting to
// the current Monday-Sunday week in UTC when either is omitted. When both
// are present, writes a BadRequest response and returns ok=false if
// either is malformed; a lone param is ignored, not validated.
func weekDefaults(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	if startDate != "" && endDate != "" {
		if _, ok := validator.IsValidDate(startDate); !ok {
			response.BadRequest(w, "startDate must be formatted as YYYY-MM-DD")
			return "", "", false
		}
		if _, ok := validator.IsValidDate(endDate); !ok {
			response.BadRequest(w, "endDate must be formatted as YYYY-MM-DD")
			return "", "", false
		}
		return startDate, endDate, true
	}

	now := time.Now().UTC()
	offset := (int(now.Weekday()) + 6) % 7 // days since Monday
	monday := now.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format("2006-01-02"), sunday.Format("2006-01-02"), true
}
