package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	attendanceerrors "peervote/contexts/workforce/attendance-tracker/domain/errors"
	attendancehttp "peervote/contexts/workforce/attendance-tracker/transport/http"
)

func (s *Server) handleRecordLateEvent(w http.ResponseWriter, r *http.Request) {
	var req attendancehttp.RecordLateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAttendanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.attendance.Handler.RecordLateEventHandler(r.Context(), req)
	if err != nil {
		writeAttendanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetStatistics(w http.ResponseWriter, r *http.Request) {
	employeeID := r.PathValue("employee_id")
	year, month, ok := parsePeriod(r)
	if !ok {
		writeAttendanceError(w, http.StatusBadRequest, "invalid_period", "year and month query parameters are required")
		return
	}

	resp, err := s.attendance.Handler.StatisticsHandler(r.Context(), employeeID, year, month)
	if err != nil {
		writeAttendanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetPeriod(w http.ResponseWriter, r *http.Request) {
	employeeID := r.PathValue("employee_id")
	year, month, ok := parsePeriod(r)
	if !ok {
		writeAttendanceError(w, http.StatusBadRequest, "invalid_period", "year and month query parameters are required")
		return
	}

	if err := s.attendance.Handler.ResetPeriodHandler(r.Context(), employeeID, year, month); err != nil {
		writeAttendanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func parsePeriod(r *http.Request) (int, int, bool) {
	query := r.URL.Query()
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(query.Get("month"))
	if err != nil {
		return 0, 0, false
	}
	return year, month, true
}

func writeAttendanceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, attendanceerrors.ErrInvalidLateEvent),
		errors.Is(err, attendanceerrors.ErrInvalidPeriod):
		writeAttendanceError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, attendanceerrors.ErrStatisticsNotFound):
		writeAttendanceError(w, http.StatusNotFound, "statistics_not_found", err.Error())
	case errors.Is(err, attendanceerrors.ErrConflict):
		writeAttendanceError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeAttendanceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAttendanceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, attendancehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
