package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mehan05/venue-backend-new/internal/export"
	"github.com/mehan05/venue-backend-new/internal/metrics"
)

// handleExport streams the full bookings listing as an xlsx workbook.
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("bookings_export")

	bookings, err := s.bookings.List(r.Context(), "")
	if err != nil {
		s.logger.Error().Err(err).Msg("export: list bookings failed")
		writeError(w, http.StatusInternalServerError, "Failed to export bookings.")
		return
	}

	f, err := export.BuildWorkbook(bookings)
	if err != nil {
		s.logger.Error().Err(err).Msg("export: build workbook failed")
		writeError(w, http.StatusInternalServerError, "Failed to export bookings.")
		return
	}
	defer f.Close()

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if err := f.Write(w); err != nil {
		s.logger.Error().Err(err).Msg("export: write workbook failed")
	}
}
