package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name",
	"day_position", "day_date", "day_title", "day_city", "day_country",
	"place_position", "place_name", "place_address", "place_category",
	"mode", "distance_km", "duration_min", "leg_source",
	"cost", "priority", "visited", "notes",
}

type exportRowResponse struct {
	TripID        string   `json:"trip_id"`
	TripName      string   `json:"trip_name"`
	DayPosition   int      `json:"day_position"`
	DayDate       string   `json:"day_date"`
	DayTitle      string   `json:"day_title,omitempty"`
	DayCity       string   `json:"day_city,omitempty"`
	DayCountry    string   `json:"day_country,omitempty"`
	PlacePosition int      `json:"place_position"`
	PlaceName     string   `json:"place_name,omitempty"`
	PlaceAddress  string   `json:"place_address,omitempty"`
	PlaceCategory string   `json:"place_category,omitempty"`
	Mode          string   `json:"mode,omitempty"`
	DistanceKm    *float64 `json:"distance_km,omitempty"`
	DurationMin   *float64 `json:"duration_min,omitempty"`
	LegSource     string   `json:"leg_source,omitempty"`
	Cost          string   `json:"cost,omitempty"`
	Priority      int      `json:"priority"`
	Visited       bool     `json:"visited"`
	Notes         string   `json:"notes,omitempty"`
}

// GetExport implements GET /trips/{tripID}/export. It returns the trip's
// itinerary as a flat table, one row per place.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	format, err := queryString(r, "format")
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	if format != "" && format != "csv" && format != "json" {
		s.fail(w, r, badRequest("invalid format %q: want csv or json", format), "trip")
		return
	}

	rows, err := s.export.Export(r.Context(), userID(r), tripID)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	if format == "csv" {
		body := buildCSV(rows)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="itinerary-%s.csv"`, tripID))
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = body.WriteTo(w)
		return
	}

	out := make([]exportRowResponse, len(rows))
	for i, row := range rows {
		out[i] = exportRowResponse(row)
	}
	writeJSON(w, http.StatusOK, out)
}

// buildCSV encodes domain rows as CSV, header first.
func buildCSV(rows []domain.ExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(domainRowToCSVRecord(r))
	}
	w.Flush()
	return &buf
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Nil distances and durations are encoded as empty strings.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.TripID,
		r.TripName,
		strconv.Itoa(r.DayPosition),
		r.DayDate,
		r.DayTitle,
		r.DayCity,
		r.DayCountry,
		strconv.Itoa(r.PlacePosition),
		r.PlaceName,
		r.PlaceAddress,
		r.PlaceCategory,
		r.Mode,
		formatOptionalFloat(r.DistanceKm),
		formatOptionalFloat(r.DurationMin),
		r.LegSource,
		r.Cost,
		strconv.Itoa(r.Priority),
		strconv.FormatBool(r.Visited),
		r.Notes,
	}
}

// formatOptionalFloat returns the shortest decimal form of f, or "" if f is nil.
func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
