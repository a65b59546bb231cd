package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DeborahScali/travelapp-sub000/internal/middleware"
)

// Routes returns the API router. /healthz and /openapi.yaml are public;
// everything under /api/v1 requires the X-User-ID header.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Post("/", s.CreateTrip)
			r.Get("/current", s.GetCurrentTrip)
			r.Put("/current", s.SetCurrentTrip)

			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Put("/", s.UpdateTrip)
				r.Delete("/", s.DeleteTrip)
				r.Get("/analytics", s.GetTripAnalytics)
				r.Get("/export", s.GetExport)

				r.Get("/expenses", s.ListExpenses)
				r.Post("/expenses", s.CreateExpense)
				r.Get("/expenses/{expenseID}", s.GetExpense)
				r.Put("/expenses/{expenseID}", s.UpdateExpense)
				r.Delete("/expenses/{expenseID}", s.DeleteExpense)

				r.Get("/flights", s.ListFlights)
				r.Post("/flights", s.CreateFlight)
				r.Get("/flights/{flightID}", s.GetFlight)
				r.Put("/flights/{flightID}", s.UpdateFlight)
				r.Delete("/flights/{flightID}", s.DeleteFlight)
			})
		})

		r.Route("/itinerary", func(r chi.Router) {
			r.Get("/", s.GetItinerary)
			r.Put("/selected-day", s.SelectDay)
			r.Get("/days/{date}", s.GetDay)
			r.Patch("/days/{date}", s.UpdateDay)
			r.Post("/days/{date}/places", s.AddPlace)
			r.Post("/days/{date}/reorder", s.ReorderPlaces)
			r.Patch("/places/{placeID}", s.UpdatePlace)
			r.Delete("/places/{placeID}", s.DeletePlace)
			r.Post("/places/{placeID}/move", s.MovePlace)
			r.Put("/places/{placeID}/transport", s.ChangeTransportMode)
			r.Put("/places/{placeID}/leg", s.OverrideLeg)
		})

		r.Get("/places/search", s.SearchPlaces)
		r.Get("/places/details/{providerPlaceID}", s.GetPlaceDetails)
	})
	return r
}
