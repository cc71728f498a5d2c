package occupancy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"hotel-reservations/internal/middleware"
	"hotel-reservations/internal/platform/dates"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/occupancy", func(or chi.Router) {
		or.Put("/", upsertOccupancyHandler(svc))
		or.Get("/", listOccupancyHandler(svc))
	})
}

// upsertOccupancyHandler godoc
// @Summary Cargar proyección de ocupación
// @Description Inserta o reemplaza la disponibilidad por hotel y fecha. La usa la validación avanzada del cargue masivo.
// @Tags occupancy
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param payload body []Projection true "Proyecciones"
// @Success 200 {array} Projection
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Router /occupancy [put]
func upsertOccupancyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req []Projection
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		out, err := svc.Upsert(r.Context(), req)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listOccupancyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		var from, to dates.Date
		if v := strings.TrimSpace(q.Get("from")); v != "" {
			d, ok := dates.Parse(v)
			if !ok {
				http.Error(w, "invalid from", http.StatusBadRequest)
				return
			}
			from = d
		}
		if v := strings.TrimSpace(q.Get("to")); v != "" {
			d, ok := dates.Parse(v)
			if !ok {
				http.Error(w, "invalid to", http.StatusBadRequest)
				return
			}
			to = d
		}

		out, err := svc.List(r.Context(), q.Get("hotel"), from, to)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []Projection{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
