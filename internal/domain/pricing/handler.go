package pricing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"hotel-reservations/internal/platform/dates"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes expone la tabla de tarifas; no requiere usuario.
func RegisterRoutes(r chi.Router, table *Table) {
	r.Route("/pricing", func(pr chi.Router) {
		pr.Get("/hotels", listHotelsHandler(table))
		pr.Get("/quote", quoteHandler(table))
	})
}

// listHotelsHandler godoc
// @Summary Listar hoteles con tarifa
// @Tags pricing
// @Produce json
// @Success 200 {array} Hotel
// @Router /pricing/hotels [get]
func listHotelsHandler(table *Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, table.Hotels())
	}
}

// quoteHandler godoc
// @Summary Cotizar estadía
// @Description Precio = round(tarifa x multiplicador de ocupantes) x noches. Noches fuera de 1..30 cuentan como 1.
// @Tags pricing
// @Produce json
// @Param hotel query string true "Key o nombre del hotel"
// @Param occupants query int false "Ocupantes (default 1)"
// @Param check_in query string false "Fecha de ingreso"
// @Param check_out query string false "Fecha de salida"
// @Success 200 {object} Quote
// @Failure 400 {string} string "parámetros inválidos"
// @Failure 404 {string} string "unknown hotel"
// @Router /pricing/quote [get]
func quoteHandler(table *Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		occupants := 1
		if v := strings.TrimSpace(q.Get("occupants")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				http.Error(w, "occupants must be a positive integer", http.StatusBadRequest)
				return
			}
			occupants = n
		}

		in, ok := optionalDate(q.Get("check_in"))
		if !ok {
			http.Error(w, "invalid check_in", http.StatusBadRequest)
			return
		}
		out, ok := optionalDate(q.Get("check_out"))
		if !ok {
			http.Error(w, "invalid check_out", http.StatusBadRequest)
			return
		}

		quote, err := table.Quote(q.Get("hotel"), occupants, in, out)
		if err != nil {
			if errors.Is(err, ErrUnknownHotel) {
				http.Error(w, "unknown hotel", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, quote)
	}
}

func optionalDate(s string) (dates.Date, bool) {
	if strings.TrimSpace(s) == "" {
		return dates.Date{}, true
	}
	return dates.Parse(s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
