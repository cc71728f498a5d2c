package reservations

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"hotel-reservations/internal/domain/pricing"
	"hotel-reservations/internal/middleware"
	"hotel-reservations/internal/platform/dates"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reservations", func(rr chi.Router) {
		rr.Post("/", createReservationHandler(svc))
		rr.Get("/", listReservationsHandler(svc))
		rr.Get("/{numero}", getReservationHandler(svc))
		rr.Patch("/{numero}", updateReservationHandler(svc))
		rr.Post("/{numero}/cancel", cancelReservationHandler(svc))
	})
}

type reservationResponse struct {
	Reservation
	// Quote es la cotización vigente con la tabla de tarifas (detalle de la reserva).
	Quote *pricing.Quote `json:"cotizacion,omitempty"`
}

type updateReservationRequest struct {
	CheckIn             *dates.Date `json:"fecha_ingreso"`
	CheckOut            *dates.Date `json:"fecha_salida"`
	AppointmentDate     *dates.Date `json:"fecha_cita"`
	AppointmentTime     *string     `json:"hora_cita"`
	LastAppointmentDate *dates.Date `json:"fecha_ultima_cita"`
	Hotel               *string     `json:"hotel"`
	Email               *string     `json:"correo"`
	Observations        *string     `json:"observaciones"`

	CompanionName           *string `json:"nombre_acompanante"`
	CompanionDocumentType   *string `json:"tipo_documento_acompanante"`
	CompanionDocumentNumber *string `json:"numero_documento_acompanante"`
	CompanionRelationship   *string `json:"parentesco_acompanante"`

	TotalPrice *int64 `json:"valor_total"`
}

// createReservationHandler godoc
// @Summary Crear reserva
// @Description Crea una reserva desde el formulario. Si `requiere_acompanante` es true, el nombre y documento del acompañante son obligatorios. El `valor_total` se calcula con la tabla de tarifas.
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body Details true "Datos de la reserva; fechas YYYY-MM-DD o DD/MM/YYYY"
// @Success 201 {object} reservationResponse
// @Failure 400 {string} string "invalid json / campos obligatorios"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "reservation already exists"
// @Router /reservations [post]
func createReservationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req Details
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Create(r.Context(), claims.UserID, req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(svc, res))
	}
}

// listReservationsHandler godoc
// @Summary Listar reservas
// @Description Búsqueda por nombre del paciente, número de autorización o acompañante. Por defecto solo activas.
// @Tags reservations
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param q query string false "Texto a buscar"
// @Param include_inactive query bool false "Incluir canceladas"
// @Param limit query int false "1..200 (default 50)"
// @Param offset query int false "Desplazamiento"
// @Success 200 {object} Page
// @Failure 400 {string} string "limit/offset inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /reservations [get]
func listReservationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		f := ListFilter{Query: q.Get("q")}

		if v := strings.TrimSpace(q.Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			f.Limit = n
		}
		if v := strings.TrimSpace(q.Get("offset")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "offset must be >= 0", http.StatusBadRequest)
				return
			}
			f.Offset = n
		}
		if v := strings.TrimSpace(q.Get("include_inactive")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "include_inactive must be a boolean", http.StatusBadRequest)
				return
			}
			f.IncludeInactive = b
		}

		page, err := svc.List(r.Context(), f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func getReservationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		res, err := svc.Get(r.Context(), chi.URLParam(r, "numero"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(svc, res))
	}
}

// updateReservationHandler godoc
// @Summary Editar reserva
// @Description Edición administrativa: fechas, hotel, acompañante, valores y observaciones. Sin `valor_total` el precio se recalcula.
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param numero path string true "Número de autorización"
// @Param payload body updateReservationRequest true "Campos a modificar"
// @Success 200 {object} reservationResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 404 {string} string "reservation not found"
// @Failure 409 {string} string "reservation is cancelled"
// @Router /reservations/{numero} [patch]
func updateReservationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateReservationRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Update(r.Context(), chi.URLParam(r, "numero"), UpdateInput{
			CheckIn:                 req.CheckIn,
			CheckOut:                req.CheckOut,
			AppointmentDate:         req.AppointmentDate,
			AppointmentTime:         req.AppointmentTime,
			LastAppointmentDate:     req.LastAppointmentDate,
			Hotel:                   req.Hotel,
			Email:                   req.Email,
			Observations:            req.Observations,
			CompanionName:           req.CompanionName,
			CompanionDocumentType:   req.CompanionDocumentType,
			CompanionDocumentNumber: req.CompanionDocumentNumber,
			CompanionRelationship:   req.CompanionRelationship,
			TotalPrice:              req.TotalPrice,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(svc, res))
	}
}

// cancelReservationHandler godoc
// @Summary Cancelar reserva
// @Description Desactiva la reserva (no se borra). Cancelar una reserva ya cancelada responde 200 sin cambios.
// @Tags reservations
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param numero path string true "Número de autorización"
// @Success 200 {object} reservationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "reservation not found"
// @Router /reservations/{numero}/cancel [post]
func cancelReservationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		res, err := svc.Cancel(r.Context(), chi.URLParam(r, "numero"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(svc, res))
	}
}

func toResponse(svc *Service, res Reservation) reservationResponse {
	out := reservationResponse{Reservation: res}
	if q, err := svc.Quote(res); err == nil {
		out.Quote = &q
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "reservation not found", http.StatusNotFound)
	case errors.Is(err, ErrDuplicate):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrCancelled):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
