package confirmations

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"hotel-reservations/internal/domain/reservations"
	"hotel-reservations/internal/domain/vouchers"
	"hotel-reservations/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, resSvc *reservations.Service) {
	r.Get("/reservations/{numero}/voucher.pdf", voucherHandler(svc, resSvc))
	r.Post("/reservations/{numero}/email", emailHandler(svc, resSvc))
}

// voucherHandler godoc
// @Summary Descargar voucher PDF
// @Tags confirmations
// @Produce application/pdf
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param numero path string true "Número de autorización"
// @Success 200 {file} file
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "reservation not found"
// @Router /reservations/{numero}/voucher.pdf [get]
func voucherHandler(svc *Service, resSvc *reservations.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		res, err := resSvc.Get(r.Context(), chi.URLParam(r, "numero"))
		if err != nil {
			if errors.Is(err, reservations.ErrNotFound) {
				http.Error(w, "reservation not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		pdf, err := svc.vouchers.Build(r.Context(), res)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+vouchers.FileName(res.AuthorizationNumber)+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
	}
}

// emailHandler godoc
// @Summary Enviar confirmación por correo
// @Description Envía el voucher al correo del usuario autenticado con copia oculta a operaciones. Sin credencial del proveedor responde 200 con `demo: true`.
// @Tags confirmations
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-User-Email header string false "Solo en modo dev, correo del usuario"
// @Param numero path string true "Número de autorización"
// @Success 200 {object} Result
// @Failure 400 {string} string "recipient email is required"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "reservation not found"
// @Failure 409 {string} string "reservation is cancelled"
// @Failure 502 {string} string "email provider error"
// @Router /reservations/{numero}/email [post]
func emailHandler(svc *Service, resSvc *reservations.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		res, err := resSvc.Get(r.Context(), chi.URLParam(r, "numero"))
		if err != nil {
			if errors.Is(err, reservations.ErrNotFound) {
				http.Error(w, "reservation not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if !res.Active {
			http.Error(w, reservations.ErrCancelled.Error(), http.StatusConflict)
			return
		}

		out, err := svc.Send(r.Context(), res, claims.Email)
		if err != nil {
			if errors.Is(err, ErrNoRecipient) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "email provider error", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
