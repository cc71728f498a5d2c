package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"hotel-reservations/internal/domain/pricing"
	"hotel-reservations/internal/domain/reservations"
	"hotel-reservations/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/cart", func(cr chi.Router) {
		cr.Get("/", getCartHandler(svc))
		cr.Delete("/", clearCartHandler(svc))
		cr.Post("/items", addItemHandler(svc))
		cr.Put("/items/{itemID}", updateItemHandler(svc))
		cr.Delete("/items/{itemID}", removeItemHandler(svc))
		cr.Post("/checkout", checkoutHandler(svc))
	})
}

type cartResponse struct {
	Items []Item `json:"items"`
	Total int64  `json:"total"`
}

func toResponse(st State) cartResponse {
	items := st.Items
	if items == nil {
		items = []Item{}
	}
	return cartResponse{Items: items, Total: Total(st)}
}

// getCartHandler godoc
// @Summary Ver carrito
// @Tags cart
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Success 200 {object} cartResponse
// @Failure 401 {string} string "unauthorized"
// @Router /cart [get]
func getCartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(st))
	}
}

// clearCartHandler godoc
// @Summary Vaciar carrito
// @Tags cart
// @Produce json
// @Success 200 {object} cartResponse
// @Failure 401 {string} string "unauthorized"
// @Router /cart [delete]
func clearCartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st, err := svc.Clear(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(st))
	}
}

// addItemHandler godoc
// @Summary Agregar reserva al carrito
// @Description Cotiza el borrador con la tabla de tarifas. El hotel debe existir en la tabla.
// @Tags cart
// @Accept json
// @Produce json
// @Param payload body reservations.Details true "Borrador de la reserva"
// @Success 201 {object} cartResponse
// @Failure 400 {string} string "invalid json / campos obligatorios / unknown hotel"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "authorization number already in cart"
// @Router /cart/items [post]
func addItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req reservations.Details
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		st, err := svc.Add(r.Context(), claims.UserID, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toResponse(st))
	}
}

// updateItemHandler godoc
// @Summary Reemplazar un item del carrito
// @Tags cart
// @Accept json
// @Produce json
// @Param itemID path string true "Item ID"
// @Param payload body reservations.Details true "Borrador de la reserva"
// @Success 200 {object} cartResponse
// @Failure 400 {string} string "invalid json / campos obligatorios / unknown hotel"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "cart item not found"
// @Router /cart/items/{itemID} [put]
func updateItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req reservations.Details
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		st, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "itemID"), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(st))
	}
}

// removeItemHandler godoc
// @Summary Quitar item del carrito
// @Tags cart
// @Produce json
// @Param itemID path string true "Item ID"
// @Success 200 {object} cartResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "cart item not found"
// @Router /cart/items/{itemID} [delete]
func removeItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st, err := svc.Remove(r.Context(), claims.UserID, chi.URLParam(r, "itemID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(st))
	}
}

// checkoutHandler godoc
// @Summary Confirmar carrito
// @Description Crea una reserva por item y envía la confirmación al correo del usuario. Los items que fallan quedan en el carrito.
// @Tags cart
// @Produce json
// @Success 200 {object} CheckoutResult
// @Failure 400 {string} string "cart is empty"
// @Failure 401 {string} string "unauthorized"
// @Router /cart/checkout [post]
func checkoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		res, err := svc.Checkout(r.Context(), claims.UserID, claims.Email)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrEmptyCart), errors.Is(err, pricing.ErrUnknownHotel):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrItemNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrDuplicateItem):
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
