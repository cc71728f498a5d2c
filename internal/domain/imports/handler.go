package imports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"hotel-reservations/internal/domain/reservations"
	"hotel-reservations/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/imports", func(ir chi.Router) {
		ir.Post("/", uploadHandler(svc))
		ir.Get("/template", templateHandler())
	})
}

// uploadHandler godoc
// @Summary Cargue masivo de reservas
// @Description Recibe un CSV (`,` o `;`) o XLSX en el campo `file`. Devuelve el reporte por columna y por fila (inserted, valid, dropped, invalid, rejected). Con `dry_run=true` solo valida. Cada reserva insertada se confirma por correo al usuario autenticado.
// @Tags imports
// @Accept mpfd
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param file formData file true "Archivo CSV o XLSX"
// @Param dry_run query bool false "Validar sin insertar"
// @Success 200 {object} Report
// @Failure 400 {string} string "archivo inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "reservation already exists"
// @Failure 413 {string} string "file too large"
// @Router /imports [post]
func uploadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dryRun := false
		if v := strings.TrimSpace(r.URL.Query().Get("dry_run")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "dry_run must be a boolean", http.StatusBadRequest)
				return
			}
			dryRun = b
		}

		r.Body = http.MaxBytesReader(w, r.Body, MaxFileSize+(1<<20))
		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "multipart field 'file' is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		rep, err := svc.Upload(r.Context(), claims.UserID, header.Filename, file, UploadOptions{
			DryRun:    dryRun,
			Recipient: claims.Email,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrFileTooLarge):
				http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			case errors.Is(err, ErrInvalidInput),
				errors.Is(err, ErrEmptyFile),
				errors.Is(err, ErrUnsupportedFormat),
				errors.Is(err, ErrMalformedFile):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, reservations.ErrDuplicate):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, rep)
	}
}

// templateHandler godoc
// @Summary Descargar plantilla de cargue
// @Tags imports
// @Produce octet-stream
// @Param format query string false "csv (default) o xlsx"
// @Success 200 {file} file
// @Failure 400 {string} string "format inválido"
// @Router /imports/template [get]
func templateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
		if format == "" {
			format = string(FormatCSV)
		}

		var (
			body        []byte
			err         error
			contentType string
		)
		switch Format(format) {
		case FormatCSV:
			body, err = TemplateCSV()
			contentType = "text/csv; charset=utf-8"
		case FormatXLSX:
			body, err = TemplateXLSX()
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		default:
			http.Error(w, "format must be csv or xlsx", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", `attachment; filename="plantilla-reservas.`+format+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
