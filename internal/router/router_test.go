package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hotel-reservations/internal/router"
)

const (
	userID    = "agent-1"
	userEmail = "agente@example.com"
)

func TestHTTP_EndToEnd_ReservationLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// 1) Sin usuario no se crea nada
	{
		st, _ := doReq(t, ts.URL, "POST", "/reservations", "", map[string]any{"numero_autorizacion": "AUT-1"})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without user, got %d", st)
		}
	}

	// 2) Crear reserva desde el formulario
	{
		st, body := doReq(t, ts.URL, "POST", "/reservations", userID, map[string]any{
			"numero_autorizacion": "AUT-1",
			"nombre_completo":     "Ana Pérez",
			"hotel":               "Ilar 74",
			"fecha_ingreso":       "01/03/2024",
			"fecha_salida":        "2024-03-03",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 creating reservation, got %d body=%s", st, string(body))
		}
		var out struct {
			ValorTotal *int64 `json:"valor_total"`
			Activo     bool   `json:"activo"`
		}
		mustJSON(t, body, &out)
		if out.ValorTotal == nil || *out.ValorTotal != 266512 {
			t.Fatalf("valor_total = %v, body=%s", out.ValorTotal, string(body))
		}
	}

	// 3) Duplicado => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/reservations", userID, map[string]any{
			"numero_autorizacion": "AUT-1",
			"nombre_completo":     "Otra persona",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on duplicate, got %d", st)
		}
	}

	// 4) Voucher PDF
	{
		st, body := doReq(t, ts.URL, "GET", "/reservations/AUT-1/voucher.pdf", userID, nil)
		if st != http.StatusOK || !bytes.HasPrefix(body, []byte("%PDF")) {
			t.Fatalf("expected PDF, got %d (%d bytes)", st, len(body))
		}
	}

	// 5) Correo en modo demo
	{
		st, body := doReqAs(t, ts.URL, "POST", "/reservations/AUT-1/email", userID, userEmail, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 sending email, got %d body=%s", st, string(body))
		}
		var out struct {
			Demo      bool   `json:"demo"`
			Recipient string `json:"recipient"`
		}
		mustJSON(t, body, &out)
		if !out.Demo || out.Recipient != userEmail {
			t.Fatalf("unexpected email result: %s", string(body))
		}
	}

	// 6) Cancelar y verificar que ya no se confirma
	{
		st, body := doReq(t, ts.URL, "POST", "/reservations/AUT-1/cancel", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 cancelling, got %d body=%s", st, string(body))
		}
		st, _ = doReqAs(t, ts.URL, "POST", "/reservations/AUT-1/email", userID, userEmail, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 emailing cancelled reservation, got %d", st)
		}
	}

	// 7) El listado por defecto oculta las canceladas
	{
		st, body := doReq(t, ts.URL, "GET", "/reservations?q=ana", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing, got %d", st)
		}
		var page struct {
			Total int `json:"total"`
		}
		mustJSON(t, body, &page)
		if page.Total != 0 {
			t.Fatalf("expected cancelled reservation hidden, body=%s", string(body))
		}
	}
}

func TestHTTP_PricingAndDocs(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "GET", "/pricing/quote?hotel=ilar-74&occupants=2&check_in=2024-03-01&check_out=2024-03-03", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 quoting, got %d body=%s", st, string(body))
	}
	var q struct {
		Total int64 `json:"total"`
	}
	mustJSON(t, body, &q)
	if q.Total != 399768 {
		t.Fatalf("total = %d, want 399768", q.Total)
	}

	if st, _ := doReq(t, ts.URL, "GET", "/pricing/quote?hotel=desconocido", "", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown hotel, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/swagger/doc.json", "", nil); st != http.StatusOK {
		t.Fatalf("expected swagger doc, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/health", "", nil); st != http.StatusOK {
		t.Fatalf("expected health 200, got %d", st)
	}
}

func TestHTTP_CartCheckout(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "POST", "/cart/items", userID, map[string]any{
		"numero_autorizacion": "AUT-C1",
		"nombre_completo":     "Luis Gómez",
		"hotel":               "Hotel Santa Mónica",
		"fecha_ingreso":       "2024-05-10",
		"fecha_salida":        "2024-05-11",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 adding item, got %d body=%s", st, string(body))
	}
	var cart struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	mustJSON(t, body, &cart)
	if len(cart.Items) != 1 || cart.Total != 118500 {
		t.Fatalf("unexpected cart: %s", string(body))
	}

	st, body = doReqAs(t, ts.URL, "POST", "/cart/checkout", userID, userEmail, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 on checkout, got %d body=%s", st, string(body))
	}
	var out struct {
		Created []struct {
			NumeroAutorizacion string `json:"numero_autorizacion"`
		} `json:"created"`
		Cart struct {
			Items []any `json:"items"`
		} `json:"cart"`
	}
	mustJSON(t, body, &out)
	if len(out.Created) != 1 || out.Created[0].NumeroAutorizacion != "AUT-C1" || len(out.Cart.Items) != 0 {
		t.Fatalf("unexpected checkout: %s", string(body))
	}

	if st, _ := doReq(t, ts.URL, "GET", "/reservations/AUT-C1", userID, nil); st != http.StatusOK {
		t.Fatalf("expected reservation created by checkout, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "POST", "/cart/checkout", userID, nil); st != http.StatusBadRequest {
		t.Fatalf("expected 400 on empty cart, got %d", st)
	}
}

func TestHTTP_ImportUpload(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	csv := "Número de autorización;Nombre completo;Hotel;Fecha de ingreso;Fecha de salida\n" +
		"AUT-10;Ana Pérez;Ilar 74;01/03/2024;03/03/2024\n" +
		"AUT-11;;Ilar 74;01/03/2024;03/03/2024\n"

	st, body := upload(t, ts.URL, "/imports", "reservas.csv", []byte(csv))
	if st != http.StatusOK {
		t.Fatalf("expected 200 uploading, got %d body=%s", st, string(body))
	}
	var rep struct {
		Counts struct {
			Total    int `json:"total"`
			Inserted int `json:"inserted"`
			Invalid  int `json:"invalid"`
		} `json:"counts"`
	}
	mustJSON(t, body, &rep)
	if rep.Counts.Total != 2 || rep.Counts.Inserted != 1 || rep.Counts.Invalid != 1 {
		t.Fatalf("unexpected report: %s", string(body))
	}

	if st, _ := doReq(t, ts.URL, "GET", "/reservations/AUT-10", userID, nil); st != http.StatusOK {
		t.Fatalf("expected imported reservation, got %d", st)
	}

	st, body = upload(t, ts.URL, "/imports", "reservas.pdf", []byte("x"))
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported format, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/imports/template?format=xlsx", userID, nil)
	if st != http.StatusOK || !bytes.HasPrefix(body, []byte("PK")) {
		t.Fatalf("expected xlsx template, got %d", st)
	}
}

func upload(t *testing.T, baseURL, path, fileName string, content []byte) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req, err := http.NewRequest("POST", baseURL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Debug-User-ID", userID)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func mustJSON(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode json: %v body=%s", err, strings.TrimSpace(string(body)))
	}
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()
	return doReqAs(t, baseURL, method, path, debugUserID, "", body)
}

func doReqAs(t *testing.T, baseURL, method, path, debugUserID, debugEmail string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}
	if debugEmail != "" {
		req.Header.Set("X-Debug-User-Email", debugEmail)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
