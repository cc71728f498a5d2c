package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuoteCmd(t *testing.T) {
	t.Setenv("HOTELS_FILE", "")

	out, err := run(t, "quote", "--hotel", "ilar 74", "--check-in", "01/03/2024", "--check-out", "03/03/2024")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	var q struct {
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal([]byte(out), &q); err != nil {
		t.Fatalf("decode: %v (%s)", err, out)
	}
	if q.Total != 266512 {
		t.Fatalf("total = %d", q.Total)
	}

	if _, err := run(t, "quote", "--hotel", "no existe"); err == nil {
		t.Fatalf("expected error for unknown hotel")
	}
}

func TestTemplateCmd(t *testing.T) {
	out, err := run(t, "template")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if !strings.HasPrefix(out, "NOMBRE COMPLETO,") {
		t.Fatalf("unexpected csv: %q", out)
	}

	path := filepath.Join(t.TempDir(), "plantilla.xlsx")
	if _, err := run(t, "template", "--format", "xlsx", "--out", path); err != nil {
		t.Fatalf("template xlsx: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || !bytes.HasPrefix(b, []byte("PK")) {
		t.Fatalf("xlsx file: %v", err)
	}

	if _, err := run(t, "template", "--format", "pdf"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestUploadCmd_DryRunInMemory(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("HOTELS_FILE", "")

	path := filepath.Join(t.TempDir(), "reservas.csv")
	csv := "Número de autorización,Nombre completo,Hotel\nAUT-1,Ana Pérez,Ilar 74\n"
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "upload", "--file", path, "--user", "cli", "--dry-run")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	var rep struct {
		DryRun bool `json:"dry_run"`
		Counts struct {
			Valid int `json:"valid"`
		} `json:"counts"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v (%s)", err, out)
	}
	if !rep.DryRun || rep.Counts.Valid != 1 {
		t.Fatalf("report = %s", out)
	}

	if _, err := run(t, "upload", "--file", path); err == nil {
		t.Fatalf("expected error without --user")
	}
}
