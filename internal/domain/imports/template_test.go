package imports

import (
	"bytes"
	"testing"
)

func TestTemplateHeaders_AllMapExactly(t *testing.T) {
	headers := TemplateHeaders()
	if len(headers) != 26 {
		t.Fatalf("headers = %d, want 26", len(headers))
	}
	cols := ResolveColumns(headers)
	for _, c := range cols.Outcomes {
		if c.Status != StatusMapped || c.Match != MatchExact {
			t.Fatalf("column %q = %+v", c.Header, c)
		}
	}
}

func TestTemplates_SampleRowIsValid(t *testing.T) {
	csvData, err := TemplateCSV()
	if err != nil {
		t.Fatalf("TemplateCSV: %v", err)
	}
	xlsxData, err := TemplateXLSX()
	if err != nil {
		t.Fatalf("TemplateXLSX: %v", err)
	}

	for name, data := range map[string][]byte{"plantilla.csv": csvData, "plantilla.xlsx": xlsxData} {
		table, err := Read(name, bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(table.Rows) != 1 {
			t.Fatalf("%s: rows = %d", name, len(table.Rows))
		}
		records, dropped := TransformAll(table, ResolveColumns(table.Headers), "u1")
		if len(dropped) != 0 || len(records) != 1 {
			t.Fatalf("%s: records=%d dropped=%d", name, len(records), len(dropped))
		}
		res := ValidateBasic(records)
		if len(res.Invalid) != 0 {
			t.Fatalf("%s: invalid = %+v", name, res.Invalid)
		}
		if rec := res.Valid[0]; rec.AuthorizationNumber != "AUT-000123" || !rec.HasCompanion() {
			t.Fatalf("%s: rec = %+v", name, rec)
		}
	}
}

func TestTemplateRows_HeaderAndSampleAligned(t *testing.T) {
	rows, err := templateRows()
	if err != nil {
		t.Fatalf("templateRows: %v", err)
	}
	headers := TemplateHeaders()
	if len(rows) != 2 || len(rows[0]) != len(headers) || len(rows[1]) != len(headers) {
		t.Fatalf("rows = %q", rows)
	}

	cols := ResolveColumns(rows[0])
	for f, want := range map[Field]string{
		FieldNumeroAutorizacion: "AUT-000123",
		FieldHotel:              "Ilar 74",
		FieldFechaIngreso:       "14/03/2025",
		FieldValorTotal:         "",
	} {
		i, ok := cols.Index(f)
		if !ok || rows[1][i] != want {
			t.Fatalf("%s = %q (col %d, %v), want %q", f, rows[1][i], i, ok, want)
		}
	}
}
