package imports

import (
	"fmt"

	"github.com/jszwec/csvutil"
	"github.com/xuri/excelize/v2"
)

// templateRow define las 26 columnas de la plantilla de cargue, en orden.
type templateRow struct {
	NombreCompleto             string `csv:"NOMBRE COMPLETO"`
	TipoDocumento              string `csv:"TIPO DE DOCUMENTO"`
	NumeroDocumento            string `csv:"NÚMERO DE DOCUMENTO"`
	Edad                       string `csv:"EDAD"`
	Regimen                    string `csv:"RÉGIMEN"`
	DescripcionServicio        string `csv:"DESCRIPCIÓN DEL SERVICIO"`
	Destino                    string `csv:"DESTINO"`
	CiudadOrigen               string `csv:"CIUDAD DE ORIGEN"`
	NumeroAutorizacion         string `csv:"NÚMERO DE AUTORIZACIÓN"`
	CantidadServicios          string `csv:"CANTIDAD DE SERVICIOS AUTORIZADOS"`
	Correo                     string `csv:"CORREO ELECTRÓNICO"`
	NumeroContacto             string `csv:"NÚMERO DE CONTACTO"`
	RequiereAcompanante        string `csv:"REQUIERE ACOMPAÑANTE"`
	NombreAcompanante          string `csv:"NOMBRE DEL ACOMPAÑANTE"`
	TipoDocumentoAcompanante   string `csv:"TIPO DE DOCUMENTO DEL ACOMPAÑANTE"`
	NumeroDocumentoAcompanante string `csv:"NÚMERO DE DOCUMENTO DEL ACOMPAÑANTE"`
	ParentescoAcompanante      string `csv:"PARENTESCO DEL ACOMPAÑANTE"`
	FechaCita                  string `csv:"FECHA DE LA CITA"`
	HoraCita                   string `csv:"HORA DE LA CITA"`
	FechaUltimaCita            string `csv:"FECHA DE ÚLTIMA CITA"`
	FechaIngreso               string `csv:"FECHA DE INGRESO"`
	FechaSalida                string `csv:"FECHA DE SALIDA"`
	Hotel                      string `csv:"HOTEL"`
	POS                        string `csv:"POS"`
	Observaciones              string `csv:"OBSERVACIONES"`
	ValorTotal                 string `csv:"VALOR TOTAL"`
}

var sampleRow = templateRow{
	NombreCompleto:             "María Fernanda Rodríguez",
	TipoDocumento:              "CC",
	NumeroDocumento:            "1020304050",
	Edad:                       "45",
	Regimen:                    "Contributivo",
	DescripcionServicio:        "Consulta especializada",
	Destino:                    "Bogotá",
	CiudadOrigen:               "Villavicencio",
	NumeroAutorizacion:         "AUT-000123",
	CantidadServicios:          "1",
	Correo:                     "maria.rodriguez@example.com",
	NumeroContacto:             "3001234567",
	RequiereAcompanante:        "SI",
	NombreAcompanante:          "Carlos Rodríguez",
	TipoDocumentoAcompanante:   "CC",
	NumeroDocumentoAcompanante: "79123456",
	ParentescoAcompanante:      "Hijo",
	FechaCita:                  "15/03/2025",
	HoraCita:                   "08:30",
	FechaUltimaCita:            "15/01/2025",
	FechaIngreso:               "14/03/2025",
	FechaSalida:                "16/03/2025",
	Hotel:                      "Ilar 74",
	POS:                        "NO",
	Observaciones:              "",
	ValorTotal:                 "",
}

// TemplateHeaders devuelve los encabezados de la plantilla en orden.
func TemplateHeaders() []string {
	h, err := csvutil.Header(templateRow{}, "csv")
	if err != nil {
		panic(fmt.Sprintf("imports: template header: %v", err))
	}
	return h
}

// TemplateCSV genera la plantilla con una fila de ejemplo.
func TemplateCSV() ([]byte, error) {
	b, err := csvutil.Marshal([]templateRow{sampleRow})
	if err != nil {
		return nil, fmt.Errorf("template csv: %w", err)
	}
	return b, nil
}

const templateSheet = "Reservas"

// rowCollector recibe los registros del encoder de csvutil sin pasar por texto CSV.
type rowCollector struct {
	rows [][]string
}

func (c *rowCollector) Write(record []string) error {
	c.rows = append(c.rows, append([]string(nil), record...))
	return nil
}

// templateRows devuelve el header y la fila de ejemplo como celdas.
func templateRows() ([][]string, error) {
	var c rowCollector
	if err := csvutil.NewEncoder(&c).Encode(sampleRow); err != nil {
		return nil, err
	}
	if len(c.rows) != 2 {
		return nil, fmt.Errorf("template rows: got %d", len(c.rows))
	}
	return c.rows, nil
}

// TemplateXLSX genera la misma plantilla como libro de Excel.
func TemplateXLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), templateSheet); err != nil {
		return nil, fmt.Errorf("template xlsx: %w", err)
	}

	rows, err := templateRows()
	if err != nil {
		return nil, fmt.Errorf("template xlsx: %w", err)
	}
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = c
		}
		if err := f.SetSheetRow(templateSheet, fmt.Sprintf("A%d", i+1), &cells); err != nil {
			return nil, fmt.Errorf("template xlsx: %w", err)
		}
	}
	headers := rows[0]

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("template xlsx: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, fmt.Errorf("template xlsx: %w", err)
	}
	if err := f.SetCellStyle(templateSheet, "A1", last, style); err != nil {
		return nil, fmt.Errorf("template xlsx: %w", err)
	}
	lastCol, _, _ := excelize.SplitCellName(last)
	if err := f.SetColWidth(templateSheet, "A", lastCol, 24); err != nil {
		return nil, fmt.Errorf("template xlsx: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("template xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
