package imports

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrEmptyFile         = errors.New("file has no header row")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file too large")
	ErrMalformedFile     = errors.New("malformed file")
)

// MaxFileSize limita lo que se carga en memoria por archivo.
const MaxFileSize = 10 << 20

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFor decide el formato por extensión; sin extensión se asume CSV.
func FormatFor(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt", "":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// Row es una fila de datos con su número de línea en el archivo.
type Row struct {
	Line  int
	Cells []string
}

type Table struct {
	Headers []string
	Rows    []Row
}

func Read(filename string, r io.Reader) (Table, error) {
	format, err := FormatFor(filename)
	if err != nil {
		return Table{}, err
	}
	if format == FormatXLSX {
		return ReadXLSX(r)
	}
	return ReadCSV(r)
}

// ReadCSV: quita BOM, detecta ',' o ';' y tolera comillas mal cerradas.
// Si el archivo no es UTF-8 válido se decodifica como Windows-1252.
func ReadCSV(r io.Reader) (Table, error) {
	data, err := readLimited(r)
	if err != nil {
		return Table{}, err
	}
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))
	if !utf8.Valid(data) {
		if dec, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
			data = dec
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	var t Table
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("%w: csv: %v", ErrMalformedFile, err)
		}
		line, _ := cr.FieldPos(0)
		if t.Headers == nil {
			if blankRow(rec) {
				continue
			}
			t.Headers = rec
			continue
		}
		if blankRow(rec) {
			continue
		}
		t.Rows = append(t.Rows, Row{Line: line, Cells: rec})
	}

	if t.Headers == nil {
		return Table{}, ErrEmptyFile
	}
	return t, nil
}

// ReadXLSX lee la primera hoja sin aplicar formato de celda: las fechas llegan
// como seriales y se convierten en Transform.
func ReadXLSX(r io.Reader) (Table, error) {
	data, err := readLimited(r)
	if err != nil {
		return Table{}, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Table{}, fmt.Errorf("%w: xlsx: %v", ErrMalformedFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return Table{}, fmt.Errorf("%w: xlsx: %v", ErrMalformedFile, err)
	}

	var t Table
	for i, rec := range rows {
		if blankRow(rec) {
			continue
		}
		if t.Headers == nil {
			t.Headers = rec
			continue
		}
		t.Rows = append(t.Rows, Row{Line: i + 1, Cells: rec})
	}

	if t.Headers == nil {
		return Table{}, ErrEmptyFile
	}
	return t, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// sniffDelimiter cuenta ',' y ';' fuera de comillas en la primera línea.
func sniffDelimiter(data []byte) rune {
	commas, semis := 0, 0
	inQuotes := false
	for _, b := range data {
		switch b {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				commas++
			}
		case ';':
			if !inQuotes {
				semis++
			}
		case '\n':
			if !inQuotes {
				if semis > commas {
					return ';'
				}
				return ','
			}
		}
	}
	if semis > commas {
		return ';'
	}
	return ','
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
