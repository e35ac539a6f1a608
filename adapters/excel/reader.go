package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"clasificador/domain/classification"
	"clasificador/internal"
	"clasificador/internal/errors"
)

// Format of an uploaded data file.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// FormatFromName picks the format by file extension; anything but .csv is xlsx.
func FormatFromName(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return FormatCSV
	}
	return FormatXLSX
}

// DataReader parses the data sheet into an InputGrid. Row 1 holds the headers,
// every following row is a data row. Only the active worksheet is read.
type DataReader struct {
	logger *internal.Logger
}

// NewDataReader creates a reader logging through logger (nil = discard).
func NewDataReader(logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &DataReader{logger: logger.Named("excel")}
}

// ReadGrid reads r in the given format.
func (d *DataReader) ReadGrid(r io.Reader, format Format) (*classification.InputGrid, error) {
	start := time.Now()
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = d.readCSV(r)
	default:
		rows, err = d.readXLSX(r)
	}
	if err != nil {
		return nil, err
	}
	grid := toGrid(rows)
	d.logger.Debug("%s data read in %s (%s)", format, time.Since(start), describeGrid(grid))
	return grid, nil
}

func (d *DataReader) readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "el archivo de datos no es un libro xlsx legible")
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "no se pudo leer la hoja %q del archivo de datos", sheet)
	}
	return rows, nil
}

func (d *DataReader) readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "el archivo de datos no es un CSV válido")
	}
	return rows, nil
}

// toGrid trims headers and cells. Every data row carries every header, with ""
// for missing cells, so "header exists in the row" means "header exists in the
// sheet".
func toGrid(rows [][]string) *classification.InputGrid {
	grid := &classification.InputGrid{}
	if len(rows) == 0 {
		return grid
	}

	grid.Headers = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		grid.Headers[i] = strings.TrimSpace(h)
	}

	for _, raw := range rows[1:] {
		row := make(classification.InputRow, len(grid.Headers))
		for j, h := range grid.Headers {
			if h == "" {
				continue
			}
			if j < len(raw) {
				row[h] = strings.TrimSpace(raw[j])
			} else if _, dup := row[h]; !dup {
				row[h] = ""
			}
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}

func describeGrid(g *classification.InputGrid) string {
	return fmt.Sprintf("%d columns, %d rows", len(g.Headers), len(g.Rows))
}
