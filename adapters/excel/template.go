package excel

import (
	"io"

	"github.com/xuri/excelize/v2"

	"clasificador/domain/vocabulary"
	"clasificador/internal/errors"
)

// ContentType is the MIME type of an xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Template is the destination workbook. Rows are written into its active sheet;
// everything else in the workbook (styles, other sheets, header rows) is kept.
type Template struct {
	f     *excelize.File
	sheet string
}

// OpenTemplate loads an uploaded template workbook.
func OpenTemplate(r io.Reader) (*Template, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "el archivo de plantilla no es un libro xlsx legible")
	}
	return &Template{f: f, sheet: f.GetSheetName(f.GetActiveSheetIndex())}, nil
}

// NewBlankTemplate builds a workbook laid out like the reference template: a
// title on row 1, the output headers on row 2, data from row 3.
func NewBlankTemplate(title string) (*Template, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	t := &Template{f: f, sheet: sheet}

	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, errors.Wrap(err, "writing template title")
	}
	if err := t.WriteRow(2, vocabulary.OutputHeaders); err != nil {
		return nil, err
	}
	return t, nil
}

// Sheet is the name of the sheet rows are written to.
func (t *Template) Sheet() string {
	return t.sheet
}

// WriteRow writes values into row (1-based) from column A.
func (t *Template) WriteRow(row int, values []string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return errors.Wrapf(err, "cell for row %d column %d", row, i+1)
		}
		if err := t.f.SetCellValue(t.sheet, cell, v); err != nil {
			return errors.Wrapf(err, "writing %s!%s", t.sheet, cell)
		}
	}
	return nil
}

// Bytes serializes the workbook.
func (t *Template) Bytes() ([]byte, error) {
	buf, err := t.f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "serializing workbook")
	}
	return buf.Bytes(), nil
}

// SaveAs writes the workbook to path.
func (t *Template) SaveAs(path string) error {
	if err := t.f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}

// Close releases the workbook's temp files.
func (t *Template) Close() error {
	return t.f.Close()
}
