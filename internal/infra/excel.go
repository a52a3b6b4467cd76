package infra

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Hoja is one worksheet of an export: a header row followed by data rows.
// decimal.Decimal cells are written as numbers.
type Hoja struct {
	Nombre      string
	Encabezados []string
	Filas       [][]any
}

// GenerarXLSX builds a workbook with one sheet per Hoja and returns its bytes.
func GenerarXLSX(hojas ...Hoja) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for i, h := range hojas {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", h.Nombre); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(h.Nombre); err != nil {
			return nil, err
		}

		for c, enc := range h.Encabezados {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			if err := f.SetCellValue(h.Nombre, cell, enc); err != nil {
				return nil, err
			}
		}
		if len(h.Encabezados) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(h.Encabezados), 1)
			if err := f.SetCellStyle(h.Nombre, "A1", last, bold); err != nil {
				return nil, err
			}
		}

		for r, fila := range h.Filas {
			for c, v := range fila {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				if d, ok := v.(decimal.Decimal); ok {
					v = d.InexactFloat64()
				}
				if err := f.SetCellValue(h.Nombre, cell, v); err != nil {
					return nil, fmt.Errorf("xlsx: %s!%s: %w", h.Nombre, cell, err)
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
