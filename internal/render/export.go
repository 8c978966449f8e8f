package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/homicide-observatory/internal/domain"
)

// Workbook sheet names.
const (
	SheetDepartments    = "Departamentos"
	SheetMunicipalities = "Municipios"
)

// Workbook builds an .xlsx file with the department aggregate ordered by rate
// and the full municipal ranking by homicides.
func Workbook(aggregates []domain.DepartmentAggregate, ranking []domain.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetDepartments)
	if _, err := f.NewSheet(SheetMunicipalities); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	deptRows := make([][]any, len(aggregates))
	for i, a := range aggregates {
		deptRows[i] = []any{i + 1, a.Department, a.Homicides, a.Population, rateCell(a.Rate)}
	}
	if err := writeSheet(f, SheetDepartments,
		[]string{"Posición", "Departamento", "Homicidios", "Población", "Tasa por 100.000 hab."},
		deptRows,
	); err != nil {
		return nil, err
	}

	muniRows := make([][]any, len(ranking))
	for i, r := range ranking {
		muniRows[i] = []any{i + 1, r.Department, r.Municipality, r.Homicides, r.Population, rateCell(r.Rate)}
	}
	if err := writeSheet(f, SheetMunicipalities,
		[]string{"Posición", "Departamento", "Municipio", "Homicidios", "Población", "Tasa por 100.000 hab."},
		muniRows,
	); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("%s header: %w", sheet, err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 20)
}

// rateCell leaves missing rates blank instead of writing NaN.
func rateCell(v float64) any {
	if FormatRate(v) == "s/d" {
		return ""
	}
	return v
}
