// Package csvfile loads the tabular homicide relation from a CSV file.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/homicide-observatory/internal/domain"
)

// Column names of the tabular relation.
const (
	ColDepartment   = "departamento"
	ColMunicipality = "municipio"
	ColHomicides    = "homicidios"
	ColPopulation   = "poblacion"
	ColRate         = "tasa_homicidios"
)

var requiredColumns = []string{ColDepartment, ColMunicipality, ColHomicides, ColPopulation, ColRate}

// Load reads the tabular relation from path.
func Load(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tabular file: %w", err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Read parses CSV with a header row. Column order is free and extra columns
// are ignored. An empty rate cell is read as NaN.
func Read(r io.Reader) ([]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read header: file is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var records []domain.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		rec, err := parseRow(row, colIdx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, colIdx map[string]int) (domain.Record, error) {
	homicides, err := parseCount(row[colIdx[ColHomicides]])
	if err != nil {
		return domain.Record{}, fmt.Errorf("column %q: %w", ColHomicides, err)
	}
	population, err := parseCount(row[colIdx[ColPopulation]])
	if err != nil {
		return domain.Record{}, fmt.Errorf("column %q: %w", ColPopulation, err)
	}
	rate, err := parseRate(row[colIdx[ColRate]])
	if err != nil {
		return domain.Record{}, fmt.Errorf("column %q: %w", ColRate, err)
	}

	return domain.Record{
		Department:   strings.TrimSpace(row[colIdx[ColDepartment]]),
		Municipality: strings.TrimSpace(row[colIdx[ColMunicipality]]),
		Homicides:    homicides,
		Population:   population,
		Rate:         rate,
	}, nil
}

// maxCount bounds homicide and population cells.
const maxCount = math.MaxInt32

// parseCount accepts integers up to maxCount, including the "12.0" form
// dataframe exports produce for integer columns.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > maxCount {
			return 0, fmt.Errorf("count %d out of range [0, %d]", n, maxCount)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	if f < 0 || f > maxCount {
		return 0, fmt.Errorf("count %s out of range [0, %d]", s, maxCount)
	}
	return int(f), nil
}

func parseRate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q", s)
	}
	return v, nil
}
