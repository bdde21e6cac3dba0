package excel

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"pantagon/internal/domain"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"1-2-06",
	"1/2/06",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// sheet is the header-mapped first worksheet of a workbook.
type sheet struct {
	columns map[string]int
	rows    [][]string
}

// readFirstSheet loads the first worksheet of an xlsx workbook, or a CSV file
// when the upload is not a workbook, and maps its header through aliases.
func readFirstSheet(reader io.Reader, aliases map[string]string, required ...string) (*sheet, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("input file is empty")
	}

	rows, err := parseExcelRows(data)
	if errors.Is(err, errNotWorkbook) {
		rows, err = parseCSVRows(data)
	}
	if err != nil {
		return nil, err
	}

	columns := mapColumns(rows[0], aliases)
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required column: %s", name)
		}
	}
	return &sheet{columns: columns, rows: rows[1:]}, nil
}

var errNotWorkbook = errors.New("not an xlsx workbook")

// parseExcelRows reads raw cell values so dates arrive as Excel serials
// rather than in whatever display format the author picked.
func parseExcelRows(data []byte) ([][]string, error) {
	if !bytes.HasPrefix(data, []byte("PK")) {
		return nil, errNotWorkbook
	}
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := file.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}
	return rows, nil
}

func parseCSVRows(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv file is empty")
	}
	return rows, nil
}

// cell returns the trimmed value of column name in data row i, or "" when the
// column is absent.
func (s *sheet) cell(i int, name string) string {
	idx, ok := s.columns[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(readCell(s.rows[i], idx))
}

// rowNumber is the 1-based spreadsheet row of data row i.
func rowNumber(i int) int {
	return i + 2
}

func mapColumns(header []string, aliases map[string]string) map[string]int {
	mapped := make(map[string]int)
	for idx, col := range header {
		normalized := normalizeHeader(col)
		if normalized == "" {
			continue
		}
		canonical, ok := aliases[normalized]
		if !ok {
			continue
		}
		if _, exists := mapped[canonical]; !exists {
			mapped[canonical] = idx
		}
	}
	return mapped
}

func normalizeHeader(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", " ")
	value = strings.Join(strings.Fields(value), " ")
	return value
}

func readCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseFloat(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("value is empty")
	}
	value = strings.NewReplacer(",", "", "฿", "", "$", "").Replace(value)
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	return parsed, nil
}

func parseOptionalFloat(raw string) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	value, err := parseFloat(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func parseTime(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("value is empty")
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		parsed, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date serial")
		}
		return parsed, nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func parseDate(raw string) (domain.Date, error) {
	parsed, err := parseTime(raw)
	if err != nil {
		return domain.Date{}, err
	}
	return domain.DateOf(parsed), nil
}

func parseOptionalDate(raw string) (*domain.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	date, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func parseOptionalBool(raw string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return nil, nil
	case "1", "true", "yes", "y", "x":
		value := true
		return &value, nil
	case "0", "false", "no", "n":
		value := false
		return &value, nil
	}
	return nil, fmt.Errorf("expected yes or no")
}

func optionalString(raw string) *string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	return &value
}

// splitTags accepts comma or semicolon separated tags.
func splitTags(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})
	tags := make([]string, 0, len(fields))
	for _, field := range fields {
		if tag := strings.TrimSpace(field); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
