package excel

import (
	"fmt"
	"io"

	"pantagon/internal/domain"
)

var fxHeaderAliases = map[string]string{
	"status":        "status",
	"type":          "status",
	"date":          "date",
	"usd":           "usd",
	"usd amount":    "usd",
	"thb":           "thb",
	"thb amount":    "thb",
	"rate":          "rate",
	"fx rate":       "rate",
	"exchange rate": "rate",
	"note":          "note",
	"notes":         "note",
}

// ParseFXRows reads a ledger sheet. Rows without a status are skipped.
func ParseFXRows(reader io.Reader) ([]domain.FXEntryInput, error) {
	s, err := readFirstSheet(reader, fxHeaderAliases, "status", "date")
	if err != nil {
		return nil, err
	}

	result := make([]domain.FXEntryInput, 0, len(s.rows))
	for i := range s.rows {
		status := s.cell(i, "status")
		if status == "" {
			continue
		}
		row := rowNumber(i)

		date, err := parseDate(s.cell(i, "date"))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid date: %w", row, err)
		}
		usd := 0.0
		if raw := s.cell(i, "usd"); raw != "" {
			if usd, err = parseFloat(raw); err != nil {
				return nil, fmt.Errorf("row %d invalid usd: %w", row, err)
			}
		}
		thb, err := parseOptionalFloat(s.cell(i, "thb"))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid thb: %w", row, err)
		}
		rate, err := parseOptionalFloat(s.cell(i, "rate"))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid rate: %w", row, err)
		}

		result = append(result, domain.FXEntryInput{
			Status: domain.FXStatus(status),
			Date:   date,
			USD:    usd,
			THB:    thb,
			Rate:   rate,
			Note:   optionalString(s.cell(i, "note")),
		})
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("excel file has no valid data rows")
	}
	return result, nil
}
