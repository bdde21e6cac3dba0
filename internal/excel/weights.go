package excel

import (
	"fmt"
	"io"

	"pantagon/internal/domain"
)

var weightHeaderAliases = map[string]string{
	"weight":      "weight_kg",
	"weight kg":   "weight_kg",
	"kg":          "weight_kg",
	"date":        "recorded_at",
	"recorded at": "recorded_at",
	"recorded":    "recorded_at",
}

func ParseWeightRows(reader io.Reader) ([]domain.WeightInput, error) {
	s, err := readFirstSheet(reader, weightHeaderAliases, "weight_kg", "recorded_at")
	if err != nil {
		return nil, err
	}

	result := make([]domain.WeightInput, 0, len(s.rows))
	for i := range s.rows {
		raw := s.cell(i, "weight_kg")
		if raw == "" {
			continue
		}
		row := rowNumber(i)

		weight, err := parseFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d invalid weight_kg: %w", row, err)
		}
		recordedAt, err := parseTime(s.cell(i, "recorded_at"))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid recorded_at: %w", row, err)
		}
		result = append(result, domain.WeightInput{
			WeightKg:   weight,
			RecordedAt: recordedAt,
		})
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("excel file has no valid data rows")
	}
	return result, nil
}
