package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"pantagon/internal/domain"
	"pantagon/internal/money"
)

const (
	itemsSheet   = "Items"
	summarySheet = "Summary"
)

var itemReportHeader = []any{
	"ID",
	"Name",
	"Status",
	"Category",
	"Group",
	"Tags",
	"Buy Date",
	"Buy Price",
	"Extra Cost",
	"Real Cost",
	"Days Held",
	"Cost Per Day",
	"Sell Date",
	"Sell Price",
	"Profit",
	"Net Profit",
	"Daily Burn",
}

// WriteItemReport writes an xlsx workbook with one row per item and a summary
// sheet built from dashboard. Money columns are stored as numbers; the summary
// also carries the formatted THB strings.
func WriteItemReport(w io.Writer, items []domain.ItemWithMetrics, dashboard domain.ItemDashboard) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", itemsSheet); err != nil {
		return fmt.Errorf("rename items sheet: %w", err)
	}
	if _, err := file.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeRow(file, itemsSheet, 1, itemReportHeader); err != nil {
		return err
	}
	if err := file.SetRowStyle(itemsSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style items header: %w", err)
	}
	for i, item := range items {
		if err := writeRow(file, itemsSheet, i+2, itemReportRow(item)); err != nil {
			return err
		}
	}

	summary := [][]any{
		{"Metric", "Value", "Display"},
		{"Total Items", dashboard.TotalItems, ""},
		{"Owned Items", dashboard.OwnedItems, ""},
		{"Sold Items", dashboard.SoldItems, ""},
		{"Daily Burn Rate", dashboard.DailyBurnRate, money.FormatCurrency(dashboard.DailyBurnRate, money.THB)},
		{"Total Profit", dashboard.TotalProfit, money.FormatCurrency(dashboard.TotalProfit, money.THB)},
		{"Burn Filter", dashboard.BurnFilter, ""},
	}
	for i, row := range summary {
		if err := writeRow(file, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	if err := file.SetRowStyle(summarySheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style summary header: %w", err)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(file *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	if err := file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}

func itemReportRow(item domain.ItemWithMetrics) []any {
	return []any{
		item.ID,
		item.Name,
		string(item.Status),
		stringCell(item.Category),
		stringCell(item.GroupName),
		strings.Join(item.Tags, ", "),
		item.BuyDate.String(),
		item.BuyPrice,
		item.ExtraCost,
		item.RealCost,
		item.DaysHeld,
		floatCell(item.CostPerDay),
		dateCell(item.SellDate),
		floatCell(item.SellPrice),
		floatCell(item.Profit),
		floatCell(item.NetProfit),
		item.DailyBurn,
	}
}

func stringCell(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func floatCell(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func dateCell(value *domain.Date) any {
	if value == nil || value.IsZero() {
		return nil
	}
	return value.String()
}
