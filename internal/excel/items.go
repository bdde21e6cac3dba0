package excel

import (
	"fmt"
	"io"

	"pantagon/internal/domain"
)

var itemHeaderAliases = map[string]string{
	"name":                 "name",
	"item":                 "name",
	"item name":            "name",
	"tags":                 "tags",
	"tag":                  "tags",
	"category":             "category",
	"group":                "group_name",
	"group name":           "group_name",
	"buy date":             "buy_date",
	"purchase date":        "buy_date",
	"bought":               "buy_date",
	"buy price":            "buy_price",
	"price":                "buy_price",
	"purchase price":       "buy_price",
	"extra cost":           "extra_cost",
	"extra":                "extra_cost",
	"sell date":            "sell_date",
	"sold date":            "sell_date",
	"sell price":           "sell_price",
	"sold price":           "sell_price",
	"status":               "status",
	"daily burn":           "daily_burn",
	"burn":                 "daily_burn",
	"purchase source":      "purchase_source",
	"source":               "purchase_source",
	"shop":                 "purchase_source",
	"warranty":             "warranty_expire_date",
	"warranty expire date": "warranty_expire_date",
	"warranty expiry":      "warranty_expire_date",
	"reason to sell":       "reason_to_sell",
	"note":                 "note",
	"notes":                "note",
}

// ParseItemRows reads an item sheet. A row without a status is sold when it
// carries a sell price and owned otherwise.
func ParseItemRows(reader io.Reader) ([]domain.ItemInput, error) {
	s, err := readFirstSheet(reader, itemHeaderAliases, "name", "buy_date", "buy_price")
	if err != nil {
		return nil, err
	}

	result := make([]domain.ItemInput, 0, len(s.rows))
	for i := range s.rows {
		name := s.cell(i, "name")
		if name == "" {
			continue
		}
		row := rowNumber(i)

		buyDate, err := parseDate(s.cell(i, "buy_date"))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid buy_date: %w", row, err)
		}
		buyPrice, err := parseFloat(s.cell(i, "buy_price"))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid buy_price: %w", row, err)
		}
		extraCost := 0.0
		if raw := s.cell(i, "extra_cost"); raw != "" {
			if extraCost, err = parseFloat(raw); err != nil {
				return nil, fmt.Errorf("row %d invalid extra_cost: %w", row, err)
			}
		}
		sellDate, err := parseOptionalDate(s.cell(i, "sell_date"))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid sell_date: %w", row, err)
		}
		sellPrice, err := parseOptionalFloat(s.cell(i, "sell_price"))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid sell_price: %w", row, err)
		}
		dailyBurn, err := parseOptionalBool(s.cell(i, "daily_burn"))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid daily_burn: %w", row, err)
		}
		warranty, err := parseOptionalDate(s.cell(i, "warranty_expire_date"))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid warranty_expire_date: %w", row, err)
		}

		status := domain.ItemStatus(s.cell(i, "status"))
		if status == "" {
			status = domain.ItemOwned
			if sellPrice != nil {
				status = domain.ItemSold
			}
		}

		result = append(result, domain.ItemInput{
			Name:               name,
			Tags:               splitTags(s.cell(i, "tags")),
			Category:           optionalString(s.cell(i, "category")),
			GroupName:          optionalString(s.cell(i, "group_name")),
			BuyDate:            buyDate,
			BuyPrice:           buyPrice,
			ExtraCost:          extraCost,
			SellDate:           sellDate,
			SellPrice:          sellPrice,
			Status:             status,
			DailyBurn:          dailyBurn,
			PurchaseSource:     optionalString(s.cell(i, "purchase_source")),
			WarrantyExpireDate: warranty,
			ReasonToSell:       optionalString(s.cell(i, "reason_to_sell")),
			Note:               optionalString(s.cell(i, "note")),
		})
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("excel file has no valid data rows")
	}
	return result, nil
}
