package domain

import (
	"encoding/json"
	"time"
)

type ItemStatus string

const (
	ItemOwned ItemStatus = "owned"
	ItemSold  ItemStatus = "sold"
)

type Item struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Tags               []string   `json:"tags"`
	Category           *string    `json:"category"`
	GroupName          *string    `json:"group_name"`
	BuyDate            Date       `json:"buy_date"`
	BuyPrice           float64    `json:"buy_price"`
	ExtraCost          float64    `json:"extra_cost"`
	SellDate           *Date      `json:"sell_date"`
	SellPrice          *float64   `json:"sell_price"`
	Status             ItemStatus `json:"status"`
	DailyBurn          bool       `json:"daily_burn"`
	PurchaseSource     *string    `json:"purchase_source"`
	WarrantyExpireDate *Date      `json:"warranty_expire_date"`
	ReasonToSell       *string    `json:"reason_to_sell"`
	Note               *string    `json:"note"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ItemMetrics holds the figures derived from an Item on every read.
// Optional fields are nil when they do not apply to the item's status.
type ItemMetrics struct {
	DaysHeld          int      `json:"days_held"`
	RealCost          float64  `json:"real_cost"`
	CostPerDay        *float64 `json:"cost_per_day,omitempty"`
	AvgCostPerDaySold *float64 `json:"avg_cost_per_day_sold,omitempty"`
	Profit            *float64 `json:"profit,omitempty"`
	NetProfit         *float64 `json:"net_profit,omitempty"`
}

type ItemWithMetrics struct {
	Item
	ItemMetrics
}

type ItemDashboard struct {
	TotalItems    int     `json:"total_items"`
	OwnedItems    int     `json:"owned_items"`
	SoldItems     int     `json:"sold_items"`
	DailyBurnRate float64 `json:"daily_burn_rate"`
	TotalProfit   float64 `json:"total_profit"`
	BurnFilter    string  `json:"burn_filter"`
}

type GroupBurnRate struct {
	GroupName   string  `json:"group_name"`
	AvgBurnRate float64 `json:"avg_burn_rate"`
	ItemCount   int     `json:"item_count"`
}

type CategoryShare struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ItemOptions struct {
	Groups          []string `json:"groups"`
	Categories      []string `json:"categories"`
	PurchaseSources []string `json:"purchase_sources"`
}

type FXStatus string

const (
	FXIn       FXStatus = "IN"
	FXInterest FXStatus = "Interest"
	FXOut      FXStatus = "Out"
)

type FXEntry struct {
	ID        int64     `json:"id"`
	Status    FXStatus  `json:"status"`
	Date      Date      `json:"date"`
	USD       float64   `json:"usd"`
	THB       *float64  `json:"thb"`
	Rate      *float64  `json:"rate"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

type FXStats struct {
	TotalUSD        float64 `json:"total_usd"`
	TotalTHB        float64 `json:"total_thb"`
	WeightedAvgRate float64 `json:"weighted_avg_rate"`
	TotalValueTHB   float64 `json:"total_value_thb"`
	TotalValueUSD   float64 `json:"total_value_usd"`
	TotalEntries    int     `json:"total_entries"`
	ActiveEntries   int     `json:"active_entries"`
}

type WeightEntry struct {
	ID         int64     `json:"id"`
	WeightKg   float64   `json:"weight_kg"`
	RecordedAt time.Time `json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// WeightStats summarizes a weight series. TotalChange is nil with fewer than
// two entries.
type WeightStats struct {
	Min              float64    `json:"min"`
	Max              float64    `json:"max"`
	Avg              float64    `json:"avg"`
	TotalChange      *float64   `json:"total_change,omitempty"`
	TotalEntries     int        `json:"total_entries"`
	LatestRecordedAt *time.Time `json:"latest_recorded_at,omitempty"`
}

type ItemInput struct {
	Name               string     `json:"name" validate:"required"`
	Tags               []string   `json:"tags"`
	Category           *string    `json:"category"`
	GroupName          *string    `json:"group_name"`
	BuyDate            Date       `json:"buy_date"`
	BuyPrice           float64    `json:"buy_price" validate:"gt=0"`
	ExtraCost          float64    `json:"extra_cost" validate:"gte=0"`
	SellDate           *Date      `json:"sell_date"`
	SellPrice          *float64   `json:"sell_price" validate:"omitempty,gte=0"`
	Status             ItemStatus `json:"status" validate:"required,oneof=owned sold"`
	DailyBurn          *bool      `json:"daily_burn"`
	PurchaseSource     *string    `json:"purchase_source"`
	WarrantyExpireDate *Date      `json:"warranty_expire_date"`
	ReasonToSell       *string    `json:"reason_to_sell"`
	Note               *string    `json:"note"`
}

// ItemPatch holds the keys of a partial update. Nullable fields are cleared
// by an explicit null.
type ItemPatch struct {
	Name               *string           `json:"name"`
	Tags               *[]string         `json:"tags"`
	Category           Nullable[string]  `json:"category"`
	GroupName          Nullable[string]  `json:"group_name"`
	BuyDate            *Date             `json:"buy_date"`
	BuyPrice           *float64          `json:"buy_price"`
	ExtraCost          *float64          `json:"extra_cost"`
	SellDate           Nullable[Date]    `json:"sell_date"`
	SellPrice          Nullable[float64] `json:"sell_price"`
	Status             *ItemStatus       `json:"status"`
	DailyBurn          *bool             `json:"daily_burn"`
	PurchaseSource     Nullable[string]  `json:"purchase_source"`
	WarrantyExpireDate Nullable[Date]    `json:"warranty_expire_date"`
	ReasonToSell       Nullable[string]  `json:"reason_to_sell"`
	Note               Nullable[string]  `json:"note"`

	// Server-managed keys that edit forms send back. Accepted and ignored.
	ID        json.RawMessage `json:"id"`
	CreatedAt json.RawMessage `json:"created_at"`
	UpdatedAt json.RawMessage `json:"updated_at"`
}

type FXEntryInput struct {
	Status FXStatus `json:"status" validate:"required,oneof=IN Interest Out"`
	Date   Date     `json:"date"`
	USD    float64  `json:"usd" validate:"gte=0"`
	THB    *float64 `json:"thb" validate:"omitempty,gte=0"`
	Rate   *float64 `json:"rate" validate:"omitempty,gte=0"`
	Note   *string  `json:"note"`
}

type FXEntryPatch struct {
	Status *FXStatus         `json:"status"`
	Date   *Date             `json:"date"`
	USD    *float64          `json:"usd"`
	THB    Nullable[float64] `json:"thb"`
	Rate   Nullable[float64] `json:"rate"`
	Note   Nullable[string]  `json:"note"`

	ID        json.RawMessage `json:"id"`
	CreatedAt json.RawMessage `json:"created_at"`
}

type WeightInput struct {
	WeightKg   float64   `json:"weight_kg" validate:"gt=0"`
	RecordedAt time.Time `json:"recorded_at"`
}

type ImportCounts struct {
	Items     int `json:"items"`
	FXEntries int `json:"fx_entries"`
	Weights   int `json:"weights"`
}
