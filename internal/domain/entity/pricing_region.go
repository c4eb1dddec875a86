package entity

// PricingRegion 定价区域（进程级只读配置）
type PricingRegion struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourlyRate"`
	Currency   string  `json:"currency"`
	Symbol     string  `json:"symbol"`
}

// RegionalCostItem 按区域费率计算后的工时条目
type RegionalCostItem struct {
	CostItem
	HourlyRate float64 `json:"hourlyRate"`
	TotalCost  float64 `json:"totalCost"`
}
