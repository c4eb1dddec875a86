// Package pricing 提供区域工时定价
package pricing

import (
	"fmt"
	"math"

	"proposal-ai-api/internal/config"
	"proposal-ai-api/internal/domain/entity"
)

// Table 区域定价表，构造后只读，可被并发请求共享
type Table struct {
	regions []entity.PricingRegion
	byID    map[string]int
}

// NewTable 创建定价表，保持传入顺序
func NewTable(regions []entity.PricingRegion) (*Table, error) {
	t := &Table{
		regions: make([]entity.PricingRegion, 0, len(regions)),
		byID:    make(map[string]int, len(regions)),
	}
	for _, r := range regions {
		if r.ID == "" {
			return nil, fmt.Errorf("pricing region id is required")
		}
		if _, dup := t.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate pricing region: %s", r.ID)
		}
		if r.HourlyRate <= 0 || math.IsNaN(r.HourlyRate) || math.IsInf(r.HourlyRate, 0) {
			return nil, fmt.Errorf("pricing region %s: hourly rate must be positive", r.ID)
		}
		t.byID[r.ID] = len(t.regions)
		t.regions = append(t.regions, r)
	}
	return t, nil
}

// NewTableFromConfig 由配置构造定价表
func NewTableFromConfig(cfg *config.Config) (*Table, error) {
	regions := make([]entity.PricingRegion, 0, len(cfg.Pricing.Regions))
	for _, r := range cfg.Pricing.Regions {
		regions = append(regions, entity.PricingRegion{
			ID:         r.ID,
			Name:       r.Name,
			HourlyRate: r.HourlyRate,
			Currency:   r.Currency,
			Symbol:     r.Symbol,
		})
	}
	return NewTable(regions)
}

// AllRegions 返回全部区域（按配置顺序）的副本
func (t *Table) AllRegions() []entity.PricingRegion {
	out := make([]entity.PricingRegion, len(t.regions))
	copy(out, t.regions)
	return out
}

// Len 区域数量
func (t *Table) Len() int {
	return len(t.regions)
}

// RegionByID 按 ID 查找区域
func (t *Table) RegionByID(id string) (entity.PricingRegion, bool) {
	i, ok := t.byID[id]
	if !ok {
		return entity.PricingRegion{}, false
	}
	return t.regions[i], true
}

// PriceItems 按区域费率计算每个条目的费用
func PriceItems(items []entity.CostItem, region entity.PricingRegion) []entity.RegionalCostItem {
	out := make([]entity.RegionalCostItem, 0, len(items))
	for _, item := range items {
		out = append(out, entity.RegionalCostItem{
			CostItem:   item,
			HourlyRate: region.HourlyRate,
			TotalCost:  Round2(item.Hours * region.HourlyRate),
		})
	}
	return out
}

// TotalCost 汇总条目费用
func TotalCost(items []entity.RegionalCostItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.TotalCost
	}
	return Round2(sum)
}

// Round2 四舍五入到两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
