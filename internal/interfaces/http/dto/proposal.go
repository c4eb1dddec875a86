package dto

import (
	"time"

	"proposal-ai-api/internal/domain/entity"
)

// RegionListResponse 定价区域列表
type RegionListResponse struct {
	Regions []entity.PricingRegion `json:"regions"`
	Count   int                    `json:"count"`
}

// ToRegionListResponse 转换区域列表
func ToRegionListResponse(regions []entity.PricingRegion) *RegionListResponse {
	if regions == nil {
		regions = []entity.PricingRegion{}
	}
	return &RegionListResponse{Regions: regions, Count: len(regions)}
}

// ProposalHealthResponse 提案服务健康状态
type ProposalHealthResponse struct {
	Status           string            `json:"status"`
	Services         map[string]string `json:"services"`
	AvailableRegions []string          `json:"availableRegions"`
	Timestamp        time.Time         `json:"timestamp"`
}

// HealthResponse 服务健康状态
type HealthResponse struct {
	Status               string    `json:"status"`
	Service              string    `json:"service"`
	Version              string    `json:"version,omitempty"`
	Environment          string    `json:"environment,omitempty"`
	CredentialConfigured bool      `json:"credentialConfigured"`
	Timestamp            time.Time `json:"timestamp"`
}

// EndpointNotFoundResponse 未匹配路由时的响应
type EndpointNotFoundResponse struct {
	Success            bool      `json:"success"`
	Error              ErrorBody `json:"error"`
	Timestamp          time.Time `json:"timestamp"`
	Path               string    `json:"path"`
	AvailableEndpoints []string  `json:"availableEndpoints"`
}
