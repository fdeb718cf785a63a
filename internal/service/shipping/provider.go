// internal/service/shipping/provider.go
package shipping

import (
	"encoding/json"
	"sync/atomic"

	"storefront/internal/pkg/logger"
	"storefront/internal/pkg/nacos"
)

// Provider 持有当前生效的运费表快照。
// 配置中心推送变更时热替换；任何一步失败都保留上一份快照或兜底表，结算不受影响。
type Provider struct {
	table atomic.Value // FeeTable
}

// NewProvider 创建运费表提供者，fallback 为空时使用内置兜底表
func NewProvider(fallback FeeTable) *Provider {
	p := &Provider{}
	if len(fallback) == 0 {
		fallback = DefaultFeeTable()
	}
	p.table.Store(fallback)
	return p
}

// Table 返回当前运费表快照
func (p *Provider) Table() FeeTable {
	return p.table.Load().(FeeTable)
}

// Update 解析配置中心下发的 JSON 运费表并替换快照。
// 内容非法时保留旧表，只记日志。
func (p *Provider) Update(content string) {
	var table FeeTable
	if err := json.Unmarshal([]byte(content), &table); err != nil {
		logger.Logger().Error().Err(err).Msg("invalid shipping fee table payload, keeping previous table")
		return
	}
	if len(table) == 0 {
		logger.Logger().Warn().Msg("empty shipping fee table payload, keeping previous table")
		return
	}
	p.table.Store(table)
	logger.Logger().Info().Int("methods", len(table)).Msg("shipping fee table updated")
}

// SubscribeNacos 从配置中心拉取初始运费表并监听后续变更。
// 配置中心不可用时只记日志并继续使用兜底表。
func (p *Provider) SubscribeNacos(client *nacos.Client, dataID string) {
	if client == nil || dataID == "" {
		return
	}
	content, err := client.GetConfig(dataID)
	if err != nil {
		logger.Logger().Warn().Err(err).Str("data_id", dataID).
			Msg("could not load shipping fee table from config center, using fallback")
	} else if content != "" {
		p.Update(content)
	}
	if err := client.ListenConfig(dataID, p.Update); err != nil {
		logger.Logger().Warn().Err(err).Str("data_id", dataID).
			Msg("could not subscribe shipping fee table changes")
	}
}
