// internal/service/pricing/engine.go
package pricing

import (
	"math"

	catalog "storefront/internal/service/catalog/domain"
)

// Tier 客户计价等级。钱包支付会员在普通会员折扣之上再叠加钱包折扣。
type Tier string

const (
	TierGuest  Tier = "guest"
	TierMember Tier = "member"
	TierWallet Tier = "wallet"
)

// Rules 是一次结算使用的折扣规则快照，由配置注入
type Rules struct {
	MemberDiscountPct  float64
	WalletDiscountPct  float64
	ExcludedProductIDs map[string]struct{}
}

// Excluded 判断商品是否不参与等级折扣
func (r Rules) Excluded(p *catalog.Product) bool {
	if p.ExcludeTierDiscount {
		return true
	}
	_, ok := r.ExcludedProductIDs[p.ID]
	return ok
}

// EffectivePrice 计算单件商品的到手单价，固定顺序：
//  1. 计价起点 = 优惠价（低于原价时）或原价
//  2. 排除商品跳过等级折扣
//  3. 等级折扣乘法叠加：wallet 先乘会员折扣再乘钱包折扣，member 只乘会员折扣，
//     折扣率 <= 0 时不应用
//  4. 批量折扣与等级无关，数量达到阈值后覆盖前面所有步骤的结果：
//     percent 在计价起点上按比例下调并取整（等级折扣作废），
//     fixed 直接作为新单价（可高于折后价，配置可信）
//  5. 结果四舍五入到整数货币单位
//
// 纯函数，入参已校验，没有错误分支。
func EffectivePrice(p *catalog.Product, quantity int, tier Tier, rules Rules) int64 {
	price := float64(p.BasePrice())

	if !rules.Excluded(p) {
		switch tier {
		case TierWallet:
			if rules.MemberDiscountPct > 0 {
				price *= 1 - rules.MemberDiscountPct/100
			}
			if rules.WalletDiscountPct > 0 {
				price *= 1 - rules.WalletDiscountPct/100
			}
		case TierMember:
			if rules.MemberDiscountPct > 0 {
				price *= 1 - rules.MemberDiscountPct/100
			}
		}
	}

	// 数量为 0 永不触发批量折扣
	if p.Bulk != nil && quantity > 0 && quantity >= p.Bulk.Threshold {
		switch p.Bulk.Type {
		case catalog.BulkDiscountPercent:
			price = math.Round(float64(p.BasePrice()) * (1 - float64(p.Bulk.Value)/100))
		case catalog.BulkDiscountFixed:
			price = float64(p.Bulk.Value)
		}
	}

	return int64(math.Round(price))
}
