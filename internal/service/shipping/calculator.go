// internal/service/shipping/calculator.go
package shipping

// DeliveryMethod 配送方式
type DeliveryMethod string

const (
	MethodHome   DeliveryMethod = "home"   // 送货上门
	MethodLocker DeliveryMethod = "locker" // 自提柜
)

// Valid 判断配送方式是否受支持
func (m DeliveryMethod) Valid() bool {
	return m == MethodHome || m == MethodLocker
}

// MethodFee 是单个配送方式的运费配置
type MethodFee struct {
	Fee           int64 `json:"fee" yaml:"fee"`
	FreeThreshold int64 `json:"free_threshold" yaml:"free_threshold"`
}

// FeeTable 是按配送方式索引的运费表，由配置中心下发，禁止编译期写死
type FeeTable map[DeliveryMethod]MethodFee

// DefaultFeeTable 是配置中心不可用时的兜底运费表。
// 宁可按兜底价收费，也不能让结算链路失败。
func DefaultFeeTable() FeeTable {
	return FeeTable{
		MethodHome:   {Fee: 50, FreeThreshold: 300},
		MethodLocker: {Fee: 30, FreeThreshold: 300},
	}
}

// Fee 计算运费：小计达到免邮门槛时为 0，否则为配置费用。
// 表中缺少该配送方式时回退到兜底表。
func Fee(subtotal int64, method DeliveryMethod, table FeeTable) int64 {
	mf, ok := table[method]
	if !ok {
		mf, ok = DefaultFeeTable()[method]
		if !ok {
			return 0
		}
	}
	if subtotal >= mf.FreeThreshold {
		return 0
	}
	return mf.Fee
}
