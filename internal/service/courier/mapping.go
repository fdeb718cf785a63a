// internal/service/courier/mapping.go
package courier

// 承运商快递产品类型
const (
	ExpressTypeColdChain = 2 // 冷运到家
)

// expressTypeByMethod 把配送方式映射到承运商产品类型。
// 目前所有配送方式统一走冷链服务；映射保持独立，替换承运商产品时不触碰签名逻辑。
var expressTypeByMethod = map[string]int{
	"home":   ExpressTypeColdChain,
	"locker": ExpressTypeColdChain,
}

// ExpressTypeFor 返回配送方式对应的承运商产品类型，未知方式回退冷链
func ExpressTypeFor(deliveryMethod string) int {
	if t, ok := expressTypeByMethod[deliveryMethod]; ok {
		return t
	}
	return ExpressTypeColdChain
}
