// internal/service/courier/routes.go
package courier

// 承运商路由操作码。签收码族表示妥投，中转码族表示已揽收/运输中。
// 未列出的操作码一律 acknowledge-and-ignore，否则承运商会持续重推。
var (
	deliveredOpCodes = map[string]struct{}{
		"80": {}, // 签收
		"8000": {},
	}
	inTransitOpCodes = map[string]struct{}{
		"30": {}, // 快件在途
		"31": {}, // 到达中转场
		"36": {}, // 派件中
		"44": {}, // 航空转运
		"50": {}, // 已收件
		"54": {}, // 已装车
	}
)

// RouteOutcome 是一次路由推送扫描后的目标结论
type RouteOutcome int

const (
	OutcomeNone      RouteOutcome = iota // 没有可识别的路由码，不做状态迁移
	OutcomeShipping                      // 最近一条可识别路由为在途
	OutcomeDelivered                     // 出现签收码，直接妥投
)

// ScanRoutes 从最新一条路由向前扫描：
// 签收码一经出现立即胜出；否则最近的在途码得出 shipping；全不认识则不迁移。
func ScanRoutes(routes []RouteEvent) RouteOutcome {
	sawTransit := false
	for i := len(routes) - 1; i >= 0; i-- {
		if _, ok := deliveredOpCodes[routes[i].OpCode]; ok {
			return OutcomeDelivered
		}
		if _, ok := inTransitOpCodes[routes[i].OpCode]; ok {
			sawTransit = true
		}
	}
	if sawTransit {
		return OutcomeShipping
	}
	return OutcomeNone
}
