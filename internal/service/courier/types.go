// internal/service/courier/types.go
package courier

// 承运商服务编码
const (
	ServiceCodeCreateOrder = "EXP_RECE_CREATE_ORDER"
	ServiceCodeRoutePush   = "EXP_RECE_ROUTE_PUSH"
)

// 联系人类型
const (
	ContactTypeSender   = 1
	ContactTypeReceiver = 2
)

// ContactInfo 下单报文中的联系人
type ContactInfo struct {
	ContactType int    `json:"contactType"`
	Contact     string `json:"contact"`
	Mobile      string `json:"mobile"`
	Address     string `json:"address"`
	Region      string `json:"region"`
	City        string `json:"city"`
}

// CargoDetail 下单报文中的货物明细
type CargoDetail struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CreateOrderMsg 是下单接口的 msgData 载荷
type CreateOrderMsg struct {
	OrderID         string        `json:"orderId"`
	Language        string        `json:"language"`
	MonthlyCard     string        `json:"monthlyCard"`
	ExpressTypeID   int           `json:"expressTypeId"`
	PayMethod       int           `json:"payMethod"`
	ParcelQty       int           `json:"parcelQty"`
	TotalWeight     float64       `json:"totalWeight"`
	ContactInfoList []ContactInfo `json:"contactInfoList"`
	CargoDetails    []CargoDetail `json:"cargoDetails"`
}

// WaybillNoInfo 下单成功后返回的运单号
type WaybillNoInfo struct {
	WaybillType int    `json:"waybillType"`
	WaybillNo   string `json:"waybillNo"`
}

// apiEnvelope 是承运商网关的外层响应
type apiEnvelope struct {
	APIResultCode string `json:"apiResultCode"`
	APIErrorMsg   string `json:"apiErrorMsg"`
	// APIResultData 是内层业务结果的 JSON 字符串
	APIResultData string `json:"apiResultData"`
}

// createOrderResult 是内层业务结果
type createOrderResult struct {
	Success   bool   `json:"success"`
	ErrorCode string `json:"errorCode"`
	ErrorMsg  string `json:"errorMsg"`
	MsgData   struct {
		OrderID           string          `json:"orderId"`
		WaybillNoInfoList []WaybillNoInfo `json:"waybillNoInfoList"`
	} `json:"msgData"`
}

// RouteEvent 路由推送中的单个路由节点
type RouteEvent struct {
	OpCode        string `json:"opCode"`
	Remark        string `json:"remark"`
	AcceptTime    string `json:"acceptTime"`
	AcceptAddress string `json:"acceptAddress"`
}

// RoutePushMsg 是路由推送的 msgData 载荷
type RoutePushMsg struct {
	MailNo string       `json:"mailNo"`
	Routes []RouteEvent `json:"routes"`
}
