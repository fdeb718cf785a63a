// internal/service/courier/client.go
package courier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"storefront/internal/pkg/httpclient"
	"storefront/internal/pkg/logger"
)

// Config 是承运商客户端配置
type Config struct {
	BaseURL     string
	PartnerID   string
	Checkword   string
	MonthlyCard string
	// Timeout 是单次外呼的硬上限，超时等同失败
	Timeout time.Duration
}

// Client 负责构造签名请求、外呼承运商并解析响应
type Client struct {
	cfg  Config
	http *httpclient.Client
	now  func() time.Time
}

// NewClient 创建承运商客户端
func NewClient(cfg Config, hc *httpclient.Client) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{cfg: cfg, http: hc, now: time.Now}
}

// CreateOrder 向承运商下单并提取运单号。
// 返回的 raw 是承运商的原始响应体，无论成败都交给调用方留档；
// 校验失败时不发起任何网络请求。
func (c *Client) CreateOrder(ctx context.Context, msg *CreateOrderMsg) (waybillNo string, raw []byte, err error) {
	if err := msg.Validate(); err != nil {
		return "", nil, err
	}

	msgData, err := json.Marshal(msg)
	if err != nil {
		return "", nil, errors.Wrap(err, "marshal courier order message")
	}

	form := c.signedForm(ServiceCodeCreateOrder, string(msgData))

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	status, body, err := c.http.PostForm(ctx, c.cfg.BaseURL, form)
	if err != nil {
		return "", body, errors.Wrap(err, "call courier create order")
	}
	if status != http.StatusOK {
		return "", body, errors.Errorf("courier returned status %d", status)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", body, errors.Wrap(err, "parse courier response envelope")
	}
	if envelope.APIResultCode != "A1000" {
		return "", body, errors.Errorf("courier rejected request: %s %s", envelope.APIResultCode, envelope.APIErrorMsg)
	}

	var result createOrderResult
	if err := json.Unmarshal([]byte(envelope.APIResultData), &result); err != nil {
		return "", body, errors.Wrap(err, "parse courier order result")
	}
	if !result.Success {
		return "", body, errors.Errorf("courier order failed: %s %s", result.ErrorCode, result.ErrorMsg)
	}
	if len(result.MsgData.WaybillNoInfoList) == 0 || result.MsgData.WaybillNoInfoList[0].WaybillNo == "" {
		return "", body, errors.New("courier response contains no waybill number")
	}

	waybill := result.MsgData.WaybillNoInfoList[0].WaybillNo
	logger.Ctx(ctx).Info().Str("order_id", msg.OrderID).Str("waybill_no", waybill).
		Msg("courier order created")
	return waybill, body, nil
}

// signedForm 组装签名信封。requestID 每次调用都重新生成，重试也不复用，
// 承运商侧依赖它做幂等与追踪。
func (c *Client) signedForm(serviceCode, msgData string) url.Values {
	timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	form := url.Values{}
	form.Set("partnerID", c.cfg.PartnerID)
	form.Set("requestID", uuid.New().String())
	form.Set("serviceCode", serviceCode)
	form.Set("timestamp", timestamp)
	form.Set("msgData", msgData)
	form.Set("msgDigest", Digest(msgData, timestamp, c.cfg.Checkword))
	return form
}

// Checkword 暴露给入站校验使用
func (c *Client) Checkword() string {
	return c.cfg.Checkword
}

// MonthlyCard 返回月结卡号
func (c *Client) MonthlyCard() string {
	return c.cfg.MonthlyCard
}
