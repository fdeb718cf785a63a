// internal/service/order/interfaces/webhook_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"

	"storefront/internal/pkg/logger"
	"storefront/internal/service/courier"
	"storefront/internal/service/order/application"
)

// 承运商约定的应答码。除签名失败和报文损坏外一律应答 0000，
// 否则承运商会按失败持续重推。
const (
	returnCodeOK           = "0000"
	returnCodeBadSignature = "4001"
	returnCodeBadPayload   = "4000"
)

type webhookResponse struct {
	ReturnCode string `json:"return_code"`
	ReturnMsg  string `json:"return_msg"`
}

// WebhookHandler 处理承运商的入站路由推送
type WebhookHandler struct {
	service *application.OrderApplicationService
	// checkword 延迟取值，支持运行期轮换密钥
	checkword func() string
}

// NewWebhookHandler 创建入站推送处理器
func NewWebhookHandler(service *application.OrderApplicationService, checkword func() string) *WebhookHandler {
	return &WebhookHandler{service: service, checkword: checkword}
}

// RegisterRoutes 在 ServeMux 上注册承运商回调路由
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /webhook/sf/route", traced("webhook.RoutePush", h.routePushHandler))
}

func (h *WebhookHandler) routePushHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.Ctx(ctx)

	if err := r.ParseForm(); err != nil {
		writeWebhook(w, http.StatusBadRequest, returnCodeBadPayload, "malformed form body")
		return
	}
	msgData := r.FormValue("msgData")
	timestamp := r.FormValue("timestamp")
	digest := r.FormValue("msgDigest")
	requestID := r.FormValue("requestID")

	// 签名校验失败必须整体拒绝，载荷一个字节都不处理
	if !courier.VerifyDigest(msgData, timestamp, h.checkword(), digest) {
		log.Warn().Str("request_id", requestID).Str("remote", r.RemoteAddr).
			Msg("route push rejected: digest mismatch")
		writeWebhook(w, http.StatusForbidden, returnCodeBadSignature, "signature verification failed")
		return
	}

	var msg courier.RoutePushMsg
	if err := json.Unmarshal([]byte(msgData), &msg); err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Msg("route push rejected: malformed msgData")
		writeWebhook(w, http.StatusBadRequest, returnCodeBadPayload, "malformed msgData")
		return
	}

	// 内部的跳过与失败不回传给承运商，否则会触发无意义的重推
	h.service.HandleRoutePush(ctx, requestID, &msg, []byte(msgData))
	writeWebhook(w, http.StatusOK, returnCodeOK, "success")
}

func writeWebhook(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(webhookResponse{ReturnCode: code, ReturnMsg: msg})
}
