// internal/service/order/interfaces/webhook_handler_test.go
package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"storefront/internal/service/courier"
	"storefront/internal/service/order/application"
	"storefront/internal/service/order/domain"
	"storefront/internal/service/pricing"
	"storefront/internal/service/shipping"
)

const testCheckword = "secret-checkword"

type memOrderRepo struct {
	orders map[string]*domain.Order
	saves  int
}

func (r *memOrderRepo) Save(_ context.Context, order *domain.Order) error {
	r.orders[order.ID] = order
	r.saves++
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *memOrderRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, id := range ids {
		if order, ok := r.orders[id]; ok {
			out = append(out, order)
		}
	}
	return out, nil
}

func (r *memOrderRepo) FindByWaybill(_ context.Context, waybillNo string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range r.orders {
		if order.WaybillNo == waybillNo {
			out = append(out, order)
		}
	}
	return out, nil
}

func newWebhookFixture(t *testing.T) (*http.ServeMux, *memOrderRepo) {
	t.Helper()
	items := []domain.LineItem{{ProductID: "p1", ProductName: "oat milk", UnitPrice: 81, Quantity: 1, LineTotal: 81}}
	order, err := domain.NewOrder("o1", "Chan Tai Man", "91234567", items, shipping.MethodHome, 50, "pay-1")
	require.NoError(t, err)
	order.DeliveryAddress = "1 Queen's Road"
	require.NoError(t, order.TransitionTo(domain.StatusPaid))
	require.NoError(t, order.TransitionTo(domain.StatusProcessing))
	require.NoError(t, order.MarkDispatched("SF1"))

	repo := &memOrderRepo{orders: map[string]*domain.Order{"o1": order}}
	service := application.NewOrderApplicationService(
		repo, nil, nil, nil, nil, shipping.NewProvider(nil),
		func() pricing.Rules { return pricing.Rules{} }, otel.Tracer("test"),
	)

	mux := http.NewServeMux()
	NewWebhookHandler(service, func() string { return testCheckword }).RegisterRoutes(mux)
	return mux, repo
}

func postRoutePush(mux *http.ServeMux, msgData, digest string) *httptest.ResponseRecorder {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if digest == "" {
		digest = courier.Digest(msgData, timestamp, testCheckword)
	}
	form := url.Values{}
	form.Set("requestID", "req-1")
	form.Set("serviceCode", courier.ServiceCodeRoutePush)
	form.Set("timestamp", timestamp)
	form.Set("msgData", msgData)
	form.Set("msgDigest", digest)

	req := httptest.NewRequest(http.MethodPost, "/webhook/sf/route", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeReturnCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		ReturnCode string `json:"return_code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.ReturnCode
}

func TestRoutePushHandler_Applied(t *testing.T) {
	mux, repo := newWebhookFixture(t)

	rec := postRoutePush(mux, `{"mailNo":"SF1","routes":[{"opCode":"50"}]}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0000", decodeReturnCode(t, rec))
	assert.Equal(t, domain.StatusShipping, repo.orders["o1"].Status)
}

func TestRoutePushHandler_BadDigest(t *testing.T) {
	mux, repo := newWebhookFixture(t)

	rec := postRoutePush(mux, `{"mailNo":"SF1","routes":[{"opCode":"50"}]}`, "dGFtcGVyZWQ=")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "4001", decodeReturnCode(t, rec))
	// 签名失败时载荷一个字节都不能生效
	assert.Equal(t, domain.StatusReadyForPickup, repo.orders["o1"].Status)
	assert.Equal(t, 0, repo.saves)
}

func TestRoutePushHandler_MalformedPayload(t *testing.T) {
	mux, repo := newWebhookFixture(t)

	// 签名对得上但 msgData 不是合法 JSON
	rec := postRoutePush(mux, `{not json`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "4000", decodeReturnCode(t, rec))
	assert.Equal(t, domain.StatusReadyForPickup, repo.orders["o1"].Status)
}

func TestRoutePushHandler_UnknownWaybillStillAcked(t *testing.T) {
	mux, repo := newWebhookFixture(t)

	// 查不到运单也要应答成功，终止承运商重推
	rec := postRoutePush(mux, `{"mailNo":"SF-unknown","routes":[{"opCode":"50"}]}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0000", decodeReturnCode(t, rec))
	assert.Equal(t, domain.StatusReadyForPickup, repo.orders["o1"].Status)
	assert.Equal(t, 0, repo.saves)
}
