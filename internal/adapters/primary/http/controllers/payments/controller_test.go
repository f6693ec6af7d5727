package paymentsController_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentsController "github.com/genius-paulo/telegram-cloudpayments-polling/internal/adapters/primary/http/controllers/payments"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/domain"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/cache"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/usecases/payment"
)

func newTestRouter(tracker cache.Cache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	paymentsController.New(tracker, log).RegisterRoutes(router)

	return router
}

func TestGetPayment_ReturnsTrackedState(t *testing.T) {
	tracker := cache.NewInMemoryCache()

	tracked := domain.Payment{
		Number:    "7",
		AccountID: 42,
		Amount:    100,
		Currency:  "USD",
		Status:    domain.PaymentStatusSucceeded,
	}
	data, err := json.Marshal(tracked)
	require.NoError(t, err)
	require.NoError(t, tracker.Set(context.Background(), payment.TrackKey("7"), string(data), 0))

	router := newTestRouter(tracker)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payments/7", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got domain.Payment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "7", got.Number)
	assert.Equal(t, domain.PaymentStatusSucceeded, got.Status)
}

func TestGetPayment_NotFound(t *testing.T) {
	router := newTestRouter(cache.NewInMemoryCache())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payments/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPayment_CorruptedEntry(t *testing.T) {
	tracker := cache.NewInMemoryCache()
	require.NoError(t, tracker.Set(context.Background(), payment.TrackKey("7"), "not json", 0))

	router := newTestRouter(tracker)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payments/7", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
