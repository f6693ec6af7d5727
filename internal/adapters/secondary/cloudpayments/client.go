package cloudpayments

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/domain"
	paymentPort "github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/payment"
)

const (
	createOrderPath = "/orders/create"
	findOrderPath   = "/v2/payments/find"
	cancelOrderPath = "/orders/cancel"
)

type Config struct {
	BaseURL   string        `envconfig:"BASE_URL" default:"https://api.cloudpayments.ru"`
	PublicID  string        `envconfig:"PUBLIC_ID" required:"true"`
	APISecret string        `envconfig:"API_SECRET" required:"true"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

// Client клиент API CloudPayments, реализует IPaymentProvider
type Client struct {
	cfg        *Config
	httpClient *http.Client
	authHeader string // Basic-авторизация, считается один раз при старте
	log        *slog.Logger
}

func NewClient(cfg *Config, log *slog.Logger) *Client {
	creds := cfg.PublicID + ":" + cfg.APISecret
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(creds)),
		log:        log,
	}
}

// apiResponse общий конверт ответа CloudPayments
type apiResponse struct {
	Model   json.RawMessage `json:"Model"`
	Success bool            `json:"Success"`
	Message string          `json:"Message"`
}

func (r *apiResponse) hasModel() bool {
	return len(r.Model) > 0 && string(r.Model) != "null"
}

// flexString CloudPayments отдаёт Number как число, а Id как строку —
// разбираем оба варианта в строку
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*s = flexString(asString)
		return nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return err
	}
	*s = flexString(asNumber.String())
	return nil
}

type createOrderBody struct {
	Amount              float64 `json:"Amount"`
	Currency            string  `json:"Currency"`
	Description         string  `json:"Description"`
	RequireConfirmation bool    `json:"RequireConfirmation"`
	SendEmail           bool    `json:"SendEmail"`
	AccountID           string  `json:"AccountId"`
}

type orderModel struct {
	ID     flexString `json:"Id"`
	URL    string     `json:"Url"`
	Number flexString `json:"Number"`
}

type findModel struct {
	StatusCode int    `json:"StatusCode"`
	Reason     string `json:"Reason"`
}

// CreateOrder создаёт заказ на оплату
func (c *Client) CreateOrder(ctx context.Context, req paymentPort.CreateOrderRequest) (*paymentPort.Order, error) {
	body := createOrderBody{
		Amount:              req.Amount,
		Currency:            req.Currency,
		Description:         req.Description,
		RequireConfirmation: true,
		SendEmail:           false,
		AccountID:           strconv.FormatInt(req.AccountID, 10),
	}

	resp, err := c.post(ctx, createOrderPath, body)
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, domain.NewGatewayError("create order", fmt.Errorf("gateway rejected request: %s", resp.Message))
	}

	if !resp.hasModel() {
		return nil, domain.NewGatewayError("create order", fmt.Errorf("response has no model"))
	}

	var model orderModel
	if err := json.Unmarshal(resp.Model, &model); err != nil {
		return nil, domain.NewGatewayError("create order", fmt.Errorf("failed to parse model: %w", err))
	}

	if model.ID == "" || model.URL == "" || model.Number == "" {
		return nil, domain.NewGatewayError("create order", fmt.Errorf("model is missing required fields: %s", resp.Model))
	}

	c.log.Debug("order created",
		"order_id", string(model.ID),
		"number", string(model.Number),
	)

	return &paymentPort.Order{
		ID:     string(model.ID),
		URL:    model.URL,
		Number: string(model.Number),
	}, nil
}

// FindOrder возвращает статус заказа по номеру инвойса
func (c *Client) FindOrder(ctx context.Context, invoiceID string) (*paymentPort.OrderStatus, error) {
	body := map[string]string{"InvoiceId": invoiceID}

	resp, err := c.post(ctx, findOrderPath, body)
	if err != nil {
		return nil, err
	}

	// Без модели CloudPayments отвечает, пока пользователь не ввёл данные карты.
	// Success при этом false, поэтому модель проверяем первой
	if !resp.hasModel() {
		return nil, domain.ErrOrderNotStarted
	}

	var model findModel
	if err := json.Unmarshal(resp.Model, &model); err != nil {
		return nil, domain.NewGatewayError("find order", fmt.Errorf("failed to parse model: %w", err))
	}

	return &paymentPort.OrderStatus{
		StatusCode: model.StatusCode,
		Reason:     model.Reason,
	}, nil
}

// CancelOrder отменяет заказ
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	body := map[string]string{"Id": orderID}

	resp, err := c.post(ctx, cancelOrderPath, body)
	if err != nil {
		return err
	}

	if !resp.Success {
		return domain.NewGatewayError("cancel order", fmt.Errorf("gateway rejected cancellation: %s", resp.Message))
	}

	c.log.Debug("order cancelled", "order_id", orderID)
	return nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*apiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, domain.NewGatewayError(path, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, domain.NewGatewayError(path, fmt.Errorf("failed to build request: %w", err))
	}

	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewGatewayError(path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, domain.NewGatewayError(path, fmt.Errorf("unexpected status: %s", resp.Status))
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, domain.NewGatewayError(path, fmt.Errorf("failed to decode response: %w", err))
	}

	return &apiResp, nil
}
