package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gatewayerrors "retailpos/internal/gateway"
	"retailpos/internal/models"
	"retailpos/pkg/lib/logger/sl"

	"github.com/google/uuid"
)

const maxErrorBody = 64 << 10

type TokenSource interface {
	Token() string
}

// Client is the till's only route to the retail API.
type Client struct {
	log     *slog.Logger
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// New returns a client for baseURL. A zero timeout leaves requests bounded
// only by the caller's context.
func New(log *slog.Logger, baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	return NewWithParams(log, baseURL, tokens, &http.Client{Timeout: timeout})
}

func NewWithParams(log *slog.Logger, baseURL string, tokens TokenSource, httpClient *http.Client) *Client {
	return &Client{
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    httpClient,
	}
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.LoginResult, error) {
	const op = "gateway.httpapi.Login"

	var res models.LoginResult
	if err := c.do(ctx, op, http.MethodPost, "/auth/login", nil, creds, &res, false); err != nil {
		return models.LoginResult{}, err
	}
	return res, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	const op = "gateway.httpapi.ListProducts"

	products := make([]models.Product, 0)
	if err := c.do(ctx, op, http.MethodGet, "/products", nil, nil, &products, true); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct posts the product fields; NewCategory is not part of the wire body.
func (c *Client) CreateProduct(ctx context.Context, input models.ProductInput) (models.Product, error) {
	const op = "gateway.httpapi.CreateProduct"

	body := models.Product{
		Name:     input.Name,
		Price:    input.Price,
		Stock:    input.Stock,
		Category: input.Category,
	}

	var created models.Product
	if err := c.do(ctx, op, http.MethodPost, "/products", nil, productBody(body), &created, true); err != nil {
		return models.Product{}, err
	}
	return created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	const op = "gateway.httpapi.UpdateProduct"

	var updated models.Product
	if err := c.do(ctx, op, http.MethodPut, "/products/"+url.PathEscape(id), nil, patch, &updated, true); err != nil {
		return models.Product{}, err
	}
	return updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	const op = "gateway.httpapi.DeleteProduct"
	return c.do(ctx, op, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil, nil, true)
}

func (c *Client) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	const op = "gateway.httpapi.CreateCategory"

	var created models.Category
	if err := c.do(ctx, op, http.MethodPost, "/categories", nil, models.Category{Name: name}, &created, true); err != nil {
		return models.Category{}, err
	}
	return created, nil
}

func (c *Client) ListOrders(ctx context.Context, staffName string) ([]models.Order, error) {
	const op = "gateway.httpapi.ListOrders"

	var query url.Values
	if staffName != "" {
		query = url.Values{"user": []string{staffName}}
	}

	orders := make([]models.Order, 0)
	if err := c.do(ctx, op, http.MethodGet, "/orders", query, nil, &orders, true); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.Order, error) {
	const op = "gateway.httpapi.PlaceOrder"

	var placed models.Order
	if err := c.do(ctx, op, http.MethodPost, "/orders", nil, req, &placed, true); err != nil {
		return models.Order{}, err
	}
	return placed, nil
}

func (c *Client) do(
	ctx context.Context,
	op, method, path string,
	query url.Values,
	in, out interface{},
	authenticated bool,
) error {
	requestID := uuid.NewString()
	log := c.log.With(
		"op", op,
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
	)

	select {
	case <-ctx.Done():
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			log.Error("Failed to encode request body", sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		log.Error("Failed to build request", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Warn("Request abandoned", sl.Err(err))
			return fmt.Errorf("%s: %w", op, ctxErr)
		}
		log.Error("Retail API unreachable", sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, gatewayerrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	log = log.With(slog.Int("status", resp.StatusCode), slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		log.Warn("Retail API rejected request", sl.Err(apiErr))
		return fmt.Errorf("%s: %w", op, apiErr)
	}

	log.Debug("Retail API answered")

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		log.Error("Failed to decode response body", sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, gatewayerrors.ErrTransport, err)
	}

	return nil
}

// decodeError reads {"message": "..."} or {"error": "..."} from a failed
// response; any other body leaves Message empty.
func decodeError(resp *http.Response) *gatewayerrors.APIError {
	apiErr := &gatewayerrors.APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return apiErr
	}

	apiErr.Message = payload.Message
	if apiErr.Message == "" {
		apiErr.Message = payload.Error
	}
	return apiErr
}

// productBody drops the empty _id so the server assigns one.
func productBody(p models.Product) map[string]interface{} {
	body := map[string]interface{}{
		"name":  p.Name,
		"price": p.Price,
		"stock": p.Stock,
	}
	if p.Category != "" {
		body["category"] = p.Category
	}
	return body
}
