package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nikolayk812/cartstore-demo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

var ErrNotFound = errors.New("not found")

type Options struct {
	BaseURL string
	// Timeout bounds a single HTTP exchange. Zero means no timeout.
	Timeout time.Duration
	// Currency of the prices served by the catalog.
	Currency currency.Unit
	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32
	// BreakerCooldown is how long the breaker stays open.
	BreakerCooldown time.Duration

	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the catalog/inventory HTTP API.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[[]byte]
	currency currency.Unit
	logger   *zap.Logger
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is empty")
	}

	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	unit := opts.Currency
	if unit == (currency.Unit{}) {
		unit = domain.DefaultCurrency
	}

	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	cooldown := opts.BreakerCooldown
	if cooldown == 0 {
		cooldown = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "inventory",
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})

	return &Client{
		baseURL:  baseURL,
		http:     httpClient,
		breaker:  breaker,
		currency: unit,
		logger:   logger,
	}, nil
}

type productJSON struct {
	ID    int64       `json:"id"`
	Title string      `json:"title"`
	Price json.Number `json:"price"`
	Image string      `json:"image"`
}

type stockJSON struct {
	Amount int `json:"amount"`
}

type updateStockJSON struct {
	Amount int `json:"amount"`
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	data, err := c.do(ctx, http.MethodGet, nil, "products")
	if err != nil {
		return nil, fmt.Errorf("c.do: %w", err)
	}

	var rows []productJSON
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		product, err := c.mapProductToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapProductToDomain: %w", err)
		}

		products = append(products, product)
	}

	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	data, err := c.do(ctx, http.MethodGet, nil, "products", strconv.FormatInt(productID, 10))
	if err != nil {
		return domain.Product{}, fmt.Errorf("c.do: %w", err)
	}

	var row productJSON
	if err := json.Unmarshal(data, &row); err != nil {
		return domain.Product{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	// json-server answers an unknown id inside a collection with an empty object
	if row.ID == 0 {
		return domain.Product{}, fmt.Errorf("product[%d]: %w", productID, ErrNotFound)
	}

	product, err := c.mapProductToDomain(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapProductToDomain: %w", err)
	}

	return product, nil
}

func (c *Client) GetStock(ctx context.Context, productID int64) (domain.StockRecord, error) {
	data, err := c.do(ctx, http.MethodGet, nil, "stock", strconv.FormatInt(productID, 10))
	if err != nil {
		return domain.StockRecord{}, fmt.Errorf("c.do: %w", err)
	}

	return decodeStock(data, productID)
}

func (c *Client) UpdateStock(ctx context.Context, productID int64, amount int) (domain.StockRecord, error) {
	data, err := c.do(ctx, http.MethodPatch, updateStockJSON{Amount: amount}, "stock", strconv.FormatInt(productID, 10))
	if err != nil {
		return domain.StockRecord{}, fmt.Errorf("c.do: %w", err)
	}

	return decodeStock(data, productID)
}

func (c *Client) do(ctx context.Context, method string, in any, elem ...string) ([]byte, error) {
	endpoint := c.baseURL.JoinPath(elem...).String()

	return c.breaker.Execute(func() ([]byte, error) {
		var body io.Reader
		if in != nil {
			payload, err := json.Marshal(in)
			if err != nil {
				return nil, fmt.Errorf("json.Marshal: %w", err)
			}
			body = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("http.Do: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("io.ReadAll: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%s %s: %w", method, endpoint, ErrNotFound)
		case resp.StatusCode >= http.StatusMultipleChoices:
			return nil, fmt.Errorf("%s %s: unexpected status %d", method, endpoint, resp.StatusCode)
		}

		c.logger.Debug("inventory call",
			zap.String("method", method),
			zap.String("url", endpoint),
			zap.Int("status", resp.StatusCode))

		return data, nil
	})
}

func (c *Client) mapProductToDomain(row productJSON) (domain.Product, error) {
	price, err := decimal.NewFromString(row.Price.String())
	if err != nil {
		return domain.Product{}, fmt.Errorf("price[%s] is not valid: %w", row.Price, err)
	}

	return domain.Product{
		ID:    row.ID,
		Title: row.Title,
		Price: domain.Money{Amount: price, Currency: c.currency},
		Image: row.Image,
	}, nil
}

func decodeStock(data []byte, productID int64) (domain.StockRecord, error) {
	var row stockJSON
	if err := json.Unmarshal(data, &row); err != nil {
		return domain.StockRecord{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return domain.StockRecord{
		ProductID: productID,
		Amount:    row.Amount,
	}, nil
}
