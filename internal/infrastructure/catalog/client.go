package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gowaffles/assistant/internal/domain"
	"go.uber.org/zap"
)

const (
	// defaultMaxBodyBytes caps the menu document read from the CDN
	defaultMaxBodyBytes = 10 << 20

	defaultTimeout = 5 * time.Second
	userAgent      = "GoWafflesAssistant/1.0"
)

// Client fetches the menu document from the ordering platform CDN
type Client struct {
	httpClient   *http.Client
	menuURL      string
	maxBodyBytes int64
	logger       *zap.Logger
	now          func() time.Time
}

// NewClient creates a menu client with a bounded request timeout
func NewClient(menuURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		menuURL:      menuURL,
		maxBodyBytes: defaultMaxBodyBytes,
		logger:       logger.With(zap.String("component", "catalog_client")),
		now:          time.Now,
	}
}

// FetchCatalog downloads and decodes the menu. Every failure is wrapped
// with domain.ErrCatalogFetch; no retries are attempted.
func (c *Client) FetchCatalog(ctx context.Context) (*domain.CatalogSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.menuURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrCatalogFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogFetch, err)
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, c.maxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrCatalogFetch, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogFetch, resp.StatusCode)
	}

	entries, err := DecodeMenu(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrCatalogFetch, err)
	}

	c.logger.Debug("menu fetched",
		zap.Int("products", len(entries)),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", c.now().Sub(start)))

	return domain.NewCatalogSnapshot(entries, c.now()), nil
}

// readLimitedBody reads r and fails when it holds more than limit bytes
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("menu exceeds %d bytes", limit)
	}
	return body, nil
}
