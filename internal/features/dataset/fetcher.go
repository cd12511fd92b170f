package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-analytics/internal/config"

	"github.com/gofiber/fiber/v2"
)

// Fetcher is the bulk query service boundary.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (Dataset, error)
}

type HTTPFetcher struct {
	url     string
	token   string
	timeout time.Duration
}

func NewHTTPFetcher(cfg *config.Config) Fetcher {
	return &HTTPFetcher{
		url:     cfg.DatasetServiceURL,
		token:   cfg.DatasetServiceToken,
		timeout: cfg.DatasetTimeout,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.url == "" {
		return nil, errors.New("dataset service url is not configured")
	}

	agent := fiber.Post(f.url)
	agent.Timeout(f.timeout)
	if f.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+f.token)
	}
	agent.JSON(req)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("dataset request failed: %w", errors.Join(errs...))
	}
	if code >= fiber.StatusBadRequest {
		return nil, fmt.Errorf("dataset service responded with status %d", code)
	}

	var ds Dataset
	if err := json.Unmarshal(body, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}
