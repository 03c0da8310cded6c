package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/dietplan/backend/internal/cache"
)

const usdaPageSize = 25

// NutritionProxy relays nutrition searches to USDA FoodData Central and
// caches the responses by query.
type NutritionProxy struct {
	apiURL string
	apiKey string
	client *http.Client
	cache  cache.Store
	log    *zap.Logger
}

// NewNutritionProxy creates a new NutritionProxy instance
func NewNutritionProxy(apiURL, apiKey string, timeout time.Duration, store cache.Store, log *zap.Logger) *NutritionProxy {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NutritionProxy{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
		cache:  store,
		log:    log,
	}
}

// Search returns the {"foods": [...]} body for query. Only the "search" action is supported.
func (p *NutritionProxy) Search(ctx context.Context, action, query string) ([]byte, error) {
	if action != "search" {
		return nil, ErrInvalidAction
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrMissingQuery
	}

	if p.cache != nil {
		body, ok, err := p.cache.Get(ctx, query)
		if err != nil {
			p.log.Warn("[NutritionProxy] cache read failed", zap.Error(err))
		} else if ok {
			p.log.Debug("[NutritionProxy] cache hit", zap.String("query", query))
			return body, nil
		}
	}

	foods, err := p.fetch(ctx, query)
	if err != nil {
		p.log.Error("[NutritionProxy] upstream request failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil, err
	}

	body, err := json.Marshal(foods)
	if err != nil {
		return nil, fmt.Errorf("failed to encode nutrition response: %w", err)
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, query, body); err != nil {
			p.log.Warn("[NutritionProxy] cache write failed", zap.Error(err))
		}
	}
	return body, nil
}

func (p *NutritionProxy) fetch(ctx context.Context, query string) (*FDCSearchResponse, error) {
	u, err := url.Parse(p.apiURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url: %v", ErrUpstream, err)
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("pageSize", strconv.Itoa(usdaPageSize))
	if p.apiKey != "" {
		q.Set("api_key", p.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var out FDCSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	if out.Foods == nil {
		out.Foods = []FDCFood{}
	}
	return &out, nil
}
