package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/dietplan/backend/internal/models"
)

// RemoteSource queries the remote nutrition API
type RemoteSource struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewRemoteSource creates a RemoteSource. Requests are bounded by timeout.
func NewRemoteSource(baseURL string, timeout time.Duration, log *zap.Logger) *RemoteSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (s *RemoteSource) Source() models.Source { return models.SourceRemote }

// Fetch keeps the foods whose name contains the term, with names starting
// with the term first.
func (s *RemoteSource) Fetch(ctx context.Context, term string, limit int) ([]models.FoodItem, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid nutrition API url: %w", err)
	}
	q := u.Query()
	q.Set("action", "search")
	q.Set("query", term)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var body FDCSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}

	s.log.Debug("[RemoteSource] response received",
		zap.String("term", term),
		zap.Int("foods", len(body.Foods)),
		zap.Int("skipped", body.Skipped),
	)

	items := make([]models.FoodItem, 0, len(body.Foods))
	for i := range body.Foods {
		if !strings.Contains(strings.ToLower(body.Foods[i].Description), term) {
			continue
		}
		items = append(items, body.Foods[i].ToFoodItem())
	}

	sort.SliceStable(items, func(i, j int) bool {
		return strings.HasPrefix(strings.ToLower(items[i].Name), term) &&
			!strings.HasPrefix(strings.ToLower(items[j].Name), term)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
