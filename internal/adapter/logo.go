package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/amishk599/crewboard/internal/model"
)

// maxLogoLookups bounds concurrent logo requests per ResolveLogos call.
const maxLogoLookups = 8

// logoResponse is the client-logo endpoint payload.
type logoResponse struct {
	Logo string `json:"logo"`
}

// LogoAdapter looks up client logos from the site's client-logo endpoint.
type LogoAdapter struct {
	endpoint string
	client   *http.Client
}

// NewLogoAdapter creates a logo adapter for endpoint, e.g.
// "https://jobs.example.com/api/client-logo".
func NewLogoAdapter(endpoint string, client *http.Client) *LogoAdapter {
	return &LogoAdapter{endpoint: endpoint, client: client}
}

// FetchLogo returns the logo URL of clientID, which may be empty.
func (a *LogoAdapter) FetchLogo(ctx context.Context, clientID int) (string, error) {
	u, err := url.Parse(a.endpoint)
	if err != nil {
		return "", fmt.Errorf("logo fetch for client %d: %w", clientID, err)
	}
	q := u.Query()
	q.Set("clientId", strconv.Itoa(clientID))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("logo fetch for client %d: %w", clientID, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("logo fetch for client %d: %w", clientID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("logo fetch for client %d: %w", clientID, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		})
	}

	var lr logoResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", fmt.Errorf("logo fetch for client %d: decode: %w", clientID, err)
	}
	return lr.Logo, nil
}

// ResolveLogos looks up the logo of every client concurrently. A failed
// lookup is logged and maps to "" without affecting the others, so the
// returned map always has one entry per distinct client ID.
func ResolveLogos(ctx context.Context, fetcher model.LogoFetcher, clientIDs []int, logger *slog.Logger) map[int]string {
	logos := make(map[int]string, len(clientIDs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLogoLookups)

	seen := make(map[int]bool, len(clientIDs))
	for _, id := range clientIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		g.Go(func() error {
			logo, err := fetcher.FetchLogo(gctx, id)
			if err != nil {
				logger.Warn("logo lookup failed", "client_id", id, "error", err)
				logo = ""
			}
			mu.Lock()
			logos[id] = logo
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return logos
}

// ClientIDs returns the distinct client IDs of jobs in first-seen order.
func ClientIDs(jobs []model.Job) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, j := range jobs {
		if !seen[j.ClientID] {
			seen[j.ClientID] = true
			ids = append(ids, j.ClientID)
		}
	}
	return ids
}
