package upstream

import (
	"clanwatch/internal/models"
	"clanwatch/internal/providers"
	"clanwatch/internal/structures"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

const maxResponseBodySize = 8 << 20 // 8 MB

type ClientInterface interface {
	FetchWithCache(ctx context.Context, cacheKey, rawURL string) ([]byte, error)
	GetClan(ctx context.Context, tag string) (*models.Clan, error)
	GetPlayer(ctx context.Context, tag string) (*models.Player, error)
	GetWar(ctx context.Context, clanTag string) (*models.War, error)
	GetWarLog(ctx context.Context, clanTag string) (*models.WarLog, error)
	GetCurrentWarLeagueGroup(ctx context.Context, clanTag string) (*models.LeagueGroup, error)
	GetCapitalRaidSeasons(ctx context.Context, clanTag string) (*models.CapitalRaidSeasons, error)
	GetClanGamesSeasons(ctx context.Context, clanTag string) (*models.ClanGamesSeasons, error)
}

// Client is a read-through cache in front of the game API. Cache hits never
// reach the upstream, and concurrent misses on one key share a single request.
type Client struct {
	baseURL       string
	token         string
	ttl           int
	clanGamesPath string
	httpClient    *http.Client
	cache         providers.CacheProviderInterface
	logger        providers.Logger
	metrics       providers.MetricsProviderInterface
	flight        singleflight.Group
}

func NewClient(conf *structures.Config, cache providers.CacheProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) ClientInterface {
	return &Client{
		baseURL:       strings.TrimRight(conf.Upstream.BaseURL, "/"),
		token:         conf.Upstream.Token,
		ttl:           conf.Cache.TTL,
		clanGamesPath: conf.Upstream.ClanGamesPath,
		httpClient:    &http.Client{Timeout: conf.Upstream.Timeout},
		cache:         cache,
		logger:        logger,
		metrics:       metrics,
	}
}

func endpointOf(cacheKey string) string {
	if i := strings.IndexByte(cacheKey, ':'); i > 0 {
		return cacheKey[:i]
	}
	return cacheKey
}

func (c *Client) FetchWithCache(ctx context.Context, cacheKey, rawURL string) ([]byte, error) {
	if data, ok := c.cache.Get(ctx, cacheKey); ok {
		return data, nil
	}

	// The shared fetch outlives any single caller; each caller only stops waiting on its own ctx.
	ch := c.flight.DoChan(cacheKey, func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)
		body, err := c.fetch(fetchCtx, rawURL)
		c.metrics.IncUpstreamRequests(endpointOf(cacheKey), Outcome(err))
		if err != nil {
			return nil, err
		}
		c.cache.Set(fetchCtx, cacheKey, body, c.ttl)
		return body, nil
	})

	select {
	case <-ctx.Done():
		c.logger.Debugf(providers.TypeUpstream, "GET %s abandoned by caller: %s", rawURL, ctx.Err())
		return nil, classifyTransportError(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			c.logger.Warnf(providers.TypeUpstream, "GET %s failed: %s", rawURL, res.Err)
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debugf(providers.TypeUpstream, "GET %s coalesced", rawURL)
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: ErrUpstreamError, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, classifyTransportError(err)
	}
	c.logger.Debugf(providers.TypeUpstream, "GET %s -> %d in %s", rawURL, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		upErr := &Error{Kind: kindForStatus(resp.StatusCode), Status: resp.StatusCode}
		var payload struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			upErr.Reason = payload.Reason
			upErr.Message = payload.Message
		}
		return nil, upErr
	}

	if !json.Valid(body) {
		return nil, &Error{Kind: ErrUpstreamError, Status: resp.StatusCode, Message: "response is not valid JSON"}
	}
	return body, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: ErrUpstreamTimeout, Message: err.Error()}
	}
	return &Error{Kind: ErrUpstreamUnavailable, Message: err.Error()}
}

func (c *Client) resourceURL(format, tag string) string {
	return c.baseURL + fmt.Sprintf(format, url.PathEscape(tag))
}

func getJSON[T any](ctx context.Context, c *Client, keyPrefix, pathFormat, rawTag string) (*T, error) {
	tag, err := NormalizeTag(rawTag)
	if err != nil {
		return nil, err
	}
	body, err := c.FetchWithCache(ctx, keyPrefix+":"+tag, c.resourceURL(pathFormat, tag))
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &Error{Kind: ErrUpstreamError, Message: fmt.Sprintf("decode %s: %s", keyPrefix, err)}
	}
	return &out, nil
}

func (c *Client) GetClan(ctx context.Context, tag string) (*models.Clan, error) {
	return getJSON[models.Clan](ctx, c, "clan", "/clans/%s", tag)
}

func (c *Client) GetPlayer(ctx context.Context, tag string) (*models.Player, error) {
	return getJSON[models.Player](ctx, c, "player", "/players/%s", tag)
}

func (c *Client) GetWar(ctx context.Context, clanTag string) (*models.War, error) {
	return getJSON[models.War](ctx, c, "war", "/clans/%s/currentwar", clanTag)
}

func (c *Client) GetWarLog(ctx context.Context, clanTag string) (*models.WarLog, error) {
	return getJSON[models.WarLog](ctx, c, "warlog", "/clans/%s/warlog", clanTag)
}

func (c *Client) GetCurrentWarLeagueGroup(ctx context.Context, clanTag string) (*models.LeagueGroup, error) {
	return getJSON[models.LeagueGroup](ctx, c, "leaguegroup", "/clans/%s/currentwar/leaguegroup", clanTag)
}

func (c *Client) GetCapitalRaidSeasons(ctx context.Context, clanTag string) (*models.CapitalRaidSeasons, error) {
	return getJSON[models.CapitalRaidSeasons](ctx, c, "raids", "/clans/%s/capitalraidseasons", clanTag)
}

func (c *Client) GetClanGamesSeasons(ctx context.Context, clanTag string) (*models.ClanGamesSeasons, error) {
	path := c.clanGamesPath
	if path == "" {
		path = "/clans/%s/clangames"
	}
	return getJSON[models.ClanGamesSeasons](ctx, c, "clangames", path, clanTag)
}
