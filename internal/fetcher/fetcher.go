package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"go-storefront-proxy/internal/cache_rules"
	"go-storefront-proxy/internal/config"
	"go-storefront-proxy/internal/interfaces"
)

// Ensure HTTPFetcher implements interfaces.Fetcher
var _ interfaces.Fetcher = (*HTTPFetcher)(nil)

// Hop-by-hop headers are meaningful only for a single connection and are
// never forwarded upstream.
var hopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// ErrForeignOrigin is returned for absolute-form requests naming a host other
// than the public origin. Only the origin's own upstreams are ever fetched.
var ErrForeignOrigin = errors.New("request targets a foreign origin")

type route struct {
	prefix string
	target *url.URL
}

// HTTPFetcher forwards requests for the public origin to the configured upstreams.
type HTTPFetcher struct {
	client        *http.Client
	origin        string
	routes        []route // longest prefix first
	defaultTarget *url.URL
	logger        *zap.Logger
}

// NewHTTPFetcher creates a fetcher for the given public origin
func NewHTTPFetcher(cfg *config.UpstreamConfig, origin string, logger *zap.Logger) (*HTTPFetcher, error) {
	defaultTarget, err := url.Parse(cfg.Default)
	if err != nil {
		return nil, fmt.Errorf("invalid default upstream: %w", err)
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin: %w", err)
	}

	routes := make([]route, 0, len(cfg.Routes))
	for _, r := range cfg.Routes {
		target, err := url.Parse(r.Target)
		if err != nil {
			return nil, fmt.Errorf("invalid upstream for %s: %w", r.Prefix, err)
		}
		routes = append(routes, route{prefix: r.Prefix, target: target})
	}
	sort.SliceStable(routes, func(i, j int) bool {
		return len(routes[i].prefix) > len(routes[j].prefix)
	})

	client := &http.Client{
		Timeout: cfg.Timeout,
		// Redirects belong to the page, not to the worker
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	logger.Info("Upstream fetcher configured",
		zap.String("default", defaultTarget.String()),
		zap.Int("routes", len(routes)),
		zap.Duration("timeout", cfg.Timeout))

	return &HTTPFetcher{
		client:        client,
		origin:        cache_rules.OriginOf(originURL),
		routes:        routes,
		defaultTarget: defaultTarget,
		logger:        logger,
	}, nil
}

// Fetch performs the live request
func (f *HTTPFetcher) Fetch(ctx context.Context, req *http.Request) (*http.Response, error) {
	target, err := f.Resolve(req.URL)
	if err != nil {
		return nil, err
	}

	out, err := http.NewRequestWithContext(ctx, req.Method, target.String(), req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	out.ContentLength = req.ContentLength
	out.Header = req.Header.Clone()
	for _, h := range hopHeaders {
		out.Header.Del(h)
	}
	if req.Host != "" {
		out.Header.Set("X-Forwarded-Host", req.Host)
	}
	if clientIP, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
		out.Header.Set("X-Forwarded-For", clientIP)
	}

	resp, err := f.client.Do(out)
	if err != nil {
		f.logger.Debug("Upstream fetch failed", zap.String("url", target.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch %s: %w", target.Redacted(), err)
	}

	for _, h := range hopHeaders {
		resp.Header.Del(h)
	}
	return resp, nil
}

// Resolve maps the URL a page asked for to the URL actually fetched
func (f *HTTPFetcher) Resolve(u *url.URL) (*url.URL, error) {
	if u.IsAbs() && cache_rules.OriginOf(u) != f.origin {
		return nil, fmt.Errorf("%w: %s", ErrForeignOrigin, cache_rules.OriginOf(u))
	}

	target := f.defaultTarget
	for _, r := range f.routes {
		if strings.HasPrefix(u.Path, r.prefix) {
			target = r.target
			break
		}
	}

	return &url.URL{
		Scheme:   target.Scheme,
		User:     target.User,
		Host:     target.Host,
		Path:     joinPath(target.Path, u.Path),
		RawQuery: u.RawQuery,
	}, nil
}

func joinPath(base, path string) string {
	base = strings.TrimSuffix(base, "/")
	if path == "" {
		path = "/"
	}
	return base + path
}
