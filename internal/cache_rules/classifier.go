package cache_rules

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/models"
)

// Decision reasons
const (
	ReasonMethod      = "method not cacheable"
	ReasonScheme      = "unsupported scheme"
	ReasonCrossOrigin = "cross-origin"
	ReasonImage       = "image"
	ReasonPrefix      = "path prefix"
	ReasonAppShell    = "app shell"
)

// Classifier implements the RequestClassifier interface
type Classifier struct {
	logger *zap.Logger
	rules  interfaces.CacheRulesConfig
}

// Ensure Classifier implements the RequestClassifier interface
var _ interfaces.RequestClassifier = (*Classifier)(nil)

// NewClassifier creates a new Classifier instance
func NewClassifier(logger *zap.Logger, rules interfaces.CacheRulesConfig) *Classifier {
	return &Classifier{
		logger: logger,
		rules:  rules,
	}
}

// Classify implements RequestClassifier interface. The first matching check wins:
// method, scheme, origin, image destination or prefix, then path prefix rules,
// with the app shell as the fallback.
func (c *Classifier) Classify(req *http.Request) models.Decision {
	if req == nil || req.URL == nil {
		return passThrough(ReasonMethod)
	}

	if req.Method != http.MethodGet && req.Method != http.MethodHead && req.Method != "" {
		return passThrough(ReasonMethod)
	}

	scheme, origin := requestOrigin(req)
	if scheme != "http" && scheme != "https" {
		return passThrough(ReasonScheme)
	}

	if c.rules == nil {
		return passThrough(ReasonCrossOrigin)
	}

	if origin != c.rules.Origin() {
		if c.logger != nil {
			c.logger.Debug("Skipping cross-origin request", zap.String("origin", origin))
		}
		return passThrough(ReasonCrossOrigin)
	}

	if c.rules.IsImageDestination(req.Header.Get("Sec-Fetch-Dest")) {
		return intercept(models.RoleImages, ReasonImage)
	}

	if role, ok := c.rules.RoleForPath(req.URL.Path); ok {
		return intercept(role, ReasonPrefix)
	}

	return intercept(models.RoleAppShell, ReasonAppShell)
}

func passThrough(reason string) models.Decision {
	return models.Decision{
		Intercept: false,
		Strategy:  models.StrategyPassThrough,
		Reason:    reason,
	}
}

func intercept(role models.Role, reason string) models.Decision {
	return models.Decision{
		Intercept: true,
		Strategy:  models.StrategyFor(role),
		Role:      role,
		Reason:    reason,
	}
}

// requestOrigin returns the scheme and serialized origin a request was addressed to.
// Absolute-form targets carry their own origin; origin-form server requests are
// resolved against the Host header.
func requestOrigin(req *http.Request) (string, string) {
	if req.URL.IsAbs() {
		return strings.ToLower(req.URL.Scheme), OriginOf(req.URL)
	}

	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	if fwd := req.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = strings.ToLower(fwd)
	}

	host := req.Host
	if host == "" {
		host = req.URL.Host
	}

	return scheme, OriginOf(&url.URL{Scheme: scheme, Host: host})
}
