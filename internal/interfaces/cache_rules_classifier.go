package interfaces

import (
	"net/http"

	"go-storefront-proxy/internal/models"
)

//go:generate mockgen -package=mock -source=cache_rules_classifier.go -destination=mock/cache_rules_classifier.go

// RequestClassifier maps an intercepted request to a caching strategy and bucket role
type RequestClassifier interface {
	// Classify must be pure: the same request always yields the same decision
	Classify(req *http.Request) models.Decision
}
