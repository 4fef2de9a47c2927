package strategy

import (
	"net/http"

	"go-storefront-proxy/internal/models"
	"go-storefront-proxy/internal/utils"
)

// ImagePlaceholder is served when an image is neither reachable nor stored
const ImagePlaceholder = `<svg xmlns="http://www.w3.org/2000/svg" width="300" height="300">
  <rect width="300" height="300" fill="#f1f3f5"/>
  <text x="150" y="150" text-anchor="middle" font-size="14" fill="#868e96">Image indisponible</text>
</svg>`

// APIOfflineBody is served when the API is neither reachable nor stored
const APIOfflineBody = `{"success":false,"offline":true,"message":"API indisponible (offline)"}`

// ShellOfflineBody is served when a page is neither stored nor reachable
const ShellOfflineBody = "Service indisponible (offline)"

func imagePlaceholder() *models.CacheEntry {
	return utils.SynthesizedEntry(http.StatusOK, "image/svg+xml", []byte(ImagePlaceholder))
}

func apiOffline() *models.CacheEntry {
	return utils.SynthesizedEntry(http.StatusServiceUnavailable, "application/json", []byte(APIOfflineBody))
}

func offlineShell() *models.CacheEntry {
	return utils.SynthesizedEntry(http.StatusServiceUnavailable, "text/plain; charset=utf-8", []byte(ShellOfflineBody))
}
