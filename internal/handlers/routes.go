package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the URL shortener routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "shorten-url",
		Method:      http.MethodPost,
		Path:        "/url/shorten",
		Summary:     "Create short URL",
		Description: "Shortens a URL, optionally under a custom alias and with an expiration. " +
			"Shorten requests are rate limited per client.",
		Tags: []string{"URLs"},
	}, urlHandler.Shorten)

	// The static /url/stats prefix must not be swallowed by the code
	// parameter, so it is registered as its own route.
	huma.Register(api, huma.Operation{
		OperationID: "short-url-stats",
		Method:      http.MethodGet,
		Path:        "/url/stats/{code}",
		Summary:     "Short URL stats",
		Description: "Returns the full record for a short code: original URL, hit count, expiration, and per-visit analytics.",
		Tags:        []string{"URLs"},
	}, urlHandler.Stats)

	huma.Register(api, huma.Operation{
		OperationID: "redirect-short-url",
		Method:      http.MethodGet,
		Path:        "/url/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL and records one analytics entry for the visit.",
		Tags:        []string{"URLs"},
	}, urlHandler.Redirect)
}
