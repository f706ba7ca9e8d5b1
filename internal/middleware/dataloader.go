package middleware

import (
	"net/http"

	"github.com/rpattn/bookmarks/internal/itemloader"
	"github.com/rpattn/bookmarks/internal/repository"
)

// DataLoaderMiddleware attaches a fresh item loader to each request context
func DataLoaderMiddleware(repo repository.ItemRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loader := itemloader.NewItemLoader(repo)
			ctx := itemloader.NewContext(r.Context(), loader)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
