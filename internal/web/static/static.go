package static

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

// Prefix is the URL path static files are served under.
const Prefix = "/static/"

//go:embed assets
var assets embed.FS

// Resolver maps asset names to public URLs. With an empty BaseURL assets are
// served by this process; otherwise they are expected under BaseURL (a CDN or
// bucket mirroring the same layout).
type Resolver struct {
	BaseURL string
}

func (r Resolver) URL(name string) string {
	name = strings.TrimLeft(name, "/")
	if r.BaseURL != "" {
		return strings.TrimRight(r.BaseURL, "/") + "/" + name
	}
	return Prefix + name
}

// Handler serves the embedded assets; mount it at Prefix.
func Handler() http.Handler {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	fileServer := http.StripPrefix(Prefix, http.FileServerFS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(w, r)
	})
}
