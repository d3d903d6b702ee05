package main

import (
	"embed"
	"flag"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/pthm/subpage"
	"github.com/pthm/subpage/example/pages"
)

//go:generate go run github.com/pthm/subpage/cmd/subpage generate -o ./pages ./site

//go:embed site
var siteFiles embed.FS

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	siteFS, err := fs.Sub(siteFiles, "site")
	if err != nil {
		log.Fatal(err)
	}

	site, err := subpage.New(siteFS,
		subpage.WithSitemap(pages.Routes...),
		subpage.WithTitle(func(route string) string { return "Subpage example | " + route }),
		subpage.WithPreload(2*time.Second),
		subpage.WithMinify(),
	)
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	handler := site.Handler()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r.WithContext(subpage.LoggingContext(r.Context(), logger)))
	})

	logger.Info("serving example", "addr", *addr, "routes", len(pages.Routes))
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatal(err)
	}
}
