package subpage

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SitemapFromFS lists the routes stored under dir: every .html file below
// it, without the extension. A missing dir yields an empty sitemap.
func SitemapFromFS(fsys fs.FS, dir string) ([]string, error) {
	dir = strings.Trim(dir, "/")
	matches, err := doublestar.Glob(fsys, dir+"/**/*.html", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("subpage: sitemap of %s: %w", dir, err)
	}
	routes := make([]string, 0, len(matches))
	for _, m := range matches {
		route := strings.TrimSuffix(strings.TrimPrefix(m, dir+"/"), path.Ext(m))
		routes = append(routes, route)
	}
	slices.Sort(routes)
	return routes, nil
}
