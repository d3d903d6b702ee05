package subpage

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Config is the flat form of a Site's options, as read from command-line
// flags. Zero fields keep the defaults.
type Config struct {
	// Dir is the site directory: the shell plus components/, templates/
	// and content/.
	Dir       string
	Shell     string
	MountID   string
	Home      string
	Fallback  string
	Languages []string
	// Sitemap fixes the routes instead of discovering them.
	Sitemap  []string
	StateKey string
	MaxDepth int
	Minify   bool

	// Preload is the delay before sessions warm the page cache. Zero
	// disables preloading.
	Preload time.Duration
	// PreloadRate caps preload fetches per second. Zero is unlimited.
	PreloadRate float64

	// TitleFormat is a fmt format with one %s verb for the route.
	TitleFormat string
}

// Options converts c to Site options.
func (c Config) Options() ([]Option, error) {
	var opts []Option
	if c.Shell != "" {
		opts = append(opts, WithShell(c.Shell))
	}
	if c.MountID != "" {
		opts = append(opts, WithMountID(c.MountID))
	}
	if c.Home != "" || c.Fallback != "" {
		home, fallback := c.Home, c.Fallback
		if home == "" {
			home = "home"
		}
		if fallback == "" {
			fallback = "404"
		}
		opts = append(opts, WithRoutes(home, fallback))
	}
	if len(c.Languages) > 0 {
		tags := make([]language.Tag, 0, len(c.Languages))
		for _, l := range c.Languages {
			tag, err := language.Parse(strings.TrimSpace(l))
			if err != nil {
				return nil, fmt.Errorf("subpage: language %q: %w", l, err)
			}
			tags = append(tags, tag)
		}
		opts = append(opts, WithLanguages(tags...))
	}
	if len(c.Sitemap) > 0 {
		opts = append(opts, WithSitemap(c.Sitemap...))
	}
	if c.StateKey != "" {
		opts = append(opts, WithStateKey([]byte(c.StateKey)))
	}
	if c.MaxDepth > 0 {
		opts = append(opts, WithMaxDepth(c.MaxDepth))
	}
	if c.Minify {
		opts = append(opts, WithMinify())
	}
	if c.Preload > 0 {
		opts = append(opts, WithPreload(c.Preload))
	}
	if c.PreloadRate > 0 {
		opts = append(opts, WithPreloadRate(c.PreloadRate))
	}
	if c.TitleFormat != "" {
		format := c.TitleFormat
		opts = append(opts, WithTitle(func(route string) string {
			return fmt.Sprintf(format, route)
		}))
	}
	return opts, nil
}

// Open returns the Site stored in c.Dir.
func Open(c Config) (*Site, error) {
	if c.Dir == "" {
		c.Dir = "."
	}
	info, err := os.Stat(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("subpage: open site: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("subpage: open site: %s is not a directory", c.Dir)
	}
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return New(os.DirFS(c.Dir), opts...)
}
