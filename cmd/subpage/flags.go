package main

import (
	"flag"
	"os"
	"strings"

	"github.com/pthm/subpage"
)

// siteFlags registers the flags shared by serve and render.
func siteFlags(fs *flag.FlagSet, cfg *subpage.Config) {
	fs.StringVar(&cfg.Shell, "shell", "", "shell document")
	fs.StringVar(&cfg.MountID, "mount", "", "mount element id")
	fs.StringVar(&cfg.Home, "home", "", "home route")
	fs.StringVar(&cfg.Fallback, "fallback", "", "fallback route")
	fs.StringVar(&cfg.TitleFormat, "title", "", "document title format")
	fs.StringVar(&cfg.StateKey, "state-key", "", "history state signing key")
	fs.IntVar(&cfg.MaxDepth, "max-depth", 0, "fragment nesting limit")
	fs.BoolVar(&cfg.Minify, "minify", false, "minify fragments")
	fs.Func("lang", "comma separated languages", func(s string) error {
		for _, l := range strings.Split(s, ",") {
			if l = strings.TrimSpace(l); l != "" {
				cfg.Languages = append(cfg.Languages, l)
			}
		}
		return nil
	})
}

// siteDir returns the site directory argument, default ".".
func siteDir(fs *flag.FlagSet, index int) string {
	if dir := fs.Arg(index); dir != "" {
		return dir
	}
	return "."
}

// envDefault returns the environment value of key, or def.
func envDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
