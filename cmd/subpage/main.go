package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "serve":
		err = runServe(args)
	case "render":
		err = runRender(args)
	case "sitemap":
		err = runSitemap(args)
	case "generate":
		err = runGenerate(args)
	case "clean":
		err = runClean(args)
	case "version":
		fmt.Printf("subpage version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`subpage - HTML fragment sites

Usage:
  subpage <command> [flags] [site dir]

Commands:
  serve [dir]           Serve the site (default dir ".")
  render <path> [dir]   Print the page a URL path shows
  sitemap [dir]         List the routes of the site
  generate [dir]        Write a Go file listing routes and fragments
  clean                 Remove the generated Go file
  version               Print version
  help                  Show this help

Site flags (serve, render):
  -shell name           Shell document (default index.html)
  -mount id             Mount element id (default subpage)
  -home route           Home route (default home)
  -fallback route       Fallback route (default 404)
  -lang en,de           Serve language-prefixed routes
  -title format         Document title, %s is the route
  -state-key key        Sign history state (env SUBPAGE_STATE_KEY)
  -max-depth n          Fragment nesting limit
  -minify               Minify fragments

Serve flags:
  -addr addr            Listen address (default :8080, env SUBPAGE_ADDR)
  -env file             Load environment from file (default .env)
  -watch                Reset caches when site files change
  -preload delay        Warm the page cache after delay (e.g. 2s)
  -preload-rate n       Preload at most n pages per second
  -v                    Debug logging

Render flags:
  -fragment             Print the mount content only
  -accept-language v    Accept-Language of the request

Generate flags:
  -o dir                Output package directory (default .)
  -package name         Package name of the generated file
  -dry-run              Show what would be generated

Examples:
  subpage serve -watch ./site
  subpage render -fragment /about ./site
  subpage generate -o ./internal/pages ./site`)
}
