// Package pages holds the sitemap generated from the example site.
package pages
