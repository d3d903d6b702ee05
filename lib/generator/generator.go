// Package generator writes a Go file listing the routes and fragments of a
// site directory, so a binary can fix its sitemap at build time.
package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultOutput is the name of the generated file.
const DefaultOutput = "sitemap_subpage.go"

// header marks generated files; Clean only removes files starting with it.
const header = "// Code generated by subpage generate. DO NOT EDIT."

// Options configures the generator.
type Options struct {
	DryRun bool
	// Package overrides the package name of the generated file. By default
	// it is read from the Go files already in the output directory.
	Package string
	// Output is the file name. Default DefaultOutput.
	Output string
	// Log receives one line per file written or removed. Default os.Stdout.
	Log io.Writer
}

// Generator generates sitemap files.
type Generator struct {
	opts Options
	fset *token.FileSet
}

// New creates a new generator.
func New(opts Options) *Generator {
	if opts.Output == "" {
		opts.Output = DefaultOutput
	}
	if opts.Log == nil {
		opts.Log = os.Stdout
	}
	return &Generator{
		opts: opts,
		fset: token.NewFileSet(),
	}
}

// Site lists what a site directory contains.
type Site struct {
	Routes     []string
	Components []string
	Templates  []string
}

// Scan lists the routes under content/ and the fragments under
// components/ and templates/ of fsys.
func Scan(fsys fs.FS) (*Site, error) {
	var site Site
	for _, dir := range []struct {
		name string
		dst  *[]string
	}{
		{"content", &site.Routes},
		{"components", &site.Components},
		{"templates", &site.Templates},
	} {
		matches, err := doublestar.Glob(fsys, dir.name+"/**/*.html", doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir.name, err)
		}
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, strings.TrimSuffix(strings.TrimPrefix(m, dir.name+"/"), path.Ext(m)))
		}
		slices.Sort(names)
		*dir.dst = names
	}
	return &site, nil
}

// Generate scans siteDir and writes the sitemap file into pkgDir.
func (g *Generator) Generate(siteDir, pkgDir string) error {
	site, err := Scan(os.DirFS(siteDir))
	if err != nil {
		return err
	}
	if len(site.Routes) == 0 {
		return fmt.Errorf("no routes under %s", filepath.Join(siteDir, "content"))
	}

	pkgName := g.opts.Package
	if pkgName == "" {
		if pkgName, err = g.packageName(pkgDir); err != nil {
			return fmt.Errorf("package %s: %w", pkgDir, err)
		}
	}

	outputFile := filepath.Join(pkgDir, g.opts.Output)
	fmt.Fprintf(g.opts.Log, "generating %s (%d routes)\n", outputFile, len(site.Routes))
	if g.opts.DryRun {
		return nil
	}

	code, err := Render(pkgName, site)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputFile, code, 0o644)
}

// Clean removes the generated file from pkgDir.
func (g *Generator) Clean(pkgDir string) error {
	outputFile := filepath.Join(pkgDir, g.opts.Output)
	data, err := os.ReadFile(outputFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !bytes.HasPrefix(data, []byte(header)) {
		return fmt.Errorf("%s was not generated by subpage, leaving it", outputFile)
	}

	fmt.Fprintf(g.opts.Log, "removing %s\n", outputFile)
	if g.opts.DryRun {
		return nil
	}
	return os.Remove(outputFile)
}

// packageName reads the package clause of the Go files in dir, falling
// back to the directory name.
func (g *Generator) packageName(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == g.opts.Output {
			continue
		}
		file, err := parser.ParseFile(g.fset, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
		if err != nil {
			return "", err
		}
		return file.Name.Name, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return identifier(filepath.Base(abs)), nil
}

// identifier turns a directory name into a package name.
func identifier(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	id := b.String()
	if id == "" || unicode.IsDigit(rune(id[0])) {
		id = "site" + id
	}
	return id
}

// Render returns the formatted source of the sitemap file.
func Render(pkgName string, site *Site) ([]byte, error) {
	var buf bytes.Buffer
	err := sitemapTemplate.Execute(&buf, struct {
		Header  string
		Package string
		*Site
	}{header, pkgName, site})
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format source: %w", err)
	}
	return formatted, nil
}

var sitemapTemplate = template.Must(template.New("sitemap").Parse(`{{.Header}}

package {{.Package}}

// Routes lists the pages of the site, one per file under content/.
var Routes = []string{
{{- range .Routes}}
	{{printf "%q" .}},
{{- end}}
}

// Components lists the fragments under components/.
var Components = []string{
{{- range .Components}}
	{{printf "%q" .}},
{{- end}}
}

// Templates lists the fragments under templates/.
var Templates = []string{
{{- range .Templates}}
	{{printf "%q" .}},
{{- end}}
}
`))
