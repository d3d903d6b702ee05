package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pthm/subpage"
	"github.com/pthm/subpage/lib/generator"
)

func runRender(args []string) error {
	var (
		cfg      subpage.Config
		fragment bool
		accept   string
	)
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	siteFlags(fs, &cfg)
	fs.BoolVar(&fragment, "fragment", false, "print the mount content only")
	fs.StringVar(&accept, "accept-language", "", "Accept-Language of the request")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("render: missing URL path")
	}
	cfg.Dir = siteDir(fs, 1)

	site, err := subpage.Open(cfg)
	if err != nil {
		return err
	}
	return render(context.Background(), os.Stdout, site, subpage.Request{
		Path:           fs.Arg(0),
		AcceptLanguage: accept,
	}, fragment)
}

func render(ctx context.Context, w io.Writer, site *subpage.Site, req subpage.Request, fragment bool) error {
	sess, err := site.NewSession(ctx, req)
	if err != nil {
		return err
	}
	if sess.Route() == "" {
		return fmt.Errorf("render %s: no page could be shown", req.Path)
	}
	if !fragment {
		return sess.Render(w)
	}
	html, err := sess.MountHTML()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, html)
	return err
}

func runSitemap(args []string) error {
	fs := flag.NewFlagSet("sitemap", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	site, err := generator.Scan(os.DirFS(siteDir(fs, 0)))
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(site.Routes, "\n"))
	return nil
}

func runGenerate(args []string) error {
	var opts generator.Options
	var out string
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.BoolVar(&opts.DryRun, "dry-run", false, "show what would be generated")
	fs.StringVar(&opts.Package, "package", "", "package name")
	fs.StringVar(&out, "o", ".", "output package directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return generator.New(opts).Generate(siteDir(fs, 0), out)
}

func runClean(args []string) error {
	var opts generator.Options
	var out string
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	fs.BoolVar(&opts.DryRun, "dry-run", false, "show what would be removed")
	fs.StringVar(&out, "o", ".", "output package directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return generator.New(opts).Clean(out)
}
