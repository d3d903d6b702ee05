package subpage_test

import (
	"context"
	"fmt"

	"github.com/pthm/subpage"
)

func ExampleTestNavigate() {
	site, err := subpage.TestSite(map[string]string{
		"index.html":            `<html><body><main id="subpage"></main></body></html>`,
		"components/greet.html": `<p title="{name}">{content}</p>`,
		"content/home.html":     `<h1>Home</h1>`,
		"content/about.html":    `<component template="greet" name="Ada">Hello</component>`,
		"content/404.html":      `<h1>Not found</h1>`,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	sess, err := subpage.TestNavigate(site, "/", "about")
	if err != nil {
		fmt.Println(err)
		return
	}
	html, _ := sess.MountHTML()
	fmt.Println(sess.Route())
	fmt.Println(html)

	sess.Navigate(context.Background(), "missing")
	fmt.Println(sess.Route())
	// Output:
	// about
	// <p title="Ada">Hello</p>
	// 404
}
