// Package subpage assembles pages from HTML fragments.
//
// A site is a directory of plain HTML: a shell document with one mount
// element, the pages shown in it, and reusable fragments the pages pull in
// through placeholder tags. Nothing is compiled; fragments are fetched,
// expanded and spliced into a document tree on demand.
//
//	site/
//	    index.html            shell, contains <main id="subpage">
//	    content/home.html     one file per route
//	    content/about.html
//	    components/card.html  <component template="card" ...>
//	    templates/list.html   <use-template template="list">...
//
// # Placeholders
//
// A component placeholder copies its attributes into the fragment wherever
// an attribute value is exactly {name}, and its children wherever the
// fragment says {content}:
//
//	<component template="card" title="Hello">Body text</component>
//
//	<!-- components/card.html -->
//	<article data-title="{title}"><p>{content}</p></article>
//
// A template placeholder evaluates {{ expression }} holes against the text
// of its child elements, keyed by tag name. Expressions run in a sandbox
// with no access to the host:
//
//	<use-template template="greeting"><name>Ada</name></use-template>
//
//	<!-- templates/greeting.html -->
//	<p>Hello, {{ upper(name) }}</p>
//
// Fragments may contain placeholders of either kind. Each fragment is
// fetched once per process; a fragment that includes itself, directly or
// through others, fails with ErrCycle.
//
// # Routing
//
// The routes of a site are the files under content/. A Session renders the
// shell, resolves its placeholders and mounts the page a URL path names:
//
//	site, err := subpage.Open(subpage.Config{Dir: "site"})
//	sess, err := site.NewSession(ctx, subpage.Request{Path: "/about"})
//	sess.Navigate(ctx, "contact")
//
// Unknown routes show the fallback route ("404" by default). Anchors
// carrying a subpage attribute are bound to the router and get an href:
//
//	<a subpage="about" subpage-event="mouseover">About</a>
//
// # Serving
//
// Site.Handler serves fragment files to browsers and renders a session for
// every page request. Requests with the Subpage-Request: true header get the
// mount's content only, for client-side navigation.
//
//	http.ListenAndServe(":8080", site.Handler())
//
// Logging goes through the slog.Logger carried by the request context; see
// LoggingContext.
package subpage
