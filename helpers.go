package subpage

import (
	"net/http"

	"github.com/a-h/templ"
)

const (
	// FragmentHeader marks a request that wants only the mount's content,
	// as sent by client-side navigation.
	FragmentHeader = "Subpage-Request"
	// RouteHeader names the route a page response shows.
	RouteHeader = "Subpage-Route"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    sess, _ := site.NewSession(r.Context(), subpage.RequestFrom(r))
//	    subpage.Render(w, r, layout(sess.Mount()))
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsFragmentRequest returns true if the request asks for the mount's
// content only.
func IsFragmentRequest(r *http.Request) bool {
	return r.Header.Get(FragmentHeader) == "true"
}

// ShownRoute returns the route reported by a page response, or "" if the
// response did not come from a Site.
func ShownRoute(h http.Header) string {
	return h.Get(RouteHeader)
}
