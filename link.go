package subpage

import (
	"github.com/a-h/templ"
	"github.com/pthm/subpage/lib/router"
)

// LinkBuilder builds the attributes of a routed anchor.
//
//	<a { subpage.Link("about").On("mouseover").Attrs()... }>About</a>
type LinkBuilder struct {
	route string
	event string
	href  string
}

// Link starts a link to route.
func Link(route string) *LinkBuilder {
	return &LinkBuilder{route: route}
}

// On sets the event that follows the link. Default "click".
func (l *LinkBuilder) On(event string) *LinkBuilder {
	l.event = event
	return l
}

// Href sets an explicit href. By default the router fills it in from the
// route when the anchor is bound.
func (l *LinkBuilder) Href(href string) *LinkBuilder {
	l.href = href
	return l
}

// Attrs returns the anchor attributes.
func (l *LinkBuilder) Attrs() templ.Attributes {
	attrs := templ.Attributes{router.DefaultRouteAttr: l.route}
	if l.event != "" && l.event != router.DefaultEvent {
		attrs[router.DefaultEventAttr] = l.event
	}
	if l.href != "" {
		attrs["href"] = l.href
	}
	return attrs
}
