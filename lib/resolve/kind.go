package resolve

// Kind describes one placeholder namespace: the element that marks a
// placeholder, the attribute naming its fragment and where fragments of
// that kind are fetched from.
type Kind struct {
	// Tag is the placeholder element name, lower case.
	Tag string
	// NameAttr is the attribute holding the fragment identifier.
	NameAttr string
	// Prefix and Suffix surround the identifier to form the fetch path.
	Prefix string
	Suffix string
}

var (
	// ComponentKind matches <component template="name">.
	ComponentKind = Kind{Tag: "component", NameAttr: "template", Prefix: "/components/", Suffix: ".html"}
	// TemplateKind matches <use-template template="name">.
	TemplateKind = Kind{Tag: "use-template", NameAttr: "template", Prefix: "/templates/", Suffix: ".html"}
)

// Path returns the fetch path of fragment name.
func (k Kind) Path(name string) string {
	return k.Prefix + name + k.Suffix
}
