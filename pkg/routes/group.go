package routes

import (
	"net/http"

	"github.com/JaimeStill/prompter/pkg/openapi"
)

// Group organizes routes under a common prefix.
// Tag and Schemas are written to the OpenAPI document by Document.
type Group struct {
	Prefix   string
	Tag      *openapi.Tag
	Routes   []Route
	Children []Group
	Schemas  map[string]*openapi.Schema
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		group.walk("", func(pattern string, route Route) {
			mux.HandleFunc(pattern, route.Handler)
		})
	}
}

// Patterns returns the ServeMux patterns the group registers, in order.
func (g Group) Patterns() []string {
	var patterns []string
	g.walk("", func(pattern string, _ Route) {
		patterns = append(patterns, pattern)
	})
	return patterns
}

// Document adds every documented route and the group schemas to spec.
// Routes without an OpenAPI operation are left out.
func (g Group) Document(spec *openapi.Spec) {
	g.document("", spec)
}

func (g Group) document(parentPrefix string, spec *openapi.Spec) {
	fullPrefix := parentPrefix + g.Prefix
	if g.Tag != nil {
		spec.AddTag(g.Tag.Name, g.Tag.Description)
	}
	spec.Components.AddSchemas(g.Schemas)
	for _, route := range g.Routes {
		if route.OpenAPI != nil {
			spec.AddOperation(fullPrefix+route.Pattern, route.Method, route.OpenAPI)
		}
	}
	for _, child := range g.Children {
		child.document(fullPrefix, spec)
	}
}

func (g Group) walk(parentPrefix string, visit func(pattern string, route Route)) {
	fullPrefix := parentPrefix + g.Prefix
	for _, route := range g.Routes {
		visit(route.Method+" "+fullPrefix+route.Pattern, route)
	}
	for _, child := range g.Children {
		child.walk(fullPrefix, visit)
	}
}
