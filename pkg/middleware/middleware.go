// Package middleware provides the HTTP middleware used by modules: request
// logging, CORS, and body size limits.
package middleware

import (
	"net/http"
	"slices"
)

// Func wraps a handler with behavior that runs around it.
type Func = func(http.Handler) http.Handler

// Stack is an ordered list of middleware. The first entry is the outermost.
type Stack []Func

// New creates a Stack holding mws in order.
func New(mws ...Func) Stack {
	return slices.Clone(Stack(mws))
}

// Use appends mws to the end of the stack, inside any already added.
func (s *Stack) Use(mws ...Func) {
	*s = append(*s, mws...)
}

// Apply wraps handler with every middleware in the stack.
func (s Stack) Apply(handler http.Handler) http.Handler {
	for _, mw := range slices.Backward(s) {
		handler = mw(handler)
	}
	return handler
}
