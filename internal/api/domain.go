package api

import (
	"github.com/JaimeStill/prompter/internal/prompts"
)

// Domain holds the handlers that comprise the API.
type Domain struct {
	Prompts *prompts.Handler
}

// NewDomain creates the domain handlers from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Prompts: prompts.NewHandler(
			runtime.Manager,
			runtime.Logger,
			runtime.Pagination,
		),
	}
}
