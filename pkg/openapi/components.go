package openapi

import "maps"

var errorBody = map[string]*MediaType{
	"application/json": {Schema: SchemaRef("Error")},
}

// NewComponents creates Components with the shared pagination and error
// schemas and the error responses every handler can produce.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Literal substring the text must contain"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":      {Description: "Invalid request", Content: errorBody},
			"NotFound":        {Description: "Resource not found", Content: errorBody},
			"Conflict":        {Description: "Resource already exists or was deleted", Content: errorBody},
			"PayloadTooLarge": {Description: "Request body exceeds the configured limit", Content: errorBody},
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
