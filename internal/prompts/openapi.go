package prompts

import "github.com/JaimeStill/prompter/pkg/openapi"

var idParam = openapi.PathParam("id", "Prompt id")

var parametersSchema = &openapi.Schema{
	Type:        "object",
	Description: "Placeholder token, brackets included, mapped to its value",
	Example:     map[string]string{"[NAME]": "Ada"},
}

var tokenList = &openapi.Schema{
	Type:  "array",
	Items: &openapi.Schema{Type: "string", Pattern: `^\[[A-Z _|]+\]$`},
}

var spec = struct {
	Tag        *openapi.Tag
	List       *openapi.Operation
	Create     *openapi.Operation
	Search     *openapi.Operation
	Find       *openapi.Operation
	Update     *openapi.Operation
	Delete     *openapi.Operation
	Render     *openapi.Operation
	RenderWith *openapi.Operation
	Schemas    map[string]*openapi.Schema
}{
	Tag: &openapi.Tag{
		Name:        "Prompts",
		Description: "Bracketed prompt templates and their stored parameters",
	},
	List: &openapi.Operation{
		Summary:     "List prompts",
		Description: "Returns a page of stored prompts ordered by id.",
		Tags:        []string{"Prompts"},
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Literal substring the text must contain", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Prompt page", "PromptPage"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create a prompt",
		Description: "Stores a new prompt. A blank id is replaced with a generated UUID.",
		Tags:        []string{"Prompts"},
		RequestBody: openapi.RequestBodyJSON("CreatePrompt", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created prompt", "Prompt"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search prompts",
		Description: "Returns a page of prompts whose text contains the query. An empty query matches every prompt.",
		Tags:        []string{"Prompts"},
		RequestBody: openapi.RequestBodyJSON("SearchRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Prompt page", "PromptPage"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get a prompt",
		Tags:       []string{"Prompts"},
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Prompt", "Prompt"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update a prompt",
		Description: "Replaces the text, the parameters, or both. Omitted fields keep their stored values.",
		Tags:        []string{"Prompts"},
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("UpdatePrompt", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated prompt", "Prompt"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	},
	Delete: &openapi.Operation{
		Summary:    "Delete a prompt",
		Tags:       []string{"Prompts"},
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			204: openapi.NoContent("Prompt deleted"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Render: &openapi.Operation{
		Summary:    "Render a prompt",
		Tags:       []string{"Prompts"},
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Rendered text", "Rendered"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	RenderWith: &openapi.Operation{
		Summary:     "Render a prompt with overrides",
		Description: "Overlays the request parameters on the stored ones for this render only.",
		Tags:        []string{"Prompts"},
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("RenderPrompt", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Rendered text", "Rendered"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Prompt": {
			Type:     "object",
			Required: []string{"id", "text", "parameters", "keywords", "missing"},
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string"},
				"text":       {Type: "string", Example: "Hello [NAME]"},
				"parameters": parametersSchema,
				"keywords":   tokenList,
				"missing":    tokenList,
			},
		},
		"PromptRecord": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string"},
				"text":       {Type: "string"},
				"parameters": parametersSchema,
			},
		},
		"PromptPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("PromptRecord")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"CreatePrompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Description: "Generated when blank"},
				"text":       {Type: "string"},
				"parameters": parametersSchema,
			},
		},
		"UpdatePrompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"text":       {Type: "string"},
				"parameters": parametersSchema,
			},
		},
		"RenderPrompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"parameters": parametersSchema,
			},
		},
		"Rendered": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":      {Type: "string"},
				"text":    {Type: "string"},
				"missing": tokenList,
			},
		},
		"SearchRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"query":     {Type: "string", Description: "Literal, case-sensitive substring"},
				"page":      {Type: "integer"},
				"page_size": {Type: "integer"},
			},
		},
	},
}
