package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func stringListSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items":       map[string]interface{}{"type": "string"},
	}
}

// searchCoursesTool returns the tool definition for search_courses
func searchCoursesTool() mcp.Tool {
	return mcp.Tool{
		Name: "search_courses",
		Description: "Search the course catalog by keywords, subject codes and Hub units. " +
			"Broad mode needs one keyword to match; honed mode needs most of them.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text interest, e.g. 'I want to learn about the Holocaust'",
				},
				"codes":     stringListSchema("Two-letter subject codes, e.g. HI, EE"),
				"hub_units": stringListSchema("Hub units, e.g. 'HUB Historical Consciousness'"),
				"search_mode": map[string]interface{}{
					"type":        "string",
					"description": "broad or honed",
					"enum":        []string{"broad", "honed"},
					"default":     "broad",
				},
			},
		},
	}
}

// normalizeQueryTool returns the tool definition for normalize_query
func normalizeQueryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "normalize_query",
		Description: "Reduce free text to the keyword list used for matching",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text query",
				},
			},
			Required: []string{"query"},
		},
	}
}

// listVocabularyTool returns the tool definition for list_vocabulary
func listVocabularyTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_vocabulary",
		Description: "List the valid subject codes and Hub units",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
