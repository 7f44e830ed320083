package ai

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"google.golang.org/genai"

	"github.com/Prabhu-B-26/FreshCart/internal/domain/product"
)

var suggestionsTmpl = template.Must(template.New("suggestions").Parse(
	`You are an AI assistant that provides search suggestions for an e-commerce website selling groceries.

Generate an array of search suggestions based on the user's query. The suggestions should be relevant to groceries and related products.

User Query: {{.Query}}

Suggestions:`))

var recommendTmpl = template.Must(template.New("recommend").Parse(
	`You are an expert recommendation system for a grocery store.

Based on the user's purchase history and browsing behavior, you will recommend products that they might be interested in.

Purchase History:{{if .Purchases}}{{range .Purchases}}
- {{.}}{{end}}{{else}} No purchase history{{end}}
Browsing History:{{if .Browsing}}{{range .Browsing}}
- {{.}}{{end}}{{else}} No browsing history{{end}}
{{if .Catalog}}
Available products:{{range .Catalog}}
- {{.ID}}: {{.Name}}{{end}}
{{end}}
Recommend a list of product IDs that the user might be interested in. Return ONLY the product IDs in a JSON array.
Do not include any other text or explanation.`))

var suggestionsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"suggestions": {
			Type:        genai.TypeArray,
			Description: "An array of search suggestions.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"suggestions"},
}

var recommendSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recommendedProducts": {
			Type:        genai.TypeArray,
			Description: "Product IDs recommended for the user.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"recommendedProducts"},
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return b.String(), nil
}

// SearchSuggestions asks the model for grocery search terms related to query.
func SearchSuggestions(ctx context.Context, gen Generator, query string) ([]string, error) {
	prompt, err := render(suggestionsTmpl, struct{ Query string }{query})
	if err != nil {
		return nil, err
	}

	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := gen.GenerateJSON(ctx, prompt, suggestionsSchema, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Suggestions), nil
}

type RecommendInput struct {
	UserID    string
	Purchases []string
	Browsing  []string
	// Catalog, when set, is listed in the prompt so answers can name real ids.
	Catalog []product.Product
}

// Recommend returns product ids exactly as the model produced them.
// Callers resolve them against the catalog.
func Recommend(ctx context.Context, gen Generator, in RecommendInput) ([]string, error) {
	prompt, err := render(recommendTmpl, in)
	if err != nil {
		return nil, err
	}

	var out struct {
		RecommendedProducts []string `json:"recommendedProducts"`
	}
	if err := gen.GenerateJSON(ctx, prompt, recommendSchema, &out); err != nil {
		return nil, err
	}
	return nonNil(out.RecommendedProducts), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
