// Package prompt holds the instruction templates for every assistant
// operation and the rules that pick decoding temperature per operation.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"smartsdlc/internal/models"
)

// Argument bundles for the operation templates. Each maps one-to-one onto
// the substitution slots of the corresponding template.
type (
	CodeArgs struct {
		Requirements string
		Language     string
	}
	TestArgs struct {
		Code      string
		Framework string
	}
	FixArgs struct {
		Code             string
		ErrorDescription string
	}
	SummarizeArgs struct {
		Code string
	}
	ClassifyArgs struct {
		Requirements string
	}
	ChatArgs struct {
		Query   string
		Context string
	}
)

// classifyTemperature pins classification to near-deterministic decoding so
// the model sticks to the requested JSON shape.
const classifyTemperature = 0.1

// Temperature returns the decoding temperature for an operation kind, using
// the configured default for everything except classification.
func Temperature(kind models.Kind, defaultTemperature float64) float64 {
	if kind == models.KindClassify {
		return classifyTemperature
	}
	return defaultTemperature
}

var templates = map[models.Kind]*template.Template{
	models.KindCode:      mustParse("code", codeTemplate),
	models.KindTest:      mustParse("test", testTemplate),
	models.KindFix:       mustParse("fix", fixTemplate),
	models.KindSummarize: mustParse("summarize", summarizeTemplate),
	models.KindClassify:  mustParse("classify", classifyTemplate),
	models.KindChat:      mustParse("chat", chatTemplate),
}

func mustParse(name, body string) *template.Template {
	return template.Must(template.New(name).Parse(strings.TrimSpace(body) + "\n"))
}

// Render produces the final prompt text for the given operation kind.
func Render(kind models.Kind, args any) (string, error) {
	tmpl, ok := templates[kind]
	if !ok {
		return "", fmt.Errorf("no prompt template for kind %q", kind)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, args); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", kind, err)
	}
	return sb.String(), nil
}
