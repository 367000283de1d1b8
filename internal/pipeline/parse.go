package pipeline

import (
	"regexp"
	"strings"
)

// Model responses follow a small line-oriented grammar:
//
//	analyze:  "TONE:" <tone> NL "SUGGESTIONS:" NL { <n> "." <suggestion> NL }
//	vary:     "VARIANT_A:" <text> "VARIANT_B:" <text>
//
// Nothing in a response is trusted. Every field has a fallback and a
// missing match never fails the stage.

const (
	defaultTone     = "Neutral"
	unavailableTone = "Unable to analyze"

	variantAMarker = "VARIANT_A:"
	variantBMarker = "VARIANT_B:"

	suggestionCount = 3
)

var (
	toneLine       = regexp.MustCompile(`TONE:[ \t]*(.*)`)
	numberedLine   = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]*(\S.*)$`)
	defaultAdvice  = []string{"Improve clarity", "Enhance engagement", "Optimize structure"}
	fallbackAdvice = []string{"Improve readability", "Enhance SEO", "Strengthen engagement"}

	improvements = []string{
		"Enhanced readability and flow",
		"Improved SEO keyword integration",
		"Strengthened engagement and clarity",
		"Optimized structure and formatting",
	}
	differences = []string{
		"Variant A: Emotional and narrative-driven approach",
		"Variant B: Data-focused and authoritative tone",
		"Both optimized for different audience segments",
	}
)

// parseAnalysis extracts tone and exactly three suggestions.
func parseAnalysis(response string) (tone string, suggestions []string) {
	tone = defaultTone
	if m := toneLine.FindStringSubmatch(response); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			tone = t
		}
	}

	for _, m := range numberedLine.FindAllStringSubmatch(response, -1) {
		if s := strings.TrimSpace(m[1]); s != "" {
			suggestions = append(suggestions, s)
		}
	}
	if len(suggestions) < suggestionCount {
		return tone, cloneStrings(defaultAdvice)
	}
	return tone, suggestions[:suggestionCount]
}

// parseVariants splits a vary response into its two variants. A variant
// whose marker is missing or whose body is blank falls back to optimized.
func parseVariants(response, optimized string) (a, b string) {
	a, b = optimized, optimized

	ia := strings.Index(response, variantAMarker)
	ib := strings.Index(response, variantBMarker)

	if ia >= 0 {
		body := response[ia+len(variantAMarker):]
		if end := strings.Index(body, variantBMarker); end >= 0 {
			body = body[:end]
		}
		if s := strings.TrimSpace(body); s != "" {
			a = s
		}
	}
	if ib >= 0 {
		if s := strings.TrimSpace(response[ib+len(variantBMarker):]); s != "" {
			b = s
		}
	}
	return a, b
}

func cloneStrings(in []string) []string {
	return append([]string(nil), in...)
}
