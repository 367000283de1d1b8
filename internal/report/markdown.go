// Package report renders a content job, finished or partial, as a
// standalone document: Markdown for humans and tooling, PDF for sharing.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"content-optimizer-service/internal/entity"
)

// Markdown renders job as a Markdown document. Stages without a result
// yet are rendered as pending.
func Markdown(job *entity.ContentJob) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", job.Title)
	fmt.Fprintf(&b, "- **Job:** `%s`\n", job.ID)
	fmt.Fprintf(&b, "- **Type:** %s\n", job.ContentType)
	fmt.Fprintf(&b, "- **Status:** %s\n", job.Status)
	fmt.Fprintf(&b, "- **Created:** %s\n", job.CreatedAt.UTC().Format(time.RFC3339))
	if job.CompletedAt != nil {
		fmt.Fprintf(&b, "- **Finished:** %s\n", job.CompletedAt.UTC().Format(time.RFC3339))
	}
	if job.Error != nil {
		fmt.Fprintf(&b, "- **Error:** %s\n", *job.Error)
	}

	b.WriteString("\n## Analysis\n\n")
	if a := job.Analysis; a != nil {
		b.WriteString("| Metric | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Readability | %.2f |\n", a.ReadabilityScore)
		fmt.Fprintf(&b, "| SEO score | %.2f |\n", a.SEOScore)
		fmt.Fprintf(&b, "| Words | %d |\n", a.WordCount)
		fmt.Fprintf(&b, "| Sentences | %d |\n", a.SentenceCount)
		fmt.Fprintf(&b, "| Tone | %s |\n", a.Tone)

		if kws := sortedKeywords(a.KeywordDensity); len(kws) > 0 {
			b.WriteString("\n**Keywords:** ")
			parts := make([]string, 0, len(kws))
			for _, kw := range kws {
				parts = append(parts, fmt.Sprintf("%s (%.2f%%)", kw.word, kw.density))
			}
			b.WriteString(strings.Join(parts, ", "))
			b.WriteString("\n")
		}

		b.WriteString("\n**Suggestions:**\n\n")
		writeNumbered(&b, a.Suggestions)
	} else {
		b.WriteString(pending)
	}

	b.WriteString("\n## Optimized content\n\n")
	if o := job.Optimization; o != nil {
		b.WriteString(o.OptimizedContent)
		b.WriteString("\n\n**Improvements:**\n\n")
		writeBullets(&b, o.Improvements)
	} else {
		b.WriteString(pending)
	}

	b.WriteString("\n## A/B variants\n\n")
	if v := job.Variants; v != nil {
		b.WriteString("### Variant A\n\n")
		b.WriteString(v.VariantA)
		b.WriteString("\n\n### Variant B\n\n")
		b.WriteString(v.VariantB)
		b.WriteString("\n\n**Differences:**\n\n")
		writeBullets(&b, v.Differences)
	} else {
		b.WriteString(pending)
	}

	return b.String()
}

const pending = "_Pending._\n"

type keyword struct {
	word    string
	density float64
}

// sortedKeywords orders by density, then word, so output is stable.
func sortedKeywords(m map[string]float64) []keyword {
	out := make([]keyword, 0, len(m))
	for w, d := range m {
		out = append(out, keyword{w, d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].density != out[j].density {
			return out[i].density > out[j].density
		}
		return out[i].word < out[j].word
	})
	return out
}

func writeNumbered(b *strings.Builder, items []string) {
	for i, s := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, s)
	}
}

func writeBullets(b *strings.Builder, items []string) {
	for _, s := range items {
		fmt.Fprintf(b, "- %s\n", s)
	}
}
