package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"content-optimizer-service/internal/entity"
)

// PDF renders job as an A4 document with one section per stage.
func PDF(job *entity.ContentJob) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// core fonts are cp1252; translate UTF-8 input
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, tr(job.Title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	meta := fmt.Sprintf("Job %s | %s | %s | created %s",
		job.ID, job.ContentType, job.Status, job.CreatedAt.UTC().Format(time.RFC3339))
	pdf.MultiCell(0, 5, tr(meta), "", "L", false)
	if job.Error != nil {
		pdf.SetTextColor(170, 30, 30)
		pdf.MultiCell(0, 5, tr("Error: "+*job.Error), "", "L", false)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	heading(pdf, "Analysis")
	if a := job.Analysis; a != nil {
		lines := []string{
			fmt.Sprintf("Readability: %.2f / 100", a.ReadabilityScore),
			fmt.Sprintf("SEO score: %.2f / 100", a.SEOScore),
			fmt.Sprintf("Words: %d   Sentences: %d", a.WordCount, a.SentenceCount),
			"Tone: " + a.Tone,
		}
		for _, kw := range sortedKeywords(a.KeywordDensity) {
			lines = append(lines, fmt.Sprintf("Keyword %s: %.2f%%", kw.word, kw.density))
		}
		paragraph(pdf, tr, strings.Join(lines, "\n"))
		for i, s := range a.Suggestions {
			paragraph(pdf, tr, fmt.Sprintf("%d. %s", i+1, s))
		}
	} else {
		paragraph(pdf, tr, "Pending.")
	}

	heading(pdf, "Optimized content")
	if o := job.Optimization; o != nil {
		paragraph(pdf, tr, o.OptimizedContent)
		bullets(pdf, tr, o.Improvements)
	} else {
		paragraph(pdf, tr, "Pending.")
	}

	heading(pdf, "A/B variants")
	if v := job.Variants; v != nil {
		subheading(pdf, "Variant A")
		paragraph(pdf, tr, v.VariantA)
		subheading(pdf, "Variant B")
		paragraph(pdf, tr, v.VariantB)
		bullets(pdf, tr, v.Differences)
	} else {
		paragraph(pdf, tr, "Pending.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 7, text, "", "L", false)
	pdf.Ln(1)
}

func subheading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.MultiCell(0, 6, text, "", "L", false)
}

func paragraph(pdf *gofpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr(text), "", "L", false)
	pdf.Ln(2)
}

func bullets(pdf *gofpdf.Fpdf, tr func(string) string, items []string) {
	pdf.SetFont("Helvetica", "", 10)
	for _, s := range items {
		pdf.MultiCell(0, 5, tr("• "+s), "", "L", false)
	}
	pdf.Ln(2)
}
