package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"content-optimizer-service/internal/entity"
	"content-optimizer-service/internal/metrics"
	"content-optimizer-service/internal/normalize"
)

var (
	flagTitle string
	flagHTML  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Print text metrics for a file as JSON (no AI calls)",
	Long: `Analyze computes readability, SEO score, keyword density and counts
for a local file, the same numbers the analyze stage stores on a job.
Use "-" to read from stdin.

Examples:
  optimizer analyze post.txt --title "Spring launch"
  optimizer analyze page.html --html`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&flagTitle, "title", "", "Title used by the SEO score (default: file name)")
	analyzeCmd.Flags().BoolVar(&flagHTML, "html", false, "Treat input as HTML (default: by .html/.htm extension)")
}

type analyzeReport struct {
	Title            string             `json:"title"`
	ReadabilityScore float64            `json:"readability_score"`
	SEOScore         float64            `json:"seo_score"`
	KeywordDensity   map[string]float64 `json:"keyword_density"`
	TopKeywords      []metrics.Keyword  `json:"top_keywords"`
	WordCount        int                `json:"word_count"`
	SentenceCount    int                `json:"sentence_count"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	format := entity.FormatText
	ext := strings.ToLower(filepath.Ext(path))
	if flagHTML || ext == ".html" || ext == ".htm" {
		format = entity.FormatHTML
	}
	text, err := normalize.Content(string(raw), format)
	if err != nil {
		return err
	}

	title := flagTitle
	if title == "" && path != "-" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	out := analyzeReport{
		Title:            title,
		ReadabilityScore: metrics.Round2(metrics.Readability(text)),
		SEOScore:         metrics.Round2(metrics.SEOScore(text, title)),
		KeywordDensity:   metrics.KeywordDensity(text),
		TopKeywords:      metrics.TopKeywords(text),
		WordCount:        metrics.WordCount(text),
		SentenceCount:    metrics.SentenceCount(text),
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
