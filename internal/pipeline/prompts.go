package pipeline

import (
	"fmt"
	"strconv"

	"content-optimizer-service/internal/ai"
	"content-optimizer-service/internal/entity"
)

const analyzeExcerptRunes = 500

const (
	analyzeSystem  = "You are a content analysis expert. Provide concise, actionable feedback."
	optimizeSystem = "You are a content optimization expert specializing in SEO, readability, and engagement."
	varySystem     = "You are an A/B testing expert. Create distinct content variants for testing."
)

func analyzePrompt(title, content string, typ entity.ContentType) ai.Prompt {
	user := fmt.Sprintf(`Analyze this %s content:

Title: %s
Content: %s...

Provide:
1. Primary tone (in 2-3 words: e.g., 'Professional and Informative', 'Casual and Engaging')
2. Three specific improvement suggestions (each under 15 words)

Format your response as:
TONE: [tone]
SUGGESTIONS:
1. [suggestion 1]
2. [suggestion 2]
3. [suggestion 3]`, typ, title, excerpt(content, analyzeExcerptRunes))

	return ai.Prompt{Stage: ai.StageAnalyze, System: analyzeSystem, User: user}
}

func optimizePrompt(title, content string, typ entity.ContentType, a *entity.AnalysisResult) ai.Prompt {
	user := fmt.Sprintf(`Optimize this %s:

Title: %s
Original Content:
%s

Current Metrics:
- Readability Score: %s/100
- SEO Score: %s/100
- Tone: %s

Improve the content for better readability, SEO, and engagement. Keep the core message but make it more compelling and optimized. Return ONLY the optimized content, no explanations.`,
		typ, title, content, score(a.ReadabilityScore), score(a.SEOScore), a.Tone)

	return ai.Prompt{Stage: ai.StageOptimize, System: optimizeSystem, User: user}
}

func varyPrompt(title, optimized string, typ entity.ContentType) ai.Prompt {
	user := fmt.Sprintf(`Create 2 distinct variants of this %s for A/B testing:

Title: %s
Optimized Content:
%s

Create:
VARIANT A: Focus on emotional appeal and storytelling
VARIANT B: Focus on data, facts, and authority

Format:
VARIANT_A:
[content]

VARIANT_B:
[content]`, typ, title, optimized)

	return ai.Prompt{Stage: ai.StageVary, System: varySystem, User: user}
}

// excerpt returns the first n characters of s.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
