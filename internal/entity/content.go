package entity

type ContentType string

const (
	ContentArticle    ContentType = "article"
	ContentSocialPost ContentType = "social_post"
	ContentAdCopy     ContentType = "ad_copy"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentArticle, ContentSocialPost, ContentAdCopy:
		return true
	}
	return false
}

// ContentFormat tells how OriginalContent is encoded.
type ContentFormat string

const (
	FormatText ContentFormat = "text"
	FormatHTML ContentFormat = "html"
)

func (f ContentFormat) Valid() bool {
	return f == FormatText || f == FormatHTML
}

type ContentInput struct {
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	ContentType ContentType   `json:"content_type"`
	Format      ContentFormat `json:"format,omitempty"`
	Priority    *int          `json:"priority,omitempty"` // 0=low,1=normal,2=high (nil => 1)
}

type AnalysisResult struct {
	ReadabilityScore float64            `json:"readability_score" bson:"readability_score"`
	SEOScore         float64            `json:"seo_score" bson:"seo_score"`
	Tone             string             `json:"tone" bson:"tone"`
	KeywordDensity   map[string]float64 `json:"keyword_density" bson:"keyword_density"`
	WordCount        int                `json:"word_count" bson:"word_count"`
	SentenceCount    int                `json:"sentence_count" bson:"sentence_count"`
	Suggestions      []string           `json:"suggestions" bson:"suggestions"`
}

type OptimizationResult struct {
	OptimizedContent string   `json:"optimized_content" bson:"optimized_content"`
	Improvements     []string `json:"improvements" bson:"improvements"`
}

type VariantResult struct {
	VariantA    string   `json:"variant_a" bson:"variant_a"`
	VariantB    string   `json:"variant_b" bson:"variant_b"`
	Differences []string `json:"differences" bson:"differences"`
}
