package domain

// TMMatch is one translation memory candidate for a piece of source text.
// Segment-level candidates score similarity against the whole queried text;
// Phrase candidates are word-aligned sub-matches scored on their own extent.
type TMMatch struct {
	SourceText string  `json:"sourceText"`
	TargetText string  `json:"targetText"`
	MatchScore float64 `json:"matchScore"`
	Phrase     bool    `json:"phrase,omitempty"`
	Domain     string  `json:"domain,omitempty"`
}

// TMQuery asks translation memory for candidates of one segment.
type TMQuery struct {
	Text           string      `json:"text"`
	SegmentType    SegmentType `json:"segmentType,omitempty"`
	SourceLanguage string      `json:"sourceLanguage,omitempty"`
	TargetLanguage string      `json:"targetLanguage"`
}

// TMEntry is one approved source/target pair stored in translation memory.
type TMEntry struct {
	ID             string      `json:"id,omitempty"`
	SourceText     string      `json:"sourceText"`
	TargetText     string      `json:"targetText"`
	SourceLanguage string      `json:"sourceLanguage"`
	TargetLanguage string      `json:"targetLanguage"`
	Domain         string      `json:"domain,omitempty"`
	SegmentType    SegmentType `json:"segmentType,omitempty"`
}

// TMSpan is a span of a segment already resolved from translation memory,
// handed to the AI backend as a constraint.
type TMSpan struct {
	SourceText string    `json:"sourceText"`
	TargetText string    `json:"targetText"`
	Type       MatchType `json:"type"`
	MatchScore float64   `json:"matchScore"`
}

type GlossaryTerm struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Note   string `json:"note,omitempty" yaml:"note,omitempty"`
}

// TranslationContext accompanies every AI generation request.
type TranslationContext struct {
	TMSpans        []TMSpan       `json:"tmSpans"`
	TargetLanguage string         `json:"targetLanguage"`
	Domain         string         `json:"domain"`
	SegmentType    SegmentType    `json:"segmentType,omitempty"`
	SegmentText    string         `json:"segmentText,omitempty"`
	Glossary       []GlossaryTerm `json:"glossary,omitempty"`
}

type GeneratedTranslation struct {
	TranslatedText string    `json:"translatedText"`
	QualityScores  *AIScores `json:"qualityScores,omitempty"`
}

// QualityAssessment is the raw output of the external quality analysis call.
type QualityAssessment struct {
	AccuracyScore  float64  `json:"accuracyScore"`
	QualityScore   float64  `json:"qualityScore"`
	CulturalScore  float64  `json:"culturalScore"`
	AccuracyIssues []string `json:"accuracyIssues"`
}

// AnalysisResult is derived from (sourceText, translatedText) and cached per segment.
type AnalysisResult struct {
	SegmentID      string        `json:"segmentId"`
	AccuracyScore  float64       `json:"accuracyScore"`
	QualityScore   float64       `json:"qualityScore"`
	CulturalScore  float64       `json:"culturalScore"`
	WordBreakdown  []WordUnit    `json:"wordBreakdown"`
	TMLeverage     *LeverageData `json:"tmLeverage,omitempty"`
	AccuracyIssues []string      `json:"accuracyIssues"`
}
