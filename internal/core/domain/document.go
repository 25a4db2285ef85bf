package domain

import "time"

type Document struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	SourceLanguage string    `json:"sourceLanguage"`
	TargetLanguage string    `json:"targetLanguage"`
	Domain         string    `json:"domain"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LeverageAnalytics is the segment-level rollup of one document.
type LeverageAnalytics struct {
	TotalSegments          int     `json:"totalSegments"`
	ExactMatches           int     `json:"exactMatches"`
	FuzzyMatches           int     `json:"fuzzyMatches"`
	NoMatches              int     `json:"noMatches"`
	AvgMatchScore          float64 `json:"avgMatchScore"`
	TotalCostSavings       float64 `json:"totalCostSavings"`
	LeverageRate           float64 `json:"leverageRate"`
	CulturalAdaptations    int     `json:"culturalAdaptations"`
	TherapeuticAreaMatches int     `json:"therapeuticAreaMatches"`
}

type DraftMetadata struct {
	TotalSegments  int       `json:"totalSegments"`
	TotalWords     int       `json:"totalWords"`
	TargetLanguage string    `json:"targetLanguage"`
	LeverageRate   float64   `json:"leverageRate"`
	WordLeverage   float64   `json:"wordLeverage"`
	CostSavings    float64   `json:"costSavings"`
	ReviewedCount  int       `json:"reviewedCount"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

// DraftTranslation is always derived from the current segment set.
type DraftTranslation struct {
	DraftText string        `json:"draftText"`
	Metadata  DraftMetadata `json:"metadata"`
}

// DocumentRecord is the persisted layout of a document and its segment set.
type DocumentRecord struct {
	Document          Document          `json:"document"`
	Segments          []Segment         `json:"segments"`
	LeverageAnalytics LeverageAnalytics `json:"leverageAnalytics"`
	DraftTranslation  *DraftTranslation `json:"draftTranslation,omitempty"`
	LastUpdated       time.Time         `json:"lastUpdated"`
}

// BulkTranslationJob asks a worker to run bulk translation for a document.
type BulkTranslationJob struct {
	DocumentID string    `json:"documentId"`
	SegmentIDs []string  `json:"segmentIds,omitempty"`
	RequestID  string    `json:"requestId,omitempty"`
	EnqueuedAt time.Time `json:"enqueuedAt,omitempty"`
}

type ImportRequest struct {
	Title          string `json:"title"`
	SourceText     string `json:"sourceText"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
	Domain         string `json:"domain"`
}
