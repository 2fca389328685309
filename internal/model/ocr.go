package model

import "strings"

// Page is the text extracted from one page of a document.
// PageNumber is 1-based and contiguous within a result.
type Page struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// ExtractionResult is the outcome of running the pipeline against one document.
// FullText is derived: it always equals JoinPages(Pages).
type ExtractionResult struct {
	JobID        string         `json:"job_id"`
	Status       string         `json:"status"`
	DocumentType string         `json:"document_type"`
	Pages        []Page         `json:"pages"`
	FullText     string         `json:"full_text"`
	Metadata     map[string]any `json:"metadata"`
}

// BatchItem is the per-file outcome inside a batch. Exactly one of
// Error, SkippedDuplicate or Response is meaningful. FileHash is empty
// when hashing was never reached (empty, oversized or name-duplicate files).
type BatchItem struct {
	Filename         string            `json:"filename"`
	FileHash         string            `json:"file_hash"`
	SkippedDuplicate bool              `json:"skipped_duplicate"`
	Reason           string            `json:"reason,omitempty"`
	Response         *ExtractionResult `json:"response,omitempty"`
	Error            string            `json:"error,omitempty"`
}

// BatchResult is the envelope for a batch call. Results preserve input order.
type BatchResult struct {
	Status         string      `json:"status"`
	DocumentType   string      `json:"document_type"`
	ZeroRetention  bool        `json:"zero_retention"`
	MaxDocsAllowed int         `json:"max_docs_allowed"`
	Results        []BatchItem `json:"results"`
}

// JoinPages concatenates page texts with a blank-line separator, in page order.
func JoinPages(pages []Page) string {
	texts := make([]string, 0, len(pages))
	for _, p := range pages {
		texts = append(texts, p.Text)
	}
	return strings.Join(texts, "\n\n")
}
