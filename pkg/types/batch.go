// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BatchFile is one saved scrape's contribution to a prompt batch.
type BatchFile struct {
	Filename string `json:"filename" yaml:"filename"`
	URL      string `json:"url" yaml:"url"`
	Model    string `json:"model" yaml:"model"`
	Content  string `json:"content" yaml:"content"`
}

// BatchDocument is a token-bounded grouping of scraped content prepared
// for external LLM review. Read-only once written. TokenEstimate never
// exceeds the configured budget unless the batch holds a single
// oversized file, which is kept whole rather than truncated.
type BatchDocument struct {
	// ID numbers batches sequentially from 1 within a run.
	ID int `json:"batch_id" yaml:"batch_id"`

	Files []BatchFile `json:"files" yaml:"files"`

	TokenEstimate int `json:"token_estimate" yaml:"token_estimate"`
}

// FileDetail mirrors one file's extraction outcome in the comprehensive
// batch summary.
type FileDetail struct {
	ScrapFileName   string `json:"scrap_file_name"`
	SourceURL       string `json:"source_url"`
	Model           string `json:"model,omitempty"`
	DatesFoundCount int    `json:"dates_found_count"`
	HasDates        bool   `json:"has_business_dates"`
	BatchNumber     int    `json:"batch_number,omitempty"`
	PromptFile      string `json:"prompt_file,omitempty"`
	ProcessingError string `json:"processing_error,omitempty"`
}

// BatchSummary holds the aggregate counters written to
// comprehensive_summary_<timestamp>.json.
type BatchSummary struct {
	TotalFilesProcessed  int          `json:"total_files_processed"`
	FilesWithDates       int          `json:"files_with_dates"`
	FilesWithoutDates    int          `json:"files_without_dates"`
	TotalDatesFound      int          `json:"total_dates_found"`
	PromptBatchesCreated int          `json:"prompt_batches_created"`
	FileDetails          []FileDetail `json:"file_details"`
}
