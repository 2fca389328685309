package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ocragent/internal/config"
	"ocragent/internal/extract"
	"ocragent/internal/model"
	"ocragent/internal/storage"
)

const (
	reasonDuplicateFilename = "duplicate_filename_in_batch"
	reasonDuplicateContent  = "duplicate_content_in_batch"
)

// BatchFile is one (filename, bytes) input of a batch call.
type BatchFile struct {
	Filename string
	Data     []byte
}

// OCRService defines the use cases for the extraction pipeline.
type OCRService interface {
	// ProcessFile runs the pipeline against one document. Empty input is the
	// caller's responsibility to reject; this method does not re-check.
	ProcessFile(ctx context.Context, data []byte, filename, documentType string, zeroRetention bool) (*model.ExtractionResult, error)

	// ProcessBatch runs ProcessFile over each input in order, skipping
	// duplicates by filename and by content hash and isolating per-file
	// failures. Only an oversized batch fails the call as a whole.
	ProcessBatch(ctx context.Context, files []BatchFile, documentType string, zeroRetention bool) (*model.BatchResult, error)
}

type ocrService struct {
	dispatcher *extract.Dispatcher
	store      storage.BlobStore
	engineName string
	cfg        *config.AppConfig
	logger     *slog.Logger
}

// NewOCRService constructs the extraction service. engineName is echoed in
// result metadata so stub engines are visible in test output.
func NewOCRService(dispatcher *extract.Dispatcher, store storage.BlobStore, engineName string, cfg *config.AppConfig, logger *slog.Logger) OCRService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ocrService{
		dispatcher: dispatcher,
		store:      store,
		engineName: engineName,
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *ocrService) ProcessFile(ctx context.Context, data []byte, filename, documentType string, zeroRetention bool) (*model.ExtractionResult, error) {
	start := time.Now()
	jobID := uuid.NewString()

	extractor, err := s.dispatcher.ForFilename(filename)
	if err != nil {
		return nil, err
	}

	pages, err := extractor.Extract(ctx, data)
	if err != nil {
		return nil, err
	}

	fullText := model.JoinPages(pages)
	elapsed := time.Since(start).Milliseconds()

	s.applyRetention(ctx, zeroRetention, filename, data)

	return &model.ExtractionResult{
		JobID:        jobID,
		Status:       "success",
		DocumentType: documentType,
		Pages:        pages,
		FullText:     fullText,
		Metadata: map[string]any{
			"file_name":          filename,
			"file_type":          extract.ExtensionOf(filename),
			"num_pages":          len(pages),
			"processing_time_ms": elapsed,
			"engine":             s.engineName,
			"zero_retention":     zeroRetention,
		},
	}, nil
}

// applyRetention enforces the retention policy as a best-effort side effect:
// store failures are logged, never raised, and do not change the result.
func (s *ocrService) applyRetention(ctx context.Context, zeroRetention bool, filename string, data []byte) {
	safe := storage.SanitizeFilename(filename)
	if zeroRetention {
		// Remove any stale copy stored under the same name by an earlier
		// retention-enabled run.
		if err := s.store.Delete(ctx, safe); err != nil {
			s.logger.Error("retention delete failed", "file", safe, "error", err)
		}
		return
	}
	if err := s.store.Put(ctx, safe, data); err != nil {
		s.logger.Error("retention store failed", "file", safe, "error", err)
	}
}

func (s *ocrService) ProcessBatch(ctx context.Context, files []BatchFile, documentType string, zeroRetention bool) (*model.BatchResult, error) {
	if len(files) > s.cfg.MaxDocsPerBatch {
		return nil, &extract.BatchTooLargeError{Received: len(files), Limit: s.cfg.MaxDocsPerBatch}
	}

	maxBytes := s.cfg.MaxFileBytes()
	seenNames := make(map[string]struct{})
	seenHashes := make(map[string]struct{})
	results := make([]model.BatchItem, 0, len(files))

	for _, f := range files {
		item := model.BatchItem{Filename: f.Filename}

		if len(f.Data) == 0 {
			item.Error = extract.ErrEmptyInput.Error()
			results = append(results, item)
			continue
		}

		// Oversized files are rejected before hashing, so they never enter
		// either dedup set.
		if len(f.Data) > maxBytes {
			item.Error = (&extract.PayloadTooLargeError{LimitMB: s.cfg.MaxFileSizeMB}).Error()
			results = append(results, item)
			continue
		}

		if _, dup := seenNames[f.Filename]; dup {
			item.SkippedDuplicate = true
			item.Reason = reasonDuplicateFilename
			results = append(results, item)
			continue
		}
		seenNames[f.Filename] = struct{}{}

		sum := sha256.Sum256(f.Data)
		hash := hex.EncodeToString(sum[:])
		if _, dup := seenHashes[hash]; dup {
			item.FileHash = hash
			item.SkippedDuplicate = true
			item.Reason = reasonDuplicateContent
			results = append(results, item)
			continue
		}
		seenHashes[hash] = struct{}{}

		resp, err := s.ProcessFile(ctx, f.Data, f.Filename, documentType, zeroRetention)
		if err != nil {
			// One bad file must not abort its siblings.
			item.Error = err.Error()
			results = append(results, item)
			continue
		}

		item.FileHash = hash
		item.Response = resp
		results = append(results, item)
	}

	return &model.BatchResult{
		Status:         "success",
		DocumentType:   documentType,
		ZeroRetention:  zeroRetention,
		MaxDocsAllowed: s.cfg.MaxDocsPerBatch,
		Results:        results,
	}, nil
}
