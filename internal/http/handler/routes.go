package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"ocragent/internal/config"
	"ocragent/internal/extract"
	"ocragent/internal/service"
)

// parseRetentionFlag interprets the permissive boolean token set used by the
// zero_retention form field: 1/true/yes/y/on mean true, an absent field means
// the configured default, anything else means false.
func parseRetentionFlag(val string, def bool) bool {
	if val == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// translateError maps pipeline errors onto the response envelope. Known
// conditions are caller errors; everything else is an internal error.
func translateError(c *fiber.Ctx, err error) error {
	var (
		ufe *extract.UnsupportedFormatError
		xe  *extract.ExtractionError
		bte *extract.BatchTooLargeError
		ple *extract.PayloadTooLargeError
	)
	switch {
	case errors.Is(err, extract.ErrEmptyInput):
		return writeError(c, fiber.StatusBadRequest, "EMPTY_FILE", err.Error())
	case errors.As(err, &ple):
		return writeError(c, fiber.StatusBadRequest, "PAYLOAD_TOO_LARGE", err.Error())
	case errors.As(err, &ufe):
		return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FORMAT", err.Error())
	case errors.As(err, &xe):
		return writeError(c, fiber.StatusBadRequest, "EXTRACTION_FAILED", err.Error())
	case errors.As(err, &bte):
		return writeError(c, fiber.StatusBadRequest, "BATCH_TOO_LARGE", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// enforce the payload preconditions (empty, oversize) before handing off to
// the service; the service never re-checks them.
func RegisterRoutes(app *fiber.App, svc service.OCRService, cfg *config.AppConfig) {
	// Liveness probes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	v1 := app.Group("/api/v1/ocr")

	// Single-file extraction (multipart/form-data, field name: file)
	v1.Post("/extract", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		data, err := readUpload(fh)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		if len(data) == 0 {
			return translateError(c, extract.ErrEmptyInput)
		}
		if len(data) > cfg.MaxFileBytes() {
			return translateError(c, &extract.PayloadTooLargeError{LimitMB: cfg.MaxFileSizeMB})
		}

		documentType := c.FormValue("document_type", "generic")
		zeroRetention := parseRetentionFlag(c.FormValue("zero_retention"), cfg.ZeroRetentionDefault)

		filename := fh.Filename
		if filename == "" {
			filename = "document"
		}

		res, err := svc.ProcessFile(c.UserContext(), data, filename, documentType, zeroRetention)
		if err != nil {
			return translateError(c, err)
		}
		return c.JSON(res)
	})

	// Batch extraction (multipart/form-data, field name: files)
	v1.Post("/extract-batch", func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "multipart form is required")
		}
		headers := form.File["files"]
		if len(headers) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "at least one file is required")
		}

		files := make([]service.BatchFile, 0, len(headers))
		for _, fh := range headers {
			filename := fh.Filename
			if filename == "" {
				filename = "document"
			}
			data, err := readUpload(fh)
			if err != nil {
				// Unreadable parts become empty payloads and are rejected
				// per-item by the coordinator.
				data = nil
			}
			files = append(files, service.BatchFile{Filename: filename, Data: data})
		}

		documentType := c.FormValue("document_type", "generic")
		zeroRetention := parseRetentionFlag(c.FormValue("zero_retention"), cfg.ZeroRetentionDefault)

		res, err := svc.ProcessBatch(c.UserContext(), files, documentType, zeroRetention)
		if err != nil {
			return translateError(c, err)
		}
		return c.JSON(res)
	})
}
