package handlers

import (
	"bytes"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

type ScreenHandler struct {
	screener services.ScreenerService
	uploads  services.UploadReader
	logger   *zap.Logger
}

func NewScreenHandler(
	screener services.ScreenerService,
	uploads services.UploadReader,
	logger *zap.Logger,
) *ScreenHandler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ScreenHandler{
		screener: screener,
		uploads:  uploads,
		logger:   logger,
	}
}

// HandleScreen handles POST /screen.
//
// The multipart form carries the job description in "job_description" and one
// or more resumes in "resumes". With ?format=csv the ranking is returned as a
// CSV attachment instead of JSON. A resume that cannot be read is ranked with
// the fallback score; only a missing job description or no resumes is a 400.
func (h *ScreenHandler) HandleScreen(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	var jobDescription string
	if values := form.Value["job_description"]; len(values) > 0 {
		jobDescription = values[0]
	}

	if strings.TrimSpace(jobDescription) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required",
		})
	}

	files := form.File["resumes"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "upload at least 1 resume in 'resumes'",
		})
	}

	docs := make([]models.Document, 0, len(files))
	for _, file := range files {
		doc := h.uploads.Read(file)
		if doc.Err != nil {
			h.logger.Warn("resume upload rejected, scoring with fallback",
				zap.String("candidate", doc.Name),
				zap.Error(doc.Err),
			)
		}
		docs = append(docs, doc)
	}

	screening, err := h.screener.Screen(c.UserContext(), jobDescription, docs)
	if err != nil {
		if errors.Is(err, services.ErrMissingJobDescription) || errors.Is(err, services.ErrNoDocuments) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		h.logger.Error("screening failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to screen resumes",
		})
	}

	if strings.EqualFold(c.Query("format"), "csv") {
		var buf bytes.Buffer
		if err := services.WriteCSV(&buf, screening.Results); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		c.Attachment(services.CSVFilename)
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Send(buf.Bytes())
	}

	return c.Status(fiber.StatusOK).JSON(models.NewScreenResponse(screening))
}
