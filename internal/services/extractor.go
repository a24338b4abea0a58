package services

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
)

const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"

	DefaultMaxPages = 3
)

type TextExtractor interface {
	// Extract returns the text of the first pages of doc. On failure the
	// result is empty, never nil, and the error says why.
	Extract(doc models.Document) (*models.ExtractedText, error)
}

type textExtractor struct {
	maxPages int
	logger   *zap.Logger
}

func NewTextExtractor(maxPages int, log *zap.Logger) TextExtractor {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	return &textExtractor{
		maxPages: maxPages,
		logger:   logger.OrNop(log),
	}
}

// DetectFormat sniffs the document format from its leading bytes.
func DetectFormat(content []byte) string {
	switch {
	case bytes.HasPrefix(content, []byte("%PDF-")):
		return FormatPDF
	case bytes.HasPrefix(content, []byte("PK\x03\x04")):
		return FormatDOCX
	default:
		return ""
	}
}

// Extract implements TextExtractor.
func (e *textExtractor) Extract(doc models.Document) (*models.ExtractedText, error) {
	var (
		content *models.ExtractedText
		err     error
	)

	if doc.Err != nil {
		return &models.ExtractedText{}, fmt.Errorf("%w: %w", ErrUnreadableDocument, doc.Err)
	}

	switch format := DetectFormat(doc.Content); format {
	case FormatPDF:
		content, err = e.extractPDF(doc.Content)
	case FormatDOCX:
		content, err = e.extractDOCX(doc.Content)
	default:
		return &models.ExtractedText{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, doc.Name)
	}

	if err != nil {
		return &models.ExtractedText{}, err
	}

	if content.Text == "" {
		return content, fmt.Errorf("%w: %s", ErrNoText, doc.Name)
	}

	return content, nil
}

func (e *textExtractor) extractPDF(content []byte) (result *models.ExtractedText, err error) {
	// ledongthuc/pdf panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: pdf parser panic: %v", ErrUnreadableDocument, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open PDF: %w", ErrUnreadableDocument, err)
	}

	totalPage := r.NumPage()
	limit := min(totalPage, e.maxPages)

	var pages []string
	for pageIndex := 1; pageIndex <= limit; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Debug("skipping unreadable page", zap.Int("page", pageIndex), zap.Error(err))
			continue
		}

		// Scanned pages carry no text layer.
		if text = strings.TrimSpace(text); text == "" {
			continue
		}

		pages = append(pages, text)
	}

	return &models.ExtractedText{
		Text:      strings.TrimSpace(strings.Join(pages, "\n")),
		Format:    FormatPDF,
		PageCount: totalPage,
		PagesRead: limit,
	}, nil
}

func (e *textExtractor) extractDOCX(content []byte) (*models.ExtractedText, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse docx: %w", ErrUnreadableDocument, err)
	}
	defer r.Close()

	sections := splitDocxSections(r.Editable().GetContent())
	limit := min(len(sections), e.maxPages)

	var pages []string
	for _, section := range sections[:limit] {
		if text := docxText(section); text != "" {
			pages = append(pages, text)
		}
	}

	return &models.ExtractedText{
		Text:      strings.TrimSpace(strings.Join(pages, "\n")),
		Format:    FormatDOCX,
		PageCount: len(sections),
		PagesRead: limit,
	}, nil
}

var (
	docxPageBreak = regexp.MustCompile(`<w:br\b[^>]*w:type="page"[^>]*>`)
	docxTab       = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTag        = regexp.MustCompile(`<[^>]+>`)
)

// splitDocxSections splits document XML on explicit page breaks.
func splitDocxSections(xml string) []string {
	return docxPageBreak.Split(xml, -1)
}

// docxText strips WordprocessingML markup, keeping one line per paragraph.
func docxText(xml string) string {
	s := strings.ReplaceAll(xml, "</w:p>", "\n")
	s = docxTab.ReplaceAllString(s, "\t")
	s = xmlTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}
