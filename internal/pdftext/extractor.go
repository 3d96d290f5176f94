// Package pdftext turns an uploaded CV PDF into plain text. Embedded text is
// preferred; pages with too little of it fall back to OCR when an engine is
// available.
package pdftext

import (
	"fmt"
	"os"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
	"github.com/unidoc/unipdf/v3/render"
	"go.uber.org/zap"
)

// Pages whose embedded text is shorter than this are considered scanned and go
// through the OCR fallback.
const ocrMinChars = 40

// Letter-width pixels at 300 DPI, the resolution the OCR pass renders at.
const renderWidth = 2550

type Extractor struct {
	ocr OCREngine
	log *zap.Logger
}

// New builds an extractor. ocr may be nil; extraction then uses embedded text
// only, however short (scanned pages yield empty text with no error signal
// beyond the construction-time warning).
func New(ocr OCREngine, log *zap.Logger) *Extractor {
	if ocr == nil {
		log.Warn("ocr engine unavailable; scanned pages will extract as empty text")
	}
	return &Extractor{ocr: ocr, log: log}
}

// ExtractFile reads the whole PDF and returns one text block per page, joined
// by newlines, never truncated. A page that fails to extract contributes an
// empty block; it does not stop the other pages.
func (e *Extractor) ExtractFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := model.NewPdfReader(f)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("page count: %w", err)
	}

	parts := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		parts = append(parts, e.extractPage(reader, i))
	}
	return strings.Join(parts, "\n"), nil
}

func (e *Extractor) extractPage(reader *model.PdfReader, pageNum int) string {
	var text string

	page, err := reader.GetPage(pageNum)
	if err != nil {
		e.log.Warn("get page failed", zap.Int("page", pageNum), zap.Error(err))
		return ""
	}

	if ex, err := extractor.New(page); err == nil {
		if t, err := ex.ExtractText(); err == nil {
			text = strings.TrimSpace(t)
		} else {
			e.log.Warn("embedded text extraction failed", zap.Int("page", pageNum), zap.Error(err))
		}
	} else {
		e.log.Warn("extractor init failed", zap.Int("page", pageNum), zap.Error(err))
	}

	if len(text) < ocrMinChars {
		if ocrText := strings.TrimSpace(e.ocrPage(page, pageNum)); len(ocrText) >= len(text) {
			text = ocrText
		}
	}
	return text
}

// ocrPage renders the page to an image and runs the OCR engine. Every failure
// degrades to an empty string; OCR must never abort the extraction.
func (e *Extractor) ocrPage(page *model.PdfPage, pageNum int) string {
	if e.ocr == nil {
		return ""
	}

	device := render.NewImageDevice()
	device.OutputWidth = renderWidth
	img, err := device.Render(page)
	if err != nil {
		e.log.Warn("page render for ocr failed", zap.Int("page", pageNum), zap.Error(err))
		return ""
	}

	text, err := e.ocr.Recognize(img)
	if err != nil {
		e.log.Warn("ocr failed", zap.Int("page", pageNum), zap.Error(err))
		return ""
	}
	return text
}
