package pdftext

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"
)

// OCREngine recognizes text on a rendered page image.
type OCREngine interface {
	Recognize(img image.Image) (string, error)
}

// TesseractEngine shells out to the tesseract binary. OCR is an optional
// capability: when the binary is not installed the constructor fails and the
// extractor runs without a fallback.
type TesseractEngine struct {
	bin  string
	lang string
}

func NewTesseractEngine(lang string) (*TesseractEngine, error) {
	bin, err := exec.LookPath("tesseract")
	if err != nil {
		return nil, fmt.Errorf("tesseract not found: %w", err)
	}
	if lang == "" {
		lang = "spa+eng"
	}
	return &TesseractEngine{bin: bin, lang: lang}, nil
}

func (t *TesseractEngine) Recognize(img image.Image) (string, error) {
	tmp, err := os.CreateTemp("", "ocr-page-*.png")
	if err != nil {
		return "", fmt.Errorf("ocr temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode page image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	var out, stderr bytes.Buffer
	cmd := exec.Command(t.bin, tmp.Name(), "stdout", "-l", t.lang, "--dpi", "300")
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}
