package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/label-tools-mcp/internal/imaging"
)

// ErrNoText is returned when the engine ran but recognized nothing.
var ErrNoText = errors.New("no text recognized")

// Recognizer turns an image into best-effort text.
//
// Output may contain noise, arbitrary line breaks and misread characters;
// the label parser is built to tolerate that.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// Tesseract recognizes text with the Tesseract engine through gosseract.
//
// A new gosseract client is created per call, so a single Tesseract value is
// safe for concurrent use.
type Tesseract struct {
	// Language is a Tesseract language code such as "eng".
	Language string

	// TessdataPrefix points at the tessdata directory. Empty uses the
	// engine's built-in search path (or $TESSDATA_PREFIX).
	TessdataPrefix string

	// PageSegMode is the Tesseract page segmentation mode; 0 keeps
	// gosseract's default (PSM_AUTO).
	PageSegMode int
}

// NewTesseract returns a recognizer for the given language.
func NewTesseract(language, tessdataPrefix string, psm int) *Tesseract {
	if language == "" {
		language = DefaultLanguage
	}
	return &Tesseract{
		Language:       language,
		TessdataPrefix: tessdataPrefix,
		PageSegMode:    psm,
	}
}

// Recognize performs OCR on img and returns the full text.
//
// The image is encoded to PNG in memory and handed to Tesseract; no
// temporary file is written. Tesseract cannot be interrupted, so ctx is only
// checked before the engine starts.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.TessdataPrefix); err != nil {
			return "", fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(t.Language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	if t.PageSegMode > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(t.PageSegMode)); err != nil {
			return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
		}
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Info contains information about the OCR subsystem.
type Info struct {
	Available      bool   `json:"available"`
	Version        string `json:"version,omitempty"`
	Language       string `json:"language"`
	TessdataPrefix string `json:"tessdata_prefix,omitempty"`
	Backend        string `json:"backend"`
}

// Info reports the engine version and the configured language.
func (t *Tesseract) Info() Info {
	client := gosseract.NewClient()
	defer client.Close()

	version := client.Version()
	return Info{
		Available:      version != "",
		Version:        version,
		Language:       t.Language,
		TessdataPrefix: t.TessdataPrefix,
		Backend:        "gosseract",
	}
}
