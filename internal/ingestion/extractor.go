package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"code.sajari.com/docconv"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultExtractionTimeout bounds the conversion of a single document.
const DefaultExtractionTimeout = 30 * time.Second

// binaryFormats are converted through docconv
var binaryFormats = map[string]bool{
	".pdf":   true,
	".doc":   true,
	".docx":  true,
	".odt":   true,
	".rtf":   true,
	".pages": true,
}

// TextExtractor converts stored documents into cleaned plain text.
type TextExtractor struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewTextExtractor creates an extractor. A non-positive timeout selects
// DefaultExtractionTimeout and a nil logger disables logging.
func NewTextExtractor(timeout time.Duration, logger *zap.Logger) *TextExtractor {
	if timeout <= 0 {
		timeout = DefaultExtractionTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextExtractor{timeout: timeout, logger: logger}
}

// ExtractFile reads filename from store and converts it to text.
func (x *TextExtractor) ExtractFile(ctx context.Context, store Store, filename string) (string, error) {
	data, err := store.Read(ctx, filename)
	if err != nil {
		return "", err
	}
	return x.Extract(ctx, filename, data)
}

// Extract converts document bytes to text, choosing a parser by the filename
// extension. Empty output is a valid result.
func (x *TextExtractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	start := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: &ExtractionError{Filename: filename, Message: fmt.Sprintf("parser panic: %v", r)}}
			}
		}()
		text, err := convert(filename, data)
		done <- result{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			x.logger.Warn("document extraction failed",
				zap.String("filename", filename),
				zap.Error(res.err))
			return "", res.err
		}
		text := CleanText(res.text)
		x.logger.Debug("document extracted",
			zap.String("filename", filename),
			zap.Int("bytes", len(data)),
			zap.Int("chars", len(text)),
			zap.Duration("took", time.Since(start)))
		return text, nil
	case <-ctx.Done():
		x.logger.Warn("document extraction timed out",
			zap.String("filename", filename),
			zap.Duration("timeout", x.timeout))
		return "", &ExtractionError{Filename: filename, Message: "timed out", Cause: ctx.Err()}
	}
}

// convert dispatches to the parser for the file type
func convert(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case ext == ".txt" || ext == ".text" || ext == ".md" || ext == "":
		return string(data), nil
	case ext == ".html" || ext == ".htm":
		return htmlText(filename, data)
	case binaryFormats[ext]:
		res, err := docconv.Convert(bytes.NewReader(data), docconv.MimeTypeByExtension(filename), false)
		if err != nil {
			return "", &ExtractionError{Filename: filename, Message: "document conversion failed", Cause: err}
		}
		return res.Body, nil
	default:
		return "", &ExtractionError{Filename: filename, Message: fmt.Sprintf("unsupported file type %q", ext)}
	}
}

// htmlText returns the visible text of an HTML document, one block per line
func htmlText(filename string, data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &ExtractionError{Filename: filename, Message: "invalid HTML", Cause: err}
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return doc.Find("body").Text(), nil
}
