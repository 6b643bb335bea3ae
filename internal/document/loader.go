package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/ledongthuc/pdf"
)

// webFetchTimeout bounds the blog-post fetch.
const webFetchTimeout = 30 * time.Second

// LoadFile loads a local file, dispatching on extension. skipPages only
// applies to PDFs.
func LoadFile(path string, skipPages int) (*Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(absPath))
	if !SupportedExtensions[ext] {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	if ext == ".pdf" {
		return LoadPDF(absPath, skipPages)
	}
	return LoadText(absPath)
}

// LoadPDF extracts and cleans the text of a PDF, skipping the first
// skipPages pages (cover, table of contents).
func LoadPDF(path string, skipPages int) (*Document, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		if i <= skipPages {
			continue
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		pages = append(pages, pageText)
	}

	text := CleanPages(pages)
	if text == "" {
		return nil, fmt.Errorf("no extractable text in %s", filepath.Base(path))
	}

	return &Document{
		ID:         NewID(path),
		Source:     path,
		Title:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		SourceType: SourceTypePDF,
		Text:       text,
		LoadedAt:   time.Now(),
	}, nil
}

// LoadText loads a plain-text or markdown file.
func LoadText(path string) (*Document, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	text := Clean(string(content))
	if text == "" {
		return nil, fmt.Errorf("file %s is empty after cleanup", filepath.Base(path))
	}

	return &Document{
		ID:         NewID(path),
		Source:     path,
		Title:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		SourceType: SourceTypeText,
		Text:       text,
		LoadedAt:   time.Now(),
	}, nil
}

// LoadURL fetches a blog post and extracts its readable article text.
func LoadURL(pageURL string) (*Document, error) {
	article, err := readability.FromURL(pageURL, webFetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}

	text := Clean(article.TextContent)
	if text == "" {
		return nil, fmt.Errorf("no readable content at %s", pageURL)
	}

	title := article.Title
	if title == "" {
		title = pageURL
	}

	return &Document{
		ID:         NewID(pageURL),
		Source:     pageURL,
		Title:      title,
		SourceType: SourceTypeWeb,
		Text:       text,
		LoadedAt:   time.Now(),
	}, nil
}
