package pdf

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/quotex/quote-extractor/internal/quote"
)

// Reader loads PDF quote documents into the form the extraction engine
// consumes: per-page text plus recovered table matrices.
type Reader struct {
	validator *Validator
	logger    *slog.Logger
}

// NewReader creates a new PDF reader with the specified size constraint. A nil
// logger falls back to the default slog logger.
func NewReader(maxFileSize int64, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		validator: NewValidator(maxFileSize),
		logger:    logger,
	}
}

// ReadDocument reads one PDF file. Only inability to access or open the file
// is returned as an error; a page whose text or positioned content cannot be
// decoded degrades to an empty page with a logged warning.
func (r *Reader) ReadDocument(path string) (*quote.Document, error) {
	if err := r.validator.ValidateFile(path); err != nil {
		return nil, err
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	doc := &quote.Document{Path: path}
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, "")
			continue
		}

		doc.Pages = append(doc.Pages, r.pageText(page, path, pageNum))
		doc.Tables = append(doc.Tables, r.pageTables(page, path, pageNum)...)
	}

	doc.FullText = strings.Join(doc.Pages, "\n")
	r.logger.Debug("document read",
		"file", path,
		"pages", len(doc.Pages),
		"tables", len(doc.Tables),
	)
	return doc, nil
}

func (r *Reader) pageText(page pdf.Page, path string, pageNum int) string {
	content, err := page.GetPlainText(nil)
	if err != nil {
		r.logger.Warn("page text extraction failed",
			"file", path, "page", pageNum, "error", err)
		return ""
	}
	return content
}

// pageTables recovers table matrices from the page's positioned text runs.
// The content decoder panics on some malformed pages; that is contained here.
func (r *Reader) pageTables(page pdf.Page, path string, pageNum int) (tables [][][]string) {
	defer func() {
		if cause := recover(); cause != nil {
			r.logger.Warn("page table recovery failed",
				"file", path, "page", pageNum, "cause", cause)
			tables = nil
		}
	}()
	return tablesFromTexts(page.Content().Text)
}
