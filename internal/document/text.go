// Package document turns uploaded policy documents into plain text and
// optionally archives the originals.
package document

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// maxTextChars bounds how much document text is forwarded to the model.
const maxTextChars = 8000

// Upload is a received file held in memory.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReadUpload loads a multipart file into memory.
func ReadUpload(fh *multipart.FileHeader) (Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return Upload{}, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Upload{}, fmt.Errorf("read upload %q: %w", fh.Filename, err)
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return Upload{Name: fh.Filename, ContentType: ct, Data: data}, nil
}

// IsPDF reports whether the upload looks like a PDF.
func (u Upload) IsPDF() bool {
	return strings.HasPrefix(u.ContentType, "application/pdf") ||
		strings.EqualFold(filepath.Ext(u.Name), ".pdf") ||
		bytes.HasPrefix(u.Data, []byte("%PDF-"))
}

// Text extracts the document text. PDFs go through the PDF reader,
// anything else is treated as UTF-8.
func Text(u Upload) (string, error) {
	if !u.IsPDF() {
		if !utf8.Valid(u.Data) {
			return strings.ToValidUTF8(string(u.Data), ""), nil
		}
		return string(u.Data), nil
	}

	return pdfText(u)
}

// pdfText reads a PDF's plain text. The PDF reader panics on some
// malformed files; the panic is returned as an error.
func pdfText(u Upload) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf %q: %v", u.Name, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(u.Data), int64(len(u.Data)))
	if err != nil {
		return "", fmt.Errorf("open pdf %q: %w", u.Name, err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text %q: %w", u.Name, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text %q: %w", u.Name, err)
	}
	return buf.String(), nil
}

// Excerpt trims text to the prefix the model is shown.
func Excerpt(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxTextChars {
		return text
	}
	cut := maxTextChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// CharCount counts characters of the trimmed text.
func CharCount(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}
