package intake

import (
	"errors"
	"io"
	"os"
)

// MaxFiles is the largest batch the processing API accepts.
const MaxFiles = 8

// MediaTypePDF is the only media type admitted into a selection.
const MediaTypePDF = "application/pdf"

// ErrTooManyFiles is returned by Accept when a batch holds more than MaxFiles
// PDFs. The selection is left untouched.
var ErrTooManyFiles = errors.New("too many files")

// File is a candidate document chosen by the user.
type File struct {
	Path      string
	Name      string
	MediaType string
	Size      int64
	// Pages is zero when the page count could not be read.
	Pages int
}

// IsPDF reports whether the sniffed media type is exactly PDF.
func (f File) IsPDF() bool {
	return f.MediaType == MediaTypePDF
}

// FileName implements api.Document.
func (f File) FileName() string {
	return f.Name
}

// Open implements api.Document.
func (f File) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// Selection is the ordered list of files queued for submission. Its length
// never exceeds MaxFiles. The zero value is an empty selection.
type Selection struct {
	files []File
}

// FilterPDF returns the PDF members of candidates in their original order.
func FilterPDF(candidates []File) []File {
	var out []File
	for _, f := range candidates {
		if f.IsPDF() {
			out = append(out, f)
		}
	}
	return out
}

// Accept replaces the selection with the PDF members of candidates. When more
// than MaxFiles PDFs remain the batch is rejected with ErrTooManyFiles and the
// previous selection is kept. It returns the number of non-PDF candidates
// that were dropped.
func (s *Selection) Accept(candidates []File) (int, error) {
	pdfs := FilterPDF(candidates)
	if len(pdfs) > MaxFiles {
		return 0, ErrTooManyFiles
	}
	s.files = pdfs
	return len(candidates) - len(pdfs), nil
}

// Remove drops the entry at index. It reports false when index is out of
// range.
func (s *Selection) Remove(index int) bool {
	if index < 0 || index >= len(s.files) {
		return false
	}
	s.files = append(s.files[:index:index], s.files[index+1:]...)
	return true
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.files = nil
}

// Len returns the number of selected files.
func (s *Selection) Len() int {
	return len(s.files)
}

// Files returns a copy of the selected files.
func (s *Selection) Files() []File {
	if len(s.files) == 0 {
		return nil
	}
	dup := make([]File, len(s.files))
	copy(dup, s.files)
	return dup
}

// TotalSize sums the sizes of the selected files.
func (s *Selection) TotalSize() int64 {
	var total int64
	for _, f := range s.files {
		total += f.Size
	}
	return total
}
