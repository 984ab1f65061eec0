// Package resume extracts plain text from the candidate's PDF résumé.
package resume

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText pulls the text content out of a PDF file. An unreadable or
// empty document returns an error; the caller substitutes a placeholder
// excerpt rather than aborting the run.
func ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("no text extracted from %s", path)
	}
	return out, nil
}
