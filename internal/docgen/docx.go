package docgen

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// A docx file is a zip archive; the body lives in word/document.xml.
// Templates mark the per-passenger block with {#passengers}...{/passengers}
// and use {token} placeholders inside and outside it. Our template
// generator emits each token as a single text run, so markers are never
// split across XML runs and plain string surgery on the document part is
// sufficient.

const documentPart = "word/document.xml"

const (
	regionOpen  = "{#passengers}"
	regionClose = "{/passengers}"
)

// ErrNoRegion is returned when a template lacks the passenger
// region markers.
var ErrNoRegion = errors.New("template has no {#passengers} region")

// FillTemplate expands the passenger region of a docx template once per
// row, substituting the row's tokens inside each copy, then applies the
// global tokens to the whole document. Returns the rebuilt docx bytes.
func FillTemplate(template []byte, rows []map[string]string, global map[string]string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, file := range zr.File {
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}

		if file.Name == documentPart {
			doc, err := expandRegion(string(content), rows)
			if err != nil {
				return nil, err
			}
			content = []byte(substitute(doc, global))
		}

		w, err := zw.Create(file.Name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(content); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// expandRegion repeats the text between the region markers once per row.
// The region typically starts mid-paragraph (after the opening marker)
// and ends mid-paragraph (before the closing one); concatenating the
// copies re-balances the XML because each copy's trailing fragment closes
// the next copy's leading fragment, which is how inline loop tags are
// laid out in the templates we consume.
func expandRegion(doc string, rows []map[string]string) (string, error) {
	start := strings.Index(doc, regionOpen)
	end := strings.Index(doc, regionClose)
	if start < 0 || end < 0 || end < start {
		return "", ErrNoRegion
	}

	region := doc[start+len(regionOpen) : end]

	var b strings.Builder
	b.WriteString(doc[:start])
	for i, row := range rows {
		copyRow := make(map[string]string, len(row)+1)
		for k, v := range row {
			copyRow[k] = v
		}
		copyRow["_index"] = fmt.Sprintf("%d", i+1)
		b.WriteString(substitute(region, copyRow))
	}
	b.WriteString(doc[end+len(regionClose):])
	return b.String(), nil
}

// substitute replaces every {token} with its XML-escaped value.
func substitute(s string, tokens map[string]string) string {
	if len(tokens) == 0 {
		return s
	}
	pairs := make([]string, 0, len(tokens)*2)
	for k, v := range tokens {
		pairs = append(pairs, "{"+k+"}", xmlEscape(v))
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
