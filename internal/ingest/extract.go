// Package ingest extracts plain text from uploaded submission files. It is
// the extraction collaborator for the scoring engine: callers that want
// the engine's empty-text-on-failure contract use Extract, callers that
// want to log the cause use ExtractText.
package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Allowed reports whether the filename has a supported submission
// extension.
func Allowed(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx", ".txt":
		return true
	}
	return false
}

// Extract returns the submission's plain text, or the empty string when
// extraction fails. An empty text is a valid low-information input to the
// scoring engine, never an error there.
func Extract(filename string, raw []byte) string {
	text, err := ExtractText(filename, raw)
	if err != nil {
		return ""
	}
	return text
}

// ExtractText extracts plain text from a submission by extension.
func ExtractText(filename string, raw []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var text string
	var err error
	switch ext {
	case ".pdf":
		text, err = parsePDF(raw)
	case ".docx":
		text, err = parseDOCX(raw)
	case ".txt":
		text = string(raw)
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
	if err != nil {
		return "", err
	}
	return normalizeWhitespace(text), nil
}

func parsePDF(raw []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		// Pages that fail to decode are skipped rather than failing the
		// whole submission.
		if content, err := page.GetPlainText(nil); err == nil {
			sb.WriteString(content)
			sb.WriteByte('\n')
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return sb.String(), nil
}

func parseDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}
	doc, err := readZipEntry(zr, "word/document.xml")
	if err != nil {
		return "", err
	}

	dec := xml.NewDecoder(bytes.NewReader(doc))
	var sb strings.Builder
	inRun := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inRun = true
			case "p":
				if sb.Len() > 0 {
					sb.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inRun = false
			}
		case xml.CharData:
			if inRun {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s not found", name)
}

func normalizeWhitespace(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}
