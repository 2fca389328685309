package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"ocragent/internal/model"
)

// docxExtractor reads the OOXML main document part and joins non-blank
// paragraphs with newlines. Page boundaries inside a DOCX are not modeled:
// the result is always one page numbered 1.
type docxExtractor struct{}

func (e *docxExtractor) Extract(_ context.Context, data []byte) ([]model.Page, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Stage: "docx", Cause: err}
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return nil, &ExtractionError{Stage: "docx", Cause: err}
			}
			break
		}
	}
	if docXML == nil {
		return nil, &ExtractionError{Stage: "docx", Cause: errors.New("word/document.xml not found")}
	}
	defer docXML.Close()

	paragraphs, err := docxParagraphs(docXML)
	if err != nil {
		return nil, &ExtractionError{Stage: "docx", Cause: err}
	}

	return []model.Page{{PageNumber: 1, Text: strings.Join(paragraphs, "\n")}}, nil
}

// docxParagraphs streams the document XML, collecting the text runs of each
// w:p element in document order. Paragraphs that are blank after trimming
// are dropped.
func docxParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var paragraphs []string
	var current strings.Builder
	inParagraph := false
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			case "tab":
				if inParagraph {
					current.WriteByte('\t')
				}
			case "br":
				if inParagraph {
					current.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inParagraph {
					if text := current.String(); strings.TrimSpace(text) != "" {
						paragraphs = append(paragraphs, text)
					}
				}
				inParagraph = false
			}
		}
	}
	return paragraphs, nil
}
