// Package ocr decodes OCR results into plain text and logo annotations.
package ocr

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	jsoniter "github.com/json-iterator/go"
	"github.com/rm-hull/brand-insights-api/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Document is the part of an OCR result the brand predictors consume.
type Document struct {
	Text  string                  `json:"text"`
	Logos []models.LogoAnnotation `json:"logos,omitempty"`
}

type textAnnotation struct {
	Description string `json:"description"`
	Locale      string `json:"locale,omitempty"`
}

type visionResponse struct {
	TextAnnotations    []textAnnotation `json:"textAnnotations"`
	FullTextAnnotation *struct {
		Text string `json:"text"`
	} `json:"fullTextAnnotation"`
	LogoAnnotations []models.LogoAnnotation `json:"logoAnnotations"`
	Error           *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type visionBatch struct {
	Responses []visionResponse `json:"responses"`
}

// ParseVisionJSON decodes a Google Cloud Vision annotation result, either a
// batch with a "responses" array (only the first response is used) or a
// single response object.
func ParseVisionJSON(data []byte) (*Document, error) {
	var batch visionBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal OCR result: %w", err)
	}

	var resp visionResponse
	if len(batch.Responses) > 0 {
		resp = batch.Responses[0]
	} else if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal OCR response: %w", err)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("OCR error %d: %s", resp.Error.Code, resp.Error.Message)
	}

	doc := &Document{Logos: resp.LogoAnnotations}
	switch {
	case resp.FullTextAnnotation != nil && resp.FullTextAnnotation.Text != "":
		doc.Text = resp.FullTextAnnotation.Text
	case len(resp.TextAnnotations) > 0:
		doc.Text = resp.TextAnnotations[0].Description
	}
	return doc, nil
}

// ParseHOCR extracts the recognised text from an hOCR document, one output
// line per ocr_line element. Documents without line markup fall back to the
// text of the body.
func ParseHOCR(r io.Reader) (*Document, error) {
	html, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	var lines []string
	html.Find(".ocr_line").Each(func(_ int, line *goquery.Selection) {
		var words []string
		line.Find(".ocrx_word").Each(func(_ int, word *goquery.Selection) {
			if text := strings.TrimSpace(word.Text()); text != "" {
				words = append(words, text)
			}
		})
		if len(words) == 0 {
			words = strings.Fields(line.Text())
		}
		if len(words) > 0 {
			lines = append(lines, strings.Join(words, " "))
		}
	})

	if len(lines) == 0 {
		return &Document{Text: strings.Join(strings.Fields(html.Find("body").Text()), " ")}, nil
	}
	return &Document{Text: strings.Join(lines, "\n")}, nil
}

// Parse picks the decoder from the content type, sniffing the payload when
// the content type is not conclusive.
func Parse(contentType string, data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	switch {
	case strings.Contains(contentType, "html"), strings.Contains(contentType, "xml"):
		return ParseHOCR(bytes.NewReader(data))
	case strings.Contains(contentType, "json"):
		return ParseVisionJSON(data)
	case len(trimmed) > 0 && trimmed[0] == '<':
		return ParseHOCR(bytes.NewReader(data))
	default:
		return ParseVisionJSON(data)
	}
}
