// Package transcript parses WebVTT caption files into searchable text.
package transcript

import (
	"io"
	"regexp"
	"strings"

	"sermon-search/domain"
)

var (
	timestampLineRegex = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}\.\d{3})\s*-->\s*\d{2}:\d{2}:\d{2}\.\d{3}`)
	markupTagRegex     = regexp.MustCompile(`<[^>]*>`)
	blockSplitRegex    = regexp.MustCompile(`\n\s*\n`)
	numericLineRegex   = regexp.MustCompile(`^\d+$`)
)

// Parse reads a WebVTT stream and produces the full space-joined transcript
// plus its ordered timestamped chunks. A well-formed file with no usable text
// yields a transcript with zero chunks; that is the "no transcript" state,
// not an error.
func Parse(r io.Reader) (*domain.Transcript, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	content := strings.ReplaceAll(string(raw), "\r\n", "\n")

	// Drop the format header line if present.
	if strings.HasPrefix(content, "WEBVTT") {
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		} else {
			content = ""
		}
	}

	var (
		chunks []domain.TranscriptChunk
		parts  []string
	)

	for _, block := range blockSplitRegex.Split(content, -1) {
		start, text := parseBlock(block)
		if start == "" || text == "" {
			continue
		}

		chunks = append(chunks, domain.TranscriptChunk{
			Timestamp: start,
			Text:      text,
		})
		parts = append(parts, text)
	}

	return &domain.Transcript{
		Full:   strings.Join(parts, " "),
		Chunks: chunks,
	}, nil
}

// parseBlock extracts the start timestamp and joined text of one cue block.
// Cue numbers and the timestamp line itself are not text.
func parseBlock(block string) (start, text string) {
	var textLines []string

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := timestampLineRegex.FindStringSubmatch(line); m != nil {
			start = m[1]
			continue
		}

		if numericLineRegex.MatchString(line) {
			continue
		}

		textLines = append(textLines, line)
	}

	text = strings.Join(textLines, " ")
	text = markupTagRegex.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	return start, text
}
