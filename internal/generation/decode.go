package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Models are asked for bare JSON but routinely wrap it in markdown fences or
// explanatory prose, and occasionally emit trailing commas. DecodeLenient
// isolates that tolerance here so everything downstream works with strictly
// typed structures.

var (
	fenceRegex         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)
)

// DecodeLenient extracts the first JSON object or array from raw model
// output and unmarshals it into v. Returns ErrInvalidResponse when no
// parseable JSON substring exists.
func DecodeLenient(text string, v any) error {
	candidate, err := extractJSON(text)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		// Retry once with trailing commas removed.
		cleaned := trailingCommaRegex.ReplaceAllString(candidate, "$1")
		if err2 := json.Unmarshal([]byte(cleaned), v); err2 != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}

	return nil
}

// extractJSON locates the JSON payload inside free-form model text. Fenced
// blocks take precedence; otherwise the substring between the first opening
// brace or bracket and its matching closer is used.
func extractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	if m := fenceRegex.FindStringSubmatch(text); m != nil {
		fenced := strings.TrimSpace(m[1])
		if fenced != "" {
			text = fenced
		}
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON structure found", ErrInvalidResponse)
	}

	end, err := matchingCloser(text, start)
	if err != nil {
		return "", err
	}

	return text[start : end+1], nil
}

// matchingCloser scans from the opener at start and returns the index of the
// balancing closer, skipping braces inside JSON strings.
func matchingCloser(text string, start int) (int, error) {
	opener := text[start]
	closer := byte('}')
	if opener == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: unterminated JSON structure", ErrInvalidResponse)
}
