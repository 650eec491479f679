package service

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/spec-kit/ticket-assignment/internal/domain"
)

var (
	jsonFencePattern = regexp.MustCompile("(?is)```json\\s*(.*?)```")
	bareFencePattern = regexp.MustCompile("(?s)```\\s*(.*?)```")
)

// SkillParseError reports an inference payload that could not be used.
type SkillParseError struct {
	Reason string
	Err    error
}

func (e *SkillParseError) Error() string {
	if e.Err != nil {
		return "parse skill analysis: " + e.Reason + ": " + e.Err.Error()
	}
	return "parse skill analysis: " + e.Reason
}

func (e *SkillParseError) Unwrap() error {
	return e.Err
}

type skillPayload struct {
	RequiredSkills       *[]string       `json:"required_skills"`
	ComplexityLevel      json.RawMessage `json:"complexity_level"`
	SpecializedKnowledge []string        `json:"specialized_knowledge"`
}

// ParseSkillAnalysis extracts a skill analysis from loosely formatted model
// output: fenced or bare JSON, with comments and trailing commas tolerated.
func ParseSkillAnalysis(raw string) (domain.SkillAnalysis, error) {
	block, ok := extractJSONObject(raw)
	if !ok {
		return domain.SkillAnalysis{}, &SkillParseError{Reason: "no JSON object found"}
	}

	cleaned := stripTrailingCommas(stripJSONComments(block))

	var payload skillPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return domain.SkillAnalysis{}, &SkillParseError{Reason: "invalid JSON", Err: err}
	}
	if payload.RequiredSkills == nil {
		return domain.SkillAnalysis{}, &SkillParseError{Reason: "required_skills missing"}
	}

	return domain.SkillAnalysis{
		RequiredSkills:       compactStrings(*payload.RequiredSkills),
		ComplexityLevel:      parseComplexity(payload.ComplexityLevel),
		SpecializedKnowledge: compactStrings(payload.SpecializedKnowledge),
		Source:               domain.SkillAnalysisInference,
	}, nil
}

func extractJSONObject(raw string) (string, bool) {
	text := raw
	if m := jsonFencePattern.FindStringSubmatch(raw); m != nil {
		text = m[1]
	} else if m := bareFencePattern.FindStringSubmatch(raw); m != nil {
		text = m[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// stripJSONComments drops // and /* */ comments outside string literals.
func stripJSONComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
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

		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				i = len(s)
			} else {
				i += 2 + end + 1
			}
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// stripTrailingCommas removes commas directly followed by } or ].
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
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

		if c == ',' {
			j := i + 1
			for j < len(s) && isJSONSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		if c == '"' {
			inString = true
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func parseComplexity(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return defaultComplexity
	}

	level := defaultComplexity
	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		level = int(number)
	} else {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return defaultComplexity
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return defaultComplexity
		}
		level = parsed
	}

	switch {
	case level < 1:
		return 1
	case level > 5:
		return 5
	}
	return level
}

func compactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
