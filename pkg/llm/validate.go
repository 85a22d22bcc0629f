package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/umputun/robohub/pkg/domain"
)

// ValidationError lists all field problems of an enrichment response
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid enrichment: " + strings.Join(e.Problems, "; ")
}

// ParseEnrichment decodes the completion text and validates it
func ParseEnrichment(content string) (domain.EnrichedArticle, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(strings.TrimSpace(content))))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return domain.EnrichedArticle{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if fields == nil {
		return domain.EnrichedArticle{}, fmt.Errorf("%w: not an object", ErrInvalidJSON)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domain.EnrichedArticle{}, fmt.Errorf("%w: unexpected content after the object", ErrInvalidJSON)
	}
	return Validate(fields)
}

// Validate checks decoded enrichment fields and converts them to an article.
// Numbers are accepted as json.Number, float64 or int.
func Validate(fields map[string]any) (domain.EnrichedArticle, error) {
	var res domain.EnrichedArticle
	var problems []string

	requiredString := func(key string) string {
		s, ok := fields[key].(string)
		if !ok || strings.TrimSpace(s) == "" {
			problems = append(problems, key+" must be a non-empty string")
			return ""
		}
		return strings.TrimSpace(s)
	}
	res.Title = requiredString("title")
	res.Summary = requiredString("summary_ai")

	if cat, _ := fields["category"].(string); domain.Category(cat).Valid() {
		res.Category = domain.Category(cat)
	} else {
		problems = append(problems, fmt.Sprintf("category must be one of %v, got %v", domain.Categories, fields["category"]))
	}

	score, err := integer(fields["importance_score"])
	switch {
	case err != nil:
		problems = append(problems, "importance_score "+err.Error())
	case score < 0 || score > 100:
		problems = append(problems, fmt.Sprintf("importance_score must be in [0,100], got %d", score))
	default:
		res.ImportanceScore = score
	}

	switch tags := fields["robot_tags"].(type) {
	case nil:
		res.Tags = []string{}
	case []any:
		strs := make([]string, 0, len(tags))
		for _, t := range tags {
			s, ok := t.(string)
			if !ok {
				problems = append(problems, "robot_tags must contain only strings")
				break
			}
			strs = append(strs, s)
		}
		res.Tags = SanitizeTags(strs)
	case []string:
		res.Tags = SanitizeTags(tags)
	default:
		problems = append(problems, "robot_tags must be an array of strings")
	}

	optionalString := func(key string) *string {
		switch v := fields[key].(type) {
		case nil:
			return nil
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return &s
			}
			return nil
		default:
			problems = append(problems, key+" must be a string or null")
			return nil
		}
	}
	res.CompanyName = optionalString("company_name")
	res.CompanyWebsite = optionalString("company_website")

	if len(problems) > 0 {
		return domain.EnrichedArticle{}, &ValidationError{Problems: problems}
	}
	return res, nil
}

// integer converts a decoded JSON number to int, rejecting fractions
func integer(v any) (int, error) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, fmt.Errorf("is required")
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		parsed, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("must be a number, got %q", n.String())
		}
		f = parsed
	case float64:
		f = n
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("must be a number, got %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("must be an integer, got %v", f)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("out of range, got %v", f)
	}
	return int(f), nil
}

// SanitizeTags trims tags, drops empty ones and removes duplicates.
// The first occurrence wins and keeps its case.
func SanitizeTags(tags []string) []string {
	res := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		res = append(res, t)
	}
	return res
}
