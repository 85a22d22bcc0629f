package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/robohub/pkg/domain"
)

func TestParseEnrichment(t *testing.T) {
	t.Run("valid full response", func(t *testing.T) {
		res, err := ParseEnrichment(`{
			"title": "  Acme ships a humanoid  ",
			"summary_ai": "Acme Robotics starts deliveries of its humanoid.",
			"category": "product",
			"robot_tags": ["humanoid", " humanoid", "logistics", ""],
			"importance_score": 72,
			"company_name": " Acme Robotics ",
			"company_website": "https://acme.example.com"
		}`)
		require.NoError(t, err)
		assert.Equal(t, "Acme ships a humanoid", res.Title)
		assert.Equal(t, "Acme Robotics starts deliveries of its humanoid.", res.Summary)
		assert.Equal(t, domain.CategoryProduct, res.Category)
		assert.Equal(t, []string{"humanoid", "logistics"}, res.Tags)
		assert.Equal(t, 72, res.ImportanceScore)
		require.NotNil(t, res.CompanyName)
		assert.Equal(t, "Acme Robotics", *res.CompanyName)
		require.NotNil(t, res.CompanyWebsite)
		assert.Equal(t, "https://acme.example.com", *res.CompanyWebsite)
	})

	t.Run("optional fields absent or blank", func(t *testing.T) {
		res, err := ParseEnrichment(`{"title":"t","summary_ai":"s","category":"other","importance_score":0,
			"company_name":"   ","company_website":null}`)
		require.NoError(t, err)
		assert.Equal(t, []string{}, res.Tags)
		assert.Nil(t, res.CompanyName)
		assert.Nil(t, res.CompanyWebsite)
		assert.Equal(t, 0, res.ImportanceScore)
	})

	t.Run("whole float score accepted", func(t *testing.T) {
		res, err := ParseEnrichment(`{"title":"t","summary_ai":"s","category":"funding","importance_score":100.0}`)
		require.NoError(t, err)
		assert.Equal(t, 100, res.ImportanceScore)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := ParseEnrichment(`{"title":"","summary_ai":"x","category":"product","importance_score":50}`)
		require.Error(t, err)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"title must be a non-empty string"}, verr.Problems)
		assert.False(t, errors.Is(err, ErrInvalidJSON))
	})

	t.Run("not json", func(t *testing.T) {
		_, err := ParseEnrichment("Sure! Here is the summary you asked for")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidJSON))
	})

	t.Run("content after the object", func(t *testing.T) {
		valid := `{"title":"t","summary_ai":"s","category":"other","importance_score":5}`
		for _, content := range []string{valid + " trailing garbage", valid + "}", valid + valid} {
			_, err := ParseEnrichment(content)
			require.Error(t, err, content)
			assert.True(t, errors.Is(err, ErrInvalidJSON), content)
		}

		_, err := ParseEnrichment(valid + "\n\n")
		require.NoError(t, err)
	})

	t.Run("json but not an object", func(t *testing.T) {
		for _, content := range []string{`null`, `[1,2]`, `"text"`} {
			_, err := ParseEnrichment(content)
			require.Error(t, err, content)
			assert.True(t, errors.Is(err, ErrInvalidJSON), content)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() map[string]any {
		return map[string]any{
			"title":            "title",
			"summary_ai":       "summary",
			"category":         "partnership",
			"importance_score": json.Number("10"),
		}
	}

	tests := []struct {
		name    string
		modify  func(m map[string]any)
		problem string
	}{
		{name: "blank summary", modify: func(m map[string]any) { m["summary_ai"] = "   " }, problem: "summary_ai must be a non-empty string"},
		{name: "non-string title", modify: func(m map[string]any) { m["title"] = 42 }, problem: "title must be a non-empty string"},
		{name: "unknown category", modify: func(m map[string]any) { m["category"] = "research" }, problem: "category must be one of"},
		{name: "category case", modify: func(m map[string]any) { m["category"] = "Product" }, problem: "category must be one of"},
		{name: "missing score", modify: func(m map[string]any) { delete(m, "importance_score") }, problem: "importance_score is required"},
		{name: "fractional score", modify: func(m map[string]any) { m["importance_score"] = json.Number("50.5") }, problem: "must be an integer"},
		{name: "score above range", modify: func(m map[string]any) { m["importance_score"] = json.Number("101") }, problem: "must be in [0,100]"},
		{name: "negative score", modify: func(m map[string]any) { m["importance_score"] = float64(-1) }, problem: "must be in [0,100]"},
		{name: "string score", modify: func(m map[string]any) { m["importance_score"] = "50" }, problem: "must be a number"},
		{name: "tags not array", modify: func(m map[string]any) { m["robot_tags"] = "ai" }, problem: "robot_tags must be an array of strings"},
		{name: "tags with number", modify: func(m map[string]any) { m["robot_tags"] = []any{"ai", 1} }, problem: "robot_tags must contain only strings"},
		{name: "company name not string", modify: func(m map[string]any) { m["company_name"] = true }, problem: "company_name must be a string or null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.modify(m)
			res, err := Validate(m)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.problem)
			assert.Equal(t, domain.EnrichedArticle{}, res)
		})
	}

	t.Run("all problems reported", func(t *testing.T) {
		_, err := Validate(map[string]any{"category": "nope"})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Problems, 4)
	})

	t.Run("valid base", func(t *testing.T) {
		res, err := Validate(valid())
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryPartnership, res.Category)
		assert.Equal(t, 10, res.ImportanceScore)
		assert.Equal(t, []string{}, res.Tags)
	})
}

func TestSanitizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "trim dedup and drop empty", in: []string{"  ai", "ai", "", "Hardware "}, want: []string{"ai", "Hardware"}},
		{name: "case kept and distinct", in: []string{"AI", "ai"}, want: []string{"AI", "ai"}},
		{name: "only blanks", in: []string{" ", "\t"}, want: []string{}},
		{name: "nil", in: nil, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeTags(tt.in))
		})
	}
}
