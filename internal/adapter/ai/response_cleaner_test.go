package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONResponse_MarkdownFences(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()

	in := "```json\n{\"evaluations\": []}\n```"
	out := rc.CleanJSONResponse(in)
	assert.JSONEq(t, `{"evaluations": []}`, out)

	in = "```\n{\"a\": 1}\n```"
	assert.JSONEq(t, `{"a": 1}`, rc.CleanJSONResponse(in))
}

func TestCleanJSONResponse_ExtractsObjectFromProse(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()

	in := `Hier ist die Bewertung: {"evaluations": [{"foundation_id": "f1", "match_score": 0.8}]} Ich hoffe das hilft.`
	out := rc.CleanJSONResponse(in)
	assert.JSONEq(t, `{"evaluations": [{"foundation_id": "f1", "match_score": 0.8}]}`, out)
}

func TestCleanJSONResponse_NestedBracesAndStrings(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()

	in := `{"a": {"b": "contains } brace"}, "c": 1}`
	out := rc.CleanJSONResponse(in)
	assert.JSONEq(t, in, out)
}

func TestCleanJSONResponse_TrailingCommas(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()

	in := `{"evaluations": [{"foundation_id": "f1", "match_score": 0.5,},],}`
	out := rc.CleanJSONResponse(in)
	assert.True(t, rc.IsValidJSON(out), "got: %s", out)
}

func TestCleanAndValidateJSON_Failure(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()

	_, err := rc.CleanAndValidateJSON("keine bewertung möglich")
	require.Error(t, err)
	var vErr *JSONValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "keine bewertung möglich", vErr.Original)
}

func TestIsValidJSON(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()
	assert.True(t, rc.IsValidJSON(`{"x": [1,2,3]}`))
	assert.True(t, rc.IsValidJSON(`[]`))
	assert.False(t, rc.IsValidJSON(`{"x": }`))
}
