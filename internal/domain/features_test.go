package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureVectorJSONFollowsSchemaOrder(t *testing.T) {
	t.Parallel()

	vec := FeatureVector{Relationships: 2, CountryGBR: 1}
	raw, err := json.Marshal(vec)
	require.NoError(t, err)

	body := string(raw)
	last := -1
	for _, name := range FeatureOrder {
		idx := strings.Index(body, `"`+name+`":`)
		require.GreaterOrEqual(t, idx, 0, "missing key %s", name)
		assert.Greater(t, idx, last, "key %s out of order", name)
		last = idx
	}
}

func TestFeatureVectorGetSet(t *testing.T) {
	t.Parallel()

	var vec FeatureVector
	for i, name := range FeatureOrder {
		require.NoError(t, vec.Set(name, float64(i+1)))
	}
	for i, name := range FeatureOrder {
		v, ok := vec.Get(name)
		require.True(t, ok)
		assert.Equal(t, float64(i+1), v)
	}
	assert.Len(t, vec.Values(), len(FeatureOrder))

	assert.Error(t, vec.Set("country_code_FRA", 1))
	_, ok := vec.Get("country_code_FRA")
	assert.False(t, ok)
}

func TestGroupsCoverOneHotFeatures(t *testing.T) {
	t.Parallel()

	var oneHot []string
	for _, g := range Groups {
		require.Equal(t, ChoiceNone, g.Choices[0].Label, "group %s must default to None", g.Name)
		oneHot = append(oneHot, g.Features()...)
	}
	assert.Equal(t, FeatureOrder[len(NumericFeatures):], oneHot)
}

func TestBatchResultColumnsFromFirstRow(t *testing.T) {
	t.Parallel()

	res := BatchResult{Rows: []BatchRow{
		{Cells: []Cell{{Key: "name"}, {Key: "prediction"}}},
		{Cells: []Cell{{Key: "prediction"}, {Key: "extra"}}},
	}}
	assert.Equal(t, []string{"name", "prediction"}, res.Columns())
	assert.Nil(t, BatchResult{}.Columns())
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	reqErr := &RequestError{StatusCode: 500, Body: "boom"}
	assert.Equal(t, "request failed with status 500: boom", reqErr.Error())

	netErr := &NetworkError{Err: assert.AnError}
	assert.ErrorIs(t, netErr, assert.AnError)
	assert.Contains(t, netErr.Error(), "network error")
}
