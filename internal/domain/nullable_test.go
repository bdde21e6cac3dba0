package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableJSON(t *testing.T) {
	var patch ItemPatch
	require.NoError(t, json.Unmarshal([]byte(`{"category":null,"sell_price":1500,"sell_date":"2025-02-20","updated_at":"2025-03-01T00:00:00Z"}`), &patch))

	assert.True(t, patch.Category.Present)
	assert.Nil(t, patch.Category.Value)
	require.NotNil(t, patch.SellPrice.Value)
	assert.Equal(t, 1500.0, *patch.SellPrice.Value)
	require.NotNil(t, patch.SellDate.Value)
	assert.Equal(t, "2025-02-20", patch.SellDate.Value.String())
	assert.False(t, patch.Note.Present)

	note := "keep"
	dst := &note
	patch.Note.ApplyTo(&dst)
	require.NotNil(t, dst)
	assert.Equal(t, "keep", *dst)

	patch.Category.ApplyTo(&dst)
	assert.Nil(t, dst)

	err := json.Unmarshal([]byte(`{"sell_price":"lots"}`), &patch)
	assert.Error(t, err)
}
