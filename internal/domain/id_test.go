package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAcceptsStringsAndNumbers(t *testing.T) {
	var got struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"TCK-1","b":42,"c":null}`), &got))

	assert.Equal(t, ID("TCK-1"), got.A)
	assert.Equal(t, ID("42"), got.B)
	assert.Equal(t, ID(""), got.C)
}

func TestIDKeepsJSONKindOnMarshal(t *testing.T) {
	out, err := json.Marshal(map[string]ID{"n": "42", "s": "TCK-1", "z": "007"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":42,"s":"TCK-1","z":"007"}`, string(out))
}

func TestIDRejectsBooleans(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}
