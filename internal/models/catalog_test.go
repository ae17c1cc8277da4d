package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleIDUnmarshal(t *testing.T) {
	cases := []struct {
		raw  string
		want FlexibleID
	}{
		{raw: `{"taskId":1001,"enterpriseId":77}`, want: "1001"},
		{raw: `{"taskId":"t-9","enterpriseId":"ent-9"}`, want: "t-9"},
		{raw: `{"taskId":null}`, want: ""},
	}
	for _, tc := range cases {
		var task TaskPosting
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &task), tc.raw)
		assert.Equal(t, tc.want, task.ID)
	}

	var task TaskPosting
	assert.Error(t, json.Unmarshal([]byte(`{"taskId":1.5}`), &task))
	assert.Error(t, json.Unmarshal([]byte(`{"taskId":true}`), &task))
}

func TestFlexibleIDMarshalsAsString(t *testing.T) {
	raw, err := json.Marshal(School{ID: "42", Name: "Design Academy"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":"42"`)
}
