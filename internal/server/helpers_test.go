package server

import (
	"strconv"
	"testing"

	"glowup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestDecodeID(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		key      string
		want     uint
		wantRule string
		wantErr  bool
	}{
		{name: "bare number", raw: "42", key: "id", want: 42},
		{name: "padded", raw: "  7 \n", key: "id", want: 7},
		{name: "object", raw: `{"id":9}`, key: "id", want: 9},
		{name: "object with other key", raw: `{"post_id":3,"id":8}`, key: "post_id", want: 3},
		{name: "zero passes through", raw: "0", key: "id", want: 0},
		{name: "integral float", raw: "5.0", key: "id", want: 5},
		{name: "empty", raw: "", key: "id", wantRule: "required", wantErr: true},
		{name: "missing key", raw: `{"user_id":1}`, key: "post_id", wantRule: "required", wantErr: true},
		{name: "string id", raw: `"12"`, key: "id", wantRule: "number", wantErr: true},
		{name: "negative", raw: "-1", key: "id", wantRule: "integer", wantErr: true},
		{name: "fraction", raw: "1.5", key: "id", wantRule: "integer", wantErr: true},
		{name: "too large", raw: "1e12", key: "id", wantRule: "integer", wantErr: true},
		{name: "broken object", raw: `{"id":`, key: "id", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeID([]byte(tt.raw), tt.key)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			require.Error(t, err)
			appErr, ok := models.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, models.CodeValidation, appErr.Code)
			if tt.wantRule != "" {
				require.Len(t, appErr.Fields, 1)
				assert.Equal(t, tt.key, appErr.Fields[0].Field)
				assert.Equal(t, tt.wantRule, appErr.Fields[0].Rule)
			}
		})
	}
}

func TestDecodeInput(t *testing.T) {
	type sample struct {
		Name  string   `json:"name"`
		Count int      `json:"count"`
		Tags  []string `json:"tags"`
	}

	t.Run("empty keeps zero value", func(t *testing.T) {
		var got sample
		require.NoError(t, decodeInput([]byte("  "), &got))
		assert.Equal(t, sample{}, got)
	})

	t.Run("decodes object", func(t *testing.T) {
		var got sample
		require.NoError(t, decodeInput([]byte(`{"name":"a","count":2,"tags":["x"]}`), &got))
		assert.Equal(t, sample{Name: "a", Count: 2, Tags: []string{"x"}}, got)
	})

	tests := []struct {
		name    string
		raw     string
		message string
	}{
		{name: "wrong field type", raw: `{"count":"two"}`, message: "Invalid input: count must be a number"},
		{name: "wrong array type", raw: `{"tags":"x"}`, message: "Invalid input: tags must be an array"},
		{name: "not an object", raw: `[1,2]`, message: "Invalid input: expected an object"},
		{name: "syntax", raw: `{"name":}`, message: "Invalid input: malformed JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sample
			err := decodeInput([]byte(tt.raw), &got)
			require.Error(t, err)
			assert.True(t, models.HasCode(err, models.CodeValidation))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}
