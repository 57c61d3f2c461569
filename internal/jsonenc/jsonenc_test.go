package jsonenc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"map keeps unicode", map[string]string{"name": "Строка"}, `{"name":"Строка"}`},
		{"html not escaped", map[string]string{"q": "a<b&c>"}, `{"q":"a<b&c>"}`},
		{"sorted map keys", map[string]int{"b": 2, "a": 1}, `{"a":1,"b":2}`},
		{"slice", []any{1, "x", true, nil}, `[1,"x",true,null]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarshal_Unsupported(t *testing.T) {
	_, err := Marshal(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestMarshalASCII(t *testing.T) {
	got, err := MarshalASCII(map[string]string{"foo": "bar"})
	require.NoError(t, err)
	assert.Equal(t, `{"foo":"bar"}`, string(got))

	got, err = MarshalASCII(map[string]string{"text": "Тело"})
	require.NoError(t, err)
	assert.Equal(t, `{"text":"\u0422\u0435\u043b\u043e"}`, string(got))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(got, &decoded))
	assert.Equal(t, "Тело", decoded["text"])
}

func TestEscapeNonASCII_SurrogatePairs(t *testing.T) {
	got := EscapeNonASCII([]byte(`"😀"`))
	assert.Equal(t, `"\ud83d\ude00"`, string(got))

	var decoded string
	require.NoError(t, json.Unmarshal(got, &decoded))
	assert.Equal(t, "😀", decoded)
}
