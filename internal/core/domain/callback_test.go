package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackEncodeDecode(t *testing.T) {
	tests := []struct {
		cb   Callback
		data string
	}{
		{cb: Callback{Kind: KindNextPage}, data: "np"},
		{cb: Callback{Kind: KindFavorite, ID: 12}, data: "fv:12"},
		{cb: Callback{Kind: KindFilterToggle, Option: 3, On: true}, data: "ft:3:1"},
		{cb: Callback{Kind: KindFilterToggle, Option: 0}, data: "ft:0:0"},
		{cb: Callback{Kind: KindEditField, Field: "photo4"}, data: "ef:photo4"},
		{cb: Callback{Kind: KindApproveReview, ID: 9}, data: "ar:9"},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			assert.Equal(t, tt.data, tt.cb.Encode())
			got, err := DecodeCallback(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.cb, got)
		})
	}
}

func TestDecodeCallbackRejects(t *testing.T) {
	for _, data := range []string{
		"",
		"xx",
		"np:1",
		"fv",
		"fv:0",
		"fv:abc",
		"ft:1",
		"ft:-1:1",
		"ft:1:2",
		"ef:password",
		"fv:" + strings.Repeat("9", MaxCallbackLen),
	} {
		t.Run(data, func(t *testing.T) {
			_, err := DecodeCallback(data)
			assert.ErrorIs(t, err, ErrInvalidCallback)
		})
	}
}

func TestEveryEditFieldFitsCallback(t *testing.T) {
	for _, spec := range EditFields() {
		data := Callback{Kind: KindEditField, Field: spec.Field}.Encode()
		assert.LessOrEqual(t, len(data), MaxCallbackLen, spec.Field)
	}
}
