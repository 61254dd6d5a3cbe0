package helpers_test

import (
	"testing"
	"time"

	"github.com/isometry/litium-webhooks/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestPtr(t *testing.T) {
	testCases := []struct {
		Name  string
		Input any
	}{
		{
			Name:  "nil",
			Input: nil,
		},
		{
			Name:  "flag_shorthand",
			Input: "m",
		},
		{
			Name:  "max_body_bytes",
			Input: int64(1 << 20),
		},
		{
			Name:  "timeout",
			Input: 5 * time.Second,
		},
		{
			Name:  "headers",
			Input: map[string]string{"ms-signature": "sha256=00"},
		},
		{
			Name:  "actions",
			Input: []string{"a", "b", "a"},
		},
		{
			Name:  "nil_pointer",
			Input: (*string)(nil),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			if tc.Input == nil {
				assert.Nil(t, helpers.Ptr(tc.Input))
			} else {
				assert.Equal(t, &tc.Input, helpers.Ptr(tc.Input))
			}
		})
	}
}
