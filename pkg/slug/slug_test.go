// Copyright (c) 2026 Souqly. All rights reserved.

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/souqly/backend/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Wireless Keyboard", "wireless-keyboard"},
		{"accents", "Café Crème", "cafe-creme"},
		{"punctuation", "USB-C Hub (7-in-1)!", "usb-c-hub-7-in-1"},
		{"multiple_spaces", "a   b", "a-b"},
		{"leading_trailing", "  -hello-  ", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
