package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBRPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(61) 99999-1234", "+5561999991234"},
		{"61999991234", "+5561999991234"},
		{"5561999991234", "+5561999991234"},
		{"+55 61 99999-1234", "+5561999991234"},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeBRPhone(tt.in), tt.in)
	}
}
