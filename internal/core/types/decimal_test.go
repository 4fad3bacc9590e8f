package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	assert.True(t, LineTotal(3, MustMoney("5")).Equal(MustMoney("15")))
	assert.True(t, LineTotal(4, MustMoney("2.25")).Equal(MustMoney("9")))
	assert.True(t, LineTotal(0, MustMoney("7")).IsZero())
}

func TestParseLooseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"300", "300", true},
		{" 1,250.50 ", "1250.5", true},
		{"", "0", false},
		{"n/a", "0", false},
		{"-20", "-20", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLooseMoney(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, got.Equal(MustMoney(tt.want)), "got %s", got)
		})
	}
}
