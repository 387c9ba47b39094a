package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.co", true},
		{"first.last@sub.domain.org", true},
		{"not-an-email", false},
		{"missing@dot", false},
		{"two@@signs.co", false},
		{"spaces in@mail.co", false},
		{"", false},
		{strings.Repeat("a", 256) + "@b.co", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Email(tt.in), "input %q", tt.in)
	}
}

func TestPassword(t *testing.T) {
	assert.False(t, Password("short07"))
	assert.True(t, Password("12345678"))
	assert.True(t, Password(strings.Repeat("p", 128)))
	assert.False(t, Password(strings.Repeat("p", 129)))
}

func TestKeyword(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"AI-2024", true},
		{"brand mentions", true},
		{"a", false},
		{"bad$char", false},
		{strings.Repeat("k", 50), true},
		{strings.Repeat("k", 51), false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Keyword(tt.in), "input %q", tt.in)
	}
}

func TestReportName(t *testing.T) {
	assert.False(t, ReportName(""))
	assert.True(t, ReportName("Q3 brand report"))
	assert.True(t, ReportName(strings.Repeat("r", 100)))
	assert.False(t, ReportName(strings.Repeat("r", 101)))
}
