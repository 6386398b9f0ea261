package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name         string
		version      string
		versionRange string
		expected     bool
	}{
		{"exact match", "3.1.0", "3.1.0", true},
		{"exact mismatch", "3.1.1", "3.1.0", false},
		{"major wildcard low bound", "2.0.0", "2.x", true},
		{"major wildcard high bound", "2.9.9", "2.x", true},
		{"major wildcard excludes next", "3.0.0", "2.x", false},
		{"minor wildcard", "3.1.4", "3.1.x", true},
		{"minor wildcard excludes sibling", "3.2.0", "3.1.x", false},
		{"greater or equal at bound", "3.0.0", V3OrGreater, true},
		{"greater or equal below", "2.0.0", V3OrGreater, false},
		{"less than bound excluded", "6.1.0", "<6.1.0", false},
		{"less than below", "6.0.9", "<6.1.0", true},
		{"compound range", "5.3.0", ">=5.0.0 <6.0.0", true},
		{"compound range upper", "6.0.0", ">=5.0.0 <6.0.0", false},
		{"union first", "2.0.0", "2.x || >=7.0.0", true},
		{"union second", "7.1.0", "2.x || >=7.0.0", true},
		{"union neither", "5.0.0", "2.x || >=7.0.0", false},
		{"invalid version", "not-a-version", "2.x", false},
		{"invalid range", "2.0.0", ">>2", false},
		{"empty version", "", V3OrGreater, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Satisfies(tt.version, tt.versionRange))
		})
	}
}

func TestDisjointVariantRanges(t *testing.T) {
	legacy := "<6.1.0"
	current := ">=6.1.0"

	for _, v := range []string{"3.0.0", "5.3.0", "6.0.0", "6.1.0", "7.0.0", "7.1.0"} {
		assert.NotEqual(t, Satisfies(v, legacy), Satisfies(v, current), "exactly one variant must match %s", v)
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("3.3.1-a"))
	assert.False(t, IsValid("three"))
	assert.True(t, IsValidRange("2.x || >=7"))
	assert.False(t, IsValidRange(">>2"))
}
