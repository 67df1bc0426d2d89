package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCompany(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Acme Inc", "acme inc"},
		{"  Acme\t  Inc  ", "acme inc"},
		{"ACME INC", "acme inc"},
		{"", OtherCompanyNorm},
		{"   ", OtherCompanyNorm},
		{"Freelance", OtherCompanyNorm},
		{"freelance designer", OtherCompanyNorm},
		{"Self-employed", OtherCompanyNorm},
		{"SELF EMPLOYED", OtherCompanyNorm},
		{"N/A", OtherCompanyNorm},
		{"Independent", OtherCompanyNorm},
		{"Unknown Co", OtherCompanyNorm},
		{"Myselfie Labs", OtherCompanyNorm},
		{"Globex Corporation", "globex corporation"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeCompany(tt.input))
		})
	}
}

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Engineer", "engineer"},
		{"  Senior   Software\nEngineer ", "senior software engineer"},
		{"", ""},
		{"   ", ""},
		{"Freelance Writer", "freelance writer"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePosition(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"", " ", "Acme", "  Acme   Inc ", "Self", "Straße GmbH", "ÉCOLE  Polytechnique",
		"a b", "n/a", "Other_Unknown", "x\t\ty\n z",
	}
	for _, in := range inputs {
		once := NormalizeCompany(in)
		assert.Equal(t, once, NormalizeCompany(once), "company %q", in)
		assert.Equal(t, strings.TrimSpace(once), once, "company %q has outer spaces", in)
		assert.NotContains(t, once, "  ", "company %q has doubled spaces", in)

		pos := NormalizePosition(in)
		assert.Equal(t, pos, NormalizePosition(pos), "position %q", in)
		assert.NotContains(t, pos, "  ", "position %q has doubled spaces", in)
	}
}
