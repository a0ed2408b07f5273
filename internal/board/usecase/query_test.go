package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name       string
		domainList string
		keywords   string
		want       string
	}{
		{
			name:       "single domain no keywords",
			domainList: "acme.com",
			want:       "(from:acme.com OR to:acme.com)",
		},
		{
			name:       "multiple domains",
			domainList: "acme.com,example.org",
			want:       "(from:acme.com OR to:acme.com OR from:example.org OR to:example.org)",
		},
		{
			name:     "keywords only",
			keywords: "invoice,urgent",
			want:     "invoice urgent",
		},
		{
			name:       "domains and keywords",
			domainList: "acme.com",
			keywords:   "invoice",
			want:       "(from:acme.com OR to:acme.com) invoice",
		},
		{
			name:       "whitespace and empty entries trimmed",
			domainList: " acme.com , ,",
			keywords:   " invoice ,, urgent ",
			want:       "(from:acme.com OR to:acme.com) invoice urgent",
		},
		{
			name: "empty config",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildSearchQuery(tt.domainList, tt.keywords))
		})
	}
}

func TestExtractDomains(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []string
	}{
		{
			name:   "single display-name address",
			header: "Alice <alice@Acme.COM>",
			want:   []string{"acme.com"},
		},
		{
			name:   "address list",
			header: "alice@acme.com, Bob <bob@example.org>",
			want:   []string{"acme.com", "example.org"},
		},
		{
			name:   "bare address",
			header: "carol@sub.domain.io",
			want:   []string{"sub.domain.io"},
		},
		{
			name:   "unparseable header",
			header: "not an address",
			want:   nil,
		},
		{
			name:   "empty header",
			header: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDomains(tt.header))
		})
	}
}
