package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureStorePlaceholder(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "appends placeholder",
			raw:  "https://x.com/d?utm=1",
			want: "https://x.com/d?utm=1&store={store_code}&",
		},
		{
			name: "no query",
			raw:  "https://x.com/inventory/details/1HGCM82633A004352",
			want: "https://x.com/inventory/details/1HGCM82633A004352?store={store_code}&",
		},
		{
			name: "replaces existing store in place",
			raw:  "https://x.com/d?store=123&utm=a+b",
			want: "https://x.com/d?store={store_code}&utm=a%20b&",
		},
		{
			name: "keeps blank values and drops empty segments",
			raw:  "https://x.com/d?a=&b=2&",
			want: "https://x.com/d?a=&b=2&store={store_code}&",
		},
		{
			name: "encodes reserved characters",
			raw:  "https://x.com/d?next=%2Fused%2Fford",
			want: "https://x.com/d?next=%2Fused%2Fford&store={store_code}&",
		},
		{
			name: "fragment stays last",
			raw:  "https://x.com/d?a=1#gallery",
			want: "https://x.com/d?a=1&store={store_code}&#gallery",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnsureStorePlaceholder(tt.raw))
		})
	}
}

func TestEnsureStorePlaceholder_Idempotent(t *testing.T) {
	once := EnsureStorePlaceholder("https://x.com/d?utm=1")
	assert.Equal(t, once, EnsureStorePlaceholder(once))
}
