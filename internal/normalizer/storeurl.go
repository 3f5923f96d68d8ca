package normalizer

import (
	"net/url"
	"strings"
)

// StorePlaceholder is substituted by Google with the dealership's store code.
const StorePlaceholder = "{store_code}"

const storeParam = "store"

type queryPair struct {
	key   string
	value string
}

// EnsureStorePlaceholder rewrites a detail-page URL into a Google link
// template: every "store" parameter is set to the literal {store_code}
// placeholder (appended when absent), the remaining parameters keep their
// order and the query ends with "&". Empty input is returned unchanged.
func EnsureStorePlaceholder(raw string) string {
	if raw == "" {
		return raw
	}

	rest, fragment, hasFragment := strings.Cut(raw, "#")
	base, query, _ := strings.Cut(rest, "?")

	pairs := parseQuery(query)
	storePresent := false

	for i := range pairs {
		if pairs[i].key == storeParam {
			pairs[i].value = StorePlaceholder
			storePresent = true
		}
	}

	if !storePresent {
		pairs = append(pairs, queryPair{key: storeParam, value: StorePlaceholder})
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteByte('?')

	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}

		b.WriteString(quoteComponent(p.key))
		b.WriteByte('=')
		b.WriteString(quoteComponent(p.value))
	}

	b.WriteByte('&')

	if hasFragment {
		b.WriteByte('#')
		b.WriteString(fragment)
	}

	return b.String()
}

// parseQuery splits a raw query into ordered pairs, keeping blank values and
// dropping empty segments.
func parseQuery(query string) []queryPair {
	var pairs []queryPair

	for _, segment := range strings.Split(query, "&") {
		if segment == "" {
			continue
		}

		key, value, _ := strings.Cut(segment, "=")
		pairs = append(pairs, queryPair{key: unquoteComponent(key), value: unquoteComponent(value)})
	}

	return pairs
}

func unquoteComponent(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return strings.ReplaceAll(s, "+", " ")
	}

	return decoded
}

// quoteComponent percent-encodes everything except unreserved characters and
// the placeholder braces.
func quoteComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || c == '{' || c == '}' {
			b.WriteByte(c)
			continue
		}

		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}

	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}

	return false
}
