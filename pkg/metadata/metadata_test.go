package metadata

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedA = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Demo Inventory Feed</title>
  <updated>2026-01-01T10:00:00Z</updated>
  <entry>
    <id>S1</id>
  </entry>
</feed>
`

const feedB = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Demo Inventory Feed</title>
  <updated>2026-03-14T08:30:00Z</updated>
  <entry>
    <id>S1</id>
  </entry>
</feed>
`

func TestCalculateHash_IgnoresUpdatedTimestamp(t *testing.T) {
	assert.Equal(t, CalculateHash([]byte(feedA)), CalculateHash([]byte(feedB)))
	assert.NotContains(t, string(Extract([]byte(feedA))), "<updated>")
}

func TestCalculateHash_DetectsEntryChanges(t *testing.T) {
	changed := []byte(strings.Replace(feedA, "<id>S1</id>", "<id>S2</id>", 1))

	assert.NotEqual(t, CalculateHash([]byte(feedA)), CalculateHash(changed))
}

func TestDescribe(t *testing.T) {
	meta := Describe([]byte(feedA))

	assert.Equal(t, len(feedA), meta.Size)
	assert.Equal(t, CalculateHash([]byte(feedB)), meta.Hash)
}

func TestVerify(t *testing.T) {
	ok, err := Verify([]byte(feedB), CalculateHash([]byte(feedA)))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Verify([]byte(feedA), "")
	assert.True(t, errors.Is(err, ErrEmptyDigest))

	_, err = Verify([]byte(feedA), "deadbeef")
	assert.True(t, errors.Is(err, ErrDigestMismatch))
}
