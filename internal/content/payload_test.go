package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_TypedPayloads(t *testing.T) {
	p, err := Decode(Kind{PrimitiveHero, "cta"}, json.RawMessage(`{"heading":"Hi","primaryCta":{"label":"Go","href":"/go"}}`))
	require.NoError(t, err)
	hero, ok := p.(Hero)
	require.True(t, ok)
	assert.Equal(t, "Hi", hero.Heading)
	assert.Equal(t, "/go", hero.Primary.Href)

	p, err = Decode(Kind{PrimitiveHeader, ""}, json.RawMessage(`{"logo":"A","nav":[{"label":"x","href":"/x"}]}`))
	require.NoError(t, err)
	h := p.(HeaderContent)
	assert.Equal(t, "A", *h.Logo)
	assert.Len(t, h.Nav, 1)
}

func TestDecode_MalformedReturnsZeroOfRightType(t *testing.T) {
	p, err := Decode(Kind{PrimitiveCards, "feature"}, json.RawMessage(`{"items":"not-a-list"}`))
	require.Error(t, err)
	cards, ok := p.(Cards)
	require.True(t, ok, "got %T", p)
	assert.Empty(t, cards.Items)
}

func TestDecode_EmptyIsZeroWithoutError(t *testing.T) {
	for _, raw := range []string{"", "null"} {
		p, err := Decode(Kind{PrimitiveMedia, "single"}, json.RawMessage(raw))
		require.NoError(t, err)
		assert.IsType(t, Media{}, p)
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	p, err := Decode(Kind{Primitive: "pricing_table"}, json.RawMessage(`{"tiers":3}`))
	require.NoError(t, err)
	u := p.(Unknown)
	assert.EqualValues(t, 3, u.Fields["tiers"])

	p, err = Decode(Kind{Primitive: "pricing_table"}, json.RawMessage(`[1,2]`))
	require.Error(t, err)
	assert.IsType(t, Unknown{}, p)
}

func TestSplit(t *testing.T) {
	secs := []Section{
		{ID: "c", DeclaredType: "text", Position: 2},
		{ID: "f", DeclaredType: "footer", Position: 9},
		{ID: "a", DeclaredType: "hero", Position: 0},
		{ID: "h", DeclaredType: "header", Position: -1},
		{ID: "b", DeclaredType: "features", Position: 1},
		{ID: "h2", DeclaredType: "header", Position: 5},
	}

	parts := Split(secs)
	require.NotNil(t, parts.Header)
	require.NotNil(t, parts.Footer)
	assert.Equal(t, "h", parts.Header.ID)
	assert.Equal(t, "f", parts.Footer.ID)
	assert.Equal(t, []string{"h2"}, parts.Demoted)

	var ids []string
	for _, s := range parts.Body {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	// Input order untouched.
	assert.Equal(t, "c", secs[0].ID)
}
