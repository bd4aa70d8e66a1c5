package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	var d Document
	assert.Equal(t, UnknownSource, d.Source())
	assert.Equal(t, UnknownType, d.Type())

	d = Document{Metadata: Metadata{Source: "q3.pdf", Type: "pdf", Page: Page(2)}}
	assert.Equal(t, "q3.pdf", d.Source())
	assert.Equal(t, "pdf", d.Type())
	assert.Equal(t, 2, *d.Metadata.Page)
}

func TestJoinContent(t *testing.T) {
	docs := []Document{{PageContent: "one"}, {PageContent: "two"}, {PageContent: "three"}}

	assert.Equal(t, "one\n\ntwo\n\nthree", JoinContent(docs, 0))
	assert.Equal(t, "one\n\ntwo", JoinContent(docs, 2))
	assert.Equal(t, "", JoinContent(nil, 20))
}

func TestSources(t *testing.T) {
	docs := []Document{
		{Metadata: Metadata{Source: "a.pdf"}},
		{Metadata: Metadata{Source: "a.pdf"}},
		{Metadata: Metadata{Source: "b.csv"}},
	}
	assert.ElementsMatch(t, []string{"a.pdf", "b.csv"}, Sources(docs))
	assert.Equal(t, []string{UnknownSource}, Sources([]Document{{}}))
	assert.Empty(t, Sources(nil))
}
