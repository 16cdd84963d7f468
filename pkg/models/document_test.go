package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentType_IsValid(t *testing.T) {
	for _, valid := range []DocumentType{
		DocumentTypeInvoice, DocumentTypeContract, DocumentTypeReport,
		DocumentTypePolicy, DocumentTypeForm, DocumentTypeOther,
	} {
		assert.True(t, valid.IsValid(), string(valid))
	}
	assert.False(t, DocumentType("spreadsheet").IsValid())
	assert.False(t, DocumentType("").IsValid())
}

func TestDocument_Tags(t *testing.T) {
	doc := &Document{}

	assert.True(t, doc.AddTag("finance"))
	assert.False(t, doc.AddTag("finance"))
	assert.Equal(t, StringSlice{"finance"}, doc.Tags)

	assert.True(t, doc.AddTag("q1"))
	assert.True(t, doc.RemoveTag("finance"))
	assert.False(t, doc.RemoveTag("finance"))
	assert.Equal(t, StringSlice{"q1"}, doc.Tags)
}

func TestHashContent(t *testing.T) {
	// SHA-256 of the empty string.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashContent(""))

	assert.Equal(t, HashContent("same"), HashContent("same"))
	assert.NotEqual(t, HashContent("a"), HashContent("b"))
	assert.Len(t, HashContent("anything"), 64)
}
