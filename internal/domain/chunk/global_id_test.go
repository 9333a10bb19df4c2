package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ClauseMatch/pkg/errors"
)

func TestGlobalID_String_ZeroPadded(t *testing.T) {
	gid := NewGlobalID("provide", Segment{Item: ItemTypeArticle, Number: 5})
	assert.Equal(t, "urn:std:provide:art:005", gid.String())

	gid = NewGlobalID("provide",
		Segment{Item: ItemTypeArticle, Number: 5},
		Segment{Item: ItemTypeClause, Number: 2},
	)
	assert.Equal(t, "urn:std:provide:art:005:cla:002", gid.String())
	assert.Equal(t, "art:005:cla:002", gid.LocalID())
}

func TestGlobalID_ItemTypeAndExhibit(t *testing.T) {
	ex := NewGlobalID("provide", Segment{Item: ItemTypeExhibit, Number: 1})
	assert.Equal(t, ItemTypeExhibit, ex.ItemType())
	assert.True(t, ex.IsExhibit())

	art := NewGlobalID("provide", Segment{Item: ItemTypeArticle, Number: 3})
	assert.False(t, art.IsExhibit())
}

func TestGlobalID_Parent(t *testing.T) {
	gid := NewGlobalID("provide",
		Segment{Item: ItemTypeArticle, Number: 5},
		Segment{Item: ItemTypeClause, Number: 2},
	)
	parent, ok := gid.Parent()
	require.True(t, ok)
	assert.Equal(t, "urn:std:provide:art:005", parent.String())

	_, ok = parent.Parent()
	assert.False(t, ok)
}

func TestParseGlobalID_RoundTrip(t *testing.T) {
	cases := []string{
		"urn:std:provide:art:005",
		"urn:std:provide:ex:001",
		"urn:std:provide:art:005:cla:002",
		"urn:std:outsource:art:012:sub:003",
	}
	for _, s := range cases {
		gid, err := ParseGlobalID(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, gid.String())
	}
}

func TestParseGlobalID_Malformed(t *testing.T) {
	cases := []string{
		"",
		"urn:std:provide",           // no segments
		"urn:std:provide:art",       // unpaired segment
		"urn:std:provide:art:xyz",   // non-numeric
		"urn:std:provide:art:000",   // number below 1
		"urn:std:provide:chap:001",  // unknown item type
		"urn:other:provide:art:001", // wrong scheme
	}
	for _, s := range cases {
		_, err := ParseGlobalID(s)
		require.Error(t, err, s)
		assert.True(t, errors.IsCode(err, errors.ErrCodeGlobalIDInvalid), s)
	}
}

func TestItemType_IsValid(t *testing.T) {
	assert.True(t, ItemTypeArticle.IsValid())
	assert.True(t, ItemTypeExhibit.IsValid())
	assert.True(t, ItemTypeClause.IsValid())
	assert.True(t, ItemTypeSubClause.IsValid())
	assert.False(t, ItemType("chap").IsValid())
}

//Personal.AI order the ending
