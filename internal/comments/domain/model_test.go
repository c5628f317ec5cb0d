package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestBuildTree(t *testing.T) {
	flat := []Comment{
		{ID: "a"},
		{ID: "a1", ParentID: ptr("a")},
		{ID: "b"},
		{ID: "orphan", ParentID: ptr("gone")},
		{ID: "a2", ParentID: ptr("a")},
	}
	tree := BuildTree(flat)
	require.Len(t, tree, 2)
	assert.Equal(t, "a", tree[0].ID)
	require.Len(t, tree[0].Replies, 2)
	assert.Equal(t, "a1", tree[0].Replies[0].ID)
	assert.Equal(t, "a2", tree[0].Replies[1].ID)
	assert.Empty(t, tree[1].Replies)

	assert.Empty(t, BuildTree(nil))
}

func TestRootID(t *testing.T) {
	assert.Equal(t, "a", Comment{ID: "a"}.RootID())
	assert.Equal(t, "a", Comment{ID: "a1", ParentID: ptr("a")}.RootID())
}

func TestNormalizeContent(t *testing.T) {
	got, err := NormalizeContent("  nice work ")
	require.NoError(t, err)
	assert.Equal(t, "nice work", got)

	_, err = NormalizeContent("")
	assert.Error(t, err)
	_, err = NormalizeContent(strings.Repeat("x", MaxContentLength+1))
	assert.Error(t, err)
}
