package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocert/internal/sentinel"
)

func TestInMemoryStoreOperations(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, Course{CourseCode: "BC101", Title: "Blockchain Fundamentals", SkillTag: "Blockchain", Credits: 3}))
	require.NoError(t, store.Add(ctx, Course{CourseCode: "BC102", Title: "Smart Contracts", SkillTag: "Smart Contracts", Credits: 3}))

	course, err := store.FindByCode(ctx, "BC101")
	require.NoError(t, err)
	assert.Equal(t, "Blockchain Fundamentals", course.Title)

	_, err = store.FindByCode(ctx, "BC999")
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "BC101", list[0].CourseCode, "list preserves registration order")

	err = store.Add(ctx, Course{})
	require.ErrorIs(t, err, sentinel.ErrInvalidInput)
}
