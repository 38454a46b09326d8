package services

import (
	"testing"

	"litfund-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "what-is-pre-settlement-funding", Slugify("What Is Pre-Settlement Funding?"))
	assert.Equal(t, "q3-2026-update", Slugify("  Q3 2026 Update!  "))
	assert.Equal(t, "", Slugify("???"))
}

func TestBlogCreateDerivesSlugAndPublishedAt(t *testing.T) {
	svc := NewBlogService(newTestDB(t))

	post := &models.BlogPost{Title: "Funding Myths Debunked", Published: true}
	require.NoError(t, svc.Create(post))
	assert.Equal(t, "funding-myths-debunked", post.Slug)
	require.NotNil(t, post.PublishedAt)

	draft := &models.BlogPost{Title: "Draft Post"}
	require.NoError(t, svc.Create(draft))
	assert.Nil(t, draft.PublishedAt)
}

func TestBlogSlugUniqueness(t *testing.T) {
	svc := NewBlogService(newTestDB(t))

	require.NoError(t, svc.Create(&models.BlogPost{Title: "Same Title"}))
	err := svc.Create(&models.BlogPost{Title: "Same Title"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestBlogPublishedAtSticksAcrossUpdates(t *testing.T) {
	svc := NewBlogService(newTestDB(t))

	post := &models.BlogPost{Title: "Launch Post", Published: true}
	require.NoError(t, svc.Create(post))
	first := *post.PublishedAt

	post.Content = "updated body"
	require.NoError(t, svc.Update(post))

	got, err := svc.GetByID(post.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PublishedAt)
	assert.Equal(t, first.Unix(), got.PublishedAt.Unix())
}

func TestBlogUpdateKeepsSlugWhenOmitted(t *testing.T) {
	svc := NewBlogService(newTestDB(t))

	post := &models.BlogPost{Title: "Launch Post", Published: true}
	require.NoError(t, svc.Create(post))
	require.Equal(t, "launch-post", post.Slug)

	update := &models.BlogPost{ID: post.ID, Title: "Launch Post", Content: "updated body", Published: true}
	require.NoError(t, svc.Update(update))

	got, err := svc.GetBySlug("launch-post")
	require.NoError(t, err, "published URL must survive an update that omits the slug")
	assert.Equal(t, "launch-post", got.Slug)
	assert.Equal(t, "updated body", got.Content)

	// An explicit slug still renames, subject to uniqueness.
	update.Slug = "launch-post-v2"
	require.NoError(t, svc.Update(update))
	_, err = svc.GetBySlug("launch-post")
	assert.ErrorIs(t, err, ErrNotFound)
	renamed, err := svc.GetBySlug("launch-post-v2")
	require.NoError(t, err)
	assert.Equal(t, post.ID, renamed.ID)
}

func TestBlogPublicVisibility(t *testing.T) {
	svc := NewBlogService(newTestDB(t))

	require.NoError(t, svc.Create(&models.BlogPost{Title: "Live", Published: true}))
	require.NoError(t, svc.Create(&models.BlogPost{Title: "Hidden"}))

	published, err := svc.GetPublished()
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "live", published[0].Slug)

	_, err = svc.GetBySlug("hidden")
	assert.ErrorIs(t, err, ErrNotFound, "drafts are invisible by slug")

	all, err := svc.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBlogDelete(t *testing.T) {
	svc := NewBlogService(newTestDB(t))

	post := &models.BlogPost{Title: "Short-lived"}
	require.NoError(t, svc.Create(post))
	require.NoError(t, svc.Delete(post.ID))
	assert.ErrorIs(t, svc.Delete(post.ID), ErrNotFound)
}
