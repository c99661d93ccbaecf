package landingpage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/dbtest"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/landing"
)

var fixed = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixClock(t *testing.T) {
	t.Helper()

	Now = func() time.Time { return fixed }

	t.Cleanup(func() { Now = time.Now })
}

func ptr[T any](v T) *T { return &v }

func heroContent() landing.Content {
	return landing.Content{{ID: "h1", Type: landing.Hero, Config: json.RawMessage(`{"title":"Hi"}`)}}
}

func newPage(t *testing.T, db *gorm.DB, slug string, status models.LandingPageStatus) *models.LandingPage {
	t.Helper()

	p := &models.LandingPage{Title: "Promo " + slug, Slug: slug, Content: heroContent(), Status: status, CreatedBy: "alice"}
	require.NoError(t, Create(db, p))

	return p
}

func TestCreate(t *testing.T) {
	fixClock(t)

	tests := []struct {
		name    string
		page    models.LandingPage
		wantErr error
	}{
		{name: "draft", page: models.LandingPage{Title: "A", Slug: "a", Content: heroContent()}},
		{name: "published sets published_at", page: models.LandingPage{Title: "B", Slug: "b", Content: heroContent(), Status: models.LandingPublished}},
		{name: "missing content", page: models.LandingPage{Title: "C", Slug: "c"}, wantErr: ErrMissingFields},
		{name: "missing slug", page: models.LandingPage{Title: "D", Content: heroContent()}, wantErr: ErrMissingFields},
		{name: "bad status", page: models.LandingPage{Title: "E", Slug: "e", Content: heroContent(), Status: "live"}, wantErr: ErrInvalidStatus},
		{
			name:    "invalid component",
			page:    models.LandingPage{Title: "F", Slug: "f", Content: landing.Content{{ID: "x", Type: "marquee", Config: json.RawMessage(`{}`)}}},
			wantErr: landing.ErrInvalidContent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := dbtest.New(t)
			p := tc.page

			err := Create(db, &p)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)

			got, err := Get(db, p.ID)
			require.NoError(t, err)
			require.Len(t, got.Content, 1)
			assert.Equal(t, landing.Hero, got.Content[0].Type)

			if p.Status == models.LandingPublished {
				require.NotNil(t, got.PublishedAt)
				assert.True(t, fixed.Equal(*got.PublishedAt))
			} else {
				assert.Nil(t, got.PublishedAt)
				assert.Equal(t, models.LandingDraft, got.Status)
			}
		})
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	db := dbtest.New(t)
	newPage(t, db, "promo", "")

	err := Create(db, &models.LandingPage{Title: "x", Slug: "promo", Content: heroContent()})
	require.ErrorIs(t, err, ErrSlugTaken)
}

func TestListFilterAndPagination(t *testing.T) {
	db := dbtest.New(t)

	for _, s := range []string{"one", "two", "three"} {
		newPage(t, db, s, models.LandingPublished)
	}

	d := newPage(t, db, "draft-one", "")
	_, err := Update(db, d.ID, Patch{CampaignSource: ptr("facebook")})
	require.NoError(t, err)

	tests := []struct {
		name  string
		f     Filter
		want  int
		total int64
	}{
		{name: "all", f: Filter{}, want: 4, total: 4},
		{name: "status", f: Filter{Status: models.LandingPublished}, want: 3, total: 3},
		{name: "campaign", f: Filter{CampaignSource: "facebook"}, want: 1, total: 1},
		{name: "search slug", f: Filter{Search: "one"}, want: 2, total: 2},
		{name: "owner", f: Filter{CreatedBy: "bob"}, want: 0, total: 0},
		{name: "window", f: Filter{Limit: 2, Offset: 2}, want: 2, total: 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := List(db, tc.f)
			require.NoError(t, err)
			assert.Len(t, got, tc.want)

			n, err := Count(db, tc.f)
			require.NoError(t, err)
			assert.Equal(t, tc.total, n)
		})
	}

	recent, err := List(db, Filter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, d.ID, recent[0].ID)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(25, 10, 10)

	assert.Equal(t, Pagination{Total: 25, Page: 2, Limit: 10, TotalPages: 3, HasNext: true, HasPrev: true}, p)
	assert.False(t, NewPagination(5, 10, 0).HasNext)
	assert.Equal(t, DefaultLimit, NewPagination(0, 0, 0).Limit)
}

func TestUpdate(t *testing.T) {
	fixClock(t)

	db := dbtest.New(t)
	a := newPage(t, db, "a", "")
	newPage(t, db, "b", "")

	_, err := Update(db, a.ID, Patch{Slug: ptr("b")})
	require.ErrorIs(t, err, ErrSlugTaken)

	_, err = Update(db, a.ID, Patch{Status: ptr(models.LandingPageStatus("live"))})
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = Update(db, a.ID, Patch{ExpiresAt: ptr("soon")})
	require.ErrorIs(t, err, ErrInvalidExpiry)

	content := landing.Content{{
		ID: "img", Type: landing.CustomImage,
		Config: json.RawMessage(`{"desktopImage":"data:image/png;base64,AAA","mobileImage":"https://cdn/m.jpg"}`),
	}}

	got, err := Update(db, a.ID, Patch{
		Title:     ptr("Renamed"),
		Content:   &content,
		Status:    ptr(models.LandingPublished),
		ExpiresAt: ptr("2025-12-31"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "a", got.Slug)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, fixed.Equal(*got.PublishedAt))
	require.NotNil(t, got.ExpiresAt)
	assert.Equal(t, 2025, got.ExpiresAt.Year())
	assert.Equal(t, "", got.Content[0].ConfigMap()["desktopImage"])

	// a second publish keeps the first timestamp
	Now = func() time.Time { return fixed.Add(time.Hour) }

	got, err = Update(db, a.ID, Patch{Status: ptr(models.LandingPublished), ExpiresAt: ptr("")})
	require.NoError(t, err)
	assert.True(t, fixed.Equal(*got.PublishedAt))
	assert.Nil(t, got.ExpiresAt)
}

func TestPublishedVisibility(t *testing.T) {
	db := dbtest.New(t)

	live := newPage(t, db, "live", models.LandingPublished)
	newPage(t, db, "draft", "")
	expired := newPage(t, db, "expired", models.LandingPublished)

	past := fixed.Add(-time.Hour)
	require.NoError(t, db.Model(expired).Update("expires_at", past).Error)

	_, err := GetPublished(db, "live", fixed)
	require.NoError(t, err)

	_, err = GetPublished(db, "draft", fixed)
	require.ErrorIs(t, err, ErrPageNotFound)

	_, err = GetPublished(db, "expired", fixed)
	require.ErrorIs(t, err, ErrPageNotFound)

	n, err := ArchiveExpired(db, fixed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := Get(db, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LandingArchived, got.Status)

	got, err = Get(db, live.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LandingPublished, got.Status)
}

func TestPublishAndClone(t *testing.T) {
	fixClock(t)

	db := dbtest.New(t)
	p := newPage(t, db, "src", "")

	pub, err := Publish(db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LandingPublished, pub.Status)

	c, err := Clone(db, p.ID, "Copy", "src-copy", "bob")
	require.NoError(t, err)

	assert.NotEqual(t, p.ID, c.ID)
	assert.Equal(t, models.LandingDraft, c.Status)
	assert.Nil(t, c.PublishedAt)
	assert.Equal(t, "bob", c.CreatedBy)
	assert.Len(t, c.Content, 1)

	_, err = Clone(db, p.ID, "Copy", "src-copy", "")
	require.ErrorIs(t, err, ErrSlugTaken)

	_, err = Clone(db, "nope", "Copy", "x", "")
	require.ErrorIs(t, err, ErrPageNotFound)

	empty := newPage(t, db, "video", "")
	_, err = Update(db, empty.ID, Patch{Content: &landing.Content{{ID: "v", Type: landing.Video, Config: json.RawMessage(`{}`)}}})
	require.NoError(t, err)

	_, err = Publish(db, empty.ID)
	require.ErrorIs(t, err, landing.ErrInvalidContent)
}

func TestPublishedStatusRequiresCompleteContent(t *testing.T) {
	fixClock(t)

	db := dbtest.New(t)
	noVideo := landing.Content{{ID: "v", Type: landing.Video, Config: json.RawMessage(`{}`)}}

	err := Create(db, &models.LandingPage{Title: "Tour", Slug: "tour", Content: noVideo, Status: models.LandingPublished})
	require.ErrorIs(t, err, landing.ErrInvalidContent)

	_, err = GetBySlug(db, "tour")
	require.ErrorIs(t, err, ErrPageNotFound)

	draft := &models.LandingPage{Title: "Tour", Slug: "tour", Content: noVideo}
	require.NoError(t, Create(db, draft))

	_, err = Update(db, draft.ID, Patch{Status: ptr(models.LandingPublished)})
	require.ErrorIs(t, err, landing.ErrInvalidContent)

	_, err = GetPublished(db, "tour", fixed)
	require.ErrorIs(t, err, ErrPageNotFound)

	live := newPage(t, db, "live", models.LandingPublished)

	_, err = Update(db, live.ID, Patch{Content: &noVideo})
	require.ErrorIs(t, err, landing.ErrInvalidContent)

	withVideo := landing.Content{{ID: "v", Type: landing.Video, Config: json.RawMessage(`{"videoUrl":"https://youtu.be/x"}`)}}

	got, err := Update(db, draft.ID, Patch{Content: &withVideo, Status: ptr(models.LandingPublished)})
	require.NoError(t, err)
	assert.Equal(t, models.LandingPublished, got.Status)
}

func TestDeleteAndCanEdit(t *testing.T) {
	db := dbtest.New(t)
	p := newPage(t, db, "gone", "")

	require.NoError(t, Delete(db, p.ID))
	require.ErrorIs(t, Delete(db, p.ID), ErrPageNotFound)

	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{name: "owner by username", user: &models.User{Username: "alice", Role: models.RoleUser}, want: true},
		{name: "owner by email", user: &models.User{Username: "x", Email: "alice", Role: models.RoleUser}, want: true},
		{name: "stranger", user: &models.User{Username: "bob", Role: models.RoleUser}},
		{name: "admin", user: &models.User{Username: "root", Role: models.RoleAdmin}, want: true},
		{name: "anonymous"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanEdit(p, tc.user))
		})
	}
}
