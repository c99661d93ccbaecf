package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/dbtest"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/validation"
)

func newProject(name string) *models.Project {
	return &models.Project{
		Name:          name,
		Location:      "Tangerang",
		Units:         10,
		StartingPrice: "1.2 M",
		Completion:    40,
		MainImage:     "https://img.example.com/main.jpg",
	}
}

func seed(t *testing.T, db *gorm.DB, names ...string) []*models.Project {
	t.Helper()

	out := make([]*models.Project, 0, len(names))

	for _, n := range names {
		p := newProject(n)
		require.NoError(t, Create(db, p))

		out = append(out, p)
	}

	return out
}

func TestCreate(t *testing.T) {
	db := dbtest.New(t)

	tests := []struct {
		name    string
		dbParam *gorm.DB
		mutate  func(p *models.Project)
		wantErr error
	}{
		{name: "nil database", mutate: func(*models.Project) {}, wantErr: ErrDBNil},
		{name: "valid", dbParam: db, mutate: func(*models.Project) {}},
		{
			name:    "duplicate slug is rejected",
			dbParam: db,
			mutate:  func(*models.Project) {},
			wantErr: ErrSlugTaken,
		},
		{
			name:    "main image required",
			dbParam: db,
			mutate:  func(p *models.Project) { p.Name, p.MainImage = "Other", "" },
			wantErr: validation.ErrInvalid,
		},
		{
			name:    "completion above 100",
			dbParam: db,
			mutate:  func(p *models.Project) { p.Name, p.Completion = "Other", 101 },
			wantErr: validation.ErrInvalid,
		},
		{
			name:    "unknown status",
			dbParam: db,
			mutate:  func(p *models.Project) { p.Name, p.Status = "Other", "industrial" },
			wantErr: validation.ErrInvalid,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newProject("Paramount Gading Serpong")
			tc.mutate(p)

			err := Create(tc.dbParam, p)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, p.ID)
			assert.Equal(t, "paramount-gading-serpong", p.Slug)
			assert.Equal(t, models.ProjectResidential, p.Status)
		})
	}
}

func TestListPaginates(t *testing.T) {
	db := dbtest.New(t)
	seed(t, db, "A", "B", "C")

	page, err := List(db, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)
}

func TestListPublicFilters(t *testing.T) {
	db := dbtest.New(t)
	seed(t, db, "Home One", "Home Two")

	shop := newProject("Shop House")
	shop.Status = models.ProjectCommercial
	require.NoError(t, Create(db, shop))

	all, err := ListPublic(db, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	commercial, err := ListPublic(db, models.ProjectCommercial, 0)
	require.NoError(t, err)
	require.Len(t, commercial, 1)
	assert.Equal(t, "shop-house", commercial[0].Slug)

	limited, err := ListPublic(db, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestUpdateGallery(t *testing.T) {
	db := dbtest.New(t)

	p := newProject("Gallery")
	p.GalleryImages = []string{"a.jpg", "b.jpg", "c.jpg"}
	require.NoError(t, Create(db, p))

	tests := []struct {
		name string
		keep []string
		add  []string
		want []string
	}{
		{name: "keep nil keeps all", add: []string{"d.jpg"}, want: []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}},
		{name: "keep filters", keep: []string{"c.jpg", "a.jpg"}, want: []string{"a.jpg", "c.jpg"}},
		{name: "keep empty drops all", keep: []string{}, add: []string{"e.jpg"}, want: []string{"e.jpg"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reset, err := Get(db, p.ID)
			require.NoError(t, err)

			reset.GalleryImages = []string{"a.jpg", "b.jpg", "c.jpg"}
			require.NoError(t, db.Save(reset).Error)

			in := *newProject("Gallery")
			in.MainImage = ""

			got, err := Update(db, p.ID, Changes{Project: in, KeepGallery: tc.keep, AddGallery: tc.add})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.GalleryImages)
			assert.Equal(t, p.MainImage, got.MainImage)

			stored, err := Get(db, p.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, stored.GalleryImages)
		})
	}
}

func TestUpdateSlugConflict(t *testing.T) {
	db := dbtest.New(t)
	ps := seed(t, db, "First", "Second")

	in := *newProject("Second")

	_, err := Update(db, ps[0].ID, Changes{Project: in})
	require.ErrorIs(t, err, ErrSlugTaken)

	_, err = Update(db, "missing", Changes{Project: in})
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestDeleteRemovesUnits(t *testing.T) {
	db := dbtest.New(t)
	p := seed(t, db, "With Units")[0]

	require.NoError(t, db.Create(&models.Unit{ProjectID: p.ID, Name: "Type A", Slug: "type-a"}).Error)

	require.NoError(t, Delete(db, p.ID))

	var units int64
	require.NoError(t, db.Model(&models.Unit{}).Count(&units).Error)
	assert.Zero(t, units)

	require.ErrorIs(t, Delete(db, p.ID), ErrProjectNotFound)

	_, err := GetBySlug(db, "with-units")
	require.ErrorIs(t, err, ErrProjectNotFound)
}
