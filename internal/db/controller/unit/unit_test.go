package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/dbtest"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
)

func seedProject(t *testing.T, db *gorm.DB, slug string) *models.Project {
	t.Helper()

	p := &models.Project{
		Name: slug, Slug: slug, Location: "Serpong", Units: 1,
		StartingPrice: "1 M", MainImage: "main.jpg",
	}
	require.NoError(t, db.Create(p).Error)

	return p
}

func TestCreateAndGetBySlug(t *testing.T) {
	db := dbtest.New(t)
	p := seedProject(t, db, "the-zora")

	u := &models.Unit{ProjectID: p.ID, Name: "Type Lavender 8x15", Bedrooms: 3, Facilities: []string{"Pool"}}
	require.NoError(t, Create(db, u))
	assert.Equal(t, "type-lavender-8x15", u.Slug)
	assert.Equal(t, models.UnitActive, u.Status)

	tests := []struct {
		name        string
		projectSlug string
		unitSlug    string
		wantErr     error
	}{
		{name: "found", projectSlug: "the-zora", unitSlug: "type-lavender-8x15"},
		{name: "unknown project", projectSlug: "nope", unitSlug: "type-lavender-8x15", wantErr: ErrProjectNotFound},
		{name: "unknown unit", projectSlug: "the-zora", unitSlug: "nope", wantErr: ErrUnitNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := GetBySlug(db, tc.projectSlug, tc.unitSlug)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, u.ID, d.ID)
			assert.Equal(t, "the-zora", d.ProjectSlug)
			assert.Equal(t, "Serpong", d.ProjectLocation)
			assert.Equal(t, []string{"Pool"}, d.Facilities)
		})
	}
}

func TestCreateRules(t *testing.T) {
	db := dbtest.New(t)
	p := seedProject(t, db, "alpha")

	require.NoError(t, Create(db, &models.Unit{ProjectID: p.ID, Name: "Type A"}))

	require.ErrorIs(t, Create(db, &models.Unit{ProjectID: p.ID, Name: "Type A"}), ErrSlugTaken)
	require.ErrorIs(t, Create(db, &models.Unit{ProjectID: "missing", Name: "Type B"}), ErrProjectNotFound)

	// same name in another project is fine
	other := seedProject(t, db, "beta")
	require.NoError(t, Create(db, &models.Unit{ProjectID: other.ID, Name: "Type A"}))
}

func TestListByProjectAndStatus(t *testing.T) {
	db := dbtest.New(t)
	p := seedProject(t, db, "gamma")

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, Create(db, &models.Unit{ProjectID: p.ID, Name: name}))
	}

	require.NoError(t, Create(db, &models.Unit{ProjectID: p.ID, Name: "D", Status: models.UnitSold}))

	page, err := ListByProject(db, p.ID, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.TotalPages)

	sold, err := ListByProject(db, p.ID, models.UnitSold, 1, 10)
	require.NoError(t, err)
	require.Len(t, sold.Items, 1)
	assert.Equal(t, "d", sold.Items[0].Slug)
}

func TestUpdateAndDelete(t *testing.T) {
	db := dbtest.New(t)
	p := seedProject(t, db, "delta")

	u := &models.Unit{ProjectID: p.ID, Name: "Old Name", MainImage: "old.jpg"}
	require.NoError(t, Create(db, u))

	got, err := Update(db, u.ID, models.Unit{Name: "New Name", Promo: "DP 0%"})
	require.NoError(t, err)
	assert.Equal(t, "new-name", got.Slug)
	assert.Equal(t, "old.jpg", got.MainImage)
	assert.Equal(t, p.ID, got.ProjectID)

	require.NoError(t, Delete(db, u.ID))
	require.ErrorIs(t, Delete(db, u.ID), ErrUnitNotFound)
}
