package services

import (
	"testing"
	"time"

	"github.com/AbdBoutchichi/SmartDish/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationLog(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecommendationService(db)
	user := createTestUser(t, db, "jean@example.com")
	recipe := createTestRecipe(t, db, "Ratatouille")

	score := 0.87
	rec, err := svc.Log(RecommendationInput{
		UserID: uintPtr(user.ID), RecipeID: uintPtr(recipe.ID), Score: &score,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.87, rec.Score)
	assert.WithinDuration(t, time.Now(), rec.RecommendedAt, 5*time.Second)
}

func TestRecommendationLogMissingReferences(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecommendationService(db)
	user := createTestUser(t, db, "jean@example.com")

	var nf *NotFoundError
	_, err := svc.Log(RecommendationInput{UserID: uintPtr(999), RecipeID: uintPtr(1)})
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Utilisateur non trouvé avec l'ID: 999", nf.Message)

	_, err = svc.Log(RecommendationInput{UserID: uintPtr(user.ID), RecipeID: uintPtr(888)})
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Recette non trouvée avec l'ID: 888", nf.Message)

	var count int64
	require.NoError(t, db.Model(&models.Recommendation{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestRecommendationFindByUserNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecommendationService(db)
	user := createTestUser(t, db, "jean@example.com")
	first := createTestRecipe(t, db, "Ratatouille")
	second := createTestRecipe(t, db, "Clafoutis")

	old := models.Recommendation{
		UserID: user.ID, RecipeID: first.ID,
		RecommendedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&old).Error)
	recent := models.Recommendation{
		UserID: user.ID, RecipeID: second.ID,
		RecommendedAt: time.Now(),
	}
	require.NoError(t, db.Create(&recent).Error)

	recs, err := svc.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, second.ID, recs[0].RecipeID)
	assert.Equal(t, first.ID, recs[1].RecipeID)
}
