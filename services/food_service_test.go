package services

import (
	"testing"

	"github.com/AbdBoutchichi/SmartDish/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestFoodCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFoodService(db)

	food, err := svc.Create(FoodInput{Name: strPtr("Tomate"), Category: strPtr("LEGUME")})
	require.NoError(t, err)
	assert.Equal(t, "Tomate", food.Name)
	assert.Equal(t, "LEGUME", food.Category)
	assert.NotZero(t, food.ID)
}

func TestFoodCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFoodService(db)

	cases := []struct {
		name    string
		input   FoodInput
		message string
	}{
		{"missing name", FoodInput{Category: strPtr("LEGUME")}, "Le nom de l'aliment est obligatoire"},
		{"name too short", FoodInput{Name: strPtr("T"), Category: strPtr("LEGUME")}, "Le nom doit contenir au moins 2 caractères"},
		{"missing category", FoodInput{Name: strPtr("Tomate")}, "La catégorie est obligatoire"},
		{"unknown category", FoodInput{Name: strPtr("Tomate"), Category: strPtr("PLASTIQUE")}, "Catégorie invalide"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(tc.input)
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.message, ve.Message)
		})
	}
}

func TestFoodCreateLongName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFoodService(db)

	long := make([]rune, 101)
	for i := range long {
		long[i] = 'a'
	}
	_, err := svc.Create(FoodInput{Name: strPtr(string(long)), Category: strPtr("LEGUME")})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Le nom ne peut pas dépasser 100 caractères", ve.Message)
}

func TestFoodCreateDuplicateNameCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFoodService(db)

	_, err := svc.Create(FoodInput{Name: strPtr("Tomate"), Category: strPtr("LEGUME")})
	require.NoError(t, err)

	_, err = svc.Create(FoodInput{Name: strPtr("TOMATE"), Category: strPtr("LEGUME")})
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Un aliment avec ce nom existe déjà", ce.Message)
}

func TestFoodFindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFoodService(db)

	_, err := svc.FindByID(999)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Aliment non trouvé avec l'ID: 999", nf.Message)
}

func TestFoodFindByName_CaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFoodService(db)
	createTestFood(t, db, "Tomate", "LEGUME")

	food, err := svc.FindByName("tomate")
	require.NoError(t, err)
	assert.Equal(t, "Tomate", food.Name)
}

func TestFoodUpdateMerge(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFoodService(db)
	food := createTestFood(t, db, "Tomate", "LEGUME")

	// only the category moves; name stays
	updated, err := svc.Update(food.ID, FoodInput{Category: strPtr("FRUIT")})
	require.NoError(t, err)
	assert.Equal(t, "Tomate", updated.Name)
	assert.Equal(t, "FRUIT", updated.Category)

	// all-nil update is a no-op
	same, err := svc.Update(food.ID, FoodInput{})
	require.NoError(t, err)
	assert.Equal(t, "Tomate", same.Name)
	assert.Equal(t, "FRUIT", same.Category)
}

func TestFoodUpdateNameConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFoodService(db)
	createTestFood(t, db, "Tomate", "LEGUME")
	other := createTestFood(t, db, "Carotte", "LEGUME")

	_, err := svc.Update(other.ID, FoodInput{Name: strPtr("tomate")})
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Un autre aliment utilise déjà ce nom", ce.Message)
}

func TestFoodUpdate_NotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFoodService(db)

	_, err := svc.Update(42, FoodInput{Name: strPtr("Tomate")})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestFoodDeleteBlockedWhenReferenced(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFoodService(db)
	food := createTestFood(t, db, "Tomate", "LEGUME")
	recipe := createTestRecipe(t, db, "Salade de tomates")

	line := models.Ingredient{RecipeID: recipe.ID, FoodID: food.ID, Quantity: 2, Unit: "pièce"}
	require.NoError(t, db.Create(&line).Error)

	err := svc.Delete(food.ID)
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Impossible de supprimer l'aliment: il est utilisé par des recettes ou des utilisateurs", ce.Message)

	// still there
	_, err = svc.FindByID(food.ID)
	assert.NoError(t, err)
}

func TestFoodDeleteBlockedByAllergen(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFoodService(db)
	food := createTestFood(t, db, "Arachide", "LEGUME")
	user := createTestUser(t, db, "jean@example.com")
	require.NoError(t, db.Model(user).Association("Allergens").Append(food))

	err := svc.Delete(food.ID)
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
}

func TestFoodDeleteUnreferenced(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFoodService(db)
	food := createTestFood(t, db, "Tomate", "LEGUME")

	require.NoError(t, svc.Delete(food.ID))

	_, err := svc.FindByID(food.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestFoodRecreateAfterDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFoodService(db)

	first, err := svc.Create(FoodInput{Name: strPtr("Tomate"), Category: strPtr("LEGUME")})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(first.ID))

	// the name is free again once the row is gone
	again, err := svc.Create(FoodInput{Name: strPtr("Tomate"), Category: strPtr("LEGUME")})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, again.ID)
	assert.Equal(t, "Tomate", again.Name)
}

func TestFoodFindByCategoryAndSearch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFoodService(db)
	createTestFood(t, db, "Tomate", "LEGUME")
	createTestFood(t, db, "Carotte", "LEGUME")
	createTestFood(t, db, "Poulet", "VIANDE")

	legumes, err := svc.FindByCategory("LEGUME")
	require.NoError(t, err)
	assert.Len(t, legumes, 2)

	matches, err := svc.SearchByName("tom")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Tomate", matches[0].Name)
}
