package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/AbdBoutchichi/SmartDish/config"
	"github.com/AbdBoutchichi/SmartDish/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitializeLogger()
	os.Exit(m.Run())
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return SetupRouter(db)
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	r := setupRouter(t)
	w := do(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestFoodLifecycle(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/foods", gin.H{"name": "Tomate", "category": "LEGUME"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	assert.Equal(t, "Tomate", created["name"])
	id := int(created["id"].(float64))

	w = do(r, http.MethodGet, fmt.Sprintf("/foods/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/foods/name/tomate", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// duplicate name conflicts
	w = do(r, http.MethodPost, "/foods", gin.H{"name": "TOMATE", "category": "LEGUME"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Un aliment avec ce nom existe déjà", decode(t, w)["error"])

	w = do(r, http.MethodPut, fmt.Sprintf("/foods/%d", id), gin.H{"category": "FRUIT"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "FRUIT", decode(t, w)["category"])

	w = do(r, http.MethodDelete, fmt.Sprintf("/foods/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, fmt.Sprintf("/foods/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, fmt.Sprintf("Aliment non trouvé avec l'ID: %d", id), decode(t, w)["error"])
}

func TestFoodValidationStatus(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/foods", gin.H{"category": "LEGUME"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Le nom de l'aliment est obligatoire", decode(t, w)["error"])

	w = do(r, http.MethodGet, "/foods/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipeEndpoints(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/foods", gin.H{"name": "Tomate", "category": "LEGUME"})
	require.Equal(t, http.StatusCreated, w.Code)
	foodID := int(decode(t, w)["id"].(float64))

	w = do(r, http.MethodPost, "/recipes", gin.H{
		"title":    "Ratatouille provençale",
		"cookTime": 45,
		"kcal":     320,
		"ingredients": []gin.H{
			{"alimentId": foodID, "quantite": 3, "unite": "pièce", "role": "PRINCIPAL"},
		},
		"steps": []gin.H{
			{"ordre": 1, "texte": "Couper les légumes", "temps": 10},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	recipeID := int(created["id"].(float64))
	assert.Nil(t, created["averageRating"])

	ingredients := created["ingredients"].([]interface{})
	require.Len(t, ingredients, 1)
	line := ingredients[0].(map[string]interface{})
	assert.Equal(t, "Tomate", line["alimentNom"])

	// dangling food id rejects the whole payload
	w = do(r, http.MethodPost, "/recipes", gin.H{
		"title":    "Recette cassée",
		"cookTime": 10,
		"ingredients": []gin.H{
			{"alimentId": 999, "quantite": 1, "unite": "g"},
		},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Aliment non trouvé avec l'ID: 999", decode(t, w)["error"])

	w = do(r, http.MethodGet, fmt.Sprintf("/recipes?ingredientIds=%d", foodID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/recipes/top-rated", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = do(r, http.MethodPut, fmt.Sprintf("/recipes/%d", recipeID), gin.H{"title": "Ratatouille niçoise"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ratatouille niçoise", decode(t, w)["title"])

	w = do(r, http.MethodDelete, fmt.Sprintf("/recipes/%d", recipeID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFeedbackEndpoints(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/users", gin.H{
		"email": "jean@example.com", "password": "secret123",
		"firstName": "Jean", "lastName": "Dupont",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	userID := int(decode(t, w)["id"].(float64))

	w = do(r, http.MethodPost, "/recipes", gin.H{"title": "Ratatouille", "cookTime": 45})
	require.Equal(t, http.StatusCreated, w.Code)
	recipeID := int(decode(t, w)["id"].(float64))

	payload := gin.H{"userId": userID, "recipeId": recipeID, "rating": 5, "comment": "Top"}
	w = do(r, http.MethodPost, "/feedbacks", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/feedbacks", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Vous avez déjà noté cette recette.", decode(t, w)["error"])

	w = do(r, http.MethodGet, fmt.Sprintf("/feedbacks/recipe/%d/stats", recipeID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)
	assert.EqualValues(t, 1, stats["feedbackCount"])
	assert.EqualValues(t, 5, stats["averageRating"])

	w = do(r, http.MethodGet, fmt.Sprintf("/feedbacks/user/%d/recipe/%d", userID, recipeID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// the rated recipe now leads the top-rated list
	w = do(r, http.MethodGet, "/recipes/top-rated", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var top []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &top))
	require.Len(t, top, 1)
	assert.Equal(t, "Ratatouille", top[0]["title"])
}

func TestUserEndpoints(t *testing.T) {
	r := setupRouter(t)
	t.Setenv("JWT_SECRET", "test-secret")

	w := do(r, http.MethodPost, "/users", gin.H{
		"email": "Jean@Example.com", "password": "secret123",
		"firstName": "Jean", "lastName": "Dupont",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	userID := int(created["id"].(float64))
	assert.Equal(t, "jean@example.com", created["email"])
	_, hasPassword := created["password"]
	assert.False(t, hasPassword)

	w = do(r, http.MethodPost, "/users/login", gin.H{"email": "jean@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode(t, w)
	token := login["token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jean@example.com", decode(t, rec)["email"])

	// no token, no profile
	w = do(r, http.MethodGet, "/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/users/login", gin.H{"email": "jean@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Email ou mot de passe incorrect", decode(t, w)["error"])

	w = do(r, http.MethodPut, fmt.Sprintf("/users/%d/deactivate", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodPost, "/users/login", gin.H{"email": "jean@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Compte désactivé", decode(t, w)["error"])
}

func TestRecommendationEndpoints(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/users", gin.H{
		"email": "jean@example.com", "password": "secret123",
		"firstName": "Jean", "lastName": "Dupont",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	userID := int(decode(t, w)["id"].(float64))

	w = do(r, http.MethodPost, "/recipes", gin.H{"title": "Ratatouille", "cookTime": 45})
	require.Equal(t, http.StatusCreated, w.Code)
	recipeID := int(decode(t, w)["id"].(float64))

	w = do(r, http.MethodPost, "/recommendations", gin.H{
		"userId": userID, "recipeId": recipeID, "score": 0.9,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/recommendations", gin.H{"userId": 999, "recipeId": recipeID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, fmt.Sprintf("/recommendations/user/%d", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recs []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recs))
	assert.Len(t, recs, 1)
}
