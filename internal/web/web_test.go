package web

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/pawswipe/internal/db"
	"github.com/erazemk/pawswipe/internal/model"
	"github.com/erazemk/pawswipe/internal/store"
)

func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()
	database := db.NewTestDB(t)
	router, err := NewRouter(database)
	require.NoError(t, err)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, database
}

var noRedirectClient = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

func createPet(t *testing.T, database *sql.DB, p model.Pet) *model.Pet {
	t.Helper()
	pet, err := store.CreatePet(context.Background(), database, &p)
	require.NoError(t, err)
	return pet
}

func get(t *testing.T, url string, header http.Header) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := noRedirectClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func petURL(server *httptest.Server, id int64) string {
	return server.URL + "/pet/" + strconv.FormatInt(id, 10)
}

func TestTemplatesLoad(t *testing.T) {
	ts, err := LoadTemplates()
	require.NoError(t, err)
	for _, page := range pages {
		assert.Contains(t, ts.templates, page)
	}
}

func TestIndex(t *testing.T) {
	server, database := setupTestServer(t)

	resp, body := get(t, server.URL+"/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No more pets")

	pet := createPet(t, database, model.Pet{Name: "Biscuit", Type: "Dog", Breed: "Beagle"})
	resp, body = get(t, server.URL+"/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Biscuit")
	assert.Contains(t, body, `action="/adopt/`+strconv.FormatInt(pet.ID, 10)+`"`)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestHeartedAndPrevious(t *testing.T) {
	server, database := setupTestServer(t)
	ctx := context.Background()
	a := createPet(t, database, model.Pet{Name: "Alpha", Type: "Dog"})
	b := createPet(t, database, model.Pet{Name: "Bravo", Type: "Cat"})
	require.NoError(t, store.Heart(ctx, database, a.ID))
	require.NoError(t, store.Skip(ctx, database, b.ID))

	_, body := get(t, server.URL+"/hearted", nil)
	assert.Contains(t, body, "Alpha")
	assert.NotContains(t, body, "Bravo")

	_, body = get(t, server.URL+"/previous", nil)
	assert.Contains(t, body, "Bravo")
	assert.NotContains(t, body, "Alpha")
}

func TestFilterPages(t *testing.T) {
	server, database := setupTestServer(t)
	ny, ca := "NY", "CA"
	createPet(t, database, model.Pet{Name: "Tom", Type: "Cat", Gender: "Male", ContactState: &ny})
	createPet(t, database, model.Pet{Name: "Rex", Type: "Dog", Gender: "Male", ContactState: &ny})
	createPet(t, database, model.Pet{Name: "Kit", Type: "Cat", Gender: "Female", ContactState: &ca})

	_, body := get(t, server.URL+"/filter", nil)
	assert.Contains(t, body, `<option value="Cat">Cat</option>`)
	assert.Contains(t, body, `<option value="Either">Either</option>`)

	_, body = get(t, server.URL+"/filter-results?pet_type=Cat&gender=Either&city=&state=ny", nil)
	assert.Contains(t, body, "Tom")
	assert.NotContains(t, body, "All pets")
	assert.NotContains(t, body, "Rex")
	assert.NotContains(t, body, "Kit")

	_, body = get(t, server.URL+"/filter-results?pet_type=Either&gender=Either", nil)
	assert.Contains(t, body, "All pets")
	for _, name := range []string{"Tom", "Rex", "Kit"} {
		assert.Contains(t, body, name)
	}
}

func TestPetDetail(t *testing.T) {
	server, database := setupTestServer(t)
	email := "shelter@example.org"
	pet := createPet(t, database, model.Pet{Name: "Biscuit", Type: "Dog", Breed: "Beagle", ContactEmail: &email})

	resp, body := get(t, petURL(server, pet.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Beagle")
	assert.Contains(t, body, "mailto:shelter@example.org")
	assert.Contains(t, body, "Not decided yet")

	resp, body = get(t, petURL(server, 999), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Pet not found")

	resp, _ = get(t, server.URL+"/pet/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownPath(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, body := get(t, server.URL+"/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page not found")
}

func TestPetPhoto(t *testing.T) {
	server, database := setupTestServer(t)
	ctx := context.Background()

	cached := createPet(t, database, model.Pet{Name: "Cached", ImageURL: "https://img.example/a.jpg"})
	require.NoError(t, store.SetPetPhoto(ctx, database, &model.Photo{
		PetID: cached.ID, Data: []byte("jpeg-bytes"), MIME: "image/jpeg", Width: 1, Height: 1, ETag: `"abc"`,
	}))
	remote := createPet(t, database, model.Pet{Name: "Remote", ImageURL: "https://img.example/b.jpg"})
	none := createPet(t, database, model.Pet{Name: "None"})

	resp, body := get(t, petURL(server, cached.ID)+"/photo", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jpeg-bytes", body)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, `"abc"`, resp.Header.Get("ETag"))

	resp, body = get(t, petURL(server, cached.ID)+"/photo", http.Header{"If-None-Match": {`"abc"`}})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	assert.Empty(t, body)

	resp, _ = get(t, petURL(server, remote.ID)+"/photo", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://img.example/b.jpg", resp.Header.Get("Location"))

	resp, _ = get(t, petURL(server, none.ID)+"/photo", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, petURL(server, 999)+"/photo", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStaticAssets(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, body := get(t, server.URL+"/static/script.js", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "X-Requested-With")

	resp, _ = get(t, server.URL+"/static/style.css", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
