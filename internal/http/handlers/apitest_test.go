package handlers_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"marketnest/internal/config"
	"marketnest/internal/http/handlers"
	"marketnest/internal/repos"
)

func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	app, db, _ := newTestAppDir(t)
	return app, db
}

func newTestAppDir(t *testing.T) (*fiber.App, *sqlx.DB, string) {
	t.Helper()
	db, err := repos.OpenDB(":memory:", true)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// A second pooled connection would see a different in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	publicDir := t.TempDir()
	cfg := config.Config{
		BaseURL:              "http://test.local",
		PublicDir:            publicDir,
		JWTSecret:            "test-secret",
		LegacyTokens:         true,
		StorageDriver:        "local",
		CacheTTL:             time.Minute,
		CacheCapacity:        64,
		CacheWriteInvalidate: true,
	}
	deps, err := handlers.NewDeps(db, cfg)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}

	app := fiber.New()
	app.Server().MaxRequestBodySize = 32 << 20
	handlers.Register(app, deps)
	return app, db, publicDir
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// registerUser creates an account through the API and returns its token and id.
func registerUser(t *testing.T, app *fiber.App, username, email string) (string, int64) {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/auth/register", "", fiber.Map{
		"username": username, "email": email, "password": "Sup3rSecret!",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", email, resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	decode(t, resp, &out)
	if out.Token == "" {
		t.Fatal("register returned no token")
	}
	return out.Token, out.User.ID
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

type filePart struct {
	field, name string
	data        []byte
}

// multipartRequest builds a multipart POST with form fields and files.
func multipartRequest(t *testing.T, path, token string, fields map[string]string, files []filePart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// createListing makes an active listing via the API and returns its id.
func createListing(t *testing.T, app *fiber.App, token, title string, extra map[string]string) string {
	t.Helper()
	fields := map[string]string{
		"title":       title,
		"description": "test listing " + title,
		"price":       "50",
		"category":    "general",
		"location":    "Springfield",
	}
	for k, v := range extra {
		fields[k] = v
	}
	resp, err := app.Test(multipartRequest(t, "/api/listings", token, fields, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("create listing: status %d body=%s", resp.StatusCode, b)
	}
	var out struct {
		ID string `json:"id"`
	}
	decode(t, resp, &out)
	if out.ID == "" {
		t.Fatal("create listing returned no id")
	}
	return out.ID
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}
