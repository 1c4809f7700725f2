package handlers_test

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestShopUpsertAndPublicView(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerUser(t, app, "merchant", "merchant@example.com")

	resp := doJSON(t, app, "POST", "/api/shop", token, fiber.Map{
		"name": "Nest Goods", "email": "shop@example.com", "phone": "555-0101", "location": "Springfield",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("shop create: expected 200, got %d", resp.StatusCode)
	}
	var shop struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	decode(t, resp, &shop)

	// Upserting again updates in place instead of creating a second shop.
	resp = doJSON(t, app, "POST", "/api/shop", token, fiber.Map{
		"name": "Nest Goods Deluxe", "email": "shop@example.com", "phone": "555-0101", "location": "Springfield",
	})
	var shop2 struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	decode(t, resp, &shop2)
	if shop2.ID != shop.ID || shop2.Name != "Nest Goods Deluxe" {
		t.Fatalf("upsert created new row or kept old name: %+v vs %+v", shop, shop2)
	}

	// Attach a listing to the shop and check the public count.
	createListing(t, app, token, "Shop item", map[string]string{"company_id": strconv.FormatInt(shop.ID, 10)})

	resp = doJSON(t, app, "GET", "/api/shop/"+strconv.FormatInt(shop.ID, 10), "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("shop get: expected 200, got %d", resp.StatusCode)
	}
	var pub struct {
		Company struct {
			Name string `json:"name"`
		} `json:"company"`
		ActiveListings int64 `json:"active_listings"`
	}
	decode(t, resp, &pub)
	if pub.Company.Name != "Nest Goods Deluxe" || pub.ActiveListings != 1 {
		t.Fatalf("public shop view: %+v", pub)
	}
}

func TestShopProjectsLifecycle(t *testing.T) {
	app, _ := newTestApp(t)
	owner, _ := registerUser(t, app, "studio", "studio@example.com")
	rival, _ := registerUser(t, app, "rival", "rival@example.com")

	// No shop profile yet: the caller's shop is a 404 and projects cannot be
	// created.
	resp := doJSON(t, app, "GET", "/api/shop", owner, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("shop before create: expected 404, got %d", resp.StatusCode)
	}
	req := multipartRequest(t, "/api/shop/projects", owner, map[string]string{"name": "Remodel"}, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("project without shop: expected 400, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "POST", "/api/shop", owner, fiber.Map{
		"name": "Lakeside Studio", "email": "studio@example.com", "phone": "555-0102", "location": "Springfield",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("shop create: expected 200, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "GET", "/api/shop", owner, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("own shop: expected 200, got %d", resp.StatusCode)
	}

	// Create a project with a plan document, a showcase image and a gallery.
	files := []filePart{
		{field: "plan", name: "plan.pdf", data: []byte("%PDF-1.4 fake plan")},
		{field: "showcase", name: "model.png", data: pngBytes(t, 40, 40)},
		{field: "images[]", name: "g1.png", data: pngBytes(t, 30, 30)},
		{field: "images[]", name: "g2.png", data: pngBytes(t, 30, 30)},
	}
	fields := map[string]string{
		"name": "Lakeside remodel", "description": "Full refit",
		"cost": "12500", "location": "Springfield",
	}
	resp, err = app.Test(multipartRequest(t, "/api/shop/projects", owner, fields, files), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("project create: expected 201, got %d", resp.StatusCode)
	}
	var proj struct {
		ID      int64    `json:"id"`
		Name    string   `json:"name"`
		Cost    *float64 `json:"cost"`
		PlanURL *string  `json:"plan_url"`
		Images  []string `json:"images"`
	}
	decode(t, resp, &proj)
	if proj.Name != "Lakeside remodel" || proj.Cost == nil || *proj.Cost != 12500 {
		t.Fatalf("project fields: %+v", proj)
	}
	if proj.PlanURL == nil || !strings.HasSuffix(*proj.PlanURL, ".pdf") {
		t.Fatalf("plan document not stored: %+v", proj.PlanURL)
	}
	if len(proj.Images) != 2 {
		t.Fatalf("gallery: expected 2 images, got %+v", proj.Images)
	}

	resp = doJSON(t, app, "GET", "/api/shop/projects", owner, nil)
	var list []struct {
		ID     int64    `json:"id"`
		Images []string `json:"images"`
	}
	decode(t, resp, &list)
	if len(list) != 1 || list[0].ID != proj.ID || len(list[0].Images) != 2 {
		t.Fatalf("project list: %+v", list)
	}

	// Field updates do not touch the uploads.
	idPath := "/api/shop/projects/" + strconv.FormatInt(proj.ID, 10)
	resp = doJSON(t, app, "PUT", idPath, owner, fiber.Map{"name": "Lakeside remodel II", "cost": 15000})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("project update: expected 200, got %d", resp.StatusCode)
	}
	decode(t, resp, &proj)
	if proj.Name != "Lakeside remodel II" || *proj.Cost != 15000 || proj.PlanURL == nil {
		t.Fatalf("update lost fields: %+v", proj)
	}

	// Other users cannot touch it.
	resp = doJSON(t, app, "PUT", idPath, rival, fiber.Map{"name": "Mine now"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign update: expected 404, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "DELETE", idPath, rival, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign delete: expected 404, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "DELETE", idPath, owner, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "GET", "/api/shop/projects", owner, nil)
	decode(t, resp, &list)
	if len(list) != 0 {
		t.Fatalf("project still listed after delete: %+v", list)
	}
}

func TestUploadNonImagePreservedVerbatim(t *testing.T) {
	app, _, publicDir := newTestAppDir(t)
	token, _ := registerUser(t, app, "uploader", "uploader@example.com")

	payload := []byte("name,price\nmug,8\n")
	req := multipartRequest(t, "/api/upload", token, nil, []filePart{
		{field: "images[]", name: "inventory.csv", data: payload},
	})
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d", resp.StatusCode)
	}
	var out struct {
		URLs []string `json:"urls"`
	}
	decode(t, resp, &out)
	if len(out.URLs) != 1 {
		t.Fatalf("expected 1 url, got %+v", out.URLs)
	}
	u := out.URLs[0]
	if !strings.HasSuffix(u, ".csv") {
		t.Fatalf("non-image extension not kept: %s", u)
	}

	rel := strings.TrimPrefix(u, "http://test.local/")
	stored, err := os.ReadFile(filepath.Join(publicDir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(stored, payload) {
		t.Fatal("non-image bytes were modified")
	}
}

func TestUploadImageResized(t *testing.T) {
	app, _, publicDir := newTestAppDir(t)
	token, _ := registerUser(t, app, "uploader", "uploader@example.com")

	req := multipartRequest(t, "/api/upload", token, nil, []filePart{
		{field: "images[]", name: "big.png", data: pngBytes(t, 3000, 1500)},
	})
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		URLs []string `json:"urls"`
	}
	decode(t, resp, &out)
	if len(out.URLs) != 1 || !strings.HasSuffix(out.URLs[0], ".jpg") {
		t.Fatalf("image not re-encoded: %+v", out.URLs)
	}

	rel := strings.TrimPrefix(out.URLs[0], "http://test.local/")
	fi, err := os.Stat(filepath.Join(publicDir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("stat stored image: %v", err)
	}
	if fi.Size() == 0 {
		t.Fatal("stored image is empty")
	}
}

func TestDashboardSummary(t *testing.T) {
	app, _ := newTestApp(t)
	host, _ := registerUser(t, app, "host", "host@example.com")
	guest, _ := registerUser(t, app, "guest", "guest@example.com")

	fields := stayFields("100")
	fields["instant_book"] = "true"
	id := createListing(t, app, host, "Cabin", fields)
	inactiveID := createListing(t, app, host, "Paused", nil)
	doJSON(t, app, "POST", "/api/listings/"+inactiveID+"/unpublish", host, nil)

	resp := doJSON(t, app, "POST", "/api/bookings", guest, fiber.Map{
		"listing_id": id, "check_in": futureDate(2), "check_out": futureDate(4), "guests": 1,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("booking: expected 201, got %d", resp.StatusCode)
	}
	doJSON(t, app, "POST", "/api/conversations", guest, fiber.Map{"listing_id": id, "content": "hello"})

	resp = doJSON(t, app, "GET", "/api/dashboard-summary", host, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d", resp.StatusCode)
	}
	var sum struct {
		ListingsTotal     int     `json:"listings_total"`
		ListingsActive    int     `json:"listings_active"`
		BookingsConfirmed int     `json:"bookings_confirmed"`
		RevenueConfirmed  float64 `json:"revenue_confirmed"`
		UnreadMessages    int64   `json:"unread_messages"`
	}
	decode(t, resp, &sum)
	if sum.ListingsTotal != 2 || sum.ListingsActive != 1 {
		t.Fatalf("listing counts: %+v", sum)
	}
	if sum.BookingsConfirmed != 1 || sum.RevenueConfirmed != 200 {
		t.Fatalf("booking summary: %+v", sum)
	}
	if sum.UnreadMessages != 1 {
		t.Fatalf("unread: %+v", sum)
	}

	// Anonymous callers get zeroes, not a 401.
	resp = doJSON(t, app, "GET", "/api/dashboard-summary", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("anonymous summary: expected 200, got %d", resp.StatusCode)
	}
	var anon struct {
		ListingsTotal  int   `json:"listings_total"`
		UnreadMessages int64 `json:"unread_messages"`
	}
	decode(t, resp, &anon)
	if anon.ListingsTotal != 0 || anon.UnreadMessages != 0 {
		t.Fatalf("anonymous summary should be zeroes: %+v", anon)
	}
}

func TestHostTodayAndUpcoming(t *testing.T) {
	app, _ := newTestApp(t)
	host, _ := registerUser(t, app, "host", "host@example.com")
	guest, _ := registerUser(t, app, "guest", "guest@example.com")
	fields := stayFields("50")
	fields["instant_book"] = "true"
	id := createListing(t, app, host, "Inn", fields)

	// A stay covering today and one in the future.
	resp := doJSON(t, app, "POST", "/api/bookings", guest, fiber.Map{
		"listing_id": id, "check_in": futureDate(0), "check_out": futureDate(2), "guests": 1,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("today booking: got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "POST", "/api/bookings", guest, fiber.Map{
		"listing_id": id, "check_in": futureDate(30), "check_out": futureDate(33), "guests": 1,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("future booking: got %d", resp.StatusCode)
	}

	var rows []struct {
		CheckIn string `json:"check_in"`
	}
	resp = doJSON(t, app, "GET", "/api/bookings/host/today", host, nil)
	decode(t, resp, &rows)
	if len(rows) != 1 || rows[0].CheckIn != futureDate(0) {
		t.Fatalf("host today: %+v", rows)
	}

	resp = doJSON(t, app, "GET", "/api/bookings/host/upcoming", host, nil)
	decode(t, resp, &rows)
	if len(rows) != 1 || rows[0].CheckIn != futureDate(30) {
		t.Fatalf("host upcoming: %+v", rows)
	}

	resp = doJSON(t, app, "GET", "/api/bookings/host", host, nil)
	decode(t, resp, &rows)
	if len(rows) != 2 {
		t.Fatalf("host all: %+v", rows)
	}
}
