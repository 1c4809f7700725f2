package handlers_test

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestListingCreateWithImages(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerUser(t, app, "seller", "seller@example.com")

	files := []filePart{
		{field: "images[]", name: "a.png", data: pngBytes(t, 2000, 1000)},
		{field: "images[]", name: "b.png", data: pngBytes(t, 100, 100)},
	}
	fields := map[string]string{
		"title":       "Road bike",
		"description": "Lightly used",
		"price":       "120.50",
		"category":    "sports",
		"location":    "Springfield",
		"condition":   "used",
	}
	resp, err := app.Test(multipartRequest(t, "/api/listings", token, fields, files), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("create: expected 201, got %d body=%s", resp.StatusCode, b)
	}
	var out struct {
		ID     string `json:"id"`
		Price  float64
		Images []struct {
			ImageURL string `json:"image_url"`
			IsCover  bool   `json:"is_cover"`
		} `json:"images"`
	}
	decode(t, resp, &out)
	if len(out.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(out.Images))
	}
	if !out.Images[0].IsCover {
		t.Fatal("first image should be the cover")
	}
	for _, img := range out.Images {
		if !strings.HasPrefix(img.ImageURL, "http://test.local/uploads/") {
			t.Fatalf("image url not rewritten to base url: %s", img.ImageURL)
		}
		if !strings.HasSuffix(img.ImageURL, ".jpg") {
			t.Fatalf("image not re-encoded as jpeg: %s", img.ImageURL)
		}
	}

	// Catalog rows carry the images too.
	resp = doJSON(t, app, "GET", "/api/listings", "", nil)
	var rows []struct {
		ID     string `json:"id"`
		Images []struct {
			IsCover bool `json:"is_cover"`
		} `json:"images"`
	}
	decode(t, resp, &rows)
	if len(rows) != 1 || len(rows[0].Images) != 2 {
		t.Fatalf("catalog rows missing images: %+v", rows)
	}
}

func TestListingUpdateReplacesImages(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerUser(t, app, "seller", "seller@example.com")

	files := []filePart{{field: "images[]", name: "old.png", data: pngBytes(t, 50, 50)}}
	fields := map[string]string{
		"title": "Poster", "description": "Vintage", "price": "10",
		"category": "art", "location": "Springfield",
	}
	resp, err := app.Test(multipartRequest(t, "/api/listings", token, fields, files), -1)
	if err != nil {
		t.Fatal(err)
	}
	var created struct {
		ID string `json:"id"`
	}
	decode(t, resp, &created)

	// A multipart update with files swaps the whole image set.
	newFiles := []filePart{
		{field: "images[]", name: "n1.png", data: pngBytes(t, 60, 60)},
		{field: "images[]", name: "n2.png", data: pngBytes(t, 70, 70)},
	}
	req := multipartRequest(t, "/api/listings/"+created.ID, token, map[string]string{"price": "12"}, newFiles)
	req.Method = "PUT"
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Price  float64 `json:"price"`
		Images []struct {
			IsCover bool `json:"is_cover"`
		} `json:"images"`
	}
	decode(t, resp, &out)
	if out.Price != 12 || len(out.Images) != 2 || !out.Images[0].IsCover {
		t.Fatalf("images not replaced: %+v", out)
	}

	// A JSON update leaves the images alone.
	resp = doJSON(t, app, "PUT", "/api/listings/"+created.ID, token, map[string]any{"price": 14.0})
	decode(t, resp, &out)
	if out.Price != 14 || len(out.Images) != 2 {
		t.Fatalf("json update should keep images: %+v", out)
	}
}

func TestListingFiltersAndVisibility(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerUser(t, app, "seller", "seller@example.com")

	bikeID := createListing(t, app, token, "Mountain bike", map[string]string{"price": "300", "category": "sports"})
	createListing(t, app, token, "Coffee table", map[string]string{"price": "80", "category": "furniture", "location": "Shelbyville"})

	var listings []struct {
		ID    string  `json:"id"`
		Title string  `json:"title"`
		Price float64 `json:"price"`
	}

	resp := doJSON(t, app, "GET", "/api/listings", "", nil)
	decode(t, resp, &listings)
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	resp = doJSON(t, app, "GET", "/api/listings?category=sports", "", nil)
	decode(t, resp, &listings)
	if len(listings) != 1 || listings[0].Title != "Mountain bike" {
		t.Fatalf("category filter failed: %+v", listings)
	}

	resp = doJSON(t, app, "GET", "/api/listings?max_price=100", "", nil)
	decode(t, resp, &listings)
	if len(listings) != 1 || listings[0].Title != "Coffee table" {
		t.Fatalf("max_price filter failed: %+v", listings)
	}

	resp = doJSON(t, app, "GET", "/api/listings?search=bike", "", nil)
	decode(t, resp, &listings)
	if len(listings) != 1 || listings[0].ID != bikeID {
		t.Fatalf("search filter failed: %+v", listings)
	}

	// Unpublishing removes the listing from the public catalog.
	resp = doJSON(t, app, "POST", "/api/listings/"+bikeID+"/unpublish", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unpublish: expected 200, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "GET", "/api/listings", "", nil)
	decode(t, resp, &listings)
	if len(listings) != 1 {
		t.Fatalf("inactive listing still listed: %+v", listings)
	}

	// Anonymous detail view of an inactive listing is a 404; the owner still
	// sees it.
	resp = doJSON(t, app, "GET", "/api/listings/"+bikeID, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("inactive detail anon: expected 404, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "GET", "/api/listings/"+bikeID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("inactive detail owner: expected 200, got %d", resp.StatusCode)
	}

	// And publish brings it back.
	resp = doJSON(t, app, "POST", "/api/listings/"+bikeID+"/publish", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("publish: expected 200, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "GET", "/api/listings", "", nil)
	decode(t, resp, &listings)
	if len(listings) != 2 {
		t.Fatalf("published listing missing: %+v", listings)
	}
}

func TestListingOwnershipEnforced(t *testing.T) {
	app, _ := newTestApp(t)
	owner, _ := registerUser(t, app, "owner", "owner@example.com")
	other, _ := registerUser(t, app, "other", "other@example.com")

	id := createListing(t, app, owner, "Lamp", nil)

	resp := doJSON(t, app, "PUT", "/api/listings/"+id, other, map[string]any{"title": "Stolen"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign update: expected 403, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "DELETE", "/api/listings/"+id, other, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign delete: expected 403, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "PUT", "/api/listings/"+id, owner, map[string]any{"title": "Desk lamp", "price": 15.0})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner update: expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Title string  `json:"title"`
		Price float64 `json:"price"`
	}
	decode(t, resp, &out)
	if out.Title != "Desk lamp" || out.Price != 15.0 {
		t.Fatalf("update not applied: %+v", out)
	}

	resp = doJSON(t, app, "DELETE", "/api/listings/"+id, owner, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "GET", "/api/listings/"+id, owner, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted listing: expected 404, got %d", resp.StatusCode)
	}
}

func TestTownsAggregation(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerUser(t, app, "seller", "seller@example.com")
	createListing(t, app, token, "One", map[string]string{"location": "Springfield"})
	createListing(t, app, token, "Two", map[string]string{"location": "Springfield"})
	createListing(t, app, token, "Three", map[string]string{"location": "Shelbyville"})

	resp := doJSON(t, app, "GET", "/api/listings/towns", "", nil)
	var towns []struct {
		Location string `json:"location"`
		Count    int64  `json:"count"`
	}
	decode(t, resp, &towns)
	if len(towns) != 2 {
		t.Fatalf("expected 2 towns, got %+v", towns)
	}
	if towns[0].Location != "Springfield" || towns[0].Count != 2 {
		t.Fatalf("towns not ordered by count: %+v", towns)
	}
}

func TestMineIncludesInactive(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerUser(t, app, "seller", "seller@example.com")
	id := createListing(t, app, token, "Chair", nil)
	doJSON(t, app, "POST", "/api/listings/"+id+"/unpublish", token, nil)

	resp := doJSON(t, app, "GET", "/api/listings/mine", token, nil)
	var mine []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, resp, &mine)
	if len(mine) != 1 || mine[0].Status != "inactive" {
		t.Fatalf("mine should include inactive listings: %+v", mine)
	}
}
