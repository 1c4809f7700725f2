package handlers_test

import (
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func postReview(t *testing.T, app *fiber.App, token, listingID, rating string) *http.Response {
	t.Helper()
	fields := map[string]string{"listing_id": listingID, "rating": rating, "comment": "solid"}
	resp, err := app.Test(multipartRequest(t, "/api/reviews", token, fields, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestReviewRatingBounds(t *testing.T) {
	app, _ := newTestApp(t)
	seller, _ := registerUser(t, app, "seller", "seller@example.com")
	buyer, _ := registerUser(t, app, "buyer", "buyer@example.com")
	id := createListing(t, app, seller, "Table", nil)

	for _, bad := range []string{"0", "6", "-1", "abc", ""} {
		resp := postReview(t, app, buyer, id, bad)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("rating %q: expected 400, got %d", bad, resp.StatusCode)
		}
	}
	for _, good := range []string{"1", "5"} {
		resp := postReview(t, app, buyer, id, good)
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			t.Fatalf("rating %q: expected 201, got %d body=%s", good, resp.StatusCode, b)
		}
	}
}

func TestReviewVotesAndResponse(t *testing.T) {
	app, _ := newTestApp(t)
	seller, _ := registerUser(t, app, "seller", "seller@example.com")
	buyer, _ := registerUser(t, app, "buyer", "buyer@example.com")
	voter, _ := registerUser(t, app, "voter", "voter@example.com")
	id := createListing(t, app, seller, "Sofa", nil)

	resp := postReview(t, app, buyer, id, "4")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("review: expected 201, got %d", resp.StatusCode)
	}
	var rv struct {
		ID int64 `json:"id"`
	}
	decode(t, resp, &rv)
	reviewPath := "/api/reviews/" + strconv.FormatInt(rv.ID, 10)

	// Vote, then flip the vote; it must stay a single vote.
	resp = doJSON(t, app, "POST", reviewPath+"/vote", voter, fiber.Map{"is_helpful": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("vote: expected 200, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "POST", reviewPath+"/vote", voter, fiber.Map{"is_helpful": false})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("flip vote: expected 200, got %d", resp.StatusCode)
	}

	// Only the listing owner can respond.
	resp = doJSON(t, app, "POST", reviewPath+"/response", voter, fiber.Map{"response_text": "thanks"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign response: expected 403, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "POST", reviewPath+"/response", seller, fiber.Map{"response_text": "Appreciate it!"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("owner response: expected 201, got %d", resp.StatusCode)
	}

	// The listing review feed reflects votes, viewer vote and the response.
	resp = doJSON(t, app, "GET", "/api/reviews/listing/"+id, voter, nil)
	var list []struct {
		HelpfulCount    int64 `json:"helpful_count"`
		NotHelpfulCount int64 `json:"not_helpful_count"`
		UserVote        *bool `json:"user_vote"`
		SellerResponse  *struct {
			ResponseText string `json:"response_text"`
		} `json:"seller_response"`
	}
	decode(t, resp, &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 review, got %d", len(list))
	}
	r := list[0]
	if r.HelpfulCount != 0 || r.NotHelpfulCount != 1 {
		t.Fatalf("vote flip not upserted: helpful=%d not=%d", r.HelpfulCount, r.NotHelpfulCount)
	}
	if r.UserVote == nil || *r.UserVote != false {
		t.Fatalf("viewer vote missing: %+v", r.UserVote)
	}
	if r.SellerResponse == nil || r.SellerResponse.ResponseText != "Appreciate it!" {
		t.Fatalf("seller response missing: %+v", r.SellerResponse)
	}
}

func TestReviewStats(t *testing.T) {
	app, _ := newTestApp(t)
	seller, _ := registerUser(t, app, "seller", "seller@example.com")
	id := createListing(t, app, seller, "Bookshelf", nil)

	for i, rating := range []string{"5", "5", "3"} {
		tok, _ := registerUser(t, app, "r"+strconv.Itoa(i), "r"+strconv.Itoa(i)+"@example.com")
		if resp := postReview(t, app, tok, id, rating); resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed review: got %d", resp.StatusCode)
		}
	}

	resp := doJSON(t, app, "GET", "/api/reviews/listing/"+id+"/stats", "", nil)
	var stats struct {
		AverageRating      float64 `json:"average_rating"`
		TotalReviews       int64   `json:"total_reviews"`
		RatingDistribution []struct {
			Rating int   `json:"rating"`
			Count  int64 `json:"count"`
		} `json:"rating_distribution"`
	}
	decode(t, resp, &stats)
	if stats.TotalReviews != 3 {
		t.Fatalf("expected 3 reviews, got %d", stats.TotalReviews)
	}
	want := (5.0 + 5.0 + 3.0) / 3.0
	if stats.AverageRating < want-0.01 || stats.AverageRating > want+0.01 {
		t.Fatalf("average: expected ~%.2f, got %v", want, stats.AverageRating)
	}
	if len(stats.RatingDistribution) != 2 {
		t.Fatalf("distribution: %+v", stats.RatingDistribution)
	}
}

func TestReviewDeleteAuthorOrAdmin(t *testing.T) {
	app, db := newTestApp(t)
	seller, _ := registerUser(t, app, "seller", "seller@example.com")
	author, _ := registerUser(t, app, "author", "author@example.com")
	admin, adminID := registerUser(t, app, "admin", "admin@example.com")
	other, _ := registerUser(t, app, "other", "other@example.com")
	id := createListing(t, app, seller, "Mirror", nil)

	if _, err := db.Exec(`INSERT INTO user_roles(user_id, role) VALUES(?, 'admin')`, adminID); err != nil {
		t.Fatalf("grant admin: %v", err)
	}

	mkReview := func(tok string) string {
		resp := postReview(t, app, tok, id, "2")
		var rv struct {
			ID int64 `json:"id"`
		}
		decode(t, resp, &rv)
		return "/api/reviews/" + strconv.FormatInt(rv.ID, 10)
	}

	p1 := mkReview(author)
	if resp := doJSON(t, app, "DELETE", p1, other, nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign delete: expected 403, got %d", resp.StatusCode)
	}
	if resp := doJSON(t, app, "DELETE", p1, author, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("author delete: expected 200, got %d", resp.StatusCode)
	}

	p2 := mkReview(author)
	if resp := doJSON(t, app, "DELETE", p2, admin, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("admin delete: expected 200, got %d", resp.StatusCode)
	}
}
