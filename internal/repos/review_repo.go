package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"marketnest/internal/domain"
)

type ReviewRepo struct{ DB *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

const reviewCols = `id, listing_id, user_id, rating, title, comment, created_at, updated_at`

func (r *ReviewRepo) ByID(id int64) (*domain.Review, error) {
	var rv domain.Review
	if err := r.DB.Get(&rv, `SELECT `+reviewCols+` FROM reviews WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &rv, nil
}

// ListForListing returns the listing's reviews with vote tallies, images and
// the seller response. viewerID==0 means anonymous (no user_vote).
func (r *ReviewRepo) ListForListing(listingID string, viewerID int64) ([]domain.ReviewDetails, error) {
	type row struct {
		domain.Review
		Username        string `db:"username"`
		HelpfulCount    int64  `db:"helpful_count"`
		NotHelpfulCount int64  `db:"not_helpful_count"`
	}
	var rows []row
	err := r.DB.Select(&rows, `
	  SELECT r.id, r.listing_id, r.user_id, r.rating, r.title, r.comment, r.created_at, r.updated_at,
	    u.username AS username,
	    (SELECT COUNT(*) FROM review_votes v WHERE v.review_id=r.id AND v.is_helpful=1) AS helpful_count,
	    (SELECT COUNT(*) FROM review_votes v WHERE v.review_id=r.id AND v.is_helpful=0) AS not_helpful_count
	  FROM reviews r
	  JOIN users u ON u.id = r.user_id
	  WHERE r.listing_id = ?
	  ORDER BY r.created_at DESC`, listingID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ReviewDetails, 0, len(rows))
	for _, row := range rows {
		d := domain.ReviewDetails{
			Review:          row.Review,
			Username:        row.Username,
			HelpfulCount:    row.HelpfulCount,
			NotHelpfulCount: row.NotHelpfulCount,
			Images:          []string{},
		}
		if err := r.DB.Select(&d.Images, `SELECT image_url FROM review_images WHERE review_id=?`, row.ID); err != nil {
			return nil, err
		}
		if viewerID != 0 {
			var helpful bool
			err := r.DB.Get(&helpful, `SELECT is_helpful FROM review_votes WHERE review_id=? AND user_id=?`, row.ID, viewerID)
			if err == nil {
				d.UserVote = &helpful
			} else if !errors.Is(err, sql.ErrNoRows) {
				return nil, err
			}
		}
		var resp domain.SellerResponse
		err = r.DB.Get(&resp, `SELECT id, response_text, created_at FROM review_responses WHERE review_id=?`, row.ID)
		if err == nil {
			d.SellerResponse = &resp
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *ReviewRepo) Stats(listingID string) (*domain.ReviewStats, error) {
	var s domain.ReviewStats
	err := r.DB.Get(&s.TotalReviews, `SELECT COUNT(*) FROM reviews WHERE listing_id=?`, listingID)
	if err != nil {
		return nil, err
	}
	if s.TotalReviews > 0 {
		if err := r.DB.Get(&s.AverageRating, `SELECT AVG(rating) FROM reviews WHERE listing_id=?`, listingID); err != nil {
			return nil, err
		}
	}
	s.RatingDistribution = []domain.RatingCount{}
	err = r.DB.Select(&s.RatingDistribution, `SELECT rating, COUNT(*) AS count
	  FROM reviews WHERE listing_id=? GROUP BY rating ORDER BY rating DESC`, listingID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts the review and its images in one transaction.
func (r *ReviewRepo) Create(rv *domain.Review, imageURLs []string) (*domain.Review, error) {
	tx, err := r.DB.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`INSERT INTO reviews(listing_id, user_id, rating, title, comment)
	  VALUES(?,?,?,?,?)`, rv.ListingID, rv.UserID, rv.Rating, rv.Title, rv.Comment)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	for _, u := range imageURLs {
		if _, err := tx.Exec(`INSERT INTO review_images(review_id, image_url) VALUES(?,?)`, id, u); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.ByID(id)
}

// Vote records a helpful/not-helpful vote, replacing the user's prior vote on
// the same review.
func (r *ReviewRepo) Vote(reviewID, userID int64, helpful bool) error {
	_, err := r.DB.Exec(`INSERT INTO review_votes(review_id, user_id, is_helpful) VALUES(?,?,?)
	  ON CONFLICT(review_id, user_id) DO UPDATE SET is_helpful=excluded.is_helpful`,
		reviewID, userID, helpful)
	return err
}

func (r *ReviewRepo) Respond(reviewID, userID int64, text string) (*domain.SellerResponse, error) {
	_, err := r.DB.Exec(`INSERT INTO review_responses(review_id, user_id, response_text) VALUES(?,?,?)
	  ON CONFLICT(review_id) DO UPDATE SET response_text=excluded.response_text, created_at=CURRENT_TIMESTAMP`,
		reviewID, userID, text)
	if err != nil {
		return nil, err
	}
	var resp domain.SellerResponse
	if err := r.DB.Get(&resp, `SELECT id, response_text, created_at FROM review_responses WHERE review_id=?`, reviewID); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ReviewRepo) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM reviews WHERE id=?`, id)
	return err
}
