package domain

type Review struct {
	ID        int64   `db:"id" json:"id"`
	ListingID string  `db:"listing_id" json:"listing_id"`
	UserID    int64   `db:"user_id" json:"user_id"`
	Rating    int     `db:"rating" json:"rating"`
	Title     *string `db:"title" json:"title,omitempty"`
	Comment   *string `db:"comment" json:"comment,omitempty"`
	CreatedAt string  `db:"created_at" json:"created_at"`
	UpdatedAt string  `db:"updated_at" json:"updated_at"`
}

type SellerResponse struct {
	ID           int64  `db:"id" json:"id"`
	ResponseText string `db:"response_text" json:"response_text"`
	CreatedAt    string `db:"created_at" json:"created_at"`
}

type ReviewDetails struct {
	Review
	Username        string          `json:"username"`
	HelpfulCount    int64           `json:"helpful_count"`
	NotHelpfulCount int64           `json:"not_helpful_count"`
	UserVote        *bool           `json:"user_vote,omitempty"`
	Images          []string        `json:"images"`
	SellerResponse  *SellerResponse `json:"seller_response,omitempty"`
}

type RatingCount struct {
	Rating int   `db:"rating" json:"rating"`
	Count  int64 `db:"count" json:"count"`
}

type ReviewStats struct {
	AverageRating      float64       `json:"average_rating"`
	TotalReviews       int64         `json:"total_reviews"`
	RatingDistribution []RatingCount `json:"rating_distribution"`
}
