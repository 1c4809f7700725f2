package domain

type WishlistItem struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	ListingID string `db:"listing_id" json:"listing_id"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// WishlistRow is the wishlist joined with listing display fields.
type WishlistRow struct {
	ID           int64   `db:"id" json:"id"`
	ListingID    string  `db:"listing_id" json:"listing_id"`
	Title        string  `db:"title" json:"title"`
	Price        float64 `db:"price" json:"price"`
	Location     string  `db:"location" json:"location"`
	Status       string  `db:"status" json:"status"`
	ListingImage *string `db:"listing_image" json:"listing_image,omitempty"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
}

type CartItem struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	ListingID string `db:"listing_id" json:"listing_id"`
	Quantity  int    `db:"quantity" json:"quantity"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

type CartRow struct {
	ID           int64   `db:"id" json:"id"`
	ListingID    string  `db:"listing_id" json:"listing_id"`
	Title        string  `db:"title" json:"title"`
	Price        float64 `db:"price" json:"price"`
	Quantity     int     `db:"quantity" json:"quantity"`
	ListingImage *string `db:"listing_image" json:"listing_image,omitempty"`
}

type Company struct {
	ID          int64   `db:"id" json:"id"`
	UserID      int64   `db:"user_id" json:"user_id"`
	Name        string  `db:"name" json:"name"`
	Email       string  `db:"email" json:"email"`
	Phone       string  `db:"phone" json:"phone"`
	Location    string  `db:"location" json:"location"`
	Description *string `db:"description" json:"description,omitempty"`
	LogoURL     *string `db:"logo_url" json:"logo_url,omitempty"`
	BannerURL   *string `db:"banner_url" json:"banner_url,omitempty"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	UpdatedAt   string  `db:"updated_at" json:"updated_at"`
}

// CompanyProject is a portfolio entry on a shop profile: a past job with an
// optional plan document, a showcase file and an image gallery.
type CompanyProject struct {
	ID          int64    `db:"id" json:"id"`
	CompanyID   int64    `db:"company_id" json:"company_id"`
	UserID      int64    `db:"user_id" json:"user_id"`
	Name        string   `db:"name" json:"name"`
	Description *string  `db:"description" json:"description,omitempty"`
	Cost        *float64 `db:"cost" json:"cost,omitempty"`
	Location    *string  `db:"location" json:"location,omitempty"`
	PlanURL     *string  `db:"plan_url" json:"plan_url,omitempty"`
	ShowcaseURL *string  `db:"showcase_url" json:"showcase_url,omitempty"`
	CreatedAt   string   `db:"created_at" json:"created_at"`
	UpdatedAt   string   `db:"updated_at" json:"updated_at"`
	Images      []string `db:"-" json:"images"`
}

type Report struct {
	ID         int64   `db:"id" json:"id"`
	ReporterID int64   `db:"reporter_id" json:"reporter_id"`
	HostID     int64   `db:"host_id" json:"host_id"`
	ListingID  *string `db:"listing_id" json:"listing_id,omitempty"`
	Reason     string  `db:"reason" json:"reason"`
	Status     string  `db:"status" json:"status"`
	CreatedAt  string  `db:"created_at" json:"created_at"`
}
