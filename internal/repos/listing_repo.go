package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"marketnest/internal/domain"
)

type ListingRepo struct{ DB *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{DB: db} }

const listingCols = `id, user_id, company_id, title, description, price, condition, category,
  location, contact_phone, contact_email, status, instant_book, max_guests, created_at, updated_at`

// List returns active listings matching the filters, newest first.
func (r *ListingRepo) List(f domain.ListingFilters) ([]domain.Listing, error) {
	p := &predicate{}
	p.add(`status = 'active'`)
	if f.Search != "" {
		q := "%" + strings.ToLower(f.Search) + "%"
		p.add(`(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?)`, q, q, q)
	}
	if f.Category != "" {
		p.add(`category = ?`, f.Category)
	}
	if f.Location != "" {
		p.add(`LOWER(location) LIKE ?`, "%"+strings.ToLower(f.Location)+"%")
	}
	if f.Condition != "" {
		p.add(`condition = ?`, f.Condition)
	}
	if f.MinPrice > 0 {
		p.add(`price >= ?`, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		p.add(`price <= ?`, f.MaxPrice)
	}
	if f.Guests > 0 {
		p.add(`max_guests >= ?`, f.Guests)
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	sql := `SELECT ` + listingCols + ` FROM listings` + p.where() + `
	  ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args := append(p.args, limit, offset)

	out := []domain.Listing{}
	err := r.DB.Select(&out, sql, args...)
	return out, err
}

func (r *ListingRepo) Get(id string) (*domain.Listing, error) {
	var l domain.Listing
	err := r.DB.Get(&l, `SELECT `+listingCols+` FROM listings WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ListingRepo) Mine(userID int64) ([]domain.Listing, error) {
	out := []domain.Listing{}
	err := r.DB.Select(&out, `SELECT `+listingCols+` FROM listings
	  WHERE user_id = ? ORDER BY created_at DESC`, userID)
	return out, err
}

func (r *ListingRepo) Towns() ([]domain.TownCount, error) {
	out := []domain.TownCount{}
	err := r.DB.Select(&out, `SELECT location, COUNT(*) AS count FROM listings
	  WHERE status = 'active' AND location != ''
	  GROUP BY location ORDER BY count DESC, location ASC`)
	return out, err
}

// Create inserts the listing and its images in one transaction so a failed
// image insert never leaves a half-created listing behind.
func (r *ListingRepo) Create(l *domain.Listing, imageURLs []string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO listings(
	    id, user_id, company_id, title, description, price, condition, category,
	    location, contact_phone, contact_email, status, instant_book, max_guests)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		l.ID, l.UserID, l.CompanyID, l.Title, l.Description, l.Price, l.Condition,
		l.Category, l.Location, l.ContactPhone, l.ContactEmail, l.Status,
		l.InstantBook, l.MaxGuests)
	if err != nil {
		return err
	}

	for i, u := range imageURLs {
		isCover := 0
		if i == 0 {
			isCover = 1
		}
		if _, err := tx.Exec(`INSERT INTO listing_images(listing_id, image_url, is_cover, display_order)
		  VALUES(?,?,?,?)`, l.ID, u, isCover, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ReplaceImages swaps the listing's image set, first image becoming the cover.
func (r *ListingRepo) ReplaceImages(listingID string, imageURLs []string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM listing_images WHERE listing_id=?`, listingID); err != nil {
		return err
	}
	for i, u := range imageURLs {
		isCover := 0
		if i == 0 {
			isCover = 1
		}
		if _, err := tx.Exec(`INSERT INTO listing_images(listing_id, image_url, is_cover, display_order)
		  VALUES(?,?,?,?)`, listingID, u, isCover, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *ListingRepo) Update(l *domain.Listing) error {
	_, err := r.DB.Exec(`UPDATE listings SET
	    title=?, description=?, price=?, condition=?, category=?, location=?,
	    contact_phone=?, contact_email=?, instant_book=?, max_guests=?,
	    updated_at=CURRENT_TIMESTAMP
	  WHERE id=?`,
		l.Title, l.Description, l.Price, l.Condition, l.Category, l.Location,
		l.ContactPhone, l.ContactEmail, l.InstantBook, l.MaxGuests, l.ID)
	return err
}

func (r *ListingRepo) SetStatus(id, status string) error {
	_, err := r.DB.Exec(`UPDATE listings SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, status, id)
	return err
}

func (r *ListingRepo) Delete(id string) error {
	_, err := r.DB.Exec(`DELETE FROM listings WHERE id=?`, id)
	return err
}

func (r *ListingRepo) Images(listingID string) ([]domain.ListingImage, error) {
	out := []domain.ListingImage{}
	err := r.DB.Select(&out, `SELECT id, listing_id, image_url, is_cover, display_order
	  FROM listing_images WHERE listing_id = ? ORDER BY display_order ASC`, listingID)
	return out, err
}

// ImagesFor fetches images for a batch of listings in one query.
func (r *ListingRepo) ImagesFor(listingIDs []string) (map[string][]domain.ListingImage, error) {
	res := map[string][]domain.ListingImage{}
	if len(listingIDs) == 0 {
		return res, nil
	}
	query, args, err := sqlx.In(`SELECT id, listing_id, image_url, is_cover, display_order
	  FROM listing_images WHERE listing_id IN (?) ORDER BY display_order ASC`, listingIDs)
	if err != nil {
		return nil, err
	}
	var rows []domain.ListingImage
	if err := r.DB.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	for _, img := range rows {
		res[img.ListingID] = append(res[img.ListingID], img)
	}
	return res, nil
}

func (r *ListingRepo) SellerName(userID int64) (string, error) {
	var name string
	err := r.DB.Get(&name, `SELECT username FROM users WHERE id = ?`, userID)
	return name, err
}
