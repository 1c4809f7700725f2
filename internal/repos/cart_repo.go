package repos

import (
	"github.com/jmoiron/sqlx"

	"marketnest/internal/domain"
)

type CartRepo struct{ DB *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{DB: db} }

func (r *CartRepo) List(userID int64) ([]domain.CartRow, error) {
	out := []domain.CartRow{}
	err := r.DB.Select(&out, `
	  SELECT c.id, c.listing_id, l.title, l.price, c.quantity,
	    (SELECT image_url FROM listing_images WHERE listing_id=l.id ORDER BY is_cover DESC, display_order ASC LIMIT 1) AS listing_image
	  FROM cart_items c
	  JOIN listings l ON l.id = c.listing_id
	  WHERE c.user_id = ?
	  ORDER BY c.created_at DESC`, userID)
	return out, err
}

// Count is the total quantity across the user's cart rows.
func (r *CartRepo) Count(userID int64) (int64, error) {
	var n int64
	err := r.DB.Get(&n, `SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE user_id=?`, userID)
	return n, err
}

// Add puts the listing in the cart, bumping quantity when it is already there.
func (r *CartRepo) Add(userID int64, listingID string, qty int) error {
	_, err := r.DB.Exec(`INSERT INTO cart_items(user_id, listing_id, quantity) VALUES(?,?,?)
	  ON CONFLICT(user_id, listing_id) DO UPDATE SET
	    quantity = cart_items.quantity + excluded.quantity,
	    updated_at = CURRENT_TIMESTAMP`, userID, listingID, qty)
	return err
}

func (r *CartRepo) SetQuantity(userID int64, listingID string, qty int) (bool, error) {
	res, err := r.DB.Exec(`UPDATE cart_items SET quantity=?, updated_at=CURRENT_TIMESTAMP
	  WHERE user_id=? AND listing_id=?`, qty, userID, listingID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *CartRepo) Remove(userID int64, listingID string) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM cart_items WHERE user_id=? AND listing_id=?`, userID, listingID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *CartRepo) Clear(userID int64) error {
	_, err := r.DB.Exec(`DELETE FROM cart_items WHERE user_id=?`, userID)
	return err
}
