package repos

import (
	"github.com/jmoiron/sqlx"

	"marketnest/internal/domain"
)

type WishlistRepo struct{ DB *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{DB: db} }

func (r *WishlistRepo) List(userID int64) ([]domain.WishlistRow, error) {
	out := []domain.WishlistRow{}
	err := r.DB.Select(&out, `
	  SELECT w.id, w.listing_id, l.title, l.price, l.location, l.status,
	    (SELECT image_url FROM listing_images WHERE listing_id=l.id ORDER BY is_cover DESC, display_order ASC LIMIT 1) AS listing_image,
	    w.created_at
	  FROM wishlist_items w
	  JOIN listings l ON l.id = w.listing_id
	  WHERE w.user_id = ?
	  ORDER BY w.created_at DESC`, userID)
	return out, err
}

func (r *WishlistRepo) Count(userID int64) (int64, error) {
	var n int64
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM wishlist_items WHERE user_id=?`, userID)
	return n, err
}

func (r *WishlistRepo) Exists(userID int64, listingID string) (bool, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM wishlist_items WHERE user_id=? AND listing_id=?`, userID, listingID)
	return n > 0, err
}

func (r *WishlistRepo) Add(userID int64, listingID string) (*domain.WishlistItem, error) {
	res, err := r.DB.Exec(`INSERT INTO wishlist_items(user_id, listing_id) VALUES(?,?)`, userID, listingID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var item domain.WishlistItem
	if err := r.DB.Get(&item, `SELECT id, user_id, listing_id, created_at FROM wishlist_items WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *WishlistRepo) Remove(userID int64, listingID string) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM wishlist_items WHERE user_id=? AND listing_id=?`, userID, listingID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
