package repos

import (
	"github.com/jmoiron/sqlx"

	"marketnest/internal/domain"
)

type BookingRepo struct{ DB *sqlx.DB }

func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingCols = `id, listing_id, guest_id, check_in, check_out, guests,
  total_price, status, created_at, updated_at`

const bookingDetailCols = `b.id, b.listing_id, b.guest_id, b.check_in, b.check_out,
  b.guests, b.total_price, b.status, b.created_at, b.updated_at,
  u.username AS guest_name, u.email AS guest_email,
  l.title AS listing_title, l.location AS listing_location,
  (SELECT image_url FROM listing_images WHERE listing_id=l.id ORDER BY is_cover DESC, display_order ASC LIMIT 1) AS listing_image`

func (r *BookingRepo) Create(b *domain.Booking) error {
	_, err := r.DB.Exec(`INSERT INTO bookings(
	    id, listing_id, guest_id, check_in, check_out, guests, total_price, status)
	  VALUES(?,?,?,?,?,?,?,?)`,
		b.ID, b.ListingID, b.GuestID, b.CheckIn, b.CheckOut, b.Guests, b.TotalPrice, b.Status)
	return err
}

func (r *BookingRepo) ByID(id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.DB.Get(&b, `SELECT `+bookingCols+` FROM bookings WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &b, nil
}

// HasOverlap reports whether any pending or confirmed booking intersects the
// half-open range [checkIn, checkOut).
func (r *BookingRepo) HasOverlap(listingID, checkIn, checkOut string) (bool, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM bookings
	  WHERE listing_id=? AND status IN ('pending','confirmed')
	    AND check_in < ? AND check_out > ?`, listingID, checkOut, checkIn)
	return n > 0, err
}

// UnavailableRanges returns booked date ranges for a listing, used on the
// public listing detail.
func (r *BookingRepo) UnavailableRanges(listingID string) ([]domain.DateRange, error) {
	out := []domain.DateRange{}
	err := r.DB.Select(&out, `SELECT check_in, check_out FROM bookings
	  WHERE listing_id=? AND status IN ('pending','confirmed') AND check_out >= date('now')
	  ORDER BY check_in ASC`, listingID)
	return out, err
}

func (r *BookingRepo) ForGuest(guestID int64) ([]domain.BookingDetails, error) {
	out := []domain.BookingDetails{}
	err := r.DB.Select(&out, `SELECT `+bookingDetailCols+`
	  FROM bookings b
	  JOIN users u ON u.id = b.guest_id
	  JOIN listings l ON l.id = b.listing_id
	  WHERE b.guest_id = ?
	  ORDER BY b.created_at DESC`, guestID)
	return out, err
}

func (r *BookingRepo) ForHost(hostID int64) ([]domain.BookingDetails, error) {
	out := []domain.BookingDetails{}
	err := r.DB.Select(&out, `SELECT `+bookingDetailCols+`
	  FROM bookings b
	  JOIN users u ON u.id = b.guest_id
	  JOIN listings l ON l.id = b.listing_id
	  WHERE l.user_id = ?
	  ORDER BY b.created_at DESC`, hostID)
	return out, err
}

// HostToday returns confirmed stays that are in progress today for the host's
// listings (check-ins, check-outs and currently staying guests).
func (r *BookingRepo) HostToday(hostID int64) ([]domain.BookingDetails, error) {
	out := []domain.BookingDetails{}
	err := r.DB.Select(&out, `SELECT `+bookingDetailCols+`
	  FROM bookings b
	  JOIN users u ON u.id = b.guest_id
	  JOIN listings l ON l.id = b.listing_id
	  WHERE l.user_id = ? AND b.status = 'confirmed'
	    AND b.check_in <= date('now') AND b.check_out >= date('now')
	  ORDER BY b.check_in ASC`, hostID)
	return out, err
}

func (r *BookingRepo) HostUpcoming(hostID int64) ([]domain.BookingDetails, error) {
	out := []domain.BookingDetails{}
	err := r.DB.Select(&out, `SELECT `+bookingDetailCols+`
	  FROM bookings b
	  JOIN users u ON u.id = b.guest_id
	  JOIN listings l ON l.id = b.listing_id
	  WHERE l.user_id = ? AND b.status IN ('pending','confirmed')
	    AND b.check_in > date('now')
	  ORDER BY b.check_in ASC`, hostID)
	return out, err
}

func (r *BookingRepo) SetStatus(id, status string) error {
	_, err := r.DB.Exec(`UPDATE bookings SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, status, id)
	return err
}
