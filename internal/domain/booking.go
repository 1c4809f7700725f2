package domain

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingDeclined  = "declined"
	BookingCancelled = "cancelled"
)

type Booking struct {
	ID         string  `db:"id" json:"id"`
	ListingID  string  `db:"listing_id" json:"listing_id"`
	GuestID    int64   `db:"guest_id" json:"guest_id"`
	CheckIn    string  `db:"check_in" json:"check_in"`
	CheckOut   string  `db:"check_out" json:"check_out"`
	Guests     int     `db:"guests" json:"guests"`
	TotalPrice float64 `db:"total_price" json:"total_price"`
	Status     string  `db:"status" json:"status"`
	CreatedAt  string  `db:"created_at" json:"created_at"`
	UpdatedAt  string  `db:"updated_at" json:"updated_at"`
}

type BookingDetails struct {
	Booking
	GuestName       string  `db:"guest_name" json:"guest_name"`
	GuestEmail      string  `db:"guest_email" json:"guest_email"`
	ListingTitle    string  `db:"listing_title" json:"listing_title"`
	ListingLocation string  `db:"listing_location" json:"listing_location"`
	ListingImage    *string `db:"listing_image" json:"listing_image,omitempty"`
}
