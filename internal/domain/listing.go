package domain

// Listing covers both marketplace items and bookable stays. Items leave the
// booking fields at their defaults; stays use InstantBook/MaxGuests plus the
// calendar tables.
type Listing struct {
	ID           string  `db:"id" json:"id"`
	UserID       int64   `db:"user_id" json:"user_id"`
	CompanyID    *int64  `db:"company_id" json:"company_id,omitempty"`
	Title        string  `db:"title" json:"title"`
	Description  string  `db:"description" json:"description"`
	Price        float64 `db:"price" json:"price"`
	Condition    string  `db:"condition" json:"condition"`
	Category     string  `db:"category" json:"category"`
	Location     string  `db:"location" json:"location"`
	ContactPhone *string `db:"contact_phone" json:"contact_phone,omitempty"`
	ContactEmail *string `db:"contact_email" json:"contact_email,omitempty"`
	Status       string  `db:"status" json:"status"` // active | inactive
	InstantBook  bool    `db:"instant_book" json:"instant_book"`
	MaxGuests    int     `db:"max_guests" json:"max_guests"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
	UpdatedAt    string  `db:"updated_at" json:"updated_at"`
}

type ListingImage struct {
	ID           int64  `db:"id" json:"id"`
	ListingID    string `db:"listing_id" json:"listing_id"`
	ImageURL     string `db:"image_url" json:"image_url"`
	IsCover      bool   `db:"is_cover" json:"is_cover"`
	DisplayOrder int    `db:"display_order" json:"display_order"`
}

type DateRange struct {
	CheckIn  string `db:"check_in" json:"check_in"`
	CheckOut string `db:"check_out" json:"check_out"`
}

type ListingDetails struct {
	Listing
	Images           []ListingImage `json:"images"`
	UnavailableDates []DateRange    `json:"unavailable_dates,omitempty"`
	SellerName       string         `json:"seller_name,omitempty"`
}

// ListingFilters is serialized (as JSON) to key the listing cache, so field
// order and tags matter for stable keys.
type ListingFilters struct {
	Search    string  `json:"search,omitempty"`
	Category  string  `json:"category,omitempty"`
	Location  string  `json:"location,omitempty"`
	Condition string  `json:"condition,omitempty"`
	MinPrice  float64 `json:"min_price,omitempty"`
	MaxPrice  float64 `json:"max_price,omitempty"`
	Guests    int     `json:"guests,omitempty"`
	Limit     int     `json:"limit,omitempty"`
	Offset    int     `json:"offset,omitempty"`
}

type TownCount struct {
	Location string `db:"location" json:"location"`
	Count    int64  `db:"count" json:"count"`
}

type CalendarDay struct {
	ID          int64   `db:"id" json:"id"`
	ListingID   string  `db:"listing_id" json:"listing_id"`
	Date        string  `db:"date" json:"date"`
	Price       float64 `db:"price" json:"price"`
	IsAvailable bool    `db:"is_available" json:"is_available"`
	UpdatedAt   string  `db:"updated_at" json:"updated_at"`
}

type ListingSettings struct {
	ListingID          string   `db:"listing_id" json:"listing_id"`
	BasePrice          *float64 `db:"base_price" json:"base_price,omitempty"`
	WeekendPrice       *float64 `db:"weekend_price" json:"weekend_price,omitempty"`
	WeeklyDiscount     float64  `db:"weekly_discount" json:"weekly_discount"`
	MonthlyDiscount    float64  `db:"monthly_discount" json:"monthly_discount"`
	MinNights          int      `db:"min_nights" json:"min_nights"`
	MaxNights          int      `db:"max_nights" json:"max_nights"`
	AvailabilityWindow int      `db:"availability_window" json:"availability_window"`
	UpdatedAt          string   `db:"updated_at" json:"updated_at"`
}
