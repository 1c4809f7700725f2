package domain

type User struct {
	ID         int64   `db:"id" json:"id"`
	Username   string  `db:"username" json:"username"`
	Email      string  `db:"email" json:"email"`
	Hash       *string `db:"password_hash" json:"-"`
	ExternalID *string `db:"external_id" json:"-"`
	CreatedAt  string  `db:"created_at" json:"created_at"`
	UpdatedAt  string  `db:"updated_at" json:"updated_at"`
}

type Profile struct {
	UserID      int64   `db:"user_id" json:"user_id"`
	LegalName   *string `db:"legal_name" json:"legal_name,omitempty"`
	Phone       *string `db:"phone" json:"phone,omitempty"`
	Bio         *string `db:"bio" json:"bio,omitempty"`
	Avatar      *string `db:"avatar" json:"avatar,omitempty"`
	Location    *string `db:"location" json:"location,omitempty"`
	Language    *string `db:"language" json:"language,omitempty"`
	Currency    *string `db:"currency" json:"currency,omitempty"`
	NotifyEmail *bool   `db:"notify_email" json:"notify_email,omitempty"`
	NotifySMS   *bool   `db:"notify_sms" json:"notify_sms,omitempty"`
	UpdatedAt   *string `db:"updated_at" json:"updated_at,omitempty"`
}

// HostSummary is the admin view of a user that owns listings.
type HostSummary struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	Email        string `db:"email" json:"email"`
	ListingCount int64  `db:"listing_count" json:"listing_count"`
	BookingCount int64  `db:"booking_count" json:"booking_count"`
	OpenReports  int64  `db:"open_reports" json:"open_reports"`
	MemberSince  string `db:"created_at" json:"member_since"`
}

type Session struct {
	Token     string `db:"token" json:"-"`
	UserID    int64  `db:"user_id" json:"user_id"`
	ExpiresAt string `db:"expires_at" json:"expires_at"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type UserRole struct {
	ID     int64  `db:"id" json:"id"`
	UserID int64  `db:"user_id" json:"user_id"`
	Role   string `db:"role" json:"role"` // guest | host | admin
}
