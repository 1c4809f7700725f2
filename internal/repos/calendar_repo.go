package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"marketnest/internal/domain"
)

type CalendarRepo struct{ DB *sqlx.DB }

func NewCalendarRepo(db *sqlx.DB) *CalendarRepo { return &CalendarRepo{DB: db} }

func (r *CalendarRepo) Range(listingID, from, to string) ([]domain.CalendarDay, error) {
	out := []domain.CalendarDay{}
	err := r.DB.Select(&out, `SELECT id, listing_id, date, price, is_available, updated_at
	  FROM calendar_days
	  WHERE listing_id=? AND date >= ? AND date <= ?
	  ORDER BY date ASC`, listingID, from, to)
	return out, err
}

// UpsertDays writes all day overrides in one transaction so a partial batch
// never lands.
func (r *CalendarRepo) UpsertDays(listingID string, days []domain.CalendarDay) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, d := range days {
		if _, err := tx.Exec(`INSERT INTO calendar_days(listing_id, date, price, is_available)
		  VALUES(?,?,?,?)
		  ON CONFLICT(listing_id, date) DO UPDATE SET
		    price=excluded.price, is_available=excluded.is_available,
		    updated_at=CURRENT_TIMESTAMP`,
			listingID, d.Date, d.Price, d.IsAvailable); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Settings returns per-listing pricing settings, falling back to defaults
// when the host never saved any.
func (r *CalendarRepo) Settings(listingID string) (*domain.ListingSettings, error) {
	var s domain.ListingSettings
	err := r.DB.Get(&s, `SELECT listing_id, base_price, weekend_price, weekly_discount,
	    monthly_discount, min_nights, max_nights, availability_window, updated_at
	  FROM listing_settings WHERE listing_id=?`, listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.ListingSettings{
			ListingID:          listingID,
			MinNights:          1,
			MaxNights:          365,
			AvailabilityWindow: 365,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CalendarRepo) UpsertSettings(s *domain.ListingSettings) error {
	_, err := r.DB.Exec(`INSERT INTO listing_settings(
	    listing_id, base_price, weekend_price, weekly_discount, monthly_discount,
	    min_nights, max_nights, availability_window)
	  VALUES(?,?,?,?,?,?,?,?)
	  ON CONFLICT(listing_id) DO UPDATE SET
	    base_price=excluded.base_price, weekend_price=excluded.weekend_price,
	    weekly_discount=excluded.weekly_discount, monthly_discount=excluded.monthly_discount,
	    min_nights=excluded.min_nights, max_nights=excluded.max_nights,
	    availability_window=excluded.availability_window,
	    updated_at=CURRENT_TIMESTAMP`,
		s.ListingID, s.BasePrice, s.WeekendPrice, s.WeeklyDiscount, s.MonthlyDiscount,
		s.MinNights, s.MaxNights, s.AvailabilityWindow)
	return err
}

// BlockedDays lists dates explicitly marked unavailable in the range.
func (r *CalendarRepo) BlockedDays(listingID, from, to string) ([]string, error) {
	out := []string{}
	err := r.DB.Select(&out, `SELECT date FROM calendar_days
	  WHERE listing_id=? AND is_available=0 AND date >= ? AND date < ?`, listingID, from, to)
	return out, err
}
