package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"marketnest/internal/domain"
	"marketnest/internal/repos"
)

type BookingService struct {
	Bookings *repos.BookingRepo
	Listings *repos.ListingRepo
	Calendar *repos.CalendarRepo
	Messages *repos.MessageRepo
}

func NewBookingService(b *repos.BookingRepo, l *repos.ListingRepo, c *repos.CalendarRepo, m *repos.MessageRepo) *BookingService {
	return &BookingService{Bookings: b, Listings: l, Calendar: c, Messages: m}
}

const dateLayout = "2006-01-02"

// Create validates and places a booking request. Listings with instant_book
// are confirmed immediately; others start pending and await the host.
func (s *BookingService) Create(guestID int64, listingID, checkIn, checkOut string, guests int) (*domain.Booking, error) {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return nil, fmt.Errorf("%w: bad check_in date", ErrInvalid)
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return nil, fmt.Errorf("%w: bad check_out date", ErrInvalid)
	}
	if !out.After(in) {
		return nil, fmt.Errorf("%w: check_out must be after check_in", ErrInvalid)
	}
	today := time.Now().Truncate(24 * time.Hour)
	if in.Before(today) {
		return nil, fmt.Errorf("%w: check_in is in the past", ErrInvalid)
	}

	l, err := s.Listings.Get(listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if l.Status != "active" {
		return nil, ErrNotFound
	}
	if l.UserID == guestID {
		return nil, fmt.Errorf("%w: cannot book your own listing", ErrInvalid)
	}
	if guests < 1 {
		guests = 1
	}
	if guests > l.MaxGuests {
		return nil, fmt.Errorf("%w: listing allows at most %d guests", ErrInvalid, l.MaxGuests)
	}

	overlap, err := s.Bookings.HasOverlap(listingID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, fmt.Errorf("%w: dates are already booked", ErrConflict)
	}
	blocked, err := s.Calendar.BlockedDays(listingID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if len(blocked) > 0 {
		return nil, fmt.Errorf("%w: listing is unavailable on %s", ErrConflict, blocked[0])
	}

	nights := int(out.Sub(in).Hours() / 24)
	total, err := s.price(l, in, nights)
	if err != nil {
		return nil, err
	}

	status := domain.BookingPending
	if l.InstantBook {
		status = domain.BookingConfirmed
	}
	b := &domain.Booking{
		ID:         uuid.NewString(),
		ListingID:  listingID,
		GuestID:    guestID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     guests,
		TotalPrice: total,
		Status:     status,
	}
	if err := s.Bookings.Create(b); err != nil {
		return nil, err
	}
	return s.Bookings.ByID(b.ID)
}

// price sums per-night rates from calendar overrides and settings, falling
// back to the listing's base price.
func (s *BookingService) price(l *domain.Listing, checkIn time.Time, nights int) (float64, error) {
	settings, err := s.Calendar.Settings(l.ID)
	if err != nil {
		return 0, err
	}
	from := checkIn.Format(dateLayout)
	to := checkIn.AddDate(0, 0, nights).Format(dateLayout)
	days, err := s.Calendar.Range(l.ID, from, to)
	if err != nil {
		return 0, err
	}
	overrides := make(map[string]float64, len(days))
	for _, d := range days {
		if d.Price > 0 {
			overrides[d.Date] = d.Price
		}
	}

	var total float64
	for i := 0; i < nights; i++ {
		day := checkIn.AddDate(0, 0, i)
		rate := l.Price
		if settings.BasePrice != nil && *settings.BasePrice > 0 {
			rate = *settings.BasePrice
		}
		if wd := day.Weekday(); (wd == time.Friday || wd == time.Saturday) &&
			settings.WeekendPrice != nil && *settings.WeekendPrice > 0 {
			rate = *settings.WeekendPrice
		}
		if p, ok := overrides[day.Format(dateLayout)]; ok {
			rate = p
		}
		total += rate
	}
	if nights >= 28 && settings.MonthlyDiscount > 0 {
		total *= 1 - settings.MonthlyDiscount/100
	} else if nights >= 7 && settings.WeeklyDiscount > 0 {
		total *= 1 - settings.WeeklyDiscount/100
	}
	return total, nil
}

func (s *BookingService) ForGuest(guestID int64) ([]domain.BookingDetails, error) {
	return s.Bookings.ForGuest(guestID)
}

func (s *BookingService) ForHost(hostID int64) ([]domain.BookingDetails, error) {
	return s.Bookings.ForHost(hostID)
}

func (s *BookingService) HostToday(hostID int64) ([]domain.BookingDetails, error) {
	return s.Bookings.HostToday(hostID)
}

func (s *BookingService) HostUpcoming(hostID int64) ([]domain.BookingDetails, error) {
	return s.Bookings.HostUpcoming(hostID)
}

// Decide approves or declines a pending booking. Only the listing's host may
// decide, and a note is dropped into the conversation with the guest; a
// decline reason, when given, is appended to that note.
func (s *BookingService) Decide(bookingID string, hostID int64, approve bool, reason string) (*domain.Booking, error) {
	b, err := s.Bookings.ByID(bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	l, err := s.Listings.Get(b.ListingID)
	if err != nil {
		return nil, err
	}
	if l.UserID != hostID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingPending {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalid, b.Status)
	}

	status := domain.BookingDeclined
	note := fmt.Sprintf("Your booking request for %s (%s to %s) was declined.", l.Title, b.CheckIn, b.CheckOut)
	if reason != "" {
		note += " Reason: " + reason
	}
	if approve {
		status = domain.BookingConfirmed
		note = fmt.Sprintf("Your booking for %s (%s to %s) is confirmed.", l.Title, b.CheckIn, b.CheckOut)
	}
	if err := s.Bookings.SetStatus(bookingID, status); err != nil {
		return nil, err
	}
	s.notifyGuest(l, b.GuestID, hostID, note)
	return s.Bookings.ByID(bookingID)
}

// Cancel lets the guest withdraw a pending or confirmed booking.
func (s *BookingService) Cancel(bookingID string, guestID int64) (*domain.Booking, error) {
	b, err := s.Bookings.ByID(bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.GuestID != guestID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingPending && b.Status != domain.BookingConfirmed {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalid, b.Status)
	}
	if err := s.Bookings.SetStatus(bookingID, domain.BookingCancelled); err != nil {
		return nil, err
	}
	return s.Bookings.ByID(bookingID)
}

// notifyGuest posts a status note into the guest's conversation for the
// listing, creating the conversation if messaging never happened. Failures
// here never fail the booking decision.
func (s *BookingService) notifyGuest(l *domain.Listing, guestID, hostID int64, note string) {
	conv, err := s.Messages.FindConversation(l.ID, guestID)
	if errors.Is(err, sql.ErrNoRows) {
		conv = &domain.Conversation{
			ID:        uuid.NewString(),
			ListingID: l.ID,
			BuyerID:   guestID,
			SellerID:  l.UserID,
		}
		if err := s.Messages.CreateConversation(conv); err != nil {
			return
		}
	} else if err != nil {
		return
	}
	_ = s.Messages.InsertMessage(&domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		SenderID:       hostID,
		Content:        note,
	})
}
