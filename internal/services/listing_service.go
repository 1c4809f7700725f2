package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"marketnest/internal/cache"
	"marketnest/internal/domain"
	"marketnest/internal/repos"
)

type ListingService struct {
	Listings *repos.ListingRepo
	Bookings *repos.BookingRepo
	Cache    *cache.ListingCache
}

func NewListingService(listings *repos.ListingRepo, bookings *repos.BookingRepo, c *cache.ListingCache) *ListingService {
	return &ListingService{Listings: listings, Bookings: bookings, Cache: c}
}

// Rows in the catalog carry a handful of images; the detail view has them all.
const maxListImages = 4

// List serves the public catalog through the filter-keyed cache.
func (s *ListingService) List(f domain.ListingFilters) ([]domain.ListingDetails, error) {
	key := cache.ListKey(f)
	if v, ok := s.Cache.GetList(key); ok {
		return v, nil
	}
	ls, err := s.Listings.List(f)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(ls))
	for i, l := range ls {
		ids[i] = l.ID
	}
	imgs, err := s.Listings.ImagesFor(ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ListingDetails, len(ls))
	for i, l := range ls {
		pics := imgs[l.ID]
		if len(pics) > maxListImages {
			pics = pics[:maxListImages]
		}
		if pics == nil {
			pics = []domain.ListingImage{}
		}
		out[i] = domain.ListingDetails{Listing: l, Images: pics}
	}
	s.Cache.SetList(key, out)
	return out, nil
}

// Get returns the public detail view: listing, images, seller name and the
// booked date ranges. Inactive listings are only visible to their owner.
func (s *ListingService) Get(id string, viewerID int64) (*domain.ListingDetails, error) {
	if v, ok := s.Cache.GetItem(id); ok {
		if v.Status != "active" && v.UserID != viewerID {
			return nil, ErrNotFound
		}
		return v, nil
	}

	l, err := s.Listings.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	d := &domain.ListingDetails{Listing: *l}
	if d.Images, err = s.Listings.Images(id); err != nil {
		return nil, err
	}
	if d.UnavailableDates, err = s.Bookings.UnavailableRanges(id); err != nil {
		return nil, err
	}
	if d.SellerName, err = s.Listings.SellerName(l.UserID); err != nil {
		return nil, err
	}

	s.Cache.SetItem(id, d)
	if d.Status != "active" && d.UserID != viewerID {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *ListingService) Mine(userID int64) ([]domain.ListingDetails, error) {
	ls, err := s.Listings.Mine(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(ls))
	for i, l := range ls {
		ids[i] = l.ID
	}
	imgs, err := s.Listings.ImagesFor(ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ListingDetails, len(ls))
	for i, l := range ls {
		out[i] = domain.ListingDetails{Listing: l, Images: imgs[l.ID]}
		if out[i].Images == nil {
			out[i].Images = []domain.ListingImage{}
		}
	}
	return out, nil
}

func (s *ListingService) Towns() ([]domain.TownCount, error) {
	return s.Listings.Towns()
}

func (s *ListingService) Create(l *domain.Listing, imageURLs []string) (*domain.ListingDetails, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = "active"
	}
	if l.MaxGuests <= 0 {
		l.MaxGuests = 1
	}
	if err := s.Listings.Create(l, imageURLs); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(l.ID)
	return s.Get(l.ID, l.UserID)
}

// owned fetches the listing and enforces that userID owns it. A listing that
// exists but belongs to someone else reads as ErrForbidden.
func (s *ListingService) owned(id string, userID int64) (*domain.Listing, error) {
	l, err := s.Listings.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if l.UserID != userID {
		return nil, ErrForbidden
	}
	return l, nil
}

// Update applies field changes and, when imageURLs is non-nil, replaces the
// image set.
func (s *ListingService) Update(id string, userID int64, apply func(*domain.Listing), imageURLs []string) (*domain.ListingDetails, error) {
	l, err := s.owned(id, userID)
	if err != nil {
		return nil, err
	}
	apply(l)
	if err := s.Listings.Update(l); err != nil {
		return nil, err
	}
	if imageURLs != nil {
		if err := s.Listings.ReplaceImages(id, imageURLs); err != nil {
			return nil, err
		}
	}
	s.Cache.Invalidate(id)
	return s.Get(id, userID)
}

func (s *ListingService) SetStatus(id string, userID int64, status string) error {
	if _, err := s.owned(id, userID); err != nil {
		return err
	}
	if err := s.Listings.SetStatus(id, status); err != nil {
		return err
	}
	s.Cache.Invalidate(id)
	return nil
}

func (s *ListingService) Delete(id string, userID int64) error {
	if _, err := s.owned(id, userID); err != nil {
		return err
	}
	if err := s.Listings.Delete(id); err != nil {
		return err
	}
	s.Cache.Invalidate(id)
	return nil
}
