package services

import (
	"database/sql"
	"errors"

	"marketnest/internal/domain"
	"marketnest/internal/repos"
)

type ReviewService struct {
	Reviews  *repos.ReviewRepo
	Listings *repos.ListingRepo
}

func NewReviewService(r *repos.ReviewRepo, l *repos.ListingRepo) *ReviewService {
	return &ReviewService{Reviews: r, Listings: l}
}

func (s *ReviewService) List(listingID string, viewerID int64) ([]domain.ReviewDetails, error) {
	return s.Reviews.ListForListing(listingID, viewerID)
}

func (s *ReviewService) Stats(listingID string) (*domain.ReviewStats, error) {
	return s.Reviews.Stats(listingID)
}

func (s *ReviewService) Create(userID int64, listingID string, rating int, title, comment *string, imageURLs []string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalid
	}
	if _, err := s.Listings.Get(listingID); errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return s.Reviews.Create(&domain.Review{
		ListingID: listingID,
		UserID:    userID,
		Rating:    rating,
		Title:     title,
		Comment:   comment,
	}, imageURLs)
}

func (s *ReviewService) Vote(reviewID, userID int64, helpful bool) error {
	if _, err := s.Reviews.ByID(reviewID); errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return s.Reviews.Vote(reviewID, userID, helpful)
}

// Respond lets the listing's owner answer a review.
func (s *ReviewService) Respond(reviewID, userID int64, text string) (*domain.SellerResponse, error) {
	if text == "" {
		return nil, ErrInvalid
	}
	rv, err := s.Reviews.ByID(reviewID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	l, err := s.Listings.Get(rv.ListingID)
	if err != nil {
		return nil, err
	}
	if l.UserID != userID {
		return nil, ErrForbidden
	}
	return s.Reviews.Respond(reviewID, userID, text)
}

// Delete removes a review. The author may always delete their own; admins may
// delete any.
func (s *ReviewService) Delete(reviewID, userID int64, isAdmin bool) error {
	rv, err := s.Reviews.ByID(reviewID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if rv.UserID != userID && !isAdmin {
		return ErrForbidden
	}
	return s.Reviews.Delete(reviewID)
}
