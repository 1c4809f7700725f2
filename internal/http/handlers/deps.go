package handlers

import (
	"github.com/jmoiron/sqlx"

	"marketnest/internal/cache"
	"marketnest/internal/config"
	"marketnest/internal/repos"
	"marketnest/internal/services"
	"marketnest/internal/storage"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler     *AuthHandler
	AccountHandler  *AccountHandler
	ListingHandler  *ListingHandler
	CompanyHandler  *CompanyHandler
	MessageHandler  *MessageHandler
	ReviewHandler   *ReviewHandler
	WishlistHandler *WishlistHandler
	CartHandler     *CartHandler
	BookingHandler  *BookingHandler
	CalendarHandler *CalendarHandler
	RoleHandler     *RoleHandler
	ReportHandler   *ReportHandler
	AdminHandler    *AdminHandler
	UploadHandler   *UploadHandler
	MiscHandler     *MiscHandler

	Roles *repos.RoleRepo
}

func NewDeps(db *sqlx.DB, cfg config.Config) (*Deps, error) {
	userRepo := repos.NewUserRepo(db)
	listingRepo := repos.NewListingRepo(db)
	companyRepo := repos.NewCompanyRepo(db)
	messageRepo := repos.NewMessageRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	cartRepo := repos.NewCartRepo(db)
	bookingRepo := repos.NewBookingRepo(db)
	calendarRepo := repos.NewCalendarRepo(db)
	roleRepo := repos.NewRoleRepo(db)
	reportRepo := repos.NewReportRepo(db)

	authSvc, err := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.LegacyTokens,
		cfg.IdpJWTSecret, cfg.IdpIssuer, cfg.IdpJWKSURL)
	if err != nil {
		return nil, err
	}

	var store storage.Store
	if cfg.StorageDriver == "bucket" {
		store = storage.NewBucket(cfg.StorageURL, cfg.StorageBucket, cfg.StorageKey)
	} else {
		store = storage.NewLocal(cfg.PublicDir)
	}
	uploadSvc := services.NewUploadService(store, cfg.BaseURL)

	listCache := cache.New(cfg.CacheTTL, cfg.CacheCapacity, cfg.CacheWriteInvalidate)
	listingSvc := services.NewListingService(listingRepo, bookingRepo, listCache)
	bookingSvc := services.NewBookingService(bookingRepo, listingRepo, calendarRepo, messageRepo)
	messageSvc := services.NewMessageService(messageRepo, listingRepo)
	reviewSvc := services.NewReviewService(reviewRepo, listingRepo)
	translateSvc := services.NewTranslateService(cfg.TranslateURL)

	return &Deps{
		Auth:  authSvc,
		Roles: roleRepo,

		AuthHandler:     &AuthHandler{Auth: authSvc},
		AccountHandler:  &AccountHandler{Users: userRepo, Roles: roleRepo},
		ListingHandler:  &ListingHandler{Listings: listingSvc, Uploads: uploadSvc},
		CompanyHandler:  &CompanyHandler{Companies: companyRepo, Uploads: uploadSvc},
		MessageHandler:  &MessageHandler{Messages: messageSvc, Uploads: uploadSvc},
		ReviewHandler:   &ReviewHandler{Reviews: reviewSvc, Uploads: uploadSvc, Roles: roleRepo},
		WishlistHandler: &WishlistHandler{Wishlist: wishRepo, Listings: listingRepo},
		CartHandler:     &CartHandler{Cart: cartRepo, Listings: listingRepo},
		BookingHandler:  &BookingHandler{Bookings: bookingSvc},
		CalendarHandler: &CalendarHandler{Calendar: calendarRepo, Listings: listingRepo},
		RoleHandler:     &RoleHandler{Roles: roleRepo},
		ReportHandler:   &ReportHandler{Reports: reportRepo, Users: userRepo},
		AdminHandler:    &AdminHandler{Users: userRepo, Reports: reportRepo},
		UploadHandler:   &UploadHandler{Uploads: uploadSvc},
		MiscHandler: &MiscHandler{
			Translate: translateSvc,
			Listings:  listingRepo,
			Bookings:  bookingRepo,
			Messages:  messageRepo,
			Wishlist:  wishRepo,
		},
	}, nil
}
