package handlers

import "github.com/gofiber/fiber/v2"

// Register wires every API route onto the app. Kept separate from main so
// tests can build the same app.
func Register(app *fiber.App, d *Deps) {
	auth := d.Auth
	api := app.Group("/api")

	// Auth
	api.Post("/auth/register", d.AuthHandler.Register)
	api.Post("/auth/login", d.AuthHandler.Login)
	api.Post("/auth/logout", d.AuthHandler.Logout)

	// Account
	api.Get("/me", RequireUser(auth), d.AccountHandler.Me)
	api.Put("/me", RequireUser(auth), d.AccountHandler.UpdateMe)
	api.Get("/users/:id", d.AccountHandler.GetUser)

	// Listings (public reads, owner writes)
	api.Get("/listings", OptionalUser(auth), d.ListingHandler.List)
	api.Get("/listings/towns", d.ListingHandler.Towns)
	api.Get("/listings/mine", RequireUser(auth), d.ListingHandler.Mine)
	api.Get("/listings/:id", OptionalUser(auth), d.ListingHandler.Get)
	api.Post("/listings", RequireUser(auth), d.ListingHandler.Create)
	api.Put("/listings/:id", RequireUser(auth), d.ListingHandler.Update)
	api.Delete("/listings/:id", RequireUser(auth), d.ListingHandler.Delete)
	api.Post("/listings/:id/publish", RequireUser(auth), d.ListingHandler.Publish)
	api.Post("/listings/:id/unpublish", RequireUser(auth), d.ListingHandler.Unpublish)

	// Shop profiles and portfolio projects
	api.Get("/shop", RequireUser(auth), d.CompanyHandler.Mine)
	api.Post("/shop", RequireUser(auth), d.CompanyHandler.Upsert)
	api.Get("/shop/projects", RequireUser(auth), d.CompanyHandler.Projects)
	api.Post("/shop/projects", RequireUser(auth), d.CompanyHandler.CreateProject)
	api.Put("/shop/projects/:id", RequireUser(auth), d.CompanyHandler.UpdateProject)
	api.Delete("/shop/projects/:id", RequireUser(auth), d.CompanyHandler.DeleteProject)
	api.Get("/shop/:id", d.CompanyHandler.Get)

	// Messaging
	api.Get("/conversations", RequireUser(auth), d.MessageHandler.Conversations)
	api.Post("/conversations", RequireUser(auth), d.MessageHandler.Start)
	api.Get("/conversations/:id/messages", RequireUser(auth), d.MessageHandler.History)
	api.Post("/conversations/:id/messages", RequireUser(auth), d.MessageHandler.Send)
	api.Delete("/conversations/:id", RequireUser(auth), d.MessageHandler.DeleteConversation)
	api.Get("/messages/unread-count", RequireUser(auth), d.MessageHandler.UnreadCount)
	api.Get("/messages/templates", d.MessageHandler.Templates)

	// Reviews
	api.Get("/reviews/listing/:listingId", OptionalUser(auth), d.ReviewHandler.List)
	api.Get("/reviews/listing/:listingId/stats", d.ReviewHandler.Stats)
	api.Post("/reviews", RequireUser(auth), d.ReviewHandler.Create)
	api.Post("/reviews/:id/vote", RequireUser(auth), d.ReviewHandler.Vote)
	api.Post("/reviews/:id/response", RequireUser(auth), d.ReviewHandler.Respond)
	api.Delete("/reviews/:id", RequireUser(auth), d.ReviewHandler.Delete)

	// Wishlist
	api.Get("/wishlist", RequireUser(auth), d.WishlistHandler.List)
	api.Get("/wishlist/count", RequireUser(auth), d.WishlistHandler.Count)
	api.Get("/wishlist/check/:listingId", RequireUser(auth), d.WishlistHandler.Check)
	api.Post("/wishlist", RequireUser(auth), d.WishlistHandler.Add)
	api.Delete("/wishlist/:listingId", RequireUser(auth), d.WishlistHandler.Remove)

	// Cart
	api.Get("/cart", RequireUser(auth), d.CartHandler.List)
	api.Get("/cart/count", RequireUser(auth), d.CartHandler.Count)
	api.Post("/cart", RequireUser(auth), d.CartHandler.Add)
	api.Put("/cart/:listingId", RequireUser(auth), d.CartHandler.SetQuantity)
	api.Delete("/cart/:listingId", RequireUser(auth), d.CartHandler.Remove)
	api.Delete("/cart", RequireUser(auth), d.CartHandler.Clear)

	// Bookings
	api.Post("/bookings", RequireUser(auth), d.BookingHandler.Create)
	api.Get("/bookings/mine", RequireUser(auth), d.BookingHandler.Mine)
	api.Get("/bookings/host", RequireUser(auth), d.BookingHandler.Host)
	api.Get("/bookings/host/today", RequireUser(auth), d.BookingHandler.HostToday)
	api.Get("/bookings/host/upcoming", RequireUser(auth), d.BookingHandler.HostUpcoming)
	api.Post("/bookings/:id/approve", RequireUser(auth), d.BookingHandler.Approve)
	api.Post("/bookings/:id/decline", RequireUser(auth), d.BookingHandler.Decline)
	api.Post("/bookings/:id/cancel", RequireUser(auth), d.BookingHandler.Cancel)

	// Calendar
	api.Get("/calendar/:listingId", RequireUser(auth), d.CalendarHandler.GetDays)
	api.Put("/calendar/:listingId", RequireUser(auth), d.CalendarHandler.UpsertDays)
	api.Get("/calendar/:listingId/settings", RequireUser(auth), d.CalendarHandler.GetSettings)
	api.Put("/calendar/:listingId/settings", RequireUser(auth), d.CalendarHandler.UpsertSettings)

	// Roles
	api.Get("/roles/me", RequireUser(auth), d.RoleHandler.Get)
	api.Post("/roles", RequireUser(auth), d.RoleHandler.Set)

	// Reports
	api.Post("/reports", RequireUser(auth), d.ReportHandler.Create)

	// Uploads & misc
	api.Post("/upload", RequireUser(auth), d.UploadHandler.Upload)
	api.Post("/translate", d.MiscHandler.DoTranslate)
	api.Get("/dashboard-summary", OptionalUser(auth), d.MiscHandler.DashboardSummary)

	// Admin
	admin := api.Group("/admin", RequireAdmin(auth, d.Roles))
	admin.Get("/hosts", d.AdminHandler.ListHosts)
	admin.Get("/reports", d.AdminHandler.ListReports)
	admin.Delete("/users/:id", d.AdminHandler.DeleteUser)
}
