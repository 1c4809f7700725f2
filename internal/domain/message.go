package domain

type Conversation struct {
	ID        string `db:"id" json:"id"`
	ListingID string `db:"listing_id" json:"listing_id"`
	BuyerID   int64  `db:"buyer_id" json:"buyer_id"`
	SellerID  int64  `db:"seller_id" json:"seller_id"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

type Message struct {
	ID             string  `db:"id" json:"id"`
	ConversationID string  `db:"conversation_id" json:"conversation_id"`
	SenderID       int64   `db:"sender_id" json:"sender_id"`
	Content        string  `db:"content" json:"content"`
	ImageURL       *string `db:"image_url" json:"image_url,omitempty"`
	ReadAt         *string `db:"read_at" json:"read_at,omitempty"`
	CreatedAt      string  `db:"created_at" json:"created_at"`
}

type ConversationSummary struct {
	Conversation Conversation `json:"conversation"`
	LastMessage  *Message     `json:"last_message,omitempty"`
	OtherUserID  int64        `json:"other_user_id"`
	OtherName    string       `json:"other_name"`
	ListingTitle string       `json:"listing_title"`
	ListingImage *string      `json:"listing_image,omitempty"`
}
