package repos

import (
	"github.com/jmoiron/sqlx"

	"marketnest/internal/domain"
)

type MessageRepo struct{ DB *sqlx.DB }

func NewMessageRepo(db *sqlx.DB) *MessageRepo { return &MessageRepo{DB: db} }

const convCols = `id, listing_id, buyer_id, seller_id, created_at, updated_at`
const msgCols = `id, conversation_id, sender_id, content, image_url, read_at, created_at`

func (r *MessageRepo) ConversationByID(id string) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := r.DB.Get(&c, `SELECT `+convCols+` FROM conversations WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindConversation looks up an existing buyer/listing conversation.
func (r *MessageRepo) FindConversation(listingID string, buyerID int64) (*domain.Conversation, error) {
	var c domain.Conversation
	err := r.DB.Get(&c, `SELECT `+convCols+` FROM conversations
	  WHERE listing_id=? AND buyer_id=?`, listingID, buyerID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *MessageRepo) CreateConversation(c *domain.Conversation) error {
	_, err := r.DB.Exec(`INSERT INTO conversations(id, listing_id, buyer_id, seller_id)
	  VALUES(?,?,?,?)`, c.ID, c.ListingID, c.BuyerID, c.SellerID)
	return err
}

type conversationRow struct {
	domain.Conversation
	OtherUserID  int64   `db:"other_user_id"`
	OtherName    string  `db:"other_name"`
	ListingTitle string  `db:"listing_title"`
	ListingImage *string `db:"listing_image"`
}

// ConversationsFor lists the user's conversations newest-activity first, with
// counterparty and listing display fields joined in.
func (r *MessageRepo) ConversationsFor(userID int64) ([]domain.ConversationSummary, error) {
	var rows []conversationRow
	err := r.DB.Select(&rows, `
	  SELECT c.id, c.listing_id, c.buyer_id, c.seller_id, c.created_at, c.updated_at,
	    u.id AS other_user_id, u.username AS other_name,
	    l.title AS listing_title,
	    (SELECT image_url FROM listing_images WHERE listing_id=l.id ORDER BY is_cover DESC, display_order ASC LIMIT 1) AS listing_image
	  FROM conversations c
	  JOIN listings l ON l.id = c.listing_id
	  JOIN users u ON u.id = CASE WHEN c.buyer_id = ? THEN c.seller_id ELSE c.buyer_id END
	  WHERE c.buyer_id = ? OR c.seller_id = ?
	  ORDER BY c.updated_at DESC`, userID, userID, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ConversationSummary, 0, len(rows))
	for _, row := range rows {
		s := domain.ConversationSummary{
			Conversation: row.Conversation,
			OtherUserID:  row.OtherUserID,
			OtherName:    row.OtherName,
			ListingTitle: row.ListingTitle,
			ListingImage: row.ListingImage,
		}
		var m domain.Message
		err := r.DB.Get(&m, `SELECT `+msgCols+` FROM messages
		  WHERE conversation_id=? ORDER BY created_at DESC LIMIT 1`, row.ID)
		if err == nil {
			s.LastMessage = &m
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *MessageRepo) InsertMessage(m *domain.Message) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT INTO messages(id, conversation_id, sender_id, content, image_url)
	  VALUES(?,?,?,?,?)`, m.ID, m.ConversationID, m.SenderID, m.Content, m.ImageURL); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE conversations SET updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		m.ConversationID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteConversation removes the thread and its messages, messages first.
func (r *MessageRepo) DeleteConversation(id string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM conversations WHERE id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *MessageRepo) Messages(conversationID string) ([]domain.Message, error) {
	out := []domain.Message{}
	err := r.DB.Select(&out, `SELECT `+msgCols+` FROM messages
	  WHERE conversation_id=? ORDER BY created_at ASC`, conversationID)
	return out, err
}

// MarkRead stamps every unread message in the conversation that was sent by
// someone other than the reader.
func (r *MessageRepo) MarkRead(conversationID string, readerID int64) error {
	_, err := r.DB.Exec(`UPDATE messages SET read_at=CURRENT_TIMESTAMP
	  WHERE conversation_id=? AND sender_id != ? AND read_at IS NULL`, conversationID, readerID)
	return err
}

func (r *MessageRepo) UnreadCount(userID int64) (int64, error) {
	var n int64
	err := r.DB.Get(&n, `
	  SELECT COUNT(*) FROM messages m
	  JOIN conversations c ON c.id = m.conversation_id
	  WHERE (c.buyer_id = ? OR c.seller_id = ?)
	    AND m.sender_id != ? AND m.read_at IS NULL`, userID, userID, userID)
	return n, err
}
