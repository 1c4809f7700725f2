package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"marketnest/internal/domain"
	"marketnest/internal/repos"
)

type MessageService struct {
	Messages *repos.MessageRepo
	Listings *repos.ListingRepo
}

func NewMessageService(m *repos.MessageRepo, l *repos.ListingRepo) *MessageService {
	return &MessageService{Messages: m, Listings: l}
}

// Templates are canned opening lines offered by the compose UI.
var Templates = []string{
	"Hi! Is this still available?",
	"Hello, I'm interested. Could you tell me more?",
	"Would you consider a lower price?",
	"When would be a good time to meet?",
	"Is the listed date range available?",
}

// Start opens (or returns) the buyer's conversation for a listing and sends
// the first message.
func (s *MessageService) Start(buyerID int64, listingID, content string, imageURL *string) (*domain.Conversation, *domain.Message, error) {
	l, err := s.Listings.Get(listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if l.UserID == buyerID {
		return nil, nil, ErrInvalid
	}

	conv, err := s.Messages.FindConversation(listingID, buyerID)
	if errors.Is(err, sql.ErrNoRows) {
		conv = &domain.Conversation{
			ID:        uuid.NewString(),
			ListingID: listingID,
			BuyerID:   buyerID,
			SellerID:  l.UserID,
		}
		if err := s.Messages.CreateConversation(conv); err != nil {
			return nil, nil, err
		}
	} else if err != nil {
		return nil, nil, err
	}

	m, err := s.send(conv, buyerID, content, imageURL)
	if err != nil {
		return nil, nil, err
	}
	return conv, m, nil
}

// Send posts a message into an existing conversation the user belongs to.
func (s *MessageService) Send(conversationID string, senderID int64, content string, imageURL *string) (*domain.Message, error) {
	conv, err := s.member(conversationID, senderID)
	if err != nil {
		return nil, err
	}
	return s.send(conv, senderID, content, imageURL)
}

func (s *MessageService) send(conv *domain.Conversation, senderID int64, content string, imageURL *string) (*domain.Message, error) {
	if content == "" && imageURL == nil {
		return nil, ErrInvalid
	}
	m := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
		ImageURL:       imageURL,
	}
	if err := s.Messages.InsertMessage(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MessageService) Conversations(userID int64) ([]domain.ConversationSummary, error) {
	return s.Messages.ConversationsFor(userID)
}

// History returns the conversation's messages and marks the counterparty's
// messages read as a side effect of fetching.
func (s *MessageService) History(conversationID string, userID int64) ([]domain.Message, error) {
	if _, err := s.member(conversationID, userID); err != nil {
		return nil, err
	}
	if err := s.Messages.MarkRead(conversationID, userID); err != nil {
		return nil, err
	}
	return s.Messages.Messages(conversationID)
}

// Delete removes a conversation the user belongs to, messages included.
func (s *MessageService) Delete(conversationID string, userID int64) error {
	if _, err := s.member(conversationID, userID); err != nil {
		return err
	}
	return s.Messages.DeleteConversation(conversationID)
}

func (s *MessageService) UnreadCount(userID int64) (int64, error) {
	return s.Messages.UnreadCount(userID)
}

func (s *MessageService) member(conversationID string, userID int64) (*domain.Conversation, error) {
	conv, err := s.Messages.ConversationByID(conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if conv.BuyerID != userID && conv.SellerID != userID {
		return nil, ErrForbidden
	}
	return conv, nil
}
