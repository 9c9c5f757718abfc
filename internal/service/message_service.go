package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roshil-6/TONIO-SENORA/internal/models"
	"github.com/roshil-6/TONIO-SENORA/internal/repository"
)

const (
	SenderClient = "You"
	SenderTeam   = "Legal Team"
)

// defaultThread is shown to a client whose thread was never written. It is
// not persisted.
func defaultThread(at time.Time) []models.Message {
	return []models.Message{
		{
			ID:        "1",
			Sender:    SenderTeam,
			Message:   "Thank you for submitting your documents. We are currently reviewing your educational certificates and will get back to you within 2-3 business days.",
			Timestamp: at.Add(-2 * time.Hour).UTC().Format(time.RFC3339),
			Type:      models.MessageReceived,
		},
		{
			ID:        "2",
			Sender:    SenderClient,
			Message:   "I have uploaded all the required documents. Please let me know if you need anything else.",
			Timestamp: at.Add(-24 * time.Hour).UTC().Format(time.RFC3339),
			Type:      models.MessageSent,
		},
	}
}

// MessageService is one client's side of the conversation with the legal
// team.
type MessageService struct {
	client   models.User
	thread   *repository.ThreadRepo
	admin    *repository.AdminMessageRepo
	activity *repository.ActivityRepo
}

func NewMessageService(d Deps, client models.User) *MessageService {
	cs := repository.ClientStore(d.Root, client.ID)
	return &MessageService{
		client:   client,
		thread:   repository.NewThreadRepo(cs),
		admin:    repository.NewAdminMessageRepo(d.Root),
		activity: repository.NewClientActivityRepo(cs),
	}
}

// Thread returns the client's messages, newest first.
func (s *MessageService) Thread(ctx context.Context) ([]models.Message, error) {
	msgs, ok, err := s.thread.List(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return defaultThread(time.Now()), nil
	}
	return msgs, nil
}

// Send prepends a message from the client and flags the thread unread for
// the legal team.
func (s *MessageService) Send(ctx context.Context, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	m := models.Message{
		ID:        uuid.NewString(),
		Sender:    SenderClient,
		Message:   text,
		Timestamp: now(),
		Type:      models.MessageSent,
	}
	if err := s.thread.Prepend(ctx, m); err != nil {
		return nil, err
	}

	comm := models.Communication{
		ClientID:    s.client.ID,
		Client:      s.client.Name,
		LastMessage: text,
		LastSender:  s.client.Name,
		Timestamp:   m.Timestamp,
	}
	if err := s.admin.Touch(ctx, comm, true); err != nil {
		log.Printf("Warning: messages: communications for client %s: %v", s.client.ID, err)
	}
	act := models.Activity{Type: models.ActivityMessage, Message: "Message sent to legal team", Timestamp: m.Timestamp}
	if err := s.activity.Add(ctx, act); err != nil {
		log.Printf("Warning: messages: activity for client %s: %v", s.client.ID, err)
	}
	return &m, nil
}

type ContactService struct {
	contacts *repository.ContactRepo
}

func NewContactService(d Deps) *ContactService {
	return &ContactService{contacts: repository.NewContactRepo(d.Root)}
}

// Submit stores a message from the public contact form.
func (s *ContactService) Submit(ctx context.Context, name, email, message string) (*models.ContactMessage, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)
	if name == "" || email == "" || message == "" {
		return nil, ErrMissingFields
	}
	m := models.ContactMessage{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Message:   message,
		Timestamp: now(),
	}
	if err := s.contacts.Append(ctx, m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *ContactService) List(ctx context.Context) ([]models.ContactMessage, error) {
	return s.contacts.List(ctx)
}
