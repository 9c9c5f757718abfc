package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshil-6/TONIO-SENORA/internal/models"
)

func TestThreadDefaultsUntilWritten(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	s := NewMessageService(deps, testClient)

	msgs, err := s.Thread(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, SenderTeam, msgs[0].Sender)
	assert.Equal(t, models.MessageReceived, msgs[0].Type)
	assert.Equal(t, SenderClient, msgs[1].Sender)

	_, err = s.Send(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	m, err := s.Send(ctx, "  Is my passport scan readable?  ")
	require.NoError(t, err)
	assert.Equal(t, "Is my passport scan readable?", m.Message)

	// The samples were never stored, so the thread now holds only the new message.
	msgs, err = s.Thread(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, m.ID, msgs[0].ID)

	acts, err := NewDashboardService(deps, testClient).Activity(ctx)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "Message sent to legal team", acts[0].Message)
	assert.Equal(t, "comment", acts[0].Icon)
}

func TestConversationWithLegalTeam(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	registerClient(t, deps, testClient)
	client := NewMessageService(deps, testClient)
	admin := NewAdminService(deps)

	_, err := client.Send(ctx, "first")
	require.NoError(t, err)
	_, err = client.Send(ctx, "second")
	require.NoError(t, err)

	comms, err := admin.Communications(ctx)
	require.NoError(t, err)
	require.Len(t, comms, 1)
	assert.Equal(t, 2, comms[0].Unread)
	assert.Equal(t, "second", comms[0].LastMessage)

	_, err = admin.Reply(ctx, testClient.ID, "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	_, err = admin.Reply(ctx, "nobody", "hello")
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = admin.Reply(ctx, testClient.ID, "We received both.")
	require.NoError(t, err)

	comms, err = admin.Communications(ctx)
	require.NoError(t, err)
	require.Len(t, comms, 1)
	assert.Equal(t, 0, comms[0].Unread)
	assert.Equal(t, SenderAdmin, comms[0].LastSender)

	msgs, err := client.Thread(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "We received both.", msgs[0].Message)
	assert.Equal(t, SenderTeam, msgs[0].Sender)
	assert.Equal(t, models.MessageReceived, msgs[0].Type)
	assert.Equal(t, "second", msgs[1].Message)
}

func TestContactForm(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	s := NewContactService(deps)

	_, err := s.Submit(ctx, "Ana", "", "hi")
	assert.ErrorIs(t, err, ErrMissingFields)

	m, err := s.Submit(ctx, "Ana", "ana@example.com", "I need help with a visitor visa")
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.NotEmpty(t, m.Timestamp)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0].Name)
}
