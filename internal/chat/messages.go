package chat

import (
	"context"

	"roomchat/backend/internal/apperrors"
	"roomchat/backend/internal/models"
)

// SendMessage stores a message from an active member and emits a
// message.created event once it is committed.
func (s *Service) SendMessage(ctx context.Context, p models.Principal, roomID string, req SendMessageRequest) (*models.MessageView, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	body, err := normalizeBody(req.Body)
	if err != nil {
		return nil, err
	}
	attachment := normalizeAttachment(req.Attachment)
	if body == nil && attachment == nil {
		return nil, apperrors.InvalidInput("message needs a body or an attachment")
	}

	kind := req.Kind
	if kind == "" {
		kind = models.MessageKindText
		if body == nil {
			kind = models.MessageKindFile
		}
	}
	if kind == models.MessageKindText && body == nil {
		return nil, apperrors.InvalidInput("text message needs a body")
	}
	if kind != models.MessageKindText && attachment == nil {
		return nil, apperrors.InvalidInput("attachment reference is required for " + string(kind) + " messages")
	}

	if _, _, err := s.authorize(ctx, roomID, p.UserID); err != nil {
		return nil, err
	}

	if req.ReplyToMessageID != nil {
		if err := s.checkReplyTarget(ctx, roomID, *req.ReplyToMessageID); err != nil {
			return nil, err
		}
	}

	msg := &models.Message{
		RoomID:           roomID,
		SenderID:         p.UserID,
		Body:             body,
		Attachment:       attachment,
		Kind:             kind,
		ReplyToMessageID: req.ReplyToMessageID,
		Status:           models.MessageActive,
	}
	if err := s.Storage.AppendMessage(ctx, msg, s.now()); err != nil {
		return nil, err
	}

	views, err := s.enrich(ctx, []models.Message{*msg})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventMessageCreated, views[0])
	return &views[0], nil
}

func (s *Service) checkReplyTarget(ctx context.Context, roomID string, messageID int64) error {
	target, err := s.Storage.GetMessageByID(ctx, messageID)
	if apperrors.Is(err, apperrors.KindNotFound) {
		return apperrors.InvalidInput("reply target does not exist")
	}
	if err != nil {
		return err
	}
	if target.RoomID != roomID || target.IsDeleted() {
		return apperrors.InvalidInput("reply target must be a message in this room")
	}
	return nil
}

// GetMessages returns a page of messages, newest first.
func (s *Service) GetMessages(ctx context.Context, p models.Principal, roomID string, limit, offset int) ([]models.MessageView, error) {
	if offset < 0 {
		return nil, apperrors.InvalidInput("offset must not be negative")
	}
	if _, _, err := s.authorize(ctx, roomID, p.UserID); err != nil {
		return nil, err
	}

	messages, err := s.Storage.ListMessages(ctx, roomID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, messages)
}

// GetMessagesBefore returns messages strictly older than the cursor message,
// newest first. It backs backward infinite scroll.
func (s *Service) GetMessagesBefore(ctx context.Context, p models.Principal, roomID string, beforeMessageID int64, limit int) ([]models.MessageView, error) {
	if _, _, err := s.authorize(ctx, roomID, p.UserID); err != nil {
		return nil, err
	}

	cursor, err := s.Storage.GetMessageByID(ctx, beforeMessageID)
	if err != nil {
		return nil, err
	}
	if cursor.RoomID != roomID {
		return nil, apperrors.InvalidInput("cursor message belongs to another room")
	}

	messages, err := s.Storage.ListMessagesBefore(ctx, roomID, cursor, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, messages)
}

// EditMessage replaces the body of a message. Only the sender may edit.
func (s *Service) EditMessage(ctx context.Context, p models.Principal, messageID int64, req EditMessageRequest) (*models.MessageView, error) {
	msg, err := s.ownedMessage(ctx, p, messageID, "edit")
	if err != nil {
		return nil, err
	}

	body, err := normalizeBody(&req.Body)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, apperrors.InvalidInput("message body must not be empty")
	}

	now := s.now()
	if err := s.Storage.UpdateMessageBody(ctx, messageID, *body, now); err != nil {
		return nil, err
	}
	msg.Body = body
	msg.IsEdited = true
	msg.EditedAt = &now

	views, err := s.enrich(ctx, []models.Message{*msg})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventMessageEdited, views[0])
	return &views[0], nil
}

// DeleteMessage soft-deletes a message. Only the sender may delete.
func (s *Service) DeleteMessage(ctx context.Context, p models.Principal, messageID int64) error {
	msg, err := s.ownedMessage(ctx, p, messageID, "delete")
	if err != nil {
		return err
	}

	now := s.now()
	if err := s.Storage.SoftDeleteMessage(ctx, messageID, now); err != nil {
		return err
	}
	msg.Status = models.MessageDeleted
	msg.DeletedAt = &now
	msg.Body = nil
	msg.Attachment = nil

	s.publish(ctx, models.EventMessageDeleted, models.MessageView{Message: *msg})
	return nil
}

// ownedMessage loads a live message and checks that the caller sent it.
func (s *Service) ownedMessage(ctx context.Context, p models.Principal, messageID int64, action string) (*models.Message, error) {
	msg, err := s.Storage.GetMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.IsDeleted() {
		return nil, apperrors.NotFound("message")
	}
	if msg.SenderID != p.UserID {
		return nil, apperrors.AccessDenied("only the sender may " + action + " this message")
	}
	return msg, nil
}

// enrich attaches sender display fields, loading all senders in one query.
func (s *Service) enrich(ctx context.Context, messages []models.Message) ([]models.MessageView, error) {
	views := make([]models.MessageView, 0, len(messages))
	if len(messages) == 0 {
		return views, nil
	}

	seen := make(map[int64]bool)
	senderIDs := make([]int64, 0, len(messages))
	for _, m := range messages {
		if !seen[m.SenderID] {
			seen[m.SenderID] = true
			senderIDs = append(senderIDs, m.SenderID)
		}
	}

	users, err := s.Storage.GetUsersByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	for _, m := range messages {
		view := models.MessageView{Message: m}
		if u, ok := users[m.SenderID]; ok {
			summary := u.Summary()
			view.Sender = &summary
		}
		views = append(views, view)
	}
	return views, nil
}

func normalizeAttachment(ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	return ref
}
