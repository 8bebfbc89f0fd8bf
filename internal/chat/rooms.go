package chat

import (
	"context"
	"fmt"

	"roomchat/backend/internal/apperrors"
	"roomchat/backend/internal/config"
	"roomchat/backend/internal/models"
)

// CreateRoom opens a conversation between the requester and the given members.
//
// A two-person conversation is a direct room and is deduplicated: if the pair
// already has an active direct room, that room is returned instead. The unique
// direct key in the store settles concurrent creations; the losing request
// re-fetches the winner's room.
func (s *Service) CreateRoom(ctx context.Context, p models.Principal, req CreateRoomRequest) (*models.RoomView, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	name, err := normalizeName(req.Name)
	if err != nil {
		return nil, err
	}

	members := resolveMembers(p.UserID, req.MemberIDs)
	if len(members) == 0 {
		return nil, apperrors.InvalidInput("member list is empty")
	}
	if len(members) > config.MaxGroupMembers {
		return nil, apperrors.InvalidInput(fmt.Sprintf("a room may have at most %d members", config.MaxGroupMembers))
	}

	if err := s.requireActiveUsers(ctx, members); err != nil {
		return nil, err
	}

	kind := req.Kind
	if kind == "" {
		kind = models.RoomKindGroup
		if len(members) == 2 {
			kind = models.RoomKindDirect
		}
	}
	if kind == models.RoomKindDirect && len(members) != 2 {
		return nil, apperrors.InvalidInput("a direct room needs exactly two members")
	}

	var room *models.Room
	if kind == models.RoomKindDirect {
		room, err = s.openDirectRoom(ctx, p.UserID, members[0], members[1], name)
	} else {
		room, err = s.insertRoom(ctx, p.UserID, kind, name, members, nil)
	}
	if err != nil {
		return nil, err
	}

	views, err := s.buildRoomViews(ctx, p.UserID, []models.Room{*room})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// openDirectRoom returns the pair's direct room, creating it if needed.
func (s *Service) openDirectRoom(ctx context.Context, requesterID, a, b int64, name *string) (*models.Room, error) {
	key := models.DirectKeyFor(a, b)

	room, err := s.Storage.FindDirectRoom(ctx, key)
	if err == nil {
		return room, s.rejoinDirectRoom(ctx, room, requesterID)
	}
	if !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, err
	}

	room, err = s.insertRoom(ctx, requesterID, models.RoomKindDirect, name, []int64{a, b}, &key)
	if !apperrors.Is(err, apperrors.KindConflict) {
		return room, err
	}

	// Lost the race against a concurrent creation of the same pair.
	room, err = s.Storage.FindDirectRoom(ctx, key)
	if err != nil {
		return nil, err
	}
	return room, s.rejoinDirectRoom(ctx, room, requesterID)
}

// rejoinDirectRoom reactivates the requester if they had left the pair's
// direct room. The other member is left alone: coming back is their call, or
// an admin's.
func (s *Service) rejoinDirectRoom(ctx context.Context, room *models.Room, requesterID int64) error {
	participants, err := s.Storage.ListActiveParticipants(ctx, []string{room.ID})
	if err != nil {
		return err
	}
	for _, participant := range participants {
		if participant.UserID == requesterID {
			return nil
		}
	}

	_, err = s.Storage.ActivateParticipant(ctx, room.ID, requesterID, requesterID == room.CreatorID, s.now())
	return err
}

func (s *Service) insertRoom(ctx context.Context, requesterID int64, kind models.RoomKind, name *string, members []int64, directKey *string) (*models.Room, error) {
	now := s.now()
	room := &models.Room{
		Name:      name,
		Kind:      kind,
		CreatorID: requesterID,
		DirectKey: directKey,
		Status:    models.RoomStatusActive,
	}

	participants := make([]models.Participant, 0, len(members))
	for _, userID := range members {
		participants = append(participants, models.Participant{
			UserID:   userID,
			IsAdmin:  userID == requesterID,
			Status:   models.ParticipantActive,
			JoinedAt: now,
		})
	}

	if err := s.Storage.CreateRoom(ctx, room, participants); err != nil {
		return nil, err
	}
	return room, nil
}

// resolveMembers de-duplicates the requested ids and adds the requester.
// The requester always comes first.
func resolveMembers(requesterID int64, memberIDs []int64) []int64 {
	seen := map[int64]bool{requesterID: true}
	members := []int64{requesterID}
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}
	return members
}

// requireActiveUsers checks every id against the user directory.
func (s *Service) requireActiveUsers(ctx context.Context, ids []int64) error {
	users, err := s.Storage.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if u, ok := users[id]; !ok || !u.IsActive {
			return apperrors.New(apperrors.KindNotFound, fmt.Sprintf("user %d not found", id), nil)
		}
	}
	return nil
}

// GetRoom returns the room as seen by the caller.
func (s *Service) GetRoom(ctx context.Context, p models.Principal, roomID string) (*models.RoomView, error) {
	room, _, err := s.authorize(ctx, roomID, p.UserID)
	if err != nil {
		return nil, err
	}

	views, err := s.buildRoomViews(ctx, p.UserID, []models.Room{*room})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GetRoomsForUser lists the caller's rooms, most recently active first.
func (s *Service) GetRoomsForUser(ctx context.Context, p models.Principal) ([]models.RoomView, error) {
	rooms, err := s.Storage.ListRoomsForUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return s.buildRoomViews(ctx, p.UserID, rooms)
}

// DeleteRoom soft-deletes a room. It is an operator action and is not exposed
// to room members.
func (s *Service) DeleteRoom(ctx context.Context, roomID string) error {
	return s.Storage.SoftDeleteRoom(ctx, roomID, s.now())
}

// buildRoomViews enriches rooms with members, last message and unread count
// using a fixed number of queries regardless of how many rooms are passed.
func (s *Service) buildRoomViews(ctx context.Context, userID int64, rooms []models.Room) ([]models.RoomView, error) {
	views := make([]models.RoomView, 0, len(rooms))
	if len(rooms) == 0 {
		return views, nil
	}

	roomIDs := make([]string, 0, len(rooms))
	for _, room := range rooms {
		roomIDs = append(roomIDs, room.ID)
	}

	participants, err := s.Storage.ListActiveParticipants(ctx, roomIDs)
	if err != nil {
		return nil, err
	}
	latest, err := s.Storage.LatestMessages(ctx, roomIDs)
	if err != nil {
		return nil, err
	}
	unread, err := s.Storage.CountUnread(ctx, userID, roomIDs)
	if err != nil {
		return nil, err
	}

	lastMessages := make([]models.Message, 0, len(latest))
	for _, m := range latest {
		lastMessages = append(lastMessages, m)
	}
	enriched, err := s.enrich(ctx, lastMessages)
	if err != nil {
		return nil, err
	}
	lastByRoom := make(map[string]models.MessageView, len(enriched))
	for _, view := range enriched {
		lastByRoom[view.RoomID] = view
	}

	membersByRoom := make(map[string][]int64, len(rooms))
	adminOf := make(map[string]bool)
	for _, participant := range participants {
		membersByRoom[participant.RoomID] = append(membersByRoom[participant.RoomID], participant.UserID)
		if participant.UserID == userID && participant.IsAdmin {
			adminOf[participant.RoomID] = true
		}
	}

	for _, room := range rooms {
		view := models.RoomView{
			Room:        room,
			MemberIDs:   membersByRoom[room.ID],
			IsAdmin:     adminOf[room.ID],
			UnreadCount: unread[room.ID],
		}
		if view.MemberIDs == nil {
			view.MemberIDs = []int64{}
		}
		if last, ok := lastByRoom[room.ID]; ok {
			last := last
			view.LastMessage = &last
		}
		views = append(views, view)
	}
	return views, nil
}
