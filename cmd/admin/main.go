package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"roomchat/backend/internal/chat"
	"roomchat/backend/internal/config"
	"roomchat/backend/internal/models"
	"roomchat/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const usage = `Usage: admin <command> [args]

Commands:
  add-user <user_id> <first_name> [last_name]   create or update a directory user
  deactivate-user <user_id>                     mark a user inactive
  delete-room <room_id>                         soft-delete a room
  rooms <user_id>                               list a user's rooms`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(config.LoadDatabaseDSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI
	ctx := context.Background()

	if err := run(ctx, storageSvc, os.Args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, s storage.Storage, args []string) error {
	command, args := args[0], args[1:]

	switch command {
	case "add-user":
		if len(args) < 2 {
			return fmt.Errorf("usage: admin add-user <user_id> <first_name> [last_name]")
		}
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		var lastName string
		if len(args) > 2 {
			lastName = args[2]
		}
		if err := addUser(ctx, s, userID, args[1], lastName); err != nil {
			return err
		}
		fmt.Printf("User %d has been saved.\n", userID)

	case "deactivate-user":
		if len(args) != 1 {
			return fmt.Errorf("usage: admin deactivate-user <user_id>")
		}
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		if err := s.SetUserActive(ctx, userID, false); err != nil {
			return err
		}
		fmt.Printf("User %d has been deactivated.\n", userID)

	case "delete-room":
		if len(args) != 1 {
			return fmt.Errorf("usage: admin delete-room <room_id>")
		}
		if err := chat.NewService(s).DeleteRoom(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Room %s has been deleted.\n", args[0])

	case "rooms":
		if len(args) != 1 {
			return fmt.Errorf("usage: admin rooms <user_id>")
		}
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		rooms, err := chat.NewService(s).GetRoomsForUser(ctx, models.Principal{UserID: userID})
		if err != nil {
			return err
		}
		for _, room := range rooms {
			fmt.Println(formatRoom(room))
		}

	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}
	return nil
}

func addUser(ctx context.Context, s storage.Storage, userID int64, firstName, lastName string) error {
	return s.SaveUser(ctx, &models.User{
		ID:        userID,
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
	})
}

func parseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return id, nil
}

func formatRoom(room models.RoomView) string {
	name := "-"
	if room.Name != nil {
		name = *room.Name
	}
	last := "never"
	if room.LastMessageAt != nil {
		last = room.LastMessageAt.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprintf("%s\t%s\t%s\tmembers=%d\tunread=%d\tlast=%s",
		room.ID, room.Kind, name, len(room.MemberIDs), room.UnreadCount, last)
}
