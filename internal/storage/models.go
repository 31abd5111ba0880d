package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Media kinds.
const (
	KindImage = "image"
	KindVideo = "video"
	KindAudio = "audio"
	KindFile  = "file"
)

const friendInvitePrefix = "FRIEND"

// Message is one entry of the chat log. Room is either a group room id or a
// dm:<sender>:<peer> key.
type Message struct {
	ID        int64     `json:"id" db:"id"`
	Author    string    `json:"author" db:"author"`
	Room      string    `json:"room" db:"room"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Media is an uploaded attachment blob.
type Media struct {
	ID        string    `json:"id" db:"id"`
	Filename  string    `json:"filename" db:"filename"`
	MimeType  string    `json:"mimetype" db:"mimetype"`
	Size      int64     `json:"size" db:"size"`
	Data      []byte    `json:"-" db:"data"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	Kind      string    `json:"kind" db:"kind"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewFriendInviteToken builds FRIEND:<owner>:<target>:<random>.
func NewFriendInviteToken(owner, target string) string {
	return fmt.Sprintf("%s:%s:%s:%s", friendInvitePrefix, owner, target,
		strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// ParseFriendInviteToken extracts owner and target from a friend invite token.
func ParseFriendInviteToken(token string) (owner, target string, err error) {
	parts := strings.Split(token, ":")
	if len(parts) != 4 || parts[0] != friendInvitePrefix || parts[1] == "" || parts[2] == "" {
		return "", "", ErrInvalidInvite
	}
	return parts[1], parts[2], nil
}
