package server

import (
	"fmt"
	"log/slog"
	"strings"
)

// CommandKind is the closed set of things a chat line can mean.
type CommandKind int

const (
	CmdEmpty CommandKind = iota
	CmdImplicitBroadcast
	CmdDMOn
	CmdDMOff
	CmdFriends
	CmdFriendInvite
	CmdFriendAccept
	CmdSay
)

func (k CommandKind) String() string {
	switch k {
	case CmdEmpty:
		return "empty"
	case CmdImplicitBroadcast:
		return "broadcast"
	case CmdDMOn:
		return "dm"
	case CmdDMOff:
		return "dm-off"
	case CmdFriends:
		return "friends"
	case CmdFriendInvite:
		return "friend-invite"
	case CmdFriendAccept:
		return "friend-accept"
	case CmdSay:
		return "say"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// LogValue logs the kind by name.
func (k CommandKind) LogValue() slog.Value {
	return slog.StringValue(k.String())
}

// Command is a parsed chat line. Arg is the peer for CmdDMOn, the target for
// CmdFriendInvite, the token for CmdFriendAccept and the text otherwise.
type Command struct {
	Kind CommandKind
	Arg  string
}

const (
	prefixDM           = "/dm "
	prefixFriendInvite = "/friend invite "
	prefixFriendAccept = "/friend accept "
	prefixSay          = "/say "
)

// ParseCommand classifies a line. The line is trimmed first and the most
// specific command wins, so "/dm off" is never read as a DM with "off".
func ParseCommand(line string) Command {
	msg := strings.TrimSpace(line)

	switch {
	case msg == "":
		return Command{Kind: CmdEmpty}
	case msg == "/dm off":
		return Command{Kind: CmdDMOff}
	case strings.HasPrefix(msg, prefixDM):
		return Command{Kind: CmdDMOn, Arg: strings.TrimSpace(msg[len(prefixDM):])}
	case msg == "/friends":
		return Command{Kind: CmdFriends}
	case strings.HasPrefix(msg, prefixFriendInvite):
		return Command{Kind: CmdFriendInvite, Arg: strings.TrimSpace(msg[len(prefixFriendInvite):])}
	case strings.HasPrefix(msg, prefixFriendAccept):
		return Command{Kind: CmdFriendAccept, Arg: strings.TrimSpace(msg[len(prefixFriendAccept):])}
	case strings.HasPrefix(msg, prefixSay):
		return Command{Kind: CmdSay, Arg: msg[len(prefixSay):]}
	default:
		return Command{Kind: CmdImplicitBroadcast, Arg: msg}
	}
}
