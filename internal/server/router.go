package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Tyrowin/relaychat/internal/storage"
)

// Router turns parsed chat lines into deliveries on the Hub and entries in
// the message log.
type Router struct {
	hub      *Hub
	friends  storage.FriendStore
	messages storage.MessageStore
	log      *slog.Logger
}

func NewRouter(hub *Hub, friends storage.FriendStore, messages storage.MessageStore, log *slog.Logger) *Router {
	return &Router{hub: hub, friends: friends, messages: messages, log: log}
}

// Join registers the session and tells the rest of its room.
func (r *Router) Join(ctx context.Context, p Peer, s *Session) {
	r.hub.Register(p, s)
	r.hub.Broadcast(s.Room, fmt.Appendf(nil, "● <%s> entrou no chat", s.Username()), p)
	r.save(ctx, s.Username(), s.Room, "[join]")
}

// Leave unregisters p and announces the departure to the room it joined,
// whatever its DM state. Nothing is announced if p was already dropped.
func (r *Router) Leave(p Peer) {
	s := r.hub.Unregister(p)
	if s == nil {
		return
	}
	r.hub.Broadcast(s.Room, fmt.Appendf(nil, "<%s> saiu do chat", s.Username()), nil)
}

// Announce broadcasts a pre-formatted line to everyone in room.
func (r *Router) Announce(room RoomID, text string) int {
	return r.hub.Broadcast(room, []byte(text), nil)
}

// Dispatch handles one line received from p.
func (r *Router) Dispatch(ctx context.Context, p Peer, s *Session, line string) {
	cmd := ParseCommand(line)
	r.log.Debug("Dispatching command", "user", s.Username(), "command", cmd.Kind)

	switch cmd.Kind {
	case CmdEmpty:
	case CmdDMOn:
		r.enterDM(ctx, p, s, cmd.Arg)
	case CmdDMOff:
		s.LeaveDM()
		r.notice(p, "Saiu do modo DM; voltou ao grupo.")
	case CmdFriends:
		r.listFriends(ctx, p, s)
	case CmdFriendInvite:
		r.inviteFriend(ctx, p, s, cmd.Arg)
	case CmdFriendAccept:
		r.acceptFriend(ctx, p, s, cmd.Arg)
	case CmdSay:
		r.say(ctx, p, s, cmd.Arg)
	case CmdImplicitBroadcast:
		// Always the room, even in DM mode; only /say follows the DM peer.
		r.broadcast(ctx, p, s, cmd.Arg)
	default:
		r.log.Error("Unhandled command kind", "command", cmd.Kind)
	}
}

func (r *Router) enterDM(ctx context.Context, p Peer, s *Session, peer string) {
	ok, err := r.friends.IsFriend(ctx, s.Username(), peer)
	if err != nil {
		r.log.Error("Friend check failed", "user", s.Username(), "peer", peer, "error", err)
		r.notice(p, "não foi possível verificar amizade.")
		return
	}
	if !ok {
		r.notice(p, fmt.Sprintf("'%s' não é seu amigo. Use /friends e /friend invite/accept.", peer))
		return
	}
	s.EnterDM(peer)
	r.notice(p, fmt.Sprintf("DM com %s ativado.", peer))
}

func (r *Router) listFriends(ctx context.Context, p Peer, s *Session) {
	friends, err := r.friends.ListFriends(ctx, s.Username())
	if err != nil {
		r.log.Error("Listing friends failed", "user", s.Username(), "error", err)
		r.notice(p, "não foi possível listar amigos.")
		return
	}
	if len(friends) == 0 {
		r.notice(p, "Amigos: (nenhum)")
		return
	}
	r.notice(p, "Amigos: "+strings.Join(friends, ", "))
}

func (r *Router) inviteFriend(ctx context.Context, p Peer, s *Session, target string) {
	me := s.Username()
	if target == "" || target == me {
		r.notice(p, "Convite inválido.")
		return
	}

	token, err := r.friends.CreateFriendInvite(ctx, me, target)
	if err != nil {
		r.log.Error("Creating friend invite failed", "user", me, "target", target, "error", err)
		r.notice(p, "não foi possível criar o convite.")
		return
	}
	r.notice(p, "Convite criado: "+token)
	r.NotifyFriendInvite(me, target, token)
}

func (r *Router) acceptFriend(ctx context.Context, p Peer, s *Session, token string) {
	me := s.Username()
	owner, target, err := storage.ParseFriendInviteToken(token)
	if err != nil || target != me {
		r.notice(p, "Convite inválido.")
		return
	}

	if err := r.friends.AcceptFriendInvite(ctx, token); err != nil {
		if errors.Is(err, storage.ErrInvalidInvite) {
			r.notice(p, "Convite inválido.")
			return
		}
		r.log.Error("Accepting friend invite failed", "user", me, "error", err)
		r.notice(p, "não foi possível aceitar o convite.")
		return
	}
	r.notice(p, fmt.Sprintf("Amizade com %s confirmada.", owner))
	r.NotifyFriendAccepted(owner, me)
}

// NotifyFriendInvite tells target about a pending invite if they are online.
func (r *Router) NotifyFriendInvite(owner, target, token string) {
	r.hub.SendTo(target, fmt.Appendf(nil, "[Sistema] %s quer ser seu amigo. Use /friend accept %s", owner, token))
}

// NotifyFriendAccepted tells owner that target accepted if owner is online.
func (r *Router) NotifyFriendAccepted(owner, target string) {
	r.hub.SendTo(owner, fmt.Appendf(nil, "[Sistema] %s aceitou seu convite de amizade.", target))
}

func (r *Router) say(ctx context.Context, p Peer, s *Session, text string) {
	routing := s.Routing()
	if routing.Mode != ModeDM {
		r.broadcast(ctx, p, s, text)
		return
	}

	me, peer := s.Username(), routing.DMPeer
	if !r.hub.SendTo(peer, fmt.Appendf(nil, "[DM de %s] %s", me, text)) {
		r.notice(p, fmt.Sprintf("'%s' está offline.", peer))
		return
	}
	r.reply(p, fmt.Sprintf("[DM para %s] %s", peer, text))
	r.save(ctx, me, DMRoom(me, peer), text)
}

func (r *Router) broadcast(ctx context.Context, p Peer, s *Session, text string) {
	r.hub.Broadcast(s.Room, fmt.Appendf(nil, "<%s> %s", s.Username(), text), p)
	r.save(ctx, s.Username(), s.Room, text)
}

func (r *Router) notice(p Peer, text string) {
	r.reply(p, "[Sistema] "+text)
}

// reply sends text to p alone. A peer that cannot take it is dropped like
// any other failed delivery.
func (r *Router) reply(p Peer, text string) {
	if err := p.Send([]byte(text)); err != nil {
		r.hub.Drop(p)
	}
}

// save appends to the message log. Failures are logged and never reach the
// sender.
func (r *Router) save(ctx context.Context, author string, room RoomID, content string) {
	msg := storage.Message{Author: author, Room: string(room), Content: content}
	if err := r.messages.SaveMessage(ctx, msg); err != nil {
		r.log.Error("Saving message failed", "user", author, "room", room, "error", err)
	}
}
