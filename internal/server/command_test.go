package server

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{line: "", want: Command{Kind: CmdEmpty}},
		{line: "   \t", want: Command{Kind: CmdEmpty}},
		{line: "/dm off", want: Command{Kind: CmdDMOff}},
		{line: "  /dm off  ", want: Command{Kind: CmdDMOff}},
		{line: "/dm bob", want: Command{Kind: CmdDMOn, Arg: "bob"}},
		{line: "/dm   bob  ", want: Command{Kind: CmdDMOn, Arg: "bob"}},
		{line: "/dm offline", want: Command{Kind: CmdDMOn, Arg: "offline"}},
		{line: "/dm", want: Command{Kind: CmdImplicitBroadcast, Arg: "/dm"}},
		{line: "/friends", want: Command{Kind: CmdFriends}},
		{line: "/friend invite bob", want: Command{Kind: CmdFriendInvite, Arg: "bob"}},
		{line: "/friend accept FRIEND:a:b:c", want: Command{Kind: CmdFriendAccept, Arg: "FRIEND:a:b:c"}},
		{line: "/say oi", want: Command{Kind: CmdSay, Arg: "oi"}},
		{line: "/say  two  spaces", want: Command{Kind: CmdSay, Arg: " two  spaces"}},
		{line: "/say", want: Command{Kind: CmdImplicitBroadcast, Arg: "/say"}},
		{line: "hello world", want: Command{Kind: CmdImplicitBroadcast, Arg: "hello world"}},
		{line: "/unknown thing", want: Command{Kind: CmdImplicitBroadcast, Arg: "/unknown thing"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			require.Equal(t, tt.want, ParseCommand(tt.line))
		})
	}
}

func TestCommandKindString(t *testing.T) {
	require.Equal(t, "dm-off", CmdDMOff.String())
	require.Equal(t, "CommandKind(99)", CommandKind(99).String())
}
