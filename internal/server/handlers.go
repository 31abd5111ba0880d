// Package server exposes HTTP handlers, including WebSocket upgrades, health
// checks, and the built-in test page.
package server

import (
	"fmt"
	"net/http"
)

// WebSocketHandler handles WebSocket upgrade requests. It validates that the
// request uses the GET method, upgrades the connection, and hands the new
// Client to a hub-tracked goroutine that runs the handshake and the session.
func (s *Server) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", "addr", r.RemoteAddr, "error", err)
		return
	}

	client := NewClient(conn, r.RemoteAddr, s.cfg, s.log)
	if !s.hub.Go(func() { s.serve(client) }) {
		client.closeConnection()
	}
}

// HealthHandler provides a simple health check endpoint that returns server status.
// It responds with a plain text message indicating the server is running.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "relaychat server is running!")
}

// TestPageHandler serves a browser page for trying the relay by hand. It
// speaks the public and invite handshakes; password mode needs a client
// that implements the cipher.
func TestPageHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = fmt.Fprint(w, testPage)
}

const testPage = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>relaychat WebSocket Test</title>
    <style>
        body { font-family: sans-serif; max-width: 760px; margin: 24px auto; }
        fieldset { border: 1px solid #bbb; margin-bottom: 12px; }
        label { display: inline-block; margin-right: 12px; }
        #log {
            border: 1px solid #bbb;
            height: 320px;
            overflow-y: auto;
            padding: 8px;
            font-family: monospace;
            white-space: pre-wrap;
        }
        .frame { color: #7a5b00; }
        .system { color: #555; font-style: italic; }
        .dm { color: #6b2fa3; }
        .mine { color: #1b5fa8; }
        #state.online { color: #1e7a34; }
        #state.offline { color: #a12626; }
    </style>
</head>
<body>
    <h1>relaychat WebSocket Test</h1>

    <fieldset id="login">
        <legend>Handshake</legend>
        <label>Mode
            <select id="authMode">
                <option value="public">public</option>
                <option value="invite">invite</option>
            </select>
        </label>
        <label>Invite <input id="inviteToken" size="34"></label><br>
        <label>Username <input id="username" value="Anon" maxlength="32"></label>
        <label>Room <input id="room" value="group:main" maxlength="64"></label>
        <button id="connect">Connect</button>
        <span id="state" class="offline">offline</span>
    </fieldset>

    <div id="log"></div>
    <p>
        <input id="line" size="60" placeholder="text, /say, /dm &lt;peer&gt;, /dm off, /friends" disabled>
        <button id="send" disabled>Send</button>
    </p>

    <script>
        const $ = (id) => document.getElementById(id);
        let ws = null;

        function show(text, cls) {
            const row = document.createElement('div');
            row.textContent = text;
            if (cls) row.className = cls;
            $('log').appendChild(row);
            $('log').scrollTop = $('log').scrollHeight;
        }

        function classify(text) {
            if (text.startsWith('[Sistema]')) return 'system';
            if (text.startsWith('[DM ')) return 'dm';
            return '';
        }

        function setOnline(online) {
            $('state').textContent = online ? 'online' : 'offline';
            $('state').className = online ? 'online' : 'offline';
            $('line').disabled = !online;
            $('send').disabled = !online;
            $('connect').textContent = online ? 'Disconnect' : 'Connect';
        }

        // The first server frame is a SALT, KEY or FAIL object; everything
        // after the username is plain chat text.
        function onFrame(event) {
            if (event.data.startsWith('{')) {
                const frame = JSON.parse(event.data);
                if (frame.type === 'KEY') {
                    show('handshake accepted, key ' + frame.value.slice(0, 8) + '…', 'frame');
                    ws.send($('username').value.trim() || 'Anon');
                    setOnline(true);
                    return;
                }
                if (frame.type === 'FAIL') {
                    show('handshake rejected: ' + frame.reason, 'frame');
                    return;
                }
            }
            show(event.data, classify(event.data));
        }

        function connect() {
            const scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
            ws = new WebSocket(scheme + location.host + '/ws');
            ws.onopen = () => {
                const choice = {auth: $('authMode').value, room: $('room').value.trim()};
                if (choice.auth === 'invite') choice.value = $('inviteToken').value.trim();
                ws.send(JSON.stringify(choice));
            };
            ws.onmessage = onFrame;
            ws.onclose = () => {
                show('connection closed', 'system');
                setOnline(false);
                ws = null;
            };
        }

        function send() {
            const text = $('line').value;
            if (!text.trim() || !ws) return;
            ws.send(text);
            show('> ' + text, 'mine');
            $('line').value = '';
        }

        $('connect').onclick = () => (ws ? ws.close() : connect());
        $('send').onclick = send;
        $('line').addEventListener('keydown', (e) => { if (e.key === 'Enter') send(); });
    </script>
</body>
</html>`
