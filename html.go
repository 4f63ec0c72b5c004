package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
)

func serveHomePage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_, _ = w.Write([]byte(newPage("mind-sync", "Play mind-sync")))
	}
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: Amazonbot
Disallow: /

User-agent: Applebot-Extended
Disallow: /

User-agent: Bytespider
Disallow: /

User-agent: CCBot
Disallow: /

User-agent: ClaudeBot
Disallow: /

User-agent: Google-Extended
Disallow: /

User-agent: GPTBot
Disallow: /

User-agent: meta-externalagent
Disallow: /`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}

// Simple HTML client for quick testing
const gameHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>mind-sync</title>
<style>
  body { font-family: system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem; max-width: 40rem; }
  h1 { margin-bottom: 0.5rem; }
  #status { margin-bottom: 1rem; font-size: 0.9rem; }
  #players li.submitted { font-weight: bold; }
  #word { font-size: 1.2rem; padding: 0.3rem; }
  #countdown { font-size: 2rem; }
  button { padding: 0.4rem 1rem; }
  .hidden { display: none; }
  ul { padding-left: 1.2rem; }
</style>
</head>
<body>
<h1>mind-sync</h1>
<div id="status">Connecting…</div>
<div id="lobby" class="hidden">
  <div>Room code: <b id="code"></b> <a id="qr" target="_blank">QR</a></div>
  <ul id="players"></ul>
  <button id="start" class="hidden">Start game</button>
</div>
<div id="round" class="hidden">
  <div>Round <span id="roundnum"></span> — <span id="timer"></span>s</div>
  <input id="word" placeholder="one word" autocomplete="off">
  <button id="submit">Submit</button>
</div>
<div id="countdown" class="hidden"></div>
<ul id="results"></ul>

<script>
(function() {
  const $ = (id) => document.getElementById(id);
  const statusEl = $('status');

  let nickname = '';
  let myId = '';
  let state = null;
  let timerHandle = null;

  const parts = location.pathname.replace(/\/$/, '').split('/');
  const roomFromPath = (parts.length > 2) ? parts[parts.length - 1] : '';

  const proto = (location.protocol === 'https:') ? 'wss://' : 'ws://';
  const ws = new WebSocket(proto + location.host + '/ws');

  ws.onopen = function() {
    statusEl.textContent = 'Connected.';
    nickname = prompt('Enter your nickname:') || 'anonymous';
    if (roomFromPath) {
      ws.send(JSON.stringify({ type: 'join-room', roomId: roomFromPath, nickname: nickname }));
    } else {
      ws.send(JSON.stringify({ type: 'create-room', nickname: nickname }));
    }
  };

  function renderState() {
    if (!state) return;
    $('lobby').classList.remove('hidden');
    $('code').textContent = state.id;
    $('qr').href = '/play/' + state.id + '/qr';
    const ul = $('players');
    ul.innerHTML = '';
    state.players.forEach(function(p) {
      const li = document.createElement('li');
      li.id = 'player-' + p.id;
      li.textContent = p.nickname + (p.isHost ? ' (host)' : '') +
        ' — ' + (state.scores[p.id] || 0) + ' pts';
      ul.appendChild(li);
      if (p.id === myId && p.isHost && state.gameState === 'waiting') {
        $('start').classList.remove('hidden');
      }
    });
  }

  function startTimer(ms) {
    clearInterval(timerHandle);
    let left = Math.round(ms / 1000);
    $('timer').textContent = left;
    timerHandle = setInterval(function() {
      left--;
      $('timer').textContent = Math.max(left, 0);
      if (left <= 0) clearInterval(timerHandle);
    }, 1000);
  }

  ws.onmessage = function(event) {
    const msg = JSON.parse(event.data);
    switch (msg.type) {
    case 'room-created':
      history.replaceState(null, '', '/play/' + msg.roomId);
      break;
    case 'room-joined':
      break;
    case 'error':
      statusEl.textContent = msg.message;
      break;
    case 'game-state':
      state = msg;
      if (!myId) {
        msg.players.forEach(function(p) { if (p.nickname === nickname) myId = p.id; });
      }
      renderState();
      break;
    case 'game-started':
      $('start').classList.add('hidden');
      statusEl.textContent = 'Think alike!';
      break;
    case 'round-started':
      $('countdown').classList.add('hidden');
      $('round').classList.remove('hidden');
      $('roundnum').textContent = msg.round;
      $('word').value = '';
      $('word').disabled = false;
      $('submit').disabled = false;
      startTimer(msg.timeLeft);
      break;
    case 'word-submitted':
      const li = $('player-' + msg.playerId);
      if (li) li.classList.add('submitted');
      break;
    case 'round-ended':
      $('round').classList.add('hidden');
      clearInterval(timerHandle);
      const res = $('results');
      res.innerHTML = '';
      (msg.matches || []).forEach(function(m) {
        const item = document.createElement('li');
        item.textContent = '"' + m.word + '" matched by ' + m.players.length +
          ' players (+' + m.points + ')';
        res.appendChild(item);
      });
      if (!msg.matches || msg.matches.length === 0) {
        res.innerHTML = '<li>No matches this round.</li>';
      }
      break;
    case 'next-round-countdown':
      $('countdown').classList.remove('hidden');
      $('countdown').textContent = 'Next round in ' + msg.countdown + '…';
      break;
    case 'game-ended':
      $('round').classList.add('hidden');
      $('countdown').classList.add('hidden');
      statusEl.textContent = 'Everyone synced! Final scores:';
      const out = $('results');
      out.innerHTML = '';
      msg.finalScores.forEach(function(fs) {
        const item = document.createElement('li');
        item.textContent = fs.nickname + ': ' + fs.score;
        out.appendChild(item);
      });
      break;
    }
  };

  $('start').onclick = function() {
    ws.send(JSON.stringify({ type: 'start-game' }));
  };

  function submitWord() {
    ws.send(JSON.stringify({ type: 'submit-word', word: $('word').value }));
    $('word').disabled = true;
    $('submit').disabled = true;
  }
  $('submit').onclick = submitWord;
  $('word').addEventListener('keydown', function(e) {
    if (e.key === 'Enter') submitWord();
  });

  ws.onclose = function() {
    statusEl.textContent = 'Disconnected.';
    clearInterval(timerHandle);
  };

  ws.onerror = function() {
    statusEl.textContent = 'Error with WebSocket.';
  };
})();
</script>
</body>
</html>
`
