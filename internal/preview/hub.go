package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub is a browser preview surface. It serves a shell page holding an
// iframe and pushes reset/write messages to every connected page over a
// websocket; the page blanks the iframe on reset and writes the document
// into a fresh iframe document on write.
type Hub struct {
	mu         sync.RWMutex
	doc        string
	generation uint64
	renderedAt time.Time
	clients    map[*client]struct{}
	srv        *http.Server
	url        string
	logf       func(string, ...any)
}

// Status is the payload of /status.json.
type Status struct {
	Generation uint64    `json:"generation"`
	Bytes      int       `json:"bytes"`
	RenderedAt time.Time `json:"renderedAt"`
	Clients    int       `json:"clients"`
}

type message struct {
	Type string `json:"type"` // reset | write
	HTML string `json:"html,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
}

const writeWait = 10 * time.Second

// NewHub returns a hub that is not serving yet. Reset and Write fail with
// ErrNotReady until Start succeeds.
func NewHub(logf func(string, ...any)) *Hub {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Hub{clients: map[*client]struct{}{}, logf: logf}
}

// Handler returns the hub's HTTP routes.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(shellPage))
	})
	mux.HandleFunc("/document", func(w http.ResponseWriter, r *http.Request) {
		h.mu.RLock()
		doc := h.doc
		h.mu.RUnlock()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(doc))
	})
	mux.HandleFunc("/status.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(h.Status())
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", h.handleWS)
	return mux
}

// Start listens on addr ("127.0.0.1:0" picks a free port) and serves in
// the background. It returns the base URL.
func (h *Hub) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("preview listen %s: %w", addr, err)
	}
	srv := &http.Server{Handler: h.Handler(), ReadHeaderTimeout: 10 * time.Second}
	h.mu.Lock()
	h.srv = srv
	h.url = "http://" + ln.Addr().String()
	h.mu.Unlock()
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			h.logf("preview server: %v", err)
		}
	}()
	h.logf("preview serving at %s", h.url)
	return h.url, nil
}

// URL returns the base URL, empty before Start.
func (h *Hub) URL() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.url
}

// Close disconnects every page and stops the server.
func (h *Hub) Close(ctx context.Context) error {
	h.mu.Lock()
	srv := h.srv
	h.srv = nil
	for c := range h.clients {
		_ = c.conn.Close()
	}
	h.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Status reports what the hub is currently showing.
func (h *Hub) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Status{
		Generation: h.generation,
		Bytes:      len(h.doc),
		RenderedAt: h.renderedAt,
		Clients:    len(h.clients),
	}
}

func (h *Hub) Reset() error {
	return h.publish(message{Type: "reset"}, "")
}

func (h *Hub) Write(doc string) error {
	return h.publish(message{Type: "write", HTML: doc}, doc)
}

func (h *Hub) publish(m message, doc string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.srv == nil {
		return ErrNotReady
	}
	h.doc = doc
	h.generation++
	h.renderedAt = time.Now()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Slow page; it catches up with the next write.
		}
	}
	return nil
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logf("preview upgrade: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 16)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.generation > 0 {
		if data, err := json.Marshal(message{Type: "write", HTML: h.doc}); err == nil {
			c.send <- data
		}
	}
	h.mu.Unlock()

	go c.writer()

	// Pages never send anything; reading only detects the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
}

func (c *client) writer() {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

const shellPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>codepad preview</title>
<style>
html, body { margin: 0; height: 100%; }
iframe { border: 0; width: 100%; height: 100%; background: #fff; }
#state { position: fixed; right: 8px; bottom: 6px; font: 12px sans-serif; color: #888; }
</style>
</head>
<body>
<iframe id="preview" src="about:blank"></iframe>
<div id="state">connecting</div>
<script>
(function () {
  var frame = document.getElementById('preview');
  var state = document.getElementById('state');
  var resetting = false;
  var pending = null;

  function write(html) {
    try {
      var doc = frame.contentDocument || frame.contentWindow.document;
      doc.open();
      doc.write(html);
      doc.close();
    } catch (e) {
      state.textContent = 'Preview update failed';
    }
  }

  frame.addEventListener('load', function () {
    resetting = false;
    if (pending !== null) {
      var html = pending;
      pending = null;
      write(html);
    }
  });

  function connect() {
    var ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
    ws.onopen = function () { state.textContent = 'live'; };
    ws.onclose = function () {
      state.textContent = 'disconnected';
      setTimeout(connect, 1000);
    };
    ws.onmessage = function (ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type === 'reset') {
        resetting = true;
        pending = null;
        frame.src = 'about:blank';
      } else if (msg.type === 'write') {
        if (resetting) {
          pending = msg.html;
        } else {
          write(msg.html);
        }
      }
    };
  }
  connect();
})();
</script>
</body>
</html>
`
