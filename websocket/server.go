package websocket

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/esimov/spraycan/animation"
	"github.com/esimov/spraycan/surface"
)

// HttpParams holds the address and the static files served next to the
// websocket endpoint.
type HttpParams struct {
	Address string
	Prefix  string
	Root    string
}

// Bounds is the message a client sends to report its canvas size.
type Bounds struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

const writeWait = 5 * time.Second

// MaxBounds is the largest canvas side accepted from a client.
const MaxBounds = 8192

// ErrNoEncoder is returned when the presented surface can't be encoded.
var ErrNoEncoder = errors.New("websocket: surface can't be encoded as PNG")

//go:embed static
var static embed.FS

// A server application calls the Upgrade method from an HTTP request handler to initiate a connection
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1 << 16,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type pngEncoder interface {
	EncodePNG(w io.Writer) error
}

// client is a connected browser. send holds at most one pending frame.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub streams rendered frames to every connected browser and feeds the
// canvas size reported by the browsers back into the surface container.
type Hub struct {
	box    *surface.Box
	logger *slog.Logger

	mu       sync.Mutex
	clients  map[*client]struct{}
	onResize func()
	buf      bytes.Buffer
}

var _ animation.Presenter = (*Hub)(nil)

// NewHub creates a hub updating box with the client reported canvas size.
func NewHub(box *surface.Box, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		box:     box,
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// OnResize sets the function called when a client reports a new canvas size.
func (h *Hub) OnResize(fn func()) {
	h.mu.Lock()
	h.onResize = fn
	h.mu.Unlock()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

// Handler returns the HTTP handler serving the viewer page, the static
// files under p.Root and the /ws endpoint.
func (h *Hub) Handler(p HttpParams) (http.Handler, error) {
	var files http.FileSystem
	if p.Root != "" {
		root, err := filepath.Abs(p.Root)
		if err != nil {
			return nil, err
		}
		files = http.Dir(root)
		h.logger.Info("serving files", "root", root, "prefix", p.Prefix)
	} else {
		sub, err := fs.Sub(static, "static")
		if err != nil {
			return nil, err
		}
		files = http.FS(sub)
	}
	prefix := p.Prefix
	if prefix == "" {
		prefix = "/"
	}

	mux := http.NewServeMux()
	mux.Handle(prefix, http.StripPrefix(prefix, http.FileServer(files)))
	mux.HandleFunc("/ws", h.wsHandler)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Debug("request", "remote", r.RemoteAddr, "method", r.Method, "url", r.URL.String())
		mux.ServeHTTP(w, r)
	}), nil
}

// Present implements animation.Presenter. The frame is encoded once and
// handed to every client; a client still busy with the previous frame
// gets the newer one instead.
func (h *Hub) Present(s *surface.Surface) error {
	enc, ok := s.Context().(pngEncoder)
	if !ok {
		return ErrNoEncoder
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 {
		return nil
	}
	h.buf.Reset()
	if err := enc.EncodePNG(&h.buf); err != nil {
		return err
	}
	frame := append([]byte(nil), h.buf.Bytes()...)

	for c := range h.clients {
		select {
		case <-c.send:
		default:
		}
		c.send <- frame
	}
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		h.removeLocked(c)
	}
}

// wsHandler defines the websocket connection endpoint
func (h *Hub) wsHandler(w http.ResponseWriter, r *http.Request) {
	// Upgrade the http connection to a WebSocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			h.logger.Error("websocket upgrade", "err", err)
		}
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 1)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("client connected", "remote", r.RemoteAddr)

	go h.writeSocket(c)
	h.readSocket(c)
}

// readSocket listen for canvas size reports sent by the client
func (h *Hub) readSocket(c *client) {
	defer func() {
		h.mu.Lock()
		h.removeLocked(c)
		h.mu.Unlock()
	}()

	for {
		messageType, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read", "err", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		var b Bounds
		if err := json.Unmarshal(msg, &b); err != nil {
			h.logger.Warn("invalid bounds message", "msg", string(msg), "err", err)
			continue
		}
		h.resize(b)
	}
}

func (h *Hub) resize(b Bounds) {
	if b.Width <= 0 || b.Height <= 0 || b.Width > MaxBounds || b.Height > MaxBounds {
		h.logger.Warn("ignoring canvas bounds", "width", b.Width, "height", b.Height, "max", MaxBounds)
		return
	}
	if !h.box.SetSize(b.Width, b.Height) {
		return
	}
	h.logger.Debug("canvas resized", "width", b.Width, "height", b.Height)

	h.mu.Lock()
	fn := h.onResize
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// writeSocket sends frames to the client until its mailbox is closed.
func (h *Hub) writeSocket(c *client) {
	defer c.conn.Close()

	for frame := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			h.logger.Warn("websocket write", "err", err)
			h.mu.Lock()
			h.removeLocked(c)
			h.mu.Unlock()
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}
