package qa

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/docqa/internal/docerr"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// queryRequest is the body of POST /query and of each websocket message.
type queryRequest struct {
	Request
	RenderHTML bool `json:"render_html,omitempty"`
}

// socketReply is the outgoing websocket message format.
type socketReply struct {
	Type string `json:"type"` // "response" or "error"
	*Answer
	Content string `json:"content,omitempty"`
}

// RegisterRoutes mounts POST /query on the given router.
func RegisterRoutes(r chi.Router, c *Composer) {
	r.Post("/query", handleQuery(c))
}

// RegisterSocket mounts the websocket query endpoint. Connections are
// long-lived and must not sit behind a request timeout.
func RegisterSocket(r chi.Router, c *Composer) {
	r.Get("/ws/query", handleSocket(c))
}

func handleQuery(c *Composer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		answer, err := c.answer(r, req)
		if err != nil {
			status := docerr.HTTPStatus(err)
			if status >= http.StatusInternalServerError {
				log.Printf("qa: query failed: %v", err)
			}
			writeError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, answer)
	}
}

func handleSocket(c *Composer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("qa: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("qa: websocket read: %v", err)
				}
				return
			}

			var req queryRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				sendReply(conn, socketReply{Type: "error", Content: "invalid message format"})
				continue
			}

			answer, err := c.answer(r, req)
			if err != nil {
				sendReply(conn, socketReply{Type: "error", Content: err.Error()})
				continue
			}
			sendReply(conn, socketReply{Type: "response", Answer: answer})
		}
	}
}

func (c *Composer) answer(r *http.Request, req queryRequest) (*Answer, error) {
	answer, err := c.Answer(r.Context(), req.Request)
	if err != nil {
		return nil, err
	}
	if req.RenderHTML {
		html, err := RenderHTML(answer.Answer)
		if err != nil {
			log.Printf("qa: render answer: %v", err)
		} else {
			answer.AnswerHTML = html
		}
	}
	return answer, nil
}

func sendReply(conn *websocket.Conn, reply socketReply) {
	if err := conn.WriteJSON(reply); err != nil {
		log.Printf("qa: websocket write: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
