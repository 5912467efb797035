package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"CyberHack/internal/game"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundFrame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// frameWriter sends frames as JSON text, or as binary protobuf Structs when
// the client asked for ?encoding=proto.
type frameWriter struct {
	conn   *websocket.Conn
	binary bool
}

func (fw frameWriter) send(frameType string, payload any) error {
	frame := outboundFrame{Type: frameType, Payload: payload}
	if !fw.binary {
		return fw.conn.WriteJSON(frame)
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(data, st); err != nil {
		return fmt.Errorf("frame to struct: %w", err)
	}
	bin, err := proto.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return fw.conn.WriteMessage(websocket.BinaryMessage, bin)
}

func serveWS(h *Hub, log logrus.FieldLogger, w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	profileID := strings.TrimSpace(query.Get("profile"))
	if profileID == "" {
		http.Error(w, "profile is required", http.StatusBadRequest)
		return
	}
	var faction game.Faction
	if raw := query.Get("faction"); raw != "" {
		f, err := game.ParseFaction(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		faction = f
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	term, err := h.NewTerminal(ctx, profileID, faction)
	if err != nil {
		log.WithError(err).WithField("profile", profileID).Error("terminal open failed")
		http.Error(w, "profile unavailable", http.StatusInternalServerError)
		return
	}
	defer term.Close()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("upgrade")
		return
	}
	defer conn.Close()

	entry := log.WithFields(logrus.Fields{"profile": profileID, "remote": r.RemoteAddr})
	entry.Info("websocket terminal opened")
	defer entry.Info("websocket terminal closed")

	fw := frameWriter{conn: conn, binary: query.Get("encoding") == "proto"}
	replies := make(chan linesDTO, 8)

	go func() {
		defer cancel()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType != websocket.TextMessage {
				entry.Debugf("unsupported websocket message type %d", msgType)
				continue
			}
			var inbound inboundMessage
			if err := json.Unmarshal(data, &inbound); err != nil {
				entry.WithError(err).Debug("invalid JSON message")
				continue
			}
			switch inbound.Type {
			case "command":
				var cmd inboundCommand
				if err := json.Unmarshal(inbound.Payload, &cmd); err != nil {
					entry.WithError(err).Debug("invalid command payload")
					continue
				}
				lines := term.Handle(ctx, cmd.Line)
				select {
				case replies <- linesDTO{Lines: lines, Prompt: term.Prompt()}:
				case <-ctx.Done():
					return
				}
				if term.Quits(cmd.Line) {
					return
				}
			default:
				entry.WithField("type", inbound.Type).Debug("unknown message type")
			}
		}
	}()

	if err := fw.send(frameOutput, linesDTO{Lines: term.Welcome(), Prompt: term.Prompt()}); err != nil {
		return
	}

	ticker := time.NewTicker(time.Duration(float64(time.Second) / game.TickHz))
	defer ticker.Stop()
	for {
		var err error
		select {
		case <-ctx.Done():
			// flush a pending quit reply before closing
			select {
			case reply := <-replies:
				_ = fw.send(frameOutput, reply)
			default:
			}
			return
		case reply := <-replies:
			err = fw.send(frameOutput, reply)
		case lines := <-term.Events():
			err = fw.send(frameEvents, linesDTO{Lines: lines, Prompt: term.Prompt()})
		case <-ticker.C:
			state := stateDTO{Profile: profileID}
			if snap, ok := term.Snapshot(); ok {
				state.InMission = true
				state.Session = &snap
			}
			err = fw.send(frameState, state)
		}
		if err != nil {
			entry.WithError(err).Debug("write failed")
			return
		}
	}
}
