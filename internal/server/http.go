package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"CyberHack/internal/game"
	"CyberHack/internal/storage/sqlite"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

//go:generate go run ./cmd/webbuild

/* ------------------------------ Embeds ------------------------------ */

//go:embed web/index.html
var htmlIndex []byte

//go:embed web/client.js
var jsClient []byte

/* ------------------------------- HTTP ------------------------------- */

const apiTimeout = 5 * time.Second

type api struct {
	hub *Hub
	log logrus.FieldLogger
}

// NewRouter wires the web client, the websocket terminal and the JSON API.
func NewRouter(h *Hub, log logrus.FieldLogger) http.Handler {
	a := &api{hub: h, log: log}
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(htmlIndex)
	}).Methods(http.MethodGet)
	r.HandleFunc("/client.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write(jsClient)
	}).Methods(http.MethodGet)
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(h, log, w, r)
	})
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": len(h.Sessions())})
	}).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/missions", a.listMissions).Methods(http.MethodGet)
	apiRouter.HandleFunc("/factions", a.listFactions).Methods(http.MethodGet)
	apiRouter.HandleFunc("/profiles", a.listProfiles).Methods(http.MethodGet)
	apiRouter.HandleFunc("/profiles/{id}", a.getProfile).Methods(http.MethodGet)
	apiRouter.HandleFunc("/sessions", a.listSessions).Methods(http.MethodGet)
	apiRouter.HandleFunc("/sessions/{id}", a.getSession).Methods(http.MethodGet)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorDTO{Message: msg})
}

func (a *api) listMissions(w http.ResponseWriter, r *http.Request) {
	catalog := game.SortedMissions()
	if id := r.URL.Query().Get("profile"); id != "" {
		ctx, cancel := context.WithTimeout(r.Context(), apiTimeout)
		defer cancel()
		p, err := a.hub.store.GetProfile(ctx, id)
		if errors.Is(err, game.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		if err != nil {
			a.log.WithError(err).Error("load profile")
			writeError(w, http.StatusInternalServerError, "storage error")
			return
		}
		catalog = game.AvailableMissions(p)
	}
	out := make([]missionDTO, 0, len(catalog))
	for _, m := range catalog {
		out = append(out, missionToDTO(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) listFactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sortedFactions())
}

func (a *api) listProfiles(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	ctx, cancel := context.WithTimeout(r.Context(), apiTimeout)
	defer cancel()
	list, err := a.hub.store.ListProfiles(ctx, limit)
	if err != nil {
		a.log.WithError(err).Error("list profiles")
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	if list == nil {
		list = []sqlite.ProfileSummary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *api) getProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(r.Context(), apiTimeout)
	defer cancel()
	p, err := a.hub.store.GetProfile(ctx, id)
	if errors.Is(err, game.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		a.log.WithError(err).Error("load profile")
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	dto := profileDTO{PlayerProfile: p, Unlocks: profileUnlocks(p), Sessions: []checkpointDTO{}}
	cps, err := a.hub.store.ListCheckpoints(ctx, id, 10)
	if err != nil {
		a.log.WithError(err).Warn("list checkpoints")
	}
	for _, cp := range cps {
		dto.Sessions = append(dto.Sessions, checkpointDTO{
			Session:  cp.Snapshot.ID,
			Mission:  cp.Snapshot.MissionID,
			State:    cp.Snapshot.State,
			Complete: cp.Snapshot.Completed,
			Credits:  cp.Snapshot.Credits,
			Alert:    cp.Snapshot.Alert,
			SavedAt:  cp.SavedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, dto)
}

func (a *api) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.hub.Sessions())
}

func (a *api) getSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), apiTimeout)
	defer cancel()
	snap, err := a.hub.SessionSnapshot(ctx, mux.Vars(r)["id"])
	if errors.Is(err, ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		a.log.WithError(err).Error("load session")
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
