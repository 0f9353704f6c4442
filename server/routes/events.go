// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"codeberg.org/folio/folio/core/events"
	"codeberg.org/folio/folio/core/reactor"
	"codeberg.org/folio/folio/core/session"
)

// maxEventBytes bounds one client event payload.
const maxEventBytes = 16 << 10

// maxSections bounds the layout entries read from one scroll report.
const maxSections = 64

// Client event types, as sent by the page script.
const (
	EventScroll  = "scroll"
	EventVisible = "visible"
	EventMenu    = "menu"
	EventKey     = "key"
)

var (
	errInvalidPayload = errors.New("invalid event payload")
	errUnknownEvent   = errors.New("unknown event type")
)

type scrollMessage struct {
	Type   string               `json:"type"`
	Update reactor.ScrollUpdate `json:"update"`
}

type plansMessage struct {
	Type  string         `json:"type"`
	Plans []reactor.Plan `json:"plans"`
}

type menuMessage struct {
	Type  string            `json:"type"`
	State reactor.MenuState `json:"state"`
}

type keyMessage struct {
	Type   string               `json:"type"`
	Target reactor.ScrollTarget `json:"target"`
}

// eventMessage replays a page event over the live channel.
type eventMessage struct {
	Type   string       `json:"type"`
	Name   events.Kind  `json:"name"`
	Detail events.Event `json:"detail"`
}

// handleEvent feeds one client event of the page view viewID to the
// session. It returns the reply to send, or nil when there is nothing to
// tell the page.
func handleEvent(ctx context.Context, s *session.Session, viewID, typ string, payload gjson.Result) (any, error) {
	switch typ {
	case EventScroll:
		update := s.Scroll(ctx, viewID, parseScroll(payload))
		if update.Empty() {
			return nil, nil
		}

		return scrollMessage{Type: EventScroll, Update: update}, nil

	case EventVisible:
		e := events.VisibilityEntered{
			ElementID: payload.Get("id").String(),
			Ratio:     payload.Get("ratio").Float(),
		}
		if e.ElementID == "" {
			return nil, fmt.Errorf("%w: missing element id", errInvalidPayload)
		}

		plans := s.Visible(ctx, viewID, e)
		if len(plans) == 0 {
			return nil, nil
		}

		return plansMessage{Type: "plans", Plans: plans}, nil

	case EventMenu:
		state, err := s.Menu(viewID, reactor.MenuAction(payload.Get("action").String()))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errInvalidPayload, err)
		}

		return menuMessage{Type: EventMenu, State: state}, nil

	case EventKey:
		target := reactor.KeyTarget(payload.Get("key").String(), payload.Get("inInput").Bool())
		if target == reactor.ScrollNone {
			return nil, nil
		}

		return keyMessage{Type: EventKey, Target: target}, nil
	}

	return nil, fmt.Errorf("%w: %q", errUnknownEvent, typ)
}

func parseScroll(payload gjson.Result) events.ScrollPositionChanged {
	e := events.ScrollPositionChanged{Offset: int(payload.Get("y").Int())}

	payload.Get("sections").ForEach(func(_, v gjson.Result) bool {
		e.Sections = append(e.Sections, events.Section{
			ID:     v.Get("id").String(),
			Top:    int(v.Get("top").Int()),
			Height: int(v.Get("height").Int()),
		})

		return len(e.Sections) < maxSections
	})

	return e
}

// readPayload reads and checks a JSON request body.
func readPayload(r *http.Request) (gjson.Result, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read event: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errInvalidPayload
	}

	return gjson.ParseBytes(body), nil
}

// EventHandler returns the handler of POST /api/{typ}, the fallback the page
// uses while the live channel is down. The payload names its page view in
// "view".
func (app *App) EventHandler(typ string) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		payload, err := readPayload(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)

			return err
		}

		s := app.session(w, r)

		reply, err := handleEvent(s.Context(r.Context()), s, payload.Get("view").String(), typ, payload)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)

			return err
		}

		w.Header().Set("Cache-Control", "no-store")

		if reply == nil {
			w.WriteHeader(http.StatusNoContent)

			return nil
		}

		body, err := json.Marshal(reply)
		if err != nil {
			return fmt.Errorf("failed to encode reply: %w", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)

		return nil
	}
}
