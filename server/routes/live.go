// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"codeberg.org/folio/folio/config"
	"codeberg.org/folio/folio/core/audit"
	"codeberg.org/folio/folio/core/events"
	"codeberg.org/folio/folio/core/idgen"
	"codeberg.org/folio/folio/core/session"
	"codeberg.org/folio/folio/server/request_context"
)

// Live serves the websocket the page reports its events on. The "view" query
// value names the page view. Each message is a JSON object whose "type"
// selects the event; replies use the shapes of the /api/ handlers, and page
// events travel as {"type":"event"} messages.
//
// Live writes its own response, so it is not wrapped in CatchError.
func (app *App) Live(w http.ResponseWriter, r *http.Request) {
	rc := request_context.FromRequest(r)
	s := app.session(w, r)

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		// Accept already wrote the error response
		log.Debug().Err(err).Str("request_id", rc.RequestID).Msg("Rejected live connection")

		return
	}
	defer conn.CloseNow()

	conn.SetReadLimit(maxEventBytes)

	viewID := r.URL.Query().Get("view")

	logger := log.With().Str("sys", "live").Str("session_id", s.ID).Str("view_id", viewID).Logger()
	logger.Debug().Msg("Live channel opened")

	err = app.serveLive(r.Context(), conn, s, viewID)

	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		logger.Debug().Msg("Live channel closed")
	default:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Debug().Err(err).Msg("Live channel dropped")
		}
	}
}

// serveLive answers messages until the connection fails.
func (app *App) serveLive(ctx context.Context, conn *websocket.Conn, s *session.Session, viewID string) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		if typ != websocket.MessageText || !gjson.ValidBytes(data) {
			return conn.Close(websocket.StatusUnsupportedData, "expected JSON text messages")
		}

		payload := gjson.ParseBytes(data)
		event := payload.Get("type").String()

		span := audit.Span{
			Channel:   audit.FromLive,
			RequestID: idgen.Make(),
			SessionID: s.ID,
			Method:    event,
			URL:       "/live",
		}

		triggers := &events.Triggers{}
		msgCtx := span.Begin(events.WithTriggers(s.Context(ctx), triggers))

		reply, err := handleEvent(msgCtx, s, viewID, event, payload)

		span.End()
		span.Error = err

		if !config.Global.ShouldSkipServerLogging("/api/" + event) {
			span.Log()
		}

		if reply != nil {
			if err := wsjson.Write(ctx, conn, reply); err != nil {
				return err
			}
		}

		for _, e := range triggers.Events() {
			if err := wsjson.Write(ctx, conn, eventMessage{Type: "event", Name: e.Kind(), Detail: e}); err != nil {
				return err
			}
		}
	}
}
