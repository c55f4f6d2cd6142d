package wshandler

import (
	"net/http"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/logger"
	wrap "fleetmaster/pkg/logger/wrapper"
	ws "fleetmaster/pkg/wshub"

	"github.com/gorilla/websocket"
)

// FleetHub upgrades owner requests to websocket connections and keeps
// them registered in the shared hub, keyed by profile id. Alert pushes
// go through ConnectionHub.SendTo from the fleet service.
type FleetHub struct {
	connections *ws.ConnectionHub
	upgrader    websocket.Upgrader
	l           logger.Logger
}

func NewFleetHub(connHub *ws.ConnectionHub, l logger.Logger) *FleetHub {
	return &FleetHub{
		connections: connHub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		l: l,
	}
}

// HandleWS upgrades the request and blocks reading the connection until
// the peer goes away. Incoming messages are ignored, the channel is
// push-only.
func (h *FleetHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "fleet_ws_connect")

	identity := models.IdentityFromContext(ctx)
	profileID := identity.ProfileID()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to upgrade websocket connection", err)
		return
	}

	wsConn := ws.NewConn(ctx, profileID, conn)
	if err := h.connections.Add(wsConn); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register websocket connection", err)
		wsConn.Close()
		return
	}

	defer func() {
		if err := h.connections.Delete(profileID); err != nil {
			h.l.Warn(ctx, "failed to unregister websocket connection", "error", err)
		}
	}()

	h.l.Info(ctx, "fleet websocket connected", "profile_id", profileID)

	if err := wsConn.Listen(func(msg any) error { return nil }); err != nil {
		h.l.Debug(ctx, "fleet websocket closed", "error", err)
	}
}
