package system

import (
	"context"
	"net/url"
	"time"

	"go-analytics/internal/features/dashboard"
	"go-analytics/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// userIDLocal carries the authenticated user across the websocket upgrade.
const userIDLocal = "userID"

// periodMessage changes the period of a live dashboard.
type periodMessage struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Filter string `json:"filter"`
	Mask   string `json:"mask"`
}

type WebSocketController struct {
	Hub       *Hub
	Refresher *Refresher
	Logger    *zap.Logger
}

func NewWebSocketController(hub *Hub, refresher *Refresher, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{
		Hub:       hub,
		Refresher: refresher,
		Logger:    logger,
	}
}

// HandleDashboard streams renders of one dashboard until the client disconnects.
func (h *WebSocketController) HandleDashboard(c *websocket.Conn) {
	userID, _ := c.Locals(userIDLocal).(string)
	name := c.Params("name")
	if v, err := url.PathUnescape(name); err == nil {
		name = v
	}

	req, err := dashboard.ParseRenderRequest(c.Query("start"), c.Query("end"), c.Query("filter"), c.Query("mask"), time.Now())
	if err != nil {
		c.WriteJSON(Message{Dashboard: name, Error: err.Error(), RenderedAt: time.Now()})
		return
	}

	sub := Subscription{UserID: userID, Dashboard: name, Request: req}
	h.Hub.Subscribe(c, sub)
	defer h.Hub.Unsubscribe(c)

	ctx := utils.WithClaims(context.Background(), &utils.UserClaims{UserID: userID})
	if err := h.Refresher.Push(ctx, c, sub); err != nil {
		h.Logger.Debug("websocket write failed", zap.Error(err))
		return
	}

	for {
		var p periodMessage
		if err := c.ReadJSON(&p); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Debug("websocket closed", zap.String("dashboard", name), zap.Error(err))
			}
			return
		}

		req, err := dashboard.ParseRenderRequest(p.Start, p.End, p.Filter, p.Mask, time.Now())
		if err != nil {
			h.Hub.Send(c, Message{Dashboard: name, Error: err.Error(), RenderedAt: time.Now()})
			continue
		}
		sub.Request = req
		h.Hub.Subscribe(c, sub)
		if err := h.Refresher.Push(ctx, c, sub); err != nil {
			return
		}
	}
}
