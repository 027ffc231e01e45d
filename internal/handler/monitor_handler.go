package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/opencampus/admission-backend/internal/middleware"
	"github.com/opencampus/admission-backend/internal/service"
	"github.com/rs/zerolog"
)

// occupancyPushInterval is how often a connected client receives a snapshot.
const occupancyPushInterval = 5 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// MonitorHandler streams live schedule occupancy to the admin dashboard over
// WebSocket, so staff watching a fill-up (e.g. during an auto-assign sweep)
// see counts move without polling.
type MonitorHandler struct {
	scheduleService *service.ScheduleService
	log             zerolog.Logger
	upgrader        websocket.Upgrader
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(scheduleService *service.ScheduleService, log zerolog.Logger, allowedOrigins []string) *MonitorHandler {
	return &MonitorHandler{
		scheduleService: scheduleService,
		log:             log.With().Str("component", "monitor_handler").Logger(),
		upgrader:        buildUpgrader(allowedOrigins),
	}
}

// occupancySnapshot is one push frame.
type occupancySnapshot struct {
	ScheduleID   string `json:"schedule_id"`
	Capacity     int    `json:"capacity"`
	CurrentCount int    `json:"current_count"`
	IsActive     bool   `json:"is_active"`
	At           string `json:"at"`
}

// OccupancyStream godoc
// WS /ws/v1/schedules/:id/occupancy?token=...
// Upgrades to WebSocket and pushes occupancy snapshots until the client
// disconnects.
func (h *MonitorHandler) OccupancyStream(c *gin.Context) {
	scheduleID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetActor(c)

	// Validate access before upgrading; WS close frames are awkward for this.
	if _, err := h.scheduleService.GetSchedule(c.Request.Context(), actor, scheduleID); err != nil {
		respondServiceError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("admin_id", actor.ID).
		Str("schedule_id", scheduleID.String()).
		Logger()
	wsLog.Info().Msg("Occupancy monitor connected")

	// Read pump: drain control frames and detect disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(occupancyPushInterval)
	defer ticker.Stop()

	for {
		schedule, err := h.scheduleService.GetSchedule(c.Request.Context(), actor, scheduleID)
		if err != nil {
			wsLog.Warn().Err(err).Msg("Schedule gone, closing monitor")
			return
		}

		snapshot := occupancySnapshot{
			ScheduleID:   schedule.ID.String(),
			Capacity:     schedule.Capacity,
			CurrentCount: schedule.CurrentCount,
			IsActive:     schedule.IsActive,
			At:           time.Now().UTC().Format(time.RFC3339),
		}
		if err := conn.WriteJSON(snapshot); err != nil {
			wsLog.Debug().Msg("Monitor disconnected")
			return
		}

		select {
		case <-done:
			wsLog.Debug().Msg("Monitor closed by client")
			return
		case <-ticker.C:
		}
	}
}
