package measurementHandler

import (
	"BodyMeasure/internal/api/measurement"
	contextPkg "BodyMeasure/pkg/context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"golang.org/x/net/context"
)

const (
	streamReadTimeout = 60 * time.Second
	// text frames carry base64 plus a JSON envelope
	textFrameOverhead = 64 * 1024
)

func streamReadLimit(maxFileBytes int64) int64 {
	if maxFileBytes <= 0 {
		return 0
	}
	return maxFileBytes*4/3 + textFrameOverhead
}

// handleStream accepts binary frames (raw JPEG/PNG) or text frames carrying an
// ExtractRequest JSON body, and answers each with one MeasurementSet.
func (h *MeasurementHandler) handleStream(c *websocket.Conn) {
	sessionID := uuid.NewString()
	log := h.log.WithField("stream_id", sessionID)

	log.Info("Measurement stream client connected")
	defer log.Info("Measurement stream client disconnected")

	var defaultReference *float64
	if raw := c.Query("reference_height"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			defaultReference = &v
		}
	}

	if limit := streamReadLimit(h.requirements.MaxFileBytes); limit > 0 {
		c.SetReadLimit(limit)
	}

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	for {
		if err := c.SetReadDeadline(time.Now().Add(streamReadTimeout)); err != nil {
			log.Errorf("Error setting read deadline: %v", err)
			return
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Errorf("Measurement stream error: %v", err)
			}
			return
		}

		ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), sessionID), h.timeout)
		var reply interface{}

		switch messageType {
		case websocket.BinaryMessage:
			reply = h.measurementService.ProcessFrame(ctx, message, defaultReference)
		case websocket.TextMessage:
			reply = h.processTextFrame(ctx, message, defaultReference)
		default:
			cancel()
			continue
		}
		cancel()

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			log.Errorf("Error setting write deadline: %v", err)
			return
		}
		if err := c.WriteJSON(reply); err != nil {
			log.Errorf("Error writing JSON response: %v", err)
			return
		}
	}
}

func (h *MeasurementHandler) processTextFrame(ctx context.Context, message []byte, defaultReference *float64) interface{} {
	var req measurement.ExtractRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return map[string]interface{}{"success": false, "error": "invalid JSON frame"}
	}
	if err := h.validator.Struct(req); err != nil {
		return map[string]interface{}{"success": false, "error": "Validation failed: " + err.Error()}
	}
	if req.ReferenceHeight == nil {
		req.ReferenceHeight = defaultReference
	}

	result, err := h.measurementService.ExtractBase64(ctx, req)
	if err != nil {
		return map[string]interface{}{"success": false, "error": err.Error()}
	}
	return result
}
