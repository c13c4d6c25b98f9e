package pose

import (
	"BodyMeasure/internal/entity"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const defaultServiceURL = "ws://localhost:8001/api/v1/pose/ws"

type IPoseEstimator interface {
	Detect(ctx context.Context, image []byte) (*entity.PoseDetection, error)
	IsConnected() bool
	Reconnect() error
	Close()
}

type Options struct {
	ModelComplexity        int
	MinDetectionConfidence float64
	MinTrackingConfidence  float64
}

type detectRequest struct {
	ImageData              string  `json:"image_data"`
	ModelComplexity        int     `json:"model_complexity"`
	MinDetectionConfidence float64 `json:"min_detection_confidence"`
	MinTrackingConfidence  float64 `json:"min_tracking_confidence"`
}

type poseClient struct {
	url  string
	opts Options

	conn *websocket.Conn
	mu   sync.Mutex
	// one request/response pair in flight on the socket at a time
	reqMu sync.Mutex

	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func New(opts Options) IPoseEstimator {
	url := os.Getenv("POSE_SERVICE_URL")
	if url == "" {
		url = defaultServiceURL
	}

	client := &poseClient{
		url:          url,
		opts:         opts,
		pingInterval: 30 * time.Second,
		readTimeout:  15 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go client.connectInBackground()

	return client
}

func (c *poseClient) connectInBackground() {
	if _, err := c.getConnection(); err != nil {
		logrus.WithError(err).Warn("Initial connection to pose service failed, will retry on demand")
		return
	}
	logrus.WithField("url", c.url).Info("Connected to pose service")
}

func (c *poseClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *poseClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	_, err := c.dialLocked()
	return err
}

// dialLocked must be called with c.mu held.
func (c *poseClient) dialLocked() (*websocket.Conn, error) {
	logrus.WithField("url", c.url).Debug("Connecting to pose service")

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		if err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout)); err != nil {
			logrus.WithError(err).Warn("Error sending pong to pose service")
		}
		return nil
	})

	c.conn = conn
	go c.keepAlive(conn)

	return conn, nil
}

func (c *poseClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *poseClient) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}

		if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.writeTimeout)); err != nil {
			logrus.WithError(err).Warn("Ping to pose service failed, marking connection as dead")
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
	}
}

func (c *poseClient) getConnection() (*websocket.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return c.conn, nil
	}

	conn, err := c.dialLocked()
	if err != nil {
		return nil, fmt.Errorf("cannot connect to pose service: %w", err)
	}
	return conn, nil
}

func (c *poseClient) drop(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	conn.Close()
}

func (c *poseClient) deadline(ctx context.Context, timeout time.Duration) time.Time {
	d := time.Now().Add(timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(d) {
		return dl
	}
	return d
}

// Detect sends one image and waits for the landmark response. An empty
// landmark list is a valid "no person detected" answer, not an error.
func (c *poseClient) Detect(ctx context.Context, image []byte) (*entity.PoseDetection, error) {
	c.reqMu.Lock()
	defer c.reqMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := c.getConnection()
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(detectRequest{
		ImageData:              base64.StdEncoding.EncodeToString(image),
		ModelComplexity:        c.opts.ModelComplexity,
		MinDetectionConfidence: c.opts.MinDetectionConfidence,
		MinTrackingConfidence:  c.opts.MinTrackingConfidence,
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding pose request: %w", err)
	}

	logrus.WithField("size", len(payload)).Debug("Sending image to pose service")

	conn.SetWriteDeadline(c.deadline(ctx, c.writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.drop(conn)
		return nil, fmt.Errorf("error sending pose request: %w", err)
	}

	conn.SetReadDeadline(c.deadline(ctx, c.readTimeout))
	_, message, err := conn.ReadMessage()
	if err != nil {
		c.drop(conn)
		return nil, fmt.Errorf("error reading pose response: %w", err)
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})

	var result entity.PoseDetection
	if err := json.Unmarshal(message, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling pose response: %w", err)
	}

	if result.Error != "" {
		return nil, fmt.Errorf("pose service error: %s", result.Error)
	}

	logrus.WithField("landmarks", len(result.Landmarks)).Debug("Received pose response")

	return &result, nil
}
