package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/app/services"
	"github.com/shashiranjanraj/influex/config"
	"github.com/shashiranjanraj/influex/pkg/auth"
	"github.com/shashiranjanraj/influex/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupGateway(t *testing.T) (*Gateway, *httptest.Server, *gorm.DB) {
	t.Helper()
	config.Set("JWT_SECRET", "test-secret")

	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "test.db")),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Message{}))
	database.DB = db

	g := NewGateway(services.NewChatService())
	go g.Run()

	srv := httptest.NewServer(http.HandlerFunc(g.Handler))
	t.Cleanup(srv.Close)
	return g, srv, db
}

func dialAs(t *testing.T, srv *httptest.Server, u models.User) *websocket.Conn {
	t.Helper()
	token, err := auth.GenerateToken(u.ID, u.Email, u.Role)
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Replay the join handshake and wait for the ack so the room
	// membership is settled before the test sends anything.
	require.NoError(t, conn.WriteJSON(Frame{Type: "join"}))
	ack := readFrame(t, conn)
	require.True(t, ack.Success)
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var f Frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestHandlerRejectsAnonymous(t *testing.T) {
	_, srv, _ := setupGateway(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL+"?token=not-a-jwt", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSendMessageDelivery(t *testing.T) {
	_, srv, db := setupGateway(t)

	alice := models.User{Name: "alice", Username: "alice", Email: "alice@example.com", Password: "x", Role: models.RoleBusiness}
	require.NoError(t, db.Create(&alice).Error)
	bob := models.User{Name: "bob", Username: "bob", Email: "bob@example.com", Password: "x", Role: models.RoleInfluencer}
	require.NoError(t, db.Create(&bob).Error)

	aliceConn := dialAs(t, srv, alice)
	bobConn := dialAs(t, srv, bob)

	require.NoError(t, aliceConn.WriteJSON(Frame{
		Type: "send_message", To: bob.ID, Content: "hey bob", TempID: "t1",
	}))

	// Sender gets the ack first, then the fan-out copy.
	ack := readFrame(t, aliceConn)
	assert.Equal(t, "ack", ack.Type)
	assert.Equal(t, "t1", ack.TempID)
	assert.True(t, ack.Success)
	require.NotNil(t, ack.Message)
	assert.Equal(t, "hey bob", ack.Message.Content)

	echo := readFrame(t, aliceConn)
	assert.Equal(t, "new_message", echo.Type)

	delivered := readFrame(t, bobConn)
	assert.Equal(t, "new_message", delivered.Type)
	require.NotNil(t, delivered.Message)
	assert.Equal(t, alice.ID, delivered.Message.FromUserID)
	assert.Equal(t, "hey bob", delivered.Message.Content)

	// The row was committed before the broadcast went out.
	var count int64
	require.NoError(t, db.Model(&models.Message{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSendMessageErrors(t *testing.T) {
	_, srv, db := setupGateway(t)

	alice := models.User{Name: "alice", Username: "alice", Email: "alice@example.com", Password: "x", Role: models.RoleBusiness}
	require.NoError(t, db.Create(&alice).Error)
	conn := dialAs(t, srv, alice)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	ack := readFrame(t, conn)
	assert.False(t, ack.Success)
	assert.Equal(t, "malformed frame", ack.Error)

	require.NoError(t, conn.WriteJSON(Frame{Type: "send_message", To: 9999, Content: "hi", TempID: "t2"}))
	ack = readFrame(t, conn)
	assert.Equal(t, "t2", ack.TempID)
	assert.False(t, ack.Success)
	assert.NotEmpty(t, ack.Error)

	require.NoError(t, conn.WriteJSON(Frame{Type: "presence", TempID: "t3"}))
	ack = readFrame(t, conn)
	assert.False(t, ack.Success)
	assert.Contains(t, ack.Error, "unknown frame type")
}

func TestJoinForeignRoomRejected(t *testing.T) {
	_, srv, db := setupGateway(t)

	alice := models.User{Name: "alice", Username: "alice", Email: "alice@example.com", Password: "x", Role: models.RoleBusiness}
	require.NoError(t, db.Create(&alice).Error)
	bob := models.User{Name: "bob", Username: "bob", Email: "bob@example.com", Password: "x", Role: models.RoleInfluencer}
	require.NoError(t, db.Create(&bob).Error)

	aliceConn := dialAs(t, srv, alice)
	bobConn := dialAs(t, srv, bob)

	// Alice cannot subscribe to bob's room.
	require.NoError(t, aliceConn.WriteJSON(Frame{Type: "join", To: bob.ID, TempID: "j2"}))
	ack := readFrame(t, aliceConn)
	assert.False(t, ack.Success)
	assert.Equal(t, "cannot join another user's room", ack.Error)

	// A message to bob reaches only bob's socket, not the rejected joiner.
	require.NoError(t, bobConn.WriteJSON(Frame{Type: "send_message", To: alice.ID, Content: "private", TempID: "m1"}))
	ack = readFrame(t, bobConn)
	require.True(t, ack.Success)

	msg := readFrame(t, aliceConn)
	assert.Equal(t, "new_message", msg.Type)
	require.NotNil(t, msg.Message)
	assert.Equal(t, alice.ID, msg.Message.ToUserID)
}

func TestJoinAck(t *testing.T) {
	_, srv, db := setupGateway(t)

	alice := models.User{Name: "alice", Username: "alice", Email: "alice@example.com", Password: "x", Role: models.RoleBusiness}
	require.NoError(t, db.Create(&alice).Error)
	conn := dialAs(t, srv, alice)

	require.NoError(t, conn.WriteJSON(Frame{Type: "join", TempID: "j1"}))
	ack := readFrame(t, conn)
	assert.Equal(t, "ack", ack.Type)
	assert.Equal(t, "j1", ack.TempID)
	assert.True(t, ack.Success)
}
