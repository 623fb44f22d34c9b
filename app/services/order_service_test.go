package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/config"
	"github.com/shashiranjanraj/influex/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStorage(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	config.Set("STORAGE_DISK", "local")
	config.Set("STORAGE_LOCAL_ROOT", root)
	config.Set("STORAGE_URL", "http://localhost:8080/storage")
	storage.Connect()
	return root
}

func orderForm(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, body := range files {
		fw, err := w.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = fw.Write(body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func baseFields(buyerID, infID string) map[string]string {
	return map[string]string{
		"userId":          buyerID,
		"influencerId":    infID,
		"services":        `[{"name":"Story Shoutout","price":500}]`,
		"totalPrice":      "500",
		"type":            "promotion",
		"influencer_name": "diyastyle",
		"description":     "one story, tag us",
		"postDateTime":    "2026-04-01T15:30",
	}
}

func TestPlaceOrder(t *testing.T) {
	db := setupTest(t)
	root := setupStorage(t)
	svc := NewOrderService()

	buyer := createUser(t, db, "acme", "acme@example.com", models.RoleBusiness)
	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)

	body, contentType := orderForm(t,
		baseFields(itoa(buyer.ID), itoa(inf.ID)),
		map[string][]byte{"brief.pdf": []byte("pdf-bytes")})
	req := httptest.NewRequest("POST", "/api/place-order", body)
	req.Header.Set("Content-Type", contentType)

	order, err := svc.PlaceOrder(req, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, buyer.ID, order.UserID)
	assert.Equal(t, inf.ID, order.InfluencerID)
	assert.Equal(t, "Story Shoutout", order.Product())
	assert.Equal(t, "2026-04-01", order.ScheduledDate)
	assert.Equal(t, "15:30", order.ScheduledTime)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "acme", order.Username)
	require.NotEmpty(t, order.FileURL)

	// The attachment really landed on the local disk.
	matches, err := filepath.Glob(filepath.Join(root, "documents", "*"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))
}

func TestPlaceOrderValidation(t *testing.T) {
	db := setupTest(t)
	setupStorage(t)
	svc := NewOrderService()

	buyer := createUser(t, db, "acme", "acme@example.com", models.RoleBusiness)
	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)

	t.Run("missing required field", func(t *testing.T) {
		fields := baseFields(itoa(buyer.ID), itoa(inf.ID))
		delete(fields, "services")
		body, ct := orderForm(t, fields, nil)
		req := httptest.NewRequest("POST", "/api/place-order", body)
		req.Header.Set("Content-Type", ct)

		_, err := svc.PlaceOrder(req, buyer.ID)
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("empty services list", func(t *testing.T) {
		fields := baseFields(itoa(buyer.ID), itoa(inf.ID))
		fields["services"] = "[]"
		body, ct := orderForm(t, fields, nil)
		req := httptest.NewRequest("POST", "/api/place-order", body)
		req.Header.Set("Content-Type", ct)

		_, err := svc.PlaceOrder(req, buyer.ID)
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("malformed affiliated links", func(t *testing.T) {
		fields := baseFields(itoa(buyer.ID), itoa(inf.ID))
		fields["affiliatedLinks"] = "not-a-list"
		body, ct := orderForm(t, fields, nil)
		req := httptest.NewRequest("POST", "/api/place-order", body)
		req.Header.Set("Content-Type", ct)

		_, err := svc.PlaceOrder(req, buyer.ID)
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("cannot order for another user", func(t *testing.T) {
		body, ct := orderForm(t, baseFields(itoa(buyer.ID), itoa(inf.ID)), nil)
		req := httptest.NewRequest("POST", "/api/place-order", body)
		req.Header.Set("Content-Type", ct)

		_, err := svc.PlaceOrder(req, buyer.ID+100)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown influencer", func(t *testing.T) {
		body, ct := orderForm(t, baseFields(itoa(buyer.ID), "9999"), nil)
		req := httptest.NewRequest("POST", "/api/place-order", body)
		req.Header.Set("Content-Type", ct)

		_, err := svc.PlaceOrder(req, buyer.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	// A failed insert must not leave a half-written order around.
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceOrderTotalFallback(t *testing.T) {
	db := setupTest(t)
	setupStorage(t)
	svc := NewOrderService()

	buyer := createUser(t, db, "acme", "acme@example.com", models.RoleBusiness)
	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)

	fields := baseFields(itoa(buyer.ID), itoa(inf.ID))
	fields["services"] = `[{"name":"Story","price":300},{"name":"Reel","price":450}]`
	delete(fields, "totalPrice")
	body, ct := orderForm(t, fields, nil)
	req := httptest.NewRequest("POST", "/api/place-order", body)
	req.Header.Set("Content-Type", ct)

	order, err := svc.PlaceOrder(req, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, 750.0, order.TotalPrice)
}

func TestPlaceOrderTruncatedStreamCleansUploads(t *testing.T) {
	db := setupTest(t)
	root := setupStorage(t)
	svc := NewOrderService()

	buyer := createUser(t, db, "acme", "acme@example.com", models.RoleBusiness)

	// The attachment part is complete, the field after it is cut off
	// mid-value so the parse loop fails after the upload started.
	raw := "--b1\r\n" +
		"Content-Disposition: form-data; name=\"file\"; filename=\"brief.pdf\"\r\n" +
		"Content-Type: application/pdf\r\n\r\n" +
		"pdf-bytes\r\n" +
		"--b1\r\n" +
		"Content-Disposition: form-data; name=\"description\"\r\n\r\n" +
		"cut off mid-valu"
	req := httptest.NewRequest("POST", "/api/place-order", strings.NewReader(raw))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b1")

	_, err := svc.PlaceOrder(req, buyer.ID)
	require.Error(t, err)

	// The half-finished upload was removed again.
	matches, err := filepath.Glob(filepath.Join(root, "documents", "*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPlaceOrderMultipleAttachments(t *testing.T) {
	db := setupTest(t)
	root := setupStorage(t)
	svc := NewOrderService()

	buyer := createUser(t, db, "acme", "acme@example.com", models.RoleBusiness)
	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)

	body, ct := orderForm(t, baseFields(itoa(buyer.ID), itoa(inf.ID)), map[string][]byte{
		"brief.pdf":  []byte("pdf-bytes"),
		"visual.png": []byte("png-bytes"),
	})
	req := httptest.NewRequest("POST", "/api/place-order", body)
	req.Header.Set("Content-Type", ct)

	order, err := svc.PlaceOrder(req, buyer.ID)
	require.NoError(t, err)
	require.NotEmpty(t, order.FileURL)

	// Both uploads finished before the insert; both are durable.
	matches, err := filepath.Glob(filepath.Join(root, "documents", "*"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestDeleteOrder(t *testing.T) {
	db := setupTest(t)
	setupStorage(t)
	svc := NewOrderService()

	buyer := createUser(t, db, "acme", "acme@example.com", models.RoleBusiness)
	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)
	other := createUser(t, db, "eve", "eve@example.com", models.RoleBusiness)

	order := models.Order{UserID: buyer.ID, InfluencerID: inf.ID, TotalPrice: 100, Status: models.OrderPending}
	require.NoError(t, db.Create(&order).Error)

	assert.ErrorIs(t, svc.Delete(order.ID+50, buyer.ID), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(order.ID, other.ID), ErrForbidden)

	require.NoError(t, svc.Delete(order.ID, inf.ID))
	assert.ErrorIs(t, db.First(&models.Order{}, order.ID).Error, gorm.ErrRecordNotFound)
}

func TestSplitDateTime(t *testing.T) {
	cases := []struct {
		in, date, clock string
	}{
		{"2026-04-01T15:30", "2026-04-01", "15:30"},
		{"2026-04-01 09:00:00", "2026-04-01", "09:00:00"},
		{"2026-04-01T15:30:00Z", "2026-04-01", "15:30:00"},
		{"2026-04-01", "2026-04-01", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		d, tm := splitDateTime(c.in)
		assert.Equal(t, c.date, d, c.in)
		assert.Equal(t, c.clock, tm, c.in)
	}
}

func itoa(v uint) string {
	return fmt.Sprint(v)
}
