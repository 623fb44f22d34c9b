package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/app/repositories"
	"github.com/shashiranjanraj/influex/config"
	"github.com/shashiranjanraj/influex/pkg/collection"
	"github.com/shashiranjanraj/influex/pkg/event"
	"github.com/shashiranjanraj/influex/pkg/logger"
	"github.com/shashiranjanraj/influex/pkg/storage"
	"github.com/shashiranjanraj/influex/pkg/workerpool"
	"gorm.io/gorm"
)

// uploadPool bounds concurrent attachment uploads across all requests.
var (
	uploadPool     *workerpool.Pool
	uploadPoolOnce sync.Once
)

func pool() *workerpool.Pool {
	uploadPoolOnce.Do(func() {
		n, _ := strconv.Atoi(config.Get("UPLOAD_WORKERS", "4"))
		if n < 1 {
			n = 4
		}
		uploadPool = workerpool.New(n)
	})
	return uploadPool
}

// uploadFuture resolves once a background upload finishes.
type uploadFuture struct {
	done chan struct{}
	key  string
	url  string
	err  error
}

func (f *uploadFuture) wait() (string, string, error) {
	<-f.done
	return f.key, f.url, f.err
}

// OrderService covers order placement, listing and deletion.
type OrderService struct {
	orders *repositories.OrderRepository
	users  *repositories.UserRepository
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders: repositories.NewOrderRepository(),
		users:  repositories.NewUserRepository(),
	}
}

// PlaceOrder reads the multipart stream, uploading the attachment while the
// remaining form fields are still being parsed. The upload future is
// awaited only once the whole stream has been consumed, and a file that
// made it to storage ahead of a failed insert is removed again.
func (s *OrderService) PlaceOrder(r *http.Request, authUserID uint) (models.Order, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: multipart body expected", ErrMissingFields)
	}

	fields := map[string]string{}
	var futures []*uploadFuture

	// Errors inside the loop do not return directly: uploads already in
	// flight must still be awaited and cleaned up below.
	var parseErr error
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			parseErr = fmt.Errorf("order: read part: %w", err)
			break
		}

		if part.FileName() != "" {
			future, err := s.streamUpload(part)
			if err != nil {
				parseErr = err
				break
			}
			futures = append(futures, future)
			continue
		}

		val, err := io.ReadAll(io.LimitReader(part, 1<<20))
		part.Close()
		if err != nil {
			parseErr = fmt.Errorf("order: read field: %w", err)
			break
		}
		fields[part.FormName()] = string(val)
	}

	var order models.Order
	err = parseErr
	if err == nil {
		order, err = s.buildOrder(fields, authUserID)
	}

	// Every upload finishes before the insert is attempted, whatever order
	// the parts arrived in.
	var keys []string
	for _, f := range futures {
		key, url, upErr := f.wait()
		if upErr != nil {
			if err == nil {
				err = fmt.Errorf("order: upload: %w", upErr)
			}
			continue
		}
		keys = append(keys, key)
		if order.FileURL == "" {
			order.FileURL = url
		}
	}
	if err != nil {
		s.discardUploads(keys)
		return models.Order{}, err
	}

	if err := s.orders.Create(&order); err != nil {
		s.discardUploads(keys)
		return models.Order{}, err
	}

	event.FireAsync("order.placed", order)
	return order, nil
}

// streamUpload pipes the file part through a bounded worker so the network
// write overlaps parsing. The parse loop drains the part into the pipe;
// the worker feeds storage from the other end.
func (s *OrderService) streamUpload(part *multipart.Part) (*uploadFuture, error) {
	key := "documents/" + uuid.NewString() + strings.ToLower(filepath.Ext(part.FileName()))
	pr, pw := io.Pipe()

	f := &uploadFuture{done: make(chan struct{}), key: key}
	err := pool().Submit(func() {
		defer close(f.done)
		if err := storage.PutStream(key, pr); err != nil {
			pr.CloseWithError(err)
			f.err = err
			return
		}
		f.url = storage.URL(key)
	})
	if err != nil {
		pr.Close()
		pw.Close()
		part.Close()
		return nil, fmt.Errorf("order: upload queue: %w", err)
	}

	_, copyErr := io.Copy(pw, part)
	part.Close()
	pw.CloseWithError(copyErr)
	return f, nil
}

func (s *OrderService) discardUploads(keys []string) {
	for _, key := range keys {
		if err := storage.Delete(key); err != nil {
			logger.Warn("order: orphan file cleanup failed", "key", key, "error", err)
		}
	}
}

func (s *OrderService) buildOrder(fields map[string]string, authUserID uint) (models.Order, error) {
	for _, required := range []string{"userId", "influencerId", "services", "type", "influencer_name"} {
		if strings.TrimSpace(fields[required]) == "" {
			return models.Order{}, fmt.Errorf("%w: %s", ErrMissingFields, required)
		}
	}

	userID, err := parseID(fields["userId"])
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: userId", ErrMissingFields)
	}
	if userID != authUserID {
		return models.Order{}, ErrForbidden
	}

	influencerID, err := parseID(fields["influencerId"])
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: influencerId", ErrMissingFields)
	}
	if _, err := s.users.FindByID(influencerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}

	var services models.ServiceList
	if err := json.Unmarshal([]byte(fields["services"]), &services); err != nil || len(services) == 0 {
		return models.Order{}, fmt.Errorf("%w: services must be a non-empty JSON array", ErrMissingFields)
	}

	// An absent or unparsable total falls back to the sum of the service
	// prices. A negative total is always rejected.
	totalPrice, err := strconv.ParseFloat(fields["totalPrice"], 64)
	if err != nil {
		totalPrice = collection.Sum(services, func(it models.ServiceItem) float64 { return it.Price })
	}
	if totalPrice < 0 {
		return models.Order{}, fmt.Errorf("%w: totalPrice", ErrMissingFields)
	}

	if raw := strings.TrimSpace(fields["affiliatedLinks"]); raw != "" {
		var links []string
		if err := json.Unmarshal([]byte(raw), &links); err != nil {
			return models.Order{}, fmt.Errorf("%w: affiliatedLinks must be a JSON array", ErrMissingFields)
		}
	}

	amount := totalPrice
	if raw := fields["amount"]; raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			amount = v
		}
	}

	buyer, err := s.users.FindByID(userID)
	if err != nil {
		return models.Order{}, err
	}
	username := buyer.Username
	if username == "" {
		username = buyer.Name
	}

	scheduledDate, scheduledTime := splitDateTime(fields["postDateTime"])

	return models.Order{
		UserID:          userID,
		InfluencerID:    influencerID,
		Services:        services,
		TotalPrice:      totalPrice,
		Description:     fields["description"],
		AffiliatedLinks: fields["affiliatedLinks"],
		CouponCode:      fields["couponCode"],
		PostDateTime:    fields["postDateTime"],
		ScheduledDate:   scheduledDate,
		ScheduledTime:   scheduledTime,
		Username:        username,
		InfName:         fields["influencer_name"],
		OrderDate:       time.Now(),
		OrderType:       fields["type"],
		Amount:          amount,
		Status:          models.OrderPending,
	}, nil
}

// ListForUser returns the orders the user participates in, newest first.
func (s *OrderService) ListForUser(userID uint) ([]models.Order, error) {
	return s.orders.ForUser(userID)
}

// Delete removes the order. Only the buyer or the assigned influencer may
// delete; the stored attachment is removed best-effort.
func (s *OrderService) Delete(id, userID uint) error {
	order, err := s.orders.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if order.UserID != userID && order.InfluencerID != userID {
		return ErrForbidden
	}

	if err := s.orders.Delete(&order); err != nil {
		return err
	}

	if order.FileURL != "" {
		key := "documents/" + path.Base(order.FileURL)
		if err := storage.Delete(key); err != nil {
			logger.Warn("order: attachment cleanup failed", "order", order.ID, "key", key, "error", err)
		}
	}
	return nil
}

func parseID(s string) (uint, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(v), nil
}

// splitDateTime separates an ISO-ish timestamp into date and time halves.
// "2026-04-01T15:30" becomes ("2026-04-01", "15:30").
func splitDateTime(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}
	sep := "T"
	if !strings.Contains(raw, "T") {
		sep = " "
	}
	parts := strings.SplitN(raw, sep, 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSuffix(parts[1], "Z")
}
