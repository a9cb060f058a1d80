// Package orders persists checkout submissions and serves the admin order
// views: status transitions and daily statistics.
package orders

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/chrisdamba/menuar/internal/events"
	"github.com/chrisdamba/menuar/internal/models"
	"github.com/chrisdamba/menuar/internal/repositories"
)

const popularItemsLimit = 10

type Receipt struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

type Service struct {
	repo      repositories.OrderRepository
	publisher events.Publisher
	validate  *validator.Validate
	log       logrus.FieldLogger
	now       func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rng = r }
}

func NewService(repo repositories.OrderRepository, publisher events.Publisher, log logrus.FieldLogger, opts ...Option) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	s := &Service{
		repo:      repo,
		publisher: publisher,
		validate:  validator.New(),
		log:       log,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewOrderNumber formats ORD-<last 8 digits of unix ms>-<4 upper alnum>.
func (s *Service) NewOrderNumber() string {
	ms := strconv.FormatInt(s.now().UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffix := make([]byte, 4)
	s.rngMu.Lock()
	for i := range suffix {
		suffix[i] = alphabet[s.rng.Intn(len(alphabet))]
	}
	s.rngMu.Unlock()
	return "ORD-" + ms + "-" + string(suffix)
}

func (s *Service) Validate(sub models.OrderSubmission) error {
	if err := s.validate.Struct(sub); err != nil {
		return &ValidationError{Err: err}
	}
	var sum int64
	for _, item := range sub.Items {
		sum += item.Price * int64(item.Quantity)
	}
	if sum != sub.TotalAmount {
		return &ValidationError{Err: fmt.Errorf("%w: items sum to %d, total is %d", ErrTotalMismatch, sum, sub.TotalAmount)}
	}
	return nil
}

// Submit stores the order and announces it. A failed announcement is logged
// only; the order already exists at that point.
func (s *Service) Submit(ctx context.Context, sub models.OrderSubmission) (Receipt, error) {
	if err := s.Validate(sub); err != nil {
		return Receipt{}, err
	}
	if sub.OrderNumber == "" {
		sub.OrderNumber = s.NewOrderNumber()
	}
	notes := sub.SpecialNotes
	if strings.TrimSpace(notes) == "" {
		notes = models.DefaultOrderNotes
	}

	created := s.now().UTC()
	order := &models.Order{
		OrderNumber:   sub.OrderNumber,
		RestaurantID:  sub.RestaurantID,
		Customer:      sub.Customer,
		Items:         sub.Items,
		TotalAmount:   sub.TotalAmount,
		Currency:      sub.Currency,
		Status:        models.OrderStatusPending,
		OrderType:     models.OrderTypeDineIn,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: models.PaymentMethodAtVenue,
		SpecialNotes:  notes,
		CreatedAt:     created,
		UpdatedAt:     created,
	}

	id, err := s.repo.Create(ctx, order)
	if err != nil {
		return Receipt{}, &SubmissionError{RestaurantID: sub.RestaurantID, OrderNumber: sub.OrderNumber, Err: err}
	}
	order.ID = id

	log := s.log.WithFields(logrus.Fields{
		"restaurant": sub.RestaurantID,
		"order":      order.OrderNumber,
		"orderId":    id,
	})
	if err := s.publisher.PublishOrderPlaced(ctx, events.NewOrderPlaced(order)); err != nil {
		log.WithError(err).Warn("order stored but event not published")
	}
	log.WithField("total", order.TotalAmount).Info("order submitted")

	return Receipt{OrderID: id, OrderNumber: order.OrderNumber}, nil
}

// UpdateStatus moves an order and stamps the matching milestone time.
func (s *Service) UpdateStatus(ctx context.Context, restaurantID, orderID, status string) error {
	if !models.ValidOrderStatuses[status] {
		return &ValidationError{Err: fmt.Errorf("%w: %q", ErrInvalidStatus, status)}
	}
	now := s.now().UTC()
	fields := map[string]interface{}{
		"status":    status,
		"updatedAt": now,
	}
	switch status {
	case models.OrderStatusConfirmed:
		fields["confirmedAt"] = now
	case models.OrderStatusReady:
		fields["readyAt"] = now
	case models.OrderStatusDelivered:
		fields["deliveredAt"] = now
	}
	if err := s.repo.Update(ctx, restaurantID, orderID, fields); err != nil {
		return fmt.Errorf("update order %s status: %w", orderID, err)
	}
	s.log.WithFields(logrus.Fields{
		"restaurant": restaurantID,
		"orderId":    orderID,
		"status":     status,
	}).Info("order status updated")
	return nil
}

// Stats summarises orders for the admin dashboard. "Today" starts at local
// midnight of now; the week is the trailing seven days. Cancelled orders count
// toward totals but not revenue. Popular items come from today's orders.
func (s *Service) Stats(ctx context.Context, restaurantID string, now time.Time) (models.OrderStats, error) {
	list, err := s.repo.GetByRestaurantID(ctx, restaurantID)
	if err != nil {
		return models.OrderStats{}, fmt.Errorf("order stats for %s: %w", restaurantID, err)
	}
	return Summarize(list, now), nil
}

func Summarize(list []*models.Order, now time.Time) models.OrderStats {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.Add(-7 * 24 * time.Hour)

	stats := models.OrderStats{
		Today: models.DayOrderStats{ByStatus: make(map[string]int, len(models.ValidOrderStatuses))},
	}
	for status := range models.ValidOrderStatuses {
		stats.Today.ByStatus[status] = 0
	}

	popular := map[string]*models.PopularItem{}
	var weekSum int64
	for _, o := range list {
		created := o.CreatedAt
		if !created.Before(weekStart) {
			stats.ThisWeek.Total++
			weekSum += o.TotalAmount
			if o.Status != models.OrderStatusCancelled {
				stats.ThisWeek.Revenue += o.TotalAmount
			}
		}
		if created.Before(todayStart) {
			continue
		}
		stats.Today.Total++
		stats.Today.ByStatus[o.Status]++
		if o.Status != models.OrderStatusCancelled {
			stats.Today.Revenue += o.TotalAmount
		}
		for _, item := range o.Items {
			key := item.MenuItemID
			if key == "" {
				key = item.Name
			}
			p, ok := popular[key]
			if !ok {
				p = &models.PopularItem{MenuItemID: key, Name: item.Name}
				popular[key] = p
			}
			p.Quantity += item.Quantity
			p.Revenue += item.Price * int64(item.Quantity)
		}
	}
	if stats.ThisWeek.Total > 0 {
		stats.ThisWeek.AvgOrderValue = weekSum / int64(stats.ThisWeek.Total)
	}

	stats.PopularItems = make([]models.PopularItem, 0, len(popular))
	for _, p := range popular {
		stats.PopularItems = append(stats.PopularItems, *p)
	}
	sort.Slice(stats.PopularItems, func(i, j int) bool {
		a, b := stats.PopularItems[i], stats.PopularItems[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.MenuItemID < b.MenuItemID
	})
	if len(stats.PopularItems) > popularItemsLimit {
		stats.PopularItems = stats.PopularItems[:popularItemsLimit]
	}
	return stats
}
