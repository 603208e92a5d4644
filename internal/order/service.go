package order

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/karan123216/Restaurant-Management-System/internal/identity"
	"github.com/karan123216/Restaurant-Management-System/internal/mail"
)

var tracer = otel.Tracer("restaurant-service/order")

type Service interface {
	PlaceOrder(ctx context.Context, user identity.User) (*Receipt, error)
	GetOrder(ctx context.Context, user identity.User, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context, user identity.User) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, actor identity.User, id uuid.UUID, status string) (*Order, error)
}

type Option func(*service)

// WithClock replaces time.Now as the source of order timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

type service struct {
	orderRepo Repository
	mailer    mail.Sender
	now       func() time.Time
}

func NewService(orderRepo Repository, mailer mail.Sender, opts ...Option) Service {
	s := &service{
		orderRepo: orderRepo,
		mailer:    mailer,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) PlaceOrder(ctx context.Context, user identity.User) (*Receipt, error) {
	ctx, span := tracer.Start(ctx, "order.PlaceOrder")
	defer span.End()

	if err := user.RequireSession(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	receipt, err := s.orderRepo.PlaceOrder(ctx, user.ID, s.now().UTC().Truncate(time.Microsecond))
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			log.Warn().Stringer("user_id", user.ID).Msg("service: place order with empty cart")
			return nil, ErrEmptyCart
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "place order failed")
		log.Error().Err(err).Stringer("user_id", user.ID).Msg("service: failed to place order")
		return nil, fmt.Errorf("service: failed to place order: %w", err)
	}

	span.SetAttributes(attribute.String("order.id", receipt.Order.ID.String()))
	log.Info().
		Stringer("order_id", receipt.Order.ID).
		Stringer("user_id", user.ID).
		Stringer("total", receipt.Total).
		Int("lines", len(receipt.Order.Lines)).
		Msg("Order placed")

	s.sendReceipt(ctx, user, receipt)

	return receipt, nil
}

// sendReceipt is best effort: the order is committed whatever the mailer says.
func (s *service) sendReceipt(ctx context.Context, user identity.User, receipt *Receipt) {
	if s.mailer == nil || user.Email == "" {
		return
	}

	if err := s.mailer.Send(ctx, ReceiptMessage(user, receipt)); err != nil {
		log.Error().Err(err).Stringer("order_id", receipt.Order.ID).Msg("service: failed to email receipt")
	}
}

func (s *service) GetOrder(ctx context.Context, user identity.User, id uuid.UUID) (*Order, error) {
	if err := user.RequireSession(); err != nil {
		return nil, err
	}

	o, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}

		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to get order")
		return nil, fmt.Errorf("service: failed to get order %s: %w", id, err)
	}

	if o.UserID != user.ID && !user.IsStaff {
		return nil, ErrOrderNotFound
	}

	return o, nil
}

func (s *service) ListOrders(ctx context.Context, user identity.User) ([]Order, error) {
	if err := user.RequireSession(); err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, user.ID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", user.ID).Msg("service: failed to list orders")
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}

	return orders, nil
}

func (s *service) UpdateOrderStatus(ctx context.Context, actor identity.User, id uuid.UUID, status string) (*Order, error) {
	ctx, span := tracer.Start(ctx, "order.UpdateOrderStatus", trace.WithAttributes(
		attribute.String("order.id", id.String()),
		attribute.String("order.status", status),
	))
	defer span.End()

	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}

	newStatus, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, id, newStatus); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "update status failed")
		return nil, fmt.Errorf("service: failed to update status of order %s: %w", id, err)
	}

	log.Info().Stringer("order_id", id).Stringer("status", newStatus).Stringer("actor_id", actor.ID).Msg("Order status updated")

	o, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to reload order %s: %w", id, err)
	}

	return o, nil
}

// ReceiptMessage renders the receipt email for user.
func ReceiptMessage(user identity.User, receipt *Receipt) mail.Message {
	var text, body strings.Builder
	date := receipt.Date.Format(time.RFC1123)

	fmt.Fprintf(&text, "Thank you for your order, %s!\n\n", user.Username)
	fmt.Fprintf(&body, "<p>Thank you for your order, <strong>%s</strong>!</p><table>", html.EscapeString(user.Username))
	for _, line := range receipt.Bill {
		fmt.Fprintf(&text, "%d x %s @ %s = %s\n", line.Quantity, line.Name, line.UnitPrice, line.Total)
		fmt.Fprintf(&body, "<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			line.Quantity, html.EscapeString(line.Name), line.UnitPrice, line.Total)
	}
	fmt.Fprintf(&text, "\nTotal: %s\nOrder: %s\nDate: %s\n", receipt.Total, receipt.Order.ID, date)
	fmt.Fprintf(&body, "</table><p>Total: <strong>%s</strong></p><p>Order %s, %s</p>", receipt.Total, receipt.Order.ID, date)

	return mail.Message{
		To:       user.Email,
		Subject:  "Your order receipt",
		TextBody: text.String(),
		HTMLBody: body.String(),
	}
}
