package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"deskhive/internal/bookings/engine"
	"deskhive/pkg/kafka"
	"deskhive/pkg/logger"
	"deskhive/pkg/model"
)

func notificationMessage(t *testing.T, notification engine.Notification) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(notification)
	if err != nil {
		t.Fatalf("marshal notification: %v", err)
	}
	return kafka.Message{
		Value:   payload,
		Headers: map[string]string{kafka.HeaderEventID: "evt-1"},
	}
}

func TestDeliveryWorker_Handle(t *testing.T) {
	worker := NewDeliveryWorker(logger.Discard())

	notification := engine.Notification{
		PartyID:    "alice",
		ResourceID: "room-1",
		BookingID:  "b-1",
		Kind:       engine.NotifyAccepted,
		Window:     model.TimeWindow{Date: "2026-09-01", Start: "09:00", End: "10:00"},
		OccurredAt: time.Now().UTC(),
	}

	if err := worker.Handle(context.Background(), notificationMessage(t, notification)); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}

	notification.Kind = engine.NotifyPromoted
	if err := worker.Handle(context.Background(), notificationMessage(t, notification)); err != nil {
		t.Fatalf("Handle() promoted error = %v, want nil", err)
	}

	notification.Kind = engine.NotifyRejected
	notification.Reason = "blocked"
	if err := worker.Handle(context.Background(), notificationMessage(t, notification)); err != nil {
		t.Fatalf("Handle() rejected error = %v, want nil", err)
	}
}

func TestDeliveryWorker_Handle_MalformedPayload(t *testing.T) {
	worker := NewDeliveryWorker(logger.Discard())

	msg := kafka.Message{Value: []byte("{not json"), Headers: map[string]string{}}
	err := worker.Handle(context.Background(), msg)
	if err == nil {
		t.Fatal("Handle() error = nil, want permanent error")
	}

	var procErr *kafka.ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("Handle() error type = %T, want *kafka.ProcessingError", err)
	}
	if procErr.Type != kafka.ErrorTypePermanent {
		t.Errorf("error type = %v, want permanent", procErr.Type)
	}
}

func TestDeliveryWorker_Handle_MissingParty(t *testing.T) {
	worker := NewDeliveryWorker(logger.Discard())

	notification := engine.Notification{
		ResourceID: "room-1",
		Kind:       engine.NotifyAccepted,
	}

	err := worker.Handle(context.Background(), notificationMessage(t, notification))
	var procErr *kafka.ProcessingError
	if !errors.As(err, &procErr) || procErr.Type != kafka.ErrorTypePermanent {
		t.Fatalf("Handle() error = %v, want permanent processing error", err)
	}
}

func TestDeliveryWorker_Handle_UnknownKind(t *testing.T) {
	worker := NewDeliveryWorker(logger.Discard())

	notification := engine.Notification{
		PartyID:    "alice",
		ResourceID: "room-1",
		Kind:       engine.NotificationKind("carrier-pigeon"),
	}

	err := worker.Handle(context.Background(), notificationMessage(t, notification))
	var procErr *kafka.ProcessingError
	if !errors.As(err, &procErr) || procErr.Type != kafka.ErrorTypePermanent {
		t.Fatalf("Handle() error = %v, want permanent processing error", err)
	}
}
