package usecase

import (
	"context"
	"errors"
	"sync"

	"spreedly-bot/internal/domain/model"
)

var errFakeGateway = errors.New("gateway unavailable")

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}

// fakeGateway records calls and returns canned records.
type fakeGateway struct {
	mu       sync.Mutex
	calls    []string
	record   *model.Record
	gateways []*model.Record
	card     model.CreditCard
	err      error
}

func (f *fakeGateway) call(name, token string) (*model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name+" "+token)
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func (f *fakeGateway) ShowGateway(_ context.Context, token string) (*model.Record, error) {
	return f.call("ShowGateway", token)
}

func (f *fakeGateway) ListGateways(context.Context) ([]*model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "ListGateways ")
	if f.err != nil {
		return nil, f.err
	}
	return f.gateways, nil
}

func (f *fakeGateway) RedactGateway(_ context.Context, token string) (*model.Record, error) {
	return f.call("RedactGateway", token)
}

func (f *fakeGateway) ShowPaymentMethod(_ context.Context, token string) (*model.Record, error) {
	return f.call("ShowPaymentMethod", token)
}

func (f *fakeGateway) RetainPaymentMethod(_ context.Context, token string) (*model.Record, error) {
	return f.call("RetainPaymentMethod", token)
}

func (f *fakeGateway) RedactPaymentMethod(_ context.Context, token string) (*model.Record, error) {
	return f.call("RedactPaymentMethod", token)
}

func (f *fakeGateway) TokenizeCreditCard(_ context.Context, card model.CreditCard) (*model.Record, error) {
	f.mu.Lock()
	f.card = card
	f.mu.Unlock()
	return f.call("TokenizeCreditCard", card.Number)
}

func (f *fakeGateway) ShowTransaction(_ context.Context, token string) (*model.Record, error) {
	return f.call("ShowTransaction", token)
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []model.AuditEntry
	err     error
}

func (f *fakeAudit) Append(_ context.Context, entry model.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	entry.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAudit) Recent(_ context.Context, limit int) ([]model.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.AuditEntry, 0, limit)
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

type fakeNotifier struct {
	sent []model.DisplayPayload
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, payload model.DisplayPayload) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, payload)
	return nil
}

func newTestFormatter(t interface{ Fatalf(string, ...any) }) *ResponseFormatter {
	catalog, err := LoadCommandCatalog()
	if err != nil {
		t.Fatalf("LoadCommandCatalog() error = %v", err)
	}
	return NewResponseFormatter(DefaultFormatterConfig(), catalog)
}
