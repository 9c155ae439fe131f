package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"spreedly-bot/internal/domain/model"
)

func newTestHandler(t *testing.T, gw *fakeGateway, audit *fakeAudit) *CommandHandler {
	t.Helper()
	catalog, err := LoadCommandCatalog()
	if err != nil {
		t.Fatalf("LoadCommandCatalog() error = %v", err)
	}
	formatter := NewResponseFormatter(DefaultFormatterConfig(), catalog)

	var h *CommandHandler
	if audit != nil {
		h = NewCommandHandler(gw, audit, formatter, catalog, nopLogger{})
	} else {
		h = NewCommandHandler(gw, nil, formatter, catalog, nopLogger{})
	}
	h.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return h
}

func TestCommandHandler_Dispatch(t *testing.T) {
	tests := []struct {
		text     string
		wantCall string
	}{
		{text: "show gateway G1", wantCall: "ShowGateway G1"},
		{text: "show payment-method P1", wantCall: "ShowPaymentMethod P1"},
		{text: "show transaction X1", wantCall: "ShowTransaction X1"},
		{text: "retain payment-method P1", wantCall: "RetainPaymentMethod P1"},
		{text: "redact payment-method P1", wantCall: "RedactPaymentMethod P1"},
		{text: "redact gateway G1", wantCall: "RedactGateway G1"},
		{text: "tokenize test-card visa", wantCall: "TokenizeCreditCard 4111111111111111"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			gw := &fakeGateway{record: model.NewRecord().Set("token", model.Scalar("T"))}
			h := newTestHandler(t, gw, nil)

			payload := h.Handle(context.Background(), CommandRequest{Text: tt.text, Actor: "alice"})

			if len(gw.calls) != 1 || gw.calls[0] != tt.wantCall {
				t.Fatalf("calls = %v, want [%s]", gw.calls, tt.wantCall)
			}
			if payload.Accent != model.AccentGood {
				t.Errorf("accent = %q, want good", payload.Accent)
			}
			if len(payload.Groups) != 1 || len(payload.Groups[0].Fields) != 1 {
				t.Errorf("groups = %+v", payload.Groups)
			}
		})
	}
}

func TestCommandHandler_LabelsMainGroup(t *testing.T) {
	gw := &fakeGateway{record: model.NewRecord().Set("token", model.Scalar("P1"))}
	h := newTestHandler(t, gw, nil)

	payload := h.Handle(context.Background(), CommandRequest{Text: "show payment-method P1"})

	if got := payload.Groups[0].Label; got != "Spreedly response for payment-method with token P1" {
		t.Errorf("label = %q", got)
	}
}

func TestCommandHandler_TokenizeUsesTestCard(t *testing.T) {
	gw := &fakeGateway{record: model.NewRecord()}
	h := newTestHandler(t, gw, nil)

	h.Handle(context.Background(), CommandRequest{Text: "tokenize test-card amex"})

	if gw.card.Number != "378282246310005" || gw.card.VerificationValue != "1234" {
		t.Errorf("card = %+v", gw.card)
	}
	if gw.card.Year != 2028 {
		t.Errorf("card year = %d, want 2028", gw.card.Year)
	}
}

func TestCommandHandler_UnknownTestCardBrand(t *testing.T) {
	gw := &fakeGateway{record: model.NewRecord()}
	h := newTestHandler(t, gw, nil)

	payload := h.Handle(context.Background(), CommandRequest{Text: "tokenize test-card jcb"})

	if len(gw.calls) != 0 {
		t.Errorf("gateway called for unknown brand: %v", gw.calls)
	}
	if payload.Accent != model.AccentDanger {
		t.Errorf("accent = %q, want danger", payload.Accent)
	}
}

func TestCommandHandler_UnrecognizedReturnsErrorPayload(t *testing.T) {
	gw := &fakeGateway{}
	audit := &fakeAudit{}
	h := newTestHandler(t, gw, audit)

	payload := h.Handle(context.Background(), CommandRequest{Text: "frobnicate everything", Actor: "bob"})

	if !reflect.DeepEqual(payload, h.formatter.FormatError()) {
		t.Errorf("payload = %+v, want FormatError()", payload)
	}
	if len(gw.calls) != 0 {
		t.Errorf("gateway calls = %v, want none", gw.calls)
	}
	if len(audit.entries) != 1 || audit.entries[0].OK || audit.entries[0].Command != "frobnicate everything" {
		t.Errorf("audit = %+v", audit.entries)
	}
}

func TestCommandHandler_Help(t *testing.T) {
	h := newTestHandler(t, &fakeGateway{}, nil)

	payload := h.Handle(context.Background(), CommandRequest{Text: "help"})

	if !reflect.DeepEqual(payload, h.formatter.Help()) {
		t.Errorf("payload = %+v, want Help()", payload)
	}
}

func TestCommandHandler_GatewayFailure(t *testing.T) {
	gw := &fakeGateway{err: &model.GatewayError{StatusCode: 422, Messages: []string{"Gateway is already redacted."}}}
	audit := &fakeAudit{}
	h := newTestHandler(t, gw, audit)

	payload := h.Handle(context.Background(), CommandRequest{Text: "redact gateway G1", RequestID: "req-1"})

	if payload.Accent != model.AccentDanger {
		t.Errorf("accent = %q, want danger", payload.Accent)
	}
	if payload.Groups[0].Label != "Spreedly request failed for gateway with token G1" {
		t.Errorf("label = %q", payload.Groups[0].Label)
	}
	if len(audit.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(audit.entries))
	}
	entry := audit.entries[0]
	if entry.OK || entry.RequestID != "req-1" || entry.Token != "G1" || entry.Error == "" {
		t.Errorf("audit entry = %+v", entry)
	}
}

func TestCommandHandler_ListGateways(t *testing.T) {
	gw := &fakeGateway{gateways: []*model.Record{
		model.NewRecord().Set("token", model.Scalar("G1")).Set("gateway_type", model.Scalar("test")),
		model.NewRecord().Set("token", model.Scalar("G2")).Set("gateway_type", model.Scalar("stripe")),
	}}
	h := newTestHandler(t, gw, nil)

	payload := h.Handle(context.Background(), CommandRequest{Text: "list gateways"})

	if len(payload.Groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(payload.Groups))
	}
	if payload.Groups[0].Label != "Spreedly response for gateways with token all" {
		t.Errorf("main label = %q", payload.Groups[0].Label)
	}
	if payload.Groups[1].Label != "G1" || payload.Groups[2].Label != "G2" {
		t.Errorf("labels = %q, %q", payload.Groups[1].Label, payload.Groups[2].Label)
	}
}

func TestCommandHandler_History(t *testing.T) {
	audit := &fakeAudit{}
	h := newTestHandler(t, &fakeGateway{record: model.NewRecord()}, audit)

	h.Handle(context.Background(), CommandRequest{Text: "show gateway G1", Actor: "alice"})
	h.Handle(context.Background(), CommandRequest{Text: "show transaction X1", Actor: "bob"})

	payload := h.Handle(context.Background(), CommandRequest{Text: "show history"})

	if len(payload.Groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(payload.Groups))
	}
	if payload.Groups[1].Label != "#2" || payload.Groups[2].Label != "#1" {
		t.Errorf("labels = %q, %q, want newest first", payload.Groups[1].Label, payload.Groups[2].Label)
	}
	if payload.Groups[1].Fields[0].Value != "bob" {
		t.Errorf("actor = %v, want bob", payload.Groups[1].Fields[0].Value)
	}
}

func TestCommandHandler_HistoryWithoutAudit(t *testing.T) {
	h := newTestHandler(t, &fakeGateway{}, nil)

	payload := h.Handle(context.Background(), CommandRequest{Text: "show history"})

	if payload.Accent != model.AccentDanger {
		t.Errorf("accent = %q, want danger", payload.Accent)
	}
	if payload.Groups[0].Fields[0].Value != ErrAuditDisabled.Error() {
		t.Errorf("fields = %+v", payload.Groups[0].Fields)
	}
}

func TestCommandHandler_AuditFailureDoesNotBreakReply(t *testing.T) {
	gw := &fakeGateway{record: model.NewRecord().Set("token", model.Scalar("G1"))}
	audit := &fakeAudit{err: errors.New("disk full")}
	h := newTestHandler(t, gw, audit)

	payload := h.Handle(context.Background(), CommandRequest{Text: "show gateway G1"})

	if payload.Accent != model.AccentGood {
		t.Errorf("accent = %q, want good", payload.Accent)
	}
}

func TestGatewayInventory(t *testing.T) {
	inventory := GatewayInventory([]*model.Record{
		model.NewRecord().Set("token", model.Scalar("G1")),
		model.NewRecord().Set("name", model.Scalar("no token")),
		model.NewRecord().Set("token", model.Null()),
	})

	want := []string{"G1", "gateway 2", "gateway 3"}
	if got := inventory.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
}

func TestGatewayInventory_DuplicateKeys(t *testing.T) {
	inventory := GatewayInventory([]*model.Record{
		model.NewRecord().Set("token", model.Scalar("gateway 2")),
		model.NewRecord().Set("name", model.Scalar("no token")),
		model.NewRecord().Set("token", model.Scalar("G1")),
		model.NewRecord().Set("token", model.Scalar("G1")),
	})

	want := []string{"gateway 2", "gateway 2 (2)", "G1", "G1 (2)"}
	if got := inventory.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
	if inventory.Len() != 4 {
		t.Errorf("Len() = %d, want every gateway kept", inventory.Len())
	}
}
