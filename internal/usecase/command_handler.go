package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"spreedly-bot/internal/domain/model"
	"spreedly-bot/internal/domain/ports"
)

const (
	defaultHistoryLimit = 10
	inventoryToken      = "all"
)

// ErrAuditDisabled is reported when history is requested without an audit store.
var ErrAuditDisabled = errors.New("audit log is not configured")

// CommandRequest is one inbound chat command.
type CommandRequest struct {
	Text      string
	Actor     string
	RequestID string
}

// CommandHandler executes chat commands against the payment gateway and
// turns the results into display payloads.
type CommandHandler struct {
	gateway   ports.PaymentGateway
	audit     ports.AuditStore
	formatter *ResponseFormatter
	catalog   *CommandCatalog
	logger    ports.Logger
	now       func() time.Time
}

// NewCommandHandler constructs a CommandHandler. audit may be nil.
func NewCommandHandler(
	gateway ports.PaymentGateway,
	audit ports.AuditStore,
	formatter *ResponseFormatter,
	catalog *CommandCatalog,
	logger ports.Logger,
) *CommandHandler {
	return &CommandHandler{
		gateway:   gateway,
		audit:     audit,
		formatter: formatter,
		catalog:   catalog,
		logger:    logger,
		now:       time.Now,
	}
}

// Handle runs a command and always returns something to show the user.
func (h *CommandHandler) Handle(ctx context.Context, req CommandRequest) model.DisplayPayload {
	start := h.now()

	cmd, err := h.catalog.Parse(req.Text)
	if err != nil {
		h.logger.Warn(ctx, "command not recognized", "request_id", req.RequestID, "actor", req.Actor, "error", err)
		h.record(ctx, req, cmd, err)
		return h.formatter.FormatError()
	}

	if cmd.Name == "help" {
		h.record(ctx, req, cmd, nil)
		return h.formatter.Help()
	}

	if cmd.Name == "show" && cmd.Type == "history" {
		record, err := h.history(ctx)
		if err != nil {
			h.logger.Error(ctx, "failed to load history", "request_id", req.RequestID, "error", err)
			return h.formatter.FormatFailure(cmd.Type, "recent", err)
		}
		return h.formatter.Format(record, cmd.Type, "recent")
	}

	token := cmd.Token
	if token == "" {
		token = inventoryToken
	}

	record, err := h.execute(ctx, cmd)
	h.record(ctx, req, cmd, err)
	if err != nil {
		h.logger.Error(ctx, "command failed",
			"request_id", req.RequestID,
			"command", cmd.Name,
			"type", cmd.Type,
			"error", err)
		return h.formatter.FormatFailure(cmd.Type, token, err)
	}

	h.logger.Info(ctx, "command completed",
		"request_id", req.RequestID,
		"command", cmd.Name,
		"type", cmd.Type,
		"fields", record.Len(),
		"duration", time.Since(start))

	return h.formatter.Format(record, cmd.Type, token)
}

func (h *CommandHandler) execute(ctx context.Context, cmd model.Command) (*model.Record, error) {
	switch cmd.Name + " " + cmd.Type {
	case "show gateway":
		return h.gateway.ShowGateway(ctx, cmd.Token)
	case "show payment-method":
		return h.gateway.ShowPaymentMethod(ctx, cmd.Token)
	case "show transaction":
		return h.gateway.ShowTransaction(ctx, cmd.Token)
	case "list gateways":
		gateways, err := h.gateway.ListGateways(ctx)
		if err != nil {
			return nil, err
		}
		return GatewayInventory(gateways), nil
	case "retain payment-method":
		return h.gateway.RetainPaymentMethod(ctx, cmd.Token)
	case "redact payment-method":
		return h.gateway.RedactPaymentMethod(ctx, cmd.Token)
	case "redact gateway":
		return h.gateway.RedactGateway(ctx, cmd.Token)
	case "tokenize test-card":
		card, err := TestCard(cmd.Token, h.now())
		if err != nil {
			return nil, err
		}
		return h.gateway.TokenizeCreditCard(ctx, card)
	default:
		return nil, fmt.Errorf("%w: %s %s has no handler", ErrUnknownCommand, cmd.Name, cmd.Type)
	}
}

func (h *CommandHandler) history(ctx context.Context) (*model.Record, error) {
	if h.audit == nil {
		return nil, ErrAuditDisabled
	}

	entries, err := h.audit.Recent(ctx, defaultHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load audit entries: %w", err)
	}

	record := model.NewRecord()
	for _, entry := range entries {
		row := model.NewRecord().
			Set("actor", model.Scalar(entry.Actor)).
			Set("command", model.Scalar(entry.Command)).
			Set("type", model.Scalar(entry.Type)).
			Set("token", model.Scalar(entry.Token)).
			Set("ok", model.Scalar(entry.OK)).
			Set("at", model.Scalar(entry.CreatedAt.UTC().Format(time.RFC3339)))
		if entry.Error != "" {
			row.Set("error", model.Scalar(entry.Error))
		}
		record.Set("#"+strconv.FormatInt(entry.ID, 10), model.Nested(row))
	}
	return record, nil
}

func (h *CommandHandler) record(ctx context.Context, req CommandRequest, cmd model.Command, cmdErr error) {
	if h.audit == nil {
		return
	}

	entry := model.AuditEntry{
		RequestID: req.RequestID,
		Actor:     req.Actor,
		Command:   cmd.Name,
		Type:      cmd.Type,
		Token:     cmd.Token,
		OK:        cmdErr == nil,
		CreatedAt: h.now().UTC(),
	}
	if cmdErr != nil {
		entry.Error = cmdErr.Error()
		if entry.Command == "" {
			entry.Command = req.Text
		}
	}

	if err := h.audit.Append(ctx, entry); err != nil {
		h.logger.Error(ctx, "failed to write audit entry", "request_id", req.RequestID, "error", err)
	}
}

// GatewayInventory keys each gateway record by its token so every gateway
// renders as its own group.
func GatewayInventory(gateways []*model.Record) *model.Record {
	inventory := model.NewRecord()
	for i, gw := range gateways {
		key := fmt.Sprintf("gateway %d", i+1)
		if v, ok := gw.Get("token"); ok && v.Kind() == model.KindScalar {
			if token := fmt.Sprint(v.Scalar()); token != "" {
				key = token
			}
		}
		inventory.Set(uniqueKey(inventory, key), model.Nested(gw))
	}
	return inventory
}

// uniqueKey suffixes key with " (2)", " (3)", ... until it is unused in r.
func uniqueKey(r *model.Record, key string) string {
	if _, taken := r.Get(key); !taken {
		return key
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", key, n)
		if _, taken := r.Get(candidate); !taken {
			return candidate
		}
	}
}
