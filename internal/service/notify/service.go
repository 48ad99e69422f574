package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/mamadbah2/flockreport/internal/config"
	"github.com/mamadbah2/flockreport/internal/domain/models"
	client "github.com/mamadbah2/flockreport/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// Notifier pushes report findings to the farm operator.
type Notifier interface {
	NotifyBalanceMismatches(ctx context.Context, rows []models.ProductionRow) error
}

// WhatsAppNotifier delivers operator alerts through the WhatsApp Cloud API.
type WhatsAppNotifier struct {
	cfg    config.WhatsAppConfig
	client client.Client
	logger *zap.Logger
}

// NewWhatsAppNotifier wires a new notifier instance.
func NewWhatsAppNotifier(cfg config.WhatsAppConfig, client client.Client, logger *zap.Logger) *WhatsAppNotifier {
	svc := &WhatsAppNotifier{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// NotifyBalanceMismatches sends one alert listing every row whose bird
// balance is not zero. Nothing is sent when all rows reconcile.
func (n *WhatsAppNotifier) NotifyBalanceMismatches(ctx context.Context, rows []models.ProductionRow) error {
	mismatched := lo.Filter(rows, func(r models.ProductionRow, _ int) bool { return r.BalanceMismatch() })
	if len(mismatched) == 0 {
		n.logger.Debug("all bird balances reconcile", zap.Int("rows", len(rows)))
		return nil
	}

	for i, body := range BalanceMessages(mismatched, client.MaxTextLength) {
		if err := n.sendOutbound(ctx, body); err != nil {
			return fmt.Errorf("send balance alert part %d: %w", i+1, err)
		}
	}

	n.logger.Info("bird balance alert sent", zap.Int("insertions", len(mismatched)))
	return nil
}

func (n *WhatsAppNotifier) sendOutbound(ctx context.Context, body string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := n.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         n.cfg.OperatorID,
		Body:       body,
		PreviewURL: false,
	})
	if err != nil {
		return err
	}

	n.logger.Debug("operator message sent", zap.String("message_id", resp.MessageID()))
	return nil
}

// BalanceMessages renders the alert and splits it so no part exceeds limit bytes.
func BalanceMessages(rows []models.ProductionRow, limit int) []string {
	header := fmt.Sprintf("Bird balance check: %d insertion(s) do not reconcile", len(rows))
	lines := lo.Map(rows, func(r models.ProductionRow, _ int) string { return balanceLine(r) })

	var (
		parts   []string
		current strings.Builder
	)
	current.WriteString(header)
	for _, line := range lines {
		if current.Len()+1+len(line) > limit {
			parts = append(parts, current.String())
			current.Reset()
			current.WriteString(header + " (cont.)")
		}
		current.WriteString("\n")
		current.WriteString(line)
	}
	return append(parts, current.String())
}

func balanceLine(r models.ProductionRow) string {
	name := r.HenhouseName
	if name == "" {
		name = fmt.Sprintf("henhouse %d", r.HenhouseID)
	}
	return fmt.Sprintf("- farm %d, %s, cycle %s, placed %s: %+d birds",
		r.FarmID, name, r.Cycle, r.InsertionDate.Format("2006-01-02"), r.EndCycleBirdBalance)
}
