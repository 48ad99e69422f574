package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/flockreport/internal/config"
	"github.com/mamadbah2/flockreport/internal/domain/models"
	client "github.com/mamadbah2/flockreport/pkg/clients/whatsapp"
)

type stubClient struct {
	sent []client.SendTextMessageRequest
	err  error
}

func (s *stubClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, req)
	return &client.SendTextMessageResponse{}, nil
}

func row(id int64, balance int64) models.ProductionRow {
	return models.ProductionRow{
		InsertionInfo: models.InsertionInfo{
			InsertionID:   id,
			FarmID:        1,
			HenhouseID:    10,
			HenhouseName:  "H1",
			Cycle:         models.Cycle{Identifier: 2, Year: 2024},
			InsertionDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		},
		EndCycleBirdBalance: balance,
	}
}

func TestNotifyBalanceMismatches(t *testing.T) {
	stub := &stubClient{}
	notifier := NewWhatsAppNotifier(config.WhatsAppConfig{OperatorID: "224600"}, stub, nil)

	err := notifier.NotifyBalanceMismatches(context.Background(), []models.ProductionRow{row(1, 0), row(2, -10), row(3, 4)})
	require.NoError(t, err)

	require.Len(t, stub.sent, 1)
	assert.Equal(t, "224600", stub.sent[0].To)
	body := stub.sent[0].Body
	assert.Contains(t, body, "2 insertion(s)")
	assert.Contains(t, body, "- farm 1, H1, cycle 2/2024, placed 2024-03-04: -10 birds")
	assert.Contains(t, body, "+4 birds")
}

func TestNotifySkipsWhenBalanced(t *testing.T) {
	stub := &stubClient{}
	notifier := NewWhatsAppNotifier(config.WhatsAppConfig{OperatorID: "224600"}, stub, nil)

	require.NoError(t, notifier.NotifyBalanceMismatches(context.Background(), []models.ProductionRow{row(1, 0)}))
	assert.Empty(t, stub.sent)
}

func TestNotifyPropagatesSendFailure(t *testing.T) {
	boom := errors.New("timeout")
	notifier := NewWhatsAppNotifier(config.WhatsAppConfig{OperatorID: "224600"}, &stubClient{err: boom}, nil)

	err := notifier.NotifyBalanceMismatches(context.Background(), []models.ProductionRow{row(1, 3)})
	assert.ErrorIs(t, err, boom)
}

func TestBalanceMessagesSplitsLongAlerts(t *testing.T) {
	rows := make([]models.ProductionRow, 0, 40)
	for i := int64(1); i <= 40; i++ {
		rows = append(rows, row(i, -1))
	}

	parts := BalanceMessages(rows, 500)
	require.Greater(t, len(parts), 1)

	total := 0
	for _, part := range parts {
		assert.LessOrEqual(t, len(part), 500)
		total += strings.Count(part, "\n- farm")
	}
	assert.Equal(t, 40, total)
}
