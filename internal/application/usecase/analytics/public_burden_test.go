package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo/backend/internal/domain/entity"
)

func TestSummarizePublicBurden(t *testing.T) {
	userID := uuid.New()
	tax := entity.NewScheduledPayment(userID, uuid.New(), dec("45000"), day("2025-06-30"), "resident tax", true)
	pension := entity.NewScheduledPayment(userID, uuid.New(), dec("16980"), day("2025-05-31"), "", true)
	pension.Complete(uuid.New(), dec("17000"), time.Now())
	insurance := entity.NewScheduledPayment(userID, uuid.New(), dec("9000"), day("2025-06-10"), "", true)
	gym := entity.NewScheduledPayment(userID, uuid.New(), dec("8000"), day("2025-06-01"), "", false)

	summary := SummarizePublicBurden([]*entity.ScheduledPayment{tax, pension, insurance, gym})

	assert.True(t, summary.TotalPending.Equal(dec("54000")))
	assert.True(t, summary.TotalCompleted.Equal(dec("17000")))
	assert.True(t, summary.Total.Equal(dec("71000")))
	assert.Equal(t, 2, summary.PendingCount)
	assert.Equal(t, 1, summary.CompletedCount)

	require.Len(t, summary.Months, 2)
	assert.Equal(t, "2025-05", summary.Months[0].Month)
	assert.True(t, summary.Months[0].Completed.Equal(dec("17000")))
	assert.Equal(t, "2025-06", summary.Months[1].Month)
	assert.True(t, summary.Months[1].Pending.Equal(dec("54000")))
}

func TestSummarizePublicBurden_Empty(t *testing.T) {
	summary := SummarizePublicBurden(nil)

	assert.True(t, summary.Total.IsZero())
	assert.NotNil(t, summary.Months)
	assert.Empty(t, summary.Months)
}
