package utility

import (
	"github.com/google/uuid"
)

// BatchID correlates every log line and diagnostics record produced while
// processing one symbol-day batch.
type BatchID = uuid.UUID

func NewBatchID() BatchID {
	return uuid.Must(uuid.NewV7())
}
