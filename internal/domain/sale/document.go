package sale

import (
	"fmt"
	"time"
)

const (
	// OfflineNumberPrefix marks provisional numbers printed before the
	// fiscal document exists; the sync worker replaces them on dispatch.
	OfflineNumberPrefix = "OFF-"
	// TrainingNumberPrefix marks simulated sales from cashier training.
	TrainingNumberPrefix = "TRN-"
)

// DocumentRef identifies the fiscal document of a finalized sale. Online
// sales carry the gateway-issued id and NFC-e number; offline and training
// sales carry locally synthesized placeholders.
type DocumentRef struct {
	FiscalDocID string
	Number      string
}

func NewOfflineRef(now time.Time) DocumentRef {
	return DocumentRef{
		Number: fmt.Sprintf("%s%d", OfflineNumberPrefix, now.UnixMilli()),
	}
}

func NewTrainingRef(now time.Time) DocumentRef {
	return DocumentRef{
		Number: fmt.Sprintf("%s%d", TrainingNumberPrefix, now.UnixMilli()),
	}
}

func (r DocumentRef) IsProvisional() bool {
	return r.FiscalDocID == ""
}

// PendingOperation is the durable record handed to the offline sync queue
// when the online path is unavailable. The core's contract ends at enqueue;
// retry and backoff belong to the sync worker.
type PendingOperation struct {
	Type        string
	Payload     []byte
	Priority    int
	MaxAttempts int
}
