package response

import (
	"time"

	"gearpool/internal/usecase/commands"
	"gearpool/internal/usecase/queries"

	"github.com/google/uuid"
)

type CheckoutLineResponse struct {
	ItemID   uuid.UUID `json:"itemId"`
	ItemName string    `json:"itemName"`
	Quantity int32     `json:"quantity"`
}

type CheckoutRequestResponse struct {
	ID             uuid.UUID              `json:"id"`
	RequesterID    uuid.UUID              `json:"requesterId"`
	Status         string                 `json:"status"`
	PendingCheckIn bool                   `json:"pendingCheckIn"`
	Lines          []CheckoutLineResponse `json:"lines"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

func FromCheckoutRequestView(rm *queries.CheckoutRequestView) *CheckoutRequestResponse {
	lines := make([]CheckoutLineResponse, len(rm.Lines))
	for i, l := range rm.Lines {
		lines[i] = CheckoutLineResponse{
			ItemID:   l.ItemID,
			ItemName: l.ItemName,
			Quantity: l.Quantity,
		}
	}
	return &CheckoutRequestResponse{
		ID:             rm.ID,
		RequesterID:    rm.RequesterID,
		Status:         rm.Status,
		PendingCheckIn: rm.PendingCheckIn,
		Lines:          lines,
		CreatedAt:      rm.CreatedAt,
		UpdatedAt:      rm.UpdatedAt,
	}
}

type ReturnReportResponse struct {
	RequestID    uuid.UUID              `json:"requestId"`
	HasAnomalies bool                   `json:"hasAnomalies"`
	Lines        []ReturnResultResponse `json:"lines"`
}

func FromReturnReport(r *commands.ReturnReport) *ReturnReportResponse {
	lines := make([]ReturnResultResponse, len(r.Lines))
	for i := range r.Lines {
		lines[i] = *FromReturnResult(&r.Lines[i])
	}
	return &ReturnReportResponse{
		RequestID:    r.RequestID,
		HasAnomalies: r.HasAnomalies(),
		Lines:        lines,
	}
}
