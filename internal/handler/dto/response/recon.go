package response

import (
	"gearpool/internal/usecase/commands"
	"gearpool/internal/usecase/queries"

	"github.com/google/uuid"
)

type IssueResponse struct {
	ItemID     uuid.UUID `json:"itemId"`
	ItemName   string    `json:"itemName"`
	Code       string    `json:"code"`
	Detail     string    `json:"detail"`
	Status     string    `json:"status"`
	Available  int32     `json:"available"`
	Total      int32     `json:"total"`
	Repairable bool      `json:"repairable"`
}

type ValidationReportResponse struct {
	ValidCount int             `json:"validCount"`
	Issues     []IssueResponse `json:"issues"`
}

type RepairReportResponse struct {
	FixedCount      int             `json:"fixedCount"`
	RemainingIssues []IssueResponse `json:"remainingIssues"`
}

func FromValidationReport(r *commands.ValidationReport) *ValidationReportResponse {
	return &ValidationReportResponse{
		ValidCount: r.ValidCount,
		Issues:     fromIssueViews(r.Issues),
	}
}

func FromRepairReport(r *commands.RepairReport) *RepairReportResponse {
	return &RepairReportResponse{
		FixedCount:      r.FixedCount,
		RemainingIssues: fromIssueViews(r.RemainingIssues),
	}
}

func fromIssueViews(views []queries.IssueView) []IssueResponse {
	issues := make([]IssueResponse, len(views))
	for i, v := range views {
		issues[i] = IssueResponse{
			ItemID:     v.ItemID,
			ItemName:   v.ItemName,
			Code:       v.Code,
			Detail:     v.Detail,
			Status:     v.Status,
			Available:  v.Available,
			Total:      v.Total,
			Repairable: v.Repairable,
		}
	}
	return issues
}
