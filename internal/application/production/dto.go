package production

import (
	"time"

	"github.com/printflow/backend/internal/domain/production"
)

// =============================================================================
// Print job DTOs
// =============================================================================

// CreatePrintJobRequest represents a request to queue a new production run
type CreatePrintJobRequest struct {
	ProjectID       string       `json:"project_id" binding:"required,uuid"`
	Title           string       `json:"title" binding:"required,min=1,max=200"`
	Description     string       `json:"description" binding:"max=2000"`
	Machine         string       `json:"machine" binding:"required"`
	OrderedQuantity int          `json:"ordered_quantity" binding:"required,min=1"`
	Currency        string       `json:"currency" binding:"required,currency"`
	Priority        string       `json:"priority"`
	Spec            *SpecRequest `json:"spec"`
}

// SpecRequest represents the print specification of a job. Unit, color mode,
// sides, bleed and resolution fall back to shop defaults when omitted.
type SpecRequest struct {
	Width         float64  `json:"width" binding:"required,gt=0"`
	Height        float64  `json:"height" binding:"required,gt=0"`
	Unit          string   `json:"unit"`
	PaperType     string   `json:"paper_type" binding:"required"`
	PaperWeight   int      `json:"paper_weight" binding:"min=0"`
	ColorMode     string   `json:"color_mode"`
	Sides         string   `json:"sides"`
	Finishing     []string `json:"finishing" binding:"max=10"`
	BleedMM       float64  `json:"bleed_mm" binding:"min=0"`
	ResolutionDPI int      `json:"resolution_dpi" binding:"min=0"`
}

// toDomain maps the request to a domain specification
func (r SpecRequest) toDomain() production.Spec {
	finishing := make([]production.Finishing, 0, len(r.Finishing))
	for _, f := range r.Finishing {
		finishing = append(finishing, production.Finishing(f))
	}
	return production.Spec{
		Size: production.Dimensions{
			Width:  r.Width,
			Height: r.Height,
			Unit:   production.SizeUnit(r.Unit),
		},
		PaperType:     production.PaperType(r.PaperType),
		PaperWeight:   r.PaperWeight,
		ColorMode:     production.ColorMode(r.ColorMode),
		Sides:         production.PrintSides(r.Sides),
		Finishing:     finishing,
		BleedMM:       r.BleedMM,
		ResolutionDPI: r.ResolutionDPI,
	}
}

// TransitionPrintJobRequest represents a production state transition.
// Override only matters for the completion transition, where it lets a
// CONDITIONAL quality verdict pass the gate.
type TransitionPrintJobRequest struct {
	Status   string `json:"status" binding:"required"`
	Override bool   `json:"override"`
}

// SetJobCostsRequest represents updating a job's cost breakdown. Amounts are
// in the job's currency; the total is derived, never accepted.
type SetJobCostsRequest struct {
	Materials float64 `json:"materials" binding:"min=0"`
	Labor     float64 `json:"labor" binding:"min=0"`
	Overhead  float64 `json:"overhead" binding:"min=0"`
}

// RecordQuantitiesRequest represents recording production counts
type RecordQuantitiesRequest struct {
	Printed  int `json:"printed" binding:"min=0"`
	Approved int `json:"approved" binding:"min=0"`
	Rejected int `json:"rejected" binding:"min=0"`
}

// ScheduleJobRequest represents scheduling a job on a machine
type ScheduleJobRequest struct {
	ScheduledStart      time.Time `json:"scheduled_start" binding:"required"`
	EstimatedCompletion time.Time `json:"estimated_completion" binding:"required"`
}

// AssignOperatorRequest represents assigning a machine operator
type AssignOperatorRequest struct {
	OperatorID string `json:"operator_id" binding:"required,uuid"`
}

// AddJobNoteRequest represents attaching a note to a job
type AddJobNoteRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
	Type    string `json:"type" binding:"required"`
}

// ListPrintJobsRequest represents a request to list print jobs
type ListPrintJobsRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

// SpecResponse represents a job's print specification in API responses
type SpecResponse struct {
	Width         float64  `json:"width"`
	Height        float64  `json:"height"`
	Unit          string   `json:"unit"`
	PaperType     string   `json:"paper_type"`
	PaperWeight   int      `json:"paper_weight,omitempty"`
	ColorMode     string   `json:"color_mode"`
	Sides         string   `json:"sides"`
	Finishing     []string `json:"finishing,omitempty"`
	BleedMM       float64  `json:"bleed_mm"`
	ResolutionDPI int      `json:"resolution_dpi"`
}

// CostResponse represents a job's cost breakdown in API responses
type CostResponse struct {
	Materials string `json:"materials"`
	Labor     string `json:"labor"`
	Overhead  string `json:"overhead"`
	Total     string `json:"total"`
	Currency  string `json:"currency"`
}

// QuantitiesResponse represents a job's production counts in API responses
type QuantitiesResponse struct {
	Ordered  int `json:"ordered"`
	Printed  int `json:"printed"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// TimelineResponse represents a job's scheduled and actual run times
type TimelineResponse struct {
	ScheduledStart      *time.Time `json:"scheduled_start,omitempty"`
	ActualStart         *time.Time `json:"actual_start,omitempty"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
	ActualCompletion    *time.Time `json:"actual_completion,omitempty"`
}

// PrintJobResponse represents a print job in API responses
type PrintJobResponse struct {
	ID              string             `json:"id"`
	JobNumber       string             `json:"job_number"`
	ProjectID       string             `json:"project_id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Status          string             `json:"status"`
	Priority        string             `json:"priority"`
	Machine         string             `json:"machine"`
	OperatorID      *string            `json:"operator_id,omitempty"`
	Spec            *SpecResponse      `json:"spec,omitempty"`
	Progress        int                `json:"progress"`
	YieldRate       int                `json:"yield_rate"`
	Quantities      QuantitiesResponse `json:"quantities"`
	Cost            CostResponse       `json:"cost"`
	Timeline        TimelineResponse   `json:"timeline"`
	FileIDs         []string           `json:"file_ids"`
	QualityCheckIDs []string           `json:"quality_check_ids"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ToPrintJobResponse maps a print job aggregate to its response DTO
func ToPrintJobResponse(j *production.PrintJob) *PrintJobResponse {
	fileIDs := make([]string, 0, len(j.FileIDs))
	for _, id := range j.FileIDs {
		fileIDs = append(fileIDs, id.String())
	}
	checkIDs := make([]string, 0, len(j.QualityCheckIDs))
	for _, id := range j.QualityCheckIDs {
		checkIDs = append(checkIDs, id.String())
	}

	resp := &PrintJobResponse{
		ID:          j.ID.String(),
		JobNumber:   j.JobNumber,
		ProjectID:   j.ProjectID.String(),
		Title:       j.Title,
		Description: j.Description,
		Status:      j.Status.String(),
		Priority:    j.Priority.String(),
		Machine:     j.Machine.String(),
		Progress:    j.Progress,
		YieldRate:   j.YieldRate(),
		Quantities: QuantitiesResponse{
			Ordered:  j.Quantity.Ordered,
			Printed:  j.Quantity.Printed,
			Approved: j.Quantity.Approved,
			Rejected: j.Quantity.Rejected,
		},
		Cost: CostResponse{
			Materials: j.Cost.Materials.StringFixed(2),
			Labor:     j.Cost.Labor.StringFixed(2),
			Overhead:  j.Cost.Overhead.StringFixed(2),
			Total:     j.Cost.Total.StringFixed(2),
			Currency:  j.Cost.Total.Currency().String(),
		},
		Timeline: TimelineResponse{
			ScheduledStart:      j.Timeline.ScheduledStart,
			ActualStart:         j.Timeline.ActualStart,
			EstimatedCompletion: j.Timeline.EstimatedCompletion,
			ActualCompletion:    j.Timeline.ActualCompletion,
		},
		FileIDs:         fileIDs,
		QualityCheckIDs: checkIDs,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
	if j.OperatorID != nil {
		s := j.OperatorID.String()
		resp.OperatorID = &s
	}
	if j.Spec != nil {
		resp.Spec = toSpecResponse(*j.Spec)
	}
	return resp
}

func toSpecResponse(s production.Spec) *SpecResponse {
	finishing := make([]string, 0, len(s.Finishing))
	for _, f := range s.Finishing {
		finishing = append(finishing, string(f))
	}
	return &SpecResponse{
		Width:         s.Size.Width,
		Height:        s.Size.Height,
		Unit:          string(s.Size.Unit),
		PaperType:     string(s.PaperType),
		PaperWeight:   s.PaperWeight,
		ColorMode:     string(s.ColorMode),
		Sides:         string(s.Sides),
		Finishing:     finishing,
		BleedMM:       s.BleedMM,
		ResolutionDPI: s.ResolutionDPI,
	}
}

// =============================================================================
// Quality check DTOs
// =============================================================================

// CriterionRequest represents one inspected parameter in a quality check
type CriterionRequest struct {
	Parameter string   `json:"parameter" binding:"required"`
	Status    string   `json:"status" binding:"required"`
	Notes     string   `json:"notes" binding:"max=500"`
	Evidence  []string `json:"evidence" binding:"max=10"`
}

// RecordQualityCheckRequest represents recording an inspection of a job
type RecordQualityCheckRequest struct {
	CheckType       string             `json:"check_type" binding:"required"`
	SampleSize      int                `json:"sample_size" binding:"required,min=1"`
	Criteria        []CriterionRequest `json:"criteria" binding:"max=50,dive"`
	OverallStatus   string             `json:"overall_status" binding:"required"`
	DefectCount     int                `json:"defect_count" binding:"min=0"`
	PassRate        int                `json:"pass_rate" binding:"min=0,max=100"`
	Notes           string             `json:"notes" binding:"max=2000"`
	Recommendations string             `json:"recommendations" binding:"max=2000"`
	FollowUpDate    *time.Time         `json:"follow_up_date"`
}

// CriterionResponse represents one inspected parameter in API responses
type CriterionResponse struct {
	Parameter string   `json:"parameter"`
	Status    string   `json:"status"`
	Notes     string   `json:"notes,omitempty"`
	Evidence  []string `json:"evidence,omitempty"`
}

// QualityCheckResponse represents a quality check in API responses
type QualityCheckResponse struct {
	ID               string              `json:"id"`
	PrintJobID       string              `json:"print_job_id"`
	InspectorID      string              `json:"inspector_id"`
	CheckType        string              `json:"check_type"`
	SampleSize       int                 `json:"sample_size"`
	Criteria         []CriterionResponse `json:"criteria"`
	OverallStatus    string              `json:"overall_status"`
	DefectCount      int                 `json:"defect_count"`
	PassRate         int                 `json:"pass_rate"`
	Notes            string              `json:"notes,omitempty"`
	Recommendations  string              `json:"recommendations,omitempty"`
	FollowUpRequired bool                `json:"follow_up_required"`
	FollowUpDate     *time.Time          `json:"follow_up_date,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// ToQualityCheckResponse maps a quality check aggregate to its response DTO
func ToQualityCheckResponse(qc *production.QualityCheck) *QualityCheckResponse {
	criteria := make([]CriterionResponse, 0, len(qc.Criteria))
	for _, cr := range qc.Criteria {
		criteria = append(criteria, CriterionResponse{
			Parameter: cr.Parameter.String(),
			Status:    cr.Status.String(),
			Notes:     cr.Notes,
			Evidence:  cr.Evidence,
		})
	}

	return &QualityCheckResponse{
		ID:               qc.ID.String(),
		PrintJobID:       qc.PrintJobID.String(),
		InspectorID:      qc.InspectorID.String(),
		CheckType:        qc.CheckType.String(),
		SampleSize:       qc.SampleSize,
		Criteria:         criteria,
		OverallStatus:    qc.OverallStatus.String(),
		DefectCount:      qc.DefectCount,
		PassRate:         qc.PassRate,
		Notes:            qc.Notes,
		Recommendations:  qc.Recommendations,
		FollowUpRequired: qc.FollowUpRequired,
		FollowUpDate:     qc.FollowUpDate,
		CreatedAt:        qc.CreatedAt,
	}
}
