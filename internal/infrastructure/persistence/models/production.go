package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printflow/backend/internal/domain/production"
	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/domain/shared/valueobject"
)

// PrintJobModel is the GORM model for the print_jobs table
type PrintJobModel struct {
	AuditedAggregateModel
	JobNumber       string                `gorm:"column:job_number;type:varchar(20);not null;uniqueIndex"`
	ProjectID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	Title           string                `gorm:"type:varchar(200);not null"`
	Description     string                `gorm:"type:text"`
	Status          string                `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Priority        string                `gorm:"type:varchar(10);not null;default:'MEDIUM'"`
	Machine         string                `gorm:"type:varchar(30);not null"`
	OperatorID      *uuid.UUID            `gorm:"column:operator_id;type:uuid;index"`
	FileIDs         shared.UUIDList       `gorm:"column:file_ids;type:jsonb;not null;default:'[]'"`
	QualityCheckIDs shared.UUIDList       `gorm:"column:quality_check_ids;type:jsonb;not null;default:'[]'"`
	Spec            *production.Spec      `gorm:"type:jsonb"`
	Quantity        production.Quantities `gorm:"type:jsonb;not null;default:'{}'"`
	MaterialsCost   decimal.Decimal       `gorm:"column:materials_cost;type:numeric(18,4);not null;default:0"`
	LaborCost       decimal.Decimal       `gorm:"column:labor_cost;type:numeric(18,4);not null;default:0"`
	OverheadCost    decimal.Decimal       `gorm:"column:overhead_cost;type:numeric(18,4);not null;default:0"`
	TotalCost       decimal.Decimal       `gorm:"column:total_cost;type:numeric(18,4);not null;default:0"`
	Currency        string                `gorm:"type:varchar(3);not null"`
	ScheduledStart  *time.Time            `gorm:"column:scheduled_start"`
	ActualStart     *time.Time            `gorm:"column:actual_start"`
	EstimatedEnd    *time.Time            `gorm:"column:estimated_end"`
	ActualEnd       *time.Time            `gorm:"column:actual_end"`
	Notes           production.Notes      `gorm:"type:jsonb;not null;default:'[]'"`
	Progress        int                   `gorm:"not null;default:0"`
}

// TableName returns the table name for PrintJobModel
func (PrintJobModel) TableName() string {
	return "print_jobs"
}

// ToDomain converts PrintJobModel to domain PrintJob
func (m *PrintJobModel) ToDomain() *production.PrintJob {
	currency := valueobject.Currency(m.Currency)
	j := &production.PrintJob{
		JobNumber:       m.JobNumber,
		ProjectID:       m.ProjectID,
		Title:           m.Title,
		Description:     m.Description,
		Status:          production.JobStatus(m.Status),
		Priority:        production.Priority(m.Priority),
		Machine:         production.MachineType(m.Machine),
		OperatorID:      m.OperatorID,
		FileIDs:         m.FileIDs,
		QualityCheckIDs: m.QualityCheckIDs,
		Spec:            m.Spec,
		Quantity:        m.Quantity,
		Cost: production.Cost{
			Materials: moneyFrom(m.MaterialsCost, currency),
			Labor:     moneyFrom(m.LaborCost, currency),
			Overhead:  moneyFrom(m.OverheadCost, currency),
			Total:     moneyFrom(m.TotalCost, currency),
		},
		Timeline: production.Timeline{
			ScheduledStart:      m.ScheduledStart,
			ActualStart:         m.ActualStart,
			EstimatedCompletion: m.EstimatedEnd,
			ActualCompletion:    m.ActualEnd,
		},
		Notes:    m.Notes,
		Progress: m.Progress,
	}
	m.PopulateAuditedAggregateRoot(&j.AuditedAggregateRoot)
	return j
}

// PrintJobModelFromDomain creates a PrintJobModel from domain PrintJob
func PrintJobModelFromDomain(j *production.PrintJob) *PrintJobModel {
	return &PrintJobModel{
		AuditedAggregateModel: auditedFromDomain(j.AuditedAggregateRoot),
		JobNumber:             j.JobNumber,
		ProjectID:             j.ProjectID,
		Title:                 j.Title,
		Description:           j.Description,
		Status:                j.Status.String(),
		Priority:              string(j.Priority),
		Machine:               string(j.Machine),
		OperatorID:            j.OperatorID,
		FileIDs:               j.FileIDs,
		QualityCheckIDs:       j.QualityCheckIDs,
		Spec:                  j.Spec,
		Quantity:              j.Quantity,
		MaterialsCost:         j.Cost.Materials.Amount(),
		LaborCost:             j.Cost.Labor.Amount(),
		OverheadCost:          j.Cost.Overhead.Amount(),
		TotalCost:             j.Cost.Total.Amount(),
		Currency:              j.Cost.Total.Currency().String(),
		ScheduledStart:        j.Timeline.ScheduledStart,
		ActualStart:           j.Timeline.ActualStart,
		EstimatedEnd:          j.Timeline.EstimatedCompletion,
		ActualEnd:             j.Timeline.ActualCompletion,
		Notes:                 j.Notes,
		Progress:              j.Progress,
	}
}

// QualityCheckModel is the GORM model for the quality_checks table
type QualityCheckModel struct {
	AuditedAggregateModel
	PrintJobID       uuid.UUID           `gorm:"column:print_job_id;type:uuid;not null;index"`
	InspectorID      uuid.UUID           `gorm:"column:inspector_id;type:uuid;not null;index"`
	CheckType        string              `gorm:"column:check_type;type:varchar(20);not null"`
	SampleSize       int                 `gorm:"column:sample_size;not null"`
	Criteria         production.Criteria `gorm:"type:jsonb;not null;default:'[]'"`
	OverallStatus    string              `gorm:"column:overall_status;type:varchar(20);not null"`
	DefectCount      int                 `gorm:"column:defect_count;not null;default:0"`
	PassRate         int                 `gorm:"column:pass_rate;not null;default:0"`
	Notes            string              `gorm:"type:text"`
	Recommendations  string              `gorm:"type:text"`
	FollowUpRequired bool                `gorm:"column:follow_up_required;not null;default:false"`
	FollowUpDate     *time.Time          `gorm:"column:follow_up_date"`
}

// TableName returns the table name for QualityCheckModel
func (QualityCheckModel) TableName() string {
	return "quality_checks"
}

// ToDomain converts QualityCheckModel to domain QualityCheck
func (m *QualityCheckModel) ToDomain() *production.QualityCheck {
	c := &production.QualityCheck{
		PrintJobID:       m.PrintJobID,
		InspectorID:      m.InspectorID,
		CheckType:        production.CheckType(m.CheckType),
		SampleSize:       m.SampleSize,
		Criteria:         m.Criteria,
		OverallStatus:    production.Verdict(m.OverallStatus),
		DefectCount:      m.DefectCount,
		PassRate:         m.PassRate,
		Notes:            m.Notes,
		Recommendations:  m.Recommendations,
		FollowUpRequired: m.FollowUpRequired,
		FollowUpDate:     m.FollowUpDate,
	}
	m.PopulateAuditedAggregateRoot(&c.AuditedAggregateRoot)
	return c
}

// QualityCheckModelFromDomain creates a QualityCheckModel from domain QualityCheck
func QualityCheckModelFromDomain(c *production.QualityCheck) *QualityCheckModel {
	return &QualityCheckModel{
		AuditedAggregateModel: auditedFromDomain(c.AuditedAggregateRoot),
		PrintJobID:            c.PrintJobID,
		InspectorID:           c.InspectorID,
		CheckType:             string(c.CheckType),
		SampleSize:            c.SampleSize,
		Criteria:              c.Criteria,
		OverallStatus:         string(c.OverallStatus),
		DefectCount:           c.DefectCount,
		PassRate:              c.PassRate,
		Notes:                 c.Notes,
		Recommendations:       c.Recommendations,
		FollowUpRequired:      c.FollowUpRequired,
		FollowUpDate:          c.FollowUpDate,
	}
}
