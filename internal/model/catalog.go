package model

import "time"

// Hazard categories.
const (
	CategoryMining      = "mining"
	CategoryElectricity = "electricity"
	CategoryMachinery   = "machinery"
	CategoryRRSiding    = "rr_siding"
)

// HazardCategoryValid reports whether c is a known hazard category.
func HazardCategoryValid(c string) bool {
	switch c {
	case CategoryMining, CategoryElectricity, CategoryMachinery, CategoryRRSiding:
		return true
	}
	return false
}

// Risk-control index values.
const (
	ERCILow    = "low"
	ERCIMedium = "medium"
	ERCIHigh   = "high"
)

// SMPDocument is a versioned safety-management-plan document (table
// smp_documents).
type SMPDocument struct {
	ID             int64     `gorm:"primaryKey"                   json:"id"`
	Version        int       `gorm:"not null"                     json:"version"`
	Title          string    `gorm:"not null"                     json:"title"`
	ApprovalDate   time.Time `gorm:"not null"                     json:"approval_date"`
	ApprovalStatus string    `gorm:"type:approval_status;not null" json:"approval_status"`
	IsActive       bool      `gorm:"not null;default:true"        json:"is_active"`
	DocumentS3Key  string    `gorm:"column:document_s3_key;not null" json:"document_s3_key"`
	AuditModel
}

// TableName sets the table name.
func (SMPDocument) TableName() string { return "smp_documents" }

// Hazard is a cataloged risk entry (table hazards). risk_rating is derived
// from the three factors, never written directly by callers.
type Hazard struct {
	ID              int64   `gorm:"primaryKey"                    json:"id"`
	SMPDocumentID   int64   `gorm:"column:smp_document_id;not null" json:"smp_document_id"`
	Category        string  `gorm:"type:hazard_category;not null" json:"category"`
	Description     string  `gorm:"not null"                      json:"description"`
	RiskConsequence float64 `gorm:"not null"                      json:"risk_consequence"`
	RiskExposure    float64 `gorm:"not null"                      json:"risk_exposure"`
	RiskProbability float64 `gorm:"not null"                      json:"risk_probability"`
	RiskRating      float64 `gorm:"not null"                      json:"risk_rating"`
	AuditModel
}

// TableName sets the table name.
func (Hazard) TableName() string { return "hazards" }

// ComputeRiskRating derives the stored rating from the three factors.
func ComputeRiskRating(consequence, exposure, probability float64) float64 {
	return consequence * exposure * probability
}

// ControlPlan is the mitigation plan for a hazard (table control_plans).
type ControlPlan struct {
	ID        int64  `gorm:"primaryKey"         json:"id"`
	HazardID  int64  `gorm:"not null"           json:"hazard_id"`
	ERCI      string `gorm:"type:erci;not null" json:"erci"`
	PersonRes string `gorm:"not null"           json:"person_res"`
	AuditModel
}

// TableName sets the table name.
func (ControlPlan) TableName() string { return "control_plans" }

// ControlStep is one ordered action of a control plan (table control_steps).
// Ordering is by id.
type ControlStep struct {
	ID            int64  `gorm:"primaryKey" json:"id"`
	ControlPlanID int64  `gorm:"not null"   json:"control_plan_id"`
	Description   string `gorm:"not null"   json:"description"`
	AuditModel
}

// TableName sets the table name.
func (ControlStep) TableName() string { return "control_steps" }
