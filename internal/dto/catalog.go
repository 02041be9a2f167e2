package dto

// CreateHazardRequest registers a hazard under an SMP document. The rating is
// derived server-side from the three factors.
type CreateHazardRequest struct {
	SMPDocumentID   int64   `json:"smp_document_id"  binding:"required,gt=0"`
	Category        string  `json:"category"         binding:"required,oneof=mining electricity machinery rr_siding"`
	Description     string  `json:"description"      binding:"required"`
	RiskConsequence float64 `json:"risk_consequence" binding:"required,gt=0"`
	RiskExposure    float64 `json:"risk_exposure"    binding:"required,gt=0"`
	RiskProbability float64 `json:"risk_probability" binding:"required,gt=0"`
}

// UpdateHazardRequest is the partial-update command for a hazard.
type UpdateHazardRequest struct {
	Category        *string  `json:"category" binding:"omitempty,oneof=mining electricity machinery rr_siding"`
	Description     *string  `json:"description"`
	RiskConsequence *float64 `json:"risk_consequence" binding:"omitempty,gt=0"`
	RiskExposure    *float64 `json:"risk_exposure"    binding:"omitempty,gt=0"`
	RiskProbability *float64 `json:"risk_probability" binding:"omitempty,gt=0"`
}

// HazardResponse mirrors one hazard row.
type HazardResponse struct {
	ID              int64   `json:"id"`
	SMPDocumentID   int64   `json:"smp_document_id"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	RiskConsequence float64 `json:"risk_consequence"`
	RiskExposure    float64 `json:"risk_exposure"`
	RiskProbability float64 `json:"risk_probability"`
	RiskRating      float64 `json:"risk_rating"`
}

// CreateControlPlanRequest attaches a control plan to a hazard.
type CreateControlPlanRequest struct {
	HazardID  int64  `json:"hazard_id"  binding:"required,gt=0"`
	ERCI      string `json:"erci"       binding:"required,oneof=low medium high"`
	PersonRes string `json:"person_res" binding:"required"`
}

// ControlStepItem is one step description in a batch insert.
type ControlStepItem struct {
	Description string `json:"description" binding:"required"`
}

// AddControlStepsRequest appends steps to a control plan in one transaction.
type AddControlStepsRequest struct {
	Steps []ControlStepItem `json:"steps" binding:"required,min=1,dive"`
}

// ControlStepResponse is one ordered step of a control plan.
type ControlStepResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

// ControlPlanResponse is a control plan with its steps in id order.
type ControlPlanResponse struct {
	ID        int64                 `json:"id"`
	HazardID  int64                 `json:"hazard_id"`
	ERCI      string                `json:"erci"`
	PersonRes string                `json:"person_res"`
	Steps     []ControlStepResponse `json:"steps"`
}

// SMPDocumentResponse mirrors one SMP document row.
type SMPDocumentResponse struct {
	ID             int64  `json:"id"`
	Version        int    `json:"version"`
	Title          string `json:"title"`
	ApprovalDate   string `json:"approval_date"`
	ApprovalStatus string `json:"approval_status"`
	IsActive       bool   `json:"is_active"`
}
