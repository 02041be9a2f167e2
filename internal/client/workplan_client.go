package client

import (
	"context"
	"fmt"

	"smp-portal/backend/internal/dto"
)

// WorkplanClient reads workplans from the workplan service.
type WorkplanClient struct {
	baseClient
}

// NewWorkplanClient creates a WorkplanClient against the given base URL.
func NewWorkplanClient(baseURL, token string) *WorkplanClient {
	return &WorkplanClient{baseClient: newBaseClient(baseURL, token)}
}

// FetchWorkplanByIncident retrieves the workplan assembled for an incident,
// with its tasks and their workers.
func (c *WorkplanClient) FetchWorkplanByIncident(ctx context.Context, incidentID int64) (*dto.WorkplanResponse, error) {
	var workplan dto.WorkplanResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/workplans/%d", incidentID), &workplan); err != nil {
		return nil, err
	}
	return &workplan, nil
}
