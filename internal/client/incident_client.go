package client

import (
	"context"
	"fmt"

	"smp-portal/backend/internal/dto"
	"smp-portal/backend/internal/model"
)

// IncidentClient reads and updates incidents in the incident service.
type IncidentClient struct {
	baseClient
}

// NewIncidentClient creates an IncidentClient against the given base URL.
func NewIncidentClient(baseURL, token string) *IncidentClient {
	return &IncidentClient{baseClient: newBaseClient(baseURL, token)}
}

// incidentPage mirrors the rows of the paginated listing payload. Paging
// stops on the first short page, so the pagination block is not decoded.
type incidentPage struct {
	List []dto.IncidentResponse `json:"list"`
}

// FetchIncidentsByShift retrieves every incident of a shift, paging until the
// listing is exhausted.
func (c *IncidentClient) FetchIncidentsByShift(ctx context.Context, shiftID int64) ([]dto.IncidentResponse, error) {
	const pageSize = 100

	var all []dto.IncidentResponse
	for page := 1; ; page++ {
		var data incidentPage
		path := fmt.Sprintf("/api/v1/incidents/%d?page=%d&limit=%d", shiftID, page, pageSize)
		if err := c.getJSON(ctx, path, &data); err != nil {
			return nil, err
		}
		all = append(all, data.List...)
		if len(data.List) < pageSize {
			break
		}
	}
	return all, nil
}

// AcknowledgeIncident moves an incident to acknowledged.
func (c *IncidentClient) AcknowledgeIncident(ctx context.Context, incidentID int64) error {
	status := model.IncidentAcknowledged
	body := dto.UpdateIncidentRequest{Status: &status}
	return c.putJSON(ctx, fmt.Sprintf("/api/v1/incidents/%d", incidentID), body)
}
