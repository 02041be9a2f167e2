package client

import (
	"context"
	"fmt"

	"smp-portal/backend/internal/dto"
)

// ShiftClient reads shifts from the shift service.
type ShiftClient struct {
	baseClient
}

// NewShiftClient creates a ShiftClient against the given base URL.
func NewShiftClient(baseURL, token string) *ShiftClient {
	return &ShiftClient{baseClient: newBaseClient(baseURL, token)}
}

// FetchShift retrieves one shift with its assembled supervisor and roster.
func (c *ShiftClient) FetchShift(ctx context.Context, shiftID int64) (*dto.ShiftResponse, error) {
	var shift dto.ShiftResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/shifts/%d", shiftID), &shift); err != nil {
		return nil, err
	}
	return &shift, nil
}
