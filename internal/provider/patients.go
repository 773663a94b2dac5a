// Package provider exposes the provider-only patient directory.
package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/healthbridge/wellness-client/internal/api"
	"github.com/healthbridge/wellness-client/internal/dto"
)

// Directory lists a provider's assigned patients. The role check itself is
// server-side; a patient calling these endpoints gets a 403 surfaced
// verbatim.
type Directory struct {
	client *api.Client
	logger *zap.Logger
}

// NewDirectory creates the patient directory reader.
func NewDirectory(client *api.Client, logger *zap.Logger) *Directory {
	return &Directory{client: client, logger: logger}
}

// Patients fetches the provider's assigned patients with their compliance
// summaries.
func (d *Directory) Patients(ctx context.Context) ([]dto.PatientSummary, error) {
	var patients []dto.PatientSummary
	if err := d.client.Get(ctx, "/auth/provider/patients/", &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// Patient fetches one patient's profile with recent goals and reminders.
func (d *Directory) Patient(ctx context.Context, id int64) (dto.PatientDetail, error) {
	var detail dto.PatientDetail
	if err := d.client.Get(ctx, fmt.Sprintf("/auth/provider/patients/%d/", id), &detail); err != nil {
		return dto.PatientDetail{}, err
	}
	return detail, nil
}
