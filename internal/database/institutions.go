package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// CreateInstitution registers an onboarding request. New institutions start
// unapproved in the REQUESTED phase.
func (r *Repo) CreateInstitution(ctx context.Context, inst *Institution) error {
	inst.IsApproved = false
	inst.RequestPhase = PhaseRequested
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO institutions (participant, delegetee, name, institution_type, primary_jurisdiction, selected_assets, registration_timestamp, contract_registration_timestamp, signature, is_approved, request_phase)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10, $11)
		 RETURNING created_at, updated_at`,
		inst.Participant, inst.Delegetee, inst.Name, inst.InstitutionType, inst.PrimaryJurisdiction,
		inst.SelectedAssets, inst.RegistrationTimestamp, inst.ContractRegistrationTimestamp.String(),
		inst.Signature, inst.IsApproved, inst.RequestPhase).Scan(&inst.CreatedAt, &inst.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrInstitutionExists
		}
		return err
	}
	return nil
}

func (r *Repo) ListInstitutions(ctx context.Context) ([]Institution, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT participant, delegetee, name, institution_type, primary_jurisdiction, selected_assets, registration_timestamp, contract_registration_timestamp, signature, is_approved, request_phase, created_at, updated_at FROM institutions ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []Institution{}
	for rows.Next() {
		var inst Institution
		if err := rows.StructScan(&inst); err != nil {
			r.log.Warnf("scan institution failed: %v", err)
			continue
		}
		res = append(res, inst)
	}
	return res, nil
}

func (r *Repo) GetInstitution(ctx context.Context, participant string) (*Institution, error) {
	var inst Institution
	err := r.db.GetContext(ctx, &inst,
		`SELECT participant, delegetee, name, institution_type, primary_jurisdiction, selected_assets, registration_timestamp, contract_registration_timestamp, signature, is_approved, request_phase, created_at, updated_at FROM institutions WHERE participant = $1`,
		participant)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInstitutionNotFound
		}
		return nil, err
	}
	return &inst, nil
}

// UpdateInstitution patches approval state and/or request phase.
func (r *Repo) UpdateInstitution(ctx context.Context, participant string, isApproved *bool, requestPhase *int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE institutions SET is_approved = COALESCE($2, is_approved), request_phase = COALESCE($3, request_phase), updated_at = now() WHERE participant = $1`,
		participant, isApproved, requestPhase)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrInstitutionNotFound
	}
	return nil
}
