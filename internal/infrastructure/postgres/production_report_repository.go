package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

var (
	_ repository.BillOfMaterialRepository      = (*BillOfMaterialRepo)(nil)
	_ repository.ProductionReportRepository    = (*ProductionReportRepo)(nil)
	_ repository.MaterialConsumptionRepository = (*MaterialConsumptionRepo)(nil)
	_ repository.ReportAuditRepository         = (*ReportAuditRepo)(nil)
)

// BillOfMaterialRepo recetas sobre PostgreSQL.
type BillOfMaterialRepo struct {
	q Querier
}

// NewBillOfMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillOfMaterialRepository(q Querier) *BillOfMaterialRepo {
	return &BillOfMaterialRepo{q: q}
}

// Create agrega una línea; el par (terminado, materia prima) es único.
func (r *BillOfMaterialRepo) Create(ctx context.Context, l *entity.BillOfMaterial) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO bill_of_materials (id, finished_item_id, raw_item_id, quantity_required, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.FinishedItemID, l.RawItemID, l.QuantityRequired, l.CreatedAt)
	return mapError("insert bom line", err)
}

// ListByFinishedItem líneas del producto terminado ordenadas por materia prima.
func (r *BillOfMaterialRepo) ListByFinishedItem(ctx context.Context, finishedItemID string) ([]*entity.BillOfMaterial, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, finished_item_id, raw_item_id, quantity_required, created_at
		FROM bill_of_materials WHERE finished_item_id = $1
		ORDER BY raw_item_id`, finishedItemID)
	if err != nil {
		return nil, mapError("list bom lines", err)
	}
	defer rows.Close()
	var list []*entity.BillOfMaterial
	for rows.Next() {
		var l entity.BillOfMaterial
		if err := rows.Scan(&l.ID, &l.FinishedItemID, &l.RawItemID, &l.QuantityRequired, &l.CreatedAt); err != nil {
			return nil, mapError("scan bom line", err)
		}
		list = append(list, &l)
	}
	return list, mapError("list bom lines", rows.Err())
}

const reportColumns = `id, job_number, machine_id, section_id, finished_item_id,
	quantity_produced, input_raw_materials, output_products, consumables_used,
	estimated_input, estimated_output, remarks, status, is_deleted,
	created_by, approved_by, created_at, updated_at, approved_at`

// ProductionReportRepo reportes de producción sobre PostgreSQL.
type ProductionReportRepo struct {
	q Querier
}

// NewProductionReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionReportRepository(q Querier) *ProductionReportRepo {
	return &ProductionReportRepo{q: q}
}

// Create persiste un reporte nuevo.
func (r *ProductionReportRepo) Create(ctx context.Context, rep *entity.ProductionReport) error {
	query := `
		INSERT INTO production_reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		rep.ID, rep.JobNumber, rep.MachineID, rep.SectionID, rep.FinishedItemID,
		rep.QuantityProduced, rep.InputRawMaterials, rep.OutputProducts, rep.ConsumablesUsed,
		rep.EstimatedInput, rep.EstimatedOutput, rep.Remarks, rep.Status, rep.IsDeleted,
		rep.CreatedBy, rep.ApprovedBy, rep.CreatedAt, rep.UpdatedAt, rep.ApprovedAt,
	)
	return mapError("insert production report", err)
}

// GetByID obtiene un reporte (incluye borrados); (nil, nil) si no existe.
func (r *ProductionReportRepo) GetByID(ctx context.Context, id string) (*entity.ProductionReport, error) {
	return r.getOne(ctx, "get production report", `SELECT `+reportColumns+` FROM production_reports WHERE id = $1`, id)
}

// GetForUpdate obtiene el reporte y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductionReportRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionReport, error) {
	return r.getOne(ctx, "get production report for update",
		`SELECT `+reportColumns+` FROM production_reports WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductionReportRepo) getOne(ctx context.Context, op, query, id string) (*entity.ProductionReport, error) {
	rep, err := scanReport(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return rep, nil
}

// Update reescribe los campos mutables del reporte.
func (r *ProductionReportRepo) Update(ctx context.Context, rep *entity.ProductionReport) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE production_reports SET
			job_number = $2, machine_id = $3, section_id = $4,
			quantity_produced = $5, input_raw_materials = $6, output_products = $7, consumables_used = $8,
			estimated_input = $9, estimated_output = $10, remarks = $11, status = $12, is_deleted = $13,
			approved_by = $14, updated_at = $15, approved_at = $16
		WHERE id = $1`,
		rep.ID, rep.JobNumber, rep.MachineID, rep.SectionID,
		rep.QuantityProduced, rep.InputRawMaterials, rep.OutputProducts, rep.ConsumablesUsed,
		rep.EstimatedInput, rep.EstimatedOutput, rep.Remarks, rep.Status, rep.IsDeleted,
		rep.ApprovedBy, rep.UpdatedAt, rep.ApprovedAt,
	)
	if err != nil {
		return mapError("update production report", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("reporte", rep.ID)
	}
	return nil
}

// List reportes filtrados, más recientes primero.
func (r *ProductionReportRepo) List(ctx context.Context, f repository.ReportFilter) ([]*entity.ProductionReport, error) {
	query := `SELECT ` + reportColumns + ` FROM production_reports WHERE 1=1`
	args := []any{}
	pos := 1
	if !f.IncludeDeleted {
		query += " AND is_deleted = false"
	}
	for _, c := range []struct {
		column, value string
	}{
		{"status", f.Status},
		{"machine_id", f.MachineID},
		{"section_id", f.SectionID},
		{"job_number", f.JobNumber},
	} {
		if c.value == "" {
			continue
		}
		query += fmt.Sprintf(" AND %s = $%d", c.column, pos)
		args = append(args, c.value)
		pos++
	}
	query += " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list production reports", err)
	}
	defer rows.Close()
	var list []*entity.ProductionReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, mapError("scan production report", err)
		}
		list = append(list, rep)
	}
	return list, mapError("list production reports", rows.Err())
}

func scanReport(row pgx.Row) (*entity.ProductionReport, error) {
	var rep entity.ProductionReport
	err := row.Scan(
		&rep.ID, &rep.JobNumber, &rep.MachineID, &rep.SectionID, &rep.FinishedItemID,
		&rep.QuantityProduced, &rep.InputRawMaterials, &rep.OutputProducts, &rep.ConsumablesUsed,
		&rep.EstimatedInput, &rep.EstimatedOutput, &rep.Remarks, &rep.Status, &rep.IsDeleted,
		&rep.CreatedBy, &rep.ApprovedBy, &rep.CreatedAt, &rep.UpdatedAt, &rep.ApprovedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// MaterialConsumptionRepo consumos por reporte sobre PostgreSQL.
type MaterialConsumptionRepo struct {
	q Querier
}

// NewMaterialConsumptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialConsumptionRepository(q Querier) *MaterialConsumptionRepo {
	return &MaterialConsumptionRepo{q: q}
}

// Create agrega un consumo; único por (reporte, materia prima).
func (r *MaterialConsumptionRepo) Create(ctx context.Context, c *entity.MaterialConsumption) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO material_consumptions (id, report_id, raw_item_id, quantity_used, unit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.ReportID, c.RawItemID, c.QuantityUsed, c.Unit, c.CreatedAt)
	return mapError("insert material consumption", err)
}

// ListByReport consumos del reporte ordenados por materia prima.
func (r *MaterialConsumptionRepo) ListByReport(ctx context.Context, reportID string) ([]*entity.MaterialConsumption, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, report_id, raw_item_id, quantity_used, unit, created_at
		FROM material_consumptions WHERE report_id = $1
		ORDER BY raw_item_id`, reportID)
	if err != nil {
		return nil, mapError("list material consumptions", err)
	}
	defer rows.Close()
	var list []*entity.MaterialConsumption
	for rows.Next() {
		var c entity.MaterialConsumption
		if err := rows.Scan(&c.ID, &c.ReportID, &c.RawItemID, &c.QuantityUsed, &c.Unit, &c.CreatedAt); err != nil {
			return nil, mapError("scan material consumption", err)
		}
		list = append(list, &c)
	}
	return list, mapError("list material consumptions", rows.Err())
}

// ReportAuditRepo bitácora append-only sobre PostgreSQL.
type ReportAuditRepo struct {
	q Querier
}

// NewReportAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportAuditRepository(q Querier) *ReportAuditRepo {
	return &ReportAuditRepo{q: q}
}

// Create agrega una fila de bitácora.
func (r *ReportAuditRepo) Create(ctx context.Context, e *entity.ReportAuditTrail) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO report_audit_trail (id, report_id, changed_by, change_type, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.ReportID, e.ChangedBy, e.ChangeType, e.Note, e.CreatedAt)
	return mapError("insert report audit", err)
}

// ListByReport bitácora en orden cronológico.
func (r *ReportAuditRepo) ListByReport(ctx context.Context, reportID string) ([]*entity.ReportAuditTrail, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, report_id, changed_by, change_type, note, created_at
		FROM report_audit_trail WHERE report_id = $1
		ORDER BY created_at, seq`, reportID)
	if err != nil {
		return nil, mapError("list report audit", err)
	}
	defer rows.Close()
	var list []*entity.ReportAuditTrail
	for rows.Next() {
		var e entity.ReportAuditTrail
		if err := rows.Scan(&e.ID, &e.ReportID, &e.ChangedBy, &e.ChangeType, &e.Note, &e.CreatedAt); err != nil {
			return nil, mapError("scan report audit", err)
		}
		list = append(list, &e)
	}
	return list, mapError("list report audit", rows.Err())
}
