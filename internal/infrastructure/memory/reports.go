package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

type bomRepo struct{ a access }

func (r bomRepo) Create(ctx context.Context, line *entity.BillOfMaterial) error {
	return r.a.write(ctx, func(st *state) error {
		for _, id := range []string{line.FinishedItemID, line.RawItemID} {
			if _, ok := st.items[id]; !ok {
				return domain.NotFound("ítem", id)
			}
		}
		for _, l := range st.bom {
			if l.FinishedItemID == line.FinishedItemID && l.RawItemID == line.RawItemID {
				return domain.ErrDuplicate
			}
		}
		st.bom[line.ID] = *line
		return nil
	})
}

func (r bomRepo) ListByFinishedItem(_ context.Context, finishedItemID string) ([]*entity.BillOfMaterial, error) {
	var rows []*entity.BillOfMaterial
	err := r.a.read(func(st *state) error {
		for _, l := range st.bom {
			if l.FinishedItemID == finishedItemID {
				l := l
				rows = append(rows, &l)
			}
		}
		return nil
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].RawItemID < rows[j].RawItemID })
	return rows, err
}

type reportRepo struct{ a access }

func (r reportRepo) Create(ctx context.Context, rep *entity.ProductionReport) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.reports[rep.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.items[rep.FinishedItemID]; !ok {
			return domain.NotFound("ítem", rep.FinishedItemID)
		}
		st.reports[rep.ID] = *rep
		return nil
	})
}

func (r reportRepo) GetByID(_ context.Context, id string) (*entity.ProductionReport, error) {
	var out *entity.ProductionReport
	err := r.a.read(func(st *state) error {
		if rep, ok := st.reports[id]; ok {
			out = &rep
		}
		return nil
	})
	return out, err
}

func (r reportRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionReport, error) {
	return r.GetByID(ctx, id)
}

func (r reportRepo) Update(ctx context.Context, rep *entity.ProductionReport) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.reports[rep.ID]; !ok {
			return domain.NotFound("reporte", rep.ID)
		}
		st.reports[rep.ID] = *rep
		return nil
	})
}

func (r reportRepo) List(_ context.Context, f repository.ReportFilter) ([]*entity.ProductionReport, error) {
	var rows []*entity.ProductionReport
	err := r.a.read(func(st *state) error {
		for _, rep := range st.reports {
			if rep.IsDeleted && !f.IncludeDeleted {
				continue
			}
			if f.Status != "" && rep.Status != f.Status {
				continue
			}
			if f.MachineID != "" && rep.MachineID != f.MachineID {
				continue
			}
			if f.SectionID != "" && rep.SectionID != f.SectionID {
				continue
			}
			if f.JobNumber != "" && rep.JobNumber != f.JobNumber {
				continue
			}
			rep := rep
			rows = append(rows, &rep)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return page(rows, f.Limit, f.Offset), nil
}

type consumptionRepo struct{ a access }

func (r consumptionRepo) Create(ctx context.Context, c *entity.MaterialConsumption) error {
	return r.a.write(ctx, func(st *state) error {
		for _, existing := range st.consumptions {
			if existing.ReportID == c.ReportID && existing.RawItemID == c.RawItemID {
				return domain.ErrDuplicate
			}
		}
		st.consumptions = append(st.consumptions, *c)
		return nil
	})
}

func (r consumptionRepo) ListByReport(_ context.Context, reportID string) ([]*entity.MaterialConsumption, error) {
	var rows []*entity.MaterialConsumption
	err := r.a.read(func(st *state) error {
		for _, c := range st.consumptions {
			if c.ReportID == reportID {
				c := c
				rows = append(rows, &c)
			}
		}
		return nil
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].RawItemID < rows[j].RawItemID })
	return rows, err
}

type auditRepo struct{ a access }

func (r auditRepo) Create(ctx context.Context, e *entity.ReportAuditTrail) error {
	return r.a.write(ctx, func(st *state) error {
		st.audits = append(st.audits, *e)
		return nil
	})
}

// ListByReport en orden de inserción (cronológico).
func (r auditRepo) ListByReport(_ context.Context, reportID string) ([]*entity.ReportAuditTrail, error) {
	var rows []*entity.ReportAuditTrail
	err := r.a.read(func(st *state) error {
		for _, e := range st.audits {
			if e.ReportID == reportID {
				e := e
				rows = append(rows, &e)
			}
		}
		return nil
	})
	return rows, err
}
