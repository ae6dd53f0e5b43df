package dto

import "github.com/jhoicas/prodsys-ledger/internal/domain/entity"

// ItemFromEntity mapea un ítem a su respuesta.
func ItemFromEntity(it *entity.StockItem) ItemResponse {
	return ItemResponse{
		ID:            it.ID,
		Code:          it.Code,
		Name:          it.Name,
		Description:   it.Description,
		Category:      it.Category,
		UnitOfMeasure: it.UnitOfMeasure,
		Width:         it.Width,
		Length:        it.Length,
		Thickness:     it.Thickness,
		Weight:        it.Weight,
		Quantity:      it.Quantity,
		ReorderLevel:  it.ReorderLevel,
		BelowReorder:  it.IsBelowReorder(),
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}

// MovementFromEntity mapea un movimiento del ledger.
func MovementFromEntity(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		ItemID:         m.ItemID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		SignedQuantity: m.SignedQuantity(),
		Reference:      m.Reference,
		Remarks:        m.Remarks,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}

// BOMLineFromEntity mapea una línea de receta.
func BOMLineFromEntity(l *entity.BillOfMaterial) BOMLineResponse {
	return BOMLineResponse{
		ID:               l.ID,
		FinishedItemID:   l.FinishedItemID,
		RawItemID:        l.RawItemID,
		QuantityRequired: l.QuantityRequired,
		CreatedAt:        l.CreatedAt,
	}
}

// ReportFromEntity mapea un reporte incluyendo merma y eficiencia.
func ReportFromEntity(r *entity.ProductionReport) ReportResponse {
	return ReportResponse{
		ID:                r.ID,
		JobNumber:         r.JobNumber,
		MachineID:         r.MachineID,
		SectionID:         r.SectionID,
		FinishedItemID:    r.FinishedItemID,
		QuantityProduced:  r.QuantityProduced,
		InputRawMaterials: r.InputRawMaterials,
		OutputProducts:    r.OutputProducts,
		ConsumablesUsed:   r.ConsumablesUsed,
		EstimatedInput:    r.EstimatedInput,
		EstimatedOutput:   r.EstimatedOutput,
		Waste:             r.Waste(),
		Efficiency:        r.Efficiency(),
		Remarks:           r.Remarks,
		Status:            r.Status,
		IsDeleted:         r.IsDeleted,
		CreatedBy:         r.CreatedBy,
		ApprovedBy:        r.ApprovedBy,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		ApprovedAt:        r.ApprovedAt,
	}
}

// ConsumptionFromEntity mapea un consumo.
func ConsumptionFromEntity(c *entity.MaterialConsumption) ConsumptionResponse {
	return ConsumptionResponse{
		ID:           c.ID,
		ReportID:     c.ReportID,
		RawItemID:    c.RawItemID,
		QuantityUsed: c.QuantityUsed,
		Unit:         c.Unit,
		CreatedAt:    c.CreatedAt,
	}
}

// AuditEntryFromEntity mapea una fila de bitácora.
func AuditEntryFromEntity(a *entity.ReportAuditTrail) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         a.ID,
		ReportID:   a.ReportID,
		ChangedBy:  a.ChangedBy,
		ChangeType: a.ChangeType,
		Note:       a.Note,
		CreatedAt:  a.CreatedAt,
	}
}
