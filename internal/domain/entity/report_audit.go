package entity

import "time"

// Tipos de cambio registrados en la bitácora de reportes.
const (
	ChangeTypeCreate  = "CREATE"
	ChangeTypeUpdate  = "UPDATE"
	ChangeTypeApprove = "APPROVE"
	ChangeTypeDelete  = "DELETE"
	ChangeTypeReverse = "REVERSE"
)

// ReportAuditTrail fila inmutable de la bitácora; una por acción que modifica un reporte.
type ReportAuditTrail struct {
	ID         string
	ReportID   string
	ChangedBy  string
	ChangeType string
	Note       string
	CreatedAt  time.Time
}
