package bom_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/prodsys-ledger/internal/application/bom"
	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/infrastructure/memory"
)

func TestRequiredRawMaterials(t *testing.T) {
	store := memory.NewStore(time.Second)
	ctx := context.Background()
	repos := store.Repos()
	for _, id := range []string{"F", "R1", "R2"} {
		require.NoError(t, repos.Items.Create(ctx, &entity.StockItem{ID: id, Code: id, UnitOfMeasure: "kg"}))
	}
	require.NoError(t, repos.BOM.Create(ctx, &entity.BillOfMaterial{ID: "a", FinishedItemID: "F", RawItemID: "R1", QuantityRequired: decimal.RequireFromString("0.25")}))
	require.NoError(t, repos.BOM.Create(ctx, &entity.BillOfMaterial{ID: "b", FinishedItemID: "F", RawItemID: "R2", QuantityRequired: decimal.NewFromInt(3)}))

	r := bom.NewResolver(repos.BOM)
	req, err := r.RequiredRawMaterials(ctx, "F", decimal.NewFromInt(10))
	require.NoError(t, err)
	require.Len(t, req, 2)
	assert.True(t, req["R1"].Equal(decimal.RequireFromString("2.5")))
	assert.True(t, req["R2"].Equal(decimal.NewFromInt(30)))

	sorted := bom.Sorted(req)
	assert.Equal(t, "R1", sorted[0].RawItemID)
	assert.Equal(t, "R2", sorted[1].RawItemID)

	none, err := r.RequiredRawMaterials(ctx, "R1", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = r.RequiredRawMaterials(ctx, "F", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRequiredRawMaterials_RedondeaALaEscalaDeAlmacenamiento(t *testing.T) {
	store := memory.NewStore(time.Second)
	ctx := context.Background()
	repos := store.Repos()
	for _, id := range []string{"F", "R"} {
		require.NoError(t, repos.Items.Create(ctx, &entity.StockItem{ID: id, Code: id, UnitOfMeasure: "kg"}))
	}
	require.NoError(t, repos.BOM.Create(ctx, &entity.BillOfMaterial{ID: "a", FinishedItemID: "F", RawItemID: "R", QuantityRequired: decimal.RequireFromString("0.0003")}))

	req, err := bom.NewResolver(repos.BOM).RequiredRawMaterials(ctx, "F", decimal.RequireFromString("0.5"))
	require.NoError(t, err)
	// 0.00015 no cabe en 4 decimales: se consume 0.0002
	assert.Equal(t, "0.0002", req["R"].String())
	assert.NoError(t, domain.CheckScale("quantity", req["R"]))
}
