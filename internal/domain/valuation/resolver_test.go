package valuation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/valuation"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func itemSnap(itemID, effective, created string, materialCost int64) entity.ItemSnapshot {
	return entity.ItemSnapshot{
		ID:               itemID + "-" + effective + "-" + created,
		ItemID:           itemID,
		EffectiveDate:    day(effective),
		CreatedAt:        day(created),
		UnitMaterialCost: decimal.NewFromInt(materialCost),
	}
}

func TestResolveAt_EligeLaVigenciaMasReciente(t *testing.T) {
	// Historial desordenado a propósito: el resolver lo trata como conjunto.
	history := []entity.ItemSnapshot{
		itemSnap("x", "2024-06-01", "2024-06-01", 150),
		itemSnap("x", "2024-01-01", "2024-01-01", 100),
	}

	snap, ok := valuation.ResolveAt(history, day("2024-03-15"))
	require.True(t, ok)
	assert.True(t, snap.UnitMaterialCost.Equal(decimal.NewFromInt(100)),
		"a mitad de marzo rige el snapshot de enero")

	snap, ok = valuation.ResolveAt(history, day("2024-07-01"))
	require.True(t, ok)
	assert.True(t, snap.UnitMaterialCost.Equal(decimal.NewFromInt(150)),
		"desde junio rige el snapshot de junio")

	// Mismo día de la vigencia: inclusive.
	snap, ok = valuation.ResolveAt(history, day("2024-06-01"))
	require.True(t, ok)
	assert.True(t, snap.UnitMaterialCost.Equal(decimal.NewFromInt(150)))
}

func TestResolveAt_SinRegistroQueAlcance(t *testing.T) {
	history := []entity.ItemSnapshot{
		itemSnap("x", "2024-01-01", "2024-01-01", 100),
	}

	_, ok := valuation.ResolveAt(history, day("2023-01-01"))
	assert.False(t, ok, "la cotización antecede a todo el historial")

	_, ok = valuation.ResolveAt([]entity.ItemSnapshot{}, day("2024-01-01"))
	assert.False(t, ok, "historial vacío")

	_, ok = valuation.ResolveAt[entity.ItemSnapshot](nil, day("2024-01-01"))
	assert.False(t, ok, "historial nil")
}

func TestResolveAt_EmpateGanaElUltimoEscrito(t *testing.T) {
	// Dos snapshots con la misma fecha de vigencia: gana el de mayor CreatedAt.
	history := []entity.ItemSnapshot{
		itemSnap("x", "2024-01-01", "2024-01-05", 100),
		itemSnap("x", "2024-01-01", "2024-01-09", 120),
		itemSnap("x", "2024-01-01", "2024-01-02", 90),
	}

	snap, ok := valuation.ResolveAt(history, day("2024-02-01"))
	require.True(t, ok)
	assert.True(t, snap.UnitMaterialCost.Equal(decimal.NewFromInt(120)))
}

func TestResolveAt_Determinismo(t *testing.T) {
	history := []entity.ItemSnapshot{
		itemSnap("x", "2024-03-01", "2024-03-01", 80),
		itemSnap("x", "2024-01-01", "2024-01-01", 100),
		itemSnap("x", "2024-03-01", "2024-03-02", 85),
		itemSnap("x", "2024-02-01", "2024-02-01", 90),
	}
	target := day("2024-03-10")

	first, ok1 := valuation.ResolveAt(history, target)
	second, ok2 := valuation.ResolveAt(history, target)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first.ID, second.ID, "misma entrada, mismo resultado")
	assert.True(t, first.UnitMaterialCost.Equal(decimal.NewFromInt(85)))
}

func TestResolveAt_ConfigSnapshots(t *testing.T) {
	// El resolver es genérico: mismas reglas para el historial de configuración.
	history := []entity.ConfigSnapshot{
		{
			ID: "c1", EffectiveDate: day("2024-01-01"), CreatedAt: day("2024-01-01"),
			FixedMonthlyCost: decimal.NewNullDecimal(decimal.NewFromInt(3000)),
		},
		{
			ID: "c2", EffectiveDate: day("2024-04-01"), CreatedAt: day("2024-04-01"),
			FixedMonthlyCost: decimal.NewNullDecimal(decimal.NewFromInt(4500)),
		},
	}

	snap, ok := valuation.ResolveAt(history, day("2024-02-15"))
	require.True(t, ok)
	assert.Equal(t, "c1", snap.ID)
}
