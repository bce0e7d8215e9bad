// Package valuation implementa la valuación histórica punto-en-el-tiempo:
// dado el historial append-only de snapshots de un ítem (o de la configuración
// financiera de la empresa) reconstruye los valores que regían en la fecha de
// emisión de una cotización.
package valuation

import "time"

// Snapshot es un registro de valuación con fecha de vigencia.
// Lo satisfacen entity.ItemSnapshot y entity.ConfigSnapshot.
type Snapshot interface {
	// EffectiveAt fecha desde la que el registro rige.
	EffectiveAt() time.Time
	// RecordedAt instante de inserción; desempate cuando dos registros
	// comparten fecha de vigencia (gana el último escrito).
	RecordedAt() time.Time
}

// ResolveAt devuelve el snapshot que regía en la fecha objetivo: el de mayor
// EffectiveAt tal que EffectiveAt <= target. Empates en EffectiveAt se
// resuelven por mayor RecordedAt.
//
// El historial se trata como conjunto: no necesita venir ordenado y nunca se
// muta. Si ningún registro rige en esa fecha devuelve ok = false — jamás un
// cero silencioso, para que el caller distinga "costo $0" de "costo
// desconocido". Función pura: mismo historial y misma fecha producen siempre
// el mismo resultado.
func ResolveAt[S Snapshot](history []S, target time.Time) (best S, ok bool) {
	for _, s := range history {
		if s.EffectiveAt().After(target) {
			continue
		}
		if !ok {
			best, ok = s, true
			continue
		}
		switch {
		case s.EffectiveAt().After(best.EffectiveAt()):
			best = s
		case s.EffectiveAt().Equal(best.EffectiveAt()) && s.RecordedAt().After(best.RecordedAt()):
			best = s
		}
	}
	return best, ok
}
