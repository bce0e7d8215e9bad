package valuation

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

// ItemMatcher localiza el ítem de catálogo al que apunta una línea de cotización.
// Estrategia explícita en lugar de comparaciones de strings dispersas: las
// líneas nuevas referencian por ID; las legadas solo traen la descripción.
type ItemMatcher interface {
	Match(line entity.QuoteLine) (entity.CatalogItem, bool)
}

// ByID empareja por el ItemID de la línea.
type ByID struct {
	byID map[string]entity.CatalogItem
}

// NewByID indexa el catálogo por ID.
func NewByID(catalog []entity.CatalogItem) *ByID {
	m := make(map[string]entity.CatalogItem, len(catalog))
	for _, it := range catalog {
		m[it.ID] = it
	}
	return &ByID{byID: m}
}

// Match devuelve el ítem referenciado por ID, si la línea trae uno.
func (m *ByID) Match(line entity.QuoteLine) (entity.CatalogItem, bool) {
	if line.ItemID == "" {
		return entity.CatalogItem{}, false
	}
	it, ok := m.byID[line.ItemID]
	return it, ok
}

// ByNormalizedDescription empareja líneas legadas (sin ItemID) por descripción
// normalizada dentro de la misma categoría. Si dos ítems de una categoría
// comparten descripción normalizada, gana el primero del catálogo (determinista).
type ByNormalizedDescription struct {
	byKey map[descKey]entity.CatalogItem
}

type descKey struct {
	categoryID string
	desc       string
}

// NewByNormalizedDescription indexa el catálogo por (categoría, descripción normalizada).
func NewByNormalizedDescription(catalog []entity.CatalogItem) *ByNormalizedDescription {
	m := make(map[descKey]entity.CatalogItem, len(catalog))
	for _, it := range catalog {
		key := descKey{it.CategoryID, NormalizeDescription(it.Description)}
		if _, exists := m[key]; !exists {
			m[key] = it
		}
	}
	return &ByNormalizedDescription{byKey: m}
}

// Match busca por descripción normalizada dentro de la categoría de la línea.
func (m *ByNormalizedDescription) Match(line entity.QuoteLine) (entity.CatalogItem, bool) {
	it, ok := m.byKey[descKey{line.CategoryID, NormalizeDescription(line.Description)}]
	return it, ok
}

// Chain prueba cada matcher en orden y devuelve el primer acierto.
type Chain []ItemMatcher

// Match implementa ItemMatcher.
func (c Chain) Match(line entity.QuoteLine) (entity.CatalogItem, bool) {
	for _, m := range c {
		if it, ok := m.Match(line); ok {
			return it, true
		}
	}
	return entity.CatalogItem{}, false
}

// NewDefaultMatcher cadena estándar: primero por ID, luego por descripción.
func NewDefaultMatcher(catalog []entity.CatalogItem) ItemMatcher {
	return Chain{NewByID(catalog), NewByNormalizedDescription(catalog)}
}

// stripAccents elimina marcas diacríticas: NFD descompone, runes.Remove quita
// los combining marks (Mn) y NFC recompone.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeDescription normaliza una descripción para comparación:
// recorta espacios, colapsa espacios internos, quita tildes y pasa a minúsculas.
// "  Instalación  Eléctrica " y "instalacion electrica" resultan iguales.
func NormalizeDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if out, _, err := transform.String(stripAccents, s); err == nil {
		s = out
	}
	return strings.ToLower(s)
}
