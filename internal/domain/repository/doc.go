// Package repository define las interfaces de repositorio de dominio.
//
// Estas interfaces representan contratos de negocio, independientes del
// almacenamiento subyacente (PostgreSQL, memoria, etc.).
//
// Las implementaciones concretas viven en internal/store/adapters/.
//
// Convenciones:
//   - ZoneID se pasa explícitamente en métodos que lo requieren
//   - Context siempre es el primer parámetro
//   - Errores de dominio están en errors.go
package repository
