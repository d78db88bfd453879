package approval

import (
	"strings"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
)

// AutoApproved indica si el scope matchea la regla de auto-aprobación:
// wildcard total, nombre exacto, o patrón glob donde `*` matchea
// exactamente un segmento delimitado por puntos.
func AutoApproved(rule repository.AutoApprove, scope string) bool {
	if rule.All {
		return true
	}
	for _, pat := range rule.Scopes {
		if pat == scope {
			return true
		}
		if globMatch(pat, scope) {
			return true
		}
	}
	return false
}

// globMatch aplica el patrón segmento a segmento. Patrones con distinta
// cantidad de segmentos nunca matchean: `space.*.developer` matchea
// `space.42.developer` pero no `space.42.sub.developer`.
func globMatch(pattern, scope string) bool {
	if !strings.Contains(pattern, "*") {
		return false
	}
	ps := strings.Split(pattern, ".")
	ss := strings.Split(scope, ".")
	if len(ps) != len(ss) {
		return false
	}
	for i := range ps {
		if ps[i] == "*" {
			continue
		}
		if ps[i] != ss[i] {
			return false
		}
	}
	return true
}
