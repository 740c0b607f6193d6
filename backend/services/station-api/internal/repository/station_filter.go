package repository

import (
	"fmt"
	"math"
	"strings"

	"evstations/backend/services/station-api/internal/stationquery"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereBuilder accumulates SQL conditions and their positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

func (b *whereBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *whereBuilder) add(cond string) {
	b.conds = append(b.conds, cond)
}

func (b *whereBuilder) clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conds, " AND ")
}

// buildWhere renders filter as a WHERE clause, in predicate order.
func buildWhere(filter stationquery.Filter) (string, []any, error) {
	b := &whereBuilder{}
	for _, p := range filter {
		switch p := p.(type) {
		case stationquery.NameContains:
			b.add(fmt.Sprintf(`name ILIKE %s ESCAPE '\'`, b.arg("%"+likeEscaper.Replace(p.Substring)+"%")))
		case stationquery.StatusEquals:
			b.add("status = " + b.arg(p.Status))
		case stationquery.PowerEquals:
			b.add("power_output = " + b.arg(p.KW))
		case stationquery.ConnectorEquals:
			b.add("connector_type = " + b.arg(p.Connector))
		case stationquery.BoundingBox:
			if !finite(p.MinLatitude, p.MaxLatitude, p.MinLongitude, p.MaxLongitude) {
				return "", nil, fmt.Errorf("%w: bounding box bounds must be finite", stationquery.ErrGeospatial)
			}
			b.add(fmt.Sprintf("latitude BETWEEN %s AND %s", b.arg(p.MinLatitude), b.arg(p.MaxLatitude)))
			b.add(fmt.Sprintf("longitude BETWEEN %s AND %s", b.arg(p.MinLongitude), b.arg(p.MaxLongitude)))
		case stationquery.OwnerEquals:
			b.add("created_by = " + b.arg(p.UserID))
		default:
			return "", nil, fmt.Errorf("repository: unsupported predicate %T", p)
		}
	}
	return b.clause(), b.args, nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
