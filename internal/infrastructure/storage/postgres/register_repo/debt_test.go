package register_repo

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/debt"
)

func TestDebtListQuery(t *testing.T) {
	base := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).Select("id").From("debt_records")

	q := debtListQuery(base, debt.ListFilter{
		Status:      debt.StatusPartiallyPaid,
		PartnerType: partner.TypeCustomer,
	})

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM debt_records WHERE status = $1 AND partner_id IN (SELECT id FROM partners WHERE type = $2)", sql)
	assert.Equal(t, []any{debt.StatusPartiallyPaid, partner.TypeCustomer}, args)
}
