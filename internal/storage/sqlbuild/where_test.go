package sqlbuild

import (
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Where_Postgres(t *testing.T) {
	day := time.Date(2024, 9, 21, 15, 0, 0, 0, time.UTC)
	q := New(Postgres{}).Where(domain.Criteria{
		Keyword:  "Health",
		Day:      &day,
		Category: "Technology",
		Sources:  []string{"A", "B"},
	})

	assert.Equal(t,
		` WHERE (title ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\') AND published_at >= $2 AND published_at < $3 AND category = $4 AND source = ANY($5)`,
		q.Clause())
	assert.Equal(t, []any{
		"%Health%",
		time.Date(2024, 9, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 22, 0, 0, 0, 0, time.UTC),
		"Technology",
		[]string{"A", "B"},
	}, q.Args)
}

func TestQuery_Where_SQLite(t *testing.T) {
	q := New(SQLite{}).Where(domain.Criteria{
		Source:  "Tech Source",
		Authors: []string{"John Doe", "Jane Doe"},
	})

	assert.Equal(t, ` WHERE source = ?1 AND author IN (?2, ?3)`, q.Clause())
	assert.Equal(t, []any{"Tech Source", "John Doe", "Jane Doe"}, q.Args)
}

func TestQuery_Where_SQLite_KeywordBindsOnce(t *testing.T) {
	q := New(SQLite{}).Where(domain.Criteria{Keyword: "Économie", Category: "Finance"})

	assert.Equal(t,
		` WHERE (fold(title) LIKE fold(?1) ESCAPE '\' OR fold(description) LIKE fold(?1) ESCAPE '\') AND category = ?2`,
		q.Clause())
	require.Len(t, q.Args, 2)
	assert.Equal(t, "%Économie%", q.Args[0])
	assert.Equal(t, "?3", q.Arg(10))
}

func TestQuery_Where_Empty(t *testing.T) {
	q := New(Postgres{}).Where(domain.Criteria{})
	assert.Empty(t, q.Clause())
	assert.Empty(t, q.Args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% \_ok\\`, EscapeLike(`100% _ok\`))
}
