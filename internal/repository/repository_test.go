package repository

import (
	"context"
	"testing"
	"time"

	"github.com/huntclub/hunt-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeTable(t *testing.T) {
	table, err := codeTable(domain.KindGift)
	require.NoError(t, err)
	assert.Equal(t, "gifts", table)

	table, err = codeTable(domain.KindEnigma)
	require.NoError(t, err)
	assert.Equal(t, "enigmas", table)

	_, err = codeTable(domain.CodeKind(42))
	assert.Error(t, err)
}

func TestAttemptTable(t *testing.T) {
	table, err := attemptTable(domain.KindGift)
	require.NoError(t, err)
	assert.Equal(t, "gift_attempts", table)

	table, err = attemptTable(domain.KindEnigma)
	require.NoError(t, err)
	assert.Equal(t, "enigma_attempts", table)

	_, err = attemptTable(domain.CodeKind(-1))
	assert.Error(t, err)
}

// Unknown kinds are rejected before any statement reaches the database, so a
// nil DBTX is never touched.
func TestUnknownKindNeverQueries(t *testing.T) {
	ctx := context.Background()
	bogus := domain.CodeKind(9)

	_, err := NewCodeRepository().FindByCode(ctx, nil, bogus, "X")
	assert.Error(t, err)

	ok, err := NewCodeRepository().Claim(ctx, nil, bogus, "X", "Bleu", "a@x.com", time.Now())
	assert.Error(t, err)
	assert.False(t, ok)

	err = NewAttemptRepository().Insert(ctx, nil, domain.Attempt{Kind: bogus})
	assert.Error(t, err)
}
