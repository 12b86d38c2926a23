package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/advisory-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testClient(id string) sqlite.Client {
	return sqlite.Client{
		ID:        id,
		Name:      "Jordan Lee",
		Email:     "jordan@example.com",
		Phone:     "0400 000 000",
		Status:    sqlite.StatusProspect,
		CreatedAt: time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC),
	}
}

// =============================================================================
// CLIENTS
// =============================================================================

func TestClient_CreateGetUpdateDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateClient(ctx, testClient("cli-1")))

	got, err := store.GetClient(ctx, "cli-1")
	require.NoError(t, err)
	assert.Equal(t, "Jordan Lee", got.Name)
	assert.Equal(t, sqlite.StatusProspect, got.Status)

	got.Status = sqlite.StatusClient
	got.Name = "Jordan A. Lee"
	require.NoError(t, store.UpdateClient(ctx, *got))

	updated, err := store.GetClient(ctx, "cli-1")
	require.NoError(t, err)
	assert.Equal(t, sqlite.StatusClient, updated.Status)
	assert.Equal(t, "Jordan A. Lee", updated.Name)

	require.NoError(t, store.DeleteClient(ctx, "cli-1"))
	_, err = store.GetClient(ctx, "cli-1")
	assert.ErrorIs(t, err, sqlite.ErrClientNotFound)
}

func TestClient_DuplicateID_Rejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateClient(ctx, testClient("cli-1")))
	err := store.CreateClient(ctx, testClient("cli-1"))
	assert.ErrorIs(t, err, sqlite.ErrDuplicateClient)
}

func TestClient_NotFoundSentinels(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetClient(ctx, "nope")
	assert.ErrorIs(t, err, sqlite.ErrClientNotFound)

	assert.ErrorIs(t, store.UpdateClient(ctx, testClient("nope")), sqlite.ErrClientNotFound)
	assert.ErrorIs(t, store.DeleteClient(ctx, "nope"), sqlite.ErrClientNotFound)

	_, err = store.GetAssessment(ctx, "nope")
	assert.ErrorIs(t, err, sqlite.ErrAssessmentNotFound)

	_, err = store.GetResponse(ctx, "nope")
	assert.ErrorIs(t, err, sqlite.ErrResponseNotFound)
}

// =============================================================================
// ASSESSMENTS
// =============================================================================

func TestAssessment_DecimalsRoundTripExactly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateClient(ctx, testClient("cli-1")))

	rec := sqlite.AssessmentRecord{
		ID:                  "asm-1",
		ClientID:            "cli-1",
		InputJSON:           `{"office_percentage":25}`,
		OccupancyExpenses:   decimal.RequireFromString("6000"),
		RunningExpenses:     decimal.RequireFromString("800"),
		HomeOfficeDeduction: decimal.RequireFromString("6800"),
		VehicleDeduction:    decimal.RequireFromString("4400"),
		EquipmentDeduction:  decimal.RequireFromString("3000"),
		TotalDeductions:     decimal.RequireFromString("14200"),
		EstimatedTaxSaving:  decimal.RequireFromString("4615"),
		RecommendedMethod:   "actual_cost",
		CreatedAt:           time.Now(),
	}
	require.NoError(t, store.SaveAssessment(ctx, rec))

	got, err := store.GetAssessment(ctx, "asm-1")
	require.NoError(t, err)

	assert.True(t, got.TotalDeductions.Equal(rec.TotalDeductions),
		"total: %s != %s", got.TotalDeductions, rec.TotalDeductions)
	assert.True(t, got.EstimatedTaxSaving.Equal(rec.EstimatedTaxSaving))
	assert.Equal(t, "actual_cost", got.RecommendedMethod)
	assert.Equal(t, `{"office_percentage":25}`, got.InputJSON)
}

func TestAssessment_ListByClient_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateClient(ctx, testClient("cli-1")))

	for i, ts := range []time.Time{
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
	} {
		rec := sqlite.AssessmentRecord{
			ID:        []string{"asm-old", "asm-new"}[i],
			ClientID:  "cli-1",
			InputJSON: "{}",
			CreatedAt: ts,
		}
		require.NoError(t, store.SaveAssessment(ctx, rec))
	}

	records, err := store.ListAssessmentsByClient(ctx, "cli-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "asm-new", records[0].ID)
}

// =============================================================================
// QUESTIONNAIRE RESPONSES
// =============================================================================

func TestResponse_WithAndWithoutStrategy(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateClient(ctx, testClient("cli-1")))

	name := "Small Business Re-Birth (i)"
	matched := sqlite.ResponseRecord{
		ID:            "resp-1",
		ClientID:      "cli-1",
		ResponsesJSON: `{"q3":"no"}`,
		NoAnswersJSON: `[3,15,16,40]`,
		StrategyName:  &name,
		CreatedAt:     time.Now(),
	}
	unmatched := sqlite.ResponseRecord{
		ID:            "resp-2",
		ClientID:      "cli-1",
		ResponsesJSON: `{"q1":"no"}`,
		NoAnswersJSON: `[1]`,
		CreatedAt:     time.Now().Add(time.Second),
	}
	require.NoError(t, store.SaveResponse(ctx, matched))
	require.NoError(t, store.SaveResponse(ctx, unmatched))

	got1, err := store.GetResponse(ctx, "resp-1")
	require.NoError(t, err)
	require.NotNil(t, got1.StrategyName)
	assert.Equal(t, name, *got1.StrategyName)

	got2, err := store.GetResponse(ctx, "resp-2")
	require.NoError(t, err)
	assert.Nil(t, got2.StrategyName, "no-match must round-trip as NULL")

	records, err := store.ListResponsesByClient(ctx, "cli-1")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

// =============================================================================
// CASCADE AND RESET
// =============================================================================

func TestDeleteClient_CascadesToRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateClient(ctx, testClient("cli-1")))
	require.NoError(t, store.SaveAssessment(ctx, sqlite.AssessmentRecord{
		ID: "asm-1", ClientID: "cli-1", InputJSON: "{}", CreatedAt: time.Now(),
	}))
	require.NoError(t, store.SaveResponse(ctx, sqlite.ResponseRecord{
		ID: "resp-1", ClientID: "cli-1", ResponsesJSON: "{}", NoAnswersJSON: "[]",
		CreatedAt: time.Now(),
	}))

	require.NoError(t, store.DeleteClient(ctx, "cli-1"))

	_, err := store.GetAssessment(ctx, "asm-1")
	assert.ErrorIs(t, err, sqlite.ErrAssessmentNotFound)
	_, err = store.GetResponse(ctx, "resp-1")
	assert.ErrorIs(t, err, sqlite.ErrResponseNotFound)
}

func TestReset_ClearsEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateClient(ctx, testClient("cli-1")))
	require.NoError(t, store.Reset(ctx))

	clients, err := store.ListClients(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)
}
