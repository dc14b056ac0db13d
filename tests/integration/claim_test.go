package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/marcusw/leadclaim/internal/models"
	"github.com/marcusw/leadclaim/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	repo := repositories.NewEnquiryRepository(testDB.DB)

	user, err := SeedUser(ctx, testDB.DB, "Bob Jones", "bob@example.com", "Secret123")
	require.NoError(t, err)

	enquiry, err := SeedEnquiry(ctx, testDB.DB, "Alice Smith", "alice@example.com", "Data Science")
	require.NoError(t, err)
	assert.False(t, enquiry.Claimed())

	claimed, err := repo.Claim(ctx, enquiry.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, claimed.Claimed())
	assert.Equal(t, user.ID, *claimed.ClaimedBy)
	assert.True(t, claimed.UpdatedAt.After(enquiry.UpdatedAt) || claimed.UpdatedAt.Equal(enquiry.UpdatedAt))

	// A second claim attempt matches zero rows
	_, err = repo.Claim(ctx, enquiry.ID, user.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// The claim is durable
	fetched, err := repo.GetByID(ctx, enquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, *fetched.ClaimedBy)
}

func TestClaimRace_ExactlyOneWinner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	repo := repositories.NewEnquiryRepository(testDB.DB)

	const contenders = 10

	users := make([]*models.User, contenders)
	for i := range users {
		user, err := SeedUser(ctx, testDB.DB,
			fmt.Sprintf("Staff %d", i),
			fmt.Sprintf("staff%d@example.com", i),
			"Secret123")
		require.NoError(t, err)
		users[i] = user
	}

	enquiry, err := SeedEnquiry(ctx, testDB.DB, "Alice Smith", "alice@example.com", "Data Science")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = repo.Claim(ctx, enquiry.ID, users[i].ID)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, models.ErrNotFound)
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent claim must succeed")

	// The stored claimant is one of the contenders
	fetched, err := repo.GetByID(ctx, enquiry.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.ClaimedBy)

	found := false
	for _, user := range users {
		if user.ID == *fetched.ClaimedBy {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestListUnclaimed_ExcludesClaimed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	repo := repositories.NewEnquiryRepository(testDB.DB)

	user, err := SeedUser(ctx, testDB.DB, "Bob Jones", "bob@example.com", "Secret123")
	require.NoError(t, err)

	first, err := SeedEnquiry(ctx, testDB.DB, "Alice Smith", "alice@example.com", "Data Science")
	require.NoError(t, err)
	second, err := SeedEnquiry(ctx, testDB.DB, "Carol White", "carol@example.com", "Web Development")
	require.NoError(t, err)

	_, err = repo.Claim(ctx, first.ID, user.ID)
	require.NoError(t, err)

	sort := repositories.SortSpec{Column: "created_at", Direction: "DESC"}

	unclaimed, count, err := repo.ListUnclaimed(ctx, sort, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, unclaimed, 1)
	assert.Equal(t, second.ID, unclaimed[0].ID)

	mine, count, err := repo.ListClaimedBy(ctx, user.ID, repositories.SortSpec{Column: "updated_at", Direction: "DESC"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)
}
