package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectibles/internal/models"
)

func user(id int64, interests ...string) models.User {
	return models.User{ID: id, Name: fmt.Sprintf("user-%d", id), Interests: interests}
}

func TestFindMatchesSingleSharedInterest(t *testing.T) {
	me := user(1, "chess")
	pool := []models.User{me, user(2, "chess", "art"), user(3, "music"), user(4)}

	matches := FindMatches(me, pool)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(2), matches[0].User.ID)
	assert.Equal(t, 1, matches[0].Score)
	assert.Equal(t, []string{"chess"}, matches[0].SharedInterests)
}

func TestFindMatchesDisjointInterestsExcluded(t *testing.T) {
	me := user(1, "chess", "go")
	matches := FindMatches(me, []models.User{user(2, "art", "music")})
	assert.Empty(t, matches)
}

func TestFindMatchesScoreEqualsSharedCount(t *testing.T) {
	me := user(1, "chess", "art", "film")
	matches := FindMatches(me, []models.User{user(2, "film", "art", "hiking")})
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].Score)
	assert.Equal(t, []string{"art", "film"}, matches[0].SharedInterests)
}

func TestFindMatchesEmptyInterests(t *testing.T) {
	matches := FindMatches(user(1), []models.User{user(2, "chess")})
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestFindMatchesExcludesSelf(t *testing.T) {
	me := user(1, "chess")
	assert.Empty(t, FindMatches(me, []models.User{me}))
}

func TestFindMatchesSortedAndTruncated(t *testing.T) {
	me := user(1, "a", "b", "c")
	pool := []models.User{user(2, "a")}
	for id := int64(3); id < 15; id++ {
		pool = append(pool, user(id, "a", "b"))
	}
	pool = append(pool, user(99, "a", "b", "c"))

	matches := FindMatches(me, pool)
	require.Len(t, matches, Limit)
	assert.Equal(t, int64(99), matches[0].User.ID)
	assert.Equal(t, 3, matches[0].Score)
	// ties keep population order
	assert.Equal(t, int64(3), matches[1].User.ID)
	for _, m := range matches[1:] {
		assert.Equal(t, 2, m.Score)
	}
}

func TestSharedInterestsKeepsDuplicates(t *testing.T) {
	assert.Equal(t, []string{"chess", "chess"}, SharedInterests([]string{"chess", "chess", "art"}, []string{"chess"}))
}
