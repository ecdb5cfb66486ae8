package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"Crosspost/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestPendingRepoListDueTagsPlatform(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPendingRepo(db)

	rows := sqlmock.NewRows([]string{"id", "clerkId", "postingDate", "content", "status", "attempts"}).
		AddRow("p1", "user_1", int64(1000), `{"text":"hi"}`, "pending", 0).
		AddRow("p2", "user_2", int64(2000), `{"text":"yo"}`, "processing", 1)
	mock.ExpectQuery("SELECT \\* FROM `pending_tweets` WHERE .*postingDate <= \\?.*ORDER BY id ASC").
		WillReturnRows(rows)

	posts, err := repo.ListDue(context.Background(), model.PlatformTwitter, 5000, 100, "", 50)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, model.PlatformTwitter, posts[0].Platform)
	require.Equal(t, model.PendingStatusProcessing, posts[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingRepoClaimReportsWinner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPendingRepo(db)

	mock.ExpectExec("UPDATE `pending_linkedin` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `pending_linkedin` SET").WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Claim(context.Background(), model.PlatformLinkedin, "p1", "tok-a", 10, 5)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Claim(context.Background(), model.PlatformLinkedin, "p1", "tok-b", 11, 5)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingRepoReleaseDetectsLostClaim(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPendingRepo(db)

	mock.ExpectExec("UPDATE `pending_youtube` SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Release(context.Background(), model.PlatformYoutube, "p1", "tok", "boom", false)
	require.True(t, errors.Is(err, ErrClaimLost))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingRepoDeleteRequiresClaimToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPendingRepo(db)

	mock.ExpectExec("DELETE FROM `pending_tweets` WHERE id = \\? AND claimToken = \\?").
		WithArgs("p1", "tok").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), model.PlatformTwitter, "p1", "tok"))
	require.NoError(t, mock.ExpectationsWereMet())
}

// recordArg 匹配任意参数并记录字符串值
type recordArg struct{ values *[]string }

func (a recordArg) Match(v driver.Value) bool {
	if s, ok := v.(string); ok {
		*a.values = append(*a.values, s)
	}
	return true
}

func TestPendingRepoReleaseTruncatesOnRuneBoundary(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPendingRepo(db)

	// 1023 字节后接一个三字节汉字，按字节截断会切断它
	msg := strings.Repeat("a", 1023) + strings.Repeat("失", 10)
	var values []string
	arg := recordArg{values: &values}
	mock.ExpectExec("UPDATE `pending_tweets` SET").
		WithArgs(arg, arg, arg, arg, arg, arg).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Release(context.Background(), model.PlatformTwitter, "p1", "tok", msg, false))
	require.NoError(t, mock.ExpectationsWereMet())
	require.Contains(t, values, strings.Repeat("a", 1023))
	for _, v := range values {
		require.True(t, utf8.ValidString(v))
	}
}

func TestTruncateLastError(t *testing.T) {
	require.Equal(t, "short", truncateLastError("short"))

	got := truncateLastError(strings.Repeat("é", 600))
	require.True(t, utf8.ValidString(got))
	require.Equal(t, 1024, len(got))

	got = truncateLastError("x" + strings.Repeat("é", 600))
	require.True(t, utf8.ValidString(got))
	require.Equal(t, 1023, len(got))
}
