//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/fitnesscenter/internal/domain"
)

func TestMemberLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	id, err := repo.InsertMember(ctx, domain.MemberInput{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"})
	require.NoError(t, err)
	require.Positive(t, id)

	stored, err := repo.GetMember(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, domain.Member{ID: id, Name: "Ada", Email: "ada@example.com", Phone: "555-0100"}, *stored)

	updated, err := repo.UpdateMember(ctx, id, domain.MemberInput{Name: "Ada L.", Email: "ada@example.com", Phone: "555-0199"})
	require.NoError(t, err)
	require.True(t, updated)

	stored, err = repo.GetMember(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Ada L.", stored.Name)
	require.Equal(t, "555-0199", stored.Phone)

	deleted, err := repo.DeleteMember(ctx, id)
	require.NoError(t, err)
	require.True(t, deleted)

	stored, err = repo.GetMember(ctx, id)
	require.NoError(t, err)
	require.Nil(t, stored)

	exists, err := repo.MemberExists(ctx, id)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestMutationsOnMissingMemberAffectNoRows(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	updated, err := repo.UpdateMember(ctx, 4242, domain.MemberInput{Name: "x", Email: "x@example.com", Phone: "1"})
	require.NoError(t, err)
	require.False(t, updated)

	deleted, err := repo.DeleteMember(ctx, 4242)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestDuplicateEmailIsConstraintError(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	_, err := repo.InsertMember(ctx, domain.MemberInput{Name: "Grace", Email: "grace@example.com", Phone: "1"})
	require.NoError(t, err)

	_, err = repo.InsertMember(ctx, domain.MemberInput{Name: "Grace H.", Email: "grace@example.com", Phone: "2"})
	var constraint *domain.ConstraintError
	require.ErrorAs(t, err, &constraint)
	require.Contains(t, constraint.Message, "members_email_key")
}

func TestWorkoutSessionsFilterByMember(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	first, err := repo.InsertMember(ctx, domain.MemberInput{Name: "Linus", Email: "linus@example.com", Phone: "1"})
	require.NoError(t, err)
	second, err := repo.InsertMember(ctx, domain.MemberInput{Name: "Barbara", Email: "barbara@example.com", Phone: "2"})
	require.NoError(t, err)

	day := time.Date(2026, time.May, 4, 7, 0, 0, 0, time.UTC)
	for i, memberID := range []int64{first, second, first} {
		_, err := repo.InsertWorkoutSession(ctx, domain.WorkoutInput{
			MemberID:    memberID,
			SessionDate: day.Add(time.Duration(i) * time.Hour),
			Activity:    "rowing",
			Duration:    30 + i,
		})
		require.NoError(t, err)
	}

	all, err := repo.ListWorkoutSessions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	mine, err := repo.ListWorkoutSessionsForMember(ctx, first)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, day, mine[0].SessionDate)
	require.Equal(t, 30, mine[0].Duration)
	require.Equal(t, 32, mine[1].Duration)
	require.Less(t, mine[0].ID, mine[1].ID)

	none, err := repo.ListWorkoutSessionsForMember(ctx, 999)
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestWorkoutForUnknownMemberViolatesForeignKey(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	_, err := repo.InsertWorkoutSession(ctx, domain.WorkoutInput{MemberID: 999, SessionDate: time.Now(), Activity: "yoga", Duration: 45})
	var constraint *domain.ConstraintError
	require.ErrorAs(t, err, &constraint)
}

func TestDeletingMemberWithSessionsIsRestricted(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	id, err := repo.InsertMember(ctx, domain.MemberInput{Name: "Ken", Email: "ken@example.com", Phone: "1"})
	require.NoError(t, err)
	_, err = repo.InsertWorkoutSession(ctx, domain.WorkoutInput{MemberID: id, SessionDate: time.Now(), Activity: "spin", Duration: 40})
	require.NoError(t, err)

	_, err = repo.DeleteMember(ctx, id)
	var constraint *domain.ConstraintError
	require.ErrorAs(t, err, &constraint)

	exists, err := repo.MemberExists(ctx, id)
	require.NoError(t, err)
	require.True(t, exists)
}

func newTestRepository(t *testing.T, ctx context.Context) *Repository {
	t.Helper()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("fitness_center"),
		postgrescontainer.WithUsername("fitness"),
		postgrescontainer.WithPassword("fitness"),
		postgrescontainer.WithInitScripts(resolvePath(t, "../../../db/postgres/migrations/0001_init.up.sql")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewRepository(pool)
	require.NoError(t, repo.Ping(ctx))
	return repo
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
