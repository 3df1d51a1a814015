package blueprint_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/arsw/blueprints/internal/blueprint"
)

// runRepositoryContract exercises the behaviour every Repository must share.
// newRepo must return an empty store.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) blueprint.Repository) {
	t.Run("save then get returns same points", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		bp := mustBlueprint(t, "alice", "house", pt(0, 0), pt(10, 0), pt(10, 0))

		require.NoError(t, repo.Save(ctx, bp))

		got, err := repo.Get(ctx, "alice", "house")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Author)
		assert.Equal(t, "house", got.Name)
		assert.Equal(t, bp.Points, got.Points)
	})

	t.Run("duplicate save fails with ErrAlreadyExists", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Save(ctx, mustBlueprint(t, "alice", "house", pt(0, 0))))
		err := repo.Save(ctx, mustBlueprint(t, "alice", "house", pt(5, 5)))
		assert.ErrorIs(t, err, blueprint.ErrAlreadyExists)
		assert.Contains(t, err.Error(), "alice/house")

		got, err := repo.Get(ctx, "alice", "house")
		require.NoError(t, err)
		assert.Equal(t, []blueprint.Point{pt(0, 0)}, got.Points)
	})

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(context.Background(), "bob", "anything")
		assert.ErrorIs(t, err, blueprint.ErrNotFound)
	})

	t.Run("get by author returns only that author sorted by name", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Save(ctx, mustBlueprint(t, "alice", "zeta", pt(1, 1))))
		require.NoError(t, repo.Save(ctx, mustBlueprint(t, "alice", "alpha", pt(2, 2))))
		require.NoError(t, repo.Save(ctx, mustBlueprint(t, "bob", "beta", pt(3, 3))))

		got, err := repo.GetByAuthor(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "alpha", got[0].Name)
		assert.Equal(t, "zeta", got[1].Name)
	})

	t.Run("get by author with no blueprints returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByAuthor(context.Background(), "nobody")
		assert.ErrorIs(t, err, blueprint.ErrNotFound)
	})

	t.Run("get all on empty store returns empty set", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.GetAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("get all returns every blueprint ordered by identity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Save(ctx, mustBlueprint(t, "bob", "a", pt(1, 1))))
		require.NoError(t, repo.Save(ctx, mustBlueprint(t, "alice", "b", pt(1, 1))))
		require.NoError(t, repo.Save(ctx, mustBlueprint(t, "alice", "a", pt(1, 1))))

		got, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, blueprint.Key{Author: "alice", Name: "a"}, got[0].Key())
		assert.Equal(t, blueprint.Key{Author: "alice", Name: "b"}, got[1].Key())
		assert.Equal(t, blueprint.Key{Author: "bob", Name: "a"}, got[2].Key())
	})

	t.Run("append point places it last", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Save(ctx, mustBlueprint(t, "alice", "house", pt(0, 0), pt(10, 0))))

		before, err := repo.Get(ctx, "alice", "house")
		require.NoError(t, err)

		require.NoError(t, repo.AppendPoint(ctx, "alice", "house", pt(10, 5)))

		all, err := repo.GetByAuthor(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, append(before.Points, pt(10, 5)), all[0].Points)
	})

	t.Run("append point does not change earlier snapshots", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Save(ctx, mustBlueprint(t, "alice", "house", pt(0, 0))))

		snapshot, err := repo.Get(ctx, "alice", "house")
		require.NoError(t, err)

		require.NoError(t, repo.AppendPoint(ctx, "alice", "house", pt(1, 1)))
		assert.Equal(t, []blueprint.Point{pt(0, 0)}, snapshot.Points)
	})

	t.Run("append point on missing blueprint returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.AppendPoint(context.Background(), "bob", "anything", pt(1, 1))
		assert.ErrorIs(t, err, blueprint.ErrNotFound)
	})

	t.Run("concurrent appends keep every point", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		initial := []blueprint.Point{pt(0, 0), pt(1, 1), pt(2, 2)}
		require.NoError(t, repo.Save(ctx, mustBlueprint(t, "alice", "busy", initial...)))

		const n = 50
		var g errgroup.Group
		for i := 0; i < n; i++ {
			p := pt(100+i, -i)
			g.Go(func() error {
				return repo.AppendPoint(ctx, "alice", "busy", p)
			})
		}
		require.NoError(t, g.Wait())

		got, err := repo.Get(ctx, "alice", "busy")
		require.NoError(t, err)
		require.Len(t, got.Points, len(initial)+n)
		assert.Equal(t, initial, got.Points[:len(initial)])

		want := make([]blueprint.Point, 0, n)
		for i := 0; i < n; i++ {
			want = append(want, pt(100+i, -i))
		}
		assert.ElementsMatch(t, want, got.Points[len(initial):])
	})

	t.Run("concurrent saves of one identity succeed exactly once", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const n = 20
		var (
			g         errgroup.Group
			succeeded atomic.Int32
			conflicts atomic.Int32
		)
		for i := 0; i < n; i++ {
			bp := mustBlueprint(t, "alice", "race", pt(i, i))
			g.Go(func() error {
				err := repo.Save(ctx, bp)
				switch {
				case err == nil:
					succeeded.Add(1)
				case errors.Is(err, blueprint.ErrAlreadyExists):
					conflicts.Add(1)
				default:
					return fmt.Errorf("unexpected error: %w", err)
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())
		assert.Equal(t, int32(1), succeeded.Load())
		assert.Equal(t, int32(n-1), conflicts.Load())
	})

	t.Run("reads concurrent with appends see whole states", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Save(ctx, mustBlueprint(t, "alice", "grow", pt(0, 0))))

		const n = 30
		var g errgroup.Group
		for i := 1; i <= n; i++ {
			p := pt(i, i)
			g.Go(func() error { return repo.AppendPoint(ctx, "alice", "grow", p) })
			g.Go(func() error {
				got, err := repo.Get(ctx, "alice", "grow")
				if err != nil {
					return err
				}
				if len(got.Points) == 0 || got.Points[0] != pt(0, 0) {
					return fmt.Errorf("observed partial point list %v", got.Points)
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())
	})
}

func pt(x, y int) blueprint.Point {
	return blueprint.Point{X: x, Y: y}
}

func mustBlueprint(t *testing.T, author, name string, points ...blueprint.Point) *blueprint.Blueprint {
	t.Helper()
	bp, err := blueprint.New(author, name, points)
	require.NoError(t, err)
	return bp
}
