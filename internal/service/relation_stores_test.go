package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"notefiber-assign-be/internal/repository/unitofwork"
	"notefiber-assign-be/pkg/assign"
	"notefiber-assign-be/pkg/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockFactory(t *testing.T) (unitofwork.RepositoryFactory, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return unitofwork.NewRepositoryFactory(db), mock
}

var notebookColumns = []string{"id", "name", "parent_id", "user_id", "created_at", "updated_at", "deleted_at"}

func TestParentStore_RejectsCycles(t *testing.T) {
	ctx := context.Background()

	t.Run("under itself", func(t *testing.T) {
		uowFactory, mock := newMockFactory(t)
		nb := uuid.New()

		err := (&parentStore{uowFactory: uowFactory}).Link(ctx, nb.String(), []string{nb.String()})

		assert.ErrorIs(t, err, ErrCycle)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("under a descendant", func(t *testing.T) {
		uowFactory, mock := newMockFactory(t)
		child, grandchild, owner := uuid.New(), uuid.New(), uuid.New()

		// walking up from the new parent reaches the moved notebook
		mock.ExpectQuery(`SELECT \* FROM "notebooks" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows(notebookColumns).
				AddRow(grandchild.String(), "Grandchild", child.String(), owner.String(), time.Now(), time.Now(), nil))

		err := (&parentStore{uowFactory: uowFactory}).Link(ctx, grandchild.String(), []string{child.String()})

		assert.ErrorIs(t, err, ErrCycle)
		assert.NoError(t, mock.ExpectationsWereMet(), "no parent is written")
	})

	t.Run("under an unrelated root", func(t *testing.T) {
		uowFactory, mock := newMockFactory(t)
		root, nb, owner := uuid.New(), uuid.New(), uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "notebooks" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows(notebookColumns).
				AddRow(root.String(), "Root", nil, owner.String(), time.Now(), time.Now(), nil))
		mock.ExpectExec(`UPDATE "notebooks" SET "parent_id"=`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := (&parentStore{uowFactory: uowFactory}).Link(ctx, root.String(), []string{nb.String()})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestJoinTableStore_UnlinkClearsHomeNotebook(t *testing.T) {
	ctx := context.Background()
	notebook, note := uuid.New(), uuid.New()

	t.Run("commits both writes", func(t *testing.T) {
		uowFactory, mock := newMockFactory(t)
		links := NewRelationKinds(uowFactory)[store.KindNotebook].Store

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "note_notebooks" WHERE notebook_id = \$1 AND note_id IN \(\$2\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "notes" SET "notebook_id"=.*notebook_id = `).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, links.Unlink(ctx, notebook.String(), []string{note.String()}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the home column fails", func(t *testing.T) {
		uowFactory, mock := newMockFactory(t)
		links := NewRelationKinds(uowFactory)[store.KindNotebook].Store

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "note_notebooks"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "notes"`).
			WillReturnError(errors.New("lock timeout"))
		mock.ExpectRollback()

		err := links.Unlink(ctx, notebook.String(), []string{note.String()})
		assert.ErrorContains(t, err, "lock timeout")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotebookKind_UnionsJoinRowsAndHomeNotebook(t *testing.T) {
	uowFactory, mock := newMockFactory(t)
	kind := NewRelationKinds(uowFactory)[store.KindNotebook]
	notebook, viaJoin, viaHome, owner := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT "note_id" FROM "note_notebooks"`).
		WillReturnRows(sqlmock.NewRows([]string{"note_id"}).AddRow(viaJoin.String()))
	mock.ExpectQuery(`SELECT \* FROM "notes" WHERE id IN .* AND notebook_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "notebook_id", "user_id", "created_at", "updated_at", "deleted_at"}).
			AddRow(viaHome.String(), "Draft", notebook.String(), owner.String(), time.Now(), time.Now(), nil))

	state, err := assign.NewBuilder(kind.Sources...).Build(context.Background(),
		[]string{viaJoin.String(), viaHome.String()},
		[]assign.ContainerRef{{ID: notebook.String()}},
	)
	require.NoError(t, err)

	assert.Equal(t, []assign.Entry{{ID: notebook.String(), Op: assign.OpAdd}}, state.Entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagFactory_ReusesTitle(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	tagColumns := []string{"id", "title", "user_id", "created_at", "updated_at", "deleted_at"}

	t.Run("existing tag", func(t *testing.T) {
		uowFactory, mock := newMockFactory(t)
		existing := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "tags" WHERE title = \$1 AND user_id = \$2`).
			WillReturnRows(sqlmock.NewRows(tagColumns).
				AddRow(existing.String(), "urgent", user.String(), time.Now(), time.Now(), nil))

		id, err := (&tagFactory{uowFactory: uowFactory, userId: user}).CreateContainer(ctx, "urgent", "")
		require.NoError(t, err)

		assert.Equal(t, existing.String(), id)
		assert.NoError(t, mock.ExpectationsWereMet(), "no insert")
	})

	t.Run("new tag", func(t *testing.T) {
		uowFactory, mock := newMockFactory(t)

		mock.ExpectQuery(`SELECT \* FROM "tags" WHERE title = \$1 AND user_id = \$2`).
			WillReturnRows(sqlmock.NewRows(tagColumns))
		mock.ExpectQuery(`INSERT INTO "tags"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))

		id, err := (&tagFactory{uowFactory: uowFactory, userId: user}).CreateContainer(ctx, "later", "")
		require.NoError(t, err)

		assert.NotEmpty(t, id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOwnedNotes(t *testing.T) {
	ctx := context.Background()
	user, n1, n2 := uuid.New(), uuid.New(), uuid.New()

	t.Run("someone else's note", func(t *testing.T) {
		uowFactory, mock := newMockFactory(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "notes" WHERE id IN .* AND user_id = `).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := ownedNotes(uowFactory)(ctx, user, []uuid.UUID{n1, n2})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("repeated ids count once", func(t *testing.T) {
		uowFactory, mock := newMockFactory(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "notes"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		assert.NoError(t, ownedNotes(uowFactory)(ctx, user, []uuid.UUID{n1, n1}))
	})
}

func TestOwnedNotebooks(t *testing.T) {
	uowFactory, mock := newMockFactory(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "notebooks"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := ownedNotebooks(uowFactory)(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, ErrForbidden)
}
