package iocache

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T, backend schema.DatabaseBackend, connStr string) (*AssessmentStoreImpl, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return newAssessmentStore(db, backend, connStr), mock
}

func TestPostgresRecordScoreUsesReturning(t *testing.T) {
	store, mock := newMockStore(t, schema.PostgreSQLBackend, "postgres://u:p@db:5432/maturity")

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "maturity_scores"`) + `.*VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9\) RETURNING score_id`).
		WithArgs("acme", 3.2, 3.5, 3.4, "3.0", 0, 2, "r.yaml", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"score_id"}).AddRow(int64(42)))

	id, err := store.RecordScore(context.Background(), schema.ScoreRecord{
		SubjectID: "acme", BaseScore: 3.2, Score: 3.5, Composite: 3.4, Bracket: schema.Bracket30,
		AnswerCount: 2, RubricPath: "r.yaml", RecordedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRecordScoreUsesLastInsertID(t *testing.T) {
	store, mock := newMockStore(t, schema.MySQLBackend, "u:p@tcp(db:3306)/maturity")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `maturity_scores`") + `.*VALUES \(\?, \?, \?, \?, \?, \?, \?, \?, \?\)`).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := store.RecordScore(context.Background(), schema.ScoreRecord{SubjectID: "acme", Bracket: schema.Bracket10, RecordedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveLeversCommitsOnce(t *testing.T) {
	store, mock := newMockStore(t, schema.PostgreSQLBackend, "")
	due := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	levers := []schema.Lever{
		{ID: "a", Priority: 1, DueDate: &due},
		{ID: "b", Priority: 2, Risk: schema.RiskReason{Flags: []schema.RiskFlag{schema.FlagConsiderReplacement}}},
	}

	update := regexp.QuoteMeta(`UPDATE "maturity_levers" SET priority = $1, due_date = $2, risk_reason = $3 WHERE plan_id = $4 AND lever_id = $5`)
	mock.ExpectBegin()
	mock.ExpectExec(update).WithArgs(1, due, "", "p1", "a").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(update).WithArgs(2, nil, "| consider replacement", "p1", "b").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.SaveLevers(context.Background(), "p1", levers))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveLeversRollsBackOnFailure(t *testing.T) {
	store, mock := newMockStore(t, schema.PostgreSQLBackend, "")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "maturity_levers"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "maturity_levers"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := store.SaveLevers(context.Background(), "p1", []schema.Lever{{ID: "a"}, {ID: "b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update lever b")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePlanArchivesPreviousPlans(t *testing.T) {
	store, mock := newMockStore(t, schema.PostgreSQLBackend, "")
	plan := schema.GrowthPlan{
		ID: "p2", SubjectID: "acme", Status: schema.ActivePlan,
		Levers: []schema.Lever{{ID: "l1", Title: "Hire", Priority: 1}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "maturity_plans" SET status = $1 WHERE subject_id = $2 AND status = $3`)).
		WithArgs("archived", "acme", "active").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "maturity_plans"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "maturity_levers"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.CreatePlan(context.Background(), plan))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivePlanNoRows(t *testing.T) {
	store, mock := newMockStore(t, schema.MySQLBackend, "")

	mock.ExpectQuery(regexp.QuoteMeta("FROM `maturity_plans`")).
		WithArgs("acme", "active").
		WillReturnError(sql.ErrNoRows)

	_, err := store.ActivePlan(context.Background(), "acme")
	assert.ErrorIs(t, err, contract.ErrNoActivePlan)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetLeverStateChecksExistence(t *testing.T) {
	store, mock := newMockStore(t, schema.MySQLBackend, "")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM `maturity_levers` WHERE plan_id = ? AND lever_id = ?")).
		WithArgs("p1", "gone").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := store.SetLeverState(context.Background(), "p1", "gone", nil, true)
	assert.ErrorIs(t, err, contract.ErrLeverNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseTarget(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		connStr string
		want    string
	}{
		{schema.SQLiteBackend, "/tmp/m.db", "/tmp/m.db"},
		{schema.MySQLBackend, "user:secret@tcp(db:3306)/maturity", "db:3306/maturity"},
		{schema.PostgreSQLBackend, "postgres://user:secret@db:5432/maturity", "db:5432/maturity"},
		{schema.MySQLBackend, "::not a dsn", ""},
		{schema.NoneBackend, "", ""},
	}

	for _, tt := range tests {
		store := &AssessmentStoreImpl{backend: tt.backend, connStr: tt.connStr}
		assert.Equal(t, tt.want, store.databaseTarget(), tt.connStr)
	}
}
