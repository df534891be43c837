package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/myrjola/gumshoe/internal/db"
	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
)

// ErrNotFound is returned when no snapshot exists for the session and case.
var ErrNotFound = errors.NewSentinel("player state not found")

// PlayerStateRepository persists PlayerState snapshots. A snapshot is written
// all-or-nothing in a single transaction so a reload can never observe, say,
// an unlocked hypothesis without its unlock event.
type PlayerStateRepository struct {
	dbs    *db.Database
	logger *slog.Logger
}

func NewPlayerStateRepository(dbs *db.Database, logger *slog.Logger) *PlayerStateRepository {
	return &PlayerStateRepository{
		dbs:    dbs,
		logger: logger.With("source", "PlayerStateRepository"),
	}
}

// Save replaces the stored snapshot for (sessionKey, state.CaseID).
func (r *PlayerStateRepository) Save(ctx context.Context, sessionKey string, state models.PlayerState) error {
	tx, err := r.dbs.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin snapshot transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.Error("could not roll back snapshot transaction", errors.SlogError(rollbackErr))
		}
	}()

	tables := []string{
		"player_states", "discovered_evidence", "unlocked_hypotheses", "unlock_events", "verdict_attempts",
	}
	for _, table := range tables {
		if _, err = tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE session_key = ? AND case_id = ?`,
			sessionKey, state.CaseID); err != nil {
			return errors.Wrap(err, "clear previous snapshot", slog.String("table", table))
		}
	}

	if _, err = tx.ExecContext(ctx, `
INSERT INTO player_states (session_key, case_id, current_location_id, attempts_remaining, investigation_points_spent)
VALUES (?, ?, ?, ?, ?)`,
		sessionKey, state.CaseID, state.CurrentLocationID,
		state.AttemptsRemaining, state.InvestigationPointsSpent); err != nil {
		return errors.Wrap(err, "insert player state")
	}

	for i, evidenceID := range state.DiscoveredEvidenceIDs {
		if _, err = tx.ExecContext(ctx, `
INSERT INTO discovered_evidence (session_key, case_id, position, evidence_id) VALUES (?, ?, ?, ?)`,
			sessionKey, state.CaseID, i, evidenceID); err != nil {
			return errors.Wrap(err, "insert discovered evidence", slog.String("evidence_id", evidenceID))
		}
	}

	for i, hypothesisID := range state.UnlockedHypothesisIDs {
		if _, err = tx.ExecContext(ctx, `
INSERT INTO unlocked_hypotheses (session_key, case_id, position, hypothesis_id) VALUES (?, ?, ?, ?)`,
			sessionKey, state.CaseID, i, hypothesisID); err != nil {
			return errors.Wrap(err, "insert unlocked hypothesis", slog.String("hypothesis_id", hypothesisID))
		}
	}

	for i, event := range state.UnlockEvents {
		pending := 0
		for _, id := range state.PendingNotificationIDs {
			if id == event.ID {
				pending = 1
				break
			}
		}
		if _, err = tx.ExecContext(ctx, `
INSERT INTO unlock_events
    (session_key, case_id, position, event_id, hypothesis_id,
     cause_kind, cause_evidence_id, cause_metric, cause_threshold,
     timestamp, acknowledged, pending)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sessionKey, state.CaseID, i, event.ID, event.HypothesisID,
			string(event.Cause.Kind), event.Cause.EvidenceID, string(event.Cause.Metric), event.Cause.Threshold,
			event.Timestamp.UTC().Format(time.RFC3339Nano), boolToInt(event.Acknowledged), pending); err != nil {
			return errors.Wrap(err, "insert unlock event", slog.String("event_id", event.ID))
		}
	}

	for i, attempt := range state.VerdictAttempts {
		var cited []byte
		if cited, err = json.Marshal(attempt.CitedEvidenceIDs); err != nil {
			return errors.Wrap(err, "marshal cited evidence")
		}
		if _, err = tx.ExecContext(ctx, `
INSERT INTO verdict_attempts
    (session_key, case_id, position, accused_id, reasoning, cited_evidence_ids, correct, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sessionKey, state.CaseID, i, attempt.AccusedID, attempt.Reasoning, string(cited),
			boolToInt(attempt.Correct), attempt.Timestamp.UTC().Format(time.RFC3339Nano)); err != nil {
			return errors.Wrap(err, "insert verdict attempt", slog.Int("position", i))
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit snapshot")
	}
	return nil
}

// Load reconstructs the snapshot for (sessionKey, caseID). The round trip
// through Save and Load is lossless.
func (r *PlayerStateRepository) Load(
	ctx context.Context,
	sessionKey string,
	caseID string,
) (models.PlayerState, error) {
	state := models.PlayerState{CaseID: caseID}

	row := r.dbs.ReadOnly.QueryRowxContext(ctx, `
SELECT current_location_id, attempts_remaining, investigation_points_spent
FROM player_states
WHERE session_key = ? AND case_id = ?`, sessionKey, caseID)
	if err := row.Scan(
		&state.CurrentLocationID, &state.AttemptsRemaining, &state.InvestigationPointsSpent,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PlayerState{}, ErrNotFound
		}
		return models.PlayerState{}, errors.Wrap(err, "read player state")
	}

	if err := r.dbs.ReadOnly.SelectContext(ctx, &state.DiscoveredEvidenceIDs, `
SELECT evidence_id FROM discovered_evidence
WHERE session_key = ? AND case_id = ? ORDER BY position`, sessionKey, caseID); err != nil {
		return models.PlayerState{}, errors.Wrap(err, "read discovered evidence")
	}

	if err := r.dbs.ReadOnly.SelectContext(ctx, &state.UnlockedHypothesisIDs, `
SELECT hypothesis_id FROM unlocked_hypotheses
WHERE session_key = ? AND case_id = ? ORDER BY position`, sessionKey, caseID); err != nil {
		return models.PlayerState{}, errors.Wrap(err, "read unlocked hypotheses")
	}

	eventRows, err := r.dbs.ReadOnly.QueryxContext(ctx, `
SELECT event_id, hypothesis_id, cause_kind, cause_evidence_id, cause_metric, cause_threshold,
       timestamp, acknowledged, pending
FROM unlock_events
WHERE session_key = ? AND case_id = ? ORDER BY position`, sessionKey, caseID)
	if err != nil {
		return models.PlayerState{}, errors.Wrap(err, "query unlock events")
	}
	defer r.closeRows(eventRows)
	for eventRows.Next() {
		var (
			event        models.UnlockEvent
			causeKind    string
			causeMetric  string
			timestamp    string
			acknowledged int
			pending      int
		)
		if err = eventRows.Scan(
			&event.ID, &event.HypothesisID, &causeKind, &event.Cause.EvidenceID, &causeMetric,
			&event.Cause.Threshold, &timestamp, &acknowledged, &pending,
		); err != nil {
			return models.PlayerState{}, errors.Wrap(err, "scan unlock event")
		}
		event.Cause.Kind = models.CauseKind(causeKind)
		event.Cause.Metric = models.Metric(causeMetric)
		if event.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp); err != nil {
			return models.PlayerState{}, errors.Wrap(err, "parse unlock event timestamp")
		}
		event.Acknowledged = acknowledged != 0
		state.UnlockEvents = append(state.UnlockEvents, event)
		if pending != 0 {
			state.PendingNotificationIDs = append(state.PendingNotificationIDs, event.ID)
		}
	}
	if err = eventRows.Err(); err != nil {
		return models.PlayerState{}, errors.Wrap(err, "unlock event rows")
	}

	attemptRows, err := r.dbs.ReadOnly.QueryxContext(ctx, `
SELECT accused_id, reasoning, cited_evidence_ids, correct, timestamp
FROM verdict_attempts
WHERE session_key = ? AND case_id = ? ORDER BY position`, sessionKey, caseID)
	if err != nil {
		return models.PlayerState{}, errors.Wrap(err, "query verdict attempts")
	}
	defer r.closeRows(attemptRows)
	for attemptRows.Next() {
		var (
			attempt   models.VerdictAttempt
			cited     string
			correct   int
			timestamp string
		)
		if err = attemptRows.Scan(&attempt.AccusedID, &attempt.Reasoning, &cited, &correct, &timestamp); err != nil {
			return models.PlayerState{}, errors.Wrap(err, "scan verdict attempt")
		}
		if err = json.Unmarshal([]byte(cited), &attempt.CitedEvidenceIDs); err != nil {
			return models.PlayerState{}, errors.Wrap(err, "unmarshal cited evidence")
		}
		attempt.Correct = correct != 0
		if attempt.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp); err != nil {
			return models.PlayerState{}, errors.Wrap(err, "parse verdict attempt timestamp")
		}
		state.VerdictAttempts = append(state.VerdictAttempts, attempt)
	}
	if err = attemptRows.Err(); err != nil {
		return models.PlayerState{}, errors.Wrap(err, "verdict attempt rows")
	}

	return state, nil
}

func (r *PlayerStateRepository) closeRows(rows interface{ Close() error }) {
	if err := rows.Close(); err != nil {
		r.logger.Error("could not close rows", errors.SlogError(errors.Wrap(err, "close rows")))
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
