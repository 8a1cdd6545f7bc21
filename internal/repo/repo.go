// Package repo persists the dev server's entities. Each entity is stored as
// a JSON document; the handful of columns the server filters on live beside
// the document.
package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"larplaner/internal/wire"
)

var ErrNotFound = errors.New("not found")

type Repo struct {
	DB *sql.DB
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func listDocs[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []T
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(doc), &v); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func getDoc[T any](ctx context.Context, db *sql.DB, query string, args ...any) (T, error) {
	var v T
	var doc string
	err := db.QueryRowContext(ctx, query, args...).Scan(&doc)
	if err == sql.ErrNoRows {
		return v, ErrNotFound
	}
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return v, fmt.Errorf("decode document: %w", err)
	}
	return v, nil
}

func mustJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func (r Repo) deleteRow(ctx context.Context, table, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM `+table+` WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Events ---

func (r Repo) ListEvents(ctx context.Context) ([]wire.Event, error) {
	return listDocs[wire.Event](ctx, r.DB, `SELECT doc_json FROM events ORDER BY created_at`)
}

func (r Repo) GetEvent(ctx context.Context, id string) (wire.Event, error) {
	return getDoc[wire.Event](ctx, r.DB, `SELECT doc_json FROM events WHERE id=?`, id)
}

func (r Repo) GetEventByGameSession(ctx context.Context, gameID string) (wire.Event, error) {
	return getDoc[wire.Event](ctx, r.DB, `SELECT doc_json FROM events WHERE game_session_id=?`, gameID)
}

func (r Repo) InsertEvent(ctx context.Context, e wire.Event) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO events(id,status,scenario_id,game_session_id,doc_json,created_at) VALUES (?,?,?,?,?,?)`,
		e.ID, e.Status, e.ScenarioID, e.GameSessionID, mustJSON(e), now())
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r Repo) UpdateEvent(ctx context.Context, e wire.Event) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE events SET status=?, scenario_id=?, game_session_id=?, doc_json=? WHERE id=?`,
		e.Status, e.ScenarioID, e.GameSessionID, mustJSON(e), e.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteEvent(ctx context.Context, id string) error {
	return r.deleteRow(ctx, "events", id)
}

// --- Roles ---

func (r Repo) ListRoles(ctx context.Context) ([]wire.Role, error) {
	return listDocs[wire.Role](ctx, r.DB, `SELECT doc_json FROM roles ORDER BY created_at`)
}

func (r Repo) GetRole(ctx context.Context, id string) (wire.Role, error) {
	return getDoc[wire.Role](ctx, r.DB, `SELECT doc_json FROM roles WHERE id=?`, id)
}

func (r Repo) InsertRole(ctx context.Context, role wire.Role) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO roles(id,doc_json,created_at) VALUES (?,?,?)`,
		role.ID, mustJSON(role), now())
	if err != nil {
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (r Repo) UpdateRole(ctx context.Context, role wire.Role) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE roles SET doc_json=? WHERE id=?`, mustJSON(role), role.ID)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteRole(ctx context.Context, id string) error {
	return r.deleteRow(ctx, "roles", id)
}

// --- Scenarios ---

func (r Repo) ListScenarios(ctx context.Context) ([]wire.Scenario, error) {
	return listDocs[wire.Scenario](ctx, r.DB, `SELECT doc_json FROM scenarios ORDER BY created_at`)
}

func (r Repo) GetScenario(ctx context.Context, id string) (wire.Scenario, error) {
	return getDoc[wire.Scenario](ctx, r.DB, `SELECT doc_json FROM scenarios WHERE id=?`, id)
}

func (r Repo) InsertScenario(ctx context.Context, s wire.Scenario) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO scenarios(id,doc_json,created_at) VALUES (?,?,?)`,
		s.ID, mustJSON(s), now())
	if err != nil {
		return fmt.Errorf("insert scenario: %w", err)
	}
	return nil
}

func (r Repo) UpdateScenario(ctx context.Context, s wire.Scenario) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE scenarios SET doc_json=? WHERE id=?`, mustJSON(s), s.ID)
	if err != nil {
		return fmt.Errorf("update scenario: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteScenario(ctx context.Context, id string) error {
	return r.deleteRow(ctx, "scenarios", id)
}

// --- Tags ---

func (r Repo) ListTags(ctx context.Context) ([]wire.Tag, error) {
	return listDocs[wire.Tag](ctx, r.DB, `SELECT doc_json FROM tags ORDER BY created_at`)
}

func (r Repo) GetTag(ctx context.Context, id string) (wire.Tag, error) {
	return getDoc[wire.Tag](ctx, r.DB, `SELECT doc_json FROM tags WHERE id=?`, id)
}

func (r Repo) GetTags(ctx context.Context, ids []string) ([]wire.Tag, error) {
	out := make([]wire.Tag, 0, len(ids))
	for _, id := range ids {
		t, err := r.GetTag(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("tag %s: %w", id, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (r Repo) InsertTag(ctx context.Context, t wire.Tag) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO tags(id,value,doc_json,created_at) VALUES (?,?,?,?)`,
		t.ID, t.Value, mustJSON(t), now())
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

func (r Repo) UpdateTag(ctx context.Context, t wire.Tag) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE tags SET value=?, doc_json=? WHERE id=?`, t.Value, mustJSON(t), t.ID)
	if err != nil {
		return fmt.Errorf("update tag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteTag(ctx context.Context, id string) error {
	return r.deleteRow(ctx, "tags", id)
}

// --- Game sessions ---

func (r Repo) ListGameSessions(ctx context.Context) ([]wire.GameSession, error) {
	return listDocs[wire.GameSession](ctx, r.DB, `SELECT doc_json FROM game_sessions ORDER BY created_at`)
}

func (r Repo) GetGameSession(ctx context.Context, id string) (wire.GameSession, error) {
	return getDoc[wire.GameSession](ctx, r.DB, `SELECT doc_json FROM game_sessions WHERE id=?`, id)
}

func (r Repo) InsertGameSession(ctx context.Context, g wire.GameSession) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO game_sessions(id,event_id,doc_json,created_at) VALUES (?,?,?,?)`,
		g.ID, g.EventID, mustJSON(g), now())
	if err != nil {
		return fmt.Errorf("insert game session: %w", err)
	}
	return nil
}

func (r Repo) UpdateGameSession(ctx context.Context, g wire.GameSession) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE game_sessions SET event_id=?, doc_json=? WHERE id=?`,
		g.EventID, mustJSON(g), g.ID)
	if err != nil {
		return fmt.Errorf("update game session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteGameSession(ctx context.Context, id string) error {
	return r.deleteRow(ctx, "game_sessions", id)
}
