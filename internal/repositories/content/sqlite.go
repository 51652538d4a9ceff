package content

import (
	"context"
	"database/sql"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS campaigns (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	start_scenario_id TEXT NOT NULL,
	faction TEXT NOT NULL DEFAULT '',
	start_stats TEXT NOT NULL DEFAULT '',
	position INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS scenarios (
	id TEXT PRIMARY KEY,
	description TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS choices (
	scenario_id TEXT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
	choice_index INTEGER NOT NULL,
	text TEXT NOT NULL,
	next_scenario_id TEXT NOT NULL,
	effect TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (scenario_id, choice_index)
);
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const settingStartScenario = "start_scenario_id"

// SQLiteStore is a Repository backed by a SQLite content database
type SQLiteStore struct {
	db *sql.DB
}

var _ Repository = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) a content database at path
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.InvalidArgument("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite content database")
	}
	// SQLite serializes writers; one connection keeps imports simple.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping sqlite content database")
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to apply content schema")
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database handle
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Import writes a bundle, replacing scenarios and campaigns with the same
// IDs. Raw effect strings are stored as authored.
func (s *SQLiteStore) Import(ctx context.Context, b *Bundle) error {
	if b == nil {
		return errors.InvalidArgument("bundle is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin import")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		settingStartScenario, b.StartScenarioID(),
	); err != nil {
		return errors.Wrap(err, "failed to store start scenario")
	}

	for _, sc := range b.Scenarios {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scenarios (id, description) VALUES (?, ?)
			 ON CONFLICT(id) DO UPDATE SET description = excluded.description`,
			sc.ID, sc.Description,
		); err != nil {
			return errors.Wrapf(err, "failed to import scenario %s", sc.ID)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM choices WHERE scenario_id = ?`, sc.ID); err != nil {
			return errors.Wrapf(err, "failed to clear choices of %s", sc.ID)
		}
		for i, ch := range sc.Choices {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO choices (scenario_id, choice_index, text, next_scenario_id, effect)
				 VALUES (?, ?, ?, ?, ?)`,
				sc.ID, i, ch.Text, ch.Next, ch.Effect,
			); err != nil {
				return errors.Wrapf(err, "failed to import choice %d of %s", i, sc.ID)
			}
		}
	}

	for i, c := range b.Campaigns {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO campaigns (id, name, description, start_scenario_id, faction, start_stats, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   name = excluded.name,
			   description = excluded.description,
			   start_scenario_id = excluded.start_scenario_id,
			   faction = excluded.faction,
			   start_stats = excluded.start_stats,
			   position = excluded.position`,
			c.ID, c.Name, c.Description, c.StartScenario, c.Faction, c.StartStats, i,
		); err != nil {
			return errors.Wrapf(err, "failed to import campaign %s", c.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit import")
	}
	return nil
}

// StartScenarioID returns the stored start scenario, or the default
func (s *SQLiteStore) StartScenarioID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, settingStartScenario).Scan(&id)
	if err == sql.ErrNoRows {
		return DefaultStartScenarioID, nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to read start scenario")
	}
	return id, nil
}

// GetScenario implements Repository
func (s *SQLiteStore) GetScenario(ctx context.Context, input GetScenarioInput) (*GetScenarioOutput, error) {
	sc := &entities.Scenario{ID: input.ID}
	err := s.db.QueryRowContext(ctx, `SELECT description FROM scenarios WHERE id = ?`, input.ID).Scan(&sc.Description)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("scenario %q not found", input.ID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get scenario %s", input.ID)
	}

	docs, err := s.choiceDocs(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	sc.Choices, _ = compileChoices(ctx, input.ID, docs)

	return &GetScenarioOutput{Scenario: sc}, nil
}

// ListScenarioIDs implements Repository
func (s *SQLiteStore) ListScenarioIDs(ctx context.Context, _ ListScenarioIDsInput) (*ListScenarioIDsOutput, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM scenarios ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list scenarios")
	}
	defer func() { _ = rows.Close() }()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan scenario id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list scenarios")
	}
	return &ListScenarioIDsOutput{IDs: ids}, nil
}

// ListCampaigns implements Repository
func (s *SQLiteStore) ListCampaigns(ctx context.Context, _ ListCampaignsInput) (*ListCampaignsOutput, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, start_scenario_id, faction, start_stats
		 FROM campaigns ORDER BY position, id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list campaigns")
	}
	defer func() { _ = rows.Close() }()

	out := []*entities.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list campaigns")
	}
	return &ListCampaignsOutput{Campaigns: out}, nil
}

// GetCampaign implements Repository
func (s *SQLiteStore) GetCampaign(ctx context.Context, input GetCampaignInput) (*GetCampaignOutput, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, start_scenario_id, faction, start_stats
		 FROM campaigns WHERE id = ?`, input.ID)
	c, err := scanCampaign(row)
	if errors.IsNotFound(err) {
		return nil, errors.NotFoundf("campaign %q not found", input.ID)
	}
	if err != nil {
		return nil, err
	}
	return &GetCampaignOutput{Campaign: c}, nil
}

// Diagnostics implements Repository by re-parsing every stored effect
func (s *SQLiteStore) Diagnostics(ctx context.Context, _ DiagnosticsInput) (*DiagnosticsOutput, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT scenario_id, choice_index, text, next_scenario_id, effect
		 FROM choices WHERE effect <> '' ORDER BY scenario_id, choice_index`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list choices")
	}
	defer func() { _ = rows.Close() }()

	byScenario := map[string][]indexedChoice{}
	for rows.Next() {
		var ic indexedChoice
		var scenarioID string
		if err := rows.Scan(&scenarioID, &ic.index, &ic.doc.Text, &ic.doc.Next, &ic.doc.Effect); err != nil {
			return nil, errors.Wrap(err, "failed to scan choice")
		}
		byScenario[scenarioID] = append(byScenario[scenarioID], ic)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list choices")
	}

	ids := make([]string, 0, len(byScenario))
	for id := range byScenario {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	diags := []entities.EffectDiagnostic{}
	for _, id := range ids {
		for _, ic := range byScenario[id] {
			if _, diag := compileChoice(ctx, id, ic.index, ic.doc); diag != nil {
				diags = append(diags, *diag)
			}
		}
	}
	return &DiagnosticsOutput{Diagnostics: diags}, nil
}

// Export reads the whole database back into a bundle
func (s *SQLiteStore) Export(ctx context.Context) (*Bundle, error) {
	start, err := s.StartScenarioID(ctx)
	if err != nil {
		return nil, err
	}
	b := &Bundle{StartScenario: start}

	ids, err := s.ListScenarioIDs(ctx, ListScenarioIDsInput{})
	if err != nil {
		return nil, err
	}
	for _, id := range ids.IDs {
		var desc string
		if err := s.db.QueryRowContext(ctx, `SELECT description FROM scenarios WHERE id = ?`, id).Scan(&desc); err != nil {
			return nil, errors.Wrapf(err, "failed to read scenario %s", id)
		}
		docs, err := s.choiceDocs(ctx, id)
		if err != nil {
			return nil, err
		}
		b.Scenarios = append(b.Scenarios, ScenarioDoc{ID: id, Description: desc, Choices: docs})
	}

	campaigns, err := s.ListCampaigns(ctx, ListCampaignsInput{})
	if err != nil {
		return nil, err
	}
	for _, c := range campaigns.Campaigns {
		b.Campaigns = append(b.Campaigns, CampaignDoc{
			ID:            c.ID,
			Name:          c.Name,
			Description:   c.Description,
			StartScenario: c.StartScenarioID,
			Faction:       c.FactionTag,
			StartStats:    c.StartStats,
		})
	}
	return b, nil
}

type indexedChoice struct {
	index int
	doc   ChoiceDoc
}

func (s *SQLiteStore) choiceDocs(ctx context.Context, scenarioID string) ([]ChoiceDoc, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT text, next_scenario_id, effect FROM choices
		 WHERE scenario_id = ? ORDER BY choice_index`, scenarioID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get choices of %s", scenarioID)
	}
	defer func() { _ = rows.Close() }()

	var docs []ChoiceDoc
	for rows.Next() {
		var d ChoiceDoc
		if err := rows.Scan(&d.Text, &d.Next, &d.Effect); err != nil {
			return nil, errors.Wrap(err, "failed to scan choice")
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to get choices of %s", scenarioID)
	}
	return docs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*entities.Campaign, error) {
	var c entities.Campaign
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.StartScenarioID, &c.FactionTag, &c.StartStats)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("campaign not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan campaign")
	}
	return &c, nil
}
