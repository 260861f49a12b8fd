// Package schemaguard tightens database invariants in two steps. Phase one
// (Scan, Quarantine) finds and clears rows that would violate the new rule.
// Phase two (Enforce) installs the rule and refuses while violations remain.
// Relax removes a rule directly.
package schemaguard

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codr1/matchday/internal/db"
	dbgen "github.com/codr1/matchday/internal/db/generated"
)

var (
	ErrUnknownTightening = errors.New("unknown tightening")
	ErrViolationsRemain  = errors.New("violating rows remain")
	ErrNotQuarantinable  = errors.New("tightening does not allow quarantine")
)

// Tightening is one invariant that can be enforced after data exists.
// ViolationQuery must select the id column of every violating row.
type Tightening struct {
	Name           string
	Table          string
	Description    string
	ViolationQuery string
	Backfill       []string
	Quarantinable  bool
	Enforce        []string
	Relax          []string
}

type Report struct {
	Tightening   string  `json:"tightening"`
	Table        string  `json:"table"`
	Backfilled   int64   `json:"backfilled"`
	ViolatingIDs []int64 `json:"violatingIds"`
	Quarantined  int     `json:"quarantined"`
	BatchID      string  `json:"batchId,omitempty"`
	Enforced     bool    `json:"enforced"`
}

type Status struct {
	Name        string     `json:"name"`
	Table       string     `json:"table"`
	Description string     `json:"description"`
	Enforced    bool       `json:"enforced"`
	EnforcedAt  *time.Time `json:"enforcedAt,omitempty"`
	Violations  int        `json:"violations"`
	Quarantined int64      `json:"quarantined"`
}

type Guard struct {
	db          *db.DB
	tightenings map[string]Tightening
	order       []string
}

// New returns a guard over the given tightenings, or the built-in set when
// none are passed.
func New(database *db.DB, tightenings ...Tightening) *Guard {
	if len(tightenings) == 0 {
		tightenings = Builtin()
	}
	g := &Guard{
		db:          database,
		tightenings: make(map[string]Tightening, len(tightenings)),
	}
	for _, t := range tightenings {
		if _, ok := g.tightenings[t.Name]; !ok {
			g.order = append(g.order, t.Name)
		}
		g.tightenings[t.Name] = t
	}
	return g
}

func (g *Guard) Tightenings() []Tightening {
	out := make([]Tightening, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.tightenings[name])
	}
	return out
}

func (g *Guard) lookup(name string) (Tightening, error) {
	t, ok := g.tightenings[name]
	if !ok {
		return Tightening{}, fmt.Errorf("%w: %s", ErrUnknownTightening, name)
	}
	return t, nil
}

// Scan runs the optional backfill and reports the rows that still violate
// the tightening. It never changes the schema.
func (g *Guard) Scan(ctx context.Context, name string, backfill bool) (Report, error) {
	t, err := g.lookup(name)
	if err != nil {
		return Report{}, err
	}
	report := Report{Tightening: t.Name, Table: t.Table}

	err = g.db.RunInTxRetry(ctx, func(tx *db.DB) error {
		report.Backfilled = 0
		if backfill {
			for _, stmt := range t.Backfill {
				result, err := tx.Conn().ExecContext(ctx, stmt)
				if err != nil {
					return fmt.Errorf("backfill %s: %w", t.Name, err)
				}
				affected, err := result.RowsAffected()
				if err != nil {
					return fmt.Errorf("backfill %s: %w", t.Name, err)
				}
				report.Backfilled += affected
			}
		}
		ids, err := violatingIDs(ctx, tx.Conn(), t)
		if err != nil {
			return err
		}
		report.ViolatingIDs = ids

		enforced, err := isEnforced(ctx, tx.Queries, t.Name)
		if err != nil {
			return err
		}
		report.Enforced = enforced
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	log.Ctx(ctx).Info().
		Str("tightening", t.Name).
		Int64("backfilled", report.Backfilled).
		Int("violations", len(report.ViolatingIDs)).
		Msg("Schema tightening scanned")
	return report, nil
}

// Quarantine copies every violating row into schema_quarantine as JSON and
// deletes it from its table, all in one transaction.
func (g *Guard) Quarantine(ctx context.Context, name string) (Report, error) {
	t, err := g.lookup(name)
	if err != nil {
		return Report{}, err
	}
	if !t.Quarantinable {
		return Report{}, fmt.Errorf("%w: %s", ErrNotQuarantinable, t.Name)
	}

	report := Report{Tightening: t.Name, Table: t.Table, BatchID: uuid.NewString()}
	err = g.db.RunInTxRetry(ctx, func(tx *db.DB) error {
		report.Quarantined = 0
		ids, err := violatingIDs(ctx, tx.Conn(), t)
		if err != nil {
			return err
		}
		report.ViolatingIDs = ids

		for _, id := range ids {
			data, err := rowJSON(ctx, tx.Conn(), t.Table, id)
			if err != nil {
				return err
			}
			err = tx.Queries.InsertQuarantineRow(ctx, dbgen.InsertQuarantineRowParams{
				BatchID:    report.BatchID,
				Tightening: t.Name,
				TableName:  t.Table,
				RowID:      id,
				RowData:    data,
			})
			if err != nil {
				return fmt.Errorf("quarantine %s row %d: %w", t.Table, id, err)
			}
			if _, err := tx.Conn().ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.Table), id); err != nil {
				return fmt.Errorf("delete %s row %d: %w", t.Table, id, err)
			}
			report.Quarantined++
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	log.Ctx(ctx).Warn().
		Str("tightening", t.Name).
		Str("batch_id", report.BatchID).
		Int("quarantined", report.Quarantined).
		Msg("Violating rows quarantined")
	return report, nil
}

// Enforce re-checks for violations inside its own transaction and only then
// installs the rule. Enforcing twice is a no-op.
func (g *Guard) Enforce(ctx context.Context, name string) (Report, error) {
	t, err := g.lookup(name)
	if err != nil {
		return Report{}, err
	}
	report := Report{Tightening: t.Name, Table: t.Table}

	err = g.db.RunInTxRetry(ctx, func(tx *db.DB) error {
		ids, err := violatingIDs(ctx, tx.Conn(), t)
		if err != nil {
			return err
		}
		report.ViolatingIDs = ids
		if len(ids) > 0 {
			return fmt.Errorf("%w: %s has %d violating row(s) in %s", ErrViolationsRemain, t.Name, len(ids), t.Table)
		}
		for _, stmt := range t.Enforce {
			if _, err := tx.Conn().ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("enforce %s: %w", t.Name, err)
			}
		}
		if err := tx.Queries.RecordSchemaTightening(ctx, t.Name); err != nil {
			return fmt.Errorf("record %s: %w", t.Name, err)
		}
		return nil
	})
	if err != nil {
		return report, err
	}
	report.Enforced = true

	log.Ctx(ctx).Info().Str("tightening", t.Name).Msg("Schema tightening enforced")
	return report, nil
}

// Relax drops the rule. It is always allowed and needs no scan.
func (g *Guard) Relax(ctx context.Context, name string) error {
	t, err := g.lookup(name)
	if err != nil {
		return err
	}
	err = g.db.RunInTxRetry(ctx, func(tx *db.DB) error {
		for _, stmt := range t.Relax {
			if _, err := tx.Conn().ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("relax %s: %w", t.Name, err)
			}
		}
		return tx.Queries.DeleteSchemaTightening(ctx, t.Name)
	})
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("tightening", t.Name).Msg("Schema tightening relaxed")
	return nil
}

func (g *Guard) Status(ctx context.Context) ([]Status, error) {
	enforced, err := g.db.Queries.ListSchemaTightenings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tightenings: %w", err)
	}
	enforcedAt := make(map[string]time.Time, len(enforced))
	for _, row := range enforced {
		enforcedAt[row.Name] = row.EnforcedAt
	}

	statuses := make([]Status, 0, len(g.order))
	for _, t := range g.Tightenings() {
		ids, err := violatingIDs(ctx, g.db.DB, t)
		if err != nil {
			return nil, err
		}
		quarantined, err := g.db.Queries.CountQuarantineRows(ctx, t.Name)
		if err != nil {
			return nil, fmt.Errorf("count quarantine rows: %w", err)
		}
		status := Status{
			Name:        t.Name,
			Table:       t.Table,
			Description: t.Description,
			Violations:  len(ids),
			Quarantined: quarantined,
		}
		if at, ok := enforcedAt[t.Name]; ok {
			status.Enforced = true
			status.EnforcedAt = &at
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

type ApplyOptions struct {
	// Quarantine moves violating rows aside before enforcing, where the
	// tightening allows it.
	Quarantine bool
}

// Apply brings every tightening that is not yet enforced through both
// phases. A tightening that still has violations is skipped and reported,
// not treated as a failure.
func (g *Guard) Apply(ctx context.Context, opts ApplyOptions) ([]Report, error) {
	logger := log.Ctx(ctx)
	var reports []Report
	for _, t := range g.Tightenings() {
		enforced, err := isEnforced(ctx, g.db.Queries, t.Name)
		if err != nil {
			return reports, err
		}
		if enforced {
			continue
		}

		report, err := g.Scan(ctx, t.Name, true)
		if err != nil {
			return reports, err
		}
		if len(report.ViolatingIDs) > 0 && opts.Quarantine && t.Quarantinable {
			quarantined, err := g.Quarantine(ctx, t.Name)
			if err != nil {
				return reports, err
			}
			report.Quarantined = quarantined.Quarantined
			report.BatchID = quarantined.BatchID
		}

		enforcedReport, err := g.Enforce(ctx, t.Name)
		report.ViolatingIDs = enforcedReport.ViolatingIDs
		if errors.Is(err, ErrViolationsRemain) {
			logger.Warn().
				Str("tightening", t.Name).
				Int("violations", len(enforcedReport.ViolatingIDs)).
				Msg("Schema tightening left unenforced")
			reports = append(reports, report)
			continue
		}
		if err != nil {
			return reports, err
		}
		report.Enforced = true
		reports = append(reports, report)
	}
	return reports, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func violatingIDs(ctx context.Context, q queryer, t Tightening) ([]int64, error) {
	rows, err := q.QueryContext(ctx, t.ViolationQuery)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", t.Name, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.Name, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", t.Name, err)
	}
	return ids, nil
}

func isEnforced(ctx context.Context, q *dbgen.Queries, name string) (bool, error) {
	_, err := q.GetSchemaTightening(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load tightening %s: %w", name, err)
	}
	return true, nil
}

// rowJSON serialises one row as a column -> value object.
func rowJSON(ctx context.Context, q queryer, table string, id int64) (string, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s WHERE id = ?", table), id)
	if err != nil {
		return "", fmt.Errorf("load %s row %d: %w", table, id, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("load %s row %d: %w", table, id, sql.ErrNoRows)
	}

	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	if err := rows.Scan(pointers...); err != nil {
		return "", fmt.Errorf("load %s row %d: %w", table, id, err)
	}

	record := make(map[string]any, len(columns))
	for i, column := range columns {
		if raw, ok := values[i].([]byte); ok {
			record[column] = string(raw)
			continue
		}
		record[column] = values[i]
	}
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode %s row %d: %w", table, id, err)
	}
	return string(data), nil
}
