package termdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/giellatekno/termwiki/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo persists satni concept trees. A concept is keyed by its wiki
// page name; upserting replaces the whole tree below it, matching the
// page-at-a-time granularity of the wiki itself.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo creates a repository over an existing pool.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// UpsertConcept writes one concept tree, replacing any previous
// version of the same page.
func (r *Repo) UpsertConcept(ctx context.Context, concept domain.SatniConcept) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapError(err, concept.Name)
	}
	defer tx.Rollback(ctx)

	conceptID, err := upsertConceptRow(ctx, tx, concept)
	if err != nil {
		return mapError(err, concept.Name)
	}

	if err := deleteLanguageConcepts(ctx, tx, conceptID); err != nil {
		return mapError(err, concept.Name)
	}

	for _, lc := range concept.Concepts {
		if err := insertLanguageConcept(ctx, tx, conceptID, lc); err != nil {
			return mapError(err, concept.Name)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError(err, concept.Name)
	}
	return nil
}

// UpsertConcepts writes a batch of concept trees, one transaction each.
// The first failure aborts the batch; callers decide whether that is
// fatal.
func (r *Repo) UpsertConcepts(ctx context.Context, concepts []domain.SatniConcept) error {
	for _, concept := range concepts {
		if err := r.UpsertConcept(ctx, concept); err != nil {
			return err
		}
	}
	return nil
}

// DeleteConcept removes a concept tree by page name.
func (r *Repo) DeleteConcept(ctx context.Context, name string) error {
	sql, args, err := psql.Delete("concepts").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return mapError(err, name)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, name)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("concept %q: %w", name, domain.ErrNotFound)
	}
	return nil
}

// GetConcept reads a concept tree back by page name.
func (r *Repo) GetConcept(ctx context.Context, name string) (*domain.SatniConcept, error) {
	sql, args, err := psql.Select("id", "collections").
		From("concepts").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, mapError(err, name)
	}

	var (
		conceptID   uuid.UUID
		collections []string
	)
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&conceptID, &collections); err != nil {
		return nil, mapError(err, name)
	}

	concept := &domain.SatniConcept{Name: name, Collections: collections}
	concept.Concepts, err = r.languageConcepts(ctx, conceptID)
	if err != nil {
		return nil, mapError(err, name)
	}
	return concept, nil
}

// CountTerms returns the number of stored terms in a language.
func (r *Repo) CountTerms(ctx context.Context, isoLanguage string) (int, error) {
	sql, args, err := psql.Select("count(*)").
		From("terms t").
		Join("language_concepts lc ON lc.id = t.language_concept_id").
		Where(squirrel.Eq{"lc.language": isoLanguage}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("termdb: count terms: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("termdb: count terms: %w", err)
	}
	return count, nil
}

func upsertConceptRow(ctx context.Context, tx pgx.Tx, concept domain.SatniConcept) (uuid.UUID, error) {
	sql, args, err := psql.Insert("concepts").
		Columns("id", "name", "collections").
		Values(uuid.New(), concept.Name, concept.Collections).
		Suffix("ON CONFLICT (name) DO UPDATE SET collections = EXCLUDED.collections, updated_at = now() RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func deleteLanguageConcepts(ctx context.Context, tx pgx.Tx, conceptID uuid.UUID) error {
	sql, args, err := psql.Delete("language_concepts").
		Where(squirrel.Eq{"concept_id": conceptID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	return err
}

func insertLanguageConcept(ctx context.Context, tx pgx.Tx, conceptID uuid.UUID, lc domain.SatniLanguageConcept) error {
	sql, args, err := psql.Insert("language_concepts").
		Columns("id", "concept_id", "language", "definition", "explanation").
		Values(uuid.New(), conceptID, lc.Language, nullIfEmpty(lc.Definition), nullIfEmpty(lc.Explanation)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}

	var lcID uuid.UUID
	if err := tx.QueryRow(ctx, sql, args...).Scan(&lcID); err != nil {
		return err
	}

	for _, term := range lc.Terms {
		insert := psql.Insert("terms").
			Columns("id", "language_concept_id", "lemma", "pos", "status",
				"sanctioned", "note", "source", "country", "dialect").
			Values(uuid.New(), lcID, term.Expression.Lemma,
				nullIfEmpty(term.Expression.Pos), nullIfEmpty(term.Status),
				term.Sanctioned, nullIfEmpty(term.Note), nullIfEmpty(term.Source),
				nullIfEmpty(term.Expression.Country), nullIfEmpty(term.Expression.Dialect))

		sql, args, err := insert.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) languageConcepts(ctx context.Context, conceptID uuid.UUID) ([]domain.SatniLanguageConcept, error) {
	sql, args, err := psql.Select("id", "language", "definition", "explanation").
		From("language_concepts").
		Where(squirrel.Eq{"concept_id": conceptID}).
		OrderBy("language").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type lcRow struct {
		id uuid.UUID
		lc domain.SatniLanguageConcept
	}
	var lcRows []lcRow
	for rows.Next() {
		var (
			row                     lcRow
			definition, explanation pgtype.Text
		)
		if err := rows.Scan(&row.id, &row.lc.Language, &definition, &explanation); err != nil {
			return nil, err
		}
		row.lc.Definition = definition.String
		row.lc.Explanation = explanation.String
		lcRows = append(lcRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []domain.SatniLanguageConcept
	for _, row := range lcRows {
		terms, err := r.terms(ctx, row.id)
		if err != nil {
			return nil, err
		}
		row.lc.Terms = terms
		out = append(out, row.lc)
	}
	return out, nil
}

func (r *Repo) terms(ctx context.Context, languageConceptID uuid.UUID) ([]domain.SatniTerm, error) {
	sql, args, err := psql.Select("lemma", "pos", "status", "sanctioned",
		"note", "source", "country", "dialect").
		From("terms").
		Where(squirrel.Eq{"language_concept_id": languageConceptID}).
		OrderBy("lemma").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []domain.SatniTerm
	for rows.Next() {
		var (
			term                                       domain.SatniTerm
			pos, status, note, source, country, dialect pgtype.Text
		)
		if err := rows.Scan(&term.Expression.Lemma, &pos, &status,
			&term.Sanctioned, &note, &source, &country, &dialect); err != nil {
			return nil, err
		}
		term.Expression.Pos = pos.String
		term.Status = status.String
		term.Note = note.String
		term.Source = source.String
		term.Expression.Country = country.String
		term.Expression.Dialect = dialect.String
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, name string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("concept %q: %w", name, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("concept %q: %w", name, domain.ErrConflict)
		case "23514": // check_violation
			return fmt.Errorf("concept %q: %w", name, domain.ErrValidation)
		}
	}

	return fmt.Errorf("concept %q: %w", name, err)
}

// nullIfEmpty maps the domain's empty-string absences to SQL NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
