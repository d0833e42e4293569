package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

const jobColumns = `id, title, slug, description, status, tags, sort_order, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (hiring.Job, error) {
	var j hiring.Job
	var status, tags, createdAt, updatedAt string
	if err := row.Scan(&j.ID, &j.Title, &j.Slug, &j.Description, &status, &tags, &j.Order, &createdAt, &updatedAt); err != nil {
		return hiring.Job{}, err
	}
	j.Status = hiring.JobStatus(status)
	if err := json.Unmarshal([]byte(tags), &j.Tags); err != nil {
		return hiring.Job{}, fmt.Errorf("parsing tags for job %s: %w", j.ID, err)
	}
	var err error
	if j.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return hiring.Job{}, err
	}
	if j.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return hiring.Job{}, err
	}
	return j, nil
}

// ListJobs returns one page of jobs matching q. Search matches title and tags.
func (s *Store) ListJobs(q hiring.JobQuery) (hiring.Page[hiring.Job], error) {
	q = q.Normalize()

	var where []string
	var args []any
	if q.Search != "" {
		where = append(where, `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\')`)
		p := likePattern(q.Search)
		args = append(args, p, p)
	}
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM jobs"+clause, args...).Scan(&total); err != nil {
		return hiring.Page[hiring.Job]{}, fmt.Errorf("counting jobs: %w", err)
	}

	orderBy := "sort_order ASC"
	switch q.Sort {
	case hiring.SortByTitle:
		orderBy = "LOWER(title) ASC, sort_order ASC"
	case hiring.SortByCreatedAt:
		orderBy = "created_at DESC, sort_order ASC"
	}

	rows, err := s.db.Query(
		"SELECT "+jobColumns+" FROM jobs"+clause+" ORDER BY "+orderBy+" LIMIT ? OFFSET ?",
		append(args, q.PageSize, (q.Page-1)*q.PageSize)...,
	)
	if err != nil {
		return hiring.Page[hiring.Job]{}, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []hiring.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return hiring.Page[hiring.Job]{}, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return hiring.Page[hiring.Job]{}, err
	}
	return hiring.NewPage(jobs, q.Page, q.PageSize, total), nil
}

func (s *Store) GetJob(id string) (hiring.Job, error) {
	j, err := scanJob(s.db.QueryRow("SELECT "+jobColumns+" FROM jobs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return hiring.Job{}, ErrNotFound
	}
	return j, err
}

// CreateJob appends a job at the end of the order sequence with a unique slug.
func (s *Store) CreateJob(in hiring.NewJob) (hiring.Job, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return hiring.Job{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	status := in.Status
	if status == "" {
		status = hiring.JobActive
	}
	if !status.Valid() {
		return hiring.Job{}, fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return hiring.Job{}, fmt.Errorf("marshalling tags: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return hiring.Job{}, fmt.Errorf("beginning create transaction: %w", err)
	}
	defer tx.Rollback()

	slug, err := uniqueSlug(tx, hiring.Slugify(title), "")
	if err != nil {
		return hiring.Job{}, err
	}

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM jobs").Scan(&count); err != nil {
		return hiring.Job{}, fmt.Errorf("counting jobs: %w", err)
	}

	now := s.now()
	j := hiring.Job{
		ID:          uuid.New().String(),
		Title:       title,
		Slug:        slug,
		Description: in.Description,
		Status:      status,
		Tags:        tags,
		Order:       count,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err = tx.Exec(`INSERT INTO jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.Title, j.Slug, j.Description, string(j.Status), string(tagsJSON), j.Order,
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return hiring.Job{}, fmt.Errorf("inserting job: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return hiring.Job{}, fmt.Errorf("committing job: %w", err)
	}
	j.CreatedAt, j.UpdatedAt = storedTime(now), storedTime(now)
	return j, nil
}

// UpdateJob applies a partial update. A title change re-derives the slug.
func (s *Store) UpdateJob(id string, patch hiring.JobPatch) (hiring.Job, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return hiring.Job{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return hiring.Job{}, fmt.Errorf("%w: unknown status %q", ErrInvalid, *patch.Status)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return hiring.Job{}, fmt.Errorf("beginning update transaction: %w", err)
	}
	defer tx.Rollback()

	cur, err := scanJob(tx.QueryRow("SELECT "+jobColumns+" FROM jobs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return hiring.Job{}, ErrNotFound
	}
	if err != nil {
		return hiring.Job{}, err
	}

	next := patch.Apply(cur)
	next.Title = strings.TrimSpace(next.Title)
	if next.Title != cur.Title {
		if next.Slug, err = uniqueSlug(tx, hiring.Slugify(next.Title), id); err != nil {
			return hiring.Job{}, err
		}
	}
	if next.Tags == nil {
		next.Tags = []string{}
	}
	tagsJSON, err := json.Marshal(next.Tags)
	if err != nil {
		return hiring.Job{}, fmt.Errorf("marshalling tags: %w", err)
	}
	now := s.now()
	next.UpdatedAt = storedTime(now)

	_, err = tx.Exec(`UPDATE jobs SET title = ?, slug = ?, description = ?, status = ?, tags = ?, updated_at = ? WHERE id = ?`,
		next.Title, next.Slug, next.Description, string(next.Status), string(tagsJSON), formatTime(now), id)
	if err != nil {
		return hiring.Job{}, fmt.Errorf("updating job: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return hiring.Job{}, fmt.Errorf("committing job update: %w", err)
	}
	return next, nil
}

// ReorderJob moves the job at fromOrder to toOrder and shifts every job in
// between by one, in a single transaction. The stored order of id is
// authoritative; fromOrder must match it.
func (s *Store) ReorderJob(id string, fromOrder, toOrder int) error {
	return s.inTx(func(tx *sql.Tx) error {
		var cur int
		err := tx.QueryRow("SELECT sort_order FROM jobs WHERE id = ?", id).Scan(&cur)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("reading job order: %w", err)
		}
		if cur != fromOrder {
			return fmt.Errorf("%w: job %s is at order %d, not %d", ErrInvalid, id, cur, fromOrder)
		}

		var count int
		if err := tx.QueryRow("SELECT COUNT(*) FROM jobs").Scan(&count); err != nil {
			return fmt.Errorf("counting jobs: %w", err)
		}
		if toOrder < 0 || toOrder >= count {
			return fmt.Errorf("%w: order %d outside [0, %d)", ErrInvalid, toOrder, count)
		}
		if fromOrder == toOrder {
			return nil
		}

		now := formatTime(s.now())
		if fromOrder < toOrder {
			_, err = tx.Exec(`UPDATE jobs SET sort_order = sort_order - 1, updated_at = ? WHERE sort_order > ? AND sort_order <= ?`,
				now, fromOrder, toOrder)
		} else {
			_, err = tx.Exec(`UPDATE jobs SET sort_order = sort_order + 1, updated_at = ? WHERE sort_order >= ? AND sort_order < ?`,
				now, toOrder, fromOrder)
		}
		if err != nil {
			return fmt.Errorf("shifting jobs: %w", err)
		}
		if _, err := tx.Exec(`UPDATE jobs SET sort_order = ?, updated_at = ? WHERE id = ?`, toOrder, now, id); err != nil {
			return fmt.Errorf("placing job: %w", err)
		}
		return nil
	})
}

// JobOrders returns every job's order keyed by id.
func (s *Store) JobOrders() (map[string]int, error) {
	rows, err := s.db.Query("SELECT id, sort_order FROM jobs")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var id string
		var order int
		if err := rows.Scan(&id, &order); err != nil {
			return nil, err
		}
		out[id] = order
	}
	return out, rows.Err()
}

func uniqueSlug(tx *sql.Tx, base, excludeID string) (string, error) {
	slug := base
	for n := 2; ; n++ {
		var exists int
		err := tx.QueryRow("SELECT COUNT(*) FROM jobs WHERE slug = ? AND id != ?", slug, excludeID).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("checking slug: %w", err)
		}
		if exists == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
