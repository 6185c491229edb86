package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintFilter captures listing parameters. CustomerID is the policy
// scope; nil means unscoped. Archived complaints are always excluded.
type ComplaintFilter struct {
	CustomerID *string
	Status     *domain.ComplaintStatus
	Priority   *domain.ComplaintPriority
	Category   *domain.ComplaintCategory
	Search     *string
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	LatestComplaintID(ctx context.Context, prefix string) (string, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, int, error)
	SetStatus(ctx context.Context, id string, status domain.ComplaintStatus, entry *domain.StatusEntry) error
	SetPriority(ctx context.Context, id string, priority domain.ComplaintPriority) error
	AddComment(ctx context.Context, id string, comment *domain.Comment) error
	Archive(ctx context.Context, id string) error
	Stats(ctx context.Context, customerID *string) (*domain.ComplaintStats, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, complaint_id, customer_id, customer_name, policy_number,
               category, priority, status, subject, description, resolution,
               is_archived, created_at, updated_at`

// Create persists the complaint and its initial history entries in one
// transaction so a stored complaint never lacks a creation event.
func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertComplaint = `
        INSERT INTO complaints (complaint_id, customer_id, customer_name, policy_number,
                                category, priority, status, subject, description)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertComplaint,
		complaint.ComplaintID,
		complaint.CustomerID,
		complaint.CustomerName,
		complaint.PolicyNumber,
		complaint.Category,
		complaint.Priority,
		complaint.Status,
		complaint.Subject,
		complaint.Description,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt); err != nil {
		return err
	}

	const insertHistory = `
        INSERT INTO complaint_status_history (complaint_id, status, changed_by, changed_by_name, changed_by_role, notes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, changed_at`
	for i := range complaint.StatusHistory {
		entry := &complaint.StatusHistory[i]
		entry.ComplaintID = complaint.ID
		if err := tx.QueryRow(ctx, insertHistory,
			complaint.ID,
			entry.Status,
			entry.ChangedBy,
			entry.ChangedByName,
			entry.ChangedByRole,
			entry.Notes,
		).Scan(&entry.ID, &entry.ChangedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE id=$1`, complaintColumns)

	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(complaintFields(&complaint)...); err != nil {
		return nil, err
	}

	history, err := r.listHistory(ctx, complaint.ID)
	if err != nil {
		return nil, err
	}
	complaint.StatusHistory = history

	comments, err := r.listComments(ctx, complaint.ID)
	if err != nil {
		return nil, err
	}
	complaint.Comments = comments

	return &complaint, nil
}

// LatestComplaintID returns the greatest complaint id with the given
// prefix, or "" when the year has no complaints yet.
func (r *complaintRepository) LatestComplaintID(ctx context.Context, prefix string) (string, error) {
	const query = `
        SELECT complaint_id FROM complaints
        WHERE complaint_id LIKE $1 || '%'
        ORDER BY complaint_id DESC LIMIT 1`
	var latest string
	if err := r.pool.QueryRow(ctx, query, prefix).Scan(&latest); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return latest, nil
}

var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"priority":    "priority",
	"status":      "status",
	"complaintId": "complaint_id",
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, int, error) {
	clauses := []string{"is_archived = FALSE"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(subject) LIKE %s OR LOWER(description) LIKE %s OR LOWER(complaint_id) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM complaints WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderCol, ok := sortColumns[filter.SortBy]
	if !ok {
		orderCol = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		complaintColumns, where, orderCol, direction, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(complaintFields(&complaint)...); err != nil {
			return nil, 0, err
		}
		result = append(result, complaint)
	}
	return result, total, rows.Err()
}

// SetStatus updates the complaint status and appends the audit entry in
// one transaction so the last history entry always matches the status.
func (r *complaintRepository) SetStatus(ctx context.Context, id string, status domain.ComplaintStatus, entry *domain.StatusEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, `UPDATE complaints SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	const insertHistory = `
        INSERT INTO complaint_status_history (complaint_id, status, changed_by, changed_by_name, changed_by_role, notes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, changed_at`
	entry.ComplaintID = id
	if err := tx.QueryRow(ctx, insertHistory,
		id,
		entry.Status,
		entry.ChangedBy,
		entry.ChangedByName,
		entry.ChangedByRole,
		entry.Notes,
	).Scan(&entry.ID, &entry.ChangedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *complaintRepository) SetPriority(ctx context.Context, id string, priority domain.ComplaintPriority) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE complaints SET priority=$1, updated_at=NOW() WHERE id=$2`, priority, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) AddComment(ctx context.Context, id string, comment *domain.Comment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertComment = `
        INSERT INTO complaint_comments (complaint_id, user_id, user_name, user_role, text)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	comment.ComplaintID = id
	if err := tx.QueryRow(ctx, insertComment,
		id,
		comment.UserID,
		comment.UserName,
		comment.UserRole,
		comment.Text,
	).Scan(&comment.ID, &comment.CreatedAt); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `UPDATE complaints SET updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func (r *complaintRepository) Archive(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE complaints SET is_archived=TRUE, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) Stats(ctx context.Context, customerID *string) (*domain.ComplaintStats, error) {
	query := `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'Submitted'),
               COUNT(*) FILTER (WHERE status = 'In Progress'),
               COUNT(*) FILTER (WHERE status = 'Resolved'),
               COUNT(*) FILTER (WHERE status = 'Closed'),
               COUNT(*) FILTER (WHERE priority = 'Critical')
        FROM complaints WHERE is_archived = FALSE`
	args := []any{}
	if customerID != nil {
		args = append(args, *customerID)
		query += " AND customer_id=$1"
	}

	var stats domain.ComplaintStats
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.Total,
		&stats.Submitted,
		&stats.InProgress,
		&stats.Resolved,
		&stats.Closed,
		&stats.Critical,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *complaintRepository) listHistory(ctx context.Context, complaintID string) ([]domain.StatusEntry, error) {
	const query = `
        SELECT id, complaint_id, status, changed_by, changed_by_name, changed_by_role, changed_at, notes
        FROM complaint_status_history WHERE complaint_id=$1 ORDER BY changed_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusEntry
	for rows.Next() {
		var entry domain.StatusEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ComplaintID,
			&entry.Status,
			&entry.ChangedBy,
			&entry.ChangedByName,
			&entry.ChangedByRole,
			&entry.ChangedAt,
			&entry.Notes,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *complaintRepository) listComments(ctx context.Context, complaintID string) ([]domain.Comment, error) {
	const query = `
        SELECT id, complaint_id, user_id, user_name, user_role, text, created_at
        FROM complaint_comments WHERE complaint_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.ComplaintID,
			&comment.UserID,
			&comment.UserName,
			&comment.UserRole,
			&comment.Text,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}

func complaintFields(c *domain.Complaint) []any {
	return []any{
		&c.ID,
		&c.ComplaintID,
		&c.CustomerID,
		&c.CustomerName,
		&c.PolicyNumber,
		&c.Category,
		&c.Priority,
		&c.Status,
		&c.Subject,
		&c.Description,
		&c.Resolution,
		&c.IsArchived,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
}
