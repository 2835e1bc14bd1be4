package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/recertify/recertify/internal/services/compliance/domain/allocation"
)

// ReplaceAllocations swaps the allocation set for a logged activity. The
// delete and inserts run in one transaction; a failed insert leaves the
// prior set intact.
func (s *Store) ReplaceAllocations(ctx context.Context, loggedActivityID string, allocations []allocation.Allocation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(loggedActivityID) == "" {
		return fmt.Errorf("logged activity id is required")
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM allocations WHERE logged_activity_id = ?`, loggedActivityID)
		if err != nil {
			return fmt.Errorf("clear allocations: %w", err)
		}

		for _, alloc := range allocations {
			createdAt := alloc.CreatedAt
			if createdAt.IsZero() {
				createdAt = s.clock()
			}
			_, err := tx.ExecContext(ctx, `
INSERT INTO allocations (id, logged_activity_id, holding_id, hours, created_at)
VALUES (?, ?, ?, ?, ?)`,
				alloc.ID, loggedActivityID, alloc.HoldingID, alloc.Hours,
				toMillis(createdAt))
			if err != nil {
				return fmt.Errorf("insert allocation: %w", err)
			}
		}
		return nil
	})
}

// ListAllocationsByLoggedActivity returns the allocation set for a logged
// activity.
func (s *Store) ListAllocationsByLoggedActivity(ctx context.Context, loggedActivityID string) ([]allocation.Allocation, error) {
	return s.listAllocations(ctx, `logged_activity_id`, loggedActivityID)
}

// ListAllocationsByHolding returns every allocation pointing at a holding.
func (s *Store) ListAllocationsByHolding(ctx context.Context, holdingID string) ([]allocation.Allocation, error) {
	return s.listAllocations(ctx, `holding_id`, holdingID)
}

func (s *Store) listAllocations(ctx context.Context, column, value string) ([]allocation.Allocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, fmt.Sprintf(`
SELECT id, logged_activity_id, holding_id, hours, created_at
FROM allocations
WHERE %s = ?
ORDER BY created_at ASC, id ASC`, column), value)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	var allocations []allocation.Allocation
	for rows.Next() {
		var alloc allocation.Allocation
		var createdAt int64
		err := rows.Scan(&alloc.ID, &alloc.LoggedActivityID, &alloc.HoldingID,
			&alloc.Hours, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		alloc.CreatedAt = fromMillis(createdAt)
		allocations = append(allocations, alloc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allocations: %w", err)
	}
	return allocations, nil
}
