package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

const transferColumns = `id, trip_id, from_username, to_username, amount, status, created_by, created_at, completed_at`

// GetTransfer retrieves a transfer by ID.
func (s *SQLiteStore) GetTransfer(ctx context.Context, transferID string) (*models.Transfer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE id = ?`,
		transferID,
	)
	transfer, err := scanTransfer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transfer %s: %w", transferID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	return transfer, nil
}

// ListTransfersByTrip retrieves all transfers for a trip, newest first.
func (s *SQLiteStore) ListTransfersByTrip(ctx context.Context, tripID string) ([]*models.Transfer, error) {
	return s.queryTransfers(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE trip_id = ? ORDER BY created_at DESC, rowid`,
		tripID,
	)
}

// ListTransfersByStatus retrieves a trip's transfers with the given status.
func (s *SQLiteStore) ListTransfersByStatus(ctx context.Context, tripID string, status models.TransferStatus) ([]*models.Transfer, error) {
	return s.queryTransfers(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE trip_id = ? AND status = ? ORDER BY created_at, rowid`,
		tripID, string(status),
	)
}

// ReplaceTransfers swaps the trip's pending transfers for a new set inside a
// single transaction. With resetCompleted, completed transfers are deleted too.
func (s *SQLiteStore) ReplaceTransfers(ctx context.Context, tripID string, resetCompleted bool, pending []*models.Transfer) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if resetCompleted {
		_, err = tx.ExecContext(ctx, "DELETE FROM transfers WHERE trip_id = ?", tripID)
	} else {
		_, err = tx.ExecContext(ctx,
			"DELETE FROM transfers WHERE trip_id = ? AND status = ?",
			tripID, string(models.TransferPending),
		)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to delete transfers: %w", err)
	}

	now := time.Now().Unix()
	created := 0
	for _, t := range pending {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		if t.CreatedAt == 0 {
			t.CreatedAt = now
		}
		t.TripID = tripID
		t.Status = models.TransferPending
		t.CompletedAt = 0

		_, err := tx.ExecContext(ctx,
			`INSERT INTO transfers (`+transferColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
			t.ID, t.TripID, t.From, t.To, t.Amount.StringFixed(2), string(t.Status), t.CreatedBy, t.CreatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert transfer: %w", err)
		}
		created++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// CompleteTransfer marks a pending transfer completed.
func (s *SQLiteStore) CompleteTransfer(ctx context.Context, transferID string, completedAt int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE transfers SET status = ?, completed_at = ? WHERE id = ? AND status = ?",
		string(models.TransferCompleted), completedAt, transferID, string(models.TransferPending),
	)
	if err != nil {
		return fmt.Errorf("failed to complete transfer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check completed transfer: %w", err)
	}
	if n == 1 {
		return nil
	}

	// Distinguish a missing transfer from one that was already completed.
	if _, err := s.GetTransfer(ctx, transferID); err != nil {
		return err
	}
	return fmt.Errorf("transfer %s: %w", transferID, storage.ErrNotPending)
}

func (s *SQLiteStore) queryTransfers(ctx context.Context, query string, args ...any) ([]*models.Transfer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*models.Transfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfers: %w", err)
	}
	return transfers, nil
}

func scanTransfer(row rowScanner) (*models.Transfer, error) {
	transfer := &models.Transfer{}
	var status string
	var completedAt sql.NullInt64
	if err := row.Scan(&transfer.ID, &transfer.TripID, &transfer.From, &transfer.To, &transfer.Amount,
		&status, &transfer.CreatedBy, &transfer.CreatedAt, &completedAt); err != nil {
		return nil, err
	}
	transfer.Status = models.TransferStatus(status)
	if completedAt.Valid {
		transfer.CompletedAt = completedAt.Int64
	}
	return transfer, nil
}
