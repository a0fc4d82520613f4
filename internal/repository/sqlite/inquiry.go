package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/garnizeh/weboff/pkg/models"
)

func (r *SQLiteRepo) CreateInquiry(ctx context.Context, in *models.Inquiry) (int64, error) {
	if in == nil {
		return 0, fmt.Errorf("inquiry is nil")
	}
	if in.Status == "" {
		in.Status = models.InquiryPending
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO inquiries (name, email, message, status, last_error, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Email, in.Message, in.Status, nullString(in.LastError), ts, ts)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	in.ID, in.Created, in.Updated = id, ts, ts
	return id, nil
}

func (r *SQLiteRepo) UpdateInquiryStatus(ctx context.Context, id int64, status, lastError string) error {
	res, err := r.conn.Exec(ctx, `UPDATE inquiries SET status = ?, last_error = ?, updated = ? WHERE id = ?`, status, nullString(lastError), now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("inquiry %d not found", id)
	}
	r.logger.Debug("inquiry status updated", slog.Int64("id", id), slog.String("status", status))
	return nil
}

func (r *SQLiteRepo) GetInquiry(ctx context.Context, id int64) (*models.Inquiry, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, email, message, status, last_error, created, updated FROM inquiries WHERE id = ?`, id)
	in, err := scanInquiry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return in, nil
}

func (r *SQLiteRepo) ListInquiries(ctx context.Context, limit, offset int) ([]models.Inquiry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.QueryRows(ctx, `SELECT id, name, email, message, status, last_error, created, updated FROM inquiries ORDER BY created DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Inquiry
	for rows.Next() {
		in, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountInquiriesByStatus(ctx context.Context, status string) (int64, error) {
	var cnt int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM inquiries WHERE status = ?`, status).Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInquiry(s scanner) (*models.Inquiry, error) {
	var in models.Inquiry
	var lastErr sql.NullString
	if err := s.Scan(&in.ID, &in.Name, &in.Email, &in.Message, &in.Status, &lastErr, &in.Created, &in.Updated); err != nil {
		return nil, err
	}
	if lastErr.Valid {
		in.LastError = lastErr.String
	}
	return &in, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
