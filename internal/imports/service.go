package imports

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service runs the parse, validate, dedupe, insert pipeline.
type Service struct {
	repo      Repository
	logger    *slog.Logger
	validator *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		logger:    logger,
		validator: validator.New(),
	}
}

// ImportTrips ingests one CSV export for an organization. Valid new rows
// are inserted; duplicates (within the file or against stored trips) are
// counted, and invalid rows are reported without failing the batch.
func (s *Service) ImportTrips(ctx context.Context, organizationID string, file io.Reader) (*Summary, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	hash := sha256.Sum256(content)

	summary := &Summary{
		BatchID:  uuid.NewString(),
		FileHash: hex.EncodeToString(hash[:]),
	}

	rows, parseErrors, err := ParseTrips(strings.NewReader(string(content)))
	if err != nil {
		return nil, err
	}
	summary.RowCount = len(rows) + len(parseErrors)
	summary.Errors = append(summary.Errors, parseErrors...)

	// Dedupe within the file before touching the database.
	seen := make(map[string]bool, len(rows))
	var candidates []ParsedRow
	var numbers []string
	for _, row := range rows {
		if err := s.validator.Struct(row.Trip); err != nil {
			summary.Errors = append(summary.Errors, RowError{
				RowNumber: row.RowNumber,
				Message:   "missing required fields (confirmation number, pickup date, addresses)",
			})
			continue
		}
		if seen[row.Trip.ConfirmationNumber] {
			summary.Duplicates++
			continue
		}
		seen[row.Trip.ConfirmationNumber] = true
		candidates = append(candidates, row)
		numbers = append(numbers, row.Trip.ConfirmationNumber)
	}

	existing, err := s.repo.ExistingConfirmations(ctx, organizationID, numbers)
	if err != nil {
		return nil, fmt.Errorf("check existing confirmations: %w", err)
	}

	var inserts []Trip
	for _, row := range candidates {
		if existing[row.Trip.ConfirmationNumber] {
			summary.Duplicates++
			continue
		}
		trip := row.Trip
		trip.OrganizationID = organizationID
		trip.ImportBatchID = summary.BatchID
		inserts = append(inserts, trip)
	}

	if err := s.repo.InsertTrips(ctx, inserts); err != nil {
		return nil, fmt.Errorf("insert trips: %w", err)
	}
	summary.Imported = len(inserts)

	s.logger.Info("trips imported",
		slog.String("batch_id", summary.BatchID),
		slog.String("organization_id", organizationID),
		slog.Int("imported", summary.Imported),
		slog.Int("duplicates", summary.Duplicates),
		slog.Int("errors", len(summary.Errors)))
	return summary, nil
}
