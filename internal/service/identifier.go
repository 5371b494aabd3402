package service

import (
	"context"
	"fmt"

	"hospital-management-backend/pkg/monitoring"
)

// Sequence describes one human-readable identifier series
type Sequence struct {
	Name   string
	Prefix string
	Width  int
}

var (
	PatientMRNSequence = Sequence{Name: "patient_mrn", Prefix: "MRN", Width: 6}
	DoctorIDSequence   = Sequence{Name: "doctor_id", Prefix: "DOC", Width: 4}
)

// Format renders n with the sequence prefix, zero-padded to Width digits.
// Values wider than Width are kept whole.
func (s Sequence) Format(n int64) string {
	return fmt.Sprintf("%s%0*d", s.Prefix, s.Width, n)
}

// CounterStore hands out increasing values per named sequence
type CounterStore interface {
	SeedCounter(ctx context.Context, name string, start int64) error
	ReserveNext(ctx context.Context, name string) (int64, error)
}

type IdentifierService struct {
	counters CounterStore
}

func NewIdentifierService(counters CounterStore) *IdentifierService {
	return &IdentifierService{counters: counters}
}

// Seed aligns a sequence with the records that already exist, so the next
// identifier is existing+1. A sequence that was seeded before is left alone.
func (s *IdentifierService) Seed(ctx context.Context, seq Sequence, existing int64) error {
	if err := s.counters.SeedCounter(ctx, seq.Name, existing); err != nil {
		return fmt.Errorf("failed to seed %s sequence: %w", seq.Name, err)
	}
	return nil
}

// Next reserves the next identifier of seq. Each call consumes a value even
// if the caller later fails to insert its record.
func (s *IdentifierService) Next(ctx context.Context, seq Sequence) (string, error) {
	n, err := s.counters.ReserveNext(ctx, seq.Name)
	if err != nil {
		return "", fmt.Errorf("failed to reserve %s identifier: %w", seq.Name, err)
	}
	monitoring.IdentifierReservations.WithLabelValues(seq.Name).Inc()
	return seq.Format(n), nil
}
