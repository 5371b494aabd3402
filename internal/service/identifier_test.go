package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceFormat(t *testing.T) {
	assert.Equal(t, "MRN000001", PatientMRNSequence.Format(1))
	assert.Equal(t, "MRN123456", PatientMRNSequence.Format(123456))
	assert.Equal(t, "MRN1234567", PatientMRNSequence.Format(1234567))
	assert.Equal(t, "DOC0042", DoctorIDSequence.Format(42))
}

func TestIdentifierSequencesAreIndependent(t *testing.T) {
	ids := NewIdentifierService(newMemoryCounterStore())
	ctx := context.Background()

	mrn, err := ids.Next(ctx, PatientMRNSequence)
	require.NoError(t, err)
	doc, err := ids.Next(ctx, DoctorIDSequence)
	require.NoError(t, err)
	mrn2, err := ids.Next(ctx, PatientMRNSequence)
	require.NoError(t, err)

	assert.Equal(t, "MRN000001", mrn)
	assert.Equal(t, "DOC0001", doc)
	assert.Equal(t, "MRN000002", mrn2)
}

func TestIdentifierSeedIsIdempotent(t *testing.T) {
	ids := NewIdentifierService(newMemoryCounterStore())
	ctx := context.Background()

	require.NoError(t, ids.Seed(ctx, DoctorIDSequence, 3))
	first, err := ids.Next(ctx, DoctorIDSequence)
	require.NoError(t, err)
	require.NoError(t, ids.Seed(ctx, DoctorIDSequence, 0))
	second, err := ids.Next(ctx, DoctorIDSequence)
	require.NoError(t, err)

	assert.Equal(t, "DOC0004", first)
	assert.Equal(t, "DOC0005", second)
}
