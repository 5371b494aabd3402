package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"hospital-management-backend/internal/models"
	"hospital-management-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin        = Actor{UserID: "u-admin", Role: models.RoleAdmin}
	receptionist = Actor{UserID: "u-desk", Role: models.RoleReceptionist}
	doctorActor  = Actor{UserID: "u-doc", Role: models.RoleDoctor}
	pharmacist   = Actor{UserID: "u-pharm", Role: models.RolePharmacist}
)

func newTestPatientService() (*PatientService, *memoryPatientStore) {
	store := newMemoryPatientStore()
	ids := NewIdentifierService(newMemoryCounterStore())
	svc := NewPatientService(store, ids, acceptingAudit(), DefaultFieldPolicy, logger.Discard())
	return svc, store
}

func validPatientInput(name string) PatientInput {
	return PatientInput{
		Name:        name,
		Phone:       "9876543210",
		DateOfBirth: "1990-05-17",
		Gender:      models.GenderFemale,
		BloodGroup:  "O+",
		BillAmount:  1200,
	}
}

func TestRegisterPatientAssignsSequentialMRNs(t *testing.T) {
	svc, _ := newTestPatientService()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		p, err := svc.RegisterPatient(ctx, receptionist, validPatientInput(fmt.Sprintf("Patient %d", i)))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("MRN%06d", i), p.MRN)
	}
}

func TestRegisterPatientConcurrentMRNsAreDistinct(t *testing.T) {
	svc, store := newTestPatientService()
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.RegisterPatient(ctx, admin, validPatientInput(fmt.Sprintf("P%d", i)))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	all, err := store.GetAllPatients(ctx)
	require.NoError(t, err)
	for _, p := range all {
		assert.False(t, seen[p.MRN], "duplicate %s", p.MRN)
		seen[p.MRN] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, seen[fmt.Sprintf("MRN%06d", i)])
	}
}

func TestRegisterPatientContinuesAfterSeed(t *testing.T) {
	store := newMemoryPatientStore()
	ids := NewIdentifierService(newMemoryCounterStore())
	require.NoError(t, ids.Seed(context.Background(), PatientMRNSequence, 41))
	svc := NewPatientService(store, ids, acceptingAudit(), DefaultFieldPolicy, logger.Discard())

	p, err := svc.RegisterPatient(context.Background(), admin, validPatientInput("Late"))
	require.NoError(t, err)
	assert.Equal(t, "MRN000042", p.MRN)
}

func TestRegisterPatientValidation(t *testing.T) {
	svc, store := newTestPatientService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*PatientInput)
		want   string
	}{
		{"missing name", func(in *PatientInput) { in.Name = "  " }, "name is required"},
		{"missing phone", func(in *PatientInput) { in.Phone = "" }, "phone is required"},
		{"bad gender", func(in *PatientInput) { in.Gender = "Unknown" }, "gender must be one of"},
		{"bad blood group", func(in *PatientInput) { in.BloodGroup = "C+" }, "bloodGroup must be one of"},
		{"negative bill", func(in *PatientInput) { in.BillAmount = -1 }, "billAmount must be at least 0"},
		{"impossible date", func(in *PatientInput) { in.DateOfBirth = "1990-02-30" }, "not a valid calendar day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validPatientInput("Asha")
			tt.mutate(&in)
			_, err := svc.RegisterPatient(ctx, admin, in)
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, Message(err), tt.want)
		})
	}

	count, _ := store.CountPatients(ctx)
	assert.Zero(t, count)
}

func TestRegisterPatientRequiresRegistrarRole(t *testing.T) {
	svc, _ := newTestPatientService()

	_, err := svc.RegisterPatient(context.Background(), pharmacist, validPatientInput("Ravi"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRegisterPatientKeepsCalendarDayOfBirth(t *testing.T) {
	svc, _ := newTestPatientService()

	p, err := svc.RegisterPatient(context.Background(), admin, validPatientInput("Day"))
	require.NoError(t, err)
	assert.Equal(t, "1990-05-17", p.DateOfBirth.Format(CalendarDayLayout))
	assert.Equal(t, time.UTC, p.DateOfBirth.Location())
}

func TestUpdatePatientFieldPolicy(t *testing.T) {
	svc, _ := newTestPatientService()
	ctx := context.Background()
	p, err := svc.RegisterPatient(ctx, admin, validPatientInput("Meera"))
	require.NoError(t, err)

	amount := 10.0
	paid := true
	_, err = svc.UpdatePatient(ctx, doctorActor, p.ID, PatientPatch{BillAmount: &amount, BillPaid: &paid})
	require.ErrorIs(t, err, ErrForbidden)
	assert.Contains(t, err.Error(), "billAmount, billPaid")

	history := models.MedicalHistory{Allergies: []string{"penicillin", "penicillin"}}
	updated, err := svc.UpdatePatient(ctx, doctorActor, p.ID, PatientPatch{MedicalHistory: &history})
	require.NoError(t, err)
	assert.Equal(t, []string{"penicillin", "penicillin"}, updated.MedicalHistory.Allergies)
	assert.Equal(t, 1200.0, updated.BillAmount)

	name := "Other"
	_, err = svc.UpdatePatient(ctx, pharmacist, p.ID, PatientPatch{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdatePatientWritesOnlyPatchedColumns(t *testing.T) {
	svc, store := newTestPatientService()
	ctx := context.Background()
	p, err := svc.RegisterPatient(ctx, admin, validPatientInput("Meera"))
	require.NoError(t, err)

	phone := " 5550001 "
	updated, err := svc.UpdatePatient(ctx, receptionist, p.ID, PatientPatch{Phone: &phone})
	require.NoError(t, err)

	assert.Equal(t, "5550001", updated.Phone)
	assert.Equal(t, p.MRN, updated.MRN)
	assert.ElementsMatch(t, []string{"updated_at", "phone"}, store.lastColumns)
}

func TestUpdatePatientRejectsInvalidMerge(t *testing.T) {
	svc, _ := newTestPatientService()
	ctx := context.Background()
	p, err := svc.RegisterPatient(ctx, admin, validPatientInput("Meera"))
	require.NoError(t, err)

	gender := "Robot"
	_, err = svc.UpdatePatient(ctx, admin, p.ID, PatientPatch{Gender: &gender})
	assert.ErrorIs(t, err, ErrValidation)

	current, err := svc.GetPatient(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GenderFemale, current.Gender)
}

func TestUpdatePatientNotFound(t *testing.T) {
	svc, _ := newTestPatientService()
	name := "x"

	_, err := svc.UpdatePatient(context.Background(), admin, "missing", PatientPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleBillPaidRoundTrip(t *testing.T) {
	svc, _ := newTestPatientService()
	ctx := context.Background()
	p, err := svc.RegisterPatient(ctx, admin, validPatientInput("Meera"))
	require.NoError(t, err)
	require.False(t, p.BillPaid)

	once, err := svc.ToggleBillPaid(ctx, SystemActor, p.ID)
	require.NoError(t, err)
	assert.True(t, once.BillPaid)

	twice, err := svc.ToggleBillPaid(ctx, SystemActor, p.ID)
	require.NoError(t, err)
	assert.False(t, twice.BillPaid)
	assert.Equal(t, p.BillAmount, twice.BillAmount)
}

func TestCountPendingBillsIncludesZeroAmounts(t *testing.T) {
	svc, _ := newTestPatientService()
	ctx := context.Background()

	free := validPatientInput("Free")
	free.BillAmount = 0
	settled := validPatientInput("Settled")
	settled.BillPaid = true

	for _, in := range []PatientInput{validPatientInput("Owes"), free, settled} {
		_, err := svc.RegisterPatient(ctx, admin, in)
		require.NoError(t, err)
	}

	count, err := svc.CountPendingBills(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestSearchPatients(t *testing.T) {
	svc, _ := newTestPatientService()
	ctx := context.Background()
	for _, name := range []string{"Anita Rao", "Vikram Rao", "Sunil Mehta"} {
		_, err := svc.RegisterPatient(ctx, admin, validPatientInput(name))
		require.NoError(t, err)
	}

	byName, err := svc.SearchPatients(ctx, " rao ")
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	byMRN, err := svc.SearchPatients(ctx, "mrn000003")
	require.NoError(t, err)
	require.Len(t, byMRN, 1)
	assert.Equal(t, "Sunil Mehta", byMRN[0].Name)

	none, err := svc.SearchPatients(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetBillingSummary(t *testing.T) {
	svc, _ := newTestPatientService()
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		in := validPatientInput(fmt.Sprintf("P%02d", i))
		in.BillPaid = i%3 == 0
		_, err := svc.RegisterPatient(ctx, admin, in)
		require.NoError(t, err)
	}

	summary, err := svc.GetBillingSummary(ctx, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 12, summary.Total)
	assert.EqualValues(t, 4, summary.Paid)
	assert.EqualValues(t, 8, summary.Unpaid)
	require.Len(t, summary.Recent, 10)
	assert.Equal(t, "P11", summary.Recent[0].Name)

	_, err = svc.GetBillingSummary(ctx, receptionist)
	assert.ErrorIs(t, err, ErrForbidden)
}
