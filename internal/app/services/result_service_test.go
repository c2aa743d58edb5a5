package services

import (
	"context"
	"errors"
	"testing"

	"github.com/emre/coursehub/internal/app/models"
	"github.com/emre/coursehub/internal/pkg/apperrors"
)

// fakeResultStore is an in-memory ResultStore keyed by enrollment id.
// conflictOnCreate forces the first Create to fail with a uniqueness
// conflict while still inserting the row, simulating a concurrent writer
// winning the insert race.
type fakeResultStore struct {
	nextID           int64
	byEnrollment     map[int64]*models.Result
	enrollmentEmails map[int64]string
	conflictOnCreate bool
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{
		nextID:           1,
		byEnrollment:     make(map[int64]*models.Result),
		enrollmentEmails: make(map[int64]string),
	}
}

func (f *fakeResultStore) Create(_ context.Context, result *models.Result) (int64, error) {
	if _, exists := f.byEnrollment[result.EnrollmentID]; exists {
		return 0, apperrors.ErrConflict
	}
	if f.conflictOnCreate {
		f.conflictOnCreate = false
		stored := *result
		stored.ID = f.nextID
		stored.Grade = "C" // the concurrent writer's grade
		f.nextID++
		f.byEnrollment[result.EnrollmentID] = &stored
		return 0, apperrors.ErrConflict
	}
	id := f.nextID
	f.nextID++
	stored := *result
	stored.ID = id
	stored.Enrollment = nil
	f.byEnrollment[result.EnrollmentID] = &stored
	return id, nil
}

func (f *fakeResultStore) Update(_ context.Context, result *models.Result) error {
	if _, ok := f.byEnrollment[result.EnrollmentID]; !ok {
		return apperrors.ErrResultNotFound
	}
	stored := *result
	stored.Enrollment = nil
	f.byEnrollment[result.EnrollmentID] = &stored
	return nil
}

func (f *fakeResultStore) GetByEnrollmentID(_ context.Context, enrollmentID int64) (*models.Result, error) {
	result, ok := f.byEnrollment[enrollmentID]
	if !ok {
		return nil, apperrors.ErrResultNotFound
	}
	copied := *result
	return &copied, nil
}

func (f *fakeResultStore) GetAll(_ context.Context) ([]*models.Result, error) {
	out := make([]*models.Result, 0, len(f.byEnrollment))
	for _, r := range f.byEnrollment {
		copied := *r
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeResultStore) FindByEnrollmentStudentEmail(_ context.Context, email string) ([]*models.Result, error) {
	out := []*models.Result{}
	for enrollmentID, r := range f.byEnrollment {
		if f.enrollmentEmails[enrollmentID] == email {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

// resultFixture wires a result service against fakes with one seeded
// enrollment.
func resultFixture(t *testing.T) (ResultService, *fakeResultStore, int64) {
	t.Helper()
	enrollments := newFakeEnrollmentStore()
	id, err := enrollments.Create(context.Background(), &models.Enrollment{
		StudentEmail: "ada@example.edu",
		CourseID:     1,
	})
	if err != nil {
		t.Fatalf("seeding enrollment failed: %v", err)
	}
	store := newFakeResultStore()
	store.enrollmentEmails[id] = "ada@example.edu"
	return NewResultService(store, enrollments), store, id
}

func TestAssignGradeCreates(t *testing.T) {
	svc, _, enrollmentID := resultFixture(t)

	result, created, err := svc.AssignGrade(context.Background(), enrollmentID, "A")
	if err != nil {
		t.Fatalf("AssignGrade failed: %v", err)
	}
	if !created {
		t.Fatal("expected created=true on first assignment")
	}
	if result.Grade != "A" || result.EnrollmentID != enrollmentID {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.UpdatedAt.IsZero() {
		t.Fatal("expected UpdatedAt to be set")
	}
	if result.Enrollment == nil || result.Enrollment.StudentEmail != "ada@example.edu" {
		t.Fatalf("expected enrollment to be attached, got %+v", result.Enrollment)
	}
}

func TestAssignGradeOverwrites(t *testing.T) {
	svc, _, enrollmentID := resultFixture(t)
	ctx := context.Background()

	first, created, err := svc.AssignGrade(ctx, enrollmentID, "A")
	if err != nil || !created {
		t.Fatalf("first AssignGrade: created=%v err=%v", created, err)
	}

	second, created, err := svc.AssignGrade(ctx, enrollmentID, "B+")
	if err != nil {
		t.Fatalf("second AssignGrade failed: %v", err)
	}
	if created {
		t.Fatal("expected created=false on overwrite")
	}
	if second.Grade != "B+" {
		t.Fatalf("expected grade B+, got %q", second.Grade)
	}
	if second.ID != first.ID {
		t.Fatalf("overwrite must reuse the row: ids %d vs %d", first.ID, second.ID)
	}
	if second.UpdatedAt.Before(first.UpdatedAt) {
		t.Fatalf("UpdatedAt must not go backwards: %v then %v", first.UpdatedAt, second.UpdatedAt)
	}

	// Exactly one row per enrollment no matter how many assignments ran.
	all, err := svc.GetAllResults(ctx)
	if err != nil {
		t.Fatalf("GetAllResults failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly 1 result, got %d", len(all))
	}
}

func TestAssignGradeEnrollmentNotFound(t *testing.T) {
	svc, _, _ := resultFixture(t)

	_, _, err := svc.AssignGrade(context.Background(), 999, "A")
	if !errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		t.Fatalf("expected ErrEnrollmentNotFound, got %v", err)
	}
}

func TestAssignGradeValidation(t *testing.T) {
	svc, _, enrollmentID := resultFixture(t)
	ctx := context.Background()

	cases := []struct {
		name         string
		enrollmentID int64
		grade        string
	}{
		{"zero enrollment id", 0, "A"},
		{"negative enrollment id", -1, "A"},
		{"blank grade", enrollmentID, "   "},
		{"grade too long", enrollmentID, "AAA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.AssignGrade(ctx, tc.enrollmentID, tc.grade); !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("expected ErrValidationFailed, got %v", err)
			}
		})
	}
}

func TestAssignGradeRaceFallsBackToOverwrite(t *testing.T) {
	// The lookup sees no row, the insert conflicts because a concurrent
	// writer created one; the assignment must still land as an overwrite.
	svc, store, enrollmentID := resultFixture(t)
	store.conflictOnCreate = true

	result, created, err := svc.AssignGrade(context.Background(), enrollmentID, "A")
	if err != nil {
		t.Fatalf("AssignGrade failed: %v", err)
	}
	if created {
		t.Fatal("expected created=false after losing the insert race")
	}
	if result.Grade != "A" {
		t.Fatalf("expected the late grade to win, got %q", result.Grade)
	}

	all, err := svc.GetAllResults(context.Background())
	if err != nil {
		t.Fatalf("GetAllResults failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly 1 result, got %d", len(all))
	}
}

func TestGetResultsByStudent(t *testing.T) {
	svc, store, enrollmentID := resultFixture(t)
	ctx := context.Background()

	if _, _, err := svc.AssignGrade(ctx, enrollmentID, "A"); err != nil {
		t.Fatalf("AssignGrade failed: %v", err)
	}
	// A result belonging to a different student.
	store.byEnrollment[77] = &models.Result{ID: 2, EnrollmentID: 77, Grade: "F"}
	store.enrollmentEmails[77] = "grace@example.edu"

	results, err := svc.GetResultsByStudent(ctx, "ada@example.edu")
	if err != nil {
		t.Fatalf("GetResultsByStudent failed: %v", err)
	}
	if len(results) != 1 || results[0].EnrollmentID != enrollmentID {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestGetResultsByStudentRequiresEmail(t *testing.T) {
	svc, _, _ := resultFixture(t)

	_, err := svc.GetResultsByStudent(context.Background(), "")
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}
