package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/emre/coursehub/internal/app/models"
	"github.com/emre/coursehub/internal/pkg/apperrors"
)

// fakeEnrollmentStore is an in-memory EnrollmentStore for service tests.
// failCreateWith lets race tests force a conflict from Create regardless
// of the existence pre-check outcome.
type fakeEnrollmentStore struct {
	nextID         int64
	enrollments    map[int64]*models.Enrollment
	failCreateWith error
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{nextID: 1, enrollments: make(map[int64]*models.Enrollment)}
}

func (f *fakeEnrollmentStore) Create(_ context.Context, enrollment *models.Enrollment) (int64, error) {
	if f.failCreateWith != nil {
		return 0, f.failCreateWith
	}
	for _, e := range f.enrollments {
		if e.StudentEmail == enrollment.StudentEmail && e.CourseID == enrollment.CourseID {
			return 0, apperrors.ErrAlreadyEnrolled
		}
	}
	id := f.nextID
	f.nextID++
	stored := *enrollment
	stored.ID = id
	f.enrollments[id] = &stored
	return id, nil
}

func (f *fakeEnrollmentStore) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	enrollment, ok := f.enrollments[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	copied := *enrollment
	return &copied, nil
}

func (f *fakeEnrollmentStore) GetAll(_ context.Context) ([]*models.Enrollment, error) {
	out := make([]*models.Enrollment, 0, len(f.enrollments))
	for _, e := range f.enrollments {
		copied := *e
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrolledAt.After(out[j].EnrolledAt) })
	return out, nil
}

func (f *fakeEnrollmentStore) FindByStudentEmail(_ context.Context, email string) ([]*models.Enrollment, error) {
	out := []*models.Enrollment{}
	for _, e := range f.enrollments {
		if e.StudentEmail == email {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrolledAt.After(out[j].EnrolledAt) })
	return out, nil
}

func (f *fakeEnrollmentStore) FindByCourseID(_ context.Context, courseID int64) ([]*models.Enrollment, error) {
	out := []*models.Enrollment{}
	for _, e := range f.enrollments {
		if e.CourseID == courseID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) ExistsByStudentEmailAndCourseID(_ context.Context, email string, courseID int64) (bool, error) {
	for _, e := range f.enrollments {
		if e.StudentEmail == email && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollmentStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := f.enrollments[id]
	return ok, nil
}

func (f *fakeEnrollmentStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.enrollments[id]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	delete(f.enrollments, id)
	return nil
}

// enrollmentFixture wires an enrollment service against fakes with one
// seeded course.
func enrollmentFixture(t *testing.T) (EnrollmentService, *fakeEnrollmentStore, int64) {
	t.Helper()
	courses := newFakeCourseStore()
	courseID, err := courses.Create(context.Background(), &models.Course{Code: "CS101", Title: "Intro", Credit: 3})
	if err != nil {
		t.Fatalf("seeding course failed: %v", err)
	}
	store := newFakeEnrollmentStore()
	return NewEnrollmentService(store, courses), store, courseID
}

func TestEnroll(t *testing.T) {
	svc, _, courseID := enrollmentFixture(t)

	enrollment, err := svc.Enroll(context.Background(), "ada@example.edu", courseID)
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if enrollment.ID <= 0 {
		t.Fatalf("expected assigned id, got %d", enrollment.ID)
	}
	if enrollment.StudentEmail != "ada@example.edu" || enrollment.CourseID != courseID {
		t.Fatalf("unexpected enrollment: %+v", enrollment)
	}
	if enrollment.EnrolledAt.IsZero() {
		t.Fatal("expected EnrolledAt to be set")
	}
	if enrollment.Course == nil || enrollment.Course.Code != "CS101" {
		t.Fatalf("expected course to be attached, got %+v", enrollment.Course)
	}
}

func TestEnrollInvalidEmail(t *testing.T) {
	svc, _, courseID := enrollmentFixture(t)

	for _, email := range []string{"", "not-an-email", "missing@tld"} {
		_, err := svc.Enroll(context.Background(), email, courseID)
		if !errors.Is(err, apperrors.ErrInvalidEmail) {
			t.Fatalf("email %q: expected ErrInvalidEmail, got %v", email, err)
		}
	}
}

func TestEnrollCourseNotFound(t *testing.T) {
	svc, _, _ := enrollmentFixture(t)

	_, err := svc.Enroll(context.Background(), "ada@example.edu", 999)
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestEnrollDuplicate(t *testing.T) {
	svc, _, courseID := enrollmentFixture(t)
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, "ada@example.edu", courseID); err != nil {
		t.Fatalf("first Enroll failed: %v", err)
	}

	_, err := svc.Enroll(ctx, "ada@example.edu", courseID)
	if !errors.Is(err, apperrors.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
}

func TestEnrollRaceConflictMapsToAlreadyEnrolled(t *testing.T) {
	// The existence pre-check passes but the insert hits the unique
	// constraint, as when a concurrent writer wins the race.
	svc, store, courseID := enrollmentFixture(t)
	store.failCreateWith = apperrors.ErrConflict

	_, err := svc.Enroll(context.Background(), "ada@example.edu", courseID)
	if !errors.Is(err, apperrors.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
}

func TestEnrollSameStudentDifferentCourses(t *testing.T) {
	ctx := context.Background()
	courses := newFakeCourseStore()
	firstID, err := courses.Create(ctx, &models.Course{Code: "CS101", Title: "Intro", Credit: 3})
	if err != nil {
		t.Fatalf("seeding course failed: %v", err)
	}
	secondID, err := courses.Create(ctx, &models.Course{Code: "MATH110", Title: "Calculus", Credit: 5})
	if err != nil {
		t.Fatalf("seeding course failed: %v", err)
	}
	svc := NewEnrollmentService(newFakeEnrollmentStore(), courses)

	if _, err := svc.Enroll(ctx, "ada@example.edu", firstID); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if _, err := svc.Enroll(ctx, "ada@example.edu", secondID); err != nil {
		t.Fatalf("enrolling same student in another course should succeed: %v", err)
	}
}

func TestListEnrollmentsByEmail(t *testing.T) {
	svc, store, courseID := enrollmentFixture(t)
	ctx := context.Background()

	first, err := svc.Enroll(ctx, "ada@example.edu", courseID)
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	// Older enrollment for the same student, inserted directly.
	store.enrollments[99] = &models.Enrollment{
		ID:           99,
		StudentEmail: "ada@example.edu",
		CourseID:     courseID + 1,
		EnrolledAt:   first.EnrolledAt.Add(-time.Hour),
	}
	if _, err := svc.Enroll(ctx, "grace@example.edu", courseID); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	enrollments, err := svc.ListEnrollments(ctx, "ada@example.edu", 0)
	if err != nil {
		t.Fatalf("ListEnrollments failed: %v", err)
	}
	if len(enrollments) != 2 {
		t.Fatalf("expected 2 enrollments, got %d", len(enrollments))
	}
	// Most recent first.
	if enrollments[0].ID != first.ID || enrollments[1].ID != 99 {
		t.Fatalf("expected newest-first ordering, got %d then %d", enrollments[0].ID, enrollments[1].ID)
	}
}

func TestListEnrollmentsUnknownEmailIsEmpty(t *testing.T) {
	svc, _, _ := enrollmentFixture(t)

	enrollments, err := svc.ListEnrollments(context.Background(), "nobody@example.edu", 0)
	if err != nil {
		t.Fatalf("expected empty list for unknown email, got error: %v", err)
	}
	if len(enrollments) != 0 {
		t.Fatalf("expected 0 enrollments, got %d", len(enrollments))
	}
}

func TestListEnrollmentsByCourse(t *testing.T) {
	svc, _, courseID := enrollmentFixture(t)
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, "ada@example.edu", courseID); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if _, err := svc.Enroll(ctx, "grace@example.edu", courseID); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	enrollments, err := svc.ListEnrollments(ctx, "", courseID)
	if err != nil {
		t.Fatalf("ListEnrollments failed: %v", err)
	}
	if len(enrollments) != 2 {
		t.Fatalf("expected 2 enrollments, got %d", len(enrollments))
	}
}

func TestListMyEnrollmentsRequiresEmail(t *testing.T) {
	svc, _, _ := enrollmentFixture(t)

	_, err := svc.ListMyEnrollments(context.Background(), "  ")
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestDeleteEnrollment(t *testing.T) {
	svc, _, courseID := enrollmentFixture(t)
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, "ada@example.edu", courseID)
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	if err := svc.DeleteEnrollment(ctx, enrollment.ID); err != nil {
		t.Fatalf("DeleteEnrollment failed: %v", err)
	}

	if err := svc.DeleteEnrollment(ctx, enrollment.ID); !errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		t.Fatalf("expected ErrEnrollmentNotFound, got %v", err)
	}
}

func TestDeleteEnrollmentUnknownID(t *testing.T) {
	svc, _, _ := enrollmentFixture(t)

	err := svc.DeleteEnrollment(context.Background(), 404)
	if !errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		t.Fatalf("expected ErrEnrollmentNotFound, got %v", err)
	}
}
