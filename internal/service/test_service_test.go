package service

import (
	"context"
	"testing"
	"time"

	"quiz_backend/internal/model"
	"quiz_backend/internal/util"
)

func TestListAvailableFiltersByWindowAndEnrollment(t *testing.T) {
	past := fixedNow.Add(-time.Hour)

	open := defaultTest()
	closed := defaultTest()
	closed.ID, closed.EndDate = "t2", &past
	enrolled := defaultTest()
	enrolled.ID, enrolled.Visibility, enrolled.AllowedStudentIDs = "t3", model.VisibilityEnrolled, []uint{9}
	coded := defaultTest()
	coded.ID, coded.Visibility, coded.JoinCode = "t4", model.VisibilityCode, "X"

	svc := NewTestService(newFakeTestStore(open, closed, enrolled, coded), newFakeQuestionStore())
	svc.now = func() time.Time { return fixedNow }

	tests, err := svc.ListAvailable(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	got := map[string]bool{}
	for _, tt := range tests {
		got[tt.ID] = true
	}
	if !got["t1"] || got["t2"] || got["t3"] || !got["t4"] || len(got) != 2 {
		t.Fatalf("unexpected listing: %v", got)
	}

	tests, _ = svc.ListAvailable(context.Background(), 9)
	if len(tests) != 3 {
		t.Fatalf("enrolled student should see 3 tests, got %d", len(tests))
	}
}

func TestGetForStudent(t *testing.T) {
	past := fixedNow.Add(-time.Hour)
	closed := defaultTest()
	closed.ID, closed.EndDate = "t2", &past

	svc := NewTestService(
		newFakeTestStore(defaultTest(), closed),
		newFakeQuestionStore(makeQuestions("paris", "rome", "madrid", "berlin")...),
	)
	svc.now = func() time.Time { return fixedNow }

	test, questions, err := svc.GetForStudent(context.Background(), 1, "t1", "")
	if err != nil {
		t.Fatalf("GetForStudent failed: %v", err)
	}
	if test.ID != "t1" || len(questions) != 4 || questions[0].ID != "q1" {
		t.Fatalf("unexpected result: %s %d", test.ID, len(questions))
	}

	_, _, err = svc.GetForStudent(context.Background(), 1, "t2", "")
	requireReason(t, err, util.ReasonWindowClosed)

	_, _, err = svc.GetForStudent(context.Background(), 1, "nope", "")
	requireReason(t, err, util.ReasonNotFound)
}
