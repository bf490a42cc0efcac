package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quiz_backend/internal/model"
	"quiz_backend/internal/util"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	attempts  *fakeAttemptStore
	tests     *fakeTestStore
	questions *fakeQuestionStore
	svc       *AttemptService
	grading   *GradingService
}

func defaultTest() *model.Test {
	return &model.Test{
		UUIDBase:    model.UUIDBase{ID: "t1"},
		TeacherID:   7,
		Title:       "Capitals",
		QuestionIDs: []string{"q1", "q2", "q3", "q4"},
		Visibility:  model.VisibilityPublic,
		CorrectMark: 1,
	}
}

func newFixture(t *testing.T, tests ...*model.Test) *fixture {
	t.Helper()
	if len(tests) == 0 {
		tests = []*model.Test{defaultTest()}
	}
	f := &fixture{
		attempts:  newFakeAttemptStore(),
		tests:     newFakeTestStore(tests...),
		questions: newFakeQuestionStore(makeQuestions("paris", "rome", "madrid", "berlin")...),
	}
	f.svc = NewAttemptService(f.attempts, f.tests, f.questions, f.attempts)
	f.svc.now = func() time.Time { return fixedNow }
	f.grading = NewGradingService(f.attempts, f.tests, f.questions)
	return f
}

func (f *fixture) start(t *testing.T, studentID uint) *model.Attempt {
	t.Helper()
	attempt, err := f.svc.Start(context.Background(), studentID, "t1", "")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return attempt
}

func requireReason(t *testing.T, err error, reason string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil error", reason)
	}
	re := util.ReasonOf(err)
	if re == nil || re.Reason != reason {
		t.Fatalf("expected reason %s, got %v", reason, err)
	}
}

func TestStartCreatesActiveAttempt(t *testing.T) {
	f := newFixture(t)
	attempt := f.start(t, 1)

	if attempt.ID == "" || !attempt.StartTime.Equal(fixedNow) {
		t.Fatalf("unexpected attempt: %+v", attempt)
	}
	if !attempt.IsActive() || len(attempt.Answers) != 0 || attempt.Score != nil {
		t.Fatalf("new attempt should be open and empty: %+v", attempt)
	}
}

func TestStartRejectsSecondActiveAttempt(t *testing.T) {
	f := newFixture(t)
	f.start(t, 1)

	_, err := f.svc.Start(context.Background(), 1, "t1", "")
	requireReason(t, err, util.ReasonAlreadyActive)
	if !errors.Is(err, util.ErrAlreadyActive) {
		t.Fatalf("errors.Is(err, ErrAlreadyActive) = false")
	}
	if f.attempts.count() != 1 {
		t.Fatalf("expected a single stored attempt, got %d", f.attempts.count())
	}

	// another student is unaffected
	f.start(t, 2)
}

func TestStartConcurrentCallsOpenOneAttempt(t *testing.T) {
	f := newFixture(t)

	const callers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, refused := 0, 0
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Start(context.Background(), 1, "t1", "")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, util.ErrAlreadyActive) {
				refused++
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || refused != callers-1 {
		t.Fatalf("succeeded=%d refused=%d, want 1 and %d", succeeded, refused, callers-1)
	}
}

func TestStartOutsideWindow(t *testing.T) {
	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(time.Hour)

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
	}{
		{"after end date", nil, &past},
		{"before start date", &future, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := defaultTest()
			def.StartDate = tt.start
			def.EndDate = tt.end
			f := newFixture(t, def)

			_, err := f.svc.Start(context.Background(), 1, "t1", "")
			requireReason(t, err, util.ReasonWindowClosed)
			if f.attempts.count() != 0 {
				t.Fatalf("no attempt should be created, got %d", f.attempts.count())
			}
		})
	}
}

func TestStartInsideWindow(t *testing.T) {
	def := defaultTest()
	start, end := fixedNow.Add(-time.Minute), fixedNow.Add(time.Minute)
	def.StartDate, def.EndDate = &start, &end
	f := newFixture(t, def)
	f.start(t, 1)
}

func TestStartMissingTest(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Start(context.Background(), 1, "nope", "")
	requireReason(t, err, util.ReasonNotFound)
	if !errors.Is(err, util.ErrTestNotFound) {
		t.Fatalf("expected ErrTestNotFound, got %v", err)
	}
}

func TestStartVisibility(t *testing.T) {
	enrolled := defaultTest()
	enrolled.Visibility = model.VisibilityEnrolled
	enrolled.AllowedStudentIDs = []uint{5}

	coded := defaultTest()
	coded.Visibility = model.VisibilityCode
	coded.JoinCode = "JOIN42"

	tests := []struct {
		name      string
		test      *model.Test
		studentID uint
		code      string
		wantErr   bool
	}{
		{"enrolled student", enrolled, 5, "", false},
		{"not enrolled", enrolled, 6, "", true},
		{"right code", coded, 6, "JOIN42", false},
		{"wrong code", coded, 6, "nope", true},
		{"missing code", coded, 6, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.test)
			_, err := f.svc.Start(context.Background(), tt.studentID, "t1", tt.code)
			if tt.wantErr {
				requireReason(t, err, util.ReasonForbidden)
				return
			}
			if err != nil {
				t.Fatalf("Start failed: %v", err)
			}
		})
	}
}

func TestGetProgressWithoutSaveReturnsEmptySnapshot(t *testing.T) {
	f := newFixture(t)
	attempt := f.start(t, 1)

	progress, err := f.svc.GetProgress(context.Background(), attempt.ID, 1)
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}
	if progress.Answers == nil || len(progress.Answers) != 0 || progress.TimeLeft != 0 || progress.Current != 0 {
		t.Fatalf("expected empty snapshot, got %+v", progress)
	}
}

func TestSaveProgressReplacesSnapshot(t *testing.T) {
	f := newFixture(t)
	attempt := f.start(t, 1)
	ctx := context.Background()

	if err := f.svc.SaveProgress(ctx, attempt.ID, 1, map[string]string{"q1": "paris", "q2": "rome"}, 300, 1); err != nil {
		t.Fatalf("SaveProgress failed: %v", err)
	}
	if err := f.svc.SaveProgress(ctx, attempt.ID, 1, map[string]string{"q3": "madrid"}, 250, 2); err != nil {
		t.Fatalf("SaveProgress failed: %v", err)
	}

	progress, err := f.svc.GetProgress(ctx, attempt.ID, 1)
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}
	if len(progress.Answers) != 1 || progress.Answers["q3"] != "madrid" {
		t.Fatalf("snapshot should be replaced, got %+v", progress.Answers)
	}
	if progress.TimeLeft != 250 || progress.Current != 2 || !progress.LastUpdate.Equal(fixedNow) {
		t.Fatalf("unexpected snapshot: %+v", progress)
	}
}

func TestProgressPreconditions(t *testing.T) {
	f := newFixture(t)
	attempt := f.start(t, 1)
	ctx := context.Background()

	err := f.svc.SaveProgress(ctx, attempt.ID, 2, nil, 0, 0)
	requireReason(t, err, util.ReasonForbidden)
	_, err = f.svc.GetProgress(ctx, attempt.ID, 2)
	requireReason(t, err, util.ReasonForbidden)

	err = f.svc.SaveProgress(ctx, "missing", 1, nil, 0, 0)
	requireReason(t, err, util.ReasonNotFound)

	if err := f.svc.SaveProgress(ctx, attempt.ID, 1, map[string]string{"q1": "x"}, 10, 0); err != nil {
		t.Fatalf("SaveProgress failed: %v", err)
	}
	if _, err := f.svc.Submit(ctx, attempt.ID, 1, nil); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	err = f.svc.SaveProgress(ctx, attempt.ID, 1, map[string]string{"q1": "y"}, 5, 0)
	requireReason(t, err, util.ReasonAlreadyCompleted)
	_, err = f.svc.GetProgress(ctx, attempt.ID, 1)
	requireReason(t, err, util.ReasonAlreadyCompleted)

	stored, _ := f.attempts.FindByID(ctx, attempt.ID)
	if stored.Progress != nil {
		t.Fatalf("progress should be cleared on submit, got %+v", stored.Progress)
	}
}

func TestSubmitIsExactlyOnce(t *testing.T) {
	f := newFixture(t)
	attempt := f.start(t, 1)
	ctx := context.Background()

	first := []model.SubmittedAnswer{answer("q1", "Paris"), answer("q2", "rome ")}
	result, err := f.svc.Submit(ctx, attempt.ID, 1, first)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Score != 50 || result.TotalQuestions != 4 || result.CorrectCount != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	second := []model.SubmittedAnswer{
		answer("q1", "paris"), answer("q2", "rome"), answer("q3", "madrid"), answer("q4", "berlin"),
	}
	_, err = f.svc.Submit(ctx, attempt.ID, 1, second)
	requireReason(t, err, util.ReasonAlreadyCompleted)

	stored, _ := f.attempts.FindByID(ctx, attempt.ID)
	if stored.Score == nil || *stored.Score != 50 {
		t.Fatalf("stored score should reflect the first submit, got %v", stored.Score)
	}
	if stored.EndTime == nil || !stored.EndTime.Equal(fixedNow) {
		t.Fatalf("end time not set: %+v", stored.EndTime)
	}
	if len(stored.Answers) != 2 {
		t.Fatalf("stored answers should be the first submission, got %d", len(stored.Answers))
	}
}

func TestSubmitConcurrentCallsScoreOnce(t *testing.T) {
	f := newFixture(t)
	attempt := f.start(t, 1)

	const callers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, completed := 0, 0
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Submit(context.Background(), attempt.ID, 1, []model.SubmittedAnswer{answer("q1", "paris")})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, util.ErrAlreadyCompleted) {
				completed++
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || completed != callers-1 {
		t.Fatalf("succeeded=%d completed=%d, want 1 and %d", succeeded, completed, callers-1)
	}
}

func TestSubmitRejectsDegenerateTest(t *testing.T) {
	def := defaultTest()
	def.QuestionIDs = []string{"gone-1", "gone-2"}
	f := newFixture(t, def)
	attempt := f.start(t, 1)

	_, err := f.svc.Submit(context.Background(), attempt.ID, 1, []model.SubmittedAnswer{answer("gone-1", "x")})
	requireReason(t, err, util.ReasonNoQuestions)

	stored, _ := f.attempts.FindByID(context.Background(), attempt.ID)
	if !stored.IsActive() {
		t.Fatalf("attempt must stay open after a rejected submit")
	}
}

func TestSubmitOwnership(t *testing.T) {
	f := newFixture(t)
	attempt := f.start(t, 1)

	_, err := f.svc.Submit(context.Background(), attempt.ID, 2, nil)
	requireReason(t, err, util.ReasonForbidden)

	_, err = f.svc.Submit(context.Background(), "missing", 1, nil)
	requireReason(t, err, util.ReasonNotFound)
}

func TestSubmitPersistenceError(t *testing.T) {
	f := newFixture(t)
	attempt := f.start(t, 1)
	cause := errors.New("connection reset")
	f.attempts.writeErr = cause

	_, err := f.svc.Submit(context.Background(), attempt.ID, 1, nil)
	requireReason(t, err, util.ReasonPersistenceError)
	if !errors.Is(err, cause) {
		t.Fatalf("storage cause should stay in the chain, got %v", err)
	}
}

func TestSubmitForTest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitForTest(ctx, "t1", 1, nil)
	requireReason(t, err, util.ReasonNotFound)

	_, err = f.svc.SubmitForTest(ctx, "missing", 1, nil)
	if !errors.Is(err, util.ErrTestNotFound) {
		t.Fatalf("expected ErrTestNotFound, got %v", err)
	}

	f.start(t, 1)
	result, err := f.svc.SubmitForTest(ctx, "t1", 1, []model.SubmittedAnswer{answer("q1", "paris")})
	if err != nil {
		t.Fatalf("SubmitForTest failed: %v", err)
	}
	if result.Score != 25 {
		t.Fatalf("score = %v, want 25", result.Score)
	}

	_, err = f.svc.SubmitForTest(ctx, "t1", 1, nil)
	requireReason(t, err, util.ReasonAlreadyCompleted)

	// a new attempt may be started once the previous one is closed
	f.start(t, 1)
}

func TestStudentAttemptViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine := f.start(t, 1)
	other := f.start(t, 2)

	list, err := f.svc.ListForStudent(ctx, 1)
	if err != nil {
		t.Fatalf("ListForStudent failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != mine.ID {
		t.Fatalf("unexpected attempts: %+v", list)
	}

	if _, err := f.svc.GetForStudent(ctx, other.ID, 1); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("other student's attempt should be hidden, got %v", err)
	}
	got, err := f.svc.GetForStudent(ctx, mine.ID, 1)
	if err != nil || got.ID != mine.ID {
		t.Fatalf("GetForStudent = (%v, %v)", got, err)
	}
}

func TestTeacherAttemptViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	attempt := f.start(t, 1)
	if _, err := f.svc.Submit(ctx, attempt.ID, 1, []model.SubmittedAnswer{answer("q2", "rome")}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	owner := Actor{UserID: 7, Role: model.Teacher}
	stranger := Actor{UserID: 8, Role: model.Teacher}

	if _, err := f.svc.ListForTest(ctx, stranger, "t1"); !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("expected Forbidden for another teacher, got %v", err)
	}
	list, err := f.svc.ListForTest(ctx, owner, "t1")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListForTest = (%d, %v)", len(list), err)
	}

	detail, err := f.svc.GetForTeacher(ctx, Actor{UserID: 1, Role: model.Admin}, attempt.ID)
	if err != nil {
		t.Fatalf("GetForTeacher failed: %v", err)
	}
	if len(detail.Answers) != 1 || detail.Answers[0].Question == nil || detail.Answers[0].Question.ID != "q2" {
		t.Fatalf("answers should be joined with questions: %+v", detail.Answers)
	}
}
