package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hirestack/gauntlet/internal/deadline"
	"github.com/hirestack/gauntlet/internal/model"
	"github.com/hirestack/gauntlet/internal/phase"
	"github.com/hirestack/gauntlet/internal/proctor"
	"github.com/hirestack/gauntlet/internal/report"
	"github.com/hirestack/gauntlet/internal/service"
)

var (
	// ErrGateInFlight rejects a resubmission while a review call is
	// outstanding for the same candidate.
	ErrGateInFlight = errors.New("a review is already in progress for this candidate")
	// ErrCaptureBlocked rejects submission while capture permission is denied.
	ErrCaptureBlocked = errors.New("camera or microphone permission denied; submission blocked")
	// ErrInvalidTransition rejects a phase operation the transition table
	// does not allow.
	ErrInvalidTransition = errors.New("operation not valid in the current phase")
	// ErrJudgeUnavailable wraps a judge network or model failure. The phase
	// has been rolled back; the candidate may resubmit.
	ErrJudgeUnavailable = errors.New("reviewer unavailable, resubmit to retry")
	// ErrNoSession means the candidate has no loaded assessment session.
	ErrNoSession = errors.New("no active assessment session")
)

// CandidateStore is the slice of the repository the controller reads and
// writes outside the snapshot path.
type CandidateStore interface {
	FindCandidateByID(id uuid.UUID) (*model.Candidate, error)
	AppendLog(candidateID uuid.UUID, kind, message string) error
	SetArchived(id uuid.UUID, archived bool) error
	SetCommunicationSent(id uuid.UUID, sent bool) error
}

// SnapshotQueue is the debounced single-writer persistence path for the
// gauntlet state field.
type SnapshotQueue interface {
	Enqueue(id uuid.UUID, state string, start *time.Time)
	Flush(id uuid.UUID)
}

// GauntletUsecase drives a candidate through the three gated assessment
// stages: it sequences phases through the transition table, collects
// proctoring evidence, invokes the judges at the right moments, and pushes
// every mutation through the persistence queue.
type GauntletUsecase struct {
	candidates   CandidateStore
	queue        SnapshotQueue
	phaseJudge   service.PhaseJudgeInterface
	proctorJudge service.ProctorJudgeInterface
	questions    service.QuestionServiceInterface
	notifier     service.NotificationServiceInterface
	now          func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*candidateSession
}

// candidateSession is the in-memory state for one candidate's run. Its mutex
// serializes every phase operation; TryLock turns concurrent gate attempts
// into ErrGateInFlight instead of queueing them.
type candidateSession struct {
	mu        sync.Mutex
	candidate *model.Candidate
	snapshot  *model.AssessmentSnapshot
	evidence  *proctor.Session
}

func NewGauntletUsecase(
	candidates CandidateStore,
	queue SnapshotQueue,
	phaseJudge service.PhaseJudgeInterface,
	proctorJudge service.ProctorJudgeInterface,
	questions service.QuestionServiceInterface,
	notifier service.NotificationServiceInterface,
) *GauntletUsecase {
	return &GauntletUsecase{
		candidates:   candidates,
		queue:        queue,
		phaseJudge:   phaseJudge,
		proctorJudge: proctorJudge,
		questions:    questions,
		notifier:     notifier,
		now:          time.Now,
		sessions:     make(map[uuid.UUID]*candidateSession),
	}
}

// LoadSession reads the candidate's durable record and materializes the
// in-memory session. A snapshot persisted mid-review rolls back to the stage
// it shadows so the candidate can resubmit. Evidence never survives a reload;
// capture restarts with the next question.
func (uc *GauntletUsecase) LoadSession(id uuid.UUID) (*model.Candidate, *model.AssessmentSnapshot, error) {
	candidate, err := uc.candidates.FindCandidateByID(id)
	if err != nil {
		return nil, nil, err
	}
	snapshot, err := model.DecodeSnapshot(candidate.GauntletState)
	if err != nil {
		return nil, nil, err
	}
	if phase.IsPending(snapshot.Phase) {
		snapshot.Phase = phase.StageFor(snapshot.Phase)
	}

	uc.mu.Lock()
	sess, ok := uc.sessions[id]
	if !ok {
		sess = &candidateSession{}
		uc.sessions[id] = sess
	}
	uc.mu.Unlock()

	sess.mu.Lock()
	sess.candidate = candidate
	sess.snapshot = snapshot
	sess.evidence = nil
	snap := snapshot.Clone()
	sess.mu.Unlock()

	return candidate, snap, nil
}

// EndSession discards the in-memory session. Unpersisted evidence for the
// current attempt is dropped.
func (uc *GauntletUsecase) EndSession(id uuid.UUID) {
	uc.mu.Lock()
	delete(uc.sessions, id)
	uc.mu.Unlock()
	uc.queue.Flush(id)
}

// StartPhase initializes a stage the candidate is entitled to: Locked moves
// forward into Technical, and a stage already reached through its gate is
// (re)initialized in place. Content generation is keyed by the candidate's
// role and narrative, and proctoring evidence is reset.
func (uc *GauntletUsecase) StartPhase(ctx context.Context, id uuid.UUID, target phase.Phase) (*model.AssessmentSnapshot, error) {
	sess, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	if !sess.mu.TryLock() {
		return nil, ErrGateInFlight
	}
	defer sess.mu.Unlock()

	if !phase.IsStage(target) {
		return nil, fmt.Errorf("%w: %s is not a startable stage", ErrInvalidTransition, target)
	}
	current := sess.snapshot.Phase
	entering := current != target
	if entering && !phase.CanTransition(current, target) {
		return nil, fmt.Errorf("%w: cannot start %s from %s", ErrInvalidTransition, target, current)
	}

	switch target {
	case phase.Technical:
		questions, err := uc.questions.TechnicalQuestions(ctx, sess.candidate.Role, sess.candidate.Narrative)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrJudgeUnavailable, err)
		}
		sess.snapshot.Questions = questions
		sess.snapshot.QuestionIndex = 0
		sess.snapshot.TechnicalBlocks = nil
	case phase.SystemDesign:
		prompt, err := uc.questions.DesignPrompt(ctx, sess.candidate.Role, sess.candidate.Narrative)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrJudgeUnavailable, err)
		}
		sess.snapshot.DesignPrompt = prompt
	case phase.FinalInterview:
		// No generated content; the interviewer drives this stage.
	}

	sess.snapshot.Phase = target
	sess.evidence = proctor.NewSession()

	if entering && current == phase.Locked && sess.candidate.GauntletStartDate == nil {
		started := uc.now()
		sess.candidate.GauntletStartDate = &started
		uc.logEvent(id, model.LogKindStatusChange, "Gauntlet started: entered "+target.Label())
	}

	uc.persist(sess)
	return sess.snapshot.Clone(), nil
}

// SubmitAnswer handles one answer for the current stage. Technical answers go
// through the per-question proctor judge; a failing verdict is terminal. The
// last technical answer and every design/final submission compile the stage
// report and run the holistic gate.
func (uc *GauntletUsecase) SubmitAnswer(ctx context.Context, id uuid.UUID, answer string) (*model.AssessmentSnapshot, error) {
	sess, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	if !sess.mu.TryLock() {
		return nil, ErrGateInFlight
	}
	defer sess.mu.Unlock()

	if strings.TrimSpace(answer) == "" {
		return nil, fmt.Errorf("answer cannot be empty")
	}
	if !phase.IsStage(sess.snapshot.Phase) {
		return nil, fmt.Errorf("%w: cannot submit in %s", ErrInvalidTransition, sess.snapshot.Phase)
	}
	if sess.evidence == nil {
		// Evidence did not survive a reload; capture restarted on resume.
		sess.evidence = proctor.NewSession()
	}
	if sess.evidence.Blocked() {
		return nil, ErrCaptureBlocked
	}

	switch sess.snapshot.Phase {
	case phase.Technical:
		if err := uc.submitTechnical(ctx, sess, answer); err != nil {
			return nil, err
		}
	case phase.SystemDesign:
		// Design answers carry no per-answer proctoring gate.
		sess.evidence.Stop()
		stageReport := fmt.Sprintf("Design prompt:\n%s\n\nCandidate response:\n%s",
			sess.snapshot.DesignPrompt, answer)
		sess.snapshot.SystemDesignReport = &stageReport
		sess.evidence = nil
		if err := uc.runGate(ctx, sess, phase.SystemDesign, stageReport); err != nil {
			return nil, err
		}
	case phase.FinalInterview:
		sess.evidence.Stop()
		stageReport := "Final interview response:\n" + answer
		sess.snapshot.FinalInterviewReport = &stageReport
		sess.evidence = nil
		if err := uc.runGate(ctx, sess, phase.FinalInterview, stageReport); err != nil {
			return nil, err
		}
	}

	return sess.snapshot.Clone(), nil
}

// submitTechnical grades one technical answer with its evidence. A failing
// proctor verdict is final for the whole run: the stage report is compiled
// and the controller goes straight to Failed with no holistic re-review.
func (uc *GauntletUsecase) submitTechnical(ctx context.Context, sess *candidateSession, answer string) error {
	snapshot := sess.snapshot
	if len(snapshot.Questions) == 0 || snapshot.QuestionIndex >= len(snapshot.Questions) {
		return fmt.Errorf("%w: technical stage has no open question", ErrInvalidTransition)
	}
	question := snapshot.Questions[snapshot.QuestionIndex]
	evidence := sess.evidence.Stop()

	result, err := uc.proctorJudge.Evaluate(ctx, service.ProctorInput{
		Question:          question,
		Answer:            answer,
		VisibilityEvents:  evidence.EventDescriptions(),
		AmbientTranscript: evidence.TranscriptOrNone(),
	})
	if err != nil {
		// Same question stands; capture restarts for the retry.
		sess.evidence = proctor.NewSession()
		return fmt.Errorf("%w: %v", ErrJudgeUnavailable, err)
	}

	block := formatTechnicalBlock(snapshot.QuestionIndex+1, question, answer, result, evidence)
	if len(snapshot.TechnicalBlocks) > snapshot.QuestionIndex {
		// Resubmission after a rolled-back gate replaces the question's block.
		snapshot.TechnicalBlocks[snapshot.QuestionIndex] = block
	} else {
		snapshot.TechnicalBlocks = append(snapshot.TechnicalBlocks, block)
	}

	if !result.IsPass {
		stageReport := strings.Join(snapshot.TechnicalBlocks, "\n\n")
		snapshot.TechnicalReport = &stageReport
		sess.evidence = nil
		reason := fmt.Sprintf("Technical question %d failed with score %d/100. %s",
			snapshot.QuestionIndex+1, result.Score, result.Evaluation)
		uc.fail(ctx, sess, phase.Technical, reason)
		return nil
	}

	if snapshot.QuestionIndex+1 < len(snapshot.Questions) {
		snapshot.QuestionIndex++
		sess.evidence = proctor.NewSession()
		uc.persist(sess)
		return nil
	}

	stageReport := strings.Join(snapshot.TechnicalBlocks, "\n\n")
	snapshot.TechnicalReport = &stageReport
	sess.evidence = nil
	return uc.runGate(ctx, sess, phase.Technical, stageReport)
}

// runGate enters the pending-review shadow state, invokes the phase judge
// with the stage report, and applies the gating rule. A judge failure rolls
// the phase back to the stage so the candidate can resubmit.
func (uc *GauntletUsecase) runGate(ctx context.Context, sess *candidateSession, stage phase.Phase, stageReport string) error {
	pending := phase.PendingFor(stage)
	sess.snapshot.Phase = pending
	uc.persist(sess)

	review, err := uc.phaseJudge.Review(ctx, stageReport)
	if err != nil {
		sess.snapshot.Phase = phase.StageFor(pending)
		uc.persist(sess)
		return fmt.Errorf("%w: %v", ErrJudgeUnavailable, err)
	}

	sess.snapshot.SetReview(stage, review)

	if !review.Recommendation.Passing() {
		reason := fmt.Sprintf("%s review returned Do Not Hire. %s", stage.Label(), review.Assessment)
		uc.fail(ctx, sess, stage, reason)
		return nil
	}

	next := phase.Next(pending)
	sess.snapshot.Phase = next
	uc.logEvent(sess.candidate.ID, model.LogKindStatusChange,
		fmt.Sprintf("%s passed (%s); advanced to %s", stage.Label(), review.Recommendation, next.Label()))
	uc.persist(sess)

	if next == phase.Complete {
		uc.logEvent(sess.candidate.ID, model.LogKindStatusChange, "Gauntlet complete: all three gates passed")
		uc.queue.Flush(sess.candidate.ID)
	}
	return nil
}

// fail runs the terminal failure handling exactly once: it compiles the
// rejection rationale, requests the rejection draft, archives the candidate,
// and, when the final interview was the failing stage, requests the one-time
// skill-gap analysis. Collaborator errors are logged, never fatal; the
// transition to Failed always lands.
func (uc *GauntletUsecase) fail(ctx context.Context, sess *candidateSession, failedStage phase.Phase, reason string) {
	if sess.snapshot.Phase == phase.Failed {
		return
	}

	rationale := fmt.Sprintf("Failed at %s. %s", failedStage.Label(), reason)
	if r := sess.snapshot.ReportFor(failedStage); r != nil {
		rationale += "\n\nStage report:\n" + *r
	}
	sess.snapshot.FailureRationale = rationale
	sess.snapshot.Phase = phase.Failed

	candidate := sess.candidate
	uc.logEvent(candidate.ID, model.LogKindStatusChange, "Gauntlet failed: "+reason)

	draft, err := uc.notifier.DraftRejection(ctx, candidate.Name, candidate.Role, candidate.Skills, rationale)
	if err != nil {
		log.Printf("rejection draft for candidate %s failed: %v", candidate.ID, err)
	} else {
		uc.logEvent(candidate.ID, model.LogKindCommunication, "Rejection draft prepared:\n"+draft)
		if err := uc.candidates.SetCommunicationSent(candidate.ID, true); err != nil {
			log.Printf("marking communication for candidate %s failed: %v", candidate.ID, err)
		} else {
			candidate.CommunicationSent = true
		}
	}

	if err := uc.candidates.SetArchived(candidate.ID, true); err != nil {
		log.Printf("archiving candidate %s failed: %v", candidate.ID, err)
	}
	candidate.Archived = true

	if failedStage == phase.FinalInterview {
		analysis, err := uc.notifier.SkillGapAnalysis(ctx, candidate.Name, candidate.Role, candidate.Skills)
		if err != nil {
			log.Printf("skill gap analysis for candidate %s failed: %v", candidate.ID, err)
		} else {
			uc.logEvent(candidate.ID, model.LogKindAIAction, "Skill gap analysis:\n"+analysis)
		}
	}

	uc.persist(sess)
	uc.queue.Flush(candidate.ID)
}

// RecordHidden appends one visibility-loss event to the current attempt.
func (uc *GauntletUsecase) RecordHidden(id uuid.UUID) error {
	return uc.withEvidence(id, func(s *proctor.Session) { s.RecordHidden() })
}

// AppendTranscript feeds one finalized speech segment to the current attempt.
func (uc *GauntletUsecase) AppendTranscript(id uuid.UUID, segment string) error {
	return uc.withEvidence(id, func(s *proctor.Session) { s.AppendTranscript(segment) })
}

// SetCaptureBlocked records whether capture permission is currently denied.
func (uc *GauntletUsecase) SetCaptureBlocked(id uuid.UUID, blocked bool) error {
	return uc.withEvidence(id, func(s *proctor.Session) { s.SetBlocked(blocked) })
}

func (uc *GauntletUsecase) withEvidence(id uuid.UUID, fn func(*proctor.Session)) error {
	sess, err := uc.session(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !phase.IsStage(sess.snapshot.Phase) {
		return fmt.Errorf("%w: no stage attempt in progress", ErrInvalidTransition)
	}
	if sess.evidence == nil {
		sess.evidence = proctor.NewSession()
	}
	fn(sess.evidence)
	return nil
}

// Status returns the current snapshot together with the derived deadline.
func (uc *GauntletUsecase) Status(id uuid.UUID) (*model.Candidate, *model.AssessmentSnapshot, deadline.Status, error) {
	sess, err := uc.session(id)
	if err != nil {
		return nil, nil, deadline.Status{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	snap := sess.snapshot.Clone()
	status := deadline.Compute(sess.candidate.GauntletStartDate, uc.now(), snap.Phase)
	return sess.candidate, snap, status, nil
}

// ExportReport compiles the transcript document and its download filename.
func (uc *GauntletUsecase) ExportReport(id uuid.UUID) (filename, content string, err error) {
	sess, err := uc.session(id)
	if err != nil {
		return "", "", err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return report.Filename(sess.candidate.Name), report.Compile(sess.snapshot, sess.candidate.Name), nil
}

func (uc *GauntletUsecase) session(id uuid.UUID) (*candidateSession, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	sess, ok := uc.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

// persist enqueues the whole snapshot. The in-memory state is authoritative;
// the queue owns retries-by-supersession.
func (uc *GauntletUsecase) persist(sess *candidateSession) {
	encoded, err := sess.snapshot.Encode()
	if err != nil {
		log.Printf("encoding snapshot for candidate %s failed: %v", sess.candidate.ID, err)
		return
	}
	uc.queue.Enqueue(sess.candidate.ID, encoded, sess.candidate.GauntletStartDate)
}

func (uc *GauntletUsecase) logEvent(id uuid.UUID, kind, message string) {
	if err := uc.candidates.AppendLog(id, kind, message); err != nil {
		log.Printf("appending %s log for candidate %s failed: %v", kind, id, err)
	}
}

// formatTechnicalBlock renders one question's record in the fixed order the
// phase judge expects: question, answer, score and verdict, evaluation,
// proctoring summary, raw visibility log, raw transcript.
func formatTechnicalBlock(n int, question, answer string, result *model.ProctorResult, evidence proctor.Evidence) string {
	verdict := "FAIL"
	if result.IsPass {
		verdict = "PASS"
	}
	events := "None"
	if descs := evidence.EventDescriptions(); len(descs) > 0 {
		events = strings.Join(descs, "\n")
	}
	return fmt.Sprintf(
		"Question %d: %s\n\nCandidate answer:\n%s\n\nScore: %d/100 (%s)\n\nEvaluation:\n%s\n\nProctoring summary:\n%s\n\nVisibility events:\n%s\n\nAmbient transcript:\n%s",
		n, question, answer, result.Score, verdict, result.Evaluation,
		result.ProctoringSummary, events, evidence.TranscriptOrNone())
}
