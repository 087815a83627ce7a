package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NeuroCampus/neuro-console/internal/commands"
	"github.com/NeuroCampus/neuro-console/internal/models"
	"github.com/NeuroCampus/neuro-console/internal/omc"
	"github.com/NeuroCampus/neuro-console/internal/rest"
	appErrors "github.com/NeuroCampus/neuro-console/pkg/errors"
	"github.com/NeuroCampus/neuro-console/pkg/jobs"
	"github.com/NeuroCampus/neuro-console/pkg/metrics"
)

const notifyKindLowAttendance = "LOW_ATTENDANCE"

type notificationAPI interface {
	AttendanceSummary(ctx context.Context, f rest.AttendanceFilter) ([]models.AttendanceSummary, error)
	NotifyStudent(ctx context.Context, cmd commands.NotifyCommand) error
}

// NotificationScreen manages low-attendance notices. Each student has an
// independent pending flag; bulk fan-out goes through the worker queue so
// one slow or failing notice never blocks the others.
type NotificationScreen struct {
	api    notificationAPI
	logger *zap.Logger
	queue  *jobs.Queue

	mu        sync.Mutex
	summaries []models.AttendanceSummary

	records *omc.Controller[models.NotificationRecord]
}

// NewNotificationScreen creates the screen controller. The queue is started
// lazily on the first NotifyAll call.
func NewNotificationScreen(api notificationAPI, logger *zap.Logger, m *metrics.Set, queueCfg jobs.QueueConfig) *NotificationScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationScreen{
		api:     api,
		logger:  logger,
		records: omc.NewController[models.NotificationRecord]("notification", logger, m),
	}
	queueCfg.Logger = logger
	s.queue = jobs.NewQueue("notifications", s.handleJob, queueCfg)
	return s
}

// Load fetches the below-cutoff attendance summaries for the scope. The
// summary slice is replaced wholesale.
func (s *NotificationScreen) Load(ctx context.Context, f rest.AttendanceFilter) error {
	f.BelowOnly = true
	summaries, err := s.api.AttendanceSummary(ctx, f)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.summaries = summaries
	s.mu.Unlock()
	return nil
}

// Notify sends a low-attendance notice to one student. The notice record
// appears optimistically and is trusted on success (no refetch for simple
// status flips).
func (s *NotificationScreen) Notify(ctx context.Context, studentID string) error {
	if studentID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student id required")
	}

	record := models.NotificationRecord{
		ID:         "tmp-" + uuid.NewString(),
		StudentID:  studentID,
		Kind:       notifyKindLowAttendance,
		Message:    fmt.Sprintf("Attendance below cutoff for student %s", studentID),
		NotifiedAt: time.Now().UTC(),
	}

	return s.records.Run(ctx, omc.Mutation[models.NotificationRecord]{
		Key: studentID,
		Apply: func(items []models.NotificationRecord) []models.NotificationRecord {
			return append(items, record)
		},
		Dispatch: func(ctx context.Context) error {
			return s.api.NotifyStudent(ctx, commands.NotifyCommand{
				StudentID: studentID,
				Kind:      notifyKindLowAttendance,
				Message:   record.Message,
			})
		},
		// Other students' notices may be in flight; drop only this record.
		Revert: func(items []models.NotificationRecord) []models.NotificationRecord {
			kept := items[:0]
			for _, item := range items {
				if item.ID != record.ID {
					kept = append(kept, item)
				}
			}
			return kept
		},
	})
}

// NotifyAll enqueues one notification job per below-cutoff student. Each
// job settles independently; failures roll back only their own record.
func (s *NotificationScreen) NotifyAll(ctx context.Context) (int, error) {
	s.queue.Start(ctx)

	s.mu.Lock()
	targets := append([]models.AttendanceSummary(nil), s.summaries...)
	s.mu.Unlock()

	enqueued := 0
	for _, summary := range targets {
		job := jobs.Job{
			ID:       uuid.NewString(),
			TargetID: summary.StudentID,
			Kind:     notifyKindLowAttendance,
		}
		if err := s.queue.Enqueue(job); err != nil {
			return enqueued, err
		}
		enqueued++
	}
	return enqueued, nil
}

func (s *NotificationScreen) handleJob(ctx context.Context, job jobs.Job) error {
	err := s.Notify(ctx, job.TargetID)
	// A refused duplicate means a notice for this student is already in
	// flight; do not retry it.
	if err != nil && appErrors.FromError(err).Code == appErrors.ErrMutationInFlight.Code {
		return nil
	}
	return err
}

// Summaries returns the below-cutoff attendance summaries.
func (s *NotificationScreen) Summaries() []models.AttendanceSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AttendanceSummary(nil), s.summaries...)
}

// Records returns the local notification records.
func (s *NotificationScreen) Records() []models.NotificationRecord {
	return s.records.Items()
}

// Notifying reports whether a notice for the student is in flight.
func (s *NotificationScreen) Notifying(studentID string) bool {
	return s.records.Pending(studentID)
}

// Close detaches the screen and stops the worker queue.
func (s *NotificationScreen) Close() {
	s.records.Close()
	s.queue.Stop()
}
