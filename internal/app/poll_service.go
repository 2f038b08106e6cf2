// internal/app/poll_service.go
package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"homework_notification_bot/internal/domain/homework"
	domainTelegram "homework_notification_bot/internal/domain/telegram"
)

// failureMessageFormat is the chat message for a recoverable cycle error.
const failureMessageFormat = "failure in program: %v"

// Pacer blocks between two cycles.
type Pacer interface {
	Wait(ctx context.Context) error
}

// pollState is owned by the loop goroutine only.
type pollState struct {
	cursor    int64             // from_date of the next request, never decreases
	lastSeen  []homework.Review // batch of the last delivered status notification
	lastError string            // identity of the last error sent through the error path
}

// PollService polls the review API, detects status changes and reports
// them, and any failures, to the Telegram chat.
type PollService struct {
	source         homework.Source
	telegramClient domainTelegram.Client
	pacer          Pacer
	logger         *logrus.Entry
	state          pollState
}

// NewPollService creates a PollService whose first request starts at cursor (unix seconds).
func NewPollService(
	source homework.Source,
	tc domainTelegram.Client,
	pacer Pacer,
	logger *logrus.Entry,
	cursor int64,
) *PollService {
	return &PollService{
		source:         source,
		telegramClient: tc,
		pacer:          pacer,
		logger:         logger,
		state:          pollState{cursor: cursor},
	}
}

// Cursor returns the from_date used by the next cycle.
func (s *PollService) Cursor() int64 { return s.state.cursor }

// Run executes cycles separated by the pacer until ctx is canceled or the
// bot credential is rejected. Cancellation returns nil; the rejection is
// returned as a *homework.Error of KindDeliveryAuth.
func (s *PollService) Run(ctx context.Context) error {
	s.logger.WithField("from_date", s.state.cursor).Info("Poll loop started")
	for {
		if err := s.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			s.logger.WithError(err).Error("Telegram rejected the bot credential, stopping")
			return err
		}
		if err := s.pacer.Wait(ctx); err != nil {
			break
		}
	}
	s.logger.Info("Poll loop stopped")
	return nil
}

// Cycle performs one poll. Recoverable failures are logged and reported to
// the chat at most once per distinct error; only a fatal delivery error or
// ctx cancellation is returned.
func (s *PollService) Cycle(ctx context.Context) error {
	log := s.logger.WithFields(logrus.Fields{
		"cycle_id":  uuid.NewString(),
		"from_date": s.state.cursor,
	})

	err := s.poll(ctx, log)
	switch {
	case err == nil:
		if s.state.lastError != "" {
			log.Info("Cycle succeeded after earlier failures")
		}
		s.state.lastError = ""
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case homework.IsFatal(err):
		return err
	case homework.KindOf(err) == homework.KindDelivery:
		// The status notification did not go out. Nothing else is sent this
		// cycle; lastSeen is unchanged so the next cycle tries again.
		log.WithError(err).Error("Status notification was not delivered")
		return nil
	}
	return s.reportFailure(ctx, log, err)
}

func (s *PollService) poll(ctx context.Context, log *logrus.Entry) error {
	payload, err := s.source.Fetch(ctx, s.state.cursor)
	if err != nil {
		return err
	}
	batch, err := homework.CheckResponse(payload)
	if err != nil {
		return err
	}

	switch {
	case len(batch.Reviews) == 0:
		log.Info("Nothing to review yet")
	case homework.SameReviews(batch.Reviews, s.state.lastSeen):
		log.Info("No change in review status")
	default:
		// Only the first, most recent record of a changed batch is reported.
		message, err := homework.ParseStatus(batch.Reviews[0])
		if err != nil {
			return err
		}
		if err := s.telegramClient.SendMessage(ctx, message); err != nil {
			return err
		}
		s.state.lastSeen = batch.Reviews
		name, _ := batch.Reviews[0].Name()
		status, _ := batch.Reviews[0].Status()
		log.WithFields(logrus.Fields{"homework": name, "status": status}).Info("Review status change sent")
	}

	s.advance(log, batch.CurrentDate)
	return nil
}

func (s *PollService) advance(log *logrus.Entry, next int64) {
	if next < s.state.cursor {
		log.WithFields(logrus.Fields{"current_date": next}).Warn("Server reported an earlier current_date, keeping cursor")
		return
	}
	s.state.cursor = next
}

// reportFailure forwards a recoverable error to the chat unless the same
// error was the last one reported.
func (s *PollService) reportFailure(ctx context.Context, log *logrus.Entry, err error) error {
	identity := homework.Identity(err)
	log = log.WithError(err).WithField("kind", homework.KindOf(err).String())

	if identity == s.state.lastError {
		log.Warn("Cycle failed again with the same error, notification suppressed")
		return nil
	}
	log.Error("Cycle failed")

	sendErr := s.telegramClient.SendMessage(ctx, fmt.Sprintf(failureMessageFormat, err))
	s.state.lastError = identity
	if sendErr == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if homework.IsFatal(sendErr) {
		return sendErr
	}
	log.WithField("send_error", sendErr.Error()).Error("Error notification was not delivered")
	return nil
}
