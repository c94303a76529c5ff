package service

import (
	"context"
	"log"
	"sync"
	"time"

	"peerflow/internal/config"
	"peerflow/internal/domain"
	"peerflow/internal/port"
)

const reminderConcurrency = 4

// ReminderWorker polls for overdue, uncompleted reviews and nudges the
// assigned reviewers by email. Due dates stay advisory: the worker never
// expires a review or changes submission state.
type ReminderWorker struct {
	subRepo  port.SubmissionRepository
	userRepo port.UserRepository
	email    port.EmailSender
	cfg      config.ReviewConfig
	wg       sync.WaitGroup
}

// NewReminderWorker creates a new ReminderWorker.
func NewReminderWorker(subRepo port.SubmissionRepository, userRepo port.UserRepository, email port.EmailSender, cfg config.ReviewConfig) *ReminderWorker {
	return &ReminderWorker{
		subRepo:  subRepo,
		userRepo: userRepo,
		email:    email,
		cfg:      cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight reminder sends have finished.
func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.ReminderPollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, reminderConcurrency)

	log.Printf("reminderWorker: started (poll=%s, batch=%d)",
		w.cfg.ReminderPollInterval, w.cfg.ReminderBatchSize)

	for {
		select {
		case <-ctx.Done():
			log.Printf("reminderWorker: shutting down, waiting for in-flight sends...")
			w.wg.Wait()
			log.Printf("reminderWorker: shutdown complete")
			return
		case <-ticker.C:
			now := time.Now().UTC()
			reviews, err := w.subRepo.ListOverdueReviews(ctx, now, w.cfg.ReminderBatchSize)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("reminderWorker: ListOverdueReviews error: %v", err)
				continue
			}

			for i := range reviews {
				review := reviews[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Fresh context so an in-flight send completes even
					// during shutdown.
					sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
					defer cancel()

					w.remind(sendCtx, review)
				}()
			}
		}
	}
}

func (w *ReminderWorker) remind(ctx context.Context, review domain.Review) {
	reviewer, err := w.userRepo.GetByID(ctx, review.ReviewerID)
	if err != nil {
		log.Printf("reminderWorker: reviewer lookup failed for review %s: %v", review.ID, err)
		return
	}

	sub, err := w.subRepo.GetByID(ctx, review.SubmissionID)
	if err != nil {
		log.Printf("reminderWorker: submission lookup failed for review %s: %v", review.ID, err)
		return
	}

	if err := w.email.SendReviewReminder(ctx, reviewer.Email, reviewer.FullName, sub.Title, review.DueDate); err != nil {
		log.Printf("reminderWorker: send failed for review %s: %v", review.ID, err)
		return
	}

	if err := w.subRepo.MarkReviewReminded(ctx, review.ID, time.Now().UTC()); err != nil {
		log.Printf("reminderWorker: MarkReviewReminded failed for review %s: %v", review.ID, err)
	}
}
