package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/scholarmatch/scholarship-service/internal/config"
	"github.com/scholarmatch/scholarship-service/internal/events"
	"github.com/scholarmatch/scholarship-service/internal/mailer"
	"github.com/scholarmatch/scholarship-service/internal/matching"
	"github.com/scholarmatch/scholarship-service/internal/models"
	"github.com/scholarmatch/scholarship-service/internal/repositories"
)

// notificationService drives the outbound email paths. Every pass is
// stateless: there is no ledger of what was already sent, so a scholarship
// that stays inside a window is mentioned again on the next pass.
type notificationService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	mailer         mailer.Mailer
	eventPublisher events.EventPublisher
	cfg            config.NotificationConfig
}

func NewNotificationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, m mailer.Mailer, publisher events.EventPublisher, cfg config.NotificationConfig) NotificationService {
	return &notificationService{
		repo:           repo,
		db:             db,
		logger:         logger,
		mailer:         m,
		eventPublisher: publisher,
		cfg:            cfg,
	}
}

// RunSweep sends, for every user with a profile, one new-match email and one
// closing-soon email. A delivery failure is logged and the sweep moves on to
// the next user.
func (s *notificationService) RunSweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	result := &SweepResult{StartedAt: now}

	profiles, err := s.repo.Profile().List(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	scholarships, err := s.repo.Scholarship().ListAll(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list scholarships: %w", err)
	}

	for _, profile := range profiles {
		result.UsersProcessed++

		saved, applied, err := s.trackedIDs(ctx, profile.Email)
		if err != nil {
			s.logger.Error("Failed to load tracked sets, skipping user",
				"error", err,
				"email", profile.Email)
			continue
		}

		tracked := make(map[string]bool, len(saved)+len(applied))
		for id := range saved {
			tracked[id] = true
		}
		for id := range applied {
			tracked[id] = true
		}

		// New matches: eligible and not yet saved or applied
		var newMatches []*models.Scholarship
		// Closing soon: tracked and inside the window
		var closing []*models.MatchedScholarship

		for _, sch := range scholarships {
			if tracked[sch.ID] {
				c := matching.Classify(sch.Deadline, now, s.cfg.ClosingSoonDays)
				if c.ClosingSoon {
					closing = append(closing, &models.MatchedScholarship{
						Scholarship:   sch,
						IsClosingSoon: true,
						DaysLeft:      c.DaysLeft,
					})
				}
				continue
			}
			if matching.Matches(sch, profile) {
				newMatches = append(newMatches, sch)
			}
		}

		if len(newMatches) > 0 {
			body := buildNewMatchBody(newMatches)
			if err := s.send(ctx, profile.Email, "New scholarships matching your profile", body); err != nil {
				result.FailedDeliveries++
				continue
			}
			result.NewMatchEmails++
		}

		if len(closing) > 0 {
			body := buildClosingSoonBody(closing)
			if err := s.send(ctx, profile.Email, "Scholarships closing soon", body); err != nil {
				result.FailedDeliveries++
				continue
			}
			result.ClosingEmails++
		}
	}

	result.FinishedAt = time.Now().UTC()

	s.logger.Info("Notification sweep completed",
		"users_processed", result.UsersProcessed,
		"new_match_emails", result.NewMatchEmails,
		"closing_emails", result.ClosingEmails,
		"failed_deliveries", result.FailedDeliveries)

	event := events.NewEvent(events.TypeSweepCompleted, result)
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish sweep event", "error", err)
	}

	return result, nil
}

// NotifyNewScholarships mails every matching user about each scholarship
// added within the freshness window, one email per (user, scholarship).
func (s *notificationService) NotifyNewScholarships(ctx context.Context, now time.Time) error {
	since := now.Add(-s.cfg.NewScholarshipWindow)

	recent, err := s.repo.Scholarship().ListCreatedSince(ctx, s.db, since)
	if err != nil {
		return fmt.Errorf("failed to list recent scholarships: %w", err)
	}
	if len(recent) == 0 {
		return nil
	}

	profiles, err := s.repo.Profile().List(ctx, s.db)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	sent := 0
	for _, profile := range profiles {
		for _, sch := range recent {
			if !matching.Matches(sch, profile) {
				continue
			}

			body := buildNewScholarshipBody(sch)
			subject := fmt.Sprintf("New scholarship: %s", sch.Name)
			if err := s.send(ctx, profile.Email, subject, body); err != nil {
				continue
			}
			sent++
		}
	}

	s.logger.Info("New-scholarship notifications sent",
		"recent_scholarships", len(recent),
		"emails_sent", sent)

	return nil
}

// SendDeadlineReminders mails eligible users when a scholarship's days-left
// hits one of the configured reminder marks exactly.
func (s *notificationService) SendDeadlineReminders(ctx context.Context, now time.Time) error {
	marks := make(map[int]bool, len(s.cfg.ReminderDays))
	for _, d := range s.cfg.ReminderDays {
		marks[d] = true
	}

	scholarships, err := s.repo.Scholarship().ListAll(ctx, s.db)
	if err != nil {
		return fmt.Errorf("failed to list scholarships: %w", err)
	}

	var due []*models.MatchedScholarship
	for _, sch := range scholarships {
		d, err := time.Parse(matching.DeadlineLayout, sch.Deadline)
		if err != nil {
			continue
		}
		days := matching.DaysBetween(now, d)
		if marks[days] {
			left := days
			due = append(due, &models.MatchedScholarship{
				Scholarship: sch,
				DaysLeft:    &left,
			})
		}
	}
	if len(due) == 0 {
		return nil
	}

	profiles, err := s.repo.Profile().List(ctx, s.db)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	sent := 0
	for _, profile := range profiles {
		for _, m := range due {
			if !matching.Matches(m.Scholarship, profile) {
				continue
			}

			subject := fmt.Sprintf("Reminder: %s closes in %d day(s)", m.Name, *m.DaysLeft)
			body := buildReminderBody(m)
			if err := s.send(ctx, profile.Email, subject, body); err != nil {
				continue
			}
			sent++
		}
	}

	s.logger.Info("Deadline reminders sent",
		"scholarships_due", len(due),
		"emails_sent", sent)

	return nil
}

// SendSavedClosingReminders mails each user one summary of their saved
// scholarships that close within the saved-reminder window.
func (s *notificationService) SendSavedClosingReminders(ctx context.Context, now time.Time) error {
	profiles, err := s.repo.Profile().List(ctx, s.db)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	sent := 0
	for _, profile := range profiles {
		ids, err := s.repo.Interaction().ListIDs(ctx, s.db, profile.Email, models.InteractionSaved)
		if err != nil {
			s.logger.Error("Failed to list saved ids, skipping user",
				"error", err,
				"email", profile.Email)
			continue
		}
		if len(ids) == 0 {
			continue
		}

		saved, err := s.repo.Scholarship().ListByIDs(ctx, s.db, ids)
		if err != nil {
			s.logger.Error("Failed to load saved scholarships, skipping user",
				"error", err,
				"email", profile.Email)
			continue
		}

		var closing []*models.MatchedScholarship
		for _, sch := range saved {
			c := matching.Classify(sch.Deadline, now, s.cfg.SavedReminderDays)
			if c.ClosingSoon {
				closing = append(closing, &models.MatchedScholarship{
					Scholarship:   sch,
					IsClosingSoon: true,
					DaysLeft:      c.DaysLeft,
				})
			}
		}
		if len(closing) == 0 {
			continue
		}

		body := buildClosingSoonBody(closing)
		if err := s.send(ctx, profile.Email, "Your saved scholarships close soon", body); err != nil {
			continue
		}
		sent++
	}

	s.logger.Info("Saved-closing reminders sent", "emails_sent", sent)

	return nil
}

// send delivers one email, logging failures and publishing a delivery event
// on success. The returned error signals the caller to skip, never to abort.
func (s *notificationService) send(ctx context.Context, to, subject, body string) error {
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.logger.Error("Failed to send email",
			"error", err,
			"to", to,
			"subject", subject)
		return err
	}

	event := events.NewEvent(events.TypeEmailSent, map[string]interface{}{
		"to":      to,
		"subject": subject,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish email event", "error", err)
	}

	return nil
}

func (s *notificationService) trackedIDs(ctx context.Context, email string) (saved, applied map[string]bool, err error) {
	savedIDs, err := s.repo.Interaction().ListIDs(ctx, s.db, email, models.InteractionSaved)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list saved ids: %w", err)
	}
	appliedIDs, err := s.repo.Interaction().ListIDs(ctx, s.db, email, models.InteractionApplied)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list applied ids: %w", err)
	}

	saved = make(map[string]bool, len(savedIDs))
	for _, id := range savedIDs {
		saved[id] = true
	}
	applied = make(map[string]bool, len(appliedIDs))
	for _, id := range appliedIDs {
		applied[id] = true
	}
	return saved, applied, nil
}

// ===== EMAIL BODIES =====

func buildNewMatchBody(scholarships []*models.Scholarship) string {
	var b strings.Builder
	b.WriteString("The following scholarships match your profile:\n\n")
	for _, sch := range scholarships {
		writeScholarshipLine(&b, sch, nil)
	}
	return b.String()
}

func buildClosingSoonBody(matches []*models.MatchedScholarship) string {
	var b strings.Builder
	b.WriteString("These scholarships you are tracking close soon:\n\n")
	for _, m := range matches {
		writeScholarshipLine(&b, m.Scholarship, m.DaysLeft)
	}
	return b.String()
}

func buildNewScholarshipBody(sch *models.Scholarship) string {
	var b strings.Builder
	b.WriteString("A new scholarship matching your profile was just added:\n\n")
	writeScholarshipLine(&b, sch, nil)
	return b.String()
}

func buildReminderBody(m *models.MatchedScholarship) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The deadline for %s is in %d day(s).\n\n", m.Name, *m.DaysLeft)
	writeScholarshipLine(&b, m.Scholarship, m.DaysLeft)
	return b.String()
}

func writeScholarshipLine(b *strings.Builder, sch *models.Scholarship, daysLeft *int) {
	fmt.Fprintf(b, "- %s", sch.Name)
	if sch.Amount != "" {
		fmt.Fprintf(b, " | Amount: %s", sch.Amount)
	}
	if sch.Deadline != "" {
		fmt.Fprintf(b, " | Deadline: %s", sch.Deadline)
	}
	if daysLeft != nil {
		fmt.Fprintf(b, " (%d day(s) left)", *daysLeft)
	}
	if sch.ApplyLink != "" {
		fmt.Fprintf(b, "\n  Apply: %s", sch.ApplyLink)
	}
	b.WriteString("\n")
}
