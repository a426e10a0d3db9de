package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/scholarmatch/scholarship-service/internal/config"
	"github.com/scholarmatch/scholarship-service/internal/events"
	"github.com/scholarmatch/scholarship-service/internal/mailer"
	"github.com/scholarmatch/scholarship-service/internal/models"
)

func testNotificationConfig() config.NotificationConfig {
	return config.NotificationConfig{
		SweepInterval:        24 * time.Hour,
		ClosingSoonDays:      7,
		ReminderDays:         []int{10, 5, 1},
		SavedReminderDays:    3,
		NewScholarshipWindow: 24 * time.Hour,
	}
}

func TestNotificationService_RunSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("new match and closing soon emails", func(t *testing.T) {
		repo := newMockRepository()
		repo.profiles.Upsert(ctx, nil, testProfile("a@example.com"))

		fresh := openScholarship("fresh", "Fresh Award", "2026-06-01")
		saved := openScholarship("saved", "Saved Award", "2026-03-04")
		repo.scholarships.items = []*models.Scholarship{fresh, saved}
		repo.interactions.Mark(ctx, nil, &models.Interaction{
			Email: "a@example.com", ScholarshipID: "saved", Kind: models.InteractionSaved,
		})

		m := mailer.NewMockMailer()
		publisher := events.NewMockEventPublisher(testLogger())
		svc := NewNotificationService(repo, nil, testLogger(), m, publisher, testNotificationConfig())

		result, err := svc.RunSweep(ctx, now)
		if err != nil {
			t.Fatalf("RunSweep failed: %v", err)
		}
		if result.UsersProcessed != 1 {
			t.Errorf("expected 1 user processed, got %d", result.UsersProcessed)
		}
		if result.NewMatchEmails != 1 || result.ClosingEmails != 1 {
			t.Errorf("expected 1 new-match and 1 closing email, got %d and %d",
				result.NewMatchEmails, result.ClosingEmails)
		}

		sent := m.SentMails()
		if len(sent) != 2 {
			t.Fatalf("expected 2 emails, got %d", len(sent))
		}
		if sent[0].Subject != "New scholarships matching your profile" {
			t.Errorf("unexpected first subject %q", sent[0].Subject)
		}
		if !strings.Contains(sent[0].Body, "Fresh Award") {
			t.Errorf("new-match body missing scholarship name: %q", sent[0].Body)
		}
		if sent[1].Subject != "Scholarships closing soon" {
			t.Errorf("unexpected second subject %q", sent[1].Subject)
		}
		if !strings.Contains(sent[1].Body, "Saved Award") {
			t.Errorf("closing body missing scholarship name: %q", sent[1].Body)
		}
	})

	t.Run("delivery failure skips to next user", func(t *testing.T) {
		repo := newMockRepository()
		repo.profiles.Upsert(ctx, nil, testProfile("broken@example.com"))
		repo.profiles.Upsert(ctx, nil, testProfile("ok@example.com"))
		repo.scholarships.items = []*models.Scholarship{
			openScholarship("s1", "Open Award", "2026-06-01"),
		}

		m := mailer.NewMockMailer()
		m.FailFor["broken@example.com"] = true
		publisher := events.NewMockEventPublisher(testLogger())
		svc := NewNotificationService(repo, nil, testLogger(), m, publisher, testNotificationConfig())

		result, err := svc.RunSweep(ctx, now)
		if err != nil {
			t.Fatalf("RunSweep failed: %v", err)
		}
		if result.UsersProcessed != 2 {
			t.Errorf("expected 2 users processed, got %d", result.UsersProcessed)
		}
		if result.FailedDeliveries != 1 {
			t.Errorf("expected 1 failed delivery, got %d", result.FailedDeliveries)
		}
		if result.NewMatchEmails != 1 {
			t.Errorf("expected 1 successful new-match email, got %d", result.NewMatchEmails)
		}

		sent := m.SentMails()
		if len(sent) != 1 || sent[0].To != "ok@example.com" {
			t.Errorf("expected one email to ok@example.com, got %+v", sent)
		}
	})

	t.Run("tracked scholarships are excluded from new matches", func(t *testing.T) {
		repo := newMockRepository()
		repo.profiles.Upsert(ctx, nil, testProfile("a@example.com"))
		repo.scholarships.items = []*models.Scholarship{
			openScholarship("applied", "Applied Award", "2026-06-01"),
		}
		repo.interactions.Mark(ctx, nil, &models.Interaction{
			Email: "a@example.com", ScholarshipID: "applied", Kind: models.InteractionApplied,
		})

		m := mailer.NewMockMailer()
		publisher := events.NewMockEventPublisher(testLogger())
		svc := NewNotificationService(repo, nil, testLogger(), m, publisher, testNotificationConfig())

		result, err := svc.RunSweep(ctx, now)
		if err != nil {
			t.Fatalf("RunSweep failed: %v", err)
		}
		if result.NewMatchEmails != 0 {
			t.Errorf("expected no new-match email for tracked scholarship, got %d", result.NewMatchEmails)
		}
	})

	t.Run("publishes sweep and email events", func(t *testing.T) {
		repo := newMockRepository()
		repo.profiles.Upsert(ctx, nil, testProfile("a@example.com"))
		repo.scholarships.items = []*models.Scholarship{
			openScholarship("s1", "Open Award", "2026-06-01"),
		}

		m := mailer.NewMockMailer()
		publisher := events.NewMockEventPublisher(testLogger())
		svc := NewNotificationService(repo, nil, testLogger(), m, publisher, testNotificationConfig())

		if _, err := svc.RunSweep(ctx, now); err != nil {
			t.Fatalf("RunSweep failed: %v", err)
		}

		published := publisher.GetPublishedEvents()
		var emailEvents, sweepEvents int
		for _, e := range published {
			switch e.Type {
			case events.TypeEmailSent:
				emailEvents++
			case events.TypeSweepCompleted:
				sweepEvents++
			}
			if e.Source != "scholarship-service" {
				t.Errorf("unexpected event source %q", e.Source)
			}
		}
		if emailEvents != 1 {
			t.Errorf("expected 1 email event, got %d", emailEvents)
		}
		if sweepEvents != 1 {
			t.Errorf("expected 1 sweep event, got %d", sweepEvents)
		}
	})
}

func TestNotificationService_NotifyNewScholarships(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	repo := newMockRepository()
	repo.profiles.Upsert(ctx, nil, testProfile("a@example.com"))

	recent := openScholarship("recent", "Recent Award", "2026-06-01")
	recent.CreatedAt = now.Add(-2 * time.Hour)
	old := openScholarship("old", "Old Award", "2026-06-01")
	old.CreatedAt = now.Add(-48 * time.Hour)
	repo.scholarships.items = []*models.Scholarship{recent, old}

	m := mailer.NewMockMailer()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewNotificationService(repo, nil, testLogger(), m, publisher, testNotificationConfig())

	if err := svc.NotifyNewScholarships(ctx, now); err != nil {
		t.Fatalf("NotifyNewScholarships failed: %v", err)
	}

	sent := m.SentMails()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email for the recent scholarship, got %d", len(sent))
	}
	if sent[0].Subject != "New scholarship: Recent Award" {
		t.Errorf("unexpected subject %q", sent[0].Subject)
	}
}

func TestNotificationService_SendDeadlineReminders(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	repo := newMockRepository()
	repo.profiles.Upsert(ctx, nil, testProfile("a@example.com"))
	repo.scholarships.items = []*models.Scholarship{
		openScholarship("ten", "Ten Days Away", "2026-03-11"),
		openScholarship("five", "Five Days Away", "2026-03-06"),
		openScholarship("four", "Four Days Away", "2026-03-05"),
		openScholarship("one", "One Day Away", "2026-03-02"),
		openScholarship("bad", "Bad Deadline", "not-a-date"),
	}

	m := mailer.NewMockMailer()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewNotificationService(repo, nil, testLogger(), m, publisher, testNotificationConfig())

	if err := svc.SendDeadlineReminders(ctx, now); err != nil {
		t.Fatalf("SendDeadlineReminders failed: %v", err)
	}

	sent := m.SentMails()
	if len(sent) != 3 {
		t.Fatalf("expected reminders only at the 10/5/1 marks, got %d emails", len(sent))
	}
	subjects := make(map[string]bool)
	for _, mail := range sent {
		subjects[mail.Subject] = true
	}
	for _, want := range []string{
		"Reminder: Ten Days Away closes in 10 day(s)",
		"Reminder: Five Days Away closes in 5 day(s)",
		"Reminder: One Day Away closes in 1 day(s)",
	} {
		if !subjects[want] {
			t.Errorf("missing reminder %q", want)
		}
	}
}

func TestNotificationService_SendSavedClosingReminders(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	repo := newMockRepository()
	repo.profiles.Upsert(ctx, nil, testProfile("a@example.com"))
	repo.profiles.Upsert(ctx, nil, testProfile("b@example.com"))

	closing := openScholarship("closing", "Closing Saved", "2026-03-03")
	distant := openScholarship("distant", "Distant Saved", "2026-05-01")
	repo.scholarships.items = []*models.Scholarship{closing, distant}
	repo.interactions.Mark(ctx, nil, &models.Interaction{
		Email: "a@example.com", ScholarshipID: "closing", Kind: models.InteractionSaved,
	})
	repo.interactions.Mark(ctx, nil, &models.Interaction{
		Email: "b@example.com", ScholarshipID: "distant", Kind: models.InteractionSaved,
	})

	m := mailer.NewMockMailer()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewNotificationService(repo, nil, testLogger(), m, publisher, testNotificationConfig())

	if err := svc.SendSavedClosingReminders(ctx, now); err != nil {
		t.Fatalf("SendSavedClosingReminders failed: %v", err)
	}

	sent := m.SentMails()
	if len(sent) != 1 {
		t.Fatalf("expected 1 summary email, got %d", len(sent))
	}
	if sent[0].To != "a@example.com" {
		t.Errorf("expected email to a@example.com, got %s", sent[0].To)
	}
	if sent[0].Subject != "Your saved scholarships close soon" {
		t.Errorf("unexpected subject %q", sent[0].Subject)
	}
	if !strings.Contains(sent[0].Body, "Closing Saved") {
		t.Errorf("body missing saved scholarship name: %q", sent[0].Body)
	}
}
