package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/scholarmatch/scholarship-service/internal/models"
	"github.com/scholarmatch/scholarship-service/internal/repositories"
)

// testLogger discards output so test runs stay quiet
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ===== IN-MEMORY REPOSITORY =====

// mockRepository backs the service tests with plain maps. Methods take the
// same (ctx, tx) pair as the real repositories and ignore tx.
type mockRepository struct {
	users        *mockUserRepository
	profiles     *mockProfileRepository
	scholarships *mockScholarshipRepository
	interactions *mockInteractionRepository
}

func newMockRepository() *mockRepository {
	interactions := &mockInteractionRepository{}
	return &mockRepository{
		users:        &mockUserRepository{byEmail: make(map[string]*models.User)},
		profiles:     &mockProfileRepository{byEmail: make(map[string]*models.Profile)},
		scholarships: &mockScholarshipRepository{},
		interactions: interactions,
	}
}

func (m *mockRepository) User() repositories.UserRepository { return m.users }

func (m *mockRepository) Profile() repositories.ProfileRepository { return m.profiles }

func (m *mockRepository) Scholarship() repositories.ScholarshipRepository { return m.scholarships }

func (m *mockRepository) Interaction() repositories.InteractionRepository { return m.interactions }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== USERS =====

type mockUserRepository struct {
	byEmail map[string]*models.User
	err     error
}

func (m *mockUserRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if m.err != nil {
		return m.err
	}
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.byEmail[email]
	return ok, nil
}

// ===== PROFILES =====

type mockProfileRepository struct {
	byEmail map[string]*models.Profile
	order   []string
	err     error
}

func (m *mockProfileRepository) Upsert(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byEmail[profile.Email]; !ok {
		m.order = append(m.order, profile.Email)
	}
	m.byEmail[profile.Email] = profile
	return nil
}

func (m *mockProfileRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	profile, ok := m.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (m *mockProfileRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*models.Profile, 0, len(m.order))
	for _, email := range m.order {
		out = append(out, m.byEmail[email])
	}
	return out, nil
}

// ===== SCHOLARSHIPS =====

type mockScholarshipRepository struct {
	items []*models.Scholarship
	err   error
}

func (m *mockScholarshipRepository) Create(ctx context.Context, tx *gorm.DB, scholarship *models.Scholarship) error {
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, scholarship)
	return nil
}

func (m *mockScholarshipRepository) CreateBatch(ctx context.Context, tx *gorm.DB, scholarships []*models.Scholarship) error {
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, scholarships...)
	return nil
}

func (m *mockScholarshipRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Scholarship, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, s := range m.items {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScholarshipRepository) Update(ctx context.Context, tx *gorm.DB, scholarship *models.Scholarship) error {
	if m.err != nil {
		return m.err
	}
	for i, s := range m.items {
		if s.ID == scholarship.ID {
			m.items[i] = scholarship
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockScholarshipRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	if m.err != nil {
		return m.err
	}
	for i, s := range m.items {
		if s.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockScholarshipRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ScholarshipFilters) ([]*models.Scholarship, int64, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.items, int64(len(m.items)), nil
}

func (m *mockScholarshipRepository) ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Scholarship, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func (m *mockScholarshipRepository) ListByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Scholarship, error) {
	if m.err != nil {
		return nil, m.err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*models.Scholarship
	for _, s := range m.items {
		if want[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockScholarshipRepository) ListCreatedSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*models.Scholarship, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*models.Scholarship
	for _, s := range m.items {
		if !s.CreatedAt.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

// ===== INTERACTIONS =====

type interactionKey struct {
	email         string
	scholarshipID string
	kind          models.InteractionKind
}

type mockInteractionRepository struct {
	marks []interactionKey
	err   error
}

func (m *mockInteractionRepository) Mark(ctx context.Context, tx *gorm.DB, interaction *models.Interaction) error {
	if m.err != nil {
		return m.err
	}
	key := interactionKey{interaction.Email, interaction.ScholarshipID, interaction.Kind}
	for _, existing := range m.marks {
		if existing == key {
			return nil
		}
	}
	m.marks = append(m.marks, key)
	return nil
}

func (m *mockInteractionRepository) Unmark(ctx context.Context, tx *gorm.DB, email, scholarshipID string, kind models.InteractionKind) error {
	if m.err != nil {
		return m.err
	}
	key := interactionKey{email, scholarshipID, kind}
	for i, existing := range m.marks {
		if existing == key {
			m.marks = append(m.marks[:i], m.marks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockInteractionRepository) IsMarked(ctx context.Context, tx *gorm.DB, email, scholarshipID string, kind models.InteractionKind) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	key := interactionKey{email, scholarshipID, kind}
	for _, existing := range m.marks {
		if existing == key {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockInteractionRepository) ListIDs(ctx context.Context, tx *gorm.DB, email string, kind models.InteractionKind) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []string
	for _, existing := range m.marks {
		if existing.email == email && existing.kind == kind {
			out = append(out, existing.scholarshipID)
		}
	}
	return out, nil
}

func (m *mockInteractionRepository) CountByKind(ctx context.Context, tx *gorm.DB, email string, kind models.InteractionKind) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var count int64
	for _, existing := range m.marks {
		if existing.email == email && existing.kind == kind {
			count++
		}
	}
	return count, nil
}
