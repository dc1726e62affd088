package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// UserRepo implements domain.UserRepository over a Store
type UserRepo struct{ Store *Store }

// NewUserRepo creates a new in-memory user repository
func NewUserRepo(store *Store) *UserRepo { return &UserRepo{Store: store} }

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	defer r.Store.acquire(ctx)()

	user, ok := r.Store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepo) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.User, error) {
	defer r.Store.acquire(ctx)()

	id, ok := r.Store.usersByPhone[phoneNumber]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user := r.Store.users[id]
	return &user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	defer r.Store.acquire(ctx)()

	if _, ok := r.Store.usersByPhone[user.PhoneNumber]; ok {
		return domain.ErrAlreadyExists
	}
	r.Store.users[user.ID] = *user
	r.Store.usersByPhone[user.PhoneNumber] = user.ID
	return nil
}

func (r *UserRepo) UpdateBalance(ctx context.Context, userID uuid.UUID, newBalance, expectedBalance decimal.Decimal) error {
	defer r.Store.acquire(ctx)()

	user, ok := r.Store.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	if !user.Balance.Equal(expectedBalance) {
		return domain.ErrVersionConflict
	}
	user.Balance = newBalance
	r.Store.users[userID] = user
	return nil
}

// InvestmentRepo implements domain.InvestmentRepository over a Store
type InvestmentRepo struct{ Store *Store }

// NewInvestmentRepo creates a new in-memory investment repository
func NewInvestmentRepo(store *Store) *InvestmentRepo { return &InvestmentRepo{Store: store} }

func (r *InvestmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	defer r.Store.acquire(ctx)()

	investment, ok := r.Store.investments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &investment, nil
}

func (r *InvestmentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Investment, error) {
	defer r.Store.acquire(ctx)()

	investments := make([]*domain.Investment, 0)
	for _, investment := range r.Store.investments {
		if investment.UserID == userID {
			inv := investment
			investments = append(investments, &inv)
		}
	}
	return sortedInvestments(investments), nil
}

func (r *InvestmentRepo) ListActive(ctx context.Context) ([]*domain.Investment, error) {
	defer r.Store.acquire(ctx)()

	investments := make([]*domain.Investment, 0)
	for _, investment := range r.Store.investments {
		if investment.Status == domain.InvestmentStatusActive {
			inv := investment
			investments = append(investments, &inv)
		}
	}
	return sortedInvestments(investments), nil
}

func (r *InvestmentRepo) Create(ctx context.Context, investment *domain.Investment) error {
	defer r.Store.acquire(ctx)()

	if _, ok := r.Store.investments[investment.ID]; ok {
		return domain.ErrAlreadyExists
	}
	r.Store.investments[investment.ID] = *investment
	return nil
}

func (r *InvestmentRepo) Update(ctx context.Context, investment *domain.Investment) error {
	defer r.Store.acquire(ctx)()

	stored, ok := r.Store.investments[investment.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != investment.Version {
		return domain.ErrVersionConflict
	}
	investment.Version++
	r.Store.investments[investment.ID] = *investment
	return nil
}

// LedgerRepo implements domain.LedgerRepository over a Store
type LedgerRepo struct{ Store *Store }

// NewLedgerRepo creates a new in-memory ledger repository
func NewLedgerRepo(store *Store) *LedgerRepo { return &LedgerRepo{Store: store} }

func (r *LedgerRepo) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	defer r.Store.acquire(ctx)()

	if err := r.Store.failLedgerAppend; err != nil {
		r.Store.failLedgerAppend = nil
		return err
	}

	if err := entry.Validate(); err != nil {
		return err
	}
	r.Store.entries = append(r.Store.entries, *entry)
	return nil
}

func (r *LedgerRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.LedgerEntry, error) {
	defer r.Store.acquire(ctx)()

	// newest first
	matching := make([]*domain.LedgerEntry, 0)
	for i := len(r.Store.entries) - 1; i >= 0; i-- {
		if r.Store.entries[i].UserID == userID {
			entry := r.Store.entries[i]
			matching = append(matching, &entry)
		}
	}

	if offset >= len(matching) {
		return []*domain.LedgerEntry{}, nil
	}
	matching = matching[offset:]
	if limit > 0 && limit < len(matching) {
		matching = matching[:limit]
	}
	return matching, nil
}

func (r *LedgerRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	defer r.Store.acquire(ctx)()

	count := 0
	for _, entry := range r.Store.entries {
		if entry.UserID == userID {
			count++
		}
	}
	return count, nil
}

// PlanRepo implements domain.PlanRepository over a Store
type PlanRepo struct{ Store *Store }

// NewPlanRepo creates a new in-memory plan repository
func NewPlanRepo(store *Store) *PlanRepo { return &PlanRepo{Store: store} }

func (r *PlanRepo) GetByCode(ctx context.Context, code string) (*domain.Plan, error) {
	defer r.Store.acquire(ctx)()

	plan, ok := r.Store.plans[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &plan, nil
}

func (r *PlanRepo) List(ctx context.Context) ([]*domain.Plan, error) {
	defer r.Store.acquire(ctx)()

	codes := make([]string, 0, len(r.Store.plans))
	for code := range r.Store.plans {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	plans := make([]*domain.Plan, 0, len(codes))
	for _, code := range codes {
		plan := r.Store.plans[code]
		plans = append(plans, &plan)
	}
	return plans, nil
}

func (r *PlanRepo) Create(ctx context.Context, plan *domain.Plan) error {
	defer r.Store.acquire(ctx)()

	if _, ok := r.Store.plans[plan.Code]; ok {
		return domain.ErrAlreadyExists
	}
	r.Store.plans[plan.Code] = *plan
	return nil
}

// LessonRepo implements domain.LessonRepository over a Store
type LessonRepo struct{ Store *Store }

// NewLessonRepo creates a new in-memory lesson repository
func NewLessonRepo(store *Store) *LessonRepo { return &LessonRepo{Store: store} }

func (r *LessonRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	defer r.Store.acquire(ctx)()

	lesson, ok := r.Store.lessons[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &lesson, nil
}

func (r *LessonRepo) List(ctx context.Context) ([]*domain.Lesson, error) {
	defer r.Store.acquire(ctx)()

	lessons := make([]*domain.Lesson, 0, len(r.Store.lessons))
	for _, lesson := range r.Store.lessons {
		l := lesson
		lessons = append(lessons, &l)
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })
	return lessons, nil
}

func (r *LessonRepo) Create(ctx context.Context, lesson *domain.Lesson) error {
	defer r.Store.acquire(ctx)()

	if _, ok := r.Store.lessons[lesson.ID]; ok {
		return domain.ErrAlreadyExists
	}
	r.Store.lessons[lesson.ID] = *lesson
	return nil
}

func (r *LessonRepo) ListProgress(ctx context.Context, userID uuid.UUID) ([]*domain.LessonProgress, error) {
	defer r.Store.acquire(ctx)()

	records := make([]*domain.LessonProgress, 0)
	for key, progress := range r.Store.progress {
		if key.userID == userID {
			p := progress
			records = append(records, &p)
		}
	}
	return records, nil
}

func (r *LessonRepo) UpsertProgress(ctx context.Context, progress *domain.LessonProgress) error {
	defer r.Store.acquire(ctx)()

	key := progressKey{userID: progress.UserID, lessonID: progress.LessonID}
	r.Store.progress[key] = *progress
	return nil
}
