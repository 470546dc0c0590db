package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
)

type sentMessage struct {
	ChatID  int64
	ID      int
	Text    string
	Photo   domain.PhotoRef
	Photos  []domain.PhotoRef
	Markup  *domain.Markup
	IsAlbum bool
}

type editedMessage struct {
	ChatID    int64
	MessageID int
	Text      string
	Photo     domain.PhotoRef
	Markup    *domain.Markup
}

// fakeMessenger записывает все исходящие вызовы транспорта.
type fakeMessenger struct {
	mu      sync.Mutex
	nextID  int
	sent    []sentMessage
	edits   []editedMessage
	deleted []int
	answers []string

	mediaGroupErr error
	editErr       error
	deleteErr     map[int]error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{nextID: 100, deleteErr: map[int]error{}}
}

func (m *fakeMessenger) id() int {
	m.nextID++
	return m.nextID
}

func (m *fakeMessenger) SendText(_ context.Context, chatID int64, text string, markup *domain.Markup) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.sent = append(m.sent, sentMessage{ChatID: chatID, ID: id, Text: text, Markup: markup})
	return id, nil
}

func (m *fakeMessenger) SendPhoto(_ context.Context, chatID int64, photo domain.PhotoRef, caption string, markup *domain.Markup) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.sent = append(m.sent, sentMessage{ChatID: chatID, ID: id, Text: caption, Photo: photo, Markup: markup})
	return id, nil
}

func (m *fakeMessenger) SendMediaGroup(_ context.Context, chatID int64, photos []domain.PhotoRef, caption string) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mediaGroupErr != nil {
		return nil, m.mediaGroupErr
	}
	ids := make([]int, len(photos))
	for i := range photos {
		ids[i] = m.id()
	}
	m.sent = append(m.sent, sentMessage{ChatID: chatID, ID: ids[0], Text: caption, Photos: photos, IsAlbum: true})
	return ids, nil
}

func (m *fakeMessenger) EditMessageMedia(_ context.Context, chatID int64, messageID int, photo domain.PhotoRef, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editErr != nil {
		return m.editErr
	}
	m.edits = append(m.edits, editedMessage{ChatID: chatID, MessageID: messageID, Text: caption, Photo: photo})
	return nil
}

func (m *fakeMessenger) EditMessageText(_ context.Context, chatID int64, messageID int, text string, markup *domain.Markup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editErr != nil {
		return m.editErr
	}
	m.edits = append(m.edits, editedMessage{ChatID: chatID, MessageID: messageID, Text: text, Markup: markup})
	return nil
}

func (m *fakeMessenger) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteErr[messageID]; err != nil {
		return err
	}
	m.deleted = append(m.deleted, messageID)
	return nil
}

func (m *fakeMessenger) AnswerCallback(_ context.Context, _ string, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, text)
	return nil
}

func (m *fakeMessenger) last() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMessage{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *fakeMessenger) texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	for i, s := range m.sent {
		out[i] = s.Text
	}
	return out
}

func (m *fakeMessenger) lastAnswer() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.answers) == 0 {
		return ""
	}
	return m.answers[len(m.answers)-1]
}

func (m *fakeMessenger) sentTo(chatID int64) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMessage
	for _, s := range m.sent {
		if s.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out
}

func (m *fakeMessenger) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent, m.edits, m.deleted, m.answers = nil, nil, nil, nil
}

// memProperties - хранилище карточек в памяти.
type memProperties struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]domain.Property
	creates int
	updates int
	filters []domain.PropertyFilter

	failCreate error
	marked     []int64
}

func newMemProperties() *memProperties {
	return &memProperties{rows: map[int64]domain.Property{}}
}

func (r *memProperties) put(p domain.Property) domain.Property {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		r.nextID++
		p.ID = r.nextID
	} else if p.ID > r.nextID {
		r.nextID = p.ID
	}
	r.rows[p.ID] = p
	return p
}

func (r *memProperties) Create(_ context.Context, p domain.Property) (int64, error) {
	if r.failCreate != nil {
		return 0, r.failCreate
	}
	r.mu.Lock()
	r.creates++
	r.mu.Unlock()
	p.CreatedAt = time.Now()
	return r.put(p).ID, nil
}

func (r *memProperties) GetByID(_ context.Context, id int64) (domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return domain.Property{}, fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (r *memProperties) GetByIDs(_ context.Context, ids []int64) ([]domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Property
	for _, id := range ids {
		if p, ok := r.rows[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProperties) Update(_ context.Context, id int64, change domain.FieldChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
	}
	spec, ok := domain.LookupEditField(change.Field)
	if !ok {
		return domain.ErrUnknownEditField
	}
	switch spec.Input {
	case domain.FieldInputPhoto:
		p.Photos[spec.PhotoSlot-1] = change.Photo
	case domain.FieldInputCoordinates:
		if change.Coordinates == nil {
			p.Latitude, p.Longitude = nil, nil
		} else {
			lat, lon := change.Coordinates.Latitude, change.Coordinates.Longitude
			p.Latitude, p.Longitude = &lat, &lon
		}
	case domain.FieldInputInt:
		if change.Field == "bedrooms" {
			p.Bedrooms = change.Number
		} else {
			p.Bathrooms = change.Number
		}
	default:
		switch change.Field {
		case "name":
			p.Name = change.Text
		case "monthly_price":
			p.MonthlyPrice = change.Text
		case "description":
			p.Description = change.Text
		default:
			return fmt.Errorf("memProperties: field %s not supported", change.Field)
		}
	}
	r.rows[id] = p
	r.updates++
	return nil
}

func (r *memProperties) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
	}
	delete(r.rows, id)
	return nil
}

func (r *memProperties) sorted() []domain.Property {
	out := make([]domain.Property, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// Search учитывает только тип и район: остальные условия проверяются в тестах SQL.
func (r *memProperties) Search(_ context.Context, f domain.PropertyFilter) ([]domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters = append(r.filters, f)
	var out []domain.Property
	for _, p := range r.sorted() {
		if len(f.Types) > 0 && !anyEqualFold(f.Types, p.PropertyType) {
			continue
		}
		if len(f.Districts) > 0 && !anyContainsFold(f.Districts, p.Location) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func anyEqualFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func anyContainsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(s), strings.ToLower(v)) {
			return true
		}
	}
	return false
}

func (r *memProperties) ListSummaries(context.Context) ([]domain.PropertySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.PropertySummary
	for _, p := range r.sorted() {
		out = append(out, domain.PropertySummary{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

func (r *memProperties) TopRated(_ context.Context, limit int) ([]domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Property
	for _, p := range r.sorted() {
		if p.AvgRating != nil {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].AvgRating > *out[j].AvgRating })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memProperties) UnnotifiedSince(_ context.Context, since time.Time) ([]domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Property
	for _, p := range r.sorted() {
		if !p.Notified && !p.CreatedAt.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProperties) MarkNotified(_ context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		p := r.rows[id]
		p.Notified = true
		r.rows[id] = p
	}
	r.marked = append(r.marked, ids...)
	return nil
}

// memFavorites - таблица избранного с уникальной парой (user, property).
type memFavorites struct {
	mu   sync.Mutex
	rows map[int64][]int64

	failList error
	counts   int
}

func newMemFavorites() *memFavorites {
	return &memFavorites{rows: map[int64][]int64{}}
}

func (f *memFavorites) Add(_ context.Context, userID, propertyID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.rows[userID] {
		if id == propertyID {
			return false, nil
		}
	}
	f.rows[userID] = append(f.rows[userID], propertyID)
	return true, nil
}

func (f *memFavorites) Remove(_ context.Context, userID, propertyID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[userID][:0]
	for _, id := range f.rows[userID] {
		if id != propertyID {
			kept = append(kept, id)
		}
	}
	f.rows[userID] = kept
	return nil
}

func (f *memFavorites) List(_ context.Context, userID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	return append([]int64(nil), f.rows[userID]...), nil
}

func (f *memFavorites) Count(_ context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts++
	return len(f.rows[userID]), nil
}

// memReviews - хранилище отзывов в памяти.
type memReviews struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Review
}

func newMemReviews() *memReviews {
	return &memReviews{rows: map[int64]domain.Review{}}
}

func (r *memReviews) Create(_ context.Context, rv domain.Review) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rv.ID = r.nextID
	r.rows[rv.ID] = rv
	return rv.ID, nil
}

func (r *memReviews) SetRating(_ context.Context, id int64, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	rv.Rating = &rating
	r.rows[id] = rv
	return nil
}

func (r *memReviews) GetByID(_ context.Context, id int64) (domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.rows[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, nil
}

func (r *memReviews) Approve(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	rv.Approved = true
	r.rows[id] = rv
	return nil
}

func (r *memReviews) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memReviews) list(match func(domain.Review) bool) []domain.Review {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Review
	for _, rv := range r.rows {
		if match(rv) {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memReviews) ListApproved(_ context.Context, propertyID int64) ([]domain.Review, error) {
	return r.list(func(rv domain.Review) bool { return rv.PropertyID == propertyID && rv.Approved }), nil
}

func (r *memReviews) ListPending(context.Context) ([]domain.Review, error) {
	return r.list(func(rv domain.Review) bool { return !rv.Approved && rv.Rating != nil }), nil
}

// memUsers - хранилище пользователей в памяти.
type memUsers struct {
	mu      sync.Mutex
	rows    map[int64]domain.User
	touched []int64
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[int64]domain.User{}}
}

func (u *memUsers) Upsert(_ context.Context, user domain.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if old, ok := u.rows[user.ID]; ok {
		old.Username, old.FirstName, old.LastActivity = user.Username, user.FirstName, user.LastActivity
		u.rows[user.ID] = old
		return nil
	}
	user.CreatedAt = user.LastActivity
	u.rows[user.ID] = user
	return nil
}

func (u *memUsers) GetByID(_ context.Context, id int64) (domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.rows[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (u *memUsers) update(id int64, fn func(*domain.User)) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&user)
	u.rows[id] = user
	return nil
}

func (u *memUsers) SetEmail(_ context.Context, id int64, email string) error {
	return u.update(id, func(user *domain.User) { user.Email = email })
}

func (u *memUsers) SetPhone(_ context.Context, id int64, phone string) error {
	return u.update(id, func(user *domain.User) { user.Phone = phone })
}

func (u *memUsers) SetNotifications(_ context.Context, id int64, enabled bool) error {
	return u.update(id, func(user *domain.User) { user.NotificationsEnabled = enabled })
}

func (u *memUsers) Stats(_ context.Context, now time.Time) (domain.UserStats, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	var st domain.UserStats
	weekAgo := now.AddDate(0, 0, -7)
	for _, user := range u.rows {
		st.Total++
		if user.LastActivity.After(weekAgo) {
			st.ActiveWeek++
		}
		if user.CreatedAt.After(weekAgo) {
			st.NewThisWeek++
		}
		if user.NotificationsEnabled {
			st.Subscribed++
		}
	}
	return st, nil
}

func (u *memUsers) subscribers(match func(domain.User) bool) []domain.User {
	u.mu.Lock()
	defer u.mu.Unlock()
	var out []domain.User
	for _, user := range u.rows {
		if user.NotificationsEnabled && match(user) {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (u *memUsers) Subscribers(context.Context) ([]domain.User, error) {
	return u.subscribers(func(domain.User) bool { return true }), nil
}

func (u *memUsers) SubscribersDue(_ context.Context, now time.Time, interval time.Duration) ([]domain.User, error) {
	return u.subscribers(func(user domain.User) bool {
		return user.LastNotified == nil || !user.LastNotified.After(now.Add(-interval))
	}), nil
}

func (u *memUsers) TouchLastNotified(_ context.Context, ids []int64, t time.Time) error {
	for _, id := range ids {
		_ = u.update(id, func(user *domain.User) { user.LastNotified = &t })
	}
	u.mu.Lock()
	u.touched = append(u.touched, ids...)
	u.mu.Unlock()
	return nil
}

type memNewsletters struct {
	rows []domain.Newsletter
}

func (n *memNewsletters) Create(_ context.Context, nl domain.Newsletter) (int64, error) {
	nl.ID = int64(len(n.rows) + 1)
	n.rows = append(n.rows, nl)
	return nl.ID, nil
}

// memQueue записывает поставленные задачи.
type memQueue struct {
	mu    sync.Mutex
	tasks   []domain.DeliveryTask
	err     error
	failFor map[int64]error
}

func (q *memQueue) Enqueue(_ context.Context, task domain.DeliveryTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	if err := q.failFor[task.ChatID]; err != nil {
		return err
	}
	q.tasks = append(q.tasks, task)
	return nil
}

type memLastRun struct {
	runs map[string]time.Time
}

func (l *memLastRun) GetLastRunTimestamp(_ context.Context, job string) (time.Time, error) {
	return l.runs[job], nil
}

func (l *memLastRun) SetLastRunTimestamp(_ context.Context, job string, t time.Time) error {
	if l.runs == nil {
		l.runs = map[string]time.Time{}
	}
	l.runs[job] = t
	return nil
}
