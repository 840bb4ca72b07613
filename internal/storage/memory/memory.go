// Package memory provides an in-memory storage.Store used by tests. It
// enforces the same uniqueness invariants as the PostgreSQL store and
// supports snapshot/rollback transactions plus failure injection so
// atomicity properties can be exercised without a database.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/event"
	"github.com/koinonia-app/koinonia-api/internal/domain/group"
	"github.com/koinonia-app/koinonia-api/internal/domain/post"
	"github.com/koinonia-app/koinonia-api/internal/domain/prayer"
	"github.com/koinonia-app/koinonia-api/internal/domain/relationship"
	"github.com/koinonia-app/koinonia-api/internal/domain/user"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

type tables struct {
	users         map[uuid.UUID]user.User
	invitations   map[uuid.UUID]user.InvitationCode
	groups        map[uuid.UUID]group.Group
	events        map[uuid.UUID]event.Event
	prayers       map[uuid.UUID]prayer.Prayer
	posts         map[uuid.UUID]post.Post
	comments      map[uuid.UUID]post.Comment
	likes         map[uuid.UUID]post.Like
	relationships map[uuid.UUID]relationship.Relationship
}

func newTables() *tables {
	return &tables{
		users:         make(map[uuid.UUID]user.User),
		invitations:   make(map[uuid.UUID]user.InvitationCode),
		groups:        make(map[uuid.UUID]group.Group),
		events:        make(map[uuid.UUID]event.Event),
		prayers:       make(map[uuid.UUID]prayer.Prayer),
		posts:         make(map[uuid.UUID]post.Post),
		comments:      make(map[uuid.UUID]post.Comment),
		likes:         make(map[uuid.UUID]post.Like),
		relationships: make(map[uuid.UUID]relationship.Relationship),
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.invitations {
		c.invitations[k] = v
	}
	for k, v := range t.groups {
		c.groups[k] = v
	}
	for k, v := range t.events {
		c.events[k] = v
	}
	for k, v := range t.prayers {
		c.prayers[k] = v
	}
	for k, v := range t.posts {
		c.posts[k] = v
	}
	for k, v := range t.comments {
		c.comments[k] = v
	}
	for k, v := range t.likes {
		c.likes[k] = v
	}
	for k, v := range t.relationships {
		c.relationships[k] = v
	}
	return c
}

// Store is an in-memory storage.Store.
type Store struct {
	mu       sync.Mutex
	t        *tables
	failures map[string]error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		t:        newTables(),
		failures: make(map[string]error),
	}
}

// FailOnce makes the named operation fail exactly once with err. Operation
// names follow "repo.Method", e.g. "relationships.DeleteByObject".
func (s *Store) FailOnce(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) failpoint(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

// Transaction runs fn against the store, restoring the pre-transaction
// snapshot if fn returns an error.
func (s *Store) Transaction(fn func(storage.Store) error) error {
	s.mu.Lock()
	snapshot := s.t.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.t = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Users() storage.UserRepository {
	return &userRepo{s}
}

func (s *Store) Invitations() storage.InvitationRepository {
	return &invitationRepo{s}
}

func (s *Store) Groups() storage.GroupRepository {
	return &groupRepo{s}
}

func (s *Store) Events() storage.EventRepository {
	return &eventRepo{s}
}

func (s *Store) Prayers() storage.PrayerRepository {
	return &prayerRepo{s}
}

func (s *Store) Posts() storage.PostRepository {
	return &postRepo{s}
}

func (s *Store) Relationships() storage.RelationshipRepository {
	return &relationshipRepo{s}
}

// paginate slices a full result set down to the requested page.
func paginate[T any](items []T, p storage.PaginationParams) []T {
	p.Normalize()
	start := p.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + p.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(u *user.User) error {
	if err := r.s.failpoint("users.Create"); err != nil {
		return err
	}
	if err := u.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.t.users {
		if existing.Email == u.Email {
			return common.ErrEmailTaken
		}
		if existing.Username == u.Username {
			return common.ErrUsernameTaken
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	r.s.t.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(id uuid.UUID) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.t.users[id]; ok {
		return &u, nil
	}
	return nil, common.ErrNotFound
}

func (r *userRepo) GetByEmail(email string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.t.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *userRepo) GetByUsername(username string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.t.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *userRepo) Update(u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.users[u.ID]; !ok {
		return common.ErrNotFound
	}
	for id, existing := range r.s.t.users {
		if id == u.ID {
			continue
		}
		if existing.Email == u.Email {
			return common.ErrEmailTaken
		}
		if existing.Username == u.Username {
			return common.ErrUsernameTaken
		}
	}
	r.s.t.users[u.ID] = *u
	return nil
}

type invitationRepo struct{ s *Store }

func (r *invitationRepo) Create(inv *user.InvitationCode) error {
	if err := r.s.failpoint("invitations.Create"); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.t.invitations {
		if existing.Code == inv.Code {
			return storage.ErrCodeCollision
		}
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = time.Now()
	r.s.t.invitations[inv.ID] = *inv
	return nil
}

func (r *invitationRepo) GetByCode(code string) (*user.InvitationCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.t.invitations {
		if inv.Code == code {
			return &inv, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *invitationRepo) MarkUsed(code string, usedBy uuid.UUID, usedAt time.Time) error {
	if err := r.s.failpoint("invitations.MarkUsed"); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, inv := range r.s.t.invitations {
		if inv.Code == code && !inv.IsUsed {
			inv.IsUsed = true
			inv.UsedBy = &usedBy
			inv.UsedAt = &usedAt
			r.s.t.invitations[id] = inv
			return nil
		}
	}
	return common.ErrInvalidInvitation
}

type groupRepo struct{ s *Store }

func (r *groupRepo) Create(g *group.Group) error {
	if err := r.s.failpoint("groups.Create"); err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	g.CreatedAt = time.Now()
	r.s.t.groups[g.ID] = *g
	return nil
}

func (r *groupRepo) GetByID(id uuid.UUID) (*group.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g, ok := r.s.t.groups[id]; ok {
		return &g, nil
	}
	return nil, common.ErrNotFound
}

func (r *groupRepo) Update(g *group.Group) error {
	if err := g.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.groups[g.ID]; !ok {
		return common.ErrNotFound
	}
	r.s.t.groups[g.ID] = *g
	return nil
}

func (r *groupRepo) Delete(id uuid.UUID) error {
	if err := r.s.failpoint("groups.Delete"); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.groups[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.s.t.groups, id)
	return nil
}

func (r *groupRepo) ListPublic(p storage.PaginationParams) ([]*group.Group, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []group.Group
	for _, g := range r.s.t.groups {
		if !g.Private {
			all = append(all, g)
		}
	}
	sortByTimeDesc(all, func(g group.Group) time.Time { return g.CreatedAt })
	page := paginate(all, p)
	out := make([]*group.Group, len(page))
	for i := range page {
		out[i] = &page[i]
	}
	return out, int64(len(all)), nil
}

func (r *groupRepo) ListByIDs(ids []uuid.UUID, p storage.PaginationParams) ([]*group.Group, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var all []group.Group
	for _, g := range r.s.t.groups {
		if wanted[g.ID] {
			all = append(all, g)
		}
	}
	sortByTimeDesc(all, func(g group.Group) time.Time { return g.CreatedAt })
	page := paginate(all, p)
	out := make([]*group.Group, len(page))
	for i := range page {
		out[i] = &page[i]
	}
	return out, int64(len(all)), nil
}

type eventRepo struct{ s *Store }

func (r *eventRepo) Create(e *event.Event) error {
	if err := r.s.failpoint("events.Create"); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.s.t.events[e.ID] = *e
	return nil
}

func (r *eventRepo) GetByID(id uuid.UUID) (*event.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.t.events[id]; ok {
		return &e, nil
	}
	return nil, common.ErrNotFound
}

func (r *eventRepo) Update(e *event.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.events[e.ID]; !ok {
		return common.ErrNotFound
	}
	r.s.t.events[e.ID] = *e
	return nil
}

func (r *eventRepo) Delete(id uuid.UUID) error {
	if err := r.s.failpoint("events.Delete"); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.events[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.s.t.events, id)
	return nil
}

func (r *eventRepo) ListPublic(upcoming bool, now time.Time, p storage.PaginationParams) ([]*event.Event, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []event.Event
	for _, e := range r.s.t.events {
		if e.Private {
			continue
		}
		if upcoming && e.StartDate.Before(now) {
			continue
		}
		all = append(all, e)
	}
	sortByTimeAsc(all, func(e event.Event) time.Time { return e.StartDate })
	page := paginate(all, p)
	out := make([]*event.Event, len(page))
	for i := range page {
		out[i] = &page[i]
	}
	return out, int64(len(all)), nil
}

func (r *eventRepo) ListForUser(userID uuid.UUID, ids []uuid.UUID, upcoming bool, now time.Time, p storage.PaginationParams) ([]*event.Event, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var all []event.Event
	for _, e := range r.s.t.events {
		if e.OwnerID != userID && !wanted[e.ID] {
			continue
		}
		if upcoming && e.StartDate.Before(now) {
			continue
		}
		all = append(all, e)
	}
	sortByTimeAsc(all, func(e event.Event) time.Time { return e.StartDate })
	page := paginate(all, p)
	out := make([]*event.Event, len(page))
	for i := range page {
		out[i] = &page[i]
	}
	return out, int64(len(all)), nil
}

type prayerRepo struct{ s *Store }

func (r *prayerRepo) Create(pr *prayer.Prayer) error {
	if err := r.s.failpoint("prayers.Create"); err != nil {
		return err
	}
	if err := pr.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if pr.ID == uuid.Nil {
		pr.ID = uuid.New()
	}
	pr.CreatedAt = time.Now()
	r.s.t.prayers[pr.ID] = *pr
	return nil
}

func (r *prayerRepo) GetByID(id uuid.UUID) (*prayer.Prayer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if pr, ok := r.s.t.prayers[id]; ok {
		return &pr, nil
	}
	return nil, common.ErrNotFound
}

func (r *prayerRepo) Update(pr *prayer.Prayer) error {
	if err := pr.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.prayers[pr.ID]; !ok {
		return common.ErrNotFound
	}
	r.s.t.prayers[pr.ID] = *pr
	return nil
}

func (r *prayerRepo) Delete(id uuid.UUID) error {
	if err := r.s.failpoint("prayers.Delete"); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.prayers[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.s.t.prayers, id)
	return nil
}

func (r *prayerRepo) ListVisible(userID uuid.UUID, status *prayer.Status, p storage.PaginationParams) ([]*prayer.Prayer, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []prayer.Prayer
	for _, pr := range r.s.t.prayers {
		if pr.Private && pr.OwnerID != userID {
			continue
		}
		if status != nil && pr.Status != *status {
			continue
		}
		all = append(all, pr)
	}
	sortByTimeDesc(all, func(pr prayer.Prayer) time.Time { return pr.CreatedAt })
	page := paginate(all, p)
	out := make([]*prayer.Prayer, len(page))
	for i := range page {
		out[i] = &page[i]
	}
	return out, int64(len(all)), nil
}

func (r *prayerRepo) ListByOwner(userID uuid.UUID, status *prayer.Status, p storage.PaginationParams) ([]*prayer.Prayer, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []prayer.Prayer
	for _, pr := range r.s.t.prayers {
		if pr.OwnerID != userID {
			continue
		}
		if status != nil && pr.Status != *status {
			continue
		}
		all = append(all, pr)
	}
	sortByTimeDesc(all, func(pr prayer.Prayer) time.Time { return pr.CreatedAt })
	page := paginate(all, p)
	out := make([]*prayer.Prayer, len(page))
	for i := range page {
		out[i] = &page[i]
	}
	return out, int64(len(all)), nil
}

type postRepo struct{ s *Store }

func (r *postRepo) Create(ps *post.Post) error {
	if err := r.s.failpoint("posts.Create"); err != nil {
		return err
	}
	if err := ps.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ps.ID == uuid.Nil {
		ps.ID = uuid.New()
	}
	ps.CreatedAt = time.Now()
	r.s.t.posts[ps.ID] = *ps
	return nil
}

func (r *postRepo) GetByID(id uuid.UUID) (*post.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ps, ok := r.s.t.posts[id]; ok {
		return &ps, nil
	}
	return nil, common.ErrNotFound
}

func (r *postRepo) Update(ps *post.Post) error {
	if err := ps.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.posts[ps.ID]; !ok {
		return common.ErrNotFound
	}
	r.s.t.posts[ps.ID] = *ps
	return nil
}

func (r *postRepo) Delete(id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.posts[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.s.t.posts, id)
	return nil
}

func (r *postRepo) List(groupID *uuid.UUID, p storage.PaginationParams) ([]*post.Post, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []post.Post
	for _, ps := range r.s.t.posts {
		if groupID != nil && (ps.GroupID == nil || *ps.GroupID != *groupID) {
			continue
		}
		all = append(all, ps)
	}
	sortByTimeDesc(all, func(ps post.Post) time.Time { return ps.CreatedAt })
	page := paginate(all, p)
	out := make([]*post.Post, len(page))
	for i := range page {
		out[i] = &page[i]
	}
	return out, int64(len(all)), nil
}

func (r *postRepo) ClearGroup(groupID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, ps := range r.s.t.posts {
		if ps.GroupID != nil && *ps.GroupID == groupID {
			ps.GroupID = nil
			r.s.t.posts[id] = ps
		}
	}
	return nil
}

func (r *postRepo) CreateComment(c *post.Comment) error {
	if err := c.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.s.t.comments[c.ID] = *c
	return nil
}

func (r *postRepo) ListComments(postID uuid.UUID) ([]*post.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []post.Comment
	for _, c := range r.s.t.comments {
		if c.PostID == postID {
			all = append(all, c)
		}
	}
	sortByTimeAsc(all, func(c post.Comment) time.Time { return c.CreatedAt })
	out := make([]*post.Comment, len(all))
	for i := range all {
		out[i] = &all[i]
	}
	return out, nil
}

func (r *postRepo) FindLike(userID, postID uuid.UUID) (*post.Like, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.t.likes {
		if l.UserID == userID && l.PostID == postID {
			return &l, nil
		}
	}
	return nil, nil
}

func (r *postRepo) CreateLike(l *post.Like) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.t.likes {
		if existing.UserID == l.UserID && existing.PostID == l.PostID {
			return storage.ErrRelationshipExists
		}
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	r.s.t.likes[l.ID] = *l
	return nil
}

func (r *postRepo) DeleteLike(userID, postID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, l := range r.s.t.likes {
		if l.UserID == userID && l.PostID == postID {
			delete(r.s.t.likes, id)
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *postRepo) CountLikes(postID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, l := range r.s.t.likes {
		if l.PostID == postID {
			count++
		}
	}
	return count, nil
}

type relationshipRepo struct{ s *Store }

func (r *relationshipRepo) Find(userID, objectID uuid.UUID) (*relationship.Relationship, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rel := range r.s.t.relationships {
		if rel.UserID == userID && rel.ObjectID == objectID {
			return &rel, nil
		}
	}
	return nil, nil
}

func (r *relationshipRepo) Create(rel *relationship.Relationship) error {
	if err := r.s.failpoint("relationships.Create"); err != nil {
		return err
	}
	if err := rel.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.t.relationships {
		if existing.UserID == rel.UserID && existing.ObjectID == rel.ObjectID {
			return storage.ErrRelationshipExists
		}
	}
	if rel.ID == uuid.Nil {
		rel.ID = uuid.New()
	}
	rel.CreatedAt = time.Now()
	r.s.t.relationships[rel.ID] = *rel
	return nil
}

func (r *relationshipRepo) Update(rel *relationship.Relationship) error {
	if err := rel.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.relationships[rel.ID]; !ok {
		return common.ErrNotFound
	}
	r.s.t.relationships[rel.ID] = *rel
	return nil
}

func (r *relationshipRepo) Delete(userID, objectID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, rel := range r.s.t.relationships {
		if rel.UserID == userID && rel.ObjectID == objectID {
			delete(r.s.t.relationships, id)
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *relationshipRepo) DeleteByObject(objectID uuid.UUID) error {
	if err := r.s.failpoint("relationships.DeleteByObject"); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, rel := range r.s.t.relationships {
		if rel.ObjectID == objectID {
			delete(r.s.t.relationships, id)
		}
	}
	return nil
}

func (r *relationshipRepo) ListByObject(objectID uuid.UUID) ([]*relationship.Relationship, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []relationship.Relationship
	for _, rel := range r.s.t.relationships {
		if rel.ObjectID == objectID {
			all = append(all, rel)
		}
	}
	sortByTimeAsc(all, func(rel relationship.Relationship) time.Time { return rel.CreatedAt })
	out := make([]*relationship.Relationship, len(all))
	for i := range all {
		out[i] = &all[i]
	}
	return out, nil
}

func (r *relationshipRepo) ListByUser(userID uuid.UUID, kind relationship.Kind) ([]*relationship.Relationship, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []relationship.Relationship
	for _, rel := range r.s.t.relationships {
		if rel.UserID == userID && rel.Kind == kind {
			all = append(all, rel)
		}
	}
	sortByTimeAsc(all, func(rel relationship.Relationship) time.Time { return rel.CreatedAt })
	out := make([]*relationship.Relationship, len(all))
	for i := range all {
		out[i] = &all[i]
	}
	return out, nil
}

func (r *relationshipRepo) CountByObject(objectID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, rel := range r.s.t.relationships {
		if rel.ObjectID == objectID {
			count++
		}
	}
	return count, nil
}
