package service

import (
	"Crosspost/internal/model"
	"Crosspost/internal/pkg/social"
	"Crosspost/internal/repository"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// memStore 内存版的三张表，满足仓储接口，事务通过快照回滚
type memStore struct {
	mu       sync.Mutex
	bindings map[model.Platform]map[string]*model.PlatformBinding
	pending  map[model.Platform]map[string]*model.PendingPost
	events   map[string]*model.ScheduleEvent

	writes       int
	failUpdate   error
	failMark     error
	failDelete   error
	failRelease  error
	credentialWr int
}

func newMemStore() *memStore {
	s := &memStore{
		bindings: map[model.Platform]map[string]*model.PlatformBinding{},
		pending:  map[model.Platform]map[string]*model.PendingPost{},
		events:   map[string]*model.ScheduleEvent{},
	}
	for _, p := range model.Platforms {
		s.bindings[p] = map[string]*model.PlatformBinding{}
		s.pending[p] = map[string]*model.PendingPost{}
	}
	return s
}

func (s *memStore) addBinding(b *model.PlatformBinding) {
	s.bindings[b.Platform][b.ClerkID] = b
}

func (s *memStore) addPending(p *model.PendingPost) {
	if p.Status == "" {
		p.Status = model.PendingStatusPending
	}
	s.pending[p.Platform][p.ID] = p
}

func (s *memStore) addEvent(e *model.ScheduleEvent) {
	s.events[e.ID] = e
}

func (s *memStore) binding(p model.Platform, clerkID string) *model.PlatformBinding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bindings[p][clerkID]
}

func (s *memStore) pendingPost(p model.Platform, id string) *model.PendingPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[p][id]
}

func copyBinding(b *model.PlatformBinding) *model.PlatformBinding {
	c := *b
	c.Posts = make(model.PostList, len(b.Posts))
	for i, p := range b.Posts {
		p.Statistics = append([]model.StatisticsSnapshot(nil), p.Statistics...)
		c.Posts[i] = p
	}
	c.Followers = append(model.FollowerList(nil), b.Followers...)
	return &c
}

func (s *memStore) repos() *repository.Repos {
	return &repository.Repos{Bindings: memBindings{s}, Pending: memPending{s}, Events: memEvents{s}}
}

func (s *memStore) Transaction(ctx context.Context, fn func(repos *repository.Repos) error) error {
	s.mu.Lock()
	snapBindings := map[model.Platform]map[string]*model.PlatformBinding{}
	for p, m := range s.bindings {
		snapBindings[p] = map[string]*model.PlatformBinding{}
		for k, b := range m {
			snapBindings[p][k] = copyBinding(b)
		}
	}
	snapPending := map[model.Platform]map[string]*model.PendingPost{}
	for p, m := range s.pending {
		snapPending[p] = map[string]*model.PendingPost{}
		for k, v := range m {
			c := *v
			snapPending[p][k] = &c
		}
	}
	snapEvents := map[string]*model.ScheduleEvent{}
	for k, v := range s.events {
		c := *v
		snapEvents[k] = &c
	}
	s.mu.Unlock()

	if err := fn(s.repos()); err != nil {
		s.mu.Lock()
		s.bindings, s.pending, s.events = snapBindings, snapPending, snapEvents
		s.mu.Unlock()
		return err
	}
	return nil
}

type memBindings struct{ s *memStore }

func (r memBindings) GetByClerkID(ctx context.Context, platform model.Platform, clerkID string) (*model.PlatformBinding, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bindings[platform][clerkID]
	if !ok {
		return nil, nil
	}
	return copyBinding(b), nil
}

func (r memBindings) GetByClerkIDForUpdate(ctx context.Context, platform model.Platform, clerkID string) (*model.PlatformBinding, error) {
	return r.GetByClerkID(ctx, platform, clerkID)
}

func (r memBindings) ListPage(ctx context.Context, platform model.Platform, afterID string, limit int) ([]*model.PlatformBinding, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.PlatformBinding
	for _, b := range r.s.bindings[platform] {
		if b.ID > afterID {
			out = append(out, copyBinding(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memBindings) UpdateCredential(ctx context.Context, platform model.Platform, clerkID string, access, refresh string, expiration int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failUpdate != nil {
		return r.s.failUpdate
	}
	b := r.s.bindings[platform][clerkID]
	b.TokenAccess = access
	if refresh != "" {
		b.TokenRefresh = refresh
	}
	b.TokenExpiration = expiration
	r.s.writes++
	r.s.credentialWr++
	return nil
}

func (r memBindings) UpdatePosts(ctx context.Context, platform model.Platform, clerkID string, posts model.PostList) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failUpdate != nil {
		return r.s.failUpdate
	}
	r.s.bindings[platform][clerkID].Posts = posts
	r.s.writes++
	return nil
}

func (r memBindings) UpdateLedger(ctx context.Context, platform model.Platform, clerkID string, posts model.PostList, followers model.FollowerList) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failUpdate != nil {
		return r.s.failUpdate
	}
	b := r.s.bindings[platform][clerkID]
	b.Posts = posts
	b.Followers = followers
	r.s.writes++
	return nil
}

type memPending struct{ s *memStore }

func claimableMem(p *model.PendingPost, staleBefore int64) bool {
	return p.Status == model.PendingStatusPending ||
		(p.Status == model.PendingStatusProcessing && p.ClaimedAt < staleBefore)
}

func (r memPending) ListDue(ctx context.Context, platform model.Platform, now, staleBefore int64, afterID string, limit int) ([]*model.PendingPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.PendingPost
	for _, p := range r.s.pending[platform] {
		if p.PostingDate <= now && p.ID > afterID && claimableMem(p, staleBefore) {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memPending) Claim(ctx context.Context, platform model.Platform, id, token string, now, staleBefore int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.pending[platform][id]
	if !ok || !claimableMem(p, staleBefore) {
		return false, nil
	}
	p.Status = model.PendingStatusProcessing
	p.ClaimToken = token
	p.ClaimedAt = now
	r.s.writes++
	return true, nil
}

func (r memPending) Release(ctx context.Context, platform model.Platform, id, token, lastError string, dead bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failRelease != nil {
		return r.s.failRelease
	}
	p, ok := r.s.pending[platform][id]
	if !ok || p.ClaimToken != token {
		return repository.ErrClaimLost
	}
	p.Status = model.PendingStatusPending
	if dead {
		p.Status = model.PendingStatusDead
	}
	p.ClaimToken = ""
	p.ClaimedAt = 0
	p.Attempts++
	p.LastError = lastError
	r.s.writes++
	return nil
}

func (r memPending) Delete(ctx context.Context, platform model.Platform, id, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failDelete != nil {
		return r.s.failDelete
	}
	p, ok := r.s.pending[platform][id]
	if !ok || p.ClaimToken != token {
		return repository.ErrClaimLost
	}
	delete(r.s.pending[platform], id)
	r.s.writes++
	return nil
}

type memEvents struct{ s *memStore }

func (r memEvents) MarkPosted(ctx context.Context, pendingID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failMark != nil {
		return 0, r.s.failMark
	}
	var n int64
	for _, e := range r.s.events {
		if e.PendingID != nil && *e.PendingID == pendingID {
			e.Posted = 1
			n++
		}
	}
	r.s.writes++
	return n, nil
}

// fakeRefresher 记录调用次数
type fakeRefresher struct {
	token *oauth2.Token
	err   error
	calls int
}

func (f *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

type fakeTwitter struct {
	mu        sync.Mutex
	tweets    []string
	replies   []string
	tokens    []string
	err       error
	failAt    int
	followers int64
	nextID    int
}

func (f *fakeTwitter) CreateTweet(ctx context.Context, accessToken, text, inReplyTo string) (*social.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil && (f.failAt == 0 || len(f.tweets)+1 == f.failAt) {
		return nil, f.err
	}
	f.nextID++
	id := fmt.Sprintf("tw-%d", f.nextID)
	f.tweets = append(f.tweets, text)
	f.replies = append(f.replies, inReplyTo)
	f.tokens = append(f.tokens, accessToken)
	return &social.Tweet{ID: id, Text: text}, nil
}

func (f *fakeTwitter) FollowersCount(ctx context.Context, accessToken string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.followers, nil
}

type fakeLinkedin struct {
	posts []*social.UGCPost
	id    string
	err   error
}

func (f *fakeLinkedin) CreateUGCPost(ctx context.Context, accessToken string, post *social.UGCPost) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.posts = append(f.posts, post)
	return f.id, nil
}

type fakeYoutube struct {
	uploads     []*social.VideoUpload
	bodies      []string
	err         error
	subscribers int64
}

func (f *fakeYoutube) InsertVideo(ctx context.Context, accessToken string, in *social.VideoUpload) (*social.UploadedVideo, error) {
	if f.err != nil {
		return nil, f.err
	}
	buf := make([]byte, 64)
	n, _ := in.Media.Read(buf)
	f.bodies = append(f.bodies, string(buf[:n]))
	f.uploads = append(f.uploads, in)
	return &social.UploadedVideo{ID: "yt-1", Title: in.Title}, nil
}

func (f *fakeYoutube) SubscriberCount(ctx context.Context, accessToken string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.subscribers, nil
}

type fakeMediaStore struct {
	removed []string
	err     error
}

func (f *fakeMediaStore) PresignedURL(ctx context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://media.local/" + key, nil
}

func (f *fakeMediaStore) Remove(ctx context.Context, key string) error {
	f.removed = append(f.removed, key)
	return nil
}

// fakeDownloader 在临时目录写入固定内容
type fakeDownloader struct {
	dir   string
	paths []string
	err   error
}

func (f *fakeDownloader) Download(ctx context.Context, url string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	file, err := os.CreateTemp(f.dir, "media-*")
	if err != nil {
		return "", err
	}
	_, _ = file.WriteString("video:" + url)
	_ = file.Close()
	f.paths = append(f.paths, file.Name())
	return file.Name(), nil
}

type fakeNotifier struct {
	events []*model.PostPublishedEvent
	err    error
}

func (f *fakeNotifier) NotifyPublished(ctx context.Context, evt *model.PostPublishedEvent) error {
	f.events = append(f.events, evt)
	return f.err
}

var errBoom = errors.New("boom")

func refreshedToken(access, refresh string) *oauth2.Token {
	return &oauth2.Token{AccessToken: access, RefreshToken: refresh, Expiry: time.Now().Add(time.Hour)}
}
