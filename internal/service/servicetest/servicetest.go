// Package servicetest provides in-memory implementations of the storage,
// cache, publishing and broadcasting interfaces the services depend on
package servicetest

import (
	"context"
	"encoding/json"
	"energylabel/internal/model"
	"fmt"
	"sync"
)

// QuestionnaireRepo is an in-memory repository.QuestionnaireRepo
type QuestionnaireRepo struct {
	mu   sync.Mutex
	Docs map[string]*model.Questionnaire
	next int
}

func NewQuestionnaireRepo() *QuestionnaireRepo {
	return &QuestionnaireRepo{Docs: map[string]*model.Questionnaire{}}
}

func (r *QuestionnaireRepo) Create(_ context.Context, q *model.Questionnaire) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	q.ID = fmt.Sprintf("q%d", r.next)
	r.Docs[q.ID] = q.Clone()
	return q.ID, nil
}

func (r *QuestionnaireRepo) GetByID(_ context.Context, id string) (*model.Questionnaire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.Docs[id]; ok {
		return q.Clone(), nil
	}
	return nil, nil
}

func (r *QuestionnaireRepo) GetByHostID(_ context.Context, hostID string) ([]*model.Questionnaire, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Questionnaire
	for _, q := range r.Docs {
		if q.HostID == hostID {
			out = append(out, q.Clone())
		}
	}
	return out, nil
}

func (r *QuestionnaireRepo) ListIDs(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id := range r.Docs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *QuestionnaireRepo) Update(_ context.Context, q *model.Questionnaire) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Docs[q.ID] = q.Clone()
	return nil
}

func (r *QuestionnaireRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Docs, id)
	return nil
}

// AssessmentRepo is an in-memory repository.AssessmentRepo. Err, when set,
// fails Create.
type AssessmentRepo struct {
	mu    sync.Mutex
	Items []*model.Assessment
	Err   error
}

func (r *AssessmentRepo) Create(_ context.Context, a *model.Assessment) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = fmt.Sprintf("a%d", len(r.Items)+1)
	}
	r.Items = append(r.Items, a)
	return nil
}

func (r *AssessmentRepo) ListByQuestionnaire(_ context.Context, questionnaireID string, limit int64) ([]*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Assessment
	for i := len(r.Items) - 1; i >= 0; i-- {
		if r.Items[i].QuestionnaireID == questionnaireID {
			out = append(out, r.Items[i])
		}
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (r *AssessmentRepo) CountByLabel(_ context.Context, questionnaireID string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int{}
	for _, a := range r.Items {
		if a.QuestionnaireID == questionnaireID {
			counts[a.Result.Label]++
		}
	}
	return counts, nil
}

type StatsRepo struct {
	mu        sync.Mutex
	Snapshots []*model.LabelStats
}

func (r *StatsRepo) InsertSnapshot(_ context.Context, s *model.LabelStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Snapshots = append(r.Snapshots, s)
	return nil
}

func (r *StatsRepo) Latest(_ context.Context, questionnaireID string) (*model.LabelStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.Snapshots) - 1; i >= 0; i-- {
		if r.Snapshots[i].QuestionnaireID == questionnaireID {
			return r.Snapshots[i], nil
		}
	}
	return nil, nil
}

// LabelStats is an in-memory cache.LabelStatsCache; Err fails every call
type LabelStats struct {
	mu     sync.Mutex
	Labels map[string]map[string]int
	Err    error
}

func NewLabelStats() *LabelStats {
	return &LabelStats{Labels: map[string]map[string]int{}}
}

func (c *LabelStats) Increment(_ context.Context, questionnaireID, label string) error {
	if c.Err != nil {
		return c.Err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Labels[questionnaireID] == nil {
		c.Labels[questionnaireID] = map[string]int{}
	}
	c.Labels[questionnaireID][label]++
	return nil
}

func (c *LabelStats) Counts(_ context.Context, questionnaireID string) (map[string]int, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]int{}
	for k, v := range c.Labels[questionnaireID] {
		out[k] = v
	}
	return out, nil
}

func (c *LabelStats) QuestionnaireIDs(context.Context) ([]string, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []string
	for id := range c.Labels {
		ids = append(ids, id)
	}
	return ids, nil
}

// SessionCache stores sessions as JSON, like the Redis cache does
type SessionCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewSessionCache() *SessionCache {
	return &SessionCache{data: map[string][]byte{}}
}

func (c *SessionCache) Set(_ context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[session.ID] = data
	return nil
}

func (c *SessionCache) Get(_ context.Context, id string) (*model.Session, error) {
	c.mu.Lock()
	data, ok := c.data[id]
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *SessionCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, id)
	return nil
}

// Publisher records published assessments unless Err is set
type Publisher struct {
	mu     sync.Mutex
	Events []*model.Assessment
	Err    error
}

func (p *Publisher) Publish(_ context.Context, a *model.Assessment) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, a)
	return nil
}

func (p *Publisher) Close() error { return nil }

type Broadcast struct {
	Session string
	Type    string
	Payload interface{}
}

// Broadcaster records every message. DisconnectSession is recorded as a
// "disconnect" message.
type Broadcaster struct {
	mu   sync.Mutex
	Sent []Broadcast
}

func (b *Broadcaster) BroadcastToSession(sessionID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sent = append(b.Sent, Broadcast{sessionID, msgType, payload})
}

func (b *Broadcaster) DisconnectSession(sessionID string) {
	b.BroadcastToSession(sessionID, "disconnect", nil)
}

// Types lists the message types sent so far, in order
func (b *Broadcaster) Types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, m := range b.Sent {
		out = append(out, m.Type)
	}
	return out
}

