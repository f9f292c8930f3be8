package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/cityguide/internal/assembler"
	"github.com/alexanderramin/cityguide/internal/content"
	"github.com/alexanderramin/cityguide/internal/db"
	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/intelligence"
	"github.com/alexanderramin/cityguide/internal/intent"
	"github.com/alexanderramin/cityguide/internal/llm"
	"github.com/alexanderramin/cityguide/internal/movement"
	"github.com/alexanderramin/cityguide/internal/policy"
	"github.com/alexanderramin/cityguide/internal/repository"
	"github.com/alexanderramin/cityguide/internal/testutil"
	"github.com/stretchr/testify/require"
)

var testGeometry = movement.CityGeometry{
	Center:           domain.Location{Lat: 47.3895, Lng: 16.5410},
	CityRadiusKm:     3,
	ApproachRadiusKm: 25,
}

type stubLLM struct {
	mu    sync.Mutex
	text  string
	err   error
	calls []llm.GenerateRequest
}

func (s *stubLLM) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}
	return &llm.GenerateResponse{Text: s.text}, nil
}

func (s *stubLLM) Available(context.Context) bool { return s.err == nil }

func (s *stubLLM) requests() []llm.GenerateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.GenerateRequest(nil), s.calls...)
}

type memPublisher struct {
	mu  sync.Mutex
	got []domain.Interaction
}

func (p *memPublisher) Publish(in domain.Interaction) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, in)
	return true
}

func (p *memPublisher) entries() []domain.Interaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Interaction(nil), p.got...)
}

type harness struct {
	svc       AssistantService
	llm       *stubLLM
	publisher *memPublisher
	live      *repository.LiveRepo
	users     *repository.UserRepo
}

func writeContent(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

// newHarness wires the real pipeline over an in-memory database, a content
// directory and a stubbed model.
func newHarness(t *testing.T, client *stubLLM) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	users := repository.NewUserRepo(database, db.DialectSQLite)
	live := repository.NewLiveRepo(database, db.DialectSQLite)

	dir := t.TempDir()
	writeContent(t, dir, "parking.json", `[{"code":"A1","name":"Belváros","hourly_huf":400}]`)
	writeContent(t, dir, "restaurants.json", `[{"id":"s1","name":"Bécsi Kapu","tier":"standard"}]`)
	writeContent(t, dir, content.CityKnowledgeDoc, "Kőszeg a Kőszegi-hegység lábánál fekszik.")

	ctx := context.Background()
	r := testutil.NewTestRestaurant("Kőszegi Pizzéria", testutil.WithDelivery(), testutil.WithTier(domain.TierGold))
	require.NoError(t, live.UpsertRestaurant(ctx, r))
	require.NoError(t, live.UpsertMenuItem(ctx, testutil.NewTestMenuItem(r.ID, "Pizza Margherita", 2900)))

	fw, err := policy.NewActionFirewall()
	require.NoError(t, err)

	asm := assembler.New(users, live, content.NewStore(content.DirSource{Root: dir}, nil), assembler.DefaultOptions(), nil)
	gen := intelligence.NewResponseService(client, fw, time.UTC, nil)
	pub := &memPublisher{}
	svc := NewAssistantService(intent.NewMatcher(), asm, gen, pub, AssistantConfig{Geometry: testGeometry, Location: time.UTC}, nil)
	return &harness{svc: svc, llm: client, publisher: pub, live: live, users: users}
}

func at(hour int) time.Time {
	return time.Date(2026, 5, 2, hour, 0, 0, 0, time.UTC)
}
