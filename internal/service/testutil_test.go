package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/witthaya/shopapi/internal/models"
	"github.com/witthaya/shopapi/internal/repo"
	"github.com/witthaya/shopapi/internal/storage"
	"github.com/witthaya/shopapi/pkg/hash"
)

// newTestDB opens a per-test in-memory database. The shared cache keeps
// every pooled connection on the same database, and the busy timeout lets
// concurrent writers queue instead of failing.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(10000)",
		strings.NewReplacer("/", "_", "#", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}))
	return db
}

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return &repo.GormRepo{DB: newTestDB(t)}
}

func newTestImages(t *testing.T) *storage.ImageStore {
	t.Helper()
	store, err := storage.NewImageStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func seedProduct(t *testing.T, r *repo.GormRepo, name string, price float64, stock uint) *models.Product {
	t.Helper()
	prod := &models.Product{Name: name, Description: name + " description", Price: price, Stock: stock}
	require.NoError(t, r.CreateProduct(context.Background(), prod))
	return prod
}

func seedUser(t *testing.T, r *repo.GormRepo, name, role string) *models.User {
	t.Helper()
	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	user := &models.User{Name: name, PasswordHash: pwHash, Role: role}
	require.NoError(t, r.CreateUser(context.Background(), user))
	return user
}

type publishedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

// recordingPublisher captures events so tests can assert on what was
// published without a broker.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: event.(map[string]any)})
	return nil
}

func (p *recordingPublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Event["type"] == eventType {
			out = append(out, e)
		}
	}
	return out
}
