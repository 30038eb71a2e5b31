package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/hospital-portal/internal/dashboard"
)

func sampleRecord() Record {
	rec := Record{Session: &Session{UserID: "u1", Name: "Dr. Rao", Email: "rao@example.com", Role: RoleDoctor, Token: "tok"}}
	rec.State.Draft.Diagnosis = "Flu"
	rec.State.Draft.AddMedicine("Paracetamol")
	return rec
}

func storeContract(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, "s1", sampleRecord()))

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got.Session)
	assert.Equal(t, RoleDoctor, got.Session.Role)
	assert.Equal(t, "tok", got.Session.Token)
	assert.Equal(t, []dashboard.MedicineLine{{Name: "Paracetamol", Quantity: 1}}, got.State.Draft.Medicines)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	storeContract(t, NewRedisStore(client, 0))
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, time.Hour)
	require.NoError(t, store.Save(context.Background(), "s1", sampleRecord()))
	assert.Equal(t, time.Hour, mr.TTL(redisKeyPrefix+"s1"))

	noTTL := NewRedisStore(client, 0)
	require.NoError(t, noTTL.Save(context.Background(), "s2", sampleRecord()))
	assert.Equal(t, time.Duration(0), mr.TTL(redisKeyPrefix+"s2"))

	mr.FastForward(2 * time.Hour)
	_, err := store.Load(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

// fakeDB emulates the three statements PgStore issues against portal_sessions.
type fakeDB struct {
	mu   sync.Mutex
	rows map[string][]byte
	sql  []string
}

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.data
	return nil
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sql = append(f.sql, sql)
	switch {
	case strings.Contains(sql, "INSERT INTO portal_sessions"):
		f.rows[args[0].(string)] = args[1].([]byte)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.Contains(sql, "DELETE FROM portal_sessions"):
		delete(f.rows, args[0].(string))
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{data: data}
}

func (f *fakeDB) Ping(context.Context) error { return nil }

func TestPgStore(t *testing.T) {
	db := &fakeDB{rows: make(map[string][]byte)}
	store := NewPgStore(db)

	require.NoError(t, store.Migrate(context.Background()))
	assert.Contains(t, db.sql[0], "CREATE TABLE IF NOT EXISTS portal_sessions")

	storeContract(t, store)
}
