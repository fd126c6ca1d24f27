package crm

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testPath = "/data/crm.json"

// StoreTestSuite exercises the store against an in-memory filesystem.
type StoreTestSuite struct {
	suite.Suite
	fs    afero.Fs
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (suite *StoreTestSuite) SetupTest() {
	suite.fs = afero.NewMemMapFs()
	suite.store = NewStore(NewFileBackend(suite.fs, testPath), Options{}, zerolog.Nop())
	suite.ctx = context.Background()
}

func (suite *StoreTestSuite) readFile() string {
	data, err := afero.ReadFile(suite.fs, testPath)
	require.NoError(suite.T(), err)
	return string(data)
}

func (suite *StoreTestSuite) TestLoadMissingDocumentInitializesEmptyStore() {
	snap, err := suite.store.Load(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, snap.Len())
	assert.Empty(suite.T(), snap.Names())
	assert.JSONEq(suite.T(), `{}`, suite.readFile())
}

func (suite *StoreTestSuite) TestLoadCorruptDocumentYieldsEmptySnapshot() {
	require.NoError(suite.T(), afero.WriteFile(suite.fs, testPath, []byte(`{"Alice": [`), 0o644))

	snap, err := suite.store.Load(suite.ctx)

	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, ErrCorruptState))
	require.NotNil(suite.T(), snap)
	assert.Equal(suite.T(), 0, snap.Len())
	// corrupt bytes are left alone by a read
	assert.Equal(suite.T(), `{"Alice": [`, suite.readFile())
}

func (suite *StoreTestSuite) TestLoadTrailingDataIsCorrupt() {
	for _, doc := range []string{
		`{} garbage`,
		`{"A": {}} {"B": {}}`,
	} {
		require.NoError(suite.T(), afero.WriteFile(suite.fs, testPath, []byte(doc), 0o644))

		snap, err := suite.store.Load(suite.ctx)

		assert.ErrorIs(suite.T(), err, ErrCorruptState, doc)
		assert.Equal(suite.T(), 0, snap.Len(), doc)
	}
}

func (suite *StoreTestSuite) TestLoadAcceptsTrailingWhitespace() {
	require.NoError(suite.T(), afero.WriteFile(suite.fs, testPath, []byte("{\"A\": {}}\n\n"), 0o644))

	names, err := suite.store.Names(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"A"}, names)
}

func (suite *StoreTestSuite) TestLoadDropsDuplicateInterests() {
	doc := `{"Alice": {"past_purchases": [], "interests": ["AI", "AI", "Robotics"], "recommendations": []}}`
	require.NoError(suite.T(), afero.WriteFile(suite.fs, testPath, []byte(doc), 0o644))

	p, ok, err := suite.store.Get(suite.ctx, "Alice")

	require.NoError(suite.T(), err)
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), []string{"AI", "Robotics"}, p.Interests)
}

func (suite *StoreTestSuite) TestLoadSchemaViolationIsCorrupt() {
	require.NoError(suite.T(), afero.WriteFile(suite.fs, testPath, []byte(`{"Alice": {"interests": "AI"}}`), 0o644))

	_, err := suite.store.Load(suite.ctx)

	assert.ErrorIs(suite.T(), err, ErrCorruptState)
}

func (suite *StoreTestSuite) TestLoadToleratesMissingLists() {
	require.NoError(suite.T(), afero.WriteFile(suite.fs, testPath, []byte(`{"Alice": {}}`), 0o644))

	snap, err := suite.store.Load(suite.ctx)

	require.NoError(suite.T(), err)
	p, ok := snap.Get("Alice")
	assert.True(suite.T(), ok)
	assert.Empty(suite.T(), p.Interests)
	assert.NotNil(suite.T(), p.Interests)
}

func (suite *StoreTestSuite) TestAddThenGet() {
	err := suite.store.Add(suite.ctx, "Alice", []string{"Widget", "Gadget", "Widget"}, []string{"AI", "Robotics"})
	require.NoError(suite.T(), err)

	p, ok, err := suite.store.Get(suite.ctx, "Alice")
	require.NoError(suite.T(), err)
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), "Alice", p.Name)
	assert.Equal(suite.T(), []string{"Widget", "Gadget", "Widget"}, p.PastPurchases)
	assert.Equal(suite.T(), []string{"AI", "Robotics"}, p.Interests)
	assert.Equal(suite.T(), []string{}, p.Recommendations)
}

func (suite *StoreTestSuite) TestAddWritesOriginalDocumentFormat() {
	require.NoError(suite.T(), suite.store.Add(suite.ctx, "Alice", []string{"Widget"}, []string{"AI"}))

	assert.JSONEq(suite.T(), `{
		"Alice": {"past_purchases": ["Widget"], "interests": ["AI"], "recommendations": []}
	}`, suite.readFile())
	assert.Contains(suite.T(), suite.readFile(), "\n    \"Alice\": {")
}

func (suite *StoreTestSuite) TestAddRejectsEmptyName() {
	err := suite.store.Add(suite.ctx, "   ", nil, nil)

	assert.ErrorIs(suite.T(), err, ErrInvalidArgument)
	exists, _ := afero.Exists(suite.fs, testPath)
	assert.False(suite.T(), exists)
}

func (suite *StoreTestSuite) TestAddNormalizesInterests() {
	require.NoError(suite.T(), suite.store.Add(suite.ctx, " Bob ", nil, []string{" AI", "AI", "", "ai"}))

	p, ok, err := suite.store.Get(suite.ctx, "Bob")
	require.NoError(suite.T(), err)
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), []string{"AI", "ai"}, p.Interests)
	assert.Equal(suite.T(), []string{}, p.PastPurchases)
}

func (suite *StoreTestSuite) TestAddOverwritesDuplicateByDefault() {
	require.NoError(suite.T(), suite.store.Add(suite.ctx, "Alice", []string{"Widget"}, []string{"AI"}))
	require.NoError(suite.T(), suite.store.Add(suite.ctx, "Bob", nil, nil))
	require.NoError(suite.T(), suite.store.Add(suite.ctx, "Alice", []string{"Gadget"}, []string{"Cooking"}))

	names, err := suite.store.Names(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"Alice", "Bob"}, names)

	p, _, _ := suite.store.Get(suite.ctx, "Alice")
	assert.Equal(suite.T(), []string{"Cooking"}, p.Interests)
	assert.Equal(suite.T(), []string{"Gadget"}, p.PastPurchases)
}

func (suite *StoreTestSuite) TestAddRejectsDuplicateWhenConfigured() {
	store := NewStore(NewFileBackend(suite.fs, testPath), Options{RejectDuplicates: true}, zerolog.Nop())
	require.NoError(suite.T(), store.Add(suite.ctx, "Alice", nil, []string{"AI"}))

	err := store.Add(suite.ctx, "Alice", nil, []string{"Cooking"})

	assert.ErrorIs(suite.T(), err, ErrAlreadyExists)
	p, _, _ := store.Get(suite.ctx, "Alice")
	assert.Equal(suite.T(), []string{"AI"}, p.Interests)
}

func (suite *StoreTestSuite) TestNamesKeepInsertionOrderAcrossReloads() {
	for _, name := range []string{"Zoe", "Alice", "Mike"} {
		require.NoError(suite.T(), suite.store.Add(suite.ctx, name, nil, nil))
	}

	reopened := NewStore(NewFileBackend(suite.fs, testPath), Options{}, zerolog.Nop())
	names, err := reopened.Names(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"Zoe", "Alice", "Mike"}, names)
}

func (suite *StoreTestSuite) TestAppendInterestIsIdempotent() {
	require.NoError(suite.T(), suite.store.Add(suite.ctx, "Alice", []string{"Widget"}, []string{"AI"}))

	require.NoError(suite.T(), suite.store.AppendInterest(suite.ctx, "Alice", "Robotics"))
	once, _, _ := suite.store.Get(suite.ctx, "Alice")

	require.NoError(suite.T(), suite.store.AppendInterest(suite.ctx, "Alice", "Robotics"))
	twice, _, _ := suite.store.Get(suite.ctx, "Alice")

	assert.Equal(suite.T(), []string{"AI", "Robotics"}, once.Interests)
	assert.Equal(suite.T(), once.Interests, twice.Interests)
}

func (suite *StoreTestSuite) TestAppendInterestRejectsBlank() {
	require.NoError(suite.T(), suite.store.Add(suite.ctx, "Alice", nil, []string{"AI"}))

	err := suite.store.AppendInterest(suite.ctx, "Alice", "  ")

	assert.ErrorIs(suite.T(), err, ErrInvalidArgument)
}

func (suite *StoreTestSuite) TestUpdatesOnUnknownCustomerNeverMutate() {
	require.NoError(suite.T(), suite.store.Add(suite.ctx, "Alice", nil, []string{"AI"}))
	before := suite.readFile()

	assert.ErrorIs(suite.T(), suite.store.AppendInterest(suite.ctx, "Nobody", "AI"), ErrNotFound)
	assert.ErrorIs(suite.T(), suite.store.ReplaceInterests(suite.ctx, "Nobody", []string{"AI"}), ErrNotFound)
	assert.ErrorIs(suite.T(), suite.store.AppendRecommendation(suite.ctx, "Nobody", "Robot kit"), ErrNotFound)

	assert.Equal(suite.T(), before, suite.readFile())
	names, _ := suite.store.Names(suite.ctx)
	assert.Equal(suite.T(), []string{"Alice"}, names)
}

func (suite *StoreTestSuite) TestReplaceInterests() {
	require.NoError(suite.T(), suite.store.Add(suite.ctx, "Alice", nil, []string{"AI", "Robotics"}))

	require.NoError(suite.T(), suite.store.ReplaceInterests(suite.ctx, "Alice", []string{"Cooking", "Travel", "Cooking"}))

	p, _, _ := suite.store.Get(suite.ctx, "Alice")
	assert.Equal(suite.T(), []string{"Cooking", "Travel"}, p.Interests)
}

func (suite *StoreTestSuite) TestAppendRecommendation() {
	require.NoError(suite.T(), suite.store.Add(suite.ctx, "Alice", nil, []string{"AI"}))

	require.NoError(suite.T(), suite.store.AppendRecommendation(suite.ctx, "Alice", "Robot kit"))
	require.NoError(suite.T(), suite.store.AppendRecommendation(suite.ctx, "Alice", "Robot kit"))

	p, _, _ := suite.store.Get(suite.ctx, "Alice")
	assert.Equal(suite.T(), []string{"Robot kit", "Robot kit"}, p.Recommendations)
}

func (suite *StoreTestSuite) TestGetReturnsCopies() {
	require.NoError(suite.T(), suite.store.Add(suite.ctx, "Alice", nil, []string{"AI"}))

	snap, err := suite.store.Load(suite.ctx)
	require.NoError(suite.T(), err)
	p, _ := snap.Get("Alice")
	p.Interests[0] = "Hacked"

	again, _ := snap.Get("Alice")
	assert.Equal(suite.T(), []string{"AI"}, again.Interests)
}

func (suite *StoreTestSuite) TestGetUnknownReturnsEmptyProfile() {
	p, ok, err := suite.store.Get(suite.ctx, "Nobody")

	require.NoError(suite.T(), err)
	assert.False(suite.T(), ok)
	assert.Equal(suite.T(), "Nobody", p.Name)
	assert.Empty(suite.T(), p.Interests)
	assert.Empty(suite.T(), p.PastPurchases)
}

func (suite *StoreTestSuite) TestMutationOnCorruptDocumentStartsEmpty() {
	require.NoError(suite.T(), afero.WriteFile(suite.fs, testPath, []byte(`not json`), 0o644))

	require.NoError(suite.T(), suite.store.Add(suite.ctx, "Alice", nil, []string{"AI"}))

	names, err := suite.store.Names(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"Alice"}, names)
}

func (suite *StoreTestSuite) TestWriteFailureIsPersistenceError() {
	require.NoError(suite.T(), afero.WriteFile(suite.fs, testPath, []byte(`{}`), 0o644))
	store := NewStore(NewFileBackend(afero.NewReadOnlyFs(suite.fs), testPath), Options{}, zerolog.Nop())

	err := store.Add(suite.ctx, "Alice", nil, []string{"AI"})

	assert.ErrorIs(suite.T(), err, ErrPersistence)
	assert.Equal(suite.T(), `{}`, suite.readFile())
}

func (suite *StoreTestSuite) TestLoadInitFailureStillReturnsSnapshot() {
	store := NewStore(NewFileBackend(afero.NewReadOnlyFs(suite.fs), testPath), Options{}, zerolog.Nop())

	snap, err := store.Load(suite.ctx)

	assert.ErrorIs(suite.T(), err, ErrPersistence)
	require.NotNil(suite.T(), snap)
	assert.Equal(suite.T(), 0, snap.Len())
}

func (suite *StoreTestSuite) TestAtomicWriteLeavesNoTempFiles() {
	require.NoError(suite.T(), suite.store.Add(suite.ctx, "Alice", nil, nil))
	require.NoError(suite.T(), suite.store.Add(suite.ctx, "Bob", nil, nil))

	entries, err := afero.ReadDir(suite.fs, "/data")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), entries, 1)
	assert.Equal(suite.T(), "crm.json", entries[0].Name())
}

func TestEndToEndProfileScenario(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewFileBackend(afero.NewMemMapFs(), "crm.json"), Options{}, zerolog.Nop())

	require.NoError(t, store.Add(ctx, "Alice", []string{"Widget"}, []string{"AI"}))
	p, _, _ := store.Get(ctx, "Alice")
	assert.Empty(t, p.Recommendations)

	require.NoError(t, store.AppendInterest(ctx, "Alice", "Robotics"))
	p, _, _ = store.Get(ctx, "Alice")
	assert.Equal(t, []string{"AI", "Robotics"}, p.Interests)

	require.NoError(t, store.AppendInterest(ctx, "Alice", "AI"))
	p, _, _ = store.Get(ctx, "Alice")
	assert.Equal(t, []string{"AI", "Robotics"}, p.Interests)
}

// gatedBackend holds the first write of an empty document until released.
type gatedBackend struct {
	Backend
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedBackend) Write(ctx context.Context, data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("{}")) {
		g.once.Do(func() {
			close(g.entered)
			<-g.release
		})
	}
	return g.Backend.Write(ctx, data)
}

func TestLoadInitializationDoesNotClobberConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	backend := &gatedBackend{
		Backend: NewFileBackend(afero.NewMemMapFs(), testPath),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	store := NewStore(backend, Options{}, zerolog.Nop())

	loaded := make(chan error, 1)
	go func() {
		_, err := store.Load(ctx)
		loaded <- err
	}()
	<-backend.entered

	added := make(chan error, 1)
	go func() {
		added <- store.Add(ctx, "Alice", []string{"Widget"}, []string{"AI"})
	}()
	time.Sleep(20 * time.Millisecond)
	close(backend.release)

	require.NoError(t, <-loaded)
	require.NoError(t, <-added)

	p, ok, err := store.Get(ctx, "Alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"AI"}, p.Interests)
}
