package committee

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	dbm "github.com/tendermint/tm-db"

	"github.com/iotaledger/iota-trust/types"
)

const defaultCacheSize = 64

// Store maps epochs to committees. Committees are persisted in a tm-db
// database and served through a bounded LRU cache. It is safe for concurrent
// use. Consumers only read from it; whoever owns the process inserts new
// committees as epochs advance.
type Store struct {
	mtx   sync.Mutex // serializes inserts
	db    dbm.DB
	cache *lru.Cache[types.EpochID, *types.Committee]
}

// NewStore returns a committee store backed by db. A cacheSize <= 0 selects
// the default cache size.
func NewStore(db dbm.DB, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[types.EpochID, *types.Committee](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, cache: cache}, nil
}

// NewStoreWithGenesis returns a store that already holds the genesis
// committee.
func NewStoreWithGenesis(db dbm.DB, genesis *types.Committee) (*Store, error) {
	s, err := NewStore(db, 0)
	if err != nil {
		return nil, err
	}
	if err := s.InitGenesisCommittee(genesis); err != nil {
		return nil, err
	}
	return s, nil
}

// InitGenesisCommittee inserts the committee of epoch 0.
func (s *Store) InitGenesisCommittee(genesis *types.Committee) error {
	if genesis.Epoch != 0 {
		return fmt.Errorf("genesis committee must be of epoch 0, got %d", genesis.Epoch)
	}
	return s.InsertNewCommittee(genesis)
}

// InsertNewCommittee stores c. Inserting the same committee twice is a no-op;
// inserting a different committee for a known epoch is an error.
func (s *Store) InsertNewCommittee(c *types.Committee) error {
	if err := c.ValidateBasic(); err != nil {
		return fmt.Errorf("invalid committee for epoch %d: %w", c.Epoch, err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, err := s.GetCommittee(c.Epoch)
	if err != nil {
		return err
	}
	if existing != nil {
		if !existing.Equal(c) {
			return fmt.Errorf("committee for epoch %d already exists and differs", c.Epoch)
		}
		return nil
	}

	bz, err := types.Marshal(c)
	if err != nil {
		return err
	}
	if err := s.db.SetSync(committeeKey(c.Epoch), bz); err != nil {
		return fmt.Errorf("failed to store committee for epoch %d: %w", c.Epoch, err)
	}
	s.cache.Add(c.Epoch, c)
	return nil
}

// GetCommittee returns the committee of epoch, or nil if it is unknown.
func (s *Store) GetCommittee(epoch types.EpochID) (*types.Committee, error) {
	if c, ok := s.cache.Get(epoch); ok {
		return c, nil
	}

	bz, err := s.db.Get(committeeKey(epoch))
	if err != nil {
		return nil, fmt.Errorf("failed to read committee for epoch %d: %w", epoch, err)
	}
	if len(bz) == 0 {
		return nil, nil
	}

	c := new(types.Committee)
	if err := types.Unmarshal(bz, c); err != nil {
		return nil, fmt.Errorf("corrupt committee for epoch %d: %w", epoch, err)
	}
	s.cache.Add(epoch, c)
	return c, nil
}

// LatestEpoch returns the highest epoch with a stored committee. ok is false
// if the store is empty.
func (s *Store) LatestEpoch() (epoch types.EpochID, ok bool, err error) {
	itr, err := s.db.ReverseIterator(committeeKey(0), nil)
	if err != nil {
		return 0, false, err
	}
	defer itr.Close()

	for ; itr.Valid(); itr.Next() {
		var c types.Committee
		if err := types.Unmarshal(itr.Value(), &c); err != nil {
			return 0, false, err
		}
		return c.Epoch, true, nil
	}
	return 0, false, itr.Error()
}

func committeeKey(epoch types.EpochID) []byte {
	return []byte(fmt.Sprintf("committee/%020d", epoch))
}
