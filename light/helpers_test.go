package light_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/iota-trust/config"
	"github.com/iotaledger/iota-trust/crypto/ed25519"
	"github.com/iotaledger/iota-trust/light"
	"github.com/iotaledger/iota-trust/light/store"
	"github.com/iotaledger/iota-trust/light/store/file"
	"github.com/iotaledger/iota-trust/storage/objectstore"
	"github.com/iotaledger/iota-trust/types"
)

const checkpointsPerEpoch = 10

// testChain is a chain of epochs, each with its own committee and an
// end-of-epoch checkpoint at the last sequence number of the epoch.
type testChain struct {
	genesis    *types.Genesis
	committees []*types.Committee
	keys       [][]ed25519.PrivKey
	endOfEpoch []*types.CheckpointData
}

// makeChain returns a chain whose epochs 0..epochs-1 are closed and whose
// epoch `epochs` is the current one.
func makeChain(t *testing.T, epochs int) *testChain {
	t.Helper()

	c := &testChain{}
	for e := 0; e <= epochs; e++ {
		committee, keys := types.MakeCommittee(types.EpochID(e), 4)
		c.committees = append(c.committees, committee)
		c.keys = append(c.keys, keys)
	}
	for e := 0; e < epochs; e++ {
		data, err := types.MakeCheckpointData(c.committees[e], c.keys[e], lastOfEpoch(e), 2, c.committees[e+1])
		require.NoError(t, err)
		c.endOfEpoch = append(c.endOfEpoch, data)
	}
	c.genesis = &types.Genesis{ChainID: "test-chain", Committee: *c.committees[0]}
	return c
}

func lastOfEpoch(epoch int) uint64 {
	return uint64(epoch+1)*checkpointsPerEpoch - 1
}

// checkpoint returns a regular checkpoint of epoch with numTxs transactions.
func (c *testChain) checkpoint(t *testing.T, epoch int, numTxs int) *types.CheckpointData {
	t.Helper()
	seq := uint64(epoch)*checkpointsPerEpoch + 5
	data, err := types.MakeCheckpointData(c.committees[epoch], c.keys[epoch], seq, numTxs, nil)
	require.NoError(t, err)
	return data
}

func (c *testChain) list() store.CheckpointList {
	list := store.CheckpointList{}
	for _, data := range c.endOfEpoch {
		list.Checkpoints = append(list.Checkpoints, data.CheckpointSummary.SequenceNumber())
	}
	return list
}

// saveLocally stores the list and every end-of-epoch summary, as a finished
// sync would.
func (c *testChain) saveLocally(t *testing.T, s store.Store) {
	t.Helper()
	require.NoError(t, s.SaveCheckpointList(c.list()))
	for _, data := range c.endOfEpoch {
		require.NoError(t, s.SaveCheckpointSummary(&data.CheckpointSummary))
	}
}

// archive writes the chain into a file archive and returns it.
func (c *testChain) archive(t *testing.T) *light.Archive {
	t.Helper()
	return c.archiveIn(t, t.TempDir())
}

func (c *testChain) archiveIn(t *testing.T, dir string) *light.Archive {
	t.Helper()
	backend, err := objectstore.NewFileStore(dir)
	require.NoError(t, err)

	a := light.NewArchive(backend, 2)
	ctx := context.Background()
	require.NoError(t, a.WriteManifest(ctx, &light.Manifest{EndOfEpochCheckpoints: c.list().Checkpoints}))
	for _, data := range c.endOfEpoch {
		require.NoError(t, a.WriteSummary(ctx, &data.CheckpointSummary))
	}
	return a
}

func newFileStore(t *testing.T) *file.Store {
	t.Helper()
	s, err := file.New(&config.LightClientConfig{CheckpointsDir: t.TempDir()})
	require.NoError(t, err)
	return s
}

// graphqlServer answers last-checkpoint-of-epoch queries for the closed
// epochs of a chain and records the epochs asked for.
type graphqlServer struct {
	*httptest.Server

	mtx    sync.Mutex
	epochs []uint64
}

func newGraphQLServer(t *testing.T, chain *testChain) *graphqlServer {
	t.Helper()
	g := &graphqlServer{}
	g.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string `json:"query"`
			Variables struct {
				EpochID uint64 `json:"epochID"`
			} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		g.mtx.Lock()
		g.epochs = append(g.epochs, req.Variables.EpochID)
		g.mtx.Unlock()

		epoch := req.Variables.EpochID
		if epoch >= uint64(len(chain.endOfEpoch)) {
			_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"epoch not closed"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"epoch":{"checkpoints":{"nodes":[{"sequenceNumber":` +
			jsonUint(chain.endOfEpoch[epoch].CheckpointSummary.SequenceNumber()) + `}]}}}}`))
	}))
	t.Cleanup(g.Close)
	return g
}

func (g *graphqlServer) askedEpochs() []uint64 {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return append([]uint64(nil), g.epochs...)
}

func jsonUint(v uint64) string {
	bz, _ := json.Marshal(v)
	return string(bz)
}
