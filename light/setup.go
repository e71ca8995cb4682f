package light

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	dbm "github.com/tendermint/tm-db"

	"github.com/iotaledger/iota-trust/config"
	"github.com/iotaledger/iota-trust/internal/committee"
	"github.com/iotaledger/iota-trust/libs/log"
	tmos "github.com/iotaledger/iota-trust/libs/os"
	lighthttp "github.com/iotaledger/iota-trust/light/provider/http"
	"github.com/iotaledger/iota-trust/light/store/file"
	"github.com/iotaledger/iota-trust/storage/objectstore"
	"github.com/iotaledger/iota-trust/types"
)

const defaultGraphQLTimeout = 30 * time.Second

// Setup creates the checkpoints directory of cfg and fetches the genesis
// blob into it if it is missing. A file:// download URL is copied.
func Setup(ctx context.Context, cfg *config.LightClientConfig, logger log.Logger) error {
	if err := tmos.EnsureDir(cfg.CheckpointsDirPath(), 0700); err != nil {
		return err
	}

	genesisFile := cfg.GenesisBlobFile()
	if tmos.FileExists(genesisFile) {
		return nil
	}
	if cfg.GenesisBlobDownloadURL == "" {
		return fmt.Errorf("%s is missing and genesis_blob_download_url is not set", genesisFile)
	}

	bz, err := fetchGenesis(ctx, cfg.GenesisBlobDownloadURL)
	if err != nil {
		return fmt.Errorf("fetching genesis blob: %w", err)
	}
	if _, err := types.GenesisFromBytes(bz); err != nil {
		return err
	}
	if err := tmos.WriteFileAtomic(genesisFile, bz, 0644); err != nil {
		return err
	}
	logger.Info("Fetched genesis blob", "url", cfg.GenesisBlobDownloadURL, "path", genesisFile)
	return nil
}

func fetchGenesis(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "file" {
		return os.ReadFile(u.Path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// NewClientFromConfig sets up the checkpoints directory and returns a light
// client wired to the full node and object stores named in cfg.
func NewClientFromConfig(ctx context.Context, cfg *config.LightClientConfig, logger log.Logger) (*Client, error) {
	if err := cfg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := Setup(ctx, cfg, logger); err != nil {
		return nil, err
	}

	genesis, err := types.LoadGenesis(cfg.GenesisBlobFile())
	if err != nil {
		return nil, err
	}

	trustedStore, err := file.New(cfg)
	if err != nil {
		return nil, err
	}

	primary, err := lighthttp.New(cfg.RPCURL)
	if err != nil {
		return nil, err
	}

	committees, err := committee.NewStore(dbm.NewMemDB(), 0)
	if err != nil {
		return nil, err
	}

	options := []Option{Logger(logger), Committees(committees)}
	if cfg.GraphQLURL != "" {
		options = append(options, GraphQL(NewGraphQLClient(cfg.GraphQLURL, defaultGraphQLTimeout)))
	}
	if cfg.ArchiveStore != nil {
		archive, err := objectstore.New(ctx, cfg.ArchiveStore)
		if err != nil {
			return nil, fmt.Errorf("archive store: %w", err)
		}
		concurrency := DefaultDownloadConcurrency
		if limit := objectstore.ConnectionLimit(cfg.ArchiveStore); limit < concurrency {
			concurrency = limit
		}
		options = append(options, ArchiveStore(NewArchive(archive, concurrency)))
	}
	if cfg.CheckpointStore != nil {
		checkpoints, err := objectstore.New(ctx, cfg.CheckpointStore)
		if err != nil {
			return nil, fmt.Errorf("checkpoint store: %w", err)
		}
		options = append(options, FullCheckpointStore(NewCheckpointStore(checkpoints)))
	}

	return NewClient(genesis, trustedStore, primary, options...)
}
