// orchestrator.go -- drive rows through the signature/LSH/DSU pipeline
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mhlsh

import (
	"context"
	"io"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"
)

const (
	// defaultChunkSize is the number of documents signed per parallel chunk,
	// overridable via the CHUNK_SIZE environment variable.
	defaultChunkSize = 1000

	envChunkSize = "CHUNK_SIZE"
)

// Config bundles the tunables the orchestrator needs beyond the RowReader
// itself: n-gram width, the token-sequence floor, and the already-adjusted
// (B, R, K) schedule from the parameter selector.
type Config struct {
	NGramWidth int
	MinLength  int
	B, R, K    uint32
	Shards     int // LSH index shard count; <= 0 selects the default.
}

// Summary is the JSON-serializable outcome of a run.
type Summary struct {
	Before int `json:"before"`
	After  int `json:"after"`
}

// chunkSize resolves CHUNK_SIZE from the environment, falling back to
// defaultChunkSize.
func chunkSize() int {
	if v := os.Getenv(envChunkSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultChunkSize
}

// Orchestrator wires C1-C5 (tokenize/hash/sign/band) to C6 (the LSH index)
// and C7 (the DSU), in either batch or streaming mode.
type Orchestrator struct {
	cfg    Config
	perm   *Permutations
	hasher *TokenHasher
	ranges []BandRange
}

// NewOrchestrator builds an orchestrator for cfg. perm must have length K ==
// cfg.K.
func NewOrchestrator(cfg Config, perm *Permutations) (*Orchestrator, error) {
	hasher, err := NewTokenHasher(0)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		cfg:    cfg,
		perm:   perm,
		hasher: hasher,
		ranges: BandRanges(int(cfg.B), int(cfg.R)),
	}, nil
}

// sign computes one document's band-key vector: tokenize, hash, min-wise
// permute, band-encode.
func (o *Orchestrator) sign(text []byte) []string {
	tokens := Tokenize(text, o.cfg.NGramWidth, o.cfg.MinLength)
	hashes := o.hasher.HashAll(tokens)
	sig := Sign(hashes, o.perm)
	return EncodeBands(sig, o.ranges)
}

// bandKeys is the result of signing one row: the row's id alongside its band
// keys, ready for index insertion.
type bandKeys struct {
	id   uint32
	keys []string
}

// signChunk computes band keys for every row in rows concurrently, bounded to
// GOMAXPROCS workers. A malformed row never reaches here (the RowReader
// rejects id overflow at the source) so this phase is total.
func (o *Orchestrator) signChunk(ctx context.Context, rows []Row) ([]bandKeys, error) {
	out := make([]bandKeys, len(rows))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			out[i] = bandKeys{id: row.ID, keys: o.sign(row.Text)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// RunBatch implements batch mode: read every row into memory, sign it in
// parallel chunks, insert into idx, drain idx into dsu, and return the
// survivor ids (in input row order) plus a summary. A partially-built DSU is discarded
// on context cancellation.
func RunBatch(ctx context.Context, reader RowReader, cfg Config) ([]uint32, Summary, *DSU, error) {
	perm := NewPermutations(int(cfg.K))
	orch, err := NewOrchestrator(cfg, perm)
	if err != nil {
		return nil, Summary{}, nil, err
	}

	var rows []Row
	for {
		batch, err := reader.Next()
		rows = append(rows, batch...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Summary{}, nil, err
		}
	}

	idx := NewLSHIndex(int(cfg.B), cfg.Shards)
	dsu := NewDSU()

	chunk := chunkSize()
	for start := 0; start < len(rows); start += chunk {
		end := start + chunk
		if end > len(rows) {
			end = len(rows)
		}

		if err := ctx.Err(); err != nil {
			return nil, Summary{}, nil, err
		}

		signed, err := orch.signChunk(ctx, rows[start:end])
		if err != nil {
			return nil, Summary{}, nil, err
		}
		for _, s := range signed {
			idx.Insert(s.keys, s.id)
		}
	}

	idx.IterCandidateClusters(func(cluster map[uint32]struct{}) {
		dsu.UnionCluster(cluster)
	})

	ids := make([]uint32, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	roots := dsu.BatchFind(ids)

	var survivors []uint32
	for i, id := range ids {
		if roots[i] == id {
			survivors = append(survivors, id)
		}
	}

	return survivors, Summary{Before: len(rows), After: len(survivors)}, dsu, nil
}

// RunStreaming implements streaming mode: per input batch, sign in parallel,
// insert into idx, run the cluster-ingestion helper, then clear every band
// before pulling the next batch. Peak memory is bounded by one batch plus the
// DSU rather than the whole corpus. After the reader is exhausted, survivors
// are computed from the full set of ids seen.
func RunStreaming(ctx context.Context, reader RowReader, cfg Config) ([]uint32, Summary, *DSU, error) {
	perm := NewPermutations(int(cfg.K))
	orch, err := NewOrchestrator(cfg, perm)
	if err != nil {
		return nil, Summary{}, nil, err
	}

	idx := NewLSHIndex(int(cfg.B), cfg.Shards)
	dsu := NewDSU()

	var allIDs []uint32
	for {
		if err := ctx.Err(); err != nil {
			return nil, Summary{}, nil, err
		}

		batch, rerr := reader.Next()
		if rerr != nil && rerr != io.EOF {
			return nil, Summary{}, nil, rerr
		}

		if len(batch) > 0 {
			signed, err := orch.signChunk(ctx, batch)
			if err != nil {
				return nil, Summary{}, nil, err
			}
			for _, s := range signed {
				idx.Insert(s.keys, s.id)
				allIDs = append(allIDs, s.id)
			}

			idx.IterCandidateClusters(func(cluster map[uint32]struct{}) {
				dsu.UnionCluster(cluster)
			})
			idx.ClearAll()
		}

		if rerr == io.EOF {
			break
		}
	}

	roots := dsu.BatchFind(allIDs)

	var survivors []uint32
	for i, id := range allIDs {
		if roots[i] == id {
			survivors = append(survivors, id)
		}
	}

	return survivors, Summary{Before: len(allIDs), After: len(survivors)}, dsu, nil
}
