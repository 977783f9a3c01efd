package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/poster"
)

type fakeCompleter struct {
	lastSystem string
	lastUser   string
	lastOpts   llm.Options
	response   string
	err        error
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string, opts llm.Options) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	f.lastOpts = opts
	return f.response, f.err
}

func TestGenerator_Run(t *testing.T) {
	p, _ := poster.ByID("scenes-future")
	pt := p.PostTypes[0]

	t.Run("returns trimmed content with seed label", func(t *testing.T) {
		fake := &fakeCompleter{response: "  It's fall, 2029. Golden hour...  \n"}
		gen := New(Config{Client: fake, Rand: testRand()})

		result, err := gen.Run(context.Background(), p, pt, "a summary")
		require.NoError(t, err)
		assert.Equal(t, "It's fall, 2029. Golden hour...", result.Content)
		assert.NotEmpty(t, result.Seed, "scenes-future always seeds")
		require.Len(t, result.Steps, 1)
		assert.Equal(t, "generation", result.Steps[0].Step)
	})

	t.Run("uses elevated temperature and bounded tokens", func(t *testing.T) {
		fake := &fakeCompleter{response: "content"}
		gen := New(Config{Client: fake, Rand: testRand()})

		_, err := gen.Run(context.Background(), p, pt, "a summary")
		require.NoError(t, err)
		assert.InDelta(t, 0.85, fake.lastOpts.Temperature, 1e-9)
		assert.Equal(t, 600, fake.lastOpts.MaxTokens)
	})

	t.Run("no seed label for unseeded posters", func(t *testing.T) {
		soft, _ := poster.ByID("soft-landing")
		fake := &fakeCompleter{response: "content"}
		gen := New(Config{Client: fake, Rand: testRand()})

		result, err := gen.Run(context.Background(), soft, soft.PostTypes[0], "a summary")
		require.NoError(t, err)
		assert.Empty(t, result.Seed)
	})

	t.Run("completion errors propagate unchanged", func(t *testing.T) {
		fake := &fakeCompleter{err: fmt.Errorf("rate limited")}
		gen := New(Config{Client: fake, Rand: testRand()})

		_, err := gen.Run(context.Background(), p, pt, "a summary")
		require.Error(t, err)
		assert.ErrorContains(t, err, "rate limited")
	})
}
