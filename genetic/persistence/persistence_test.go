package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/evolution/genetic"
)

func countingOnes(calls *int) genetic.EvaluatorFunc[int] {
	return func(genes []int) float64 {
		*calls++
		sum := 0
		for _, g := range genes {
			sum += g
		}
		return float64(sum)
	}
}

func TestManager_BinaryRoundTrip(t *testing.T) {
	calls := 0
	eval := countingOnes(&calls)

	a, err := genetic.NewBinaryChromosome([]int{1, 0, 1, 1}, eval)
	require.NoError(t, err)
	b, err := genetic.NewBinaryChromosome([]int{0, 0, 1, 0}, eval)
	require.NoError(t, err)
	a.Fitness()

	pop, err := genetic.NewPopulationFrom(4, a, b)
	require.NoError(t, err)

	dto, err := FromPopulation(pop, 7)
	require.NoError(t, err)
	assert.Equal(t, EncodingBinary, dto.Encoding)
	assert.Equal(t, 7, dto.Generation)
	require.Len(t, dto.Candidates, 2)
	assert.True(t, dto.Candidates[0].Evaluated)
	assert.False(t, dto.Candidates[1].Evaluated)

	m := NewManager(t.TempDir())
	require.NoError(t, m.Save("binary", dto))
	assert.True(t, m.Exists("binary"))

	loaded, err := m.Load("binary")
	require.NoError(t, err)
	assert.Equal(t, dto, loaded)

	calls = 0
	restored, err := loaded.ToBinaryPopulation(eval)
	require.NoError(t, err)
	require.Equal(t, 2, restored.Len())
	assert.Equal(t, 4, restored.Limit())

	first := restored.At(0).(*genetic.BinaryChromosome)
	assert.Equal(t, []int{1, 0, 1, 1}, first.Genes())
	assert.Equal(t, 3.0, first.Fitness())
	assert.Equal(t, 0, calls, "stored fitness must be adopted, not recomputed")

	second := restored.At(1)
	_, ok := second.CachedFitness()
	assert.False(t, ok)
	assert.Equal(t, 1.0, second.Fitness())
	assert.Equal(t, 1, calls)
}

func TestManager_RandomKeyRoundTrip(t *testing.T) {
	eval := func(keys []float64) float64 { return keys[0] }

	c, err := genetic.NewRandomKeyChromosome([]float64{0.125, 0.75, 0.5}, eval)
	require.NoError(t, err)
	c.Fitness()

	pop, err := genetic.NewPopulationFrom(2, c)
	require.NoError(t, err)

	dto, err := FromPopulation(pop, 1)
	require.NoError(t, err)

	m := NewManager(t.TempDir())
	require.NoError(t, m.Save("keys", dto))
	loaded, err := m.Load("keys")
	require.NoError(t, err)

	restored, err := loaded.ToRandomKeyPopulation(eval)
	require.NoError(t, err)

	rc := restored.At(0).(*genetic.RandomKeyChromosome)
	assert.Equal(t, []float64{0.125, 0.75, 0.5}, rc.Genes())
	assert.Equal(t, []int{0, 2, 1}, rc.Permutation())

	score, ok := rc.CachedFitness()
	assert.True(t, ok)
	assert.Equal(t, 0.125, score)
}

func TestFromPopulation_UnsupportedEncoding(t *testing.T) {
	c, err := genetic.NewListChromosome([]int{1, 2}, func([]int) float64 { return 0 })
	require.NoError(t, err)
	pop, err := genetic.NewPopulationFrom(1, c)
	require.NoError(t, err)

	_, err = FromPopulation(pop, 0)
	assert.ErrorIs(t, err, genetic.ErrUnsupportedChromosome)
}

func TestToPopulation_EncodingMismatch(t *testing.T) {
	dto := PopulationDTO{
		Limit:      1,
		Encoding:   EncodingRandomKey,
		Candidates: []CandidateDTO{{Genes: []float64{0.5}}},
	}
	_, err := dto.ToBinaryPopulation(func([]int) float64 { return 0 })
	assert.ErrorIs(t, err, genetic.ErrUnsupportedChromosome)
}

func TestToPopulation_InvalidBinaryGene(t *testing.T) {
	dto := PopulationDTO{
		Limit:      1,
		Encoding:   EncodingBinary,
		Candidates: []CandidateDTO{{Genes: []float64{0.5}}},
	}
	_, err := dto.ToBinaryPopulation(func([]int) float64 { return 0 })
	assert.ErrorIs(t, err, genetic.ErrInvalidRepresentation)
}

func TestManager_LoadMissing(t *testing.T) {
	m := NewManager(t.TempDir())
	assert.False(t, m.Exists("absent"))

	_, err := m.Load("absent")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestManager_ListAndRemove(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	names, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	missing := NewManager(filepath.Join(dir, "absent"))
	names, err = missing.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	dto := PopulationDTO{Limit: 1, Encoding: EncodingBinary, Candidates: []CandidateDTO{{Genes: []float64{1}}}}
	require.NoError(t, m.Save("zeta", dto))
	require.NoError(t, m.Save("alpha", dto))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	names, err = m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)

	require.NoError(t, m.Remove("zeta"))
	require.NoError(t, m.Remove("zeta"), "removing a missing snapshot is not an error")
	assert.False(t, m.Exists("zeta"))

	names, err = m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, names)
}

func TestManager_SaveOverwrites(t *testing.T) {
	m := NewManager(t.TempDir())

	first := PopulationDTO{Generation: 1, Limit: 1, Encoding: EncodingBinary, Candidates: []CandidateDTO{{Genes: []float64{0}}}}
	second := PopulationDTO{Generation: 2, Limit: 1, Encoding: EncodingBinary, Candidates: []CandidateDTO{{Genes: []float64{1}}}}
	require.NoError(t, m.Save("run", first))
	require.NoError(t, m.Save("run", second))

	loaded, err := m.Load("run")
	require.NoError(t, err)
	assert.Equal(t, second, loaded)

	names, err := m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"run"}, names, "no temporary files are left behind")
}

func TestManager_RejectsPathNames(t *testing.T) {
	base := filepath.Join(t.TempDir(), "snapshots")
	m := NewManager(base)
	dto := PopulationDTO{Limit: 1, Encoding: EncodingBinary, Candidates: []CandidateDTO{{Genes: []float64{1}}}}

	for _, name := range []string{"", ".", "..", "../outside", "a/b", `a\b`} {
		assert.ErrorIs(t, m.Save(name, dto), ErrInvalidName, name)
		_, err := m.Load(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
		assert.ErrorIs(t, m.Remove(name), ErrInvalidName, name)
		assert.False(t, m.Exists(name), name)
	}

	_, err := os.Stat(filepath.Join(filepath.Dir(base), "outside.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist, "nothing is written outside the base directory")

	assert.NoError(t, ValidateName("run-1.v2"))
}
