package selector

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanishpuri/DupeDNA/pkg/models"
)

const dest = "/quarantine"

func created(path, date string) models.FileRecord {
	return models.FileRecord{Path: path, CreationDate: sql.NullString{String: date, Valid: true}}
}

func metaOf(records ...models.FileRecord) map[string]models.FileRecord {
	out := make(map[string]models.FileRecord, len(records))
	for _, r := range records {
		out[r.Path] = r
	}
	return out
}

func TestSelectMovesScenario(t *testing.T) {
	clusters := []models.Cluster{{Members: []string{"A", "B", "C"}}}
	meta := metaOf(
		created("A", "2020-01-01"),
		created("B", "2021-01-01"),
		models.FileRecord{Path: "C"},
	)

	plan, err := New(dest).SelectMoves(clusters, meta)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.MoveEntry{
		{Source: "B", Destination: dest},
		{Source: "C", Destination: dest},
	}, plan)
}

func TestSelectMovesEmpty(t *testing.T) {
	plan, err := New(dest).SelectMoves(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, plan)
}

func TestSelectMovesOneEntryPerDisjointCluster(t *testing.T) {
	clusters := []models.Cluster{
		{Members: []string{"A", "B"}},
		{Members: []string{"C", "D"}},
	}

	plan, err := New(dest).SelectMoves(clusters, map[string]models.FileRecord{})
	require.NoError(t, err)
	assert.Equal(t, []models.MoveEntry{
		{Source: "B", Destination: dest},
		{Source: "D", Destination: dest},
	}, plan)
}

func TestSelectMovesRejectsUndersizedCluster(t *testing.T) {
	clusters := []models.Cluster{
		{Members: []string{"A", "B"}},
		{Members: []string{"lonely"}},
	}

	plan, err := New(dest).SelectMoves(clusters, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUndersizedCluster))
	assert.Contains(t, err.Error(), "cluster 1")
	assert.Nil(t, plan)

	_, err = New(dest).SelectMoves([]models.Cluster{{}}, nil)
	assert.ErrorIs(t, err, ErrUndersizedCluster)
}

func TestSelectMovesRejectsRepeatedMember(t *testing.T) {
	plan, err := New(dest).SelectMoves([]models.Cluster{{Members: []string{"A", "A"}}}, nil)
	require.ErrorIs(t, err, ErrUndersizedCluster)
	assert.Nil(t, plan)

	// B is kept, so a repeated A must still move once.
	metadata := map[string]models.FileRecord{"B": created("B", "2001-01-01")}
	plan, err = New(dest).SelectMoves([]models.Cluster{{Members: []string{"A", "B", "A"}}}, metadata)
	require.NoError(t, err)
	assert.Equal(t, []models.MoveEntry{{Source: "A", Destination: dest}}, plan)
}

func TestEarliestCreationAllAbsentUsesSmallestPath(t *testing.T) {
	members := []models.FileRecord{{Path: "/z.jpg"}, {Path: "/b.jpg"}, {Path: "/m.jpg"}}
	assert.Equal(t, "/b.jpg", EarliestCreation().Canonical(members).Path)
}

func TestEarliestCreationOrdering(t *testing.T) {
	tests := []struct {
		name    string
		members []models.FileRecord
		want    string
	}{
		{
			name:    "earliest date wins",
			members: []models.FileRecord{created("/a", "2022-05-01"), created("/b", "2019-12-31")},
			want:    "/b",
		},
		{
			name:    "absent never beats present",
			members: []models.FileRecord{{Path: "/a"}, created("/z", "2030-01-01")},
			want:    "/z",
		},
		{
			name:    "equal dates fall back to path",
			members: []models.FileRecord{created("/c", "2020-01-01"), created("/a", "2020-01-01"), created("/b", "2020-01-01")},
			want:    "/a",
		},
		{
			name:    "empty string is a present timestamp",
			members: []models.FileRecord{{Path: "/a"}, created("/b", "")},
			want:    "/b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EarliestCreation().Canonical(tt.members).Path)
		})
	}
}

func TestAlternativeStrategies(t *testing.T) {
	small := models.FileRecord{Path: "/small", FileSize: sql.NullInt64{Int64: 10, Valid: true},
		ModificationDate: sql.NullString{String: "2024-01-01", Valid: true}}
	big := models.FileRecord{Path: "/big", FileSize: sql.NullInt64{Int64: 900, Valid: true},
		ModificationDate: sql.NullString{String: "2020-01-01", Valid: true}}
	unknown := models.FileRecord{Path: "/a-unknown"}
	members := []models.FileRecord{unknown, small, big}

	assert.Equal(t, "/big", LargestFile().Canonical(members).Path)
	assert.Equal(t, "/small", LatestModification().Canonical(members).Path)

	twin := big
	twin.Path = "/another-big"
	assert.Equal(t, "/another-big", LargestFile().Canonical([]models.FileRecord{big, twin}).Path)
}

func TestStrategyByName(t *testing.T) {
	for _, s := range Strategies() {
		got, err := StrategyByName(s.Name())
		require.NoError(t, err)
		assert.Equal(t, s.Name(), got.Name())
	}

	def, err := StrategyByName("")
	require.NoError(t, err)
	assert.Equal(t, "earliest-creation", def.Name())

	_, err = StrategyByName("smallest-file")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

// The canonical choice must not depend on the order members are listed in,
// and every cluster of N members yields N-1 moves.
func TestSelectionIsOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	dates := []string{"2019-01-01", "2020-06-15", "2020-06-15", ""}

	for round := 0; round < 100; round++ {
		n := 2 + rng.Intn(6)
		var records []models.FileRecord
		var paths []string
		for i := 0; i < n; i++ {
			path := fmt.Sprintf("/p%02d", rng.Intn(100)+i*100)
			r := models.FileRecord{Path: path}
			if d := dates[rng.Intn(len(dates))]; d != "" {
				r.CreationDate = sql.NullString{String: d, Valid: true}
			}
			records = append(records, r)
			paths = append(paths, path)
		}
		meta := metaOf(records...)

		first, err := New(dest).Decide([]models.Cluster{{Members: paths}}, meta)
		require.NoError(t, err)
		require.Len(t, first[0].Move, n-1)

		rng.Shuffle(len(paths), func(i, j int) { paths[i], paths[j] = paths[j], paths[i] })
		second, err := New(dest).Decide([]models.Cluster{{Members: paths}}, meta)
		require.NoError(t, err)
		require.Equal(t, first[0].Keep.Path, second[0].Keep.Path)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	var clusters []models.Cluster
	var records []models.FileRecord
	for c := 0; c < 64; c++ {
		var members []string
		for m := 0; m < 4; m++ {
			path := fmt.Sprintf("/c%02d/m%d", c, m)
			members = append(members, path)
			records = append(records, created(path, fmt.Sprintf("2020-01-%02d", 1+(c+m*7)%28)))
		}
		clusters = append(clusters, models.Cluster{Members: members})
	}
	meta := metaOf(records...)

	sequential, err := New(dest).SelectMoves(clusters, meta)
	require.NoError(t, err)
	parallel, err := New(dest, WithWorkers(8)).SelectMoves(clusters, meta)
	require.NoError(t, err)

	assert.Len(t, sequential, 64*3)
	assert.Equal(t, sequential, parallel)
}

func TestDecideDoesNotMutateMetadata(t *testing.T) {
	meta := metaOf(created("A", "2020-01-01"), created("B", "2020-01-02"))
	before := fmt.Sprint(meta)

	_, err := New(dest, WithStrategy(LargestFile())).Decide([]models.Cluster{{Members: []string{"A", "B", "C"}}}, meta)
	require.NoError(t, err)

	assert.Equal(t, before, fmt.Sprint(meta))
	assert.Len(t, meta, 2)
}
