package parsers_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janpfeifer/mhdsolve/parsers"
)

func TestParseDatLine(t *testing.T) {
	inst, err := parsers.ParseDatLine("knap01 3 10 2 3 4 5 6 7")
	require.NoError(t, err)
	assert.Equal(t, "knap01", inst.ID)
	assert.EqualValues(t, 10, inst.Problem.Capacity())
	assert.Equal(t, []int64{2, 4, 6}, inst.Problem.Weights())
	assert.Equal(t, []int64{3, 5, 7}, inst.Problem.Values())
}

func TestParseDatLineMalformed(t *testing.T) {
	_, err := parsers.ParseDatLine("knap01 3 10 2 3 4 5 6")
	assert.Error(t, err)
}

func TestParseDatStopsAtBlankLine(t *testing.T) {
	src := "a 2 5 1 1 2 2\n\nb 2 5 1 1 2 2\n"
	instances, err := parsers.ParseDat(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "a", instances[0].ID)
}

func TestParseDatMultipleLines(t *testing.T) {
	src := "a 2 5 1 1 2 2\nb 2 8 1 1 2 2\n"
	instances, err := parsers.ParseDat(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, "b", instances[1].ID)
	assert.EqualValues(t, 8, instances[1].Problem.Capacity())
}
