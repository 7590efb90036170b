package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/dedup-go/internal/models"
)

func threeMembers() models.Group {
	return models.Group{Files: []models.File{
		{Path: "/m0", Size: 3},
		{Path: "/m1", Size: 3},
		{Path: "/m2", Size: 3},
	}}
}

func TestPrompterChoose(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("2\n"), &out)

	keep, err := p.Choose(context.Background(), threeMembers(), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, keep)
	assert.Contains(t, out.String(), "[1/1] 3 identical files")
	assert.Contains(t, out.String(), "  0  /m0")
	assert.Contains(t, out.String(), "  2  /m2")
}

func TestPrompterRepromptsOnInvalidInput(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("x\n0 9\nnone\n"), &out)

	keep, err := p.Choose(context.Background(), threeMembers(), 0, 1)
	require.NoError(t, err)
	assert.Empty(t, keep)
	assert.Equal(t, 3, strings.Count(out.String(), "Keep which files?"))
	assert.Contains(t, out.String(), "invalid selection")
}

func TestPrompterLastLineWithoutNewline(t *testing.T) {
	p := newPrompter(strings.NewReader("a"), io.Discard)

	keep, err := p.Choose(context.Background(), threeMembers(), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, keep)
}

func TestPrompterEndOfInput(t *testing.T) {
	p := newPrompter(strings.NewReader("bogus"), io.Discard)

	_, err := p.Choose(context.Background(), threeMembers(), 0, 1)
	assert.ErrorIs(t, err, io.EOF)
}
