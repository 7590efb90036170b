package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/dedup-go/internal/service"
)

func TestProgressModelFollowsJob(t *testing.T) {
	job := service.NewJob()
	cancelled := false
	m := newProgressModel(job, func() { cancelled = true })

	job.SetPhase(service.PhaseComparing)
	job.UpdateProgress(5, 20)
	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(progressModel)
	require.NotNil(t, cmd)
	assert.False(t, m.done)
	assert.Contains(t, m.renderContent(), "5/20 files")

	job.Complete(&service.FindResult{})
	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(progressModel)
	assert.True(t, m.done)
	assert.Contains(t, m.renderContent(), "Compared all candidates")
	assert.False(t, cancelled)
}

func TestProgressModelShowsFailure(t *testing.T) {
	job := service.NewJob()
	m := newProgressModel(job, func() {})

	job.Fail(errors.New("no readable root paths"))
	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(progressModel)
	assert.True(t, m.done)
	assert.Contains(t, m.renderContent(), "no readable root paths")
}

func TestProgressModelQuitCancels(t *testing.T) {
	cancelled := false
	m := newProgressModel(service.NewJob(), func() { cancelled = true })

	next, _ := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	m = next.(progressModel)
	assert.True(t, m.quitting)
	assert.True(t, cancelled)
}

func TestPlainProgress(t *testing.T) {
	var buf bytes.Buffer
	report := plainProgress(&buf)
	report(1, 4)
	report(4, 4)

	assert.Equal(t, "\rFile 1/4 (25%)\rFile 4/4 (100%)\n", buf.String())
}
