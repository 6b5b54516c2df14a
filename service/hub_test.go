package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeService struct {
	name    string
	deps    []string
	log     *[]string
	initErr error
	gotArgs []any
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }

func (f *fakeService) Init(args ...any) error {
	f.gotArgs = args
	*f.log = append(*f.log, "init "+f.name)
	return f.initErr
}

func (f *fakeService) Start() error {
	*f.log = append(*f.log, "start "+f.name)
	return nil
}

func (f *fakeService) Stop() error {
	*f.log = append(*f.log, "stop "+f.name)
	return nil
}

func TestHubLifecycleOrder(t *testing.T) {
	var log []string
	h := NewHub(zaptest.NewLogger(t))

	require.NoError(t, h.Register(&fakeService{name: "terminal", deps: []string{"audio"}, log: &log}))
	audio := &fakeService{name: "audio", log: &log}
	require.NoError(t, h.Register(audio, true, 0.5))

	require.NoError(t, h.InitAll())
	require.NoError(t, h.StartAll())
	h.StopAll()
	h.StopAll()

	assert.Equal(t, []string{
		"init audio", "init terminal",
		"start audio", "start terminal",
		"stop terminal", "stop audio",
	}, log)
	assert.Equal(t, []any{true, 0.5}, audio.gotArgs)
	assert.Equal(t, []string{"audio", "terminal"}, h.Names())
}

func TestHubInitRollback(t *testing.T) {
	var log []string
	h := NewHub(nil)
	boom := errors.New("no device")

	require.NoError(t, h.Register(&fakeService{name: "a", log: &log}))
	require.NoError(t, h.Register(&fakeService{name: "b", deps: []string{"a"}, log: &log, initErr: boom}))

	err := h.InitAll()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"init a", "init b", "stop a"}, log)
}

func TestHubRejectsBadGraphs(t *testing.T) {
	var log []string

	h := NewHub(nil)
	require.NoError(t, h.Register(&fakeService{name: "a", deps: []string{"b"}, log: &log}))
	require.NoError(t, h.Register(&fakeService{name: "b", deps: []string{"a"}, log: &log}))
	assert.ErrorIs(t, h.InitAll(), ErrCircularDependency)

	h = NewHub(nil)
	require.NoError(t, h.Register(&fakeService{name: "a", deps: []string{"missing"}, log: &log}))
	assert.Error(t, h.InitAll())

	assert.Error(t, h.Register(&fakeService{name: "a", log: &log}), "duplicate name")
}

func TestMustGet(t *testing.T) {
	var log []string
	h := NewHub(nil)
	require.NoError(t, h.Register(&fakeService{name: "a", log: &log}))

	svc := MustGet[*fakeService](h, "a")
	assert.Equal(t, "a", svc.Name())
	assert.Panics(t, func() { MustGet[*fakeService](h, "b") })
}
