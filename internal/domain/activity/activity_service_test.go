package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roottrack-api/internal/utils/platformerrors"
)

type memoryRepo struct {
	entries   []*Entry
	lastLimit int
}

func (r *memoryRepo) Create(_ context.Context, entry *Entry) error {
	entry.ID = "activity-" + string(rune('a'+len(r.entries)))
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memoryRepo) ListRecent(_ context.Context, limit int) ([]*Entry, error) {
	r.lastLimit = limit
	out := make([]*Entry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

type recordingPublisher struct {
	published []*Entry
	err       error
}

func (p *recordingPublisher) PublishActivity(_ context.Context, entry *Entry) error {
	p.published = append(p.published, entry)
	return p.err
}

func TestLog_StoresAndPublishes(t *testing.T) {
	repo := &memoryRepo{}
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, zerolog.Nop())

	entry, err := svc.Log(context.Background(), LogInput{ActivityType: TypeNote, Description: "Moved to greenhouse"})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	require.Len(t, pub.published, 1)
	assert.Same(t, entry, pub.published[0])
}

func TestLog_PublishFailureIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewService(&memoryRepo{}, pub, zerolog.Nop())

	entry, err := svc.Log(context.Background(), LogInput{ActivityType: TypeLight, Description: "Light raised"})
	require.NoError(t, err)
	assert.NotNil(t, entry)
}

func TestAppend_DoesNotPublish(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewService(&memoryRepo{}, pub, zerolog.Nop())

	_, err := svc.Append(context.Background(), LogInput{ActivityType: TypeGermination, Description: "Sprouted"})
	require.NoError(t, err)
	assert.Empty(t, pub.published)
}

func TestLog_Validation(t *testing.T) {
	svc := NewService(&memoryRepo{}, nil, zerolog.Nop())

	_, err := svc.Log(context.Background(), LogInput{ActivityType: "dance", Description: "x"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = svc.Log(context.Background(), LogInput{ActivityType: TypeNote})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	bad := "plant-1"
	_, err = svc.Log(context.Background(), LogInput{PlantID: &bad, ActivityType: TypeNote, Description: "x"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestRecent_ClampsLimit(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, nil, zerolog.Nop())
	ctx := context.Background()

	for _, limit := range []int{-1, 0, MaxRecent + 1} {
		_, err := svc.Recent(ctx, limit)
		require.NoError(t, err)
		assert.Equal(t, MaxRecent, repo.lastLimit, "limit %d", limit)
	}

	_, err := svc.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, repo.lastLimit)
}

func TestPublish_SkipsNilEntries(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewService(&memoryRepo{}, pub, zerolog.Nop())

	svc.Publish(context.Background(), nil, &Entry{ID: "a"}, nil)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "a", pub.published[0].ID)
}
