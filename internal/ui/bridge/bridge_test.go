package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Its-donkey/admin-picker/internal/ui/model"
)

func TestResolveNilIsUnavailable(t *testing.T) {
	b := Resolve(nil)
	assert.IsType(t, Unavailable{}, b)
	assert.False(t, b.Available())
	assert.NoError(t, b.Init(model.Theme{}))
	assert.NoError(t, b.Send([]byte(`{}`)))
	assert.NoError(t, b.Close())
	_, ok := b.User()
	assert.False(t, ok)
}

func TestResolveKeepsBridge(t *testing.T) {
	rec := &Recorder{Present: true}
	assert.Same(t, rec, Resolve(rec))
}

func TestRecorderCopiesPayload(t *testing.T) {
	rec := &Recorder{Present: true}
	payload := []byte(`{"a":1}`)
	assert.NoError(t, rec.Send(payload))
	payload[0] = 'x'

	sent := rec.Sent()
	assert.Len(t, sent, 1)
	assert.Equal(t, `{"a":1}`, string(sent[0]))
}
