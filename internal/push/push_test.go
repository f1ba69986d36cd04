package push

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/storage/memory"
)

// browserSubscription returns a subscription JSON document with real client keys.
func browserSubscription(t *testing.T, endpoint string) []byte {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)

	return []byte(fmt.Sprintf(`{"endpoint":%q,"keys":{"p256dh":%q,"auth":%q}}`,
		endpoint,
		base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		base64.RawURLEncoding.EncodeToString(auth)))
}

func TestGenerateKeys(t *testing.T) {
	gokeyring.MockInit()
	ctx := context.Background()
	svc := NewService(memory.New())

	_, err := svc.PublicKey(ctx)
	assert.ErrorIs(t, err, ErrNoKeys)

	pub, err := svc.GenerateKeys(ctx)
	require.NoError(t, err)

	pubBytes, err := base64.RawURLEncoding.DecodeString(pub)
	require.NoError(t, err)
	assert.Len(t, pubBytes, 65)

	stored, err := svc.PublicKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, pub, stored)

	pub2, err := svc.GenerateKeys(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, pub, pub2)
}

func TestSubscribeValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New())

	assert.Error(t, svc.Subscribe(ctx, []byte("not json")))
	assert.Error(t, svc.Subscribe(ctx, []byte(`{"endpoint":"ftp://x","keys":{"p256dh":"a","auth":"b"}}`)))
	assert.Error(t, svc.Subscribe(ctx, []byte(`{"endpoint":"https://push.example.com/x","keys":{}}`)))
	assert.NoError(t, svc.Subscribe(ctx, browserSubscription(t, "https://push.example.com/x")))
}

func TestPermissionStatus(t *testing.T) {
	gokeyring.MockInit()
	ctx := context.Background()
	svc := NewService(memory.New())

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, reminder.StatusUndetermined, status)

	status, err = svc.Request(ctx)
	assert.ErrorIs(t, err, ErrNoKeys)
	assert.Equal(t, reminder.StatusDenied, status)

	_, err = svc.GenerateKeys(ctx)
	require.NoError(t, err)
	_, err = svc.Request(ctx)
	assert.ErrorIs(t, err, ErrNoSubscription)

	require.NoError(t, svc.Subscribe(ctx, browserSubscription(t, "https://push.example.com/x")))
	status, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, reminder.StatusGranted, status)
}

func TestSend(t *testing.T) {
	gokeyring.MockInit()
	ctx := context.Background()

	var hits int
	var gotTTL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		gotTTL = r.Header.Get("TTL")
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	kv := memory.New()
	svc := NewService(kv)
	_, err := svc.GenerateKeys(ctx)
	require.NoError(t, err)

	a := models.Alarm{ID: "a1", Title: "Read", Body: "Ten pages", Sound: true, FireAt: time.Now()}

	assert.ErrorIs(t, svc.Send(ctx, a), ErrNoSubscription)

	require.NoError(t, svc.Subscribe(ctx, browserSubscription(t, server.URL+"/ok")))
	require.NoError(t, svc.Send(ctx, a))
	assert.Equal(t, 1, hits)
	assert.Equal(t, fmt.Sprint(constants.PushTTLSeconds), gotTTL)

	require.NoError(t, svc.Subscribe(ctx, browserSubscription(t, server.URL+"/gone")))
	assert.ErrorIs(t, svc.Send(ctx, a), ErrExpired)

	_, found, err := kv.GetItem(ctx, constants.KeyPushSubscription)
	require.NoError(t, err)
	assert.False(t, found, "expired subscription should be removed")
}

func TestPayloadJSON(t *testing.T) {
	data, err := json.Marshal(Payload{Title: "Read", Body: "Ten pages", Silent: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Read","body":"Ten pages","silent":true}`, string(data))
}
